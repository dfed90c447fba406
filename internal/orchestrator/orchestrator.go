// Package orchestrator implements BlastMerge's iterative orchestrator
// (C8): the state machine that drives an N-version file group down to a
// single survivor, one pairwise merge at a time.
package orchestrator

import (
	"github.com/ktsu-dev/blastmerge/internal/blockmerge"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/group"
	"github.com/ktsu-dev/blastmerge/internal/similarity"
	"github.com/ktsu-dev/blastmerge/internal/textio"
)

// bufferLabel stands in for the virtual left-hand side once a merge
// buffer exists, in place of a real path.
const bufferLabel = "(merged buffer)"

// Status is the informational record passed to ReportStatus once per
// round, before that round's first block resolution.
type Status struct {
	Round          int
	RemainingCount int
	CompletedCount int
	ChosenA        string
	ChosenB        string
}

// Completion is the outcome of a full iterative merge.
type Completion struct {
	Successful   bool
	FinalLines   []string
	FinalContent []byte
	Rounds       int
	Conflicts    []blockmerge.Conflict
	Reason       string
}

// ReportStatus is invoked once per round with the round's bookkeeping.
// Its return value is ignored.
type ReportStatus func(Status)

// AskContinue is invoked only when more than one representative remains
// after a round; false requests a graceful stop.
type AskContinue func() bool

// Run drives groups down to a single merged buffer, delegating every
// conflict block to resolve. It requires at least two groups, each with
// at least one path.
func Run(groups []group.FileGroup, resolve blockmerge.Resolver, reportStatus ReportStatus, askContinue AskContinue) (*Completion, error) {
	if len(groups) < 2 {
		return nil, bmerrors.Invalid("iterative merge requires at least 2 distinct groups")
	}
	representatives := make([]string, len(groups))
	for i, g := range groups {
		if len(g.Paths) == 0 {
			return nil, bmerrors.Invalid("every group must contain at least one path")
		}
		representatives[i] = g.Paths[0]
	}

	remaining := append([]string{}, representatives...)
	var buffer []string
	var bufferHasContent bool
	var trailingNewline bool
	var allConflicts []blockmerge.Conflict
	round := 0

	fail := func(reason string) *Completion {
		return &Completion{
			FinalLines:   buffer,
			FinalContent: textio.JoinLines(buffer, trailingNewline),
			Rounds:       round - 1,
			Conflicts:    allConflicts,
			Reason:       reason,
		}
	}

	for {
		round++
		completedBefore := len(representatives) - len(remaining)

		var aPath, bPath string
		var aLines, bLines []string

		if !bufferHasContent {
			i, j, err := bestPair(remaining)
			if err != nil {
				return nil, err
			}
			aPath, bPath = remaining[i], remaining[j]
			aLines, _, err = textio.ReadLines(aPath)
			if err != nil {
				return nil, err
			}
			bLines, trailingNewline, err = textio.ReadLines(bPath)
			if err != nil {
				return nil, err
			}
			remaining = removeIndices(remaining, i, j)
		} else {
			aPath = bufferLabel
			aLines = buffer
			j, err := bestMatch(buffer, remaining)
			if err != nil {
				return nil, err
			}
			bPath = remaining[j]
			var err2 error
			bLines, trailingNewline, err2 = textio.ReadLines(bPath)
			if err2 != nil {
				return nil, err2
			}
			remaining = removeIndices(remaining, j)
		}

		if reportStatus != nil {
			reportStatus(Status{
				Round:          round,
				RemainingCount: len(remaining),
				CompletedCount: completedBefore,
				ChosenA:        aPath,
				ChosenB:        bPath,
			})
		}

		result, merr := blockmerge.Merge(aLines, bLines, resolve)
		if merr != nil {
			if be, ok := merr.(*bmerrors.Error); ok && be.Kind == bmerrors.KindCancelled {
				c := fail("cancelled during block resolution")
				return c, nil
			}
			c := fail(merr.Error())
			return c, nil
		}

		buffer = result.MergedLines
		bufferHasContent = true
		allConflicts = append(allConflicts, result.Conflicts...)

		// The loop continues as long as any original representative is
		// still unmerged into the buffer; this is what makes the round
		// count exactly N-1 for N starting groups regardless of whether a
		// round consumed two representatives (the first) or one
		// representative plus the standing buffer (every round after).
		if len(remaining) > 0 {
			if askContinue != nil && !askContinue() {
				c := fail("cancelled before next round")
				c.Rounds = round
				return c, nil
			}
			continue
		}

		return &Completion{
			Successful:   true,
			FinalLines:   buffer,
			FinalContent: textio.JoinLines(buffer, trailingNewline),
			Rounds:       round,
			Conflicts:    allConflicts,
		}, nil
	}
}

// bestPair returns the index pair in remaining whose content similarity
// is highest, tie-broken lexicographically on path.
func bestPair(remaining []string) (int, int, error) {
	contents := make([][]string, len(remaining))
	for i, p := range remaining {
		lines, _, err := textio.ReadLines(p)
		if err != nil {
			return 0, 0, err
		}
		contents[i] = lines
	}

	bestI, bestJ := 0, 1
	bestScore := -1.0
	for i := 0; i < len(remaining); i++ {
		for j := i + 1; j < len(remaining); j++ {
			s := similarity.Score(contents[i], contents[j])
			if s > bestScore ||
				(s == bestScore && lexLess(remaining[i], remaining[j], remaining[bestI], remaining[bestJ])) {
				bestScore = s
				bestI, bestJ = i, j
			}
		}
	}
	return bestI, bestJ, nil
}

func lexLess(ai, aj, bi, bj string) bool {
	if ai != bi {
		return ai < bi
	}
	return aj < bj
}

// bestMatch returns the index in remaining whose content is most similar
// to buffer, tie-broken lexicographically on path.
func bestMatch(buffer []string, remaining []string) (int, error) {
	bestIdx := 0
	bestScore := -1.0
	for i, p := range remaining {
		lines, _, err := textio.ReadLines(p)
		if err != nil {
			return 0, err
		}
		s := similarity.Score(buffer, lines)
		if s > bestScore || (s == bestScore && remaining[i] < remaining[bestIdx]) {
			bestScore = s
			bestIdx = i
		}
	}
	return bestIdx, nil
}

// removeIndices returns remaining with the given indices dropped,
// preserving relative order.
func removeIndices(remaining []string, idxs ...int) []string {
	drop := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		drop[i] = true
	}
	out := make([]string, 0, len(remaining)-len(idxs))
	for i, p := range remaining {
		if !drop[i] {
			out = append(out, p)
		}
	}
	return out
}
