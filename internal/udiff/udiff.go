// Package udiff renders BlastMerge's diff engine output as a standard
// unified diff: "--- a/NAME" / "+++ b/NAME" headers and "@@ -os,oc
// +ns,nc @@" hunks, returned as a string rather than printed directly
// so it can back both the diff command and a merge preview.
package udiff

import (
	"fmt"
	"strings"

	"github.com/ktsu-dev/blastmerge/internal/diffengine"
)

// DefaultContext is the number of unchanged lines shown around each hunk
// when Options.Context is unset.
const DefaultContext = 3

// Options configures unified-diff rendering.
type Options struct {
	NameA   string
	NameB   string
	Context int
}

// hunk is one contiguous run of ops plus its surrounding context.
type hunk struct {
	ops                []diffengine.Op
	oldStart, newStart int
	oldCount, newCount int
}

// Render produces a unified diff of a against b.
func Render(a, b []string, opts Options) (string, error) {
	ops, err := diffengine.Ops(a, b)
	if err != nil {
		return "", err
	}
	if allEqual(ops) {
		return "", nil
	}

	ctx := opts.Context
	if ctx <= 0 {
		ctx = DefaultContext
	}

	hunks := buildHunks(ops, ctx)

	var sb strings.Builder
	nameA := opts.NameA
	if nameA == "" {
		nameA = "a"
	}
	nameB := opts.NameB
	if nameB == "" {
		nameB = "b"
	}
	fmt.Fprintf(&sb, "--- a/%s\n", nameA)
	fmt.Fprintf(&sb, "+++ b/%s\n", nameB)

	for _, h := range hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldCount, h.newStart, h.newCount)
		for _, op := range h.ops {
			switch op.Kind {
			case diffengine.OpEqual:
				fmt.Fprintf(&sb, " %s\n", op.Content)
			case diffengine.OpDelete:
				fmt.Fprintf(&sb, "-%s\n", op.Content)
			case diffengine.OpInsert:
				fmt.Fprintf(&sb, "+%s\n", op.Content)
			}
		}
	}
	return sb.String(), nil
}

func allEqual(ops []diffengine.Op) bool {
	for _, op := range ops {
		if op.Kind != diffengine.OpEqual {
			return false
		}
	}
	return true
}

// changeRun is a maximal contiguous span of non-equal ops.
type changeRun struct {
	start, end int // [start,end) into ops
}

// buildHunks groups ops into hunks the way standard unified-diff tools
// do: each change run carries up to ctx lines of context on either side,
// and two change runs merge into one hunk whenever the equal gap between
// them is no larger than 2*ctx (so their context windows overlap).
func buildHunks(ops []diffengine.Op, ctx int) []hunk {
	runs := changeRuns(ops)
	if len(runs) == 0 {
		return nil
	}

	var hunks []hunk
	i := 0
	for i < len(runs) {
		j := i
		for j+1 < len(runs) {
			gap := runs[j+1].start - runs[j].end
			if gap > 2*ctx {
				break
			}
			j++
		}

		start := runs[i].start - ctx
		if start < 0 {
			start = 0
		}
		end := runs[j].end + ctx
		if end > len(ops) {
			end = len(ops)
		}

		hunks = append(hunks, buildHunk(ops[start:end]))
		i = j + 1
	}
	return hunks
}

// changeRuns returns every maximal contiguous span of non-equal ops.
func changeRuns(ops []diffengine.Op) []changeRun {
	var runs []changeRun
	i := 0
	for i < len(ops) {
		if ops[i].Kind == diffengine.OpEqual {
			i++
			continue
		}
		start := i
		for i < len(ops) && ops[i].Kind != diffengine.OpEqual {
			i++
		}
		runs = append(runs, changeRun{start: start, end: i})
	}
	return runs
}

func buildHunk(ops []diffengine.Op) hunk {
	h := hunk{ops: ops}
	for _, op := range ops {
		switch op.Kind {
		case diffengine.OpEqual:
			if h.oldStart == 0 {
				h.oldStart = op.LineA
			}
			if h.newStart == 0 {
				h.newStart = op.LineB
			}
			h.oldCount++
			h.newCount++
		case diffengine.OpDelete:
			if h.oldStart == 0 {
				h.oldStart = op.LineA
			}
			h.oldCount++
		case diffengine.OpInsert:
			if h.newStart == 0 {
				h.newStart = op.LineB
			}
			h.newCount++
		}
	}
	if h.oldStart == 0 {
		h.oldStart = 1
	}
	if h.newStart == 0 {
		h.newStart = 1
	}
	return h
}
