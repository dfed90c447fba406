// Package diffengine implements BlastMerge's diff engine (C4): a
// line-level edit script between two line sequences, built on
// diffmatchpatch's DiffLinesToChars / DiffMain / DiffCharsToLines pipeline
// to run Myers' algorithm at line granularity rather than character
// granularity.
package diffengine

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
)

// Kind tags a LineDiff's shape.
type Kind int

const (
	Added Kind = iota
	Deleted
	Modified
)

// LineDiff is one tagged edit between two line sequences. Line numbers are
// 1-based; HasA/HasB mirror which side actually has a line.
type LineDiff struct {
	Kind     Kind
	LineNoA  int
	LineNoB  int
	ContentA string
	ContentB string
	HasA     bool
	HasB     bool
}

// OpKind tags a raw, uncoalesced edit-script operation.
type OpKind int

const (
	OpEqual OpKind = iota
	OpDelete
	OpInsert
)

// Op is one line of the raw edit script, before the Delete+Insert
// coalescing that produces LineDiffs. Unlike LineDiff, OpEqual entries are
// retained so callers can drive a between-block copy off the real Equal
// run rather than off index arithmetic, which drifts as soon as an
// earlier insert or delete shifts one side's line numbers out of lockstep
// with the other.
type Op struct {
	Kind    OpKind
	LineA   int // 0 if this op has no A-side line
	LineB   int // 0 if this op has no B-side line
	Content string
}

// largeInputThreshold triggers the linear prefix-then-edit fallback
// to bound worst-case memory on very large inputs.
const largeInputThreshold = 5000

// Diff computes the coalesced edit script turning a into b: the canonical
// algorithm is Myers' O(ND) diff (via diffmatchpatch's line mode), falling
// back to a linear prefix/suffix reduction on oversized inputs.
func Diff(a, b []string) ([]LineDiff, error) {
	ops, err := Ops(a, b)
	if err != nil {
		return nil, err
	}
	return coalesce(ops), nil
}

// Ops computes the raw, uncoalesced edit script (Equal/Delete/Insert)
// turning a into b.
func Ops(a, b []string) ([]Op, error) {
	if len(a) == 0 && len(b) == 0 {
		return nil, nil
	}
	if len(a) == 0 {
		return opsAllInsert(b), nil
	}
	if len(b) == 0 {
		return opsAllDelete(a), nil
	}
	if len(a) > largeInputThreshold || len(b) > largeInputThreshold {
		return opsWithPrefixSuffixFallback(a, b)
	}
	return opsMyers(a, b), nil
}

// opsMyers runs the canonical Myers O(ND) diff at line granularity.
func opsMyers(a, b []string) []Op {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	aJoined := strings.Join(a, "\n")
	bJoined := strings.Join(b, "\n")
	aEnc, bEnc, lineArray := dmp.DiffLinesToChars(aJoined, bJoined)
	diffs := dmp.DiffMain(aEnc, bEnc, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	return opsFromDiffs(diffs)
}

func opsFromDiffs(diffs []diffmatchpatch.Diff) []Op {
	var ops []Op
	lineA, lineB := 1, 1

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, Op{Kind: OpEqual, LineA: lineA, LineB: lineB, Content: line})
				lineA++
				lineB++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, Op{Kind: OpDelete, LineA: lineA, Content: line})
				lineA++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, Op{Kind: OpInsert, LineB: lineB, Content: line})
				lineB++
			}
		}
	}
	return ops
}

// splitLines splits text on "\n" the way diffmatchpatch's line-mode chunks
// arrive: every chunk except possibly the final one of the entire diff ends
// with a trailing separator, which produces one spurious empty trailing
// element from strings.Split.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// coalesce turns adjacent (Delete, Insert) pairs into a single Modified
// LineDiff. Standalone deletes become Deleted; standalone inserts become
// Added; Equal ops are dropped, since LineDiff only represents the edit
// script, not the unchanged regions between edits.
func coalesce(ops []Op) []LineDiff {
	var out []LineDiff
	i := 0
	for i < len(ops) {
		op := ops[i]
		switch op.Kind {
		case OpEqual:
			i++
		case OpDelete:
			if i+1 < len(ops) && ops[i+1].Kind == OpInsert {
				ins := ops[i+1]
				out = append(out, LineDiff{
					Kind:     Modified,
					LineNoA:  op.LineA,
					LineNoB:  ins.LineB,
					ContentA: op.Content,
					ContentB: ins.Content,
					HasA:     true,
					HasB:     true,
				})
				i += 2
			} else {
				out = append(out, LineDiff{
					Kind:     Deleted,
					LineNoA:  op.LineA,
					ContentA: op.Content,
					HasA:     true,
				})
				i++
			}
		case OpInsert:
			out = append(out, LineDiff{
				Kind:     Added,
				LineNoB:  op.LineB,
				ContentB: op.Content,
				HasB:     true,
			})
			i++
		}
	}
	return out
}

func opsAllInsert(b []string) []Op {
	out := make([]Op, len(b))
	for i, line := range b {
		out[i] = Op{Kind: OpInsert, LineB: i + 1, Content: line}
	}
	return out
}

func opsAllDelete(a []string) []Op {
	out := make([]Op, len(a))
	for i, line := range a {
		out[i] = Op{Kind: OpDelete, LineA: i + 1, Content: line}
	}
	return out
}

// opsWithPrefixSuffixFallback bounds memory on very large inputs by
// stripping the common prefix and suffix before running the full diff on
// the (hopefully much smaller) remainder. If the remainder is still
// oversized this reports DiffOverflow rather than risk unbounded memory use.
func opsWithPrefixSuffixFallback(a, b []string) ([]Op, error) {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	var out []Op
	for i := 0; i < prefix; i++ {
		out = append(out, Op{Kind: OpEqual, LineA: i + 1, LineB: i + 1, Content: a[i]})
	}

	midA := a[prefix : len(a)-suffix]
	midB := b[prefix : len(b)-suffix]

	const hardCap = 200000
	if len(midA)*len(midB) > hardCap*hardCap {
		return nil, bmerrors.Overflow("diff input exceeds internal budget even after prefix/suffix reduction")
	}

	mid := opsMyers(midA, midB)
	for _, op := range mid {
		if op.LineA != 0 {
			op.LineA += prefix
		}
		if op.LineB != 0 {
			op.LineB += prefix
		}
		out = append(out, op)
	}

	for i := 0; i < suffix; i++ {
		lineA := len(a) - suffix + i + 1
		lineB := len(b) - suffix + i + 1
		out = append(out, Op{Kind: OpEqual, LineA: lineA, LineB: lineB, Content: a[len(a)-suffix+i]})
	}
	return out, nil
}

// Apply replays a coalesced edit script against a to reconstruct b, used
// by tests to check that replaying a diff against a reconstructs b.
func Apply(a []string, diffs []LineDiff) []string {
	var out []string
	cursor := 0
	for _, d := range diffs {
		if d.HasA {
			for cursor < d.LineNoA-1 {
				out = append(out, a[cursor])
				cursor++
			}
		} else {
			// An Added diff sits at B line LineNoB: copy the unchanged A lines
			// that precede it in B.
			for len(out) < d.LineNoB-1 && cursor < len(a) {
				out = append(out, a[cursor])
				cursor++
			}
		}
		switch d.Kind {
		case Added:
			out = append(out, d.ContentB)
		case Deleted:
			cursor++
		case Modified:
			out = append(out, d.ContentB)
			cursor++
		}
	}
	out = append(out, a[cursor:]...)
	return out
}
