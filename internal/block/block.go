// Package block implements BlastMerge's block extractor (C6): grouping the
// diff engine's LineDiffs into typed conflict blocks with surrounding
// context, using a line-adjacency rule adapted from hunk-grouping patterns
// seen elsewhere in diff tooling (e.g. groupIntoHunks-style grouping over
// character or semantic hunks).
package block

import "github.com/ktsu-dev/blastmerge/internal/diffengine"

// Kind tags a DiffBlock's shape, derived from which sides are non-empty.
type Kind int

const (
	// Insert: only the B side is non-empty.
	Insert Kind = iota
	// Delete: only the A side is non-empty.
	Delete
	// Replace: both sides are non-empty.
	Replace
)

// DiffBlock is one conflict region: a contiguous run of non-Equal edits
// between two versions, grouped by Extract's adjacency rule. A run that
// deletes two or more lines and also inserts lines (starting after B's
// first line) comes out as two consecutive blocks: a Delete block with all
// but its last deleted line, then a Replace block with the rest. Blocks are
// pairwise disjoint and returned in ascending order by the minimum affected
// line number in A (ties broken by B).
type DiffBlock struct {
	Kind      Kind
	LinesA    []string
	LinesB    []string
	LineNosA  []int
	LineNosB  []int
}

// Context is up to K=3 lines drawn from each side's unchanged regions
// adjoining a block.
type Context struct {
	BeforeA []string
	AfterA  []string
	BeforeB []string
	AfterB  []string
}

const contextSize = 3

// Extract groups diffs into blocks: two LineDiffs belong to the same block
// iff both have LineNoA within 1 of the block's running max LineNoA, and
// similarly for LineNoB. Otherwise a new block starts.
func Extract(diffs []diffengine.LineDiff) []DiffBlock {
	if len(diffs) == 0 {
		return nil
	}

	var blocks []DiffBlock
	var cur *DiffBlock
	var maxA, maxB int

	flush := func() {
		if cur != nil {
			cur.Kind = deriveKind(*cur)
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for _, d := range diffs {
		belongs := cur != nil && adjacent(d, maxA, maxB)
		if !belongs {
			flush()
			cur = &DiffBlock{}
			maxA, maxB = 0, 0
		}
		appendDiff(cur, d)
		if d.HasA && d.LineNoA > maxA {
			maxA = d.LineNoA
		}
		if d.HasB && d.LineNoB > maxB {
			maxB = d.LineNoB
		}
	}
	flush()
	return blocks
}

func adjacent(d diffengine.LineDiff, maxA, maxB int) bool {
	aOK := true
	if d.HasA {
		aOK = d.LineNoA <= maxA+1
	}
	bOK := true
	if d.HasB {
		bOK = d.LineNoB <= maxB+1
	}
	// At least one side must actually be tracked for adjacency to mean
	// anything; an Added-only diff only constrains the B side, a
	// Deleted-only diff only constrains the A side.
	return aOK && bOK
}

func appendDiff(b *DiffBlock, d diffengine.LineDiff) {
	switch d.Kind {
	case diffengine.Added:
		b.LinesB = append(b.LinesB, d.ContentB)
		b.LineNosB = append(b.LineNosB, d.LineNoB)
	case diffengine.Deleted:
		b.LinesA = append(b.LinesA, d.ContentA)
		b.LineNosA = append(b.LineNosA, d.LineNoA)
	case diffengine.Modified:
		b.LinesA = append(b.LinesA, d.ContentA)
		b.LineNosA = append(b.LineNosA, d.LineNoA)
		b.LinesB = append(b.LinesB, d.ContentB)
		b.LineNosB = append(b.LineNosB, d.LineNoB)
	}
}

func deriveKind(b DiffBlock) Kind {
	switch {
	case len(b.LinesA) > 0 && len(b.LinesB) > 0:
		return Replace
	case len(b.LinesA) > 0:
		return Delete
	default:
		return Insert
	}
}

// BuildContext returns up to contextSize lines preceding the block's
// minimum affected line (in each side) and up to contextSize lines
// following the maximum, clipped to the respective file's bounds.
func BuildContext(a, b []string, blk DiffBlock) Context {
	var ctx Context

	if len(blk.LineNosA) > 0 {
		minA := blk.LineNosA[0]
		maxA := blk.LineNosA[len(blk.LineNosA)-1]
		ctx.BeforeA = sliceBefore(a, minA, contextSize)
		ctx.AfterA = sliceAfter(a, maxA, contextSize)
	}
	if len(blk.LineNosB) > 0 {
		minB := blk.LineNosB[0]
		maxB := blk.LineNosB[len(blk.LineNosB)-1]
		ctx.BeforeB = sliceBefore(b, minB, contextSize)
		ctx.AfterB = sliceAfter(b, maxB, contextSize)
	}
	return ctx
}

// sliceBefore returns up to n lines strictly before the 1-based line
// minLine (clipped to the file's start).
func sliceBefore(lines []string, minLine, n int) []string {
	end := minLine - 1 // 0-based index, exclusive
	if end > len(lines) {
		end = len(lines)
	}
	start := end - n
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil
	}
	return append([]string{}, lines[start:end]...)
}

// sliceAfter returns up to n lines strictly after the 1-based line
// maxLine (clipped to the file's end).
func sliceAfter(lines []string, maxLine, n int) []string {
	start := maxLine // 0-based index of the line after maxLine
	if start < 0 {
		start = 0
	}
	if start > len(lines) {
		start = len(lines)
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return append([]string{}, lines[start:end]...)
}
