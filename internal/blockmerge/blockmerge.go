// Package blockmerge implements BlastMerge's block merger (C7): weaving
// unchanged regions with caller-resolved conflict blocks into a single
// merged line sequence.
//
// Driving the "copy equal lines between blocks" phase from naive A/B
// index equality loses lines whenever an earlier insert or delete shifts a
// later equal run out of lockstep between the two sides. This
// implementation instead drives the between-block copy from the diff
// engine's raw Equal operations (diffengine.Ops), which stay correct
// regardless of how much the two sides have drifted.
package blockmerge

import (
	"github.com/ktsu-dev/blastmerge/internal/block"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/diffengine"
)

// Choice is the polymorphic resolution for one DiffBlock, modeled as a
// tagged variant rather than a runtime type check.
type Choice int

const (
	// Insert block choices.
	Include Choice = iota
	Skip

	// Delete block choices.
	Keep
	Remove

	// Replace block choices.
	UseA
	UseB
	UseBoth
)

// Cancel is a sentinel a Resolver may return to abort the merge early.
type Cancel struct{}

func (Cancel) Error() string { return "merge cancelled by resolver" }

// Resolver is invoked once per block, in ascending block order, and must
// return a Choice compatible with the block's Kind, or a Cancel error.
type Resolver func(blk block.DiffBlock, ctx block.Context, index int) (Choice, error)

// Conflict records an advisory note a resolver attached to a block; these
// never block completion.
type Conflict struct {
	BlockIndex int
	Message    string
}

// Result is the outcome of a full block-merge pass.
type Result struct {
	MergedLines []string
	Conflicts   []Conflict
}

// Merge weaves a and b into a single line sequence, delegating every
// conflict block to resolve. It returns bmerrors.KindCancelled if the
// resolver cancels, or bmerrors.KindInvalidChoice if a choice doesn't fit
// its block's kind.
func Merge(a, b []string, resolve Resolver) (*Result, error) {
	diffs, err := diffengine.Diff(a, b)
	if err != nil {
		return nil, err
	}
	blocks := block.Extract(diffs)
	if len(blocks) == 0 {
		// No edits: a and b agree on content; merge identity holds trivially.
		return &Result{MergedLines: append([]string{}, a...)}, nil
	}

	ops, err := diffengine.Ops(a, b)
	if err != nil {
		return nil, err
	}

	var out []string
	var conflicts []Conflict
	opIdx := 0

	copyEqualUntilBlock := func(blk block.DiffBlock) {
		for opIdx < len(ops) {
			op := ops[opIdx]
			if op.Kind != diffengine.OpEqual {
				return
			}
			if startsBlock(op, blk) {
				return
			}
			out = append(out, op.Content)
			opIdx++
		}
	}

	for i, blk := range blocks {
		copyEqualUntilBlock(blk)

		ctx := block.BuildContext(a, b, blk)
		choice, rerr := resolve(blk, ctx, i)
		if rerr != nil {
			if _, ok := rerr.(Cancel); ok {
				return &Result{MergedLines: out, Conflicts: conflicts}, bmerrors.CancelledErr("merge cancelled during block resolution")
			}
			return nil, rerr
		}

		applied, aerr := applyChoice(blk, choice)
		if aerr != nil {
			return nil, aerr
		}
		out = append(out, applied...)

		// Advance opIdx past the raw ops consumed by this block (the
		// contiguous run of Delete/Insert ops it was coalesced from).
		opIdx += len(blk.LineNosA) + len(blk.LineNosB)
	}

	for opIdx < len(ops) {
		if ops[opIdx].Kind == diffengine.OpEqual {
			out = append(out, ops[opIdx].Content)
		}
		opIdx++
	}

	return &Result{MergedLines: out, Conflicts: conflicts}, nil
}

// startsBlock reports whether op is the first non-equal op of blk.
func startsBlock(op diffengine.Op, blk block.DiffBlock) bool {
	if len(blk.LineNosA) > 0 && op.LineA == blk.LineNosA[0] {
		return true
	}
	if len(blk.LineNosA) == 0 && len(blk.LineNosB) > 0 && op.LineB == blk.LineNosB[0] {
		return true
	}
	return false
}

func applyChoice(blk block.DiffBlock, choice Choice) ([]string, error) {
	switch blk.Kind {
	case block.Insert:
		switch choice {
		case Include:
			return blk.LinesB, nil
		case Skip:
			return nil, nil
		}
	case block.Delete:
		switch choice {
		case Keep:
			return blk.LinesA, nil
		case Remove:
			return nil, nil
		}
	case block.Replace:
		switch choice {
		case UseA:
			return blk.LinesA, nil
		case UseB:
			return blk.LinesB, nil
		case UseBoth:
			return append(append([]string{}, blk.LinesA...), blk.LinesB...), nil
		case Skip:
			return nil, nil
		}
	}
	return nil, bmerrors.InvalidChoice("resolver choice is not valid for this block's kind")
}
