package block

import (
	"testing"

	"github.com/ktsu-dev/blastmerge/internal/diffengine"
)

func diffFor(t *testing.T, a, b []string) []diffengine.LineDiff {
	t.Helper()
	d, err := diffengine.Diff(a, b)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	return d
}

func TestExtractSingleReplaceBlock(t *testing.T) {
	a := []string{"1", "2", "3"}
	b := []string{"1", "2", "X"}
	blocks := Extract(diffFor(t, a, b))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != Replace {
		t.Fatalf("expected Replace, got %v", blocks[0].Kind)
	}
}

func TestExtractInsertBlock(t *testing.T) {
	a := []string{"a", "b"}
	b := []string{"a", "inserted", "b"}
	blocks := Extract(diffFor(t, a, b))
	if len(blocks) != 1 || blocks[0].Kind != Insert {
		t.Fatalf("expected single Insert block, got %+v", blocks)
	}
	if len(blocks[0].LinesA) != 0 {
		t.Fatalf("Insert block must have empty A side")
	}
}

func TestExtractDeleteBlock(t *testing.T) {
	a := []string{"a", "gone", "b"}
	b := []string{"a", "b"}
	blocks := Extract(diffFor(t, a, b))
	if len(blocks) != 1 || blocks[0].Kind != Delete {
		t.Fatalf("expected single Delete block, got %+v", blocks)
	}
	if len(blocks[0].LinesB) != 0 {
		t.Fatalf("Delete block must have empty B side")
	}
}

func TestBlockCoverageAndOrdering(t *testing.T) {
	a := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	b := []string{"1", "X", "3", "4", "5", "6", "7", "Y", "9", "Z"}
	diffs := diffFor(t, a, b)
	blocks := Extract(diffs)

	total := 0
	for _, blk := range blocks {
		total += len(blk.LineNosA) + len(blk.LineNosB)
	}
	expected := 0
	for _, d := range diffs {
		if d.HasA {
			expected++
		}
		if d.HasB {
			expected++
		}
	}
	if total != expected {
		t.Fatalf("block coverage mismatch: got %d line refs, want %d", total, expected)
	}

	for i := 1; i < len(blocks); i++ {
		prevMin := blocks[i-1].LineNosA[0]
		curMin := blocks[i].LineNosA[0]
		if curMin < prevMin {
			t.Fatalf("blocks not ascending by min LineNoA: %d before %d", prevMin, curMin)
		}
	}
}

func TestBuildContextClipsToBounds(t *testing.T) {
	a := []string{"1", "2", "3"}
	b := []string{"1", "2", "X"}
	blocks := Extract(diffFor(t, a, b))
	ctx := BuildContext(a, b, blocks[0])
	if len(ctx.BeforeA) > 3 || len(ctx.AfterA) > 3 {
		t.Fatalf("context exceeds K=3: %+v", ctx)
	}
	if got, want := ctx.BeforeA, []string{"1", "2"}; !equalSlices(got, want) {
		t.Fatalf("BeforeA = %v, want %v", got, want)
	}
	if len(ctx.AfterA) != 0 {
		t.Fatalf("expected no trailing context after last line, got %v", ctx.AfterA)
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
