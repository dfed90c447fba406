package blockmerge

import (
	"reflect"
	"testing"

	"github.com/ktsu-dev/blastmerge/internal/block"
	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
)

func acceptAll(choice Choice) Resolver {
	return func(blk block.DiffBlock, ctx block.Context, index int) (Choice, error) {
		return choice, nil
	}
}

func TestMergeIdentity(t *testing.T) {
	a := []string{"1", "2", "3"}
	res, err := Merge(a, a, func(block.DiffBlock, block.Context, int) (Choice, error) {
		t.Fatalf("resolver should not be invoked for identical inputs")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(res.MergedLines, a) {
		t.Fatalf("Merge(a,a) = %v, want %v", res.MergedLines, a)
	}
}

func TestMergeInsertInclude(t *testing.T) {
	a := []string{"1", "2"}
	b := []string{"1", "new", "2"}
	res, err := Merge(a, b, acceptAll(Include))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{"1", "new", "2"}
	if !reflect.DeepEqual(res.MergedLines, want) {
		t.Fatalf("got %v, want %v", res.MergedLines, want)
	}
}

func TestMergeInsertSkip(t *testing.T) {
	a := []string{"1", "2"}
	b := []string{"1", "new", "2"}
	res, err := Merge(a, b, acceptAll(Skip))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(res.MergedLines, a) {
		t.Fatalf("got %v, want %v", res.MergedLines, a)
	}
}

func TestMergeDeleteKeepAndRemove(t *testing.T) {
	a := []string{"1", "gone", "2"}
	b := []string{"1", "2"}

	res, err := Merge(a, b, acceptAll(Keep))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(res.MergedLines, a) {
		t.Fatalf("Keep: got %v, want %v", res.MergedLines, a)
	}

	res, err = Merge(a, b, acceptAll(Remove))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(res.MergedLines, b) {
		t.Fatalf("Remove: got %v, want %v", res.MergedLines, b)
	}
}

func TestMergeReplaceChoices(t *testing.T) {
	a := []string{"1", "2", "3"}
	b := []string{"1", "X", "3"}

	cases := []struct {
		choice Choice
		want   []string
	}{
		{UseA, []string{"1", "2", "3"}},
		{UseB, []string{"1", "X", "3"}},
		{UseBoth, []string{"1", "2", "X", "3"}},
		{Skip, []string{"1", "3"}},
	}
	for _, c := range cases {
		res, err := Merge(a, b, acceptAll(c.choice))
		if err != nil {
			t.Fatalf("choice %v: Merge: %v", c.choice, err)
		}
		if !reflect.DeepEqual(res.MergedLines, c.want) {
			t.Fatalf("choice %v: got %v, want %v", c.choice, res.MergedLines, c.want)
		}
	}
}

func TestMergeInvalidChoiceForBlockKind(t *testing.T) {
	a := []string{"1", "2"}
	b := []string{"1", "new", "2"}
	_, err := Merge(a, b, acceptAll(Keep)) // Keep is a Delete-only choice
	if err == nil {
		t.Fatalf("expected an error for an invalid choice/kind pairing")
	}
	be, ok := err.(*bmerrors.Error)
	if !ok || be.Kind != bmerrors.KindInvalidChoice {
		t.Fatalf("expected KindInvalidChoice, got %v", err)
	}
}

func TestMergeCancelStopsEarlyAndReportsPartial(t *testing.T) {
	a := []string{"1", "X", "2", "Y", "3"}
	b := []string{"1", "A", "2", "B", "3"}

	calls := 0
	resolve := func(blk block.DiffBlock, ctx block.Context, index int) (Choice, error) {
		calls++
		return 0, Cancel{}
	}
	res, err := Merge(a, b, resolve)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	be, ok := err.(*bmerrors.Error)
	if !ok || be.Kind != bmerrors.KindCancelled {
		t.Fatalf("expected KindCancelled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one resolver call before cancelling, got %d", calls)
	}
	if res == nil {
		t.Fatalf("expected a partial result alongside the cancellation error")
	}
}

func TestMergeUsesEqualOpsAcrossShiftedTail(t *testing.T) {
	// An early insert shifts every later B-side line number by one; the
	// trailing equal run ("tail1", "tail2") must still be copied correctly.
	a := []string{"head", "mid", "tail1", "tail2"}
	b := []string{"head", "inserted", "mid", "tail1", "tail2"}

	res, err := Merge(a, b, acceptAll(Include))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{"head", "inserted", "mid", "tail1", "tail2"}
	if !reflect.DeepEqual(res.MergedLines, want) {
		t.Fatalf("got %v, want %v", res.MergedLines, want)
	}
}

func TestMergeReconstructsAOrBAtExtremes(t *testing.T) {
	a := []string{"1", "2", "3", "4", "5"}
	b := []string{"1", "X", "3", "Y", "5"}

	resA, err := Merge(a, b, acceptAll(UseA))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(resA.MergedLines, a) {
		t.Fatalf("all-UseA: got %v, want %v", resA.MergedLines, a)
	}

	resB, err := Merge(a, b, acceptAll(UseB))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !reflect.DeepEqual(resB.MergedLines, b) {
		t.Fatalf("all-UseB: got %v, want %v", resB.MergedLines, b)
	}
}
