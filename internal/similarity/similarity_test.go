package similarity

import "testing"

func TestScoreBoundsAndIdentity(t *testing.T) {
	a := []string{"1", "2", "3"}
	got := Score(a, a)
	if got != 1 {
		t.Fatalf("Score(a,a) = %v, want 1", got)
	}
}

func TestScoreEmptyBoth(t *testing.T) {
	if got := Score(nil, nil); got != 1 {
		t.Fatalf("Score(nil,nil) = %v, want 1", got)
	}
}

func TestScoreSymmetric(t *testing.T) {
	a := []string{"1", "2", "X", "4"}
	b := []string{"1", "2", "3", "4"}
	if Score(a, b) != Score(b, a) {
		t.Fatalf("Score not symmetric: %v vs %v", Score(a, b), Score(b, a))
	}
}

func TestScoreRange(t *testing.T) {
	cases := [][2][]string{
		{{"a"}, {"b"}},
		{{"a", "b", "c"}, {"c", "b", "a"}},
		{nil, {"a"}},
		{{"a", "b"}, {"a", "b", "c", "d"}},
	}
	for _, c := range cases {
		s := Score(c[0], c[1])
		if s < 0 || s > 1 {
			t.Fatalf("Score(%v,%v) = %v out of [0,1]", c[0], c[1], s)
		}
	}
}

func TestScoreRanksMostSimilarHighest(t *testing.T) {
	base := []string{"1", "2", "3", "4", "5"}
	closeMatch := []string{"1", "2", "3", "4", "X"}
	farMatch := []string{"a", "b", "c", "d", "e"}

	if Score(base, closeMatch) <= Score(base, farMatch) {
		t.Fatalf("expected closeMatch to score higher than farMatch")
	}
}
