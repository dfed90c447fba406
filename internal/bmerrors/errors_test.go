package bmerrors

import (
	"errors"
	"strings"
	"testing"
)

func TestExitCodeMapsEveryKind(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{CancelledErr("stopped"), 1},
		{Invalid("bad input"), 2},
		{InvalidChoice("wrong choice"), 2},
		{IO("/tmp/x", errors.New("disk full")), 3},
		{Overflow("too big"), 3},
		{errors.New("not a bmerrors.Error"), 3},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestErrorMessageIncludesPathAndCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := IO("/tmp/foo", cause)
	msg := err.Error()
	if !strings.Contains(msg, "/tmp/foo") || !strings.Contains(msg, "permission denied") {
		t.Fatalf("Error() = %q, want it to mention path and cause", msg)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is should unwrap to the cause")
	}
}

func TestErrorMessageWithoutPathOrCause(t *testing.T) {
	err := Invalid("need at least two groups")
	if got := err.Error(); got != "InvalidInput: need at least two groups" {
		t.Fatalf("Error() = %q, want %q", got, "InvalidInput: need at least two groups")
	}
}
