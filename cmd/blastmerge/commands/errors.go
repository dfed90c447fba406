package commands

// silentExitError signals a non-zero exit code without printing an error
// message a second time. Use with cmd.SilenceErrors = true so cobra
// doesn't print it on top of whatever diagnostic was already shown.
type silentExitError struct {
	code int
}

func (e *silentExitError) Error() string { return "" }

// SilentExit returns an error that causes the process to exit with the
// given code without printing an error message. The caller must set
// cmd.SilenceErrors = true before returning this error.
func SilentExit(code int) error {
	return &silentExitError{code: code}
}

// ExitCode extracts the exit code from a silentExitError. Any other
// non-nil error falls back to exit code 1, matching cobra's own default.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if se, ok := err.(*silentExitError); ok {
		return se.code
	}
	return 1
}
