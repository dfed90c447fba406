// Package textio holds the line-splitting and line-joining helpers shared
// by the CLI commands and the orchestrator: reading a file into a slice of
// lines while remembering whether it ended with a trailing newline, so a
// merged result can be written back in the same style it was read in.
package textio

import (
	"os"
	"runtime"
	"strings"

	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
)

// lineSep is the newline written between joined lines: CRLF on Windows,
// LF everywhere else.
func lineSep() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// ReadLines splits a file's content on any of \r\n, \n, \r and reports
// whether the original content ended with a line terminator.
func ReadLines(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, bmerrors.IO(path, err)
	}
	return SplitLines(data), HasTrailingNewline(data), nil
}

// HasTrailingNewline reports whether data ends with \n or \r.
func HasTrailingNewline(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	last := data[len(data)-1]
	return last == '\n' || last == '\r'
}

// SplitLines normalizes line endings to \n and splits on it, dropping a
// single trailing empty element caused by a final newline.
func SplitLines(data []byte) []string {
	normalized := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(string(data))
	if normalized == "" {
		return nil
	}
	normalized = strings.TrimSuffix(normalized, "\n")
	return strings.Split(normalized, "\n")
}

// JoinLines reassembles lines with the platform newline, preserving a
// trailing terminator iff trailingNewline is set.
func JoinLines(lines []string, trailingNewline bool) []byte {
	if len(lines) == 0 {
		return nil
	}
	sep := lineSep()
	out := strings.Join(lines, sep)
	if trailingNewline {
		out += sep
	}
	return []byte(out)
}
