package cli

import (
	"errors"
	"fmt"
	"io"
)

// errNoTerminal is returned when a hidden prompt is needed but stdin is not a terminal.
var errNoTerminal = errors.New("stdin is not a terminal")

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}
