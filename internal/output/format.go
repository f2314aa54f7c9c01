// Package output renders command results for the gaiaops CLI.
//
// Every command supports two formats: aligned text for operators and
// indented JSON for scripts. The format is chosen once per invocation.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format represents the output format.
type Format string

// Output format constants.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formats lists the values accepted by --output.
var Formats = []Format{FormatAuto, FormatText, FormatJSON} //nolint:gochecknoglobals // read-only table

// Formatter carries the resolved format and destination for one invocation.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a formatter. A nil writer means os.Stdout.
func NewFormatter(format Format, w io.Writer) *Formatter {
	if w == nil {
		w = os.Stdout
	}
	if format == FormatAuto || format == "" {
		format = DetectFormat(w, FormatAuto)
	}
	return &Formatter{format: format, writer: w}
}

// Format returns the resolved output format. It is never FormatAuto.
func (f *Formatter) Format() Format {
	return f.format
}

// IsJSON reports whether results are emitted as JSON.
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// DetectFormat resolves FormatAuto: text on a terminal, JSON when piped.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if IsTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
}

// ParseFormat parses a format name. Unknown names fall back to FormatAuto.
func ParseFormat(s string) Format {
	f, err := ParseFormatStrict(s)
	if err != nil {
		return FormatAuto
	}
	return f
}

// ParseFormatStrict parses a format name and rejects unknown values.
// The empty string means FormatAuto.
func ParseFormatStrict(s string) (Format, error) {
	switch v := Format(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatText, FormatJSON:
		return v, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, text or json)", s) //nolint:err113 // message carries the value
	}
}
