package output

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// ColorMode controls the symbol prefixes on status messages.
type ColorMode string

// Color mode constants, matching the output.color config values.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

//nolint:gochecknoglobals // set once per invocation from config
var colorMode atomic.Value

// SetColorMode sets how messages are decorated. Unknown values mean ColorAuto.
func SetColorMode(mode ColorMode) {
	switch m := ColorMode(strings.ToLower(string(mode))); m {
	case ColorAlways, ColorNever:
		colorMode.Store(m)
	default:
		colorMode.Store(ColorAuto)
	}
}

// CurrentColorMode returns the active mode.
func CurrentColorMode() ColorMode {
	if m, ok := colorMode.Load().(ColorMode); ok {
		return m
	}
	return ColorAuto
}

// decorate prefixes msg with symbol when the mode allows it for w.
// In auto mode only terminals get symbols.
func decorate(w io.Writer, symbol, msg string) string {
	switch CurrentColorMode() {
	case ColorAlways:
		return symbol + msg
	case ColorNever:
		return msg
	default:
		if IsTerminal(w) {
			return symbol + msg
		}
		return msg
	}
}

// Info prints an informational message with an info prefix.
func Info(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, decorate(w, "ℹ️  ", msg))
}

// Infof prints a formatted informational message.
func Infof(w io.Writer, format string, args ...any) {
	Info(w, fmt.Sprintf(format, args...))
}

// Warn prints a warning message with a warning prefix.
func Warn(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, decorate(w, "⚠️  ", msg))
}

// Warnf prints a formatted warning message.
func Warnf(w io.Writer, format string, args ...any) {
	Warn(w, fmt.Sprintf(format, args...))
}

// Success prints a success message with a success prefix.
func Success(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, decorate(w, "✅ ", msg))
}

// Successf prints a formatted success message.
func Successf(w io.Writer, format string, args ...any) {
	Success(w, fmt.Sprintf(format, args...))
}
