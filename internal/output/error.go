package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Cause      string            `json:"cause,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if format == FormatJSON {
		return formatErrorJSON(w, err)
	}
	return formatErrorText(w, err)
}

// rootCause returns the first error below oe that is not an OpsError,
// such as the daemon's own error message.
func rootCause(oe *opserr.OpsError) string {
	for cause := oe.Cause; cause != nil; cause = errors.Unwrap(cause) {
		if _, ok := cause.(*opserr.OpsError); !ok { //nolint:errorlint // walking the chain one link at a time
			return cause.Error()
		}
	}
	return ""
}

// formatErrorJSON outputs error in JSON format.
func formatErrorJSON(w io.Writer, err error) error {
	detail := ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: opserr.ExitGeneral,
	}

	var oe *opserr.OpsError
	if errors.As(err, &oe) {
		detail = ErrorDetail{
			Code:       oe.Code,
			Message:    oe.Message,
			Cause:      rootCause(oe),
			Details:    oe.Details,
			Suggestion: oe.Suggestion,
			ExitCode:   oe.ExitCode,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ErrorOutput{Error: detail})
}

// formatErrorText outputs error in text format.
func formatErrorText(w io.Writer, err error) error {
	var sb strings.Builder

	var oe *opserr.OpsError
	if errors.As(err, &oe) {
		sb.WriteString(fmt.Sprintf("Error: %s\n", oe.Message))

		if cause := rootCause(oe); cause != "" {
			sb.WriteString(fmt.Sprintf("Cause: %s\n", cause))
		}

		if len(oe.Details) > 0 {
			keys := make([]string, 0, len(oe.Details))
			for k := range oe.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			sb.WriteString("\nDetails:\n")
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", k, oe.Details[k]))
			}
		}

		if oe.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", oe.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %s\n", err.Error()))
	}

	_, writeErr := w.Write([]byte(sb.String()))
	return writeErr
}
