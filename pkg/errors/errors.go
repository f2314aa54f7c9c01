// Package errors provides structured error handling for gaiaops.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0 // Successful execution
	ExitGeneral     = 1 // General/unknown error
	ExitInput       = 2 // Invalid input or operator abort
	ExitAuth        = 3 // Authentication failed
	ExitNotFound    = 4 // Resource not found
	ExitPermission  = 5 // Permission denied
	ExitUnavailable = 6 // Daemon or explorer unreachable
	ExitPartial     = 7 // Aggregate command finished with some failed items
)

// OpsError is the structured error type for gaiaops.
type OpsError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *OpsError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *OpsError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for OpsError.
func (e *OpsError) Is(target error) bool {
	var t *OpsError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &OpsError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &OpsError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrAuthentication = &OpsError{
		Code:     "AUTHENTICATION_FAILED",
		Message:  "authentication failed",
		ExitCode: ExitAuth,
	}

	ErrNotFound = &OpsError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrPermission = &OpsError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	// Daemon control interface errors.
	ErrDaemonUnreachable = &OpsError{
		Code:     "DAEMON_UNREACHABLE",
		Message:  "daemon control interface unreachable",
		ExitCode: ExitUnavailable,
	}

	ErrDaemon = &OpsError{
		Code:     "DAEMON_ERROR",
		Message:  "daemon rejected the request",
		ExitCode: ExitGeneral,
	}

	ErrMalformedResponse = &OpsError{
		Code:     "MALFORMED_RESPONSE",
		Message:  "response could not be parsed",
		ExitCode: ExitGeneral,
	}

	// Explorer errors.
	ErrRemoteUnreachable = &OpsError{
		Code:     "REMOTE_UNREACHABLE",
		Message:  "block explorer unreachable",
		ExitCode: ExitUnavailable,
	}

	// Aggregate command outcomes.
	ErrPartialFailure = &OpsError{
		Code:     "PARTIAL_FAILURE",
		Message:  "command completed with failures",
		ExitCode: ExitPartial,
	}

	ErrAborted = &OpsError{
		Code:     "OPERATION_ABORTED",
		Message:  "operation aborted by operator",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigNotFound = &OpsError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &OpsError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &OpsError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	ErrInvalidFormat = &OpsError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid format",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &OpsError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}
)

// New creates a new OpsError with the given code and message.
func New(code, message string) *OpsError {
	return &OpsError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// clone returns a shallow copy of e. Details is shared until replaced.
func (e *OpsError) clone() *OpsError {
	c := *e
	return &c
}

// asOps returns the first OpsError in err's chain, or a GENERAL_ERROR
// wrapping err when there is none.
func asOps(err error) *OpsError {
	var se *OpsError
	if errors.As(err, &se) {
		return se.clone()
	}
	return &OpsError{
		Code:     ErrGeneral.Code,
		Message:  err.Error(),
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithCause returns a copy of base whose Cause is err.
// The copy keeps the code and exit code of base, so errors.Is(result, base) holds
// while errors.As can still reach err.
func WithCause(base *OpsError, err error) error {
	if base == nil {
		return err
	}
	c := base.clone()
	c.Cause = err
	return c
}

// Wrap prefixes err's message with context. The code and exit code of an
// OpsError in err's chain are kept.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *OpsError
	if !errors.As(err, &se) {
		return &OpsError{Code: ErrGeneral.Code, Message: msg, Cause: err, ExitCode: ExitGeneral}
	}
	c := se.clone()
	c.Message = msg + ": " + c.Message
	c.Cause = err
	return c
}

// WithDetails adds details to an error.
// Details already present on the error are kept unless overridden.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	c := asOps(err)
	merged := make(map[string]string, len(c.Details)+len(details))
	maps.Copy(merged, c.Details)
	maps.Copy(merged, details)
	c.Details = merged
	return c
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	c := asOps(err)
	c.Suggestion = suggestion
	return c
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *OpsError
	if errors.As(err, &se) {
		return se.ExitCode
	}
	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *OpsError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrGeneral.Code
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
