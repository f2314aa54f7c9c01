// Package daemon talks to the coin daemon's control interface.
//
// Two transports implement Client: RPCClient speaks JSON-RPC 1.0 over HTTP
// and CLIClient drives the daemon's bundled command-line tool. Both make a
// single attempt per call and map failures onto the sentinels in pkg/errors:
// ErrDaemonUnreachable when no answer was obtained, ErrDaemon when the daemon
// answered with an application error, and ErrMalformedResponse when the
// answer could not be parsed.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gaiacoin/gaiaops/internal/metrics"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// maxRawDetail bounds how much of an unparseable payload is kept for diagnosis.
const maxRawDetail = 512

// Client sends one request to the daemon and returns the raw result.
type Client interface {
	Invoke(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// LogWriter is the logging surface used by the transports.
// Only method names and durations are ever passed to it.
type LogWriter interface {
	Debug(format string, args ...any)
	Duration(op string, d time.Duration, err error)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Duration(string, time.Duration, error) {}

// RPCError is an application-level error reported by the daemon.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("daemon error %d: %s", e.Code, e.Message)
}

// Well-known daemon error codes.
const (
	CodeInvalidAddressOrKey       = -5
	CodeWalletPassphraseIncorrect = -14
	CodeWalletWrongEncState       = -15
	CodeWalletAlreadyUnlocked     = -17
)

// ErrorCode extracts the daemon's error code from err.
func ErrorCode(err error) (int, bool) {
	var re *RPCError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return 0, false
}

// Call invokes method and decodes the result into T.
func Call[T any](ctx context.Context, c Client, method string, params ...any) (T, error) {
	var out T

	raw, err := c.Invoke(ctx, method, params...)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, malformed(method, raw, err)
	}
	return out, nil
}

func unreachable(method string, cause error) error {
	return opserr.WithDetails(opserr.WithCause(opserr.ErrDaemonUnreachable, cause), map[string]string{
		"method": method,
	})
}

func daemonError(method string, re *RPCError) error {
	return opserr.WithDetails(opserr.WithCause(opserr.ErrDaemon, re), map[string]string{
		"method": method,
	})
}

func malformed(method string, raw []byte, cause error) error {
	if len(raw) > maxRawDetail {
		raw = raw[:maxRawDetail]
	}
	return opserr.WithDetails(opserr.WithCause(opserr.ErrMalformedResponse, cause), map[string]string{
		"method":  method,
		"payload": string(raw),
	})
}

// observe records a finished call in metrics and the debug log.
func observe(log LogWriter, method string, start time.Time, err error) {
	d := time.Since(start)
	metrics.Global.RecordDaemonCall(d, err)
	log.Duration(method, d, err)
}
