// Package daemontest provides a scripted daemon.Client for tests.
package daemontest

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/gaiacoin/gaiaops/internal/daemon"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// Handler answers one call.
type Handler func(ctx context.Context, params []any) (json.RawMessage, error)

// CallRecord is one recorded invocation. Secret parameters are copied so
// tests can inspect what was sent after the caller wiped its buffer.
type CallRecord struct {
	Method string
	Params []any
}

// Fake is an in-memory daemon. Unscripted methods fail as unreachable.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []CallRecord
}

// New creates an empty fake.
func New() *Fake {
	return &Fake{handlers: make(map[string]Handler)}
}

// On installs a handler for method.
func (f *Fake) On(method string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
	return f
}

// Result makes method return v encoded as JSON.
func (f *Fake) Result(method string, v any) *Fake {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("daemontest: encoding result for %s: %v", method, err))
	}
	return f.On(method, func(context.Context, []any) (json.RawMessage, error) {
		return raw, nil
	})
}

// Raw makes method return the given JSON text.
func (f *Fake) Raw(method, raw string) *Fake {
	return f.On(method, func(context.Context, []any) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	})
}

// Fail makes method return err.
func (f *Fake) Fail(method string, err error) *Fake {
	return f.On(method, func(context.Context, []any) (json.RawMessage, error) {
		return nil, err
	})
}

// RPCFail makes method fail with a daemon application error.
func (f *Fake) RPCFail(method string, code int, message string) *Fake {
	return f.Fail(method, opserr.WithCause(opserr.ErrDaemon, &daemon.RPCError{Code: code, Message: message}))
}

// Invoke implements daemon.Client.
func (f *Fake) Invoke(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	recorded := make([]any, len(params))
	for i, p := range params {
		if s, ok := p.(daemon.Secret); ok {
			recorded[i] = daemon.Secret(slices.Clone(s))
			continue
		}
		recorded[i] = p
	}

	f.mu.Lock()
	f.calls = append(f.calls, CallRecord{Method: method, Params: recorded})
	h, ok := f.handlers[method]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, opserr.WithCause(opserr.ErrDaemonUnreachable, err)
	}
	if !ok {
		return nil, opserr.WithCause(opserr.ErrDaemonUnreachable, fmt.Errorf("no handler for %s", method))
	}
	return h(ctx, params)
}

// Calls returns a copy of all recorded calls in order.
func (f *Fake) Calls() []CallRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded calls to method.
func (f *Fake) CallsTo(method string) []CallRecord {
	var out []CallRecord
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

var _ daemon.Client = (*Fake)(nil)
