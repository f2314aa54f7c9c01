package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gaiacoin/gaiaops/internal/secret"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// maxResponseBytes caps how much of a daemon response is read.
// Full wallet histories are large, so the cap is generous.
const maxResponseBytes = 256 << 20

// RPCOptions configures an RPCClient.
type RPCOptions struct {
	URL        string
	User       string
	Password   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     LogWriter
}

// RPCClient speaks JSON-RPC 1.0 to the daemon over HTTP with basic auth.
type RPCClient struct {
	url        string
	user       string
	password   string
	httpClient *http.Client
	logger     LogWriter
	idCounter  atomic.Uint64
}

// NewRPCClient creates a new JSON-RPC client.
func NewRPCClient(opts RPCOptions) *RPCClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var logger LogWriter = nopLogger{}
	if opts.Logger != nil {
		logger = opts.Logger
	}

	return &RPCClient{
		url:        opts.URL,
		user:       opts.User,
		password:   opts.Password,
		httpClient: httpClient,
		logger:     logger,
	}
}

// envelope is a JSON-RPC 1.0 response.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     json.RawMessage `json:"id"`
}

// Invoke performs one JSON-RPC call.
func (c *RPCClient) Invoke(ctx context.Context, method string, params ...any) (result json.RawMessage, err error) {
	start := time.Now()
	defer func() { observe(c.logger, method, start, err) }()

	body, err := c.encodeRequest(method, params)
	if err != nil {
		return nil, opserr.WithDetails(opserr.Wrap(err, "encoding request"), map[string]string{"method": method})
	}
	defer secret.Wipe(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, unreachable(method, fmt.Errorf("creating HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "text/plain")
	if c.user != "" || c.password != "" {
		httpReq.SetBasicAuth(c.user, c.password)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, unreachable(method, err)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return nil, opserr.WithSuggestion(
			unreachable(method, fmt.Errorf("HTTP %d", httpResp.StatusCode)),
			"check daemon.rpc_user and daemon.rpc_password against the daemon's rpcuser/rpcpassword",
		)
	}

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, unreachable(method, fmt.Errorf("reading response body: %w", err))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, unreachable(method, fmt.Errorf("HTTP %d", httpResp.StatusCode))
		}
		return nil, malformed(method, respBody, err)
	}

	if env.Error != nil {
		return nil, daemonError(method, env.Error)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, malformed(method, respBody, fmt.Errorf("HTTP %d without error object", httpResp.StatusCode))
	}

	if len(env.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Result, nil
}

// encodeRequest builds the request body in one allocation.
func (c *RPCClient) encodeRequest(method string, params []any) ([]byte, error) {
	paramsJSON, err := encodeParams(params)
	if err != nil {
		return nil, err
	}
	defer secret.Wipe(paramsJSON)

	methodJSON, err := json.Marshal(method)
	if err != nil {
		return nil, err
	}

	id := strconv.FormatUint(c.idCounter.Add(1), 10)

	const (
		head = `{"jsonrpc":"1.0","id":`
		mid  = `,"method":`
		tail = `,"params":`
	)
	body := make([]byte, 0, len(head)+len(id)+len(mid)+len(methodJSON)+len(tail)+len(paramsJSON)+1)
	body = append(body, head...)
	body = append(body, id...)
	body = append(body, mid...)
	body = append(body, methodJSON...)
	body = append(body, tail...)
	body = append(body, paramsJSON...)
	body = append(body, '}')
	return body, nil
}
