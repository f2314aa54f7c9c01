// Package explorer looks up block hashes on a remote block explorer so the
// local chain tip can be cross-checked against an independent view.
package explorer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gaiacoin/gaiaops/internal/blockhash"
	"github.com/gaiacoin/gaiaops/internal/metrics"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

const (
	// defaultTimeout bounds a lookup when no timeout is configured.
	defaultTimeout = 15 * time.Second

	// maxBodyBytes is far above any hash response; anything larger is an error page.
	maxBodyBytes = 64 << 10
)

// API identifies the URL layout of an explorer.
type API string

// Supported explorer APIs.
const (
	// APIIquidus serves GET {url}/api/getblockhash?index=H.
	APIIquidus API = "iquidus"
	// APIEsplora serves GET {url}/block-height/H.
	APIEsplora API = "esplora"
)

// LogWriter is the logging surface used by the client.
type LogWriter interface {
	Duration(op string, d time.Duration, err error)
}

// ClientOptions contains configuration for the explorer client.
type ClientOptions struct {
	// BaseURL is the explorer root, without a trailing slash.
	BaseURL string

	// API selects the URL layout. Defaults to APIIquidus.
	API API

	// Timeout bounds each lookup. Defaults to 15 seconds.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client

	Logger LogWriter
}

// Client queries one explorer.
type Client struct {
	baseURL    string
	api        API
	timeout    time.Duration
	httpClient *http.Client
	logger     LogWriter
}

// NewClient creates a new explorer client.
// An empty BaseURL is a configuration error.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil || strings.TrimSpace(opts.BaseURL) == "" {
		return nil, opserr.WithSuggestion(
			opserr.WithDetails(opserr.ErrConfigInvalid, map[string]string{"key": "explorer.url"}),
			"set an explorer with 'gaiaops config set explorer.url https://explorer.example.org'",
		)
	}

	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, opserr.WithDetails(opserr.WithCause(opserr.ErrConfigInvalid, err), map[string]string{
			"key":   "explorer.url",
			"value": opts.BaseURL,
		})
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		api:     opts.API,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}

	switch c.api {
	case "":
		c.api = APIIquidus
	case APIIquidus, APIEsplora:
	default:
		return nil, opserr.WithDetails(opserr.ErrConfigInvalid, map[string]string{
			"key":   "explorer.api",
			"value": string(opts.API),
		})
	}

	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}

	c.httpClient = opts.HTTPClient
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c, nil
}

// BlockHashURL returns the lookup URL for height.
func (c *Client) BlockHashURL(height int64) string {
	h := strconv.FormatInt(height, 10)
	if c.api == APIEsplora {
		return c.baseURL + "/block-height/" + h
	}
	return c.baseURL + "/api/getblockhash?index=" + h
}

// BlockHash returns the explorer's block hash at height.
// Network errors, timeouts and non-2xx answers return ErrRemoteUnreachable;
// a body that is not a block hash returns ErrMalformedResponse.
func (c *Client) BlockHash(ctx context.Context, height int64) (hash string, err error) {
	start := time.Now()
	defer func() {
		metrics.Global.RecordExplorerCall(err)
		if c.logger != nil {
			c.logger.Duration("explorer.blockhash", time.Since(start), err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lookup := c.BlockHashURL(height)
	details := map[string]string{"url": lookup}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return "", opserr.WithDetails(opserr.WithCause(opserr.ErrRemoteUnreachable, err), details)
	}
	req.Header.Set("Accept", "text/plain, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", opserr.WithDetails(opserr.WithCause(opserr.ErrRemoteUnreachable, err), details)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details["status"] = strconv.Itoa(resp.StatusCode)
		return "", opserr.WithDetails(
			opserr.WithCause(opserr.ErrRemoteUnreachable, fmt.Errorf("unexpected status %d", resp.StatusCode)),
			details,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", opserr.WithDetails(opserr.WithCause(opserr.ErrRemoteUnreachable, err), details)
	}

	text := strings.Trim(strings.TrimSpace(string(body)), `"`)
	hash, err = blockhash.Parse(text)
	if err != nil {
		if len(text) > 128 {
			text = text[:128]
		}
		details["body"] = text
		return "", opserr.WithDetails(opserr.WithCause(opserr.ErrMalformedResponse, err), details)
	}

	return hash, nil
}
