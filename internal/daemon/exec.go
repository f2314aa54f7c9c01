package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gaiacoin/gaiaops/internal/secret"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// Runner executes the command-line tool with stdin and returns its output.
// err is non-nil when the process could not start or exited non-zero.
type Runner func(ctx context.Context, path string, args []string, stdin []byte) (stdout, stderr []byte, err error)

// CLIOptions configures a CLIClient.
type CLIOptions struct {
	Path    string   // gaiacoin-cli binary
	Args    []string // extra arguments such as -datadir or -conf
	Timeout time.Duration
	Runner  Runner
	Logger  LogWriter
}

// CLIClient drives the daemon's command-line tool.
// Parameters are passed on stdin with -stdin so they never appear in argv.
type CLIClient struct {
	path    string
	args    []string
	timeout time.Duration
	run     Runner
	logger  LogWriter
}

// NewCLIClient creates a new command-line transport.
func NewCLIClient(opts CLIOptions) *CLIClient {
	path := opts.Path
	if path == "" {
		path = "gaiacoin-cli"
	}

	run := opts.Runner
	if run == nil {
		run = execRunner
	}

	var logger LogWriter = nopLogger{}
	if opts.Logger != nil {
		logger = opts.Logger
	}

	return &CLIClient{
		path:    path,
		args:    append([]string(nil), opts.Args...),
		timeout: opts.Timeout,
		run:     run,
		logger:  logger,
	}
}

// Argv returns the argument vector used for method, without parameters.
func (c *CLIClient) Argv(method string) []string {
	argv := make([]string, 0, len(c.args)+2)
	argv = append(argv, c.args...)
	return append(argv, "-stdin", method)
}

// Invoke runs the tool once for method.
func (c *CLIClient) Invoke(ctx context.Context, method string, params ...any) (result json.RawMessage, err error) {
	start := time.Now()
	defer func() { observe(c.logger, method, start, err) }()

	stdin, err := stdinLines(params)
	if err != nil {
		return nil, opserr.WithDetails(opserr.WithCause(opserr.ErrInvalidInput, err), map[string]string{"method": method})
	}
	defer secret.Wipe(stdin)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	stdout, stderr, runErr := c.run(ctx, c.path, c.Argv(method), stdin)
	if runErr != nil {
		return nil, c.classify(ctx, method, stderr, runErr)
	}

	return parseStdout(stdout), nil
}

var (
	errorCodeRe    = regexp.MustCompile(`(?m)^error code:\s*(-?\d+)\s*$`)
	errorMessageRe = regexp.MustCompile(`(?s)error message:\s*\n?(.*)$`)
)

// classify maps a failed run onto the daemon error sentinels.
func (c *CLIClient) classify(ctx context.Context, method string, stderr []byte, runErr error) error {
	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
		return opserr.WithSuggestion(
			unreachable(method, runErr),
			fmt.Sprintf("install %s or set daemon.cli_path", c.path),
		)
	}

	if ctx.Err() != nil {
		return unreachable(method, ctx.Err())
	}

	if re := parseStderr(stderr); re != nil {
		return daemonError(method, re)
	}

	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		msg = runErr.Error()
	}
	return opserr.WithSuggestion(
		unreachable(method, errors.New(firstLine(msg))),
		"make sure gaiacoind is running and reachable with the configured cli_args",
	)
}

// parseStderr extracts "error code: N / error message: ..." output.
func parseStderr(stderr []byte) *RPCError {
	m := errorCodeRe.FindSubmatch(stderr)
	if m == nil {
		return nil
	}
	code, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return nil
	}

	re := &RPCError{Code: code}
	if mm := errorMessageRe.FindSubmatch(stderr); mm != nil {
		re.Message = strings.TrimSpace(string(mm[1]))
	}
	return re
}

// parseStdout turns tool output into a JSON value. The tool prints objects
// and numbers as JSON, strings bare, and nothing at all for null.
func parseStdout(stdout []byte) json.RawMessage {
	out := bytes.TrimSpace(stdout)
	if len(out) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(out) {
		return json.RawMessage(out)
	}
	quoted, _ := json.Marshal(string(out))
	return quoted
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// execRunner runs the tool with os/exec.
func execRunner(ctx context.Context, path string, args []string, stdin []byte) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...) //nolint:gosec // G204: path and args come from operator config
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
