package cli

import (
	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/explorer"
	"github.com/gaiacoin/gaiaops/internal/output"
	"github.com/gaiacoin/gaiaops/internal/service/tipcheck"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Log      *config.Logger
	Fmt      *output.Formatter
	Daemon   daemon.Client
	Explorer tipcheck.BlockHashSource
}

// NewCommandContext creates a context with the given dependencies.
// The daemon and explorer clients are built from cfg on first use unless
// set with WithDaemon or WithExplorer.
func NewCommandContext(
	cfg *config.Config,
	logger *config.Logger,
	formatter *output.Formatter,
) *CommandContext {
	return &CommandContext{
		Cfg: cfg,
		Log: logger,
		Fmt: formatter,
	}
}

// WithDaemon sets the daemon client.
func (c *CommandContext) WithDaemon(d daemon.Client) *CommandContext {
	c.Daemon = d
	return c
}

// WithExplorer sets the block hash source.
func (c *CommandContext) WithExplorer(e tipcheck.BlockHashSource) *CommandContext {
	c.Explorer = e
	return c
}

// DaemonClient returns the daemon client, creating it from config if needed.
func (c *CommandContext) DaemonClient() (daemon.Client, error) {
	if c.Daemon != nil {
		return c.Daemon, nil
	}

	d, err := newDaemonClient(c.Cfg, c.logger().Component("daemon"))
	if err != nil {
		return nil, err
	}
	c.Daemon = d
	return d, nil
}

// ExplorerClient returns the explorer, creating it from config if needed.
func (c *CommandContext) ExplorerClient() (tipcheck.BlockHashSource, error) {
	if c.Explorer != nil {
		return c.Explorer, nil
	}

	ex, err := explorer.NewClient(&explorer.ClientOptions{
		BaseURL: c.Cfg.Explorer.URL,
		API:     explorer.API(c.Cfg.Explorer.API),
		Timeout: c.Cfg.ExplorerTimeout(),
		Logger:  c.logger().Component("explorer"),
	})
	if err != nil {
		return nil, err
	}
	c.Explorer = ex
	return ex, nil
}

// logger returns the configured logger or a null logger.
func (c *CommandContext) logger() *config.Logger {
	if c.Log == nil {
		return config.NullLogger()
	}
	return c.Log
}

// newDaemonClient builds the configured transport.
func newDaemonClient(c *config.Config, log *config.Logger) (daemon.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Daemon.Transport {
	case config.TransportRPC:
		return daemon.NewRPCClient(daemon.RPCOptions{
			URL:      c.Daemon.RPCURL,
			User:     c.Daemon.RPCUser,
			Password: c.Daemon.RPCPassword,
			Timeout:  c.DaemonTimeout(),
			Logger:   log,
		}), nil
	default:
		return daemon.NewCLIClient(daemon.CLIOptions{
			Path:    c.Daemon.CLIPath,
			Args:    c.Daemon.CLIArgs,
			Timeout: c.DaemonTimeout(),
			Logger:  log,
		}), nil
	}
}
