// Package config provides configuration management for gaiaops.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/gaiacoin/gaiaops/internal/fileutil"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// Daemon transports.
const (
	TransportCLI = "cli"
	TransportRPC = "rpc"
)

// Explorer API styles.
const (
	ExplorerIquidus = "iquidus"
	ExplorerEsplora = "esplora"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Staking  StakingConfig  `yaml:"staking"`
	Dust     DustConfig     `yaml:"dust"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DaemonConfig defines how the daemon control interface is reached.
type DaemonConfig struct {
	Transport      string   `yaml:"transport"`
	RPCURL         string   `yaml:"rpc_url"`
	RPCUser        string   `yaml:"rpc_user"`
	RPCPassword    string   `yaml:"rpc_password"`
	CLIPath        string   `yaml:"cli_path"`
	CLIArgs        []string `yaml:"cli_args,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// ExplorerConfig defines the remote block explorer used by the tip check.
type ExplorerConfig struct {
	API            string `yaml:"api"`
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StakingConfig defines wallet unlock settings for staking.
type StakingConfig struct {
	UnlockSeconds int64 `yaml:"unlock_seconds"`
	StakingOnly   bool  `yaml:"staking_only"`
}

// DustConfig defines dust pruning settings.
type DustConfig struct {
	Threshold       string  `yaml:"threshold"`
	CandidatesFile  string  `yaml:"candidates_file"`
	PrunesPerSecond float64 `yaml:"prunes_per_second"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file over Defaults.
// A missing file is ErrConfigNotFound and unparseable YAML is ErrConfigInvalid.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError(opserr.ErrConfigNotFound, path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, opserr.WithDetails(opserr.WithCause(opserr.ErrConfigInvalid, err), map[string]string{"path": path})
	}

	return cfg, nil
}

// Save writes cfg to path atomically with owner-only permissions.
func Save(cfg *Config, path string) error {
	err := fileutil.WriteAtomicFunc(path, 0o600, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return fileError(opserr.ErrNotFound, path, err)
	}
	return nil
}

// fileError classifies a filesystem failure on path: permission problems
// map to ErrPermission and missing files to notFound.
func fileError(notFound *opserr.OpsError, path string, err error) error {
	details := map[string]string{"path": path}
	switch {
	case errors.Is(err, fs.ErrPermission):
		return opserr.WithDetails(opserr.WithCause(opserr.ErrPermission, err), details)
	case errors.Is(err, fs.ErrNotExist):
		return opserr.WithDetails(opserr.WithCause(notFound, err), details)
	default:
		return opserr.WithDetails(opserr.Wrap(err, "accessing %s", filepath.Base(path)), details)
	}
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks the settings that commands depend on.
func (c *Config) Validate() error {
	switch c.Daemon.Transport {
	case TransportCLI, TransportRPC:
	default:
		return invalid("daemon.transport", c.Daemon.Transport, "use 'cli' or 'rpc'")
	}

	if c.Daemon.TimeoutSeconds <= 0 {
		return invalid("daemon.timeout_seconds", fmt.Sprint(c.Daemon.TimeoutSeconds), "must be a positive number of seconds")
	}

	switch c.Explorer.API {
	case ExplorerIquidus, ExplorerEsplora:
	default:
		return invalid("explorer.api", c.Explorer.API, "use 'iquidus' or 'esplora'")
	}

	if c.Explorer.TimeoutSeconds <= 0 {
		return invalid("explorer.timeout_seconds", fmt.Sprint(c.Explorer.TimeoutSeconds), "must be a positive number of seconds")
	}

	if _, err := c.DustThreshold(); err != nil {
		return err
	}

	if c.Dust.PrunesPerSecond < 0 {
		return invalid("dust.prunes_per_second", fmt.Sprint(c.Dust.PrunesPerSecond), "use 0 for no limit")
	}

	return nil
}

func invalid(key, value, suggestion string) error {
	return opserr.WithSuggestion(
		opserr.WithDetails(opserr.ErrConfigInvalid, map[string]string{"key": key, "value": value}),
		suggestion,
	)
}

// DustThreshold parses the configured dust threshold.
func (c *Config) DustThreshold() (decimal.Decimal, error) {
	return ParseThreshold(c.Dust.Threshold)
}

// ParseThreshold parses a positive decimal coin amount.
func ParseThreshold(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, opserr.WithSuggestion(
			opserr.WithDetails(opserr.ErrInvalidAmount, map[string]string{"threshold": s}),
			"use a positive decimal amount such as 0.0001",
		)
	}
	return d, nil
}

// DaemonTimeout returns the per-call daemon timeout.
func (c *Config) DaemonTimeout() time.Duration {
	return time.Duration(c.Daemon.TimeoutSeconds) * time.Second
}

// ExplorerTimeout returns the explorer request timeout.
func (c *Config) ExplorerTimeout() time.Duration {
	return time.Duration(c.Explorer.TimeoutSeconds) * time.Second
}

// CandidatesPath returns where the dust candidate list is written.
func (c *Config) CandidatesPath(home string) string {
	if c.Dust.CandidatesFile != "" {
		return ExpandHome(c.Dust.CandidatesFile)
	}
	return filepath.Join(home, "dust-candidates.txt")
}

// DefaultHome returns the default gaiaops home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gaiaops"
	}
	return filepath.Join(home, ".gaiaops")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
