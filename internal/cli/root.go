// Package cli implements the gaiaops command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/metrics"
	"github.com/gaiacoin/gaiaops/internal/output"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// BuildInfo carries version metadata injected at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	cmdCtx    *CommandContext

	buildInfo BuildInfo
)

// Command groups for root help output.
const (
	groupNode   = "node"
	groupWallet = "wallet"
	groupConfig = "config"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gaiaops",
	Short: "Operate a gaiacoin staking node",
	Long: `gaiaops drives a running gaiacoin daemon through its control interface.

It reports wallet and chain status, unlocks the wallet for staking,
cross-checks the local chain tip against a block explorer, and prunes
low-value dust transactions from the wallet.`,
	Example: `  gaiaops info
  gaiaops stake
  gaiaops latest
  gaiaops dust --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context so prompts return and long-running work stops between items.
// After the first signal the default handling is restored, so a second
// one terminates the process.
func Execute(info BuildInfo) error {
	buildInfo = info
	rootCmd.Version = formatVersion(info)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, stop)

	enrichHelp(rootCmd)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		formatErr(err)
		// PersistentPostRun is skipped when RunE fails.
		cleanup()
		return err
	}
	return nil
}

// formatErr prints err to stderr in the active format.
func formatErr(err error) {
	format := output.FormatText
	if formatter != nil {
		format = formatter.Format()
	}
	_ = output.FormatError(os.Stderr, err, format)
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return opserr.ExitCode(err)
}

// formatVersion renders build info for --version and the version command.
func formatVersion(info BuildInfo) string {
	v, commit, date := info.Version, info.Commit, info.Date
	if v == "" {
		v = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	// Determine home directory
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	home = config.ExpandHome(home)

	// Load or create config
	var loadErr error
	cfg, loadErr = config.Load(config.Path(home))
	if loadErr != nil {
		cfg = config.Defaults()
		if errors.Is(loadErr, opserr.ErrConfigNotFound) {
			loadErr = nil
		}
	}
	cfg.Home = home

	// The dotenv file never overrides variables already set.
	envErr := config.LoadEnvFile(home)

	// Apply environment variable overrides
	config.ApplyEnvironment(cfg)

	// Override with command-line flags
	if homeDir != "" {
		cfg.Home = config.ExpandHome(homeDir)
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		if _, err := output.ParseFormatStrict(outputFormat); err != nil {
			return opserr.WithSuggestion(opserr.WithCause(opserr.ErrInvalidFormat, err), "use --output text or --output json")
		}
		cfg.Output.DefaultFormat = outputFormat
	}

	// Initialize logger
	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	var err error
	logger, err = config.NewLogger(logLevel, cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}
	if loadErr != nil {
		logger.Error("config file ignored, using defaults: %v", loadErr)
	}
	if envErr != nil {
		logger.Error("loading %s: %v", config.EnvFileName, envErr)
	}

	// Initialize formatter
	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	detectedFormat := output.DetectFormat(os.Stdout, explicitFormat)
	formatter = output.NewFormatter(detectedFormat, os.Stdout)
	output.SetColorMode(output.ColorMode(cfg.Output.Color))

	cmdCtx = NewCommandContext(cfg, logger, formatter)

	if cmd != nil {
		logger.Debug("command %s starting (home=%s, log=%s)", cmd.CommandPath(), cfg.Home, logger.Path())
	}
	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		logger.Debug("metrics: %s", metrics.Global.Snapshot())
		_ = logger.Close()
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupNode, Title: "Node Operations:"},
		&cobra.Group{ID: groupWallet, Title: "Wallet Operations:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)
	rootCmd.SetHelpCommandGroupID(groupConfig)
	rootCmd.SetCompletionCommandGroupID(groupConfig)

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "gaiaops data directory (default: ~/.gaiaops)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(output.Formats))
		for _, f := range output.Formats {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
