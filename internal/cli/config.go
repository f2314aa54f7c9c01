package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/output"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// maxKeyDistance is the largest edit distance offered as a suggestion.
const maxKeyDistance = 3

// notConfigured is shown for empty optional values.
const notConfigured = "(not configured)"

// configKeys lists every settable path in display order.
//
//nolint:gochecknoglobals // fixed key registry
var configKeys = []string{
	"home",
	"daemon.transport",
	"daemon.rpc_url",
	"daemon.rpc_user",
	"daemon.rpc_password",
	"daemon.cli_path",
	"daemon.cli_args",
	"daemon.timeout_seconds",
	"explorer.api",
	"explorer.url",
	"explorer.timeout_seconds",
	"staking.unlock_seconds",
	"staking.staking_only",
	"dust.threshold",
	"dust.candidates_file",
	"dust.prunes_per_second",
	"output.default_format",
	"output.color",
	"output.verbose",
	"logging.level",
	"logging.file",
}

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	GroupID: groupConfig,
	Use:     "config",
	Short:   "Manage configuration",
	Long:    `View and modify gaiaops configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.gaiaops/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  gaiaops config init
  gaiaops config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration: file, environment and flags merged.
The RPC password is never shown.`,
	Example: `  gaiaops config show
  gaiaops config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.`,
	Example: `  gaiaops config get daemon.transport
  gaiaops config get dust.threshold
  gaiaops config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.
The configuration file will be updated immediately.

The RPC password cannot be set here because command lines are visible to
other users; put GAIAOPS_RPC_PASSWORD in ~/.gaiaops/gaiaops.env instead.`,
	Example: `  gaiaops config set daemon.transport rpc
  gaiaops config set explorer.url https://explorer.gaiacoin.org
  gaiaops config set dust.threshold 0.001`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return opserr.WithSuggestion(
			opserr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	// Create default config
	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home

	// Write config file
	if err := config.Save(defaultCfg, configPath); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - daemon.transport: cli (gaiacoin-cli) or rpc (JSON-RPC over HTTP)")
	outln(w, "  - daemon.cli_args: extra gaiacoin-cli arguments such as -datadir=...")
	outln(w, "  - explorer.url: block explorer used by 'gaiaops latest'")
	outln(w, "  - dust.threshold: amount below which incoming transactions are dust")
	outln(w, "  - logging.level: Log level (off/error/debug)")
	outln(w)
	out(w, "Keep rpc_user/rpc_password in %s as GAIAOPS_RPC_USER/GAIAOPS_RPC_PASSWORD.\n",
		config.EnvFileName)

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	if formatter.Format() == output.FormatJSON {
		return displayConfigJSON(w, cfg)
	}

	return displayConfigText(w, cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	path := args[0]

	value, err := getConfigValue(cfg, path)
	if err != nil {
		return err
	}

	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := args[0]
	value := args[1]

	if path == "daemon.rpc_password" {
		return opserr.WithSuggestion(
			opserr.WithDetails(opserr.ErrInvalidInput, map[string]string{"key": path}),
			fmt.Sprintf("set GAIAOPS_RPC_PASSWORD in %s instead", config.EnvFileName),
		)
	}

	// Validate the path exists
	if _, err := getConfigValue(cfg, path); err != nil {
		return err
	}

	// Load current config from file
	configPath := config.Path(cfg.Home)
	currentCfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, opserr.ErrConfigNotFound):
		currentCfg = config.Defaults()
		currentCfg.Home = cfg.Home
	case err != nil:
		// Never overwrite a file that could not be parsed.
		return opserr.WithSuggestion(err, "fix the file by hand or run 'gaiaops config init --force'")
	}

	// Update the value
	if err := setConfigValue(currentCfg, path, value); err != nil {
		return err
	}
	if err := currentCfg.Validate(); err != nil {
		return err
	}

	// Save updated config
	if err := config.Save(currentCfg, configPath); err != nil {
		return err
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)
	return nil
}

// unknownKey reports path as unknown, suggesting the closest known key.
func unknownKey(path string) error {
	err := opserr.WithDetails(opserr.ErrUnknownConfigKey, map[string]string{"path": path})
	if s := suggestKey(path); s != "" {
		return opserr.WithSuggestion(err, fmt.Sprintf("did you mean '%s'?", s))
	}
	return opserr.WithSuggestion(err, "run 'gaiaops config show' to list settings")
}

// suggestKey returns the known key closest to path, or "" when nothing is close.
func suggestKey(path string) string {
	minDist := maxKeyDistance + 1
	suggestion := ""
	for _, k := range configKeys {
		d := levenshtein.ComputeDistance(path, k)
		if d < minDist {
			minDist = d
			suggestion = k
		}
	}
	return suggestion
}

// getConfigValue retrieves a value from the config using dot notation.
func getConfigValue(c *config.Config, path string) (string, error) {
	section, key, found := strings.Cut(path, ".")
	if !found {
		if path == "home" {
			return c.Home, nil
		}
		return "", unknownKey(path)
	}

	var (
		v  string
		ok bool
	)
	switch section {
	case "daemon":
		v, ok = getDaemonValue(c, key)
	case "explorer":
		v, ok = getExplorerValue(c, key)
	case "staking":
		v, ok = getStakingValue(c, key)
	case "dust":
		v, ok = getDustValue(c, key)
	case "output":
		v, ok = getOutputValue(c, key)
	case "logging":
		v, ok = getLoggingValue(c, key)
	}
	if !ok {
		return "", unknownKey(path)
	}
	return v, nil
}

func getDaemonValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "transport":
		return c.Daemon.Transport, true
	case "rpc_url":
		return c.Daemon.RPCURL, true
	case "rpc_user":
		return c.Daemon.RPCUser, true
	case "rpc_password":
		return maskSecret(c.Daemon.RPCPassword), true
	case "cli_path":
		return c.Daemon.CLIPath, true
	case "cli_args":
		return strings.Join(c.Daemon.CLIArgs, " "), true
	case "timeout_seconds":
		return strconv.Itoa(c.Daemon.TimeoutSeconds), true
	default:
		return "", false
	}
}

func getExplorerValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "api":
		return c.Explorer.API, true
	case "url":
		return c.Explorer.URL, true
	case "timeout_seconds":
		return strconv.Itoa(c.Explorer.TimeoutSeconds), true
	default:
		return "", false
	}
}

func getStakingValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "unlock_seconds":
		return strconv.FormatInt(c.Staking.UnlockSeconds, 10), true
	case "staking_only":
		return strconv.FormatBool(c.Staking.StakingOnly), true
	default:
		return "", false
	}
}

func getDustValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "threshold":
		return c.Dust.Threshold, true
	case "candidates_file":
		return c.CandidatesPath(c.Home), true
	case "prunes_per_second":
		return strconv.FormatFloat(c.Dust.PrunesPerSecond, 'f', -1, 64), true
	default:
		return "", false
	}
}

func getOutputValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "default_format":
		return c.Output.DefaultFormat, true
	case "verbose":
		return strconv.FormatBool(c.Output.Verbose), true
	case "color":
		return c.Output.Color, true
	default:
		return "", false
	}
}

func getLoggingValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "level":
		return c.Logging.Level, true
	case "file":
		return c.Logging.File, true
	default:
		return "", false
	}
}

// setConfigValue sets a value in the config using dot notation.
//
//nolint:gocyclo,funlen // one case per setting
func setConfigValue(c *config.Config, path, value string) error {
	switch path {
	case "home":
		c.Home = value
	case "daemon.transport":
		if err := oneOf(path, value, config.TransportCLI, config.TransportRPC); err != nil {
			return err
		}
		c.Daemon.Transport = value
	case "daemon.rpc_url":
		c.Daemon.RPCURL = config.SanitizeURL(value)
	case "daemon.rpc_user":
		c.Daemon.RPCUser = value
	case "daemon.cli_path":
		c.Daemon.CLIPath = value
	case "daemon.cli_args":
		c.Daemon.CLIArgs = strings.Fields(value)
	case "daemon.timeout_seconds":
		n, err := positiveInt(path, value)
		if err != nil {
			return err
		}
		c.Daemon.TimeoutSeconds = n
	case "explorer.api":
		if err := oneOf(path, value, config.ExplorerIquidus, config.ExplorerEsplora); err != nil {
			return err
		}
		c.Explorer.API = value
	case "explorer.url":
		c.Explorer.URL = config.SanitizeURL(value)
	case "explorer.timeout_seconds":
		n, err := positiveInt(path, value)
		if err != nil {
			return err
		}
		c.Explorer.TimeoutSeconds = n
	case "staking.unlock_seconds":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return invalidValue(path, value, "a positive number of seconds")
		}
		c.Staking.UnlockSeconds = n
	case "staking.staking_only":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalidValue(path, value, "true or false")
		}
		c.Staking.StakingOnly = b
	case "dust.threshold":
		if _, err := config.ParseThreshold(value); err != nil {
			return err
		}
		c.Dust.Threshold = value
	case "dust.candidates_file":
		c.Dust.CandidatesFile = value
	case "dust.prunes_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return invalidValue(path, value, "a non-negative number, 0 for no limit")
		}
		c.Dust.PrunesPerSecond = f
	case "output.default_format":
		if err := oneOf(path, value, "text", "json", "auto"); err != nil {
			return err
		}
		c.Output.DefaultFormat = value
	case "output.verbose":
		c.Output.Verbose = value == "true"
	case "output.color":
		if err := oneOf(path, value, "auto", "always", "never"); err != nil {
			return err
		}
		c.Output.Color = value
	case "logging.level":
		if err := oneOf(path, value, "off", "error", "debug"); err != nil {
			return err
		}
		c.Logging.Level = value
	case "logging.file":
		c.Logging.File = value
	default:
		return unknownKey(path)
	}
	return nil
}

func oneOf(path, value string, valid ...string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return invalidValue(path, value, strings.Join(valid, ", "))
}

func positiveInt(path, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, invalidValue(path, value, "a positive number of seconds")
	}
	return n, nil
}

func invalidValue(path, value, valid string) error {
	return opserr.WithDetails(
		opserr.ErrInvalidFormat,
		map[string]string{"key": path, "value": value, "valid": valid},
	)
}

// maskSecret hides a configured secret.
func maskSecret(s string) string {
	if s == "" {
		return notConfigured
	}
	return "********"
}

func orNotConfigured(s string) string {
	if s == "" {
		return notConfigured
	}
	return s
}

// displayConfigText shows the config in text format.
func displayConfigText(w io.Writer, c *config.Config) error {
	outln(w, "Configuration:")
	outln(w)
	out(w, "  Home: %s\n", c.Home)
	outln(w)
	outln(w, "  Daemon:")
	out(w, "    transport: %s\n", c.Daemon.Transport)
	out(w, "    rpc_url: %s\n", c.Daemon.RPCURL)
	out(w, "    rpc_user: %s\n", orNotConfigured(c.Daemon.RPCUser))
	out(w, "    rpc_password: %s\n", maskSecret(c.Daemon.RPCPassword))
	out(w, "    cli_path: %s\n", c.Daemon.CLIPath)
	out(w, "    cli_args: %s\n", orNotConfigured(strings.Join(c.Daemon.CLIArgs, " ")))
	out(w, "    timeout_seconds: %d\n", c.Daemon.TimeoutSeconds)
	outln(w)
	outln(w, "  Explorer:")
	out(w, "    api: %s\n", c.Explorer.API)
	out(w, "    url: %s\n", orNotConfigured(c.Explorer.URL))
	out(w, "    timeout_seconds: %d\n", c.Explorer.TimeoutSeconds)
	outln(w)
	outln(w, "  Staking:")
	out(w, "    unlock_seconds: %d\n", c.Staking.UnlockSeconds)
	out(w, "    staking_only: %t\n", c.Staking.StakingOnly)
	outln(w)
	outln(w, "  Dust:")
	out(w, "    threshold: %s\n", c.Dust.Threshold)
	out(w, "    candidates_file: %s\n", c.CandidatesPath(c.Home))
	out(w, "    prunes_per_second: %s\n", strconv.FormatFloat(c.Dust.PrunesPerSecond, 'f', -1, 64))
	outln(w)
	outln(w, "  Output:")
	out(w, "    default_format: %s\n", c.Output.DefaultFormat)
	out(w, "    verbose: %t\n", c.Output.Verbose)
	out(w, "    color: %s\n", c.Output.Color)
	outln(w)
	outln(w, "  Logging:")
	out(w, "    level: %s\n", c.Logging.Level)
	out(w, "    file: %s\n", c.Logging.File)

	return nil
}

// displayConfigJSON shows the config in JSON format.
func displayConfigJSON(w io.Writer, c *config.Config) error {
	type daemonJSON struct {
		Transport      string   `json:"transport"`
		RPCURL         string   `json:"rpc_url"`
		RPCUser        string   `json:"rpc_user,omitempty"`
		RPCPassword    string   `json:"rpc_password"`
		CLIPath        string   `json:"cli_path"`
		CLIArgs        []string `json:"cli_args"`
		TimeoutSeconds int      `json:"timeout_seconds"`
	}
	type configJSON struct {
		Version  int        `json:"version"`
		Home     string     `json:"home"`
		Daemon   daemonJSON `json:"daemon"`
		Explorer struct {
			API            string `json:"api"`
			URL            string `json:"url"`
			TimeoutSeconds int    `json:"timeout_seconds"`
		} `json:"explorer"`
		Staking struct {
			UnlockSeconds int64 `json:"unlock_seconds"`
			StakingOnly   bool  `json:"staking_only"`
		} `json:"staking"`
		Dust struct {
			Threshold       string  `json:"threshold"`
			CandidatesFile  string  `json:"candidates_file"`
			PrunesPerSecond float64 `json:"prunes_per_second"`
		} `json:"dust"`
		Output struct {
			DefaultFormat string `json:"default_format"`
			Color         string `json:"color"`
			Verbose       bool   `json:"verbose"`
		} `json:"output"`
		Logging struct {
			Level string `json:"level"`
			File  string `json:"file"`
		} `json:"logging"`
	}

	outCfg := configJSON{
		Version: c.Version,
		Home:    c.Home,
		Daemon: daemonJSON{
			Transport:      c.Daemon.Transport,
			RPCURL:         c.Daemon.RPCURL,
			RPCUser:        c.Daemon.RPCUser,
			RPCPassword:    maskSecret(c.Daemon.RPCPassword),
			CLIPath:        c.Daemon.CLIPath,
			CLIArgs:        append([]string{}, c.Daemon.CLIArgs...),
			TimeoutSeconds: c.Daemon.TimeoutSeconds,
		},
	}
	outCfg.Explorer.API = c.Explorer.API
	outCfg.Explorer.URL = c.Explorer.URL
	outCfg.Explorer.TimeoutSeconds = c.Explorer.TimeoutSeconds
	outCfg.Staking.UnlockSeconds = c.Staking.UnlockSeconds
	outCfg.Staking.StakingOnly = c.Staking.StakingOnly
	outCfg.Dust.Threshold = c.Dust.Threshold
	outCfg.Dust.CandidatesFile = c.CandidatesPath(c.Home)
	outCfg.Dust.PrunesPerSecond = c.Dust.PrunesPerSecond
	outCfg.Output.DefaultFormat = c.Output.DefaultFormat
	outCfg.Output.Color = c.Output.Color
	outCfg.Output.Verbose = c.Output.Verbose
	outCfg.Logging.Level = c.Logging.Level
	outCfg.Logging.File = c.Logging.File

	return writeJSON(w, outCfg)
}
