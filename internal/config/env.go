package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvHome          = "GAIAOPS_HOME"
	EnvTransport     = "GAIAOPS_TRANSPORT"
	EnvRPCURL        = "GAIAOPS_RPC_URL"
	EnvRPCUser       = "GAIAOPS_RPC_USER"
	EnvRPCPassword   = "GAIAOPS_RPC_PASSWORD" // #nosec G101 -- false positive, this is a const name not a credential
	EnvExplorerURL   = "GAIAOPS_EXPLORER_URL"
	EnvOutputFormat  = "GAIAOPS_OUTPUT_FORMAT"
	EnvVerbose       = "GAIAOPS_VERBOSE"
	EnvLogLevel      = "GAIAOPS_LOG_LEVEL"
	EnvDustThreshold = "GAIAOPS_DUST_THRESHOLD"
	EnvNoColor       = "NO_COLOR"
)

// EnvFileName is the optional dotenv file read from the home directory.
const EnvFileName = "gaiaops.env"

// LoadEnvFile loads KEY=VALUE pairs from home/gaiaops.env into the process
// environment. Variables that are already set keep their values.
// A missing file is not an error.
func LoadEnvFile(home string) error {
	path := filepath.Join(home, EnvFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvTransport); v != "" {
		cfg.Daemon.Transport = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvRPCURL); v != "" {
		cfg.Daemon.RPCURL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvRPCUser); v != "" {
		cfg.Daemon.RPCUser = v
	}

	if v := os.Getenv(EnvRPCPassword); v != "" {
		cfg.Daemon.RPCPassword = v
	}

	if v := os.Getenv(EnvExplorerURL); v != "" {
		cfg.Explorer.URL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvDustThreshold); v != "" {
		cfg.Dust.Threshold = strings.TrimSpace(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL trims whitespace, control characters and trailing slashes
// left behind by copy-paste.
func SanitizeURL(url string) string {
	url = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, url)
	return strings.TrimRight(strings.TrimSpace(url), "/")
}
