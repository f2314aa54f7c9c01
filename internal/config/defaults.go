package config

// DefaultRPCURL is the daemon's default local JSON-RPC endpoint.
const DefaultRPCURL = "http://127.0.0.1:8332"

// DefaultDustThreshold is the amount below which a received output counts as dust.
const DefaultDustThreshold = "0.0001"

// DefaultUnlockSeconds keeps the wallet unlocked for staking until the daemon restarts.
const DefaultUnlockSeconds = 9999999

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.gaiaops",
		Daemon: DaemonConfig{
			Transport:      TransportCLI,
			RPCURL:         DefaultRPCURL,
			CLIPath:        "gaiacoin-cli",
			TimeoutSeconds: 30,
		},
		Explorer: ExplorerConfig{
			API:            ExplorerIquidus,
			URL:            "",
			TimeoutSeconds: 15,
		},
		Staking: StakingConfig{
			UnlockSeconds: DefaultUnlockSeconds,
			StakingOnly:   true,
		},
		Dust: DustConfig{
			Threshold:       DefaultDustThreshold,
			PrunesPerSecond: 0, // unlimited
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.gaiaops/gaiaops.log",
		},
	}
}
