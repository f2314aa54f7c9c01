package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/output"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

func TestGetConfigValue(t *testing.T) {
	testCfg := config.Defaults()
	testCfg.Home = "/test/home"
	testCfg.Daemon.Transport = config.TransportRPC
	testCfg.Daemon.RPCURL = "http://10.0.0.2:8332"
	testCfg.Daemon.RPCUser = "operator"
	testCfg.Daemon.RPCPassword = "hunter2"
	testCfg.Daemon.CLIArgs = []string{"-datadir=/data", "-testnet"}
	testCfg.Explorer.URL = "https://explorer.example.com"
	testCfg.Staking.UnlockSeconds = 3600
	testCfg.Dust.Threshold = "0.001"
	testCfg.Dust.PrunesPerSecond = 2.5
	testCfg.Output.DefaultFormat = "json"
	testCfg.Output.Verbose = true
	testCfg.Logging.Level = "debug"
	testCfg.Logging.File = "/var/log/gaiaops.log"

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "home", path: "home", want: "/test/home"},
		{name: "unknown single key", path: "unknown", wantErr: true},

		{name: "daemon.transport", path: "daemon.transport", want: "rpc"},
		{name: "daemon.rpc_url", path: "daemon.rpc_url", want: "http://10.0.0.2:8332"},
		{name: "daemon.rpc_user", path: "daemon.rpc_user", want: "operator"},
		{name: "daemon.rpc_password is masked", path: "daemon.rpc_password", want: "********"},
		{name: "daemon.cli_args", path: "daemon.cli_args", want: "-datadir=/data -testnet"},
		{name: "daemon.timeout_seconds", path: "daemon.timeout_seconds", want: "30"},
		{name: "daemon.unknown", path: "daemon.unknown", wantErr: true},

		{name: "explorer.api", path: "explorer.api", want: "iquidus"},
		{name: "explorer.url", path: "explorer.url", want: "https://explorer.example.com"},

		{name: "staking.unlock_seconds", path: "staking.unlock_seconds", want: "3600"},
		{name: "staking.staking_only", path: "staking.staking_only", want: "true"},

		{name: "dust.threshold", path: "dust.threshold", want: "0.001"},
		{name: "dust.candidates_file defaults under home", path: "dust.candidates_file", want: "/test/home/dust-candidates.txt"},
		{name: "dust.prunes_per_second", path: "dust.prunes_per_second", want: "2.5"},

		{name: "output.default_format", path: "output.default_format", want: "json"},
		{name: "output.verbose", path: "output.verbose", want: "true"},
		{name: "output.color", path: "output.color", want: "auto"},

		{name: "logging.level", path: "logging.level", want: "debug"},
		{name: "logging.file", path: "logging.file", want: "/var/log/gaiaops.log"},

		{name: "unknown.key", path: "unknown.key", wantErr: true},
		{name: "too many parts", path: "daemon.rpc_url.host", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := getConfigValue(testCfg, tc.path)
			if tc.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, opserr.ErrUnknownConfigKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetConfigValue_PasswordNotConfigured(t *testing.T) {
	got, err := getConfigValue(config.Defaults(), "daemon.rpc_password")
	require.NoError(t, err)
	assert.Equal(t, notConfigured, got)
}

func TestGetConfigValue_EveryKeyResolves(t *testing.T) {
	testCfg := config.Defaults()
	for _, key := range configKeys {
		t.Run(key, func(t *testing.T) {
			_, err := getConfigValue(testCfg, key)
			assert.NoError(t, err)
		})
	}
}

func TestUnknownKey_Suggestion(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "dust.treshold", want: "did you mean 'dust.threshold'?"},
		{path: "daemon.transprt", want: "did you mean 'daemon.transport'?"},
		{path: "logging.levl", want: "did you mean 'logging.level'?"},
		{path: "completely.different", want: "run 'gaiaops config show' to list settings"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			_, err := getConfigValue(config.Defaults(), tc.path)
			require.ErrorIs(t, err, opserr.ErrUnknownConfigKey)

			var oe *opserr.OpsError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, tc.want, oe.Suggestion)
			assert.Equal(t, tc.path, oe.Details["path"])
		})
	}
}

func TestSuggestKey(t *testing.T) {
	assert.Equal(t, "dust.threshold", suggestKey("dust.threshhold"))
	assert.Equal(t, "home", suggestKey("hom"))
	assert.Empty(t, suggestKey("zzzzzzzzzzzz"))
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		value   string
		check   func(t *testing.T, c *config.Config)
		wantErr error
	}{
		{
			name: "daemon.transport rpc", path: "daemon.transport", value: "rpc",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, config.TransportRPC, c.Daemon.Transport) },
		},
		{name: "daemon.transport invalid", path: "daemon.transport", value: "ssh", wantErr: opserr.ErrInvalidFormat},
		{
			name: "daemon.rpc_url sanitized", path: "daemon.rpc_url", value: " http://127.0.0.1:8332/ ",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "http://127.0.0.1:8332", c.Daemon.RPCURL) },
		},
		{
			name: "daemon.cli_args split on whitespace", path: "daemon.cli_args", value: "-datadir=/data  -testnet",
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, []string{"-datadir=/data", "-testnet"}, c.Daemon.CLIArgs)
			},
		},
		{
			name: "daemon.timeout_seconds", path: "daemon.timeout_seconds", value: "45",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, 45, c.Daemon.TimeoutSeconds) },
		},
		{name: "daemon.timeout_seconds zero", path: "daemon.timeout_seconds", value: "0", wantErr: opserr.ErrInvalidFormat},
		{name: "daemon.timeout_seconds text", path: "daemon.timeout_seconds", value: "soon", wantErr: opserr.ErrInvalidFormat},
		{
			name: "explorer.api esplora", path: "explorer.api", value: "esplora",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, config.ExplorerEsplora, c.Explorer.API) },
		},
		{name: "explorer.api invalid", path: "explorer.api", value: "blockbook", wantErr: opserr.ErrInvalidFormat},
		{
			name: "staking.unlock_seconds", path: "staking.unlock_seconds", value: "86400",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, int64(86400), c.Staking.UnlockSeconds) },
		},
		{name: "staking.unlock_seconds negative", path: "staking.unlock_seconds", value: "-1", wantErr: opserr.ErrInvalidFormat},
		{
			name: "staking.staking_only false", path: "staking.staking_only", value: "false",
			check: func(t *testing.T, c *config.Config) { assert.False(t, c.Staking.StakingOnly) },
		},
		{name: "staking.staking_only invalid", path: "staking.staking_only", value: "maybe", wantErr: opserr.ErrInvalidFormat},
		{
			name: "dust.threshold", path: "dust.threshold", value: "0.00005",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "0.00005", c.Dust.Threshold) },
		},
		{name: "dust.threshold zero", path: "dust.threshold", value: "0", wantErr: opserr.ErrInvalidAmount},
		{name: "dust.threshold not a number", path: "dust.threshold", value: "tiny", wantErr: opserr.ErrInvalidAmount},
		{
			name: "dust.prunes_per_second", path: "dust.prunes_per_second", value: "5",
			check: func(t *testing.T, c *config.Config) { assert.InDelta(t, 5.0, c.Dust.PrunesPerSecond, 0) },
		},
		{name: "dust.prunes_per_second negative", path: "dust.prunes_per_second", value: "-2", wantErr: opserr.ErrInvalidFormat},
		{
			name: "output.default_format", path: "output.default_format", value: "json",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "json", c.Output.DefaultFormat) },
		},
		{name: "output.default_format yaml", path: "output.default_format", value: "yaml", wantErr: opserr.ErrInvalidFormat},
		{name: "output.color invalid", path: "output.color", value: "rainbow", wantErr: opserr.ErrInvalidFormat},
		{
			name: "logging.level", path: "logging.level", value: "debug",
			check: func(t *testing.T, c *config.Config) { assert.Equal(t, "debug", c.Logging.Level) },
		},
		{name: "logging.level invalid", path: "logging.level", value: "trace", wantErr: opserr.ErrInvalidFormat},
		{name: "unknown key", path: "dust.size", value: "1", wantErr: opserr.ErrUnknownConfigKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Defaults()
			err := setConfigValue(c, tc.path, tc.value)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestDisplayConfigText_MasksPassword(t *testing.T) {
	c := config.Defaults()
	c.Home = "/test/home"
	c.Daemon.RPCPassword = "hunter2"

	var buf bytes.Buffer
	require.NoError(t, displayConfigText(&buf, c))

	result := buf.String()
	assert.Contains(t, result, "Configuration:")
	assert.Contains(t, result, "Home: /test/home")
	assert.Contains(t, result, "rpc_password: ********")
	assert.Contains(t, result, "threshold: 0.0001")
	assert.NotContains(t, result, "hunter2")
}

func TestDisplayConfigText_NotConfigured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, displayConfigText(&buf, config.Defaults()))

	assert.Contains(t, buf.String(), "rpc_user: "+notConfigured)
	assert.Contains(t, buf.String(), "url: "+notConfigured)
}

func TestDisplayConfigJSON_MasksPassword(t *testing.T) {
	c := config.Defaults()
	c.Daemon.RPCPassword = "hunter2"

	var buf bytes.Buffer
	require.NoError(t, displayConfigJSON(&buf, c))
	assert.NotContains(t, buf.String(), "hunter2")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	daemonSection, ok := decoded["daemon"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "********", daemonSection["rpc_password"])
	assert.Equal(t, "cli", daemonSection["transport"])
}

func newConfigTestCmd() (*cobra.Command, *bytes.Buffer) {
	return newTestCmd(nil)
}

func TestRunConfigInit_Success(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd, nil))

	assert.Contains(t, buf.String(), "Configuration initialized")
	assert.Contains(t, buf.String(), config.EnvFileName)

	loaded, err := config.Load(config.Path(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDustThreshold, loaded.Dust.Threshold)
}

func TestRunConfigInit_ForceOverwrite(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd, nil))

	cmdSet, _ := newConfigTestCmd()
	require.NoError(t, runConfigSet(cmdSet, []string{"logging.level", "debug"}))

	configForce = true
	defer func() { configForce = false }()

	cmd2, buf2 := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd2, nil))
	assert.Contains(t, buf2.String(), "Configuration initialized")

	loaded, err := config.Load(config.Path(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, "error", loaded.Logging.Level)
}

func TestRunConfigInit_AlreadyExistsWithoutForce(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd, nil))

	configForce = false
	cmd2, _ := newConfigTestCmd()
	err := runConfigInit(cmd2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "an error occurred")
}

func TestRunConfigShow_TextFormat(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	formatter = output.NewFormatter(output.FormatText, os.Stdout)

	cmd, buf := newConfigTestCmd()
	require.NoError(t, runConfigShow(cmd, nil))

	assert.Contains(t, buf.String(), "Configuration:")
	assert.Contains(t, buf.String(), "Daemon:")
	assert.Contains(t, buf.String(), "Dust:")
}

func TestRunConfigShow_JSONFormat(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	formatter = output.NewFormatter(output.FormatJSON, os.Stdout)

	cmd, buf := newConfigTestCmd()
	require.NoError(t, runConfigShow(cmd, nil))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "home")
	assert.Contains(t, decoded, "staking")
}

func TestRunConfigGet_ValidPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()
	require.NoError(t, runConfigGet(cmd, []string{"staking.unlock_seconds"}))
	assert.Equal(t, "9999999\n", buf.String())
}

func TestRunConfigGet_InvalidPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	err := runConfigGet(cmd, []string{"nonexistent"})
	require.ErrorIs(t, err, opserr.ErrUnknownConfigKey)
	assert.Equal(t, opserr.ExitInput, opserr.ExitCode(err))
}

func TestRunConfigSet_ValidValue(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd0, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd0, nil))

	cmd, buf := newConfigTestCmd()
	require.NoError(t, runConfigSet(cmd, []string{"dust.threshold", "0.002"}))
	assert.Contains(t, buf.String(), "Set dust.threshold = 0.002")

	updatedCfg, err := config.Load(config.Path(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, "0.002", updatedCfg.Dust.Threshold)
}

func TestRunConfigSet_InvalidPath(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"dust.treshold", "0.1"})
	require.ErrorIs(t, err, opserr.ErrUnknownConfigKey)

	var oe *opserr.OpsError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "did you mean 'dust.threshold'?", oe.Suggestion)
}

func TestRunConfigSet_InvalidValue(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd0, _ := newConfigTestCmd()
	require.NoError(t, runConfigInit(cmd0, nil))

	cmd, _ := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"output.default_format", "yaml"})
	require.ErrorIs(t, err, opserr.ErrInvalidFormat)

	loaded, loadErr := config.Load(config.Path(tmpDir))
	require.NoError(t, loadErr)
	assert.Equal(t, "auto", loaded.Output.DefaultFormat)
}

func TestRunConfigSet_RejectsPassword(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, _ := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"daemon.rpc_password", "hunter2"})
	require.ErrorIs(t, err, opserr.ErrInvalidInput)

	var oe *opserr.OpsError
	require.ErrorAs(t, err, &oe)
	assert.Contains(t, oe.Suggestion, config.EnvFileName)

	_, statErr := os.Stat(config.Path(tmpDir))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestRunConfigSet_NoConfigFile(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newConfigTestCmd()
	require.NoError(t, runConfigSet(cmd, []string{"logging.level", "off"}))
	assert.Contains(t, buf.String(), "Set logging.level = off")

	loaded, err := config.Load(config.Path(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, "off", loaded.Logging.Level)
	assert.Equal(t, config.TransportCLI, loaded.Daemon.Transport)
}

// TestRunConfigSet_CorruptFileUntouched refuses to replace a file it
// could not parse.
func TestRunConfigSet_CorruptFileUntouched(t *testing.T) {
	tmpDir, testCleanup := setupTestEnv(t)
	defer testCleanup()

	path := config.Path(tmpDir)
	require.NoError(t, os.WriteFile(path, []byte("daemon: [unclosed"), 0o600))

	cmd, _ := newConfigTestCmd()
	err := runConfigSet(cmd, []string{"logging.level", "off"})
	require.ErrorIs(t, err, opserr.ErrConfigInvalid)

	data, readErr := os.ReadFile(path) //nolint:gosec // G304: test path
	require.NoError(t, readErr)
	assert.Equal(t, "daemon: [unclosed", string(data))
}
