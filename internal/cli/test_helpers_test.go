package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/output"
)

// setupTestEnv points the CLI globals at a temp home with default config,
// a null logger and a text formatter. The returned func restores them.
func setupTestEnv(t *testing.T) (string, func()) {
	t.Helper()

	origCfg := cfg
	origLogger := logger
	origFormatter := formatter
	origCmdCtx := cmdCtx

	tmpDir := t.TempDir()

	testCfg := config.Defaults()
	testCfg.Home = tmpDir
	cfg = testCfg
	logger = config.NullLogger()
	formatter = output.NewFormatter(output.FormatText, os.Stdout)
	cmdCtx = NewCommandContext(cfg, logger, formatter)

	cleanup := func() {
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter
		cmdCtx = origCmdCtx
	}

	return tmpDir, cleanup
}

// setupDaemonEnv is setupTestEnv with client injected as the daemon and
// the given output format.
func setupDaemonEnv(t *testing.T, client daemon.Client, format output.Format) string {
	t.Helper()

	tmpDir, cleanup := setupTestEnv(t)
	t.Cleanup(cleanup)

	formatter = output.NewFormatter(format, os.Stdout)
	cmdCtx = NewCommandContext(cfg, logger, formatter).WithDaemon(client)
	return tmpDir
}

// withMockPrompts replaces the prompt functions and terminal check for the test.
// Each call to the password prompt returns a fresh copy of password.
func withMockPrompts(t *testing.T, password []byte, confirm, tty bool) {
	t.Helper()
	origPW := promptPasswordFn
	origConfirm := promptConfirmFn
	origTTY := stdinIsTerminal
	t.Cleanup(func() {
		promptPasswordFn = origPW
		promptConfirmFn = origConfirm
		stdinIsTerminal = origTTY
	})
	promptPasswordFn = func(context.Context, string) ([]byte, error) {
		cp := make([]byte, len(password))
		copy(cp, password)
		return cp, nil
	}
	promptConfirmFn = func(context.Context, string) bool { return confirm }
	stdinIsTerminal = func() bool { return tty }
}

// newTestCmd returns a command with a fresh flag set and buffered output.
// flags registers the command's flags so Changed can be exercised.
func newTestCmd(flags func(*cobra.Command)) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	if flags != nil {
		flags(cmd)
	}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return cmd, &buf
}
