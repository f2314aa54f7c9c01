package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/output"
	"github.com/gaiacoin/gaiaops/internal/service/staking"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// stakeCmd unlocks the wallet for staking.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var stakeCmd = &cobra.Command{
	GroupID: groupWallet,
	Use:     "stake",
	Short:   "Unlock the wallet for staking",
	Long: `Prompt for the wallet passphrase and unlock the wallet.

The passphrase is read without echo, sent to the daemon once and wiped
from memory. It is never logged, written to disk or passed on a command
line. By default the unlock only permits staking, not spending.`,
	Example: `  gaiaops stake
  gaiaops stake --duration 3600
  gaiaops stake --staking-only=false`,
	Args: cobra.NoArgs,
	RunE: runStake,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	stakeDuration    int64
	stakeStakingOnly bool
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(stakeCmd)

	stakeCmd.Flags().Int64Var(&stakeDuration, "duration", 0, "unlock duration in seconds (default: staking.unlock_seconds)")
	stakeCmd.Flags().BoolVar(&stakeStakingOnly, "staking-only", true, "only permit staking while unlocked (default: staking.staking_only)")
}

type stakeJSON struct {
	Unlocked    bool   `json:"unlocked"`
	Seconds     int64  `json:"seconds"`
	StakingOnly bool   `json:"staking_only"`
	Until       string `json:"until"`
}

func runStake(cmd *cobra.Command, _ []string) error {
	seconds := cmdCtx.Cfg.Staking.UnlockSeconds
	if cmd.Flags().Changed("duration") {
		seconds = stakeDuration
	}
	stakingOnly := cmdCtx.Cfg.Staking.StakingOnly
	if cmd.Flags().Changed("staking-only") {
		stakingOnly = stakeStakingOnly
	}

	client, err := cmdCtx.DaemonClient()
	if err != nil {
		return err
	}

	svc := staking.NewService(&staking.Config{
		Client:      client,
		Prompt:      readPassphrase,
		CallTimeout: cmdCtx.Cfg.DaemonTimeout(),
		Logger:      cmdCtx.logger().Component("staking"),
	})

	// No deadline here: the operator may take any time to type, and the
	// service bounds the daemon call itself.
	ctx, cancel := contextWithTimeout(cmd, 0)
	defer cancel()

	res, err := svc.Unlock(ctx, seconds, stakingOnly)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.IsJSON() {
		return writeJSON(w, stakeJSON{
			Unlocked:    true,
			Seconds:     int64(res.Duration / time.Second),
			StakingOnly: res.StakingOnly,
			Until:       res.Until.UTC().Format(time.RFC3339),
		})
	}

	mode := "staking only"
	if !res.StakingOnly {
		mode = "staking and spending"
	}
	output.Successf(w, "Wallet unlocked for %s (%s), until %s", res.Duration, mode, res.Until.Format(time.RFC1123))
	return nil
}

// readPassphrase reads the wallet passphrase through the swappable prompt.
// Interruption errors are returned unchanged.
func readPassphrase(ctx context.Context, prompt string) ([]byte, error) {
	pass, err := promptPasswordFn(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, opserr.WithSuggestion(
			opserr.WithCause(opserr.ErrInvalidInput, err),
			"run stake from an interactive terminal",
		)
	}
	return pass, nil
}
