package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/output"
	"github.com/gaiacoin/gaiaops/internal/service/dust"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// dustCmd prunes dust transactions from the wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var dustCmd = &cobra.Command{
	GroupID: groupWallet,
	Use:     "dust",
	Short:   "Prune low-value incoming transactions from the wallet",
	Long: `Scan the full wallet history for incoming transactions below the dust
threshold and remove their records with removeprunedfunds.

The candidate list is printed and written to the candidates file before
anything is pruned. On a terminal you are asked to confirm; elsewhere
--yes is required. A failed prune does not stop the batch.

Pruning only removes the wallet's local record. It does not touch the
chain and cannot be undone from gaiaops.`,
	Example: `  gaiaops dust --dry-run
  gaiaops dust --threshold 0.001
  gaiaops dust --from-file ~/.gaiaops/dust-candidates.txt --yes`,
	Args: cobra.NoArgs,
	RunE: runDust,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	dustThreshold string
	dustDryRun    bool
	dustYes       bool
	dustFromFile  string
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(dustCmd)

	dustCmd.Flags().StringVar(&dustThreshold, "threshold", "", "dust threshold in coins (default: dust.threshold, 0.0001)")
	dustCmd.Flags().BoolVar(&dustDryRun, "dry-run", false, "identify and list candidates without pruning")
	dustCmd.Flags().BoolVarP(&dustYes, "yes", "y", false, "prune without asking for confirmation")
	dustCmd.Flags().StringVar(&dustFromFile, "from-file", "", "prune the txids listed in a saved candidates file instead of scanning")
	dustCmd.MarkFlagsMutuallyExclusive("threshold", "from-file")
}

type dustFailureJSON struct {
	TxID   string `json:"txid"`
	Reason string `json:"reason"`
}

type dustJSON struct {
	Threshold      string            `json:"threshold,omitempty"`
	CandidatesFile string            `json:"candidates_file"`
	Candidates     []string          `json:"candidates"`
	DryRun         bool              `json:"dry_run"`
	Attempted      int               `json:"attempted"`
	Pruned         []string          `json:"pruned"`
	Failed         []dustFailureJSON `json:"failed"`
	Interrupted    bool              `json:"interrupted"`
}

//nolint:gocognit,gocyclo // identify, confirm and execute are kept in one readable flow
func runDust(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	jsonOut := cmdCtx.Fmt.IsJSON()

	client, err := cmdCtx.DaemonClient()
	if err != nil {
		return err
	}

	var progress dust.ProgressFunc
	if !jsonOut {
		progress = dustProgress(w)
	}
	svc := dust.NewService(&dust.Config{
		Client:          client,
		PrunesPerSecond: cmdCtx.Cfg.Dust.PrunesPerSecond,
		Progress:        progress,
		Logger:          cmdCtx.logger().Component("dust"),
	})

	result := dustJSON{Pruned: []string{}, Failed: []dustFailureJSON{}, DryRun: dustDryRun}

	// Identify
	var txids []string
	if dustFromFile != "" {
		path := config.ExpandHome(dustFromFile)
		txids, err = dust.ReadCandidates(path)
		if err != nil {
			return err
		}
		result.CandidatesFile = path
	} else {
		threshold, err := resolveThreshold(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := contextWithTimeout(cmd, cmdCtx.Cfg.DaemonTimeout())
		set, err := svc.Candidates(ctx, threshold)
		cancel()
		if err != nil {
			return err
		}

		path := cmdCtx.Cfg.CandidatesPath(cmdCtx.Cfg.Home)
		if err := dust.WriteCandidates(path, set); err != nil {
			return err
		}
		txids = set.TxIDs
		result.Threshold = threshold.String()
		result.CandidatesFile = path
	}
	if txids == nil {
		txids = []string{}
	}
	result.Candidates = txids

	if !jsonOut {
		displayDustCandidates(w, result)
	}

	if len(txids) == 0 || dustDryRun {
		if jsonOut {
			return writeJSON(w, result)
		}
		if dustDryRun && len(txids) > 0 {
			output.Info(w, "Dry run: nothing pruned")
		}
		return nil
	}

	// Confirm
	if !dustYes {
		if !stdinIsTerminal() {
			return opserr.WithSuggestion(
				opserr.WithDetails(opserr.ErrAborted, map[string]string{"candidates": fmt.Sprint(len(txids))}),
				"review the candidates file and rerun with --yes to prune without a terminal",
			)
		}
		ctx := commandContext(cmd)
		if !promptConfirmFn(ctx, fmt.Sprintf("Prune %d transaction(s) from the wallet?", len(txids))) {
			if err := ctx.Err(); err != nil {
				return opserr.WithSuggestion(opserr.WithCause(opserr.ErrAborted, err), "interrupted; nothing was pruned")
			}
			return opserr.WithSuggestion(opserr.ErrAborted, "nothing was pruned")
		}
	}

	// Execute
	if !jsonOut {
		outln(w)
	}

	ctx, cancel := contextWithTimeout(cmd, 0)
	defer cancel()
	report := svc.Execute(ctx, txids)

	result.Attempted = report.Attempted
	result.Interrupted = report.Interrupted
	result.Pruned = append(result.Pruned, report.Succeeded...)
	for _, f := range report.Failed {
		result.Failed = append(result.Failed, dustFailureJSON{TxID: f.TxID, Reason: f.Reason})
	}

	if jsonOut {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else {
		displayDustSummary(w, report)
	}

	return report.Err()
}

// resolveThreshold picks --threshold over the configured value.
func resolveThreshold(cmd *cobra.Command) (decimal.Decimal, error) {
	if cmd.Flags().Changed("threshold") {
		return config.ParseThreshold(dustThreshold)
	}
	return cmdCtx.Cfg.DustThreshold()
}

func displayDustCandidates(w io.Writer, r dustJSON) {
	if len(r.Candidates) == 0 {
		if r.Threshold != "" {
			output.Successf(w, "No dust below %s found", r.Threshold)
		} else {
			output.Info(w, "Candidates file lists no transactions")
		}
		return
	}

	if r.Threshold != "" {
		out(w, "Dust candidates below %s (%d):\n", r.Threshold, len(r.Candidates))
	} else {
		out(w, "Candidates from %s (%d):\n", r.CandidatesFile, len(r.Candidates))
	}
	t := output.NewTable()
	t.SetIndent("  ")
	for _, txid := range r.Candidates {
		t.AddRow(txid)
	}
	_ = t.Render(w)
	if r.Threshold != "" {
		out(w, "Candidate list written to %s\n", r.CandidatesFile)
	}
}

// dustProgress prints one line per prune attempt.
func dustProgress(w io.Writer) dust.ProgressFunc {
	return func(i, total int, txid string, err error) {
		if err != nil {
			out(w, "[%d/%d] failed  %s: %v\n", i+1, total, txid, err)
			return
		}
		out(w, "[%d/%d] pruned  %s\n", i+1, total, txid)
	}
}

func displayDustSummary(w io.Writer, r *dust.Report) {
	outln(w)
	if len(r.Failed) > 0 {
		t := output.NewTable("TXID", "REASON")
		for _, f := range r.Failed {
			t.AddRow(f.TxID, f.Reason)
		}
		output.Warnf(w, "%d prune(s) failed:", len(r.Failed))
		_ = t.Render(w)
		outln(w)
	}
	if r.Interrupted {
		output.Warnf(w, "Interrupted: %d candidate(s) not attempted", r.Remaining())
	}
	if len(r.Failed) == 0 && !r.Interrupted {
		output.Successf(w, "Pruned %d of %d transaction(s)", len(r.Succeeded), r.Total)
		return
	}
	output.Infof(w, "Pruned %d of %d transaction(s)", len(r.Succeeded), r.Total)
}
