package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/output"
	"github.com/gaiacoin/gaiaops/internal/service/tipcheck"
)

// latestCmd compares the local chain tip with a block explorer.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var latestCmd = &cobra.Command{
	GroupID: groupNode,
	Use:     "latest",
	Short:   "Compare the local chain tip with a block explorer",
	Long: `Read the local block height once, then fetch the block hash at that
height from both the daemon and the configured explorer and compare them.

A divergence means the node may be on a fork or stuck. The explorer is
set with explorer.url and explorer.api.`,
	Example: `  gaiaops latest
  gaiaops latest -o json`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(latestCmd)
}

type latestJSON struct {
	Height   int64  `json:"height"`
	Local    string `json:"local"`
	Explorer string `json:"explorer"`
	Status   string `json:"status"`
}

func runLatest(cmd *cobra.Command, _ []string) error {
	client, err := cmdCtx.DaemonClient()
	if err != nil {
		return err
	}
	ex, err := cmdCtx.ExplorerClient()
	if err != nil {
		return err
	}

	// Covers three sequential calls; the explorer client bounds its own.
	ctx, cancel := contextWithTimeout(cmd, 2*cmdCtx.Cfg.DaemonTimeout()+cmdCtx.Cfg.ExplorerTimeout())
	defer cancel()

	svc := tipcheck.NewService(&tipcheck.Config{
		Client:   client,
		Explorer: ex,
		Logger:   cmdCtx.logger().Component("tipcheck"),
	})
	cmp, err := svc.Compare(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.IsJSON() {
		return writeJSON(w, latestJSON{
			Height:   cmp.Height,
			Local:    cmp.Local,
			Explorer: cmp.Remote,
			Status:   cmp.Status(),
		})
	}

	displayLatestText(w, cmp)
	return nil
}

// displayLatestText prints the hashes under each other so they can be
// compared by eye.
func displayLatestText(w io.Writer, cmp *tipcheck.Comparison) {
	t := output.NewTable()
	t.AddRow("Height:", strconv.FormatInt(cmp.Height, 10))
	t.AddRow("Local:", cmp.Local)
	t.AddRow("Explorer:", cmp.Remote)
	_ = t.Render(w)
	outln(w)

	if cmp.Match {
		output.Success(w, "Local chain tip matches the explorer")
		return
	}
	output.Warn(w, "Local chain tip DIVERGES from the explorer")
}
