package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/output"
	"github.com/gaiacoin/gaiaops/internal/service/info"
)

// infoCmd reports node status.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var infoCmd = &cobra.Command{
	GroupID: groupNode,
	Use:     "info",
	Short:   "Show wallet, network, chain and staking status",
	Long: `Query the daemon for wallet balances, peer connectivity, block height,
chain state and staking state.

The five queries run concurrently. A failing query marks its section
unavailable and the command exits with the partial-failure code.`,
	Example: `  gaiaops info
  gaiaops info -o json`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	client, err := cmdCtx.DaemonClient()
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(cmd, cmdCtx.Cfg.DaemonTimeout())
	defer cancel()

	svc := info.NewService(&info.Config{Client: client, Logger: cmdCtx.logger().Component("info")})
	report := svc.Report(ctx)

	w := cmd.OutOrStdout()
	if cmdCtx.Fmt.IsJSON() {
		if err := writeJSON(w, infoJSON(report)); err != nil {
			return err
		}
	} else {
		displayInfoText(w, report)
	}

	return report.Err()
}

// displayInfoText prints one aligned "section.field: value" line per field.
func displayInfoText(w io.Writer, r *info.Report) {
	t := output.NewTable("FIELD", "VALUE")
	t.SetNoHeader(true)
	for _, f := range r.Fields() {
		value := f.Value
		if !f.Available && f.Reason != "" {
			value += " (" + f.Reason + ")"
		}
		t.AddRow(f.Name()+":", value)
	}
	_ = t.Render(w)
}

type infoFieldJSON struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type infoSectionJSON struct {
	Name   string                   `json:"name"`
	Fields map[string]infoFieldJSON `json:"fields"`
	Error  string                   `json:"error,omitempty"`
}

type infoReportJSON struct {
	Sections []infoSectionJSON `json:"sections"`
	Partial  bool              `json:"partial"`
}

// infoJSON groups the flat fields by section, keeping section order.
func infoJSON(r *info.Report) infoReportJSON {
	out := infoReportJSON{Partial: r.Partial()}
	index := make(map[info.Section]int, len(info.Sections))
	for _, s := range info.Sections {
		sec := infoSectionJSON{Name: string(s), Fields: make(map[string]infoFieldJSON)}
		if err := r.Errors[s]; err != nil {
			sec.Error = err.Error()
		}
		index[s] = len(out.Sections)
		out.Sections = append(out.Sections, sec)
	}

	for _, f := range r.Fields() {
		out.Sections[index[f.Section]].Fields[f.Key] = infoFieldJSON{
			Value:     f.Value,
			Available: f.Available,
			Reason:    f.Reason,
		}
	}
	return out
}
