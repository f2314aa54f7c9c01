package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var versionDaemon bool

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	GroupID: groupConfig,
	Use:     "version",
	Short:   "Show build information",
	Long: `Show the gaiaops version, the commit it was built from and the build date.

With --daemon the running node is asked for its own version through the
general info query. With -o json the Go toolchain version and platform are
included.`,
	Example: `  gaiaops version
  gaiaops version --daemon
  gaiaops version -o json`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

type versionJSON struct {
	Version   string             `json:"version"`
	Commit    string             `json:"commit"`
	Date      string             `json:"date"`
	GoVersion string             `json:"go_version"`
	Platform  string             `json:"platform"`
	Daemon    *daemonVersionJSON `json:"daemon,omitempty"`
}

type daemonVersionJSON struct {
	Version         int  `json:"version"`
	ProtocolVersion int  `json:"protocol_version"`
	WalletVersion   int  `json:"wallet_version"`
	Testnet         bool `json:"testnet"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	versionCmd.Flags().BoolVar(&versionDaemon, "daemon", false, "also report the running daemon's version")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	var node *daemonVersionJSON
	if versionDaemon {
		v, err := queryDaemonVersion(cmd)
		if err != nil {
			return err
		}
		node = v
	}

	if formatter != nil && formatter.Format() == output.FormatJSON {
		return writeJSON(w, versionJSON{
			Version:   orDefault(buildInfo.Version, "dev"),
			Commit:    orDefault(buildInfo.Commit, "unknown"),
			Date:      orDefault(buildInfo.Date, "unknown"),
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			Daemon:    node,
		})
	}

	outln(w, "gaiaops "+formatVersion(buildInfo))
	if node != nil {
		network := "mainnet"
		if node.Testnet {
			network = "testnet"
		}
		out(w, "daemon  %d (protocol %d, wallet %d, %s)\n",
			node.Version, node.ProtocolVersion, node.WalletVersion, network)
	}
	return nil
}

func queryDaemonVersion(cmd *cobra.Command) (*daemonVersionJSON, error) {
	client, err := cmdCtx.DaemonClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := contextWithTimeout(cmd, cmdCtx.Cfg.DaemonTimeout())
	defer cancel()

	info, err := daemon.GetInfo(ctx, client)
	if err != nil {
		return nil, err
	}
	return &daemonVersionJSON{
		Version:         info.Version,
		ProtocolVersion: info.ProtocolVersion,
		WalletVersion:   info.WalletVersion,
		Testnet:         info.Testnet,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
