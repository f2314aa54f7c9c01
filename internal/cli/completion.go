package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator.
//
//nolint:gochecknoglobals // read-only table
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCmd generates shell completion scripts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	GroupID: groupConfig,
	Use:     "completion [bash|zsh|fish|powershell]",
	Short:   "Generate shell completion script",
	Long: `Generate shell completion scripts for gaiaops.

To load completions:

Bash:
  $ source <(gaiaops completion bash)

  # To load completions for each session, execute once:
  $ gaiaops completion bash > /etc/bash_completion.d/gaiaops

Zsh:
  # If shell completion is not already enabled in your environment,
  # enable it once with:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ gaiaops completion zsh > "${fpath[1]}/_gaiaops"

Fish:
  $ gaiaops completion fish | source
  $ gaiaops completion fish > ~/.config/fish/completions/gaiaops.fish

PowerShell:
  PS> gaiaops completion powershell | Out-String | Invoke-Expression
`,
	Example: `  gaiaops completion bash
  gaiaops completion zsh > "${fpath[1]}/_gaiaops"`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(completionCmd)
}
