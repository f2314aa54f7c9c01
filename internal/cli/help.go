package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaiacoin/gaiaops/internal/output"
)

// walkCommands visits every command in the tree depth-first.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

const subcommandsHeading = "\n\nSubcommands:\n"

// enrichHelp lists subcommands in the Long text of every parent below root.
// Root help already groups its commands. Safe to call more than once.
func enrichHelp(root *cobra.Command) {
	for _, sub := range root.Commands() {
		walkCommands(sub, enrichParentLong)
	}
}

// enrichParentLong appends the available subcommands to a parent's Long
// text so its help never drifts from the registered tree.
func enrichParentLong(cmd *cobra.Command) {
	if !cmd.HasSubCommands() || strings.Contains(cmd.Long, subcommandsHeading) {
		return
	}

	t := output.NewTable()
	t.SetNoHeader(true)
	t.SetSeparator("   ")
	t.SetIndent("  ")
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			t.AddRow(sub.Name(), sub.Short)
		}
	}

	var sb strings.Builder
	sb.WriteString(cmd.Long)
	sb.WriteString(subcommandsHeading)
	sb.WriteString(t.String())

	cmd.Long = sb.String()
}
