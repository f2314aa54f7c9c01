package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommandTreeDocumentation checks every command renders useful help:
// Use and Short set, Short fits one line, Long present without inline
// examples, runnable commands carry a gaiaops Example, and every flag has
// a usage string.
func TestCommandTreeDocumentation(t *testing.T) {
	const maxShortLen = 80

	walkCommands(rootCmd, func(cmd *cobra.Command) {
		if !cmd.IsAvailableCommand() {
			return
		}
		t.Run(cmd.CommandPath(), func(t *testing.T) {
			assert.NotEmpty(t, cmd.Use)
			assert.NotEmpty(t, cmd.Short)
			assert.LessOrEqual(t, len(cmd.Short), maxShortLen, "Short too long: %q", cmd.Short)
			assert.NotEmpty(t, cmd.Long)
			assert.NotContains(t, cmd.Long, "\nExample", "examples belong in the Example field")

			if cmd.Runnable() {
				assert.Contains(t, cmd.Example, "gaiaops")
			}

			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				assert.NotEmpty(t, f.Usage, "flag --%s has no description", f.Name)
			})
		})
	})
}

// TestCommandGroupsAssigned verifies all top-level commands have a GroupID.
func TestCommandGroupsAssigned(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if !cmd.IsAvailableCommand() {
			continue
		}
		t.Run(cmd.Name(), func(t *testing.T) {
			assert.NotEmpty(t, cmd.GroupID,
				"top-level command %q missing GroupID", cmd.Name())
		})
	}
}

func TestCommandGroupsByCommand(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		group string
	}{
		{infoCmd, groupNode},
		{latestCmd, groupNode},
		{stakeCmd, groupWallet},
		{dustCmd, groupWallet},
		{configCmd, groupConfig},
		{versionCmd, groupConfig},
		{completionCmd, groupConfig},
	}

	for _, tc := range tests {
		t.Run(tc.cmd.Name(), func(t *testing.T) {
			assert.Equal(t, tc.group, tc.cmd.GroupID)
		})
	}
}

// TestRootHelpContainsGroups verifies root help lists commands by group.
func TestRootHelpContainsGroups(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Node Operations:")
	assert.Contains(t, output, "Wallet Operations:")
	assert.Contains(t, output, "Configuration:")
	for _, name := range []string{"info", "latest", "stake", "dust", "config", "version"} {
		assert.Contains(t, output, name)
	}
}

// TestParentCommandsShowSubcommandsInHelp verifies parent help lists its
// subcommands.
func TestParentCommandsShowSubcommandsInHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	configCmd.SetOut(buf)
	t.Cleanup(func() { configCmd.SetOut(nil) })
	require.NoError(t, configCmd.Help())
	helpOutput := buf.String()

	assert.Contains(t, helpOutput, "Available Commands:")
	for _, sub := range configCmd.Commands() {
		if sub.IsAvailableCommand() {
			assert.Contains(t, helpOutput, sub.Name())
		}
	}
}

// TestLeafCommandHelpShowsExamplesSection verifies rendered leaf help has
// an "Examples:" section.
func TestLeafCommandHelpShowsExamplesSection(t *testing.T) {
	cmds := []*cobra.Command{
		infoCmd,
		stakeCmd,
		latestCmd,
		dustCmd,
		configSetCmd,
	}

	for _, cmd := range cmds {
		t.Run(cmd.CommandPath(), func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			t.Cleanup(func() { cmd.SetOut(nil) })

			require.NoError(t, cmd.Help())
			helpOutput := buf.String()

			assert.Contains(t, helpOutput, "Examples:")
			assert.Contains(t, helpOutput, "gaiaops")
		})
	}
}

// TestWalkCommandsVisitsAll verifies walkCommands discovers every command.
func TestWalkCommandsVisitsAll(t *testing.T) {
	var visited []string
	walkCommands(rootCmd, func(cmd *cobra.Command) {
		visited = append(visited, cmd.CommandPath())
	})

	expectedPaths := []string{
		"gaiaops",
		"gaiaops info",
		"gaiaops stake",
		"gaiaops latest",
		"gaiaops dust",
		"gaiaops config",
		"gaiaops config init",
		"gaiaops config show",
		"gaiaops config get",
		"gaiaops config set",
		"gaiaops completion",
		"gaiaops version",
	}

	for _, expected := range expectedPaths {
		assert.Contains(t, visited, expected,
			"walkCommands did not visit %q", expected)
	}
}

// newNoopRun returns a no-op Run function to make test commands runnable.
func newNoopRun() func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {}
}

func TestEnrichParentLong(t *testing.T) {
	parent := &cobra.Command{Use: "parent", Short: "Parent", Long: "Base description."}
	child1 := &cobra.Command{Use: "sub1", Short: "First subcommand", Run: newNoopRun()}
	child2 := &cobra.Command{Use: "sub2", Short: "Second subcommand", Run: newNoopRun()}
	parent.AddCommand(child1, child2)

	enrichParentLong(parent)

	assert.Contains(t, parent.Long, "Base description.")
	assert.Contains(t, parent.Long, "Subcommands:")
	assert.Contains(t, parent.Long, "sub1")
	assert.Contains(t, parent.Long, "First subcommand")
	assert.Contains(t, parent.Long, "sub2")
	assert.Contains(t, parent.Long, "Second subcommand")
}

func TestEnrichParentLong_NoSubcommands(t *testing.T) {
	leaf := &cobra.Command{
		Use:   "leaf",
		Short: "A leaf",
		Long:  "Leaf description.",
	}

	enrichParentLong(leaf)

	assert.Equal(t, "Leaf description.", leaf.Long)
}

func TestEnrichParentLong_HiddenSubcommands(t *testing.T) {
	parent := &cobra.Command{Use: "parent", Short: "Parent", Long: "Parent desc."}
	visible := &cobra.Command{Use: "visible", Short: "Visible command", Run: newNoopRun()}
	hidden := &cobra.Command{Use: "hidden", Short: "Hidden command", Hidden: true, Run: newNoopRun()}
	parent.AddCommand(visible, hidden)

	enrichParentLong(parent)

	assert.Contains(t, parent.Long, "visible")
	assert.NotContains(t, parent.Long, "hidden")
}

func TestConfigLongListsSubcommands(t *testing.T) {
	enrichHelp(rootCmd)

	for _, name := range []string{"init", "show", "get", "set"} {
		assert.Contains(t, configCmd.Long, name)
	}
}

func TestEnrichHelp_Idempotent(t *testing.T) {
	root := &cobra.Command{Use: "root", Long: "Root."}
	parent := &cobra.Command{Use: "parent", Short: "Parent", Long: "Parent desc."}
	parent.AddCommand(&cobra.Command{Use: "child", Short: "Child command", Run: newNoopRun()})
	root.AddCommand(parent)

	enrichHelp(root)
	once := parent.Long
	enrichHelp(root)

	assert.Equal(t, once, parent.Long)
	assert.Equal(t, 1, strings.Count(parent.Long, "Subcommands:"))
	assert.Equal(t, "Root.", root.Long, "root help is grouped by cobra")
}

// TestMutuallyExclusiveFlagsOnDust verifies --threshold and --from-file
// cannot be combined.
func TestMutuallyExclusiveFlagsOnDust(t *testing.T) {
	require.NoError(t, dustCmd.Flags().Set("threshold", "0.001"))
	require.NoError(t, dustCmd.Flags().Set("from-file", "candidates.txt"))
	t.Cleanup(func() {
		dustThreshold = ""
		dustFromFile = ""
		dustCmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Name == "threshold" || f.Name == "from-file" {
				f.Changed = false
			}
		})
	})

	err := dustCmd.ValidateFlagGroups()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

// TestHelpOutputContainsGlobalFlags verifies leaf help includes inherited flags.
func TestHelpOutputContainsGlobalFlags(t *testing.T) {
	buf := new(bytes.Buffer)
	infoCmd.SetOut(buf)
	t.Cleanup(func() { infoCmd.SetOut(nil) })
	_ = infoCmd.Help()
	output := buf.String()

	assert.Contains(t, output, "--home")
	assert.Contains(t, output, "--output")
	assert.Contains(t, output, "--verbose")
}

