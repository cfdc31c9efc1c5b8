package commands_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/srcom-client/cmd/srcom/commands"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	return names
}

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{"games", commands.NewGamesCommand(), "games", []string{"list", "search", "show", "categories", "levels"}},
		{"categories", commands.NewCategoriesCommand(), "categories", []string{"show"}},
		{"runs", commands.NewRunsCommand(), "runs", []string{"list", "show", "submit"}},
		{"users", commands.NewUsersCommand(), "users", []string{"show", "search", "pbs"}},
		{"series", commands.NewSeriesCommand(), "series", []string{"list", "show"}},
		{"platforms", commands.NewPlatformsCommand(), "platforms", []string{"list"}},
		{"regions", commands.NewRegionsCommand(), "regions", []string{"list"}},
		{"config", commands.NewConfigCommand(), "config", []string{"show", "set", "unset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.ElementsMatch(t, tt.subcommands, subcommandNames(tt.cmd))
		})
	}
}

func TestRunsSubmitCommand_Flags(t *testing.T) {
	t.Parallel()

	submit := findSubcommand(commands.NewRunsCommand(), "submit")
	if assert.NotNil(t, submit) {
		for _, flag := range []string{"category", "platform", "realtime", "ingame", "dry-run", "value"} {
			assert.NotNil(t, submit.Flags().Lookup(flag), flag)
		}
	}
}

func TestLeaderboardCommand_Args(t *testing.T) {
	t.Parallel()

	cmd := commands.NewLeaderboardCommand()
	assert.Equal(t, []string{"lb"}, cmd.Aliases)
	assert.Error(t, cmd.Args(cmd, []string{"sm64"}))
	assert.NoError(t, cmd.Args(cmd, []string{"sm64", "120_star"}))
	assert.NotNil(t, cmd.Flags().Lookup("level"))
	assert.NotNil(t, cmd.Flags().Lookup("top"))
}
