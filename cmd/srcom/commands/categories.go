package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewCategoriesCommand creates the categories command group.
func NewCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Inspect categories",
	}

	cmd.AddCommand(newCategoriesShowCommand())

	return cmd
}

func newCategoriesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show CATEGORY_ID",
		Short: "Show category details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				category, err := client.Categories().Get(ctx, args[0], &srcom.CategoryEmbeds{Game: true, Variables: true})
				if err != nil {
					return fmt.Errorf("failed to get category: %w", err)
				}

				return renderCategory(ctx, cmd.OutOrStdout(), category)
			})
		},
	}
}

func renderCategory(ctx context.Context, out io.Writer, category *srcom.Category) error {
	return render(out, category, func(out io.Writer) error {
		game, err := category.Game(ctx)
		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}

		variables, err := category.Variables(ctx)
		if err != nil {
			return fmt.Errorf("failed to get variables: %w", err)
		}

		variableNames := make([]string, 0, len(variables))
		for _, variable := range variables {
			variableNames = append(variableNames, variable.Name)
		}

		gameName := ""
		if game != nil {
			gameName = game.Name
		}

		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")
		_ = table.Append("ID", category.ID)
		_ = table.Append("Name", category.Name)
		_ = table.Append("Game", valueOrNA(gameName))
		_ = table.Append("Type", string(category.Type))
		_ = table.Append("Players", category.Players.String())
		_ = table.Append("Miscellaneous", yesNo(category.Miscellaneous))
		_ = table.Append("Variables", joinNonEmpty(variableNames))
		_ = table.Append("Link", valueOrNA(category.WebLink))

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	})
}
