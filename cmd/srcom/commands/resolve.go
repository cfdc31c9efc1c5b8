package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve SITE_URL",
		Short: "Find the API element a speedrun.com page shows",
		Long: `Find the API element a speedrun.com page shows, e.g.

  srcom resolve https://www.speedrun.com/sm64`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				element, err := client.ResolveSiteURL(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", args[0], err)
				}

				return render(cmd.OutOrStdout(), element, func(out io.Writer) error {
					return renderRows(out, "", []string{"Type", "ID"}, [][]string{{string(element.Type), element.ID}})
				})
			})
		},
	}
}
