package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewPlatformsCommand creates the platforms command group.
func NewPlatformsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "platforms",
		Aliases: []string{"platform"},
		Short:   "List platforms",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				platforms, err := client.Platforms().List(&srcom.PlatformsQuery{Max: maxPageSize}).All(ctx)
				if err != nil {
					return fmt.Errorf("failed to list platforms: %w", err)
				}

				return render(cmd.OutOrStdout(), platforms, func(out io.Writer) error {
					rows := make([][]string, 0, len(platforms))
					for _, platform := range platforms {
						rows = append(rows, []string{platform.ID, platform.Name, yearOrNA(platform.YearOfRelease)})
					}

					return renderRows(out, "No platforms found", []string{"ID", "Name", "Released"}, rows)
				})
			})
		},
	})

	return cmd
}

// NewRegionsCommand creates the regions command group.
func NewRegionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "regions",
		Aliases: []string{"region"},
		Short:   "List regions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				regions, err := client.Regions().List(&srcom.RegionsQuery{Max: maxPageSize}).All(ctx)
				if err != nil {
					return fmt.Errorf("failed to list regions: %w", err)
				}

				return render(cmd.OutOrStdout(), regions, func(out io.Writer) error {
					rows := make([][]string, 0, len(regions))
					for _, region := range regions {
						rows = append(rows, []string{region.ID, region.Name, region.Abbreviation()})
					}

					return renderRows(out, "No regions found", []string{"ID", "Name", "Abbreviation"}, rows)
				})
			})
		},
	})

	return cmd
}
