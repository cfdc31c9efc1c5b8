package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewSeriesCommand creates the series command group.
func NewSeriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Browse game series",
	}

	cmd.AddCommand(newSeriesListCommand())
	cmd.AddCommand(newSeriesShowCommand())

	return cmd
}

func newSeriesListCommand() *cobra.Command {
	var (
		name  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				series, err := client.Series().List(&srcom.SeriesQuery{Name: name, Max: pageSize(limit)}).Take(ctx, limit)
				if err != nil {
					return fmt.Errorf("failed to list series: %w", err)
				}

				return render(cmd.OutOrStdout(), series, func(out io.Writer) error {
					rows := make([][]string, 0, len(series))
					for _, item := range series {
						rows = append(rows, []string{item.ID, item.Abbreviation, item.Name})
					}

					return renderRows(out, "No series found", []string{"ID", "Abbreviation", "Name"}, rows)
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name (fuzzy)")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "maximum number of series")

	return cmd
}

func newSeriesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show SERIES_ID",
		Short: "Show series details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				series, err := client.Series().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get series: %w", err)
				}

				return render(cmd.OutOrStdout(), series, func(out io.Writer) error {
					table := tablewriter.NewWriter(out)
					table.Header("Property", "Value")
					_ = table.Append("ID", series.ID)
					_ = table.Append("Name", series.Name)
					_ = table.Append("Abbreviation", valueOrNA(series.Abbreviation))
					_ = table.Append("Created", formatDate(series.Created))
					_ = table.Append("Moderators", fmt.Sprint(len(series.Moderators)))
					_ = table.Append("Link", valueOrNA(series.WebLink))

					err := table.Render()
					if err != nil {
						return fmt.Errorf("failed to render table: %w", err)
					}

					return nil
				})
			})
		},
	}
}
