package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewGamesCommand creates the games command group.
func NewGamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"game", "g"},
		Short:   "Browse games",
		Long:    "List, search and inspect speedrun.com games",
	}

	cmd.AddCommand(newGamesListCommand())
	cmd.AddCommand(newGamesSearchCommand())
	cmd.AddCommand(newGamesShowCommand())
	cmd.AddCommand(newGamesCategoriesCommand())
	cmd.AddCommand(newGamesLevelsCommand())

	return cmd
}

// GamesListOptions holds the options for listing games.
type GamesListOptions struct {
	Name         string
	Abbreviation string
	Platform     string
	Series       string
	Released     int
	Limit        int
}

func newGamesListCommand() *cobra.Command {
	var opts GamesListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				query := &srcom.GamesQuery{
					Name:         opts.Name,
					Abbreviation: opts.Abbreviation,
					Platform:     opts.Platform,
					Released:     opts.Released,
					Max:          pageSize(opts.Limit),
				}

				sequence := client.Games().List(query)
				if opts.Series != "" {
					sequence = client.Series().Games(opts.Series, query)
				}

				games, err := sequence.Take(ctx, opts.Limit)
				if err != nil {
					return fmt.Errorf("failed to list games: %w", err)
				}

				return renderGames(cmd.OutOrStdout(), games)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by name (fuzzy)")
	cmd.Flags().StringVar(&opts.Abbreviation, "abbreviation", "", "filter by abbreviation")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "filter by platform ID")
	cmd.Flags().StringVar(&opts.Series, "series", "", "list the games of a series")
	cmd.Flags().IntVar(&opts.Released, "released", 0, "filter by release year")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of games")

	return cmd
}

func newGamesSearchCommand() *cobra.Command {
	var exact bool

	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Find a game by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			return withClient(func(ctx context.Context, client srcom.Client) error {
				search := client.Games().Search
				if exact {
					search = client.Games().SearchExact
				}

				game, err := search(ctx, name, nil)
				if err != nil {
					return fmt.Errorf("failed to search games: %w", err)
				}

				return renderGame(ctx, cmd.OutOrStdout(), game)
			})
		},
	}

	cmd.Flags().BoolVar(&exact, "exact", false, "require an exact name match")

	return cmd
}

func newGamesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show GAME_ID",
		Short: "Show game details",
		Long:  "Show a game by ID or abbreviation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				game, err := client.Games().Get(ctx, args[0], &srcom.GameEmbeds{Platforms: true})
				if err != nil {
					return fmt.Errorf("failed to get game: %w", err)
				}

				return renderGame(ctx, cmd.OutOrStdout(), game)
			})
		},
	}
}

func newGamesCategoriesCommand() *cobra.Command {
	var excludeMisc bool

	cmd := &cobra.Command{
		Use:   "categories GAME_ID",
		Short: "List a game's categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				categories, err := client.Games().Categories(ctx, args[0], &srcom.CategoriesQuery{
					ExcludeMiscellaneous: excludeMisc,
				})
				if err != nil {
					return fmt.Errorf("failed to list categories: %w", err)
				}

				return renderCategories(cmd.OutOrStdout(), categories)
			})
		},
	}

	cmd.Flags().BoolVar(&excludeMisc, "no-misc", false, "hide miscellaneous categories")

	return cmd
}

func newGamesLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels GAME_ID",
		Short: "List a game's levels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				levels, err := client.Games().Levels(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to list levels: %w", err)
				}

				return render(cmd.OutOrStdout(), levels, func(out io.Writer) error {
					rows := make([][]string, 0, len(levels))
					for _, level := range levels {
						rows = append(rows, []string{level.ID, level.Name, level.WebLink})
					}

					return renderRows(out, "No levels found", []string{"ID", "Name", "Link"}, rows)
				})
			})
		},
	}
}

func renderGames(out io.Writer, games []*srcom.Game) error {
	return render(out, games, func(out io.Writer) error {
		rows := make([][]string, 0, len(games))
		for _, game := range games {
			rows = append(rows, []string{
				game.ID,
				game.Abbreviation,
				game.Name,
				yearOrNA(game.YearOfRelease),
			})
		}

		return renderRows(out, "No games found", []string{"ID", "Abbreviation", "Name", "Released"}, rows)
	})
}

func renderGame(ctx context.Context, out io.Writer, game *srcom.Game) error {
	return render(out, game, func(out io.Writer) error {
		platforms, err := game.Platforms(ctx)
		if err != nil {
			return fmt.Errorf("failed to get platforms: %w", err)
		}

		platformNames := make([]string, 0, len(platforms))
		for _, platform := range platforms {
			platformNames = append(platformNames, platform.Name)
		}

		timings := make([]string, 0, len(game.Ruleset.TimingMethods))
		for _, method := range game.Ruleset.TimingMethods {
			timings = append(timings, method.String())
		}

		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")
		_ = table.Append("ID", game.ID)
		_ = table.Append("Name", game.Name)
		_ = table.Append("Abbreviation", valueOrNA(game.Abbreviation))
		_ = table.Append("Released", yearOrNA(game.YearOfRelease))
		_ = table.Append("Platforms", joinNonEmpty(platformNames))
		_ = table.Append("Timing", joinNonEmpty(timings))
		_ = table.Append("Default Timing", game.Ruleset.DefaultTimingMethod.String())
		_ = table.Append("Emulators", yesNo(game.Ruleset.EmulatorsAllowed))
		_ = table.Append("Video Required", yesNo(game.Ruleset.RequiresVideo))
		_ = table.Append("Moderators", strconv.Itoa(len(game.Moderators)))
		_ = table.Append("Link", valueOrNA(game.WebLink))

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	})
}

func renderCategories(out io.Writer, categories []*srcom.Category) error {
	return render(out, categories, func(out io.Writer) error {
		rows := make([][]string, 0, len(categories))
		for _, category := range categories {
			rows = append(rows, []string{
				category.ID,
				category.Name,
				string(category.Type),
				category.Players.String(),
				yesNo(category.Miscellaneous),
			})
		}

		return renderRows(out, "No categories found", []string{"ID", "Name", "Type", "Players", "Misc"}, rows)
	})
}

func yearOrNA(year int) string {
	if year <= 0 {
		return constants.NotAvailable
	}

	return strconv.Itoa(year)
}

// pageSize asks for pages no larger than what will be shown.
func pageSize(limit int) int {
	if limit > 0 && limit < constants.DefaultPageSize {
		return limit
	}

	return constants.DefaultPageSize
}
