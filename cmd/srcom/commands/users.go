package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Look up users",
	}

	cmd.AddCommand(newUsersShowCommand())
	cmd.AddCommand(newUsersSearchCommand())
	cmd.AddCommand(newUsersPersonalBestsCommand())

	return cmd
}

func newUsersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show USER_ID",
		Short: "Show user details",
		Long:  "Show a user by ID or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				user, err := client.Users().Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get user: %w", err)
				}

				return renderUser(cmd.OutOrStdout(), user)
			})
		},
	}
}

func newUsersSearchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Search users by name or linked account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				users, err := client.Users().Lookup(args[0], &srcom.UsersQuery{Max: pageSize(limit)}).Take(ctx, limit)
				if err != nil {
					return fmt.Errorf("failed to search users: %w", err)
				}

				return render(cmd.OutOrStdout(), users, func(out io.Writer) error {
					rows := make([][]string, 0, len(users))
					for _, user := range users {
						rows = append(rows, []string{user.ID, user.Name, location(user), string(user.Role)})
					}

					return renderRows(out, "No users found", []string{"ID", "Name", "Location", "Role"}, rows)
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "maximum number of users")

	return cmd
}

func newUsersPersonalBestsCommand() *cobra.Command {
	var (
		game string
		top  int
	)

	cmd := &cobra.Command{
		Use:     "pbs USER_ID",
		Aliases: []string{"personal-bests"},
		Short:   "List a user's personal bests",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				records, err := client.Users().PersonalBests(ctx, args[0], &srcom.PersonalBestsQuery{
					Game: game,
					Top:  top,
				})
				if err != nil {
					return fmt.Errorf("failed to get personal bests: %w", err)
				}

				return render(cmd.OutOrStdout(), records, func(out io.Writer) error {
					rows := make([][]string, 0, len(records))
					for _, record := range records {
						rows = append(rows, []string{
							placeOrDash(record.Rank),
							record.GameID,
							record.CategoryID,
							valueOrNA(record.LevelID),
							formatRunTime(record.Times.Primary),
							formatDate(record.Date),
						})
					}

					return renderRows(out, "No personal bests found",
						[]string{"Place", "Game", "Category", "Level", "Time", "Date"}, rows)
				})
			})
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "only this game")
	cmd.Flags().IntVar(&top, "top", 0, "only runs placed in the top N")

	return cmd
}

func renderUser(out io.Writer, user *srcom.User) error {
	return render(out, user, func(out io.Writer) error {
		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")
		_ = table.Append("ID", user.ID)
		_ = table.Append("Name", user.Name)
		_ = table.Append("Pronouns", joinNonEmpty(user.Pronouns))
		_ = table.Append("Role", string(user.Role))
		_ = table.Append("Location", location(user))
		_ = table.Append("Signed Up", formatDate(user.SignUp))
		_ = table.Append("Twitch", valueOrNA(user.TwitchProfile))
		_ = table.Append("YouTube", valueOrNA(user.YoutubeProfile))
		_ = table.Append("Link", valueOrNA(user.WebLink))

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	})
}

func location(user *srcom.User) string {
	if user.Location == nil {
		return constants.NotAvailable
	}

	return strings.TrimSpace(user.Location.String())
}
