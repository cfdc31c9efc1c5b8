package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// LeaderboardOptions holds the options for showing a leaderboard.
type LeaderboardOptions struct {
	Level     string
	Top       int
	Platform  string
	Region    string
	Timing    string
	Date      string
	VideoOnly bool
	Emulators string
}

// NewLeaderboardCommand creates the leaderboard command.
func NewLeaderboardCommand() *cobra.Command {
	var opts LeaderboardOptions

	cmd := &cobra.Command{
		Use:     "leaderboard GAME CATEGORY",
		Aliases: []string{"lb"},
		Short:   "Show a leaderboard",
		Long: `Show the leaderboard of a full-game category, or of a level when --level
is given. GAME and CATEGORY may be IDs or abbreviations.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := opts.query()
			if err != nil {
				return err
			}

			return withClient(func(ctx context.Context, client srcom.Client) error {
				leaderboard, err := fetchLeaderboard(ctx, client, args[0], args[1], opts.Level, query)
				if err != nil {
					return fmt.Errorf("failed to get leaderboard: %w", err)
				}

				return renderLeaderboard(ctx, cmd.OutOrStdout(), leaderboard)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Level, "level", "", "level ID for an individual-level board")
	cmd.Flags().IntVar(&opts.Top, "top", 0, "only show the top N places")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "filter by platform ID")
	cmd.Flags().StringVar(&opts.Region, "region", "", "filter by region ID")
	cmd.Flags().StringVar(&opts.Timing, "timing", "", "timing method (realtime, realtime_noloads, ingame)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "show the board as of a date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.VideoOnly, "video-only", false, "only runs with video")
	cmd.Flags().StringVar(&opts.Emulators, "emulators", "", "emulator filter (only, exclude)")

	return cmd
}

func (o LeaderboardOptions) query() (*srcom.LeaderboardQuery, error) {
	query := &srcom.LeaderboardQuery{
		Top:       o.Top,
		Platform:  o.Platform,
		Region:    o.Region,
		VideoOnly: o.VideoOnly,
		Embeds:    &srcom.LeaderboardEmbeds{Players: true},
	}

	switch o.Emulators {
	case "":
	case "only":
		query.Emulators = srcom.EmulatorsOnly
	case "exclude":
		query.Emulators = srcom.EmulatorsNone
	default:
		return nil, fmt.Errorf("%w: --emulators %q", constants.ErrInvalidFilter, o.Emulators)
	}

	if o.Timing != "" {
		timing, err := srcom.ParseTimingMethod(o.Timing)
		if err != nil {
			return nil, err
		}

		query.Timing = timing
	}

	if o.Date != "" {
		date, err := time.Parse(constants.DateFormat, o.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", o.Date, err)
		}

		query.Date = &date
	}

	return query, nil
}

func fetchLeaderboard(
	ctx context.Context,
	client srcom.Client,
	gameID, categoryID, levelID string,
	query *srcom.LeaderboardQuery,
) (*srcom.Leaderboard, error) {
	if levelID != "" {
		return client.Leaderboards().Level(ctx, gameID, levelID, categoryID, query)
	}

	return client.Leaderboards().FullGameCategory(ctx, gameID, categoryID, query)
}

// PlayerNames resolves the display names of every player on a leaderboard,
// forcing at most limit relations at a time. After the first failure the
// remaining relations are left unforced.
func PlayerNames(ctx context.Context, records []*srcom.Record, limit int) (map[string]string, error) {
	var (
		mu    sync.Mutex
		names = make(map[string]string)
		seen  = make(map[string]struct{})
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for _, record := range records {
		for _, player := range record.Players {
			key := player.Key()
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}

			group.Go(func() error {
				if groupCtx.Err() != nil {
					return nil
				}

				// Name memoizes its outcome, so it must not see the group's
				// cancellation.
				name, err := player.Name(ctx)
				if err != nil {
					return fmt.Errorf("failed to resolve player %s: %w", key, err)
				}

				mu.Lock()
				names[key] = name
				mu.Unlock()

				return nil
			})
		}
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	return names, nil
}

func renderLeaderboard(ctx context.Context, out io.Writer, leaderboard *srcom.Leaderboard) error {
	return render(out, leaderboard, func(out io.Writer) error {
		names, err := PlayerNames(ctx, leaderboard.Records, constants.DefaultConcurrencyLimit)
		if err != nil {
			return err
		}

		timing := srcom.TimingMethod("")
		if leaderboard.Timing != nil {
			timing = *leaderboard.Timing
		}

		rows := make([][]string, 0, len(leaderboard.Records))
		for _, record := range leaderboard.Records {
			players := make([]string, 0, len(record.Players))
			for _, player := range record.Players {
				players = append(players, names[player.Key()])
			}

			rows = append(rows, []string{
				placeOrDash(record.Rank),
				strings.Join(players, ", "),
				formatRunTime(record.Times.Time(timing)),
				formatDate(record.Date),
				valueOrNA(record.System.PlatformID),
				record.ID,
			})
		}

		return renderRows(out, "No runs on this leaderboard", []string{"Place", "Players", "Time", "Date", "Platform", "Run"}, rows)
	})
}

func placeOrDash(rank int) string {
	if rank <= 0 {
		return "-"
	}

	return strconv.Itoa(rank)
}
