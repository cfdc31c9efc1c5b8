package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewRunsCommand creates the runs command group.
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runs",
		Aliases: []string{"run", "r"},
		Short:   "Browse and submit runs",
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())
	cmd.AddCommand(newRunsSubmitCommand())

	return cmd
}

// RunsListOptions holds the options for listing runs.
type RunsListOptions struct {
	Game     string
	Category string
	Level    string
	User     string
	Guest    string
	Examiner string
	Platform string
	Status   string
	Filter   string
	Limit    int
}

func (o RunsListOptions) query() (*srcom.RunsQuery, error) {
	query := &srcom.RunsQuery{
		Game:     o.Game,
		Category: o.Category,
		Level:    o.Level,
		User:     o.User,
		Guest:    o.Guest,
		Examiner: o.Examiner,
		Platform: o.Platform,
		Max:      constants.DefaultPageSize,
	}

	if o.Status != "" {
		status, err := srcom.ParseRunStatusType(o.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidStatus, o.Status)
		}

		query.Status = status
	}

	return query, nil
}

func newRunsListCommand() *cobra.Command {
	var opts RunsListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Long: `List runs, newest pages first as the API returns them.

--filter takes an expression evaluated against every run, e.g.
  --filter 'Status == "verified" && Time < minutes(30)'
  --filter 'Video && daysSince(Date) < 30 && hasPlayer("abc123")'

Variables: ID, Game, Category, Level, Status, Reason, Comment, Emulated,
Platform, Region, Video, Splits, Players, PlayerCount, Time, RealTime,
RealTimeNoLoads, GameTime (seconds), Date, Submitted.
Functions: minutes, hours, daysSince, daysAgo, parseDate, hasPlayer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := opts.query()
			if err != nil {
				return err
			}

			var filter *RunFilter

			if opts.Filter != "" {
				filter, err = CompileRunFilter(opts.Filter)
				if err != nil {
					return err
				}
			}

			return withClient(func(ctx context.Context, client srcom.Client) error {
				runs, err := CollectRuns(ctx, client.Runs().List(query), filter, opts.Limit)
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}

				return renderRuns(cmd.OutOrStdout(), runs)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Game, "game", "", "filter by game ID")
	cmd.Flags().StringVar(&opts.Category, "category", "", "filter by category ID")
	cmd.Flags().StringVar(&opts.Level, "level", "", "filter by level ID")
	cmd.Flags().StringVar(&opts.User, "user", "", "filter by user ID")
	cmd.Flags().StringVar(&opts.Guest, "guest", "", "filter by guest name")
	cmd.Flags().StringVar(&opts.Examiner, "examiner", "", "filter by examiner user ID")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "filter by platform ID")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status (new, verified, rejected)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "expression runs must satisfy")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.DefaultPageSize, "maximum number of runs")

	return cmd
}

// CollectRuns returns up to limit runs of sequence matching filter. A nil
// filter matches every run.
func CollectRuns(ctx context.Context, sequence *srcom.Sequence[*srcom.Run], filter *RunFilter, limit int) ([]*srcom.Run, error) {
	runs := make([]*srcom.Run, 0, max(limit, 0))
	if limit <= 0 {
		return runs, nil
	}

	for run, err := range sequence.Items(ctx) {
		if err != nil {
			return nil, err
		}

		if filter != nil {
			ok, err := filter.Match(run)
			if err != nil {
				return nil, err
			}

			if !ok {
				continue
			}
		}

		runs = append(runs, run)
		if len(runs) == limit {
			break
		}
	}

	return runs, nil
}

func newRunsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				run, err := client.Runs().Get(ctx, args[0], &srcom.RunEmbeds{Players: true, Platform: true})
				if err != nil {
					return fmt.Errorf("failed to get run: %w", err)
				}

				return renderRun(ctx, cmd.OutOrStdout(), run)
			})
		},
	}
}

// RunsSubmitOptions holds the options for submitting a run.
type RunsSubmitOptions struct {
	Category        string
	Level           string
	Platform        string
	Region          string
	Date            string
	RealTime        string
	RealTimeNoLoads string
	GameTime        string
	Emulated        bool
	Video           string
	Comment         string
	Splits          string
	Verify          bool
	DryRun          bool
	Values          []string
}

func newRunsSubmitCommand() *cobra.Command {
	var opts RunsSubmitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a run",
		Long: `Submit a run. Requires an API key.

Times are Go durations such as 1h23m45.6s. Variable values are given as
VARIABLE_ID=VALUE, where VALUE is a predefined value ID or free text for
user-defined variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			submission, err := opts.submission()
			if err != nil {
				return err
			}

			return withClient(func(ctx context.Context, client srcom.Client) error {
				submission.Values, err = resolveSubmissionValues(ctx, client, opts.Values)
				if err != nil {
					return err
				}

				run, err := client.Runs().Submit(ctx, submission)
				if err != nil {
					return fmt.Errorf("failed to submit run: %w", err)
				}

				if opts.DryRun {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Dry run accepted, nothing was stored")
				}

				return renderRun(ctx, cmd.OutOrStdout(), run)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "category ID (required)")
	cmd.Flags().StringVar(&opts.Level, "level", "", "level ID")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "platform ID (required)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "region ID")
	cmd.Flags().StringVar(&opts.Date, "date", "", "date of the run (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.RealTime, "realtime", "", "real time")
	cmd.Flags().StringVar(&opts.RealTimeNoLoads, "realtime-noloads", "", "real time without loads")
	cmd.Flags().StringVar(&opts.GameTime, "ingame", "", "in-game time")
	cmd.Flags().BoolVar(&opts.Emulated, "emulated", false, "run was done on an emulator")
	cmd.Flags().StringVar(&opts.Video, "video", "", "video URL")
	cmd.Flags().StringVar(&opts.Comment, "comment", "", "run comment")
	cmd.Flags().StringVar(&opts.Splits, "splits", "", "splits.io URL or ID")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "verify the run on submission (moderators only)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "validate without storing the run")
	cmd.Flags().StringArrayVar(&opts.Values, "value", nil, "variable value as VARIABLE_ID=VALUE (repeatable)")

	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (o RunsSubmitOptions) submission() (*srcom.RunSubmission, error) {
	submission := &srcom.RunSubmission{
		CategoryID:  o.Category,
		LevelID:     o.Level,
		PlatformID:  o.Platform,
		RegionID:    o.Region,
		Emulated:    o.Emulated,
		VideoURI:    o.Video,
		Comment:     o.Comment,
		SplitsIOURI: o.Splits,
		Verify:      o.Verify,
		Simulate:    o.DryRun,
	}

	var err error

	submission.RealTime, err = parseOptionalDuration(o.RealTime)
	if err != nil {
		return nil, err
	}

	submission.RealTimeWithoutLoads, err = parseOptionalDuration(o.RealTimeNoLoads)
	if err != nil {
		return nil, err
	}

	submission.GameTime, err = parseOptionalDuration(o.GameTime)
	if err != nil {
		return nil, err
	}

	if o.Date != "" {
		date, err := time.Parse(constants.DateFormat, o.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", o.Date, err)
		}

		submission.Date = &date
	}

	err = submission.Validate()
	if err != nil {
		return nil, err
	}

	return submission, nil
}

func parseOptionalDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidDuration, value)
	}

	return duration, nil
}

// resolveSubmissionValues turns VARIABLE_ID=VALUE pairs into variable values,
// using a predefined value when VALUE names one.
func resolveSubmissionValues(ctx context.Context, client srcom.Client, pairs []string) ([]*srcom.VariableValue, error) {
	values := make([]*srcom.VariableValue, 0, len(pairs))

	for _, pair := range pairs {
		variableID, raw, ok := strings.Cut(pair, "=")
		if !ok || variableID == "" {
			return nil, fmt.Errorf("%w: --value %q", constants.ErrMissingArguments, pair)
		}

		variable, err := client.Variables().Get(ctx, variableID)
		if err != nil {
			return nil, fmt.Errorf("failed to get variable %s: %w", variableID, err)
		}

		if value := variable.Value(raw); value != nil {
			values = append(values, value)

			continue
		}

		value, err := variable.CreateCustomValue(raw)
		if err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	return values, nil
}

func renderRuns(out io.Writer, runs []*srcom.Run) error {
	return render(out, runs, func(out io.Writer) error {
		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, []string{
				run.ID,
				run.GameID,
				run.CategoryID,
				formatRunTime(run.Times.Primary),
				formatDate(run.Date),
				string(run.Status.Type),
			})
		}

		return renderRows(out, "No runs found", []string{"ID", "Game", "Category", "Time", "Date", "Status"}, rows)
	})
}

func renderRun(ctx context.Context, out io.Writer, run *srcom.Run) error {
	return render(out, run, func(out io.Writer) error {
		players := make([]string, 0, len(run.Players))
		for _, player := range run.Players {
			name, err := player.Name(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve player: %w", err)
			}

			players = append(players, name)
		}

		platform, err := run.Platform(ctx)
		if err != nil {
			return fmt.Errorf("failed to get platform: %w", err)
		}

		platformName := ""
		if platform != nil {
			platformName = platform.Name
		}

		videos := []string{}
		if run.Videos != nil {
			videos = run.Videos.Links
		}

		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")
		_ = table.Append("ID", run.ID)
		_ = table.Append("Game", run.GameID)
		_ = table.Append("Category", run.CategoryID)
		_ = table.Append("Level", valueOrNA(run.LevelID))
		_ = table.Append("Players", joinNonEmpty(players))
		_ = table.Append("Time", formatRunTime(run.Times.Primary))
		_ = table.Append("Real Time", formatRunTime(run.Times.RealTime))
		_ = table.Append("Real Time (No Loads)", formatRunTime(run.Times.RealTimeWithoutLoads))
		_ = table.Append("Game Time", formatRunTime(run.Times.GameTime))
		_ = table.Append("Date", formatDate(run.Date))
		_ = table.Append("Status", run.Status.String())
		_ = table.Append("Platform", valueOrNA(platformName))
		_ = table.Append("Emulated", yesNo(run.System.Emulated))
		_ = table.Append("Video", joinNonEmpty(videos))
		_ = table.Append("Comment", valueOrNA(run.Comment))
		_ = table.Append("Link", valueOrNA(run.WebLink))

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	})
}
