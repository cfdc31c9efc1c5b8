package commands

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// RunFilter is a compiled boolean expression over run properties, e.g.
//
//	Status == "verified" && Time < minutes(30) && daysSince(Date) < 365
type RunFilter struct {
	expression string
	program    *vm.Program
}

// CompileRunFilter compiles expression. Unknown identifiers are rejected.
func CompileRunFilter(expression string) (*RunFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("%w: empty expression", constants.ErrInvalidFilter)
	}

	program, err := expr.Compile(expression,
		expr.Env(runEnvironment(&srcom.Run{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidFilter, err)
	}

	return &RunFilter{expression: expression, program: program}, nil
}

// Match evaluates the filter against run.
func (f *RunFilter) Match(run *srcom.Run) (bool, error) {
	result, err := expr.Run(f.program, runEnvironment(run))
	if err != nil {
		return false, fmt.Errorf("evaluating %q on run %s: %w", f.expression, run.ID, err)
	}

	return result.(bool), nil
}

// String returns the source expression.
func (f *RunFilter) String() string {
	return f.expression
}

func addHelperFunctions(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(value string) time.Time {
		t, _ := time.Parse(constants.DateFormat, value)

		return t
	}
	// Durations are compared in seconds.
	env["minutes"] = func(n float64) float64 {
		return n * time.Minute.Seconds()
	}
	env["hours"] = func(n float64) float64 {
		return n * time.Hour.Seconds()
	}
}

func runEnvironment(run *srcom.Run) map[string]any {
	env := make(map[string]any, 32)
	addHelperFunctions(env)

	players := make([]string, 0, len(run.Players))
	for _, player := range run.Players {
		if player.IsUser() {
			players = append(players, player.UserID)
		} else {
			players = append(players, player.GuestName)
		}
	}

	env["hasPlayer"] = func(idOrName string) bool {
		return slices.ContainsFunc(players, func(player string) bool {
			return strings.EqualFold(player, idOrName)
		})
	}

	env["ID"] = run.ID
	env["Game"] = run.GameID
	env["Category"] = run.CategoryID
	env["Level"] = run.LevelID
	env["Status"] = string(run.Status.Type)
	env["Reason"] = run.Status.Reason
	env["Comment"] = run.Comment
	env["Emulated"] = run.System.Emulated
	env["Platform"] = run.System.PlatformID
	env["Region"] = run.System.RegionID
	env["Video"] = run.Videos != nil && len(run.Videos.Links) > 0
	env["Splits"] = run.SplitsAvailable()
	env["Players"] = players
	env["PlayerCount"] = len(players)
	env["Time"] = seconds(run.Times.Primary)
	env["RealTime"] = seconds(run.Times.RealTime)
	env["RealTimeNoLoads"] = seconds(run.Times.RealTimeWithoutLoads)
	env["GameTime"] = seconds(run.Times.GameTime)
	env["Date"] = timeOrZero(run.Date)
	env["Submitted"] = timeOrZero(run.Submitted)

	return env
}

func seconds(value *srcom.RunTime) float64 {
	if value == nil {
		return 0
	}

	return value.Duration.Seconds()
}

func timeOrZero(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}

	return *value
}
