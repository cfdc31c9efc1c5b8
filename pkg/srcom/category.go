package srcom

import (
	"context"
	"fmt"
	"strconv"
)

// CategoryType tells whether a category ranks full-game or level runs.
type CategoryType string

const (
	CategoryTypePerGame  CategoryType = "per-game"
	CategoryTypePerLevel CategoryType = "per-level"
)

// PlayersType qualifies a category's player count.
type PlayersType string

const (
	PlayersExactly PlayersType = "exactly"
	PlayersUpTo    PlayersType = "up-to"
)

// CategoryPlayers is how many runners a run in the category has.
type CategoryPlayers struct {
	Type  PlayersType `json:"type"  yaml:"type"`
	Value int         `json:"value" yaml:"value"`
}

// String implements fmt.Stringer.
func (p CategoryPlayers) String() string {
	if p.Type == PlayersUpTo {
		return "up to " + strconv.Itoa(p.Value)
	}

	return "exactly " + strconv.Itoa(p.Value)
}

// Category is a ruleset runs compete under.
type Category struct {
	ID            string          `json:"id"            yaml:"id"`
	Name          string          `json:"name"          yaml:"name"`
	WebLink       string          `json:"weblink"       yaml:"weblink"`
	Type          CategoryType    `json:"type"          yaml:"type"`
	Rules         string          `json:"rules"         yaml:"rules"`
	Players       CategoryPlayers `json:"players"       yaml:"players"`
	Miscellaneous bool            `json:"miscellaneous" yaml:"miscellaneous"`
	GameID        string          `json:"game_id"       yaml:"game_id"`

	client      Client
	self        *Deferred[*Category]
	game        *Deferred[*Game]
	variables   *Deferred[[]*Variable]
	leaderboard *Deferred[*Leaderboard]
	worldRecord *Deferred[*Record]
	runs        *Sequence[*Run]
}

// ParseCategory parses a category element.
func ParseCategory(c Client, element Node) (*Category, error) {
	return parseCategory(c, element, nil)
}

// parseCategory uses game as the category's game when set, so categories
// listed under a game resolve to that same game.
func parseCategory(c Client, element Node, game *Deferred[*Game]) (*Category, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	name, err := element.Str("name")
	if err != nil {
		return nil, err
	}

	category := &Category{
		ID:            id,
		Name:          name,
		WebLink:       element.OptStr("weblink"),
		Type:          CategoryType(element.OptStr("type")),
		Rules:         element.OptStr("rules"),
		Miscellaneous: element.OptBool("miscellaneous"),
		client:        c,
	}
	category.self = Resolved(category)
	category.runs = runsOf(c, &RunsQuery{Category: id})

	players := element.Get("players")
	category.Players.Type = PlayersType(players.OptStr("type"))
	category.Players.Value, _ = players.OptInt("value")

	if uri, ok := findLink(element, "game"); ok {
		category.GameID = linkID(uri)
	}

	// The game field is absent, a bare ID, or embedded.
	gameID, data, _ := relation(element, "game")
	if gameID != "" {
		category.GameID = gameID
	}

	switch {
	case game != nil:
		category.game = game
	case data.IsObject():
		embeddedGame, err := ParseGame(c, data)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded game of category %s: %w", id, err)
		}

		category.game = embeddedGame.self
	case category.GameID != "":
		category.game = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, category.GameID, nil)
		})
	default:
		category.game = Absent[*Game]()
	}

	if data, ok := embeddedList(element, "variables"); ok {
		variables, err := ParseList(data, func(n Node) (*Variable, error) { return ParseVariable(c, n) })
		if err != nil {
			return nil, err
		}

		category.variables = Resolved(variables)
	} else {
		category.variables = Defer(func(ctx context.Context) ([]*Variable, error) {
			return c.Categories().Variables(ctx, category.ID, nil)
		})
	}

	category.wireLeaderboard()

	return category, nil
}

// wireLeaderboard sets up the leaderboard and world record of a per-game
// category. Both share this category's game and the category itself.
func (cat *Category) wireLeaderboard() {
	if cat.Type != CategoryTypePerGame {
		cat.leaderboard = Absent[*Leaderboard]()
		cat.worldRecord = Absent[*Record]()

		return
	}

	cat.leaderboard = Defer(func(ctx context.Context) (*Leaderboard, error) {
		return cat.fetchLeaderboard(ctx, nil)
	})

	cat.worldRecord = Defer(func(ctx context.Context) (*Record, error) {
		var (
			leaderboard *Leaderboard
			err         error
		)

		if cat.leaderboard.IsEvaluated() {
			leaderboard, err = cat.leaderboard.Get(ctx)
		} else {
			leaderboard, err = cat.fetchLeaderboard(ctx, &LeaderboardQuery{Top: 1})
		}

		if err != nil || leaderboard == nil || len(leaderboard.Records) == 0 {
			return nil, err
		}

		return leaderboard.Records[0], nil
	})
}

func (cat *Category) fetchLeaderboard(ctx context.Context, query *LeaderboardQuery) (*Leaderboard, error) {
	data, err := fetchData(ctx, cat.client, FullGameLeaderboardPath(cat.GameID, cat.ID), query.ToValues())
	if err != nil {
		return nil, err
	}

	return parseLeaderboard(cat.client, data, leaderboardRefs{game: cat.game, category: cat.self})
}

// Game returns the game the category belongs to.
func (cat *Category) Game(ctx context.Context) (*Game, error) {
	return cat.game.Get(ctx)
}

// Variables returns the variables applying to the category.
func (cat *Category) Variables(ctx context.Context) ([]*Variable, error) {
	return cat.variables.Get(ctx)
}

// Leaderboard returns the full leaderboard of a per-game category, or nil
// for per-level categories.
func (cat *Category) Leaderboard(ctx context.Context) (*Leaderboard, error) {
	return cat.leaderboard.Get(ctx)
}

// WorldRecord returns the first-place record, or nil. It reuses the full
// leaderboard when that has already been loaded and otherwise requests only
// the top entry.
func (cat *Category) WorldRecord(ctx context.Context) (*Record, error) {
	return cat.worldRecord.Get(ctx)
}

// Runs returns the category's runs.
func (cat *Category) Runs() *Sequence[*Run] {
	return cat.runs
}

// Key implements Keyed.
func (cat *Category) Key() string {
	return cat.ID
}

// Equal compares categories by ID.
func (cat *Category) Equal(other *Category) bool {
	if cat == nil || other == nil {
		return cat == other
	}

	return cat.ID == other.ID
}

// String returns the category's name.
func (cat *Category) String() string {
	return cat.Name
}
