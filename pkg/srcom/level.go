package srcom

import "context"

// Level is a stage of a game with its own leaderboards.
type Level struct {
	ID      string `json:"id"      yaml:"id"`
	Name    string `json:"name"    yaml:"name"`
	WebLink string `json:"weblink" yaml:"weblink"`
	Rules   string `json:"rules"   yaml:"rules"`
	GameID  string `json:"game_id" yaml:"game_id"`

	client     Client
	self       *Deferred[*Level]
	game       *Deferred[*Game]
	categories *Deferred[[]*Category]
	variables  *Deferred[[]*Variable]
	runs       *Sequence[*Run]
}

// ParseLevel parses a level element.
func ParseLevel(c Client, element Node) (*Level, error) {
	return parseLevel(c, element, nil)
}

// parseLevel uses game as the level's game when set. Categories embedded in
// the level share the level's game.
func parseLevel(c Client, element Node, game *Deferred[*Game]) (*Level, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	name, err := element.Str("name")
	if err != nil {
		return nil, err
	}

	level := &Level{
		ID:      id,
		Name:    name,
		WebLink: element.OptStr("weblink"),
		Rules:   element.OptStr("rules"),
		client:  c,
	}
	level.self = Resolved(level)
	level.runs = runsOf(c, &RunsQuery{Level: id})

	if uri, ok := findLink(element, "game"); ok {
		level.GameID = linkID(uri)
	}

	switch {
	case game != nil:
		level.game = game
	case level.GameID != "":
		level.game = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, level.GameID, nil)
		})
	default:
		level.game = Absent[*Game]()
	}

	categoryParser := func(n Node) (*Category, error) { return parseCategory(c, n, level.game) }

	if data, ok := embeddedList(element, "categories"); ok {
		categories, err := ParseList(data, categoryParser)
		if err != nil {
			return nil, err
		}

		level.categories = Resolved(categories)
	} else {
		level.categories = Defer(func(ctx context.Context) ([]*Category, error) {
			data, err := fetchData(ctx, c, relationPath("levels", level.ID, "categories"), nil)
			if err != nil {
				return nil, err
			}

			return ParseList(data, categoryParser)
		})
	}

	if data, ok := embeddedList(element, "variables"); ok {
		variables, err := ParseList(data, func(n Node) (*Variable, error) { return ParseVariable(c, n) })
		if err != nil {
			return nil, err
		}

		level.variables = Resolved(variables)
	} else {
		level.variables = Defer(func(ctx context.Context) ([]*Variable, error) {
			return c.Levels().Variables(ctx, level.ID, nil)
		})
	}

	return level, nil
}

// Game returns the game the level belongs to.
func (l *Level) Game(ctx context.Context) (*Game, error) {
	return l.game.Get(ctx)
}

// Categories returns the per-level categories applying to the level.
func (l *Level) Categories(ctx context.Context) ([]*Category, error) {
	return l.categories.Get(ctx)
}

// Variables returns the variables applying to the level.
func (l *Level) Variables(ctx context.Context) ([]*Variable, error) {
	return l.variables.Get(ctx)
}

// Leaderboard returns the level's leaderboard for a per-level category.
func (l *Level) Leaderboard(ctx context.Context, categoryID string, query *LeaderboardQuery) (*Leaderboard, error) {
	data, err := fetchData(ctx, l.client, LevelLeaderboardPath(l.GameID, l.ID, categoryID), query.ToValues())
	if err != nil {
		return nil, err
	}

	return parseLeaderboard(l.client, data, leaderboardRefs{game: l.game, level: l.self})
}

// Runs returns the level's runs.
func (l *Level) Runs() *Sequence[*Run] {
	return l.runs
}

// Records returns the top records of each of the level's leaderboards.
func (l *Level) Records(query *RecordsQuery) *Sequence[*Leaderboard] {
	return l.client.Levels().Records(l.ID, query)
}

// Key implements Keyed.
func (l *Level) Key() string {
	return l.ID
}

// Equal compares levels by ID.
func (l *Level) Equal(other *Level) bool {
	if l == nil || other == nil {
		return l == other
	}

	return l.ID == other.ID
}

// String returns the level's name.
func (l *Level) String() string {
	return l.Name
}
