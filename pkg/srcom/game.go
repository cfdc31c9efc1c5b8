package srcom

import (
	"context"
	"time"
)

// GameHeader is the light form of a game returned by bulk listings.
type GameHeader struct {
	ID           string `json:"id"                      yaml:"id"`
	Name         string `json:"name"                    yaml:"name"`
	JapaneseName string `json:"japanese_name,omitempty" yaml:"japanese_name,omitempty"`
	TwitchName   string `json:"twitch_name,omitempty"   yaml:"twitch_name,omitempty"`
	Abbreviation string `json:"abbreviation"            yaml:"abbreviation"`
	WebLink      string `json:"weblink"                 yaml:"weblink"`
}

// ParseGameHeader parses a bulk-mode game element.
func ParseGameHeader(element Node) (*GameHeader, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	names := element.Get("names")

	name, err := names.Str("international")
	if err != nil {
		return nil, err
	}

	return &GameHeader{
		ID:           id,
		Name:         name,
		JapaneseName: names.OptStr("japanese"),
		TwitchName:   names.OptStr("twitch"),
		Abbreviation: element.OptStr("abbreviation"),
		WebLink:      element.OptStr("weblink"),
	}, nil
}

// Key implements Keyed.
func (h *GameHeader) Key() string {
	return h.ID
}

// Game is a game with its leaderboards.
type Game struct {
	GameHeader

	ReleaseDate    *time.Time   `json:"release_date,omitempty"     yaml:"release_date,omitempty"`
	YearOfRelease  int          `json:"released,omitempty"         yaml:"released,omitempty"`
	Ruleset        Ruleset      `json:"ruleset"                    yaml:"ruleset"`
	IsRomHack      bool         `json:"romhack"                    yaml:"romhack"`
	Created        *time.Time   `json:"created,omitempty"          yaml:"created,omitempty"`
	Assets         Assets       `json:"assets"                     yaml:"assets"`
	Moderators     []*Moderator `json:"moderators"                 yaml:"moderators"`
	PlatformIDs    []string     `json:"platform_ids"               yaml:"platform_ids"`
	RegionIDs      []string     `json:"region_ids"                 yaml:"region_ids"`
	SeriesID       string       `json:"series_id,omitempty"        yaml:"series_id,omitempty"`
	OriginalGameID string       `json:"original_game_id,omitempty" yaml:"original_game_id,omitempty"`

	client       Client
	self         *Deferred[*Game]
	moderators   moderatorSet
	platforms    *Deferred[[]*Platform]
	regions      *Deferred[[]*Region]
	levels       *Deferred[[]*Level]
	categories   *Deferred[[]*Category]
	variables    *Deferred[[]*Variable]
	series       *Deferred[*Series]
	originalGame *Deferred[*Game]
	romHacks     *Deferred[[]*Game]
	runs         *Sequence[*Run]
}

// ParseGame parses a game element.
func ParseGame(c Client, element Node) (*Game, error) {
	return parseGame(c, element, nil, nil)
}

// parseGame shares series and original with the enclosing response when set.
func parseGame(c Client, element Node, series *Deferred[*Series], original *Deferred[*Game]) (*Game, error) {
	header, err := ParseGameHeader(element)
	if err != nil {
		return nil, err
	}

	ruleset, err := parseRuleset(element.Get("ruleset"))
	if err != nil {
		return nil, err
	}

	game := &Game{
		GameHeader:  *header,
		ReleaseDate: element.OptTime("release-date"),
		Ruleset:     ruleset,
		IsRomHack:   element.OptBool("romhack"),
		Created:     element.OptTime("created"),
		Assets:      parseAssets(element.Get("assets")),
		client:      c,
	}
	game.self = Resolved(game)
	game.runs = runsOf(c, &RunsQuery{Game: header.ID})
	game.YearOfRelease, _ = element.OptInt("released")

	game.moderators, err = parseModerators(c, element, func(ctx context.Context) ([]*User, error) {
		full, err := c.Games().Get(ctx, game.ID, &GameEmbeds{Moderators: true})
		if err != nil {
			return nil, err
		}

		return full.ModeratorUsers(ctx)
	})
	if err != nil {
		return nil, err
	}

	game.Moderators = game.moderators.moderators

	err = game.parsePlatforms(element)
	if err != nil {
		return nil, err
	}

	err = game.parseRegions(element)
	if err != nil {
		return nil, err
	}

	err = game.parseCollections(element)
	if err != nil {
		return nil, err
	}

	game.parseLinks(element, series, original)

	return game, nil
}

func (g *Game) parsePlatforms(element Node) error {
	c := g.client

	if data, ok := embeddedList(element, "platforms"); ok {
		platforms, err := ParseList(data, func(n Node) (*Platform, error) { return ParsePlatform(c, n) })
		if err != nil {
			return err
		}

		g.platforms = Resolved(platforms)
		for _, platform := range platforms {
			g.PlatformIDs = append(g.PlatformIDs, platform.ID)
		}

		return nil
	}

	for _, id := range element.Get("platforms").Array() {
		g.PlatformIDs = append(g.PlatformIDs, id.AsString())
	}

	g.platforms = Defer(func(ctx context.Context) ([]*Platform, error) {
		if len(g.PlatformIDs) > 1 {
			full, err := c.Games().Get(ctx, g.ID, &GameEmbeds{Platforms: true})
			if err != nil {
				return nil, err
			}

			return full.Platforms(ctx)
		}

		platforms := make([]*Platform, 0, len(g.PlatformIDs))

		for _, id := range g.PlatformIDs {
			platform, err := c.Platforms().Get(ctx, id)
			if err != nil {
				return nil, err
			}

			platforms = append(platforms, platform)
		}

		return platforms, nil
	})

	return nil
}

func (g *Game) parseRegions(element Node) error {
	c := g.client

	if data, ok := embeddedList(element, "regions"); ok {
		regions, err := ParseList(data, func(n Node) (*Region, error) { return ParseRegion(c, n) })
		if err != nil {
			return err
		}

		g.regions = Resolved(regions)
		for _, region := range regions {
			g.RegionIDs = append(g.RegionIDs, region.ID)
		}

		return nil
	}

	for _, id := range element.Get("regions").Array() {
		g.RegionIDs = append(g.RegionIDs, id.AsString())
	}

	g.regions = Defer(func(ctx context.Context) ([]*Region, error) {
		if len(g.RegionIDs) > 1 {
			full, err := c.Games().Get(ctx, g.ID, &GameEmbeds{Regions: true})
			if err != nil {
				return nil, err
			}

			return full.Regions(ctx)
		}

		regions := make([]*Region, 0, len(g.RegionIDs))

		for _, id := range g.RegionIDs {
			region, err := c.Regions().Get(ctx, id)
			if err != nil {
				return nil, err
			}

			regions = append(regions, region)
		}

		return regions, nil
	})

	return nil
}

// parseCollections wires levels, categories and variables. Levels and
// categories point back at this game.
func (g *Game) parseCollections(element Node) error {
	c := g.client

	levelParser := func(n Node) (*Level, error) { return parseLevel(c, n, g.self) }
	categoryParser := func(n Node) (*Category, error) { return parseCategory(c, n, g.self) }
	variableParser := func(n Node) (*Variable, error) { return ParseVariable(c, n) }

	if data, ok := embeddedList(element, "levels"); ok {
		levels, err := ParseList(data, levelParser)
		if err != nil {
			return err
		}

		g.levels = Resolved(levels)
	} else {
		g.levels = Defer(func(ctx context.Context) ([]*Level, error) {
			data, err := fetchData(ctx, c, relationPath("games", g.ID, "levels"), nil)
			if err != nil {
				return nil, err
			}

			return ParseList(data, levelParser)
		})
	}

	if data, ok := embeddedList(element, "categories"); ok {
		categories, err := ParseList(data, categoryParser)
		if err != nil {
			return err
		}

		g.categories = Resolved(categories)
	} else {
		g.categories = Defer(func(ctx context.Context) ([]*Category, error) {
			data, err := fetchData(ctx, c, relationPath("games", g.ID, "categories"), nil)
			if err != nil {
				return nil, err
			}

			return ParseList(data, categoryParser)
		})
	}

	if data, ok := embeddedList(element, "variables"); ok {
		variables, err := ParseList(data, variableParser)
		if err != nil {
			return err
		}

		g.variables = Resolved(variables)
	} else {
		g.variables = Defer(func(ctx context.Context) ([]*Variable, error) {
			return c.Games().Variables(ctx, g.ID, nil)
		})
	}

	return nil
}

func (g *Game) parseLinks(element Node, series *Deferred[*Series], original *Deferred[*Game]) {
	c := g.client

	if uri, ok := findLink(element, "series"); ok {
		g.SeriesID = linkID(uri)
	}

	switch {
	case series != nil:
		g.series = series
	case g.SeriesID != "":
		g.series = Defer(func(ctx context.Context) (*Series, error) {
			return c.Series().Get(ctx, g.SeriesID, nil)
		})
	default:
		g.series = Absent[*Series]()
	}

	if uri, ok := findLink(element, "game"); ok {
		g.OriginalGameID = linkID(uri)
	}

	switch {
	case original != nil:
		g.originalGame = original
	case g.OriginalGameID != "":
		g.originalGame = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, g.OriginalGameID, nil)
		})
	default:
		g.originalGame = Absent[*Game]()
	}

	g.romHacks = Defer(func(ctx context.Context) ([]*Game, error) {
		data, err := fetchData(ctx, c, relationPath("games", g.ID, "romhacks"), nil)
		if err != nil {
			return nil, err
		}

		return ParseList(data, func(n Node) (*Game, error) { return parseGame(c, n, nil, g.self) })
	})
}

// ModeratorUsers returns the moderating users. When more than one of them
// is still unresolved, the game is fetched once with moderators embedded
// instead of fetching each user.
func (g *Game) ModeratorUsers(ctx context.Context) ([]*User, error) {
	return g.moderators.users.Get(ctx)
}

// Platforms returns the platforms the game runs on.
func (g *Game) Platforms(ctx context.Context) ([]*Platform, error) {
	return g.platforms.Get(ctx)
}

// Regions returns the regions the game was released in.
func (g *Game) Regions(ctx context.Context) ([]*Region, error) {
	return g.regions.Get(ctx)
}

// Levels returns the game's levels.
func (g *Game) Levels(ctx context.Context) ([]*Level, error) {
	return g.levels.Get(ctx)
}

// Categories returns all of the game's categories.
func (g *Game) Categories(ctx context.Context) ([]*Category, error) {
	return g.categories.Get(ctx)
}

// FullGameCategories returns the per-game categories.
func (g *Game) FullGameCategories(ctx context.Context) ([]*Category, error) {
	return g.categoriesOfType(ctx, CategoryTypePerGame)
}

// LevelCategories returns the per-level categories.
func (g *Game) LevelCategories(ctx context.Context) ([]*Category, error) {
	return g.categoriesOfType(ctx, CategoryTypePerLevel)
}

func (g *Game) categoriesOfType(ctx context.Context, categoryType CategoryType) ([]*Category, error) {
	categories, err := g.Categories(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Category

	for _, category := range categories {
		if category.Type == categoryType {
			out = append(out, category)
		}
	}

	return out, nil
}

// Variables returns every variable defined for the game.
func (g *Game) Variables(ctx context.Context) ([]*Variable, error) {
	return g.variables.Get(ctx)
}

// FullGameVariables returns variables applying to full-game runs.
func (g *Game) FullGameVariables(ctx context.Context) ([]*Variable, error) {
	return g.variablesInScope(ctx, ScopeTypeFullGame, ScopeTypeGlobal)
}

// LevelVariables returns variables applying to all level runs.
func (g *Game) LevelVariables(ctx context.Context) ([]*Variable, error) {
	return g.variablesInScope(ctx, ScopeTypeAllLevels, ScopeTypeGlobal)
}

func (g *Game) variablesInScope(ctx context.Context, scopes ...VariableScopeType) ([]*Variable, error) {
	variables, err := g.Variables(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Variable

	for _, variable := range variables {
		for _, scope := range scopes {
			if variable.Scope.Type == scope {
				out = append(out, variable)

				break
			}
		}
	}

	return out, nil
}

// Series returns the series the game belongs to, or nil.
func (g *Game) Series(ctx context.Context) (*Series, error) {
	return g.series.Get(ctx)
}

// OriginalGame returns the game a rom hack is based on, or nil.
func (g *Game) OriginalGame(ctx context.Context) (*Game, error) {
	return g.originalGame.Get(ctx)
}

// RomHacks returns the rom hacks of this game. Their OriginalGame is this
// game.
func (g *Game) RomHacks(ctx context.Context) ([]*Game, error) {
	return g.romHacks.Get(ctx)
}

// Runs returns the game's runs.
func (g *Game) Runs() *Sequence[*Run] {
	return g.runs
}

// Records returns the top records of every leaderboard of the game.
func (g *Game) Records(query *RecordsQuery) *Sequence[*Leaderboard] {
	return g.client.Games().Records(g.ID, query)
}

// Key implements Keyed.
func (g *Game) Key() string {
	return g.ID
}

// Equal compares games by ID.
func (g *Game) Equal(other *Game) bool {
	if g == nil || other == nil {
		return g == other
	}

	return g.ID == other.ID
}

// String returns the game's name.
func (g *Game) String() string {
	return g.Name
}
