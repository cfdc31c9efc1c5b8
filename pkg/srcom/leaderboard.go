package srcom

import (
	"context"
	"net/url"
)

// Leaderboard is the ranked records of a category, optionally of a level,
// under a set of filters.
type Leaderboard struct {
	WebLink    string           `json:"weblink"                   yaml:"weblink"`
	Emulators  EmulatorsFilter  `json:"emulators,omitempty"       yaml:"emulators,omitempty"`
	VideoOnly  bool             `json:"video_only"                yaml:"video_only"`
	Timing     *TimingMethod    `json:"timing,omitempty"          yaml:"timing,omitempty"`
	Values     []*VariableValue `json:"values,omitempty"          yaml:"values,omitempty"`
	Records    []*Record        `json:"records"                   yaml:"records"`
	GameID     string           `json:"game_id"                   yaml:"game_id"`
	CategoryID string           `json:"category_id"               yaml:"category_id"`
	LevelID    string           `json:"level_id,omitempty"        yaml:"level_id,omitempty"`
	PlatformID string           `json:"platform_filter,omitempty" yaml:"platform_filter,omitempty"`
	RegionID   string           `json:"region_filter,omitempty"   yaml:"region_filter,omitempty"`

	client              Client
	game                *Deferred[*Game]
	category            *Deferred[*Category]
	level               *Deferred[*Level]
	platform            *Deferred[*Platform]
	region              *Deferred[*Region]
	players             *Deferred[[]*Player]
	usedRegions         *Deferred[[]*Region]
	usedPlatforms       *Deferred[[]*Platform]
	applicableVariables *Deferred[[]*Variable]
}

// leaderboardRefs carries the elements a leaderboard request was made from.
type leaderboardRefs struct {
	game     *Deferred[*Game]
	category *Deferred[*Category]
	level    *Deferred[*Level]
}

// FullGameLeaderboardPath is the API path of a full-game category's board.
func FullGameLeaderboardPath(gameID, categoryID string) string {
	return "leaderboards/" + url.PathEscape(gameID) + "/category/" + url.PathEscape(categoryID)
}

// LevelLeaderboardPath is the API path of a level's board in a category.
func LevelLeaderboardPath(gameID, levelID, categoryID string) string {
	return "leaderboards/" + url.PathEscape(gameID) + "/level/" + url.PathEscape(levelID) + "/" + url.PathEscape(categoryID)
}

// ParseLeaderboard parses a leaderboard element.
func ParseLeaderboard(c Client, element Node) (*Leaderboard, error) {
	return parseLeaderboard(c, element, leaderboardRefs{})
}

func parseLeaderboard(c Client, element Node, refs leaderboardRefs) (*Leaderboard, error) {
	leaderboard := &Leaderboard{
		WebLink:   element.OptStr("weblink"),
		VideoOnly: element.OptBool("video-only"),
		client:    c,
	}

	switch emulators := element.Get("emulators"); emulators.Kind() {
	case KindBool:
		if emulators.AsBool() {
			leaderboard.Emulators = EmulatorsOnly
		} else {
			leaderboard.Emulators = EmulatorsNone
		}
	case KindString:
		leaderboard.Emulators = EmulatorsFilter(emulators.AsString())
	default:
	}

	if value := element.OptStr("timing"); value != "" {
		method, err := ParseTimingMethod(value)
		if err != nil {
			return nil, err
		}

		leaderboard.Timing = &method
	}

	err := leaderboard.parseRelations(element, refs)
	if err != nil {
		return nil, err
	}

	runs := runRefs{
		game:     leaderboard.game,
		category: leaderboard.category,
		level:    leaderboard.level,
	}

	err = leaderboard.parseEmbeds(element, &runs)
	if err != nil {
		return nil, err
	}

	leaderboard.Values = parseValueDescriptors(c, element.Get("values"), leaderboard.applicableVariables)

	leaderboard.Records, err = ParseList(element.Get("runs"), func(n Node) (*Record, error) {
		return parseRecord(c, n, &runs)
	})
	if err != nil {
		return nil, err
	}

	leaderboard.deriveFromRecords()

	return leaderboard, nil
}

// parseRelations wires the game, category and level, preferring the ones the
// request was made from, and the platform and region filters.
func (l *Leaderboard) parseRelations(element Node, refs leaderboardRefs) error {
	c := l.client

	gameID, gameData, _ := relation(element, "game")
	l.GameID = gameID

	switch {
	case refs.game != nil:
		l.game = refs.game
	case gameData.IsObject():
		game, err := ParseGame(c, gameData)
		if err != nil {
			return err
		}

		l.game = game.self
	case gameID != "":
		l.game = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, gameID, nil)
		})
	default:
		l.game = Absent[*Game]()
	}

	categoryID, categoryData, _ := relation(element, "category")
	l.CategoryID = categoryID

	switch {
	case refs.category != nil:
		l.category = refs.category
	case categoryData.IsObject():
		category, err := parseCategory(c, categoryData, l.game)
		if err != nil {
			return err
		}

		l.category = category.self
	case categoryID != "":
		l.category = Defer(func(ctx context.Context) (*Category, error) {
			return c.Categories().Get(ctx, categoryID, nil)
		})
	default:
		l.category = Absent[*Category]()
	}

	levelID, levelData, _ := relation(element, "level")
	l.LevelID = levelID

	switch {
	case refs.level != nil:
		l.level = refs.level
	case levelData.IsObject():
		level, err := parseLevel(c, levelData, l.game)
		if err != nil {
			return err
		}

		l.level = level.self
	case levelID != "":
		l.level = Defer(func(ctx context.Context) (*Level, error) {
			return c.Levels().Get(ctx, levelID, nil)
		})
	default:
		l.level = Absent[*Level]()
	}

	platformID, platformData, _ := relation(element, "platform")
	l.PlatformID = platformID

	switch {
	case platformData.IsObject():
		platform, err := ParsePlatform(c, platformData)
		if err != nil {
			return err
		}

		l.platform = Resolved(platform)
	case platformID != "":
		l.platform = Defer(func(ctx context.Context) (*Platform, error) {
			return c.Platforms().Get(ctx, platformID)
		})
	default:
		l.platform = Absent[*Platform]()
	}

	regionID, regionData, _ := relation(element, "region")
	l.RegionID = regionID

	switch {
	case regionData.IsObject():
		region, err := ParseRegion(c, regionData)
		if err != nil {
			return err
		}

		l.region = Resolved(region)
	case regionID != "":
		l.region = Defer(func(ctx context.Context) (*Region, error) {
			return c.Regions().Get(ctx, regionID)
		})
	default:
		l.region = Absent[*Region]()
	}

	return nil
}

// parseEmbeds parses embedded players, regions, platforms and variables so
// the records below share them.
func (l *Leaderboard) parseEmbeds(element Node, runs *runRefs) error {
	c := l.client

	if data, ok := embeddedList(element, "players"); ok {
		players, err := ParseList(data, func(n Node) (*Player, error) { return ParsePlayer(c, n) })
		if err != nil {
			return err
		}

		runs.players = Index(players)
		l.players = Resolved(players)
	}

	if data, ok := embeddedList(element, "regions"); ok {
		regions, err := ParseList(data, func(n Node) (*Region, error) { return ParseRegion(c, n) })
		if err != nil {
			return err
		}

		runs.regions = Index(regions)
		l.usedRegions = Resolved(regions)
	}

	if data, ok := embeddedList(element, "platforms"); ok {
		platforms, err := ParseList(data, func(n Node) (*Platform, error) { return ParsePlatform(c, n) })
		if err != nil {
			return err
		}

		runs.platforms = Index(platforms)
		l.usedPlatforms = Resolved(platforms)
	}

	if data, ok := embeddedList(element, "variables"); ok {
		variables, err := ParseList(data, func(n Node) (*Variable, error) { return ParseVariable(c, n) })
		if err != nil {
			return err
		}

		l.applicableVariables = Resolved(variables)
	} else {
		l.applicableVariables = Defer(func(ctx context.Context) ([]*Variable, error) {
			category, err := l.Category(ctx)
			if err != nil || category == nil {
				return nil, err
			}

			variables, err := category.Variables(ctx)
			if err != nil {
				return nil, err
			}

			level, err := l.Level(ctx)
			if err != nil || level == nil {
				return variables, err
			}

			levelVariables, err := level.Variables(ctx)
			if err != nil {
				return nil, err
			}

			return Distinct(append(append([]*Variable{}, variables...), levelVariables...)), nil
		})
	}

	runs.variables = l.applicableVariables

	return nil
}

// deriveFromRecords fills in the collections the response did not embed.
func (l *Leaderboard) deriveFromRecords() {
	if l.players == nil {
		var players []*Player
		for _, record := range l.Records {
			players = append(players, record.Players...)
		}

		l.players = Resolved(Distinct(players))
	}

	if l.usedRegions == nil {
		l.usedRegions = Defer(func(ctx context.Context) ([]*Region, error) {
			var regions []*Region

			for _, record := range l.Records {
				region, err := record.Region(ctx)
				if err != nil {
					return nil, err
				}

				if region != nil {
					regions = append(regions, region)
				}
			}

			return Distinct(regions), nil
		})
	}

	if l.usedPlatforms == nil {
		l.usedPlatforms = Defer(func(ctx context.Context) ([]*Platform, error) {
			var platforms []*Platform

			for _, record := range l.Records {
				platform, err := record.Platform(ctx)
				if err != nil {
					return nil, err
				}

				if platform != nil {
					platforms = append(platforms, platform)
				}
			}

			return Distinct(platforms), nil
		})
	}
}

// Game returns the leaderboard's game.
func (l *Leaderboard) Game(ctx context.Context) (*Game, error) {
	return l.game.Get(ctx)
}

// Category returns the leaderboard's category.
func (l *Leaderboard) Category(ctx context.Context) (*Category, error) {
	return l.category.Get(ctx)
}

// Level returns the leaderboard's level, or nil for full-game boards.
func (l *Leaderboard) Level(ctx context.Context) (*Level, error) {
	return l.level.Get(ctx)
}

// PlatformFilter returns the platform the board is filtered by, or nil.
func (l *Leaderboard) PlatformFilter(ctx context.Context) (*Platform, error) {
	return l.platform.Get(ctx)
}

// RegionFilter returns the region the board is filtered by, or nil.
func (l *Leaderboard) RegionFilter(ctx context.Context) (*Region, error) {
	return l.region.Get(ctx)
}

// Players returns the distinct players with a record on the board.
func (l *Leaderboard) Players(ctx context.Context) ([]*Player, error) {
	return l.players.Get(ctx)
}

// UsedRegions returns the distinct regions of the board's records.
func (l *Leaderboard) UsedRegions(ctx context.Context) ([]*Region, error) {
	return l.usedRegions.Get(ctx)
}

// UsedPlatforms returns the distinct platforms of the board's records.
func (l *Leaderboard) UsedPlatforms(ctx context.Context) ([]*Platform, error) {
	return l.usedPlatforms.Get(ctx)
}

// ApplicableVariables returns the variables that can filter the board.
func (l *Leaderboard) ApplicableVariables(ctx context.Context) ([]*Variable, error) {
	return l.applicableVariables.Get(ctx)
}

// WorldRecord returns the first record, or nil for an empty board.
func (l *Leaderboard) WorldRecord() *Record {
	if len(l.Records) == 0 {
		return nil
	}

	return l.Records[0]
}
