package srcom

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
)

// Query parameter names shared by every list endpoint.
const (
	paramEmbed     = "embed"
	paramOrderBy   = "orderby"
	paramDirection = "direction"
	paramMax       = "max"
	paramTop       = "top"

	directionDesc = "desc"
)

// Embeds lists the relations a request asks the server to inline.
type Embeds interface {
	EmbedNames() []string
}

func setEmbed(values url.Values, embeds Embeds) {
	if embeds == nil {
		return
	}

	names := embeds.EmbedNames()
	if len(names) > 0 {
		values.Set(paramEmbed, strings.Join(names, ","))
	}
}

func setOrder(values url.Values, orderBy string, descending bool) {
	if orderBy != "" {
		values.Set(paramOrderBy, orderBy)
	}

	if descending {
		values.Set(paramDirection, directionDesc)
	}
}

func setString(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func setPositive(values url.Values, key string, value int) {
	if value > 0 {
		values.Set(key, strconv.Itoa(value))
	}
}

func appendIf(names []string, ok bool, name string) []string {
	if ok {
		return append(names, name)
	}

	return names
}

// GameEmbeds selects relations inlined into game responses.
type GameEmbeds struct {
	Levels     bool
	Categories bool
	Moderators bool
	Platforms  bool
	Regions    bool
	Variables  bool
}

// EmbedNames implements Embeds.
func (e *GameEmbeds) EmbedNames() []string {
	if e == nil {
		return nil
	}

	var names []string
	names = appendIf(names, e.Levels, "levels")
	names = appendIf(names, e.Categories, "categories")
	names = appendIf(names, e.Moderators, "moderators")
	names = appendIf(names, e.Platforms, "platforms")
	names = appendIf(names, e.Regions, "regions")
	names = appendIf(names, e.Variables, "variables")

	return names
}

// CategoryEmbeds selects relations inlined into category responses.
type CategoryEmbeds struct {
	Game      bool
	Variables bool
}

// EmbedNames implements Embeds.
func (e *CategoryEmbeds) EmbedNames() []string {
	if e == nil {
		return nil
	}

	var names []string
	names = appendIf(names, e.Game, "game")
	names = appendIf(names, e.Variables, "variables")

	return names
}

// LevelEmbeds selects relations inlined into level responses.
type LevelEmbeds struct {
	Categories bool
	Variables  bool
}

// EmbedNames implements Embeds.
func (e *LevelEmbeds) EmbedNames() []string {
	if e == nil {
		return nil
	}

	var names []string
	names = appendIf(names, e.Categories, "categories")
	names = appendIf(names, e.Variables, "variables")

	return names
}

// RunEmbeds selects relations inlined into run and record responses.
type RunEmbeds struct {
	Game     bool
	Category bool
	Level    bool
	Players  bool
	Region   bool
	Platform bool
}

// EmbedNames implements Embeds.
func (e *RunEmbeds) EmbedNames() []string {
	if e == nil {
		return nil
	}

	var names []string
	names = appendIf(names, e.Game, "game")
	names = appendIf(names, e.Category, "category")
	names = appendIf(names, e.Level, "level")
	names = appendIf(names, e.Players, "players")
	names = appendIf(names, e.Region, "region")
	names = appendIf(names, e.Platform, "platform")

	return names
}

// LeaderboardEmbeds selects relations inlined into leaderboard responses.
type LeaderboardEmbeds struct {
	Game      bool
	Category  bool
	Level     bool
	Players   bool
	Regions   bool
	Platforms bool
	Variables bool
}

// EmbedNames implements Embeds.
func (e *LeaderboardEmbeds) EmbedNames() []string {
	if e == nil {
		return nil
	}

	var names []string
	names = appendIf(names, e.Game, "game")
	names = appendIf(names, e.Category, "category")
	names = appendIf(names, e.Level, "level")
	names = appendIf(names, e.Players, "players")
	names = appendIf(names, e.Regions, "regions")
	names = appendIf(names, e.Platforms, "platforms")
	names = appendIf(names, e.Variables, "variables")

	return names
}

// SeriesEmbeds selects relations inlined into series responses.
type SeriesEmbeds struct {
	Moderators bool
}

// EmbedNames implements Embeds.
func (e *SeriesEmbeds) EmbedNames() []string {
	if e == nil {
		return nil
	}

	return appendIf(nil, e.Moderators, "moderators")
}

// EmbedValues encodes embeds on their own, for single-object requests.
func EmbedValues(embeds Embeds) url.Values {
	values := url.Values{}
	setEmbed(values, embeds)

	return values
}

// Orderings accepted by the list endpoints.
type (
	GamesOrderBy         string
	CategoriesOrderBy    string
	LevelsOrderBy        string
	VariablesOrderBy     string
	RunsOrderBy          string
	UsersOrderBy         string
	PlatformsOrderBy     string
	RegionsOrderBy       string
	SeriesOrderBy        string
	NotificationsOrderBy string
)

const (
	GamesOrderByName         GamesOrderBy = "name.int"
	GamesOrderByJapaneseName GamesOrderBy = "name.jap"
	GamesOrderByAbbreviation GamesOrderBy = "abbreviation"
	GamesOrderByReleased     GamesOrderBy = "released"
	GamesOrderByCreated      GamesOrderBy = "created"
	GamesOrderBySimilarity   GamesOrderBy = "similarity"

	CategoriesOrderByName          CategoriesOrderBy = "name"
	CategoriesOrderByMiscellaneous CategoriesOrderBy = "miscellaneous"
	CategoriesOrderByPosition      CategoriesOrderBy = "pos"

	LevelsOrderByName     LevelsOrderBy = "name"
	LevelsOrderByPosition LevelsOrderBy = "pos"

	VariablesOrderByName        VariablesOrderBy = "name"
	VariablesOrderByMandatory   VariablesOrderBy = "mandatory"
	VariablesOrderByUserDefined VariablesOrderBy = "user-defined"
	VariablesOrderByPosition    VariablesOrderBy = "pos"

	RunsOrderByGame       RunsOrderBy = "game"
	RunsOrderByCategory   RunsOrderBy = "category"
	RunsOrderByLevel      RunsOrderBy = "level"
	RunsOrderByPlatform   RunsOrderBy = "platform"
	RunsOrderByRegion     RunsOrderBy = "region"
	RunsOrderByEmulated   RunsOrderBy = "emulated"
	RunsOrderByDate       RunsOrderBy = "date"
	RunsOrderBySubmitted  RunsOrderBy = "submitted"
	RunsOrderByStatus     RunsOrderBy = "status"
	RunsOrderByVerifyDate RunsOrderBy = "verify-date"

	UsersOrderByName         UsersOrderBy = "name.int"
	UsersOrderByJapaneseName UsersOrderBy = "name.jap"
	UsersOrderBySignUpDate   UsersOrderBy = "signup"
	UsersOrderByRole         UsersOrderBy = "role"

	PlatformsOrderByName     PlatformsOrderBy = "name"
	PlatformsOrderByReleased PlatformsOrderBy = "released"

	RegionsOrderByName RegionsOrderBy = "name"

	SeriesOrderByName         SeriesOrderBy = "name.int"
	SeriesOrderByJapaneseName SeriesOrderBy = "name.jap"
	SeriesOrderByAbbreviation SeriesOrderBy = "abbreviation"
	SeriesOrderByCreated      SeriesOrderBy = "created"

	NotificationsOrderByCreated NotificationsOrderBy = "created"
)

// GamesQuery filters the games list.
type GamesQuery struct {
	Name         string
	Abbreviation string
	Released     int
	Platform     string
	Region       string
	Moderator    string
	RomHack      *bool
	OrderBy      GamesOrderBy
	Descending   bool
	Max          int
	Embeds       *GameEmbeds
}

// ToValues converts the query to URL values.
func (q *GamesQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setString(values, "name", q.Name)
	setString(values, "abbreviation", q.Abbreviation)
	setPositive(values, "released", q.Released)
	setString(values, "platform", q.Platform)
	setString(values, "region", q.Region)
	setString(values, "moderator", q.Moderator)

	if q.RomHack != nil {
		values.Set("romhack", strconv.FormatBool(*q.RomHack))
	}

	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)
	setEmbed(values, q.Embeds)

	return values
}

// GameHeadersQuery filters the bulk game header listing.
type GameHeadersQuery struct {
	Name         string
	Abbreviation string
	Released     int
	Platform     string
	Region       string
	Moderator    string
	OrderBy      GamesOrderBy
	Descending   bool
}

// ToValues converts the query to URL values, always in bulk mode.
func (q *GameHeadersQuery) ToValues() url.Values {
	values := url.Values{}
	values.Set("_bulk", "yes")
	values.Set(paramMax, strconv.Itoa(constants.HeaderPageSize))

	if q == nil {
		return values
	}

	setString(values, "name", q.Name)
	setString(values, "abbreviation", q.Abbreviation)
	setPositive(values, "released", q.Released)
	setString(values, "platform", q.Platform)
	setString(values, "region", q.Region)
	setString(values, "moderator", q.Moderator)
	setOrder(values, string(q.OrderBy), q.Descending)

	return values
}

// CategoriesQuery shapes a game's or level's category listing.
type CategoriesQuery struct {
	ExcludeMiscellaneous bool
	OrderBy              CategoriesOrderBy
	Descending           bool
	Embeds               *CategoryEmbeds
}

// ToValues converts the query to URL values.
func (q *CategoriesQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	if q.ExcludeMiscellaneous {
		values.Set("miscellaneous", "no")
	}

	setOrder(values, string(q.OrderBy), q.Descending)
	setEmbed(values, q.Embeds)

	return values
}

// LevelsQuery shapes a game's level listing.
type LevelsQuery struct {
	OrderBy    LevelsOrderBy
	Descending bool
	Embeds     *LevelEmbeds
}

// ToValues converts the query to URL values.
func (q *LevelsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setOrder(values, string(q.OrderBy), q.Descending)
	setEmbed(values, q.Embeds)

	return values
}

// VariablesQuery shapes a variable listing.
type VariablesQuery struct {
	OrderBy    VariablesOrderBy
	Descending bool
}

// ToValues converts the query to URL values.
func (q *VariablesQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setOrder(values, string(q.OrderBy), q.Descending)

	return values
}

// LeaderboardScope restricts a game's records listing.
type LeaderboardScope string

const (
	ScopeAll      LeaderboardScope = "all"
	ScopeFullGame LeaderboardScope = "full-game"
	ScopeLevels   LeaderboardScope = "levels"
)

// RecordsQuery shapes a records listing (one leaderboard per page element).
type RecordsQuery struct {
	Top                  int
	Scope                LeaderboardScope
	ExcludeMiscellaneous bool
	SkipEmpty            bool
	Max                  int
	Embeds               *LeaderboardEmbeds
}

// ToValues converts the query to URL values.
func (q *RecordsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setPositive(values, paramTop, q.Top)

	if q.Scope != "" && q.Scope != ScopeAll {
		values.Set("scope", string(q.Scope))
	}

	if q.ExcludeMiscellaneous {
		values.Set("miscellaneous", "false")
	}

	if q.SkipEmpty {
		values.Set("skip-empty", "true")
	}

	setPositive(values, paramMax, q.Max)
	setEmbed(values, q.Embeds)

	return values
}

// RunsQuery filters the runs list.
type RunsQuery struct {
	User       string
	Guest      string
	Examiner   string
	Game       string
	Level      string
	Category   string
	Platform   string
	Region     string
	Emulated   bool
	Status     RunStatusType
	OrderBy    RunsOrderBy
	Descending bool
	Max        int
	Embeds     *RunEmbeds
}

// ToValues converts the query to URL values.
func (q *RunsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setString(values, "user", q.User)
	setString(values, "guest", q.Guest)
	setString(values, "examiner", q.Examiner)
	setString(values, "game", q.Game)
	setString(values, "level", q.Level)
	setString(values, "category", q.Category)
	setString(values, "platform", q.Platform)
	setString(values, "region", q.Region)

	if q.Emulated {
		values.Set("emulated", "yes")
	}

	setString(values, "status", string(q.Status))
	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)
	setEmbed(values, q.Embeds)

	return values
}

// EmulatorsFilter narrows a leaderboard by emulation.
type EmulatorsFilter string

const (
	EmulatorsNotSet EmulatorsFilter = ""
	EmulatorsOnly   EmulatorsFilter = "true"
	EmulatorsNone   EmulatorsFilter = "false"
)

// LeaderboardQuery shapes a single leaderboard request.
type LeaderboardQuery struct {
	Top       int
	Platform  string
	Region    string
	Emulators EmulatorsFilter
	VideoOnly bool
	Timing    TimingMethod
	Date      *time.Time

	// Values maps variable IDs to the value IDs the board is filtered by.
	Values map[string]string

	Embeds *LeaderboardEmbeds
}

// WithValues adds predefined variable values to the filter.
func (q *LeaderboardQuery) WithValues(values ...*VariableValue) *LeaderboardQuery {
	if q.Values == nil {
		q.Values = make(map[string]string, len(values))
	}

	for _, value := range values {
		if value != nil && !value.IsCustom() {
			q.Values[value.VariableID] = value.ID
		}
	}

	return q
}

// ToValues converts the query to URL values.
func (q *LeaderboardQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setPositive(values, paramTop, q.Top)
	setString(values, "platform", q.Platform)
	setString(values, "region", q.Region)
	setString(values, "emulators", string(q.Emulators))

	if q.VideoOnly {
		values.Set("video-only", "true")
	}

	setString(values, "timing", string(q.Timing))

	if q.Date != nil {
		values.Set("date", q.Date.UTC().Format(constants.DateFormat))
	}

	for variableID, valueID := range q.Values {
		values.Set("var-"+variableID, valueID)
	}

	setEmbed(values, q.Embeds)

	return values
}

// UsersQuery filters the users list.
type UsersQuery struct {
	Name          string
	Twitch        string
	Hitbox        string
	Twitter       string
	SpeedRunsLive string
	OrderBy       UsersOrderBy
	Descending    bool
	Max           int
}

// ToValues converts the query to URL values.
func (q *UsersQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setString(values, "name", q.Name)
	setString(values, "twitch", q.Twitch)
	setString(values, "hitbox", q.Hitbox)
	setString(values, "twitter", q.Twitter)
	setString(values, "speedrunslive", q.SpeedRunsLive)
	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)

	return values
}

// PersonalBestsQuery narrows a user's personal bests.
type PersonalBestsQuery struct {
	Top    int
	Series string
	Game   string
	Embeds *RunEmbeds
}

// ToValues converts the query to URL values.
func (q *PersonalBestsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setPositive(values, paramTop, q.Top)
	setString(values, "series", q.Series)
	setString(values, "game", q.Game)
	setEmbed(values, q.Embeds)

	return values
}

// PlatformsQuery orders the platforms list.
type PlatformsQuery struct {
	OrderBy    PlatformsOrderBy
	Descending bool
	Max        int
}

// ToValues converts the query to URL values.
func (q *PlatformsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)

	return values
}

// RegionsQuery orders the regions list.
type RegionsQuery struct {
	OrderBy    RegionsOrderBy
	Descending bool
	Max        int
}

// ToValues converts the query to URL values.
func (q *RegionsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)

	return values
}

// SeriesQuery filters the series list.
type SeriesQuery struct {
	Name         string
	Abbreviation string
	Moderator    string
	OrderBy      SeriesOrderBy
	Descending   bool
	Max          int
	Embeds       *SeriesEmbeds
}

// ToValues converts the query to URL values.
func (q *SeriesQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setString(values, "name", q.Name)
	setString(values, "abbreviation", q.Abbreviation)
	setString(values, "moderator", q.Moderator)
	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)
	setEmbed(values, q.Embeds)

	return values
}

// NotificationsQuery orders the authenticated user's notifications.
type NotificationsQuery struct {
	OrderBy    NotificationsOrderBy
	Descending bool
	Max        int
}

// ToValues converts the query to URL values.
func (q *NotificationsQuery) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	setOrder(values, string(q.OrderBy), q.Descending)
	setPositive(values, paramMax, q.Max)

	return values
}
