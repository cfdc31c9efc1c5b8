package srcom

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RunStatusType is the verification state of a run.
type RunStatusType string

const (
	RunStatusNew      RunStatusType = "new"
	RunStatusVerified RunStatusType = "verified"
	RunStatusRejected RunStatusType = "rejected"
)

// ParseRunStatusType maps a wire value onto a RunStatusType.
func ParseRunStatusType(value string) (RunStatusType, error) {
	switch status := RunStatusType(value); status {
	case RunStatusNew, RunStatusVerified, RunStatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("%w: run status %q", ErrUnknownEnumValue, value)
	}
}

// RunStatus is a run's verification state and who examined it.
type RunStatus struct {
	Type       RunStatusType `json:"status"                yaml:"status"`
	ExaminerID string        `json:"examiner,omitempty"    yaml:"examiner,omitempty"`
	Reason     string        `json:"reason,omitempty"      yaml:"reason,omitempty"`
	VerifyDate *time.Time    `json:"verify_date,omitempty" yaml:"verify_date,omitempty"`
}

func parseRunStatus(element Node) (RunStatus, error) {
	value, err := element.Str("status")
	if err != nil {
		return RunStatus{}, err
	}

	statusType, err := ParseRunStatusType(value)
	if err != nil {
		return RunStatus{}, err
	}

	status := RunStatus{Type: statusType}

	if statusType != RunStatusNew {
		status.ExaminerID = element.OptStr("examiner")
	}

	switch statusType {
	case RunStatusVerified:
		status.VerifyDate = element.OptTime("verify-date")
	case RunStatusRejected:
		status.Reason = element.OptStr("reason")
	case RunStatusNew:
	}

	return status, nil
}

// String implements fmt.Stringer.
func (s RunStatus) String() string {
	if s.Type == RunStatusRejected && s.Reason != "" {
		return "rejected: " + s.Reason
	}

	return string(s.Type)
}

// RunTime is one timing of a run. HasSubseconds reports whether the board
// shows fractions of a second for it.
type RunTime struct {
	Duration      time.Duration `json:"duration"       yaml:"duration"`
	HasSubseconds bool          `json:"has_subseconds" yaml:"has_subseconds"`
}

// String implements fmt.Stringer.
func (t RunTime) String() string {
	if t.HasSubseconds {
		return t.Duration.String()
	}

	return t.Duration.Truncate(time.Second).String()
}

// RunTimes are the timings of a run. Absent timings are nil.
type RunTimes struct {
	Primary              *RunTime `json:"primary,omitempty"          yaml:"primary,omitempty"`
	RealTime             *RunTime `json:"realtime,omitempty"         yaml:"realtime,omitempty"`
	RealTimeWithoutLoads *RunTime `json:"realtime_noloads,omitempty" yaml:"realtime_noloads,omitempty"`
	GameTime             *RunTime `json:"ingame,omitempty"           yaml:"ingame,omitempty"`
}

func parseRunTime(element Node, key string) *RunTime {
	iso := element.OptStr(key)
	if iso == "" {
		return nil
	}

	seconds := element.Get(key + "_t").AsFloat()

	return &RunTime{
		Duration:      time.Duration(seconds * float64(time.Second)),
		HasSubseconds: strings.Contains(iso, "."),
	}
}

func parseRunTimes(element Node) RunTimes {
	return RunTimes{
		Primary:              parseRunTime(element, "primary"),
		RealTime:             parseRunTime(element, "realtime"),
		RealTimeWithoutLoads: parseRunTime(element, "realtime_noloads"),
		GameTime:             parseRunTime(element, "ingame"),
	}
}

// Time returns the timing for method, or nil.
func (t RunTimes) Time(method TimingMethod) *RunTime {
	switch method {
	case TimingRealTime:
		return t.RealTime
	case TimingRealTimeWithoutLoads:
		return t.RealTimeWithoutLoads
	case TimingGameTime:
		return t.GameTime
	default:
		return t.Primary
	}
}

// RunSystem is the platform setup a run was done on.
type RunSystem struct {
	PlatformID string `json:"platform,omitempty" yaml:"platform,omitempty"`
	RegionID   string `json:"region,omitempty"   yaml:"region,omitempty"`
	Emulated   bool   `json:"emulated"           yaml:"emulated"`

	platform *Deferred[*Platform]
	region   *Deferred[*Region]
}

// Platform returns the platform, or nil.
func (s *RunSystem) Platform(ctx context.Context) (*Platform, error) {
	return s.platform.Get(ctx)
}

// Region returns the region, or nil.
func (s *RunSystem) Region(ctx context.Context) (*Region, error) {
	return s.region.Get(ctx)
}

// RunVideos are the video proofs of a run.
type RunVideos struct {
	Text  string   `json:"text,omitempty"  yaml:"text,omitempty"`
	Links []string `json:"links,omitempty" yaml:"links,omitempty"`
}

func parseRunVideos(element Node) *RunVideos {
	if !element.IsObject() {
		return nil
	}

	videos := &RunVideos{Text: element.OptStr("text")}

	for _, link := range element.Get("links").Array() {
		uri := link.OptStr("uri")
		if uri == "" {
			continue
		}

		if !strings.HasPrefix(uri, "http") {
			uri = "http://" + uri
		}

		if _, err := url.ParseRequestURI(uri); err == nil {
			videos.Links = append(videos.Links, uri)
		}
	}

	return videos
}

// Run is a submitted speedrun.
type Run struct {
	ID         string           `json:"id"                  yaml:"id"`
	WebLink    string           `json:"weblink"             yaml:"weblink"`
	GameID     string           `json:"game_id"             yaml:"game_id"`
	LevelID    string           `json:"level_id,omitempty"  yaml:"level_id,omitempty"`
	CategoryID string           `json:"category_id"         yaml:"category_id"`
	Videos     *RunVideos       `json:"videos,omitempty"    yaml:"videos,omitempty"`
	Comment    string           `json:"comment,omitempty"   yaml:"comment,omitempty"`
	Status     RunStatus        `json:"status"              yaml:"status"`
	Players    []*Player        `json:"players"             yaml:"players"`
	Date       *time.Time       `json:"date,omitempty"      yaml:"date,omitempty"`
	Submitted  *time.Time       `json:"submitted,omitempty" yaml:"submitted,omitempty"`
	Times      RunTimes         `json:"times"               yaml:"times"`
	System     RunSystem        `json:"system"              yaml:"system"`
	SplitsURI  string           `json:"splits,omitempty"    yaml:"splits,omitempty"`
	Values     []*VariableValue `json:"values,omitempty"    yaml:"values,omitempty"`

	client   Client
	game     *Deferred[*Game]
	category *Deferred[*Category]
	level    *Deferred[*Level]
	examiner *Deferred[*User]
}

// runRefs carries relations a run shares with the response it came from.
type runRefs struct {
	game      *Deferred[*Game]
	category  *Deferred[*Category]
	level     *Deferred[*Level]
	owner     *User
	players   map[string]*Player
	platforms map[string]*Platform
	regions   map[string]*Region
	variables *Deferred[[]*Variable]
}

// ParseRun parses a run element.
func ParseRun(c Client, element Node) (*Run, error) {
	return parseRun(c, element, nil)
}

func parseRun(c Client, element Node, refs *runRefs) (*Run, error) {
	if refs == nil {
		refs = &runRefs{}
	}

	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	statusNode, err := element.Object("status")
	if err != nil {
		return nil, err
	}

	status, err := parseRunStatus(statusNode)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:        id,
		WebLink:   element.OptStr("weblink"),
		Videos:    parseRunVideos(element.Get("videos")),
		Comment:   element.OptStr("comment"),
		Status:    status,
		Date:      element.OptTime("date"),
		Submitted: element.OptTime("submitted"),
		Times:     parseRunTimes(element.Get("times")),
		SplitsURI: element.Get("splits").OptStr("uri"),
		client:    c,
	}

	run.Players, err = parseRunPlayers(c, element, refs)
	if err != nil {
		return nil, err
	}

	err = run.parseRelations(element, refs)
	if err != nil {
		return nil, err
	}

	err = run.parseSystem(element, refs)
	if err != nil {
		return nil, err
	}

	run.Values = parseValueDescriptors(c, element.Get("values"), refs.variables)

	if examinerID := run.Status.ExaminerID; examinerID != "" {
		run.examiner = Defer(func(ctx context.Context) (*User, error) {
			return c.Users().Get(ctx, examinerID)
		})
	} else {
		run.examiner = Absent[*User]()
	}

	return run, nil
}

func parseRunPlayers(c Client, element Node, refs *runRefs) ([]*Player, error) {
	list := element.Get("players")
	if data, ok := embeddedList(element, "players"); ok {
		list = data
	}

	if !list.IsArray() {
		return nil, nil
	}

	return ParseList(list, func(n Node) (*Player, error) {
		player, err := parsePlayer(c, n, refs.owner)
		if err != nil {
			return nil, err
		}

		if shared, ok := refs.players[player.Key()]; ok {
			return shared, nil
		}

		return player, nil
	})
}

// parseRelations wires game, category and level: shared with the enclosing
// response, embedded, referenced by ID, or absent.
func (r *Run) parseRelations(element Node, refs *runRefs) error {
	c := r.client

	gameID, gameData, _ := relation(element, "game")
	r.GameID = gameID

	switch {
	case refs.game != nil:
		r.game = refs.game
	case gameData.IsObject():
		game, err := ParseGame(c, gameData)
		if err != nil {
			return err
		}

		r.game = game.self
	case gameID != "":
		r.game = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, gameID, nil)
		})
	default:
		r.game = Absent[*Game]()
	}

	categoryID, categoryData, _ := relation(element, "category")
	r.CategoryID = categoryID

	switch {
	case refs.category != nil:
		r.category = refs.category
	case categoryData.IsObject():
		category, err := parseCategory(c, categoryData, r.game)
		if err != nil {
			return err
		}

		r.category = category.self
	case categoryID != "":
		r.category = Defer(func(ctx context.Context) (*Category, error) {
			return c.Categories().Get(ctx, categoryID, nil)
		})
	default:
		r.category = Absent[*Category]()
	}

	levelID, levelData, _ := relation(element, "level")
	r.LevelID = levelID

	switch {
	case refs.level != nil:
		r.level = refs.level
	case levelData.IsObject():
		level, err := parseLevel(c, levelData, r.game)
		if err != nil {
			return err
		}

		r.level = level.self
	case levelID != "":
		r.level = Defer(func(ctx context.Context) (*Level, error) {
			return c.Levels().Get(ctx, levelID, nil)
		})
	default:
		r.level = Absent[*Level]()
	}

	return nil
}

func (r *Run) parseSystem(element Node, refs *runRefs) error {
	c := r.client
	system := element.Get("system")

	r.System = RunSystem{
		PlatformID: system.OptStr("platform"),
		RegionID:   system.OptStr("region"),
		Emulated:   system.OptBool("emulated"),
	}

	if data, ok := embedded(element.Get("platform")); ok {
		platform, err := ParsePlatform(c, data)
		if err != nil {
			return err
		}

		r.System.platform = Resolved(platform)
	} else if platform, ok := refs.platforms[r.System.PlatformID]; ok {
		r.System.platform = Resolved(platform)
	} else if id := r.System.PlatformID; id != "" {
		r.System.platform = Defer(func(ctx context.Context) (*Platform, error) {
			return c.Platforms().Get(ctx, id)
		})
	} else {
		r.System.platform = Absent[*Platform]()
	}

	if data, ok := embedded(element.Get("region")); ok {
		region, err := ParseRegion(c, data)
		if err != nil {
			return err
		}

		r.System.region = Resolved(region)
	} else if region, ok := refs.regions[r.System.RegionID]; ok {
		r.System.region = Resolved(region)
	} else if id := r.System.RegionID; id != "" {
		r.System.region = Defer(func(ctx context.Context) (*Region, error) {
			return c.Regions().Get(ctx, id)
		})
	} else {
		r.System.region = Absent[*Region]()
	}

	return nil
}

// Player returns the first credited player, or nil.
func (r *Run) Player() *Player {
	if len(r.Players) == 0 {
		return nil
	}

	return r.Players[0]
}

// Game returns the game the run was done in.
func (r *Run) Game(ctx context.Context) (*Game, error) {
	return r.game.Get(ctx)
}

// Category returns the run's category.
func (r *Run) Category(ctx context.Context) (*Category, error) {
	return r.category.Get(ctx)
}

// Level returns the run's level, or nil for full-game runs.
func (r *Run) Level(ctx context.Context) (*Level, error) {
	return r.level.Get(ctx)
}

// Platform returns the platform the run was done on, or nil.
func (r *Run) Platform(ctx context.Context) (*Platform, error) {
	return r.System.Platform(ctx)
}

// Region returns the region of the run's game copy, or nil.
func (r *Run) Region(ctx context.Context) (*Region, error) {
	return r.System.Region(ctx)
}

// Examiner returns the user who verified or rejected the run, or nil.
func (r *Run) Examiner(ctx context.Context) (*User, error) {
	return r.examiner.Get(ctx)
}

// SplitsAvailable reports whether splits were attached.
func (r *Run) SplitsAvailable() bool {
	return r.SplitsURI != ""
}

// Key implements Keyed.
func (r *Run) Key() string {
	return r.ID
}

// Equal compares runs by ID.
func (r *Run) Equal(other *Run) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.ID == other.ID
}
