package srcom

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Keyed is implemented by every entity with an identity. Entities with equal
// keys are the same logical element regardless of which response they were
// parsed from.
type Keyed interface {
	Key() string
}

// Distinct drops later duplicates by key, keeping order.
func Distinct[T Keyed](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))

	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}

// Index maps items by key.
func Index[T Keyed](items []T) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[item.Key()] = item
	}

	return index
}

// linkID returns the last path segment of an API URI.
func linkID(uri string) string {
	return uri[strings.LastIndex(uri, "/")+1:]
}

// findLink returns the uri of the first links[] entry with relation rel.
func findLink(element Node, rel string) (string, bool) {
	for _, link := range element.Get("links").Array() {
		if link.OptStr("rel") == rel {
			return link.OptStr("uri"), true
		}
	}

	return "", false
}

// embedded returns the inlined object of a relation written as {data: {...}}.
// Relations embedded as an empty list (the API's "none") report false.
func embedded(relation Node) (Node, bool) {
	data := relation.Get("data")
	if data.IsObject() {
		return data, true
	}

	return Node{}, false
}

// relation decodes a field that is either a bare ID string or an embedded
// {data: {...}} object. It returns the ID, the embedded object if any, and
// whether the field referred to anything.
func relation(element Node, key string) (string, Node, bool) {
	field := element.Get(key)

	switch field.Kind() {
	case KindString:
		return field.AsString(), Node{}, field.AsString() != ""
	case KindObject:
		data, ok := embedded(field)
		if !ok {
			return "", Node{}, false
		}

		return data.OptStr("id"), data, true
	default:
		return "", Node{}, false
	}
}

// embeddedList returns the array of a relation written as {data: [...]}.
func embeddedList(element Node, key string) (Node, bool) {
	data := element.Get(key).Get("data")
	if data.IsArray() {
		return data, true
	}

	return Node{}, false
}

// relationPath is the path of a collection below an element, with the
// element's ID escaped.
func relationPath(collection, id, relation string) string {
	return collection + "/" + url.PathEscape(id) + "/" + relation
}

// runsOf and gamesOf build a filter relation once, at parse time. Without a
// client the relation is nil.
func runsOf(c Client, query *RunsQuery) *Sequence[*Run] {
	if c == nil {
		return nil
	}

	return c.Runs().List(query)
}

func gamesOf(c Client, query *GamesQuery) *Sequence[*Game] {
	if c == nil {
		return nil
	}

	return c.Games().List(query)
}

// fetchData requests path and returns the envelope's data member.
func fetchData(ctx context.Context, c Requester, path string, values url.Values) (Node, error) {
	envelope, err := c.Request(ctx, c.Endpoint(path, values))
	if err != nil {
		return Node{}, err
	}

	return envelope.Get("data"), nil
}

// TimingMethod is one of the ways a run can be timed.
type TimingMethod string

const (
	TimingRealTime             TimingMethod = "realtime"
	TimingRealTimeWithoutLoads TimingMethod = "realtime_noloads"
	TimingGameTime             TimingMethod = "ingame"
)

// ParseTimingMethod maps a wire value onto a TimingMethod.
func ParseTimingMethod(value string) (TimingMethod, error) {
	switch method := TimingMethod(value); method {
	case TimingRealTime, TimingRealTimeWithoutLoads, TimingGameTime:
		return method, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTimingMethod, value)
	}
}

// String returns a display name.
func (m TimingMethod) String() string {
	switch m {
	case TimingRealTime:
		return "Real Time"
	case TimingRealTimeWithoutLoads:
		return "Real Time (No Loads)"
	case TimingGameTime:
		return "Game Time"
	default:
		return string(m)
	}
}

// ImageAsset is an image hosted by the site.
type ImageAsset struct {
	URI    string `json:"uri"              yaml:"uri"`
	Width  int    `json:"width,omitempty"  yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
}

func parseImageAsset(element Node) *ImageAsset {
	uri := element.OptStr("uri")
	if uri == "" {
		return nil
	}

	asset := &ImageAsset{URI: uri}
	asset.Width, _ = element.OptInt("width")
	asset.Height, _ = element.OptInt("height")

	return asset
}

// Assets are the images attached to a game or series.
type Assets struct {
	Logo         *ImageAsset `json:"logo,omitempty"         yaml:"logo,omitempty"`
	CoverTiny    *ImageAsset `json:"cover_tiny,omitempty"   yaml:"cover_tiny,omitempty"`
	CoverSmall   *ImageAsset `json:"cover_small,omitempty"  yaml:"cover_small,omitempty"`
	CoverMedium  *ImageAsset `json:"cover_medium,omitempty" yaml:"cover_medium,omitempty"`
	CoverLarge   *ImageAsset `json:"cover_large,omitempty"  yaml:"cover_large,omitempty"`
	Icon         *ImageAsset `json:"icon,omitempty"         yaml:"icon,omitempty"`
	TrophyFirst  *ImageAsset `json:"trophy_1st,omitempty"   yaml:"trophy_1st,omitempty"`
	TrophySecond *ImageAsset `json:"trophy_2nd,omitempty"   yaml:"trophy_2nd,omitempty"`
	TrophyThird  *ImageAsset `json:"trophy_3rd,omitempty"   yaml:"trophy_3rd,omitempty"`
	TrophyFourth *ImageAsset `json:"trophy_4th,omitempty"   yaml:"trophy_4th,omitempty"`
	Background   *ImageAsset `json:"background,omitempty"   yaml:"background,omitempty"`
	Foreground   *ImageAsset `json:"foreground,omitempty"   yaml:"foreground,omitempty"`
}

func parseAssets(element Node) Assets {
	return Assets{
		Logo:         parseImageAsset(element.Get("logo")),
		CoverTiny:    parseImageAsset(element.Get("cover-tiny")),
		CoverSmall:   parseImageAsset(element.Get("cover-small")),
		CoverMedium:  parseImageAsset(element.Get("cover-medium")),
		CoverLarge:   parseImageAsset(element.Get("cover-large")),
		Icon:         parseImageAsset(element.Get("icon")),
		TrophyFirst:  parseImageAsset(element.Get("trophy-1st")),
		TrophySecond: parseImageAsset(element.Get("trophy-2nd")),
		TrophyThird:  parseImageAsset(element.Get("trophy-3rd")),
		TrophyFourth: parseImageAsset(element.Get("trophy-4th")),
		Background:   parseImageAsset(element.Get("background")),
		Foreground:   parseImageAsset(element.Get("foreground")),
	}
}

// Ruleset describes how a game's runs are timed and verified.
type Ruleset struct {
	ShowMilliseconds     bool           `json:"show_milliseconds"     yaml:"show_milliseconds"`
	RequiresVerification bool           `json:"requires_verification" yaml:"requires_verification"`
	RequiresVideo        bool           `json:"requires_video"        yaml:"requires_video"`
	TimingMethods        []TimingMethod `json:"timing_methods"        yaml:"timing_methods"`
	DefaultTimingMethod  TimingMethod   `json:"default_timing_method" yaml:"default_timing_method"`
	EmulatorsAllowed     bool           `json:"emulators_allowed"     yaml:"emulators_allowed"`
}

func parseRuleset(element Node) (Ruleset, error) {
	ruleset := Ruleset{
		ShowMilliseconds:     element.OptBool("show-milliseconds"),
		RequiresVerification: element.OptBool("require-verification"),
		RequiresVideo:        element.OptBool("require-video"),
		EmulatorsAllowed:     element.OptBool("emulators-allowed"),
	}

	for _, value := range element.Get("run-times").Array() {
		method, err := ParseTimingMethod(value.AsString())
		if err != nil {
			return Ruleset{}, err
		}

		ruleset.TimingMethods = append(ruleset.TimingMethods, method)
	}

	if value := element.OptStr("default-time"); value != "" {
		method, err := ParseTimingMethod(value)
		if err != nil {
			return Ruleset{}, err
		}

		ruleset.DefaultTimingMethod = method
	}

	return ruleset, nil
}

// Player is a runner credited on a run: a registered user or a guest.
type Player struct {
	UserID    string `json:"user_id,omitempty"    yaml:"user_id,omitempty"`
	GuestName string `json:"guest_name,omitempty" yaml:"guest_name,omitempty"`

	user  *Deferred[*User]
	guest *Deferred[*Guest]
}

// ParsePlayer parses a player reference or an embedded user or guest.
func ParsePlayer(c Client, element Node) (*Player, error) {
	return parsePlayer(c, element, nil)
}

// parsePlayer reuses owner's own Deferred when the player is that user.
func parsePlayer(c Client, element Node, owner *User) (*Player, error) {
	rel, err := element.Str("rel")
	if err != nil {
		return nil, err
	}

	player := &Player{}
	isUser := rel == "user"

	// References carry a uri; embedded players are the full user or guest.
	if element.Has("uri") {
		if isUser {
			player.UserID, err = element.Str("id")
			if err != nil {
				return nil, err
			}

			if owner != nil && owner.ID == player.UserID {
				player.user = owner.self
			} else {
				id := player.UserID
				player.user = Defer(func(ctx context.Context) (*User, error) {
					return c.Users().Get(ctx, id)
				})
			}

			return player, nil
		}

		player.GuestName, err = element.Str("name")
		if err != nil {
			return nil, err
		}

		name := player.GuestName
		player.guest = Defer(func(ctx context.Context) (*Guest, error) {
			return c.Guests().Get(ctx, name)
		})

		return player, nil
	}

	if isUser {
		user, err := ParseUser(c, element)
		if err != nil {
			return nil, err
		}

		player.UserID = user.ID
		player.user = user.self

		return player, nil
	}

	guest, err := ParseGuest(c, element)
	if err != nil {
		return nil, err
	}

	player.GuestName = guest.Name
	player.guest = Resolved(guest)

	return player, nil
}

// IsUser reports whether the player is a registered user.
func (p *Player) IsUser() bool {
	return p.GuestName == ""
}

// User returns the registered user, or nil for guests.
func (p *Player) User(ctx context.Context) (*User, error) {
	return p.user.Get(ctx)
}

// Guest returns the guest, or nil for registered users.
func (p *Player) Guest(ctx context.Context) (*Guest, error) {
	return p.guest.Get(ctx)
}

// Name returns the user's international name or the guest name.
func (p *Player) Name(ctx context.Context) (string, error) {
	if !p.IsUser() {
		return p.GuestName, nil
	}

	user, err := p.User(ctx)
	if err != nil {
		return "", err
	}

	if user == nil {
		return "", nil
	}

	return user.Name, nil
}

// Key implements Keyed.
func (p *Player) Key() string {
	if p.IsUser() {
		return "user:" + p.UserID
	}

	return "guest:" + p.GuestName
}

// Equal compares players by user ID and guest name.
func (p *Player) Equal(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.UserID == other.UserID && p.GuestName == other.GuestName
}

// ModeratorType is a moderator's power level.
type ModeratorType string

const (
	ModeratorTypeModerator      ModeratorType = "moderator"
	ModeratorTypeSuperModerator ModeratorType = "super-moderator"
)

// Moderator is a user moderating a game or series.
type Moderator struct {
	UserID string `json:"user_id" yaml:"user_id"`

	// Type is empty when the moderators were embedded: the embedded form
	// lists users without their power level.
	Type ModeratorType `json:"type,omitempty" yaml:"type,omitempty"`

	user *Deferred[*User]
}

// User returns the moderating user.
func (m *Moderator) User(ctx context.Context) (*User, error) {
	return m.user.Get(ctx)
}

// moderatorSet holds the moderators of a game or series and the list of
// their users. Each moderator's user first looks in the list once it has
// been resolved, so forcing the list never leads to a second fetch per user.
type moderatorSet struct {
	moderators []*Moderator
	users      *Deferred[[]*User]
}

// parseModerators handles both shapes of the moderators field: a map of user
// ID to power level, or embedded users.
func parseModerators(c Client, element Node, refetch func(ctx context.Context) ([]*User, error)) (moderatorSet, error) {
	field := element.Get("moderators")

	if data, ok := embeddedList(element, "moderators"); ok {
		users, err := ParseList(data, func(n Node) (*User, error) { return ParseUser(c, n) })
		if err != nil {
			return moderatorSet{}, err
		}

		set := moderatorSet{users: Resolved(users)}
		for _, user := range users {
			set.moderators = append(set.moderators, &Moderator{UserID: user.ID, user: user.self})
		}

		return set, nil
	}

	set := moderatorSet{}

	if !field.IsObject() {
		set.users = Resolved([]*User{})

		return set, nil
	}

	for _, entry := range field.Fields() {
		moderator := &Moderator{UserID: entry.Key, Type: ModeratorType(entry.Value.AsString())}
		set.moderators = append(set.moderators, moderator)
	}

	set.users = Defer(func(ctx context.Context) ([]*User, error) {
		pending := 0

		for _, moderator := range set.moderators {
			if !moderator.user.IsEvaluated() {
				pending++
			}
		}

		if pending > 1 && refetch != nil {
			return refetch(ctx)
		}

		users := make([]*User, 0, len(set.moderators))

		for _, moderator := range set.moderators {
			user, err := moderator.User(ctx)
			if err != nil {
				return nil, err
			}

			users = append(users, user)
		}

		return users, nil
	})

	for _, moderator := range set.moderators {
		id := moderator.UserID
		moderator.user = Defer(func(ctx context.Context) (*User, error) {
			if set.users.IsEvaluated() {
				users, err := set.users.Get(ctx)
				if err == nil {
					for _, user := range users {
						if user.ID == id {
							return user, nil
						}
					}
				}
			}

			return c.Users().Get(ctx, id)
		})
	}

	return set, nil
}
