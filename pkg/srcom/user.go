package srcom

import (
	"context"
	"strings"
	"time"
)

// UserRole is a user's site-wide role.
type UserRole string

const (
	UserRoleBanned           UserRole = "banned"
	UserRoleUser             UserRole = "user"
	UserRoleTrusted          UserRole = "trusted"
	UserRoleModerator        UserRole = "moderator"
	UserRoleAdmin            UserRole = "admin"
	UserRoleProgrammer       UserRole = "programmer"
	UserRoleContentModerator UserRole = "contentmoderator"
)

// NameColor is a name color for the light and dark site themes.
type NameColor struct {
	Light string `json:"light" yaml:"light"`
	Dark  string `json:"dark"  yaml:"dark"`
}

func parseNameColor(element Node) NameColor {
	return NameColor{Light: element.OptStr("light"), Dark: element.OptStr("dark")}
}

// NameStyle is how a user's name is colored: solid, or a gradient.
type NameStyle struct {
	Style     string     `json:"style"                yaml:"style"`
	Solid     *NameColor `json:"color,omitempty"      yaml:"color,omitempty"`
	ColorFrom *NameColor `json:"color_from,omitempty" yaml:"color_from,omitempty"`
	ColorTo   *NameColor `json:"color_to,omitempty"   yaml:"color_to,omitempty"`
}

// IsGradient reports whether the name is drawn as a gradient.
func (s NameStyle) IsGradient() bool {
	return s.Style == "gradient"
}

func parseNameStyle(element Node) NameStyle {
	style := NameStyle{Style: element.OptStr("style")}

	if style.IsGradient() {
		from := parseNameColor(element.Get("color-from"))
		to := parseNameColor(element.Get("color-to"))
		style.ColorFrom, style.ColorTo = &from, &to

		return style
	}

	if color := element.Get("color"); color.IsObject() {
		solid := parseNameColor(color)
		style.Solid = &solid
	}

	return style
}

// Country is a country a user lives in.
type Country struct {
	Code         string `json:"code"                    yaml:"code"`
	Name         string `json:"name"                    yaml:"name"`
	JapaneseName string `json:"japanese_name,omitempty" yaml:"japanese_name,omitempty"`
}

// CountryRegion is a subdivision of a country.
type CountryRegion struct {
	Code         string `json:"code"                    yaml:"code"`
	Name         string `json:"name"                    yaml:"name"`
	JapaneseName string `json:"japanese_name,omitempty" yaml:"japanese_name,omitempty"`
}

// Location is where a user lives.
type Location struct {
	Country Country        `json:"country"          yaml:"country"`
	Region  *CountryRegion `json:"region,omitempty" yaml:"region,omitempty"`
}

// String implements fmt.Stringer.
func (l *Location) String() string {
	if l.Region == nil {
		return l.Country.Name
	}

	return l.Country.Name + " " + l.Region.Name
}

func parseLocation(element Node) *Location {
	country := element.Get("country")
	if !country.IsObject() {
		return nil
	}

	location := &Location{Country: Country{
		Code:         country.OptStr("code"),
		Name:         country.Get("names").OptStr("international"),
		JapaneseName: country.Get("names").OptStr("japanese"),
	}}

	if region := element.Get("region"); region.IsObject() {
		location.Region = &CountryRegion{
			Code:         region.OptStr("code"),
			Name:         region.Get("names").OptStr("international"),
			JapaneseName: region.Get("names").OptStr("japanese"),
		}
	}

	return location
}

// User is a registered speedrun.com user.
type User struct {
	ID                   string     `json:"id"                              yaml:"id"`
	Name                 string     `json:"name"                            yaml:"name"`
	JapaneseName         string     `json:"japanese_name,omitempty"         yaml:"japanese_name,omitempty"`
	Pronouns             []string   `json:"pronouns,omitempty"              yaml:"pronouns,omitempty"`
	WebLink              string     `json:"weblink"                         yaml:"weblink"`
	NameStyle            NameStyle  `json:"name_style"                      yaml:"name_style"`
	Role                 UserRole   `json:"role"                            yaml:"role"`
	SignUp               *time.Time `json:"signup,omitempty"                yaml:"signup,omitempty"`
	Location             *Location  `json:"location,omitempty"              yaml:"location,omitempty"`
	TwitchProfile        string     `json:"twitch_profile,omitempty"        yaml:"twitch_profile,omitempty"`
	HitboxProfile        string     `json:"hitbox_profile,omitempty"        yaml:"hitbox_profile,omitempty"`
	YoutubeProfile       string     `json:"youtube_profile,omitempty"       yaml:"youtube_profile,omitempty"`
	TwitterProfile       string     `json:"twitter_profile,omitempty"       yaml:"twitter_profile,omitempty"`
	SpeedRunsLiveProfile string     `json:"speedrunslive_profile,omitempty" yaml:"speedrunslive_profile,omitempty"`
	Icon                 string     `json:"icon,omitempty"                  yaml:"icon,omitempty"`
	Image                string     `json:"image,omitempty"                 yaml:"image,omitempty"`

	client         Client
	self           *Deferred[*User]
	personalBests  *Deferred[[]*Record]
	runs           *Sequence[*Run]
	moderatedGames *Sequence[*Game]
}

// ParseUser parses a user element.
func ParseUser(c Client, element Node) (*User, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	names := element.Get("names")

	name, err := names.Str("international")
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:                   id,
		Name:                 name,
		JapaneseName:         names.OptStr("japanese"),
		WebLink:              element.OptStr("weblink"),
		NameStyle:            parseNameStyle(element.Get("name-style")),
		Role:                 UserRole(element.OptStr("role")),
		SignUp:               element.OptTime("signup"),
		Location:             parseLocation(element.Get("location")),
		TwitchProfile:        element.Get("twitch").OptStr("uri"),
		HitboxProfile:        element.Get("hitbox").OptStr("uri"),
		YoutubeProfile:       element.Get("youtube").OptStr("uri"),
		TwitterProfile:       element.Get("twitter").OptStr("uri"),
		SpeedRunsLiveProfile: element.Get("speedrunslive").OptStr("uri"),
		Icon:                 element.Get("assets").Get("icon").OptStr("uri"),
		Image:                element.Get("assets").Get("image").OptStr("uri"),
		client:               c,
	}
	user.self = Resolved(user)
	user.runs = runsOf(c, &RunsQuery{User: id})
	user.moderatedGames = gamesOf(c, &GamesQuery{Moderator: id})

	if pronouns := strings.TrimSpace(element.OptStr("pronouns")); pronouns != "" {
		user.Pronouns = strings.Split(pronouns, ", ")
	}

	user.personalBests = Defer(func(ctx context.Context) ([]*Record, error) {
		return user.fetchPersonalBests(ctx, nil)
	})

	return user, nil
}

// fetchPersonalBests parses the user's records so that the user's own player
// slot resolves to this user.
func (u *User) fetchPersonalBests(ctx context.Context, query *PersonalBestsQuery) ([]*Record, error) {
	data, err := fetchData(ctx, u.client, relationPath("users", u.ID, "personal-bests"), query.ToValues())
	if err != nil {
		return nil, err
	}

	refs := &runRefs{owner: u}

	return ParseList(data, func(n Node) (*Record, error) { return parseRecord(u.client, n, refs) })
}

// Runs returns the runs the user took part in.
func (u *User) Runs() *Sequence[*Run] {
	return u.runs
}

// ModeratedGames returns the games the user moderates.
func (u *User) ModeratedGames() *Sequence[*Game] {
	return u.moderatedGames
}

// PersonalBests returns the user's personal bests.
func (u *User) PersonalBests(ctx context.Context) ([]*Record, error) {
	return u.personalBests.Get(ctx)
}

// FilteredPersonalBests requests the user's personal bests narrowed by query.
func (u *User) FilteredPersonalBests(ctx context.Context, query *PersonalBestsQuery) ([]*Record, error) {
	return u.fetchPersonalBests(ctx, query)
}

// Key implements Keyed.
func (u *User) Key() string {
	return u.ID
}

// Equal compares users by ID.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}

	return u.ID == other.ID
}

// String returns the user's international name.
func (u *User) String() string {
	return u.Name
}
