package srcom

import (
	"context"
	"time"
)

// Series is a group of related games.
type Series struct {
	ID           string       `json:"id"                      yaml:"id"`
	Name         string       `json:"name"                    yaml:"name"`
	JapaneseName string       `json:"japanese_name,omitempty" yaml:"japanese_name,omitempty"`
	Abbreviation string       `json:"abbreviation"            yaml:"abbreviation"`
	WebLink      string       `json:"weblink"                 yaml:"weblink"`
	Created      *time.Time   `json:"created,omitempty"       yaml:"created,omitempty"`
	Assets       Assets       `json:"assets"                  yaml:"assets"`
	Moderators   []*Moderator `json:"moderators"              yaml:"moderators"`

	client     Client
	self       *Deferred[*Series]
	moderators moderatorSet
}

// ParseSeries parses a series element.
func ParseSeries(c Client, element Node) (*Series, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	names := element.Get("names")

	name, err := names.Str("international")
	if err != nil {
		return nil, err
	}

	series := &Series{
		ID:           id,
		Name:         name,
		JapaneseName: names.OptStr("japanese"),
		Abbreviation: element.OptStr("abbreviation"),
		WebLink:      element.OptStr("weblink"),
		Created:      element.OptTime("created"),
		Assets:       parseAssets(element.Get("assets")),
		client:       c,
	}
	series.self = Resolved(series)

	series.moderators, err = parseModerators(c, element, func(ctx context.Context) ([]*User, error) {
		full, err := c.Series().Get(ctx, series.ID, &SeriesEmbeds{Moderators: true})
		if err != nil {
			return nil, err
		}

		return full.ModeratorUsers(ctx)
	})
	if err != nil {
		return nil, err
	}

	series.Moderators = series.moderators.moderators

	return series, nil
}

// ModeratorUsers returns the moderating users.
func (s *Series) ModeratorUsers(ctx context.Context) ([]*User, error) {
	return s.moderators.users.Get(ctx)
}

// Games returns the games of the series. Each game's series is this series.
func (s *Series) Games(query *GamesQuery) *Sequence[*Game] {
	c := s.client

	return NewSequence(c.Request, c.Endpoint(relationPath("series", s.ID, "games"), query.ToValues()), func(n Node) (*Game, error) {
		return parseGame(c, n, s.self, nil)
	})
}

// Key implements Keyed.
func (s *Series) Key() string {
	return s.ID
}

// Equal compares series by ID.
func (s *Series) Equal(other *Series) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.ID == other.ID
}

// String returns the series' name.
func (s *Series) String() string {
	return s.Name
}
