package srcom

// Platform is a console or system games are run on.
type Platform struct {
	ID            string `json:"id"       yaml:"id"`
	Name          string `json:"name"     yaml:"name"`
	YearOfRelease int    `json:"released" yaml:"released"`

	client Client
	games  *Sequence[*Game]
	runs   *Sequence[*Run]
}

// ParsePlatform parses a platform element.
func ParsePlatform(c Client, element Node) (*Platform, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	name, err := element.Str("name")
	if err != nil {
		return nil, err
	}

	platform := &Platform{ID: id, Name: name, client: c}
	platform.YearOfRelease, _ = element.OptInt("released")
	platform.games = gamesOf(c, &GamesQuery{Platform: id})
	platform.runs = runsOf(c, &RunsQuery{Platform: id})

	return platform, nil
}

// Games returns the games available on the platform.
func (p *Platform) Games() *Sequence[*Game] {
	return p.games
}

// Runs returns the runs done on the platform.
func (p *Platform) Runs() *Sequence[*Run] {
	return p.runs
}

// Key implements Keyed.
func (p *Platform) Key() string {
	return p.ID
}

// Equal compares platforms by ID.
func (p *Platform) Equal(other *Platform) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.ID == other.ID
}

// String returns the platform's name.
func (p *Platform) String() string {
	return p.Name
}
