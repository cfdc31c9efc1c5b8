package srcom

// Region is a game region, such as a release territory.
type Region struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`

	client Client
	games  *Sequence[*Game]
	runs   *Sequence[*Run]
}

var regionAbbreviations = map[string]string{
	"USA / NTSC": "NTSC-U",
	"EUR / PAL":  "PAL",
	"JPN / NTSC": "NTSC-J",
	"CHN / iQue": "CHN",
	"KOR / NTSC": "KOR",
}

// ParseRegion parses a region element.
func ParseRegion(c Client, element Node) (*Region, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	name, err := element.Str("name")
	if err != nil {
		return nil, err
	}

	return &Region{
		ID:     id,
		Name:   name,
		client: c,
		games:  gamesOf(c, &GamesQuery{Region: id}),
		runs:   runsOf(c, &RunsQuery{Region: id}),
	}, nil
}

// Abbreviation returns the short form of well-known region names, or the
// name itself.
func (r *Region) Abbreviation() string {
	if abbreviation, ok := regionAbbreviations[r.Name]; ok {
		return abbreviation
	}

	return r.Name
}

// Games returns the games released in the region.
func (r *Region) Games() *Sequence[*Game] {
	return r.games
}

// Runs returns the runs done on copies from the region.
func (r *Region) Runs() *Sequence[*Run] {
	return r.runs
}

// Key implements Keyed.
func (r *Region) Key() string {
	return r.ID
}

// Equal compares regions by ID.
func (r *Region) Equal(other *Region) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.ID == other.ID
}

// String returns the region's name.
func (r *Region) String() string {
	return r.Name
}
