package srcom

// Guest is an unregistered runner credited by name.
type Guest struct {
	Name    string `json:"name"              yaml:"name"`
	WebLink string `json:"weblink,omitempty" yaml:"weblink,omitempty"`

	client Client
	runs   *Sequence[*Run]
}

// ParseGuest parses a guest element.
func ParseGuest(c Client, element Node) (*Guest, error) {
	name, err := element.Str("name")
	if err != nil {
		return nil, err
	}

	guest := &Guest{Name: name, WebLink: element.OptStr("weblink"), client: c}
	guest.runs = runsOf(c, &RunsQuery{Guest: name})

	return guest, nil
}

// Runs returns the runs the guest took part in.
func (g *Guest) Runs() *Sequence[*Run] {
	return g.runs
}

// Key implements Keyed.
func (g *Guest) Key() string {
	return g.Name
}

// Equal compares guests by name.
func (g *Guest) Equal(other *Guest) bool {
	if g == nil || other == nil {
		return g == other
	}

	return g.Name == other.Name
}

// String returns the guest's name.
func (g *Guest) String() string {
	return g.Name
}
