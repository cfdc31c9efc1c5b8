package srcom

import (
	"github.com/tidwall/sjson"
)

// Record is a run ranked on a leaderboard.
type Record struct {
	Rank int `json:"place" yaml:"place"`
	*Run
}

// recordEmbeds are relations the API inlines next to "run" instead of inside
// it when a records or personal-bests request asks for them.
var recordEmbeds = []string{"game", "category", "level", "players", "region", "platform"}

// ParseRecord parses a {place, run} element.
func ParseRecord(c Client, element Node) (*Record, error) {
	return parseRecord(c, element, nil)
}

func parseRecord(c Client, element Node, refs *runRefs) (*Record, error) {
	place, err := element.Int("place")
	if err != nil {
		return nil, err
	}

	runElement, err := element.Object("run")
	if err != nil {
		return nil, err
	}

	runElement, err = mergeRecordEmbeds(element, runElement)
	if err != nil {
		return nil, err
	}

	run, err := parseRun(c, runElement, refs)
	if err != nil {
		return nil, err
	}

	return &Record{Rank: place, Run: run}, nil
}

// mergeRecordEmbeds moves record-level embeds into the run element.
func mergeRecordEmbeds(record, run Node) (Node, error) {
	raw := run.Raw()
	merged := false

	for _, key := range recordEmbeds {
		value := record.Get(key)
		if !value.Exists() {
			continue
		}

		var err error

		raw, err = sjson.SetRaw(raw, key, value.Raw())
		if err != nil {
			return Node{}, err
		}

		merged = true
	}

	if !merged {
		return run, nil
	}

	node, err := ParseNode([]byte(raw))
	if err != nil {
		return Node{}, err
	}

	node.path = run.path

	return node, nil
}

// Equal compares records by run ID.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.Run.Equal(other.Run)
}
