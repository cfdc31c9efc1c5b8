package srcom

import (
	"fmt"
	"strings"
)

// ElementType is a kind of API element.
type ElementType string

const (
	ElementCategory     ElementType = "categories"
	ElementGame         ElementType = "games"
	ElementGuest        ElementType = "guests"
	ElementLevel        ElementType = "levels"
	ElementNotification ElementType = "notifications"
	ElementPlatform     ElementType = "platforms"
	ElementRegion       ElementType = "regions"
	ElementRun          ElementType = "runs"
	ElementSeries       ElementType = "series"
	ElementUser         ElementType = "users"
	ElementVariable     ElementType = "variables"
)

var elementTypes = map[ElementType]struct{}{
	ElementCategory:     {},
	ElementGame:         {},
	ElementGuest:        {},
	ElementLevel:        {},
	ElementNotification: {},
	ElementPlatform:     {},
	ElementRegion:       {},
	ElementRun:          {},
	ElementSeries:       {},
	ElementUser:         {},
	ElementVariable:     {},
}

// ElementDescription identifies an API element by type and ID.
type ElementDescription struct {
	Type ElementType `json:"type" yaml:"type"`
	ID   string      `json:"id"   yaml:"id"`
}

// String implements fmt.Stringer.
func (d *ElementDescription) String() string {
	return string(d.Type) + "/" + d.ID
}

// ParseElementURI maps an API URI such as ".../api/v1/games/abc123" onto
// the element it names.
func ParseElementURI(uri string) (*ElementDescription, error) {
	parts := strings.Split(strings.TrimRight(uri, "/"), "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownElementType, uri)
	}

	elementType := ElementType(parts[len(parts)-2])
	if _, ok := elementTypes[elementType]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownElementType, uri)
	}

	return &ElementDescription{Type: elementType, ID: parts[len(parts)-1]}, nil
}
