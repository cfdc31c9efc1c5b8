package srcom

import (
	"context"
	"fmt"
)

// VariableScopeType is where a variable applies.
type VariableScopeType string

const (
	ScopeTypeGlobal      VariableScopeType = "global"
	ScopeTypeFullGame    VariableScopeType = "full-game"
	ScopeTypeAllLevels   VariableScopeType = "all-levels"
	ScopeTypeSingleLevel VariableScopeType = "single-level"
)

// VariableScope is where a variable applies; LevelID is set for single-level
// variables.
type VariableScope struct {
	Type    VariableScopeType `json:"type"               yaml:"type"`
	LevelID string            `json:"level,omitempty"    yaml:"level,omitempty"`
}

// Variable is an extra dimension of a leaderboard, such as a difficulty.
type Variable struct {
	ID          string           `json:"id"                    yaml:"id"`
	Name        string           `json:"name"                  yaml:"name"`
	Scope       VariableScope    `json:"scope"                 yaml:"scope"`
	Mandatory   bool             `json:"mandatory"             yaml:"mandatory"`
	UserDefined bool             `json:"user_defined"          yaml:"user_defined"`
	Obsoletes   bool             `json:"obsoletes"             yaml:"obsoletes"`
	Values      []*VariableValue `json:"values"                yaml:"values"`
	Default     *VariableValue   `json:"default,omitempty"     yaml:"default,omitempty"`
	GameID      string           `json:"game_id,omitempty"     yaml:"game_id,omitempty"`
	CategoryID  string           `json:"category_id,omitempty" yaml:"category_id,omitempty"`

	client   Client
	self     *Deferred[*Variable]
	game     *Deferred[*Game]
	category *Deferred[*Category]
	level    *Deferred[*Level]
}

// ParseVariable parses a variable element.
func ParseVariable(c Client, element Node) (*Variable, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	name, err := element.Str("name")
	if err != nil {
		return nil, err
	}

	scope := element.Get("scope")

	variable := &Variable{
		ID:   id,
		Name: name,
		Scope: VariableScope{
			Type:    VariableScopeType(scope.OptStr("type")),
			LevelID: scope.OptStr("level"),
		},
		Mandatory:   element.OptBool("mandatory"),
		UserDefined: element.OptBool("user-defined"),
		Obsoletes:   element.OptBool("obsoletes"),
		CategoryID:  element.OptStr("category"),
		client:      c,
	}
	variable.self = Resolved(variable)

	values := element.Get("values")

	for _, choice := range values.Get("choices").Fields() {
		variable.Values = append(variable.Values, &VariableValue{
			ID:         choice.Key,
			VariableID: id,
			variable:   variable.self,
			label:      Resolved(choice.Value.AsString()),
		})
	}

	if defaultID := values.OptStr("default"); defaultID != "" {
		variable.Default = variable.Value(defaultID)
	}

	variable.wireLinks(element)

	return variable, nil
}

func (v *Variable) wireLinks(element Node) {
	c := v.client

	if uri, ok := findLink(element, "game"); ok {
		v.GameID = linkID(uri)
		v.game = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, v.GameID, nil)
		})
	} else {
		v.game = Absent[*Game]()
	}

	if v.CategoryID != "" {
		v.category = Defer(func(ctx context.Context) (*Category, error) {
			return c.Categories().Get(ctx, v.CategoryID, nil)
		})
	} else {
		v.category = Absent[*Category]()
	}

	if v.Scope.LevelID != "" {
		v.level = Defer(func(ctx context.Context) (*Level, error) {
			return c.Levels().Get(ctx, v.Scope.LevelID, nil)
		})
	} else {
		v.level = Absent[*Level]()
	}
}

// Value returns the predefined value with the given ID, or nil.
func (v *Variable) Value(id string) *VariableValue {
	for _, value := range v.Values {
		if value.ID == id {
			return value
		}
	}

	return nil
}

// CreateCustomValue builds a user-defined value for run submission.
func (v *Variable) CreateCustomValue(value string) (*VariableValue, error) {
	if !v.UserDefined {
		return nil, fmt.Errorf("%w: %s", ErrCustomValueNotSupported, v.Name)
	}

	return &VariableValue{
		VariableID: v.ID,
		custom:     value,
		variable:   v.self,
		label:      Resolved(value),
	}, nil
}

// Game returns the game the variable belongs to, or nil.
func (v *Variable) Game(ctx context.Context) (*Game, error) {
	return v.game.Get(ctx)
}

// Category returns the category the variable is restricted to, or nil.
func (v *Variable) Category(ctx context.Context) (*Category, error) {
	return v.category.Get(ctx)
}

// Level returns the level of a single-level variable, or nil.
func (v *Variable) Level(ctx context.Context) (*Level, error) {
	return v.level.Get(ctx)
}

// Key implements Keyed.
func (v *Variable) Key() string {
	return v.ID
}

// Equal compares variables by ID.
func (v *Variable) Equal(other *Variable) bool {
	if v == nil || other == nil {
		return v == other
	}

	return v.ID == other.ID
}

// String returns the variable's name.
func (v *Variable) String() string {
	return v.Name
}

// VariableValue is a value of a variable: one of its predefined choices, or
// a custom value of a user-defined variable (which has no ID).
type VariableValue struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	VariableID string `json:"variable_id"  yaml:"variable_id"`

	custom   string
	variable *Deferred[*Variable]
	label    *Deferred[string]
}

// parseValueDescriptors parses a {variableID: valueID} map. Variables are
// looked up in known when it is set and fetched individually otherwise.
func parseValueDescriptors(c Client, values Node, known *Deferred[[]*Variable]) []*VariableValue {
	var out []*VariableValue

	for _, field := range values.Fields() {
		value := &VariableValue{ID: field.Value.AsString(), VariableID: field.Key}
		variableID := field.Key

		value.variable = Defer(func(ctx context.Context) (*Variable, error) {
			if known != nil {
				variables, err := known.Get(ctx)
				if err != nil {
					return nil, err
				}

				for _, variable := range variables {
					if variable.ID == variableID {
						return variable, nil
					}
				}
			}

			return c.Variables().Get(ctx, variableID)
		})

		value.label = Defer(func(ctx context.Context) (string, error) {
			variable, err := value.variable.Get(ctx)
			if err != nil || variable == nil {
				return "", err
			}

			if choice := variable.Value(value.ID); choice != nil {
				return choice.Value(ctx)
			}

			return "", nil
		})

		out = append(out, value)
	}

	return out
}

// IsCustom reports whether this is a user-defined value.
func (v *VariableValue) IsCustom() bool {
	return v.ID == ""
}

// Variable returns the variable the value belongs to.
func (v *VariableValue) Variable(ctx context.Context) (*Variable, error) {
	return v.variable.Get(ctx)
}

// Value returns the value's label.
func (v *VariableValue) Value(ctx context.Context) (string, error) {
	return v.label.Get(ctx)
}

// Name returns the name of the variable the value belongs to.
func (v *VariableValue) Name(ctx context.Context) (string, error) {
	variable, err := v.Variable(ctx)
	if err != nil || variable == nil {
		return "", err
	}

	return variable.Name, nil
}

// Key implements Keyed.
func (v *VariableValue) Key() string {
	return v.VariableID + "=" + v.ID
}

// Equal compares values by variable and value ID.
func (v *VariableValue) Equal(other *VariableValue) bool {
	if v == nil || other == nil {
		return v == other
	}

	return v.VariableID == other.VariableID && v.ID == other.ID && v.custom == other.custom
}
