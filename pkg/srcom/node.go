package srcom

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Kind classifies a Node.
type Kind int

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ShapeError reports a response that did not have the shape a parser required.
type ShapeError struct {
	Path string
	Want Kind
	Got  Kind
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected JSON at %s: want %s, got %s", e.Path, e.Want, e.Got)
}

// Field is one key/value pair of an object, in document order.
type Field struct {
	Key   string
	Value Node
}

// Node is a read-only view of a parsed JSON value. Keys are case-preserving
// and object fields keep document order.
type Node struct {
	res  gjson.Result
	path string
}

// ParseNode parses a JSON document.
func ParseNode(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return Node{}, ErrInvalidJSON
	}

	return Node{res: gjson.ParseBytes(data), path: "$"}, nil
}

// MustParseNode parses a JSON document and panics on invalid input. Intended
// for fixtures.
func MustParseNode(data string) Node {
	node, err := ParseNode([]byte(data))
	if err != nil {
		panic(err)
	}

	return node
}

// Kind returns the node's kind.
func (n Node) Kind() Kind {
	if !n.res.Exists() {
		return KindMissing
	}

	switch n.res.Type {
	case gjson.Null:
		return KindNull
	case gjson.False, gjson.True:
		return KindBool
	case gjson.Number:
		return KindNumber
	case gjson.String:
		return KindString
	case gjson.JSON:
		if n.res.IsArray() {
			return KindArray
		}

		return KindObject
	default:
		return KindMissing
	}
}

// Path returns the location of the node inside its document.
func (n Node) Path() string {
	return n.path
}

// Raw returns the node's JSON text.
func (n Node) Raw() string {
	return n.res.Raw
}

// Exists reports whether the node is present (it may still be null).
func (n Node) Exists() bool {
	return n.res.Exists()
}

// IsNull reports whether the node is missing or JSON null.
func (n Node) IsNull() bool {
	kind := n.Kind()

	return kind == KindMissing || kind == KindNull
}

// IsObject reports whether the node is an object.
func (n Node) IsObject() bool {
	return n.Kind() == KindObject
}

// IsArray reports whether the node is an array.
func (n Node) IsArray() bool {
	return n.Kind() == KindArray
}

// IsString reports whether the node is a string.
func (n Node) IsString() bool {
	return n.Kind() == KindString
}

// Get returns the member named key. Keys are matched exactly, so names
// containing path syntax such as "." or "#" are safe.
func (n Node) Get(key string) Node {
	child := Node{path: n.path + "." + key}

	if n.Kind() != KindObject {
		return child
	}

	n.res.ForEach(func(k, value gjson.Result) bool {
		if k.Str == key {
			child.res = value

			return false
		}

		return true
	})

	return child
}

// Has reports whether the object has a member named key, even if it is null.
func (n Node) Has(key string) bool {
	return n.Get(key).Exists()
}

// Array returns the elements of an array node, or nil for any other kind.
func (n Node) Array() []Node {
	if n.Kind() != KindArray {
		return nil
	}

	var items []Node

	index := 0

	n.res.ForEach(func(_, value gjson.Result) bool {
		items = append(items, Node{res: value, path: n.path + "[" + strconv.Itoa(index) + "]"})
		index++

		return true
	})

	return items
}

// Fields returns the members of an object node in document order, or nil for
// any other kind.
func (n Node) Fields() []Field {
	if n.Kind() != KindObject {
		return nil
	}

	var fields []Field

	n.res.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, Field{Key: key.Str, Value: Node{res: value, path: n.path + "." + key.Str}})

		return true
	})

	return fields
}

// AsString returns the string value, or "" for non-strings.
func (n Node) AsString() string {
	if n.Kind() != KindString {
		return ""
	}

	return n.res.Str
}

// AsFloat returns the numeric value, or 0 for non-numbers.
func (n Node) AsFloat() float64 {
	if n.Kind() != KindNumber {
		return 0
	}

	return n.res.Num
}

// AsBool returns the boolean value, or false for non-booleans.
func (n Node) AsBool() bool {
	return n.Kind() == KindBool && n.res.Type == gjson.True
}

func (n Node) expect(want Kind) error {
	if got := n.Kind(); got != want {
		return &ShapeError{Path: n.path, Want: want, Got: got}
	}

	return nil
}

// Str returns the required string member key.
func (n Node) Str(key string) (string, error) {
	child := n.Get(key)

	err := child.expect(KindString)
	if err != nil {
		return "", err
	}

	return child.res.Str, nil
}

// OptStr returns the string member key, or "" when it is missing, null or
// not a string.
func (n Node) OptStr(key string) string {
	return n.Get(key).AsString()
}

// Bool returns the required boolean member key.
func (n Node) Bool(key string) (bool, error) {
	child := n.Get(key)

	err := child.expect(KindBool)
	if err != nil {
		return false, err
	}

	return child.AsBool(), nil
}

// OptBool returns the boolean member key, or false when absent.
func (n Node) OptBool(key string) bool {
	return n.Get(key).AsBool()
}

// Float returns the required numeric member key.
func (n Node) Float(key string) (float64, error) {
	child := n.Get(key)

	err := child.expect(KindNumber)
	if err != nil {
		return 0, err
	}

	return child.res.Num, nil
}

// Int returns the required integral member key.
func (n Node) Int(key string) (int, error) {
	value, err := n.Float(key)
	if err != nil {
		return 0, err
	}

	return int(math.Round(value)), nil
}

// OptInt returns the integral member key and whether it was a number.
func (n Node) OptInt(key string) (int, bool) {
	child := n.Get(key)
	if child.Kind() != KindNumber {
		return 0, false
	}

	return int(math.Round(child.res.Num)), true
}

// Object returns the required object member key.
func (n Node) Object(key string) (Node, error) {
	child := n.Get(key)

	err := child.expect(KindObject)
	if err != nil {
		return Node{}, err
	}

	return child, nil
}

// OptTime parses the member key as an RFC 3339 timestamp or a calendar date.
// Missing, null, empty or malformed values yield nil.
func (n Node) OptTime(key string) *time.Time {
	value := n.OptStr(key)
	if value == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			parsed = parsed.UTC()

			return &parsed
		}
	}

	return nil
}
