package srcom_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

func TestParseNode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := srcom.ParseNode([]byte(`{"data":`))
	require.ErrorIs(t, err, srcom.ErrInvalidJSON)

	assert.Panics(t, func() { srcom.MustParseNode("nope") })
}

func TestNode_Kinds(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"s":"x","n":1.5,"b":true,"z":null,"a":[1],"o":{}}`)

	tests := []struct {
		key  string
		want srcom.Kind
	}{
		{key: "s", want: srcom.KindString},
		{key: "n", want: srcom.KindNumber},
		{key: "b", want: srcom.KindBool},
		{key: "z", want: srcom.KindNull},
		{key: "a", want: srcom.KindArray},
		{key: "o", want: srcom.KindObject},
		{key: "missing", want: srcom.KindMissing},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, doc.Get(tt.key).Kind())
		})
	}

	assert.True(t, doc.Has("z"))
	assert.False(t, doc.Has("missing"))
	assert.True(t, doc.Get("z").IsNull())
	assert.Equal(t, "object", srcom.KindObject.String())
}

func TestNode_KeysAreLiteral(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"a.b":"dotted","a":{"b":"nested"},"#":"hash"}`)

	assert.Equal(t, "dotted", doc.OptStr("a.b"))
	assert.Equal(t, "nested", doc.Get("a").OptStr("b"))
	assert.Equal(t, "hash", doc.OptStr("#"))
}

func TestNode_FieldsKeepDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"zeta":1,"alpha":2,"Mid":3}`)

	var keys []string
	for _, field := range doc.Fields() {
		keys = append(keys, field.Key)
	}

	assert.Equal(t, []string{"zeta", "alpha", "Mid"}, keys)
	assert.Nil(t, doc.Get("zeta").Fields())
}

func TestNode_RequiredAccessors(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"id":"abc","count":3,"ok":false,"names":{"international":"x"},"wrong":7}`)

	id, err := doc.Str("id")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	count, err := doc.Int("count")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	ok, err := doc.Bool("ok")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := doc.Object("names")
	require.NoError(t, err)
	assert.Equal(t, "$.names", names.Path())

	_, err = doc.Str("wrong")

	var shapeErr *srcom.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "$.wrong", shapeErr.Path)
	assert.Equal(t, srcom.KindString, shapeErr.Want)
	assert.Equal(t, srcom.KindNumber, shapeErr.Got)
	assert.Contains(t, err.Error(), "want string, got number")

	_, err = doc.Float("missing")
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, srcom.KindMissing, shapeErr.Got)
}

func TestNode_OptionalAccessors(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"s":"x","n":null,"i":41.6,"b":true}`)

	assert.Equal(t, "x", doc.OptStr("s"))
	assert.Empty(t, doc.OptStr("n"))
	assert.Empty(t, doc.OptStr("i"))
	assert.True(t, doc.OptBool("b"))
	assert.False(t, doc.OptBool("s"))

	i, ok := doc.OptInt("i")
	assert.True(t, ok)
	assert.Equal(t, 42, i)

	_, ok = doc.OptInt("n")
	assert.False(t, ok)
}

func TestNode_OptTime(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"stamp":"2015-03-04T12:30:00+01:00","day":"2015-03-04","bad":"yesterday","empty":"","none":null}`)

	stamp := doc.OptTime("stamp")
	require.NotNil(t, stamp)
	assert.Equal(t, time.Date(2015, 3, 4, 11, 30, 0, 0, time.UTC), *stamp)

	day := doc.OptTime("day")
	require.NotNil(t, day)
	assert.Equal(t, time.Date(2015, 3, 4, 0, 0, 0, 0, time.UTC), *day)

	for _, key := range []string{"bad", "empty", "none", "missing"} {
		assert.Nil(t, doc.OptTime(key), key)
	}
}

func TestNode_ArrayPaths(t *testing.T) {
	t.Parallel()

	doc := srcom.MustParseNode(`{"data":[{"id":"a"},{"id":"b"}]}`)

	items := doc.Get("data").Array()
	require.Len(t, items, 2)
	assert.Equal(t, "$.data[1]", items[1].Path())
	assert.JSONEq(t, `{"id":"b"}`, items[1].Raw())
	assert.Nil(t, doc.Array())
}
