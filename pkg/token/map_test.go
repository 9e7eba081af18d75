package token_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/token"
)

func TestMap_PreservesOrder(t *testing.T) {
	t.Parallel()

	m := token.NewMap().
		SetString("z", "last-letter").
		Set("a", token.Int(1)).
		Set("m", token.Bool(false))
	m.Set("z", token.String("replaced"))

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"replaced","a":1,"m":false}`, string(b))

	m.Delete("a")
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.Has("a"))
	assert.Equal(t, []string{"z", "m"}, m.Keys())
}

func TestMap_NilSafe(t *testing.T) {
	t.Parallel()

	var m *token.Map
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Nil(t, m.Keys())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestMap_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var m token.Map
	require.NoError(t, json.Unmarshal([]byte(`{"b":{"y":1,"x":2},"a":[1,"two",null,true],"big":12345678901234567890}`), &m))
	assert.Equal(t, []string{"b", "a", "big"}, m.Keys())

	nested, ok := m.Get("b")
	require.True(t, ok)
	inner, ok := nested.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"y", "x"}, inner.Keys())

	list, ok := m.Get("a")
	require.True(t, ok)
	items, ok := list.AsList()
	require.True(t, ok)
	require.Len(t, items, 4)
	assert.Equal(t, token.KindString, items[1].Kind())
	assert.True(t, items[2].IsNull())

	big, _ := m.Get("big")
	out, err := json.Marshal(big)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890", string(out), "number literals are kept verbatim")

	tests := []struct {
		name  string
		input string
	}{
		{"duplicate key", `{"a":1,"a":2}`},
		{"nested duplicate", `{"a":{"b":1,"b":1}}`},
		{"array", `[1,2]`},
		{"string", `"x"`},
		{"trailing object", `{"a":1}{}`},
		{"truncated", `{"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m token.Map
			assert.Error(t, json.Unmarshal([]byte(tt.input), &m))
		})
	}
}

func TestMapOf(t *testing.T) {
	t.Parallel()

	m, err := token.MapOf(map[string]any{
		"b":      "two",
		"a":      1,
		"nested": map[string]any{"ok": true},
		"list":   []string{"x", "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "list", "nested"}, m.Keys())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":"two","list":["x","y"],"nested":{"ok":true}}`, string(b))

	_, err = token.MapOf(map[string]any{"ch": make(chan int)})
	require.ErrorIs(t, err, token.ErrInvalidParameter)

	_, err = token.MapOf(map[string]any{"nan": math.NaN()})
	require.ErrorIs(t, err, token.ErrInvalidParameter)
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	n, ok := token.Int(-7).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(-7), n)

	_, ok = token.Float(1.5).AsInt()
	assert.False(t, ok)
	f, ok := token.Float(1.5).AsFloat()
	require.True(t, ok)
	assert.InDelta(t, 1.5, f, 0)

	assert.True(t, token.Float(math.Inf(1)).IsNull())
	assert.True(t, token.Number("nope").IsNull())

	_, ok = token.String("1").AsInt()
	assert.False(t, ok)

	b, ok := token.Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	src := token.NewMap().SetString("k", "v")
	obj := token.Object(src)
	src.SetString("k", "changed")
	got, _ := obj.AsMap()
	s, _ := got.GetString("k")
	assert.Equal(t, "v", s, "Object keeps its own copy")

	assert.True(t, token.List(token.Int(1), token.String("a")).Equal(token.List(token.Int(1), token.String("a"))))
	assert.False(t, token.Int(1).Equal(token.String("1")))

	assert.Equal(t, map[string]any{"k": "changed"}, src.Interface())
}
