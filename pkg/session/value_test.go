package session_test

import (
	"math"
	"net/netip"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestValueOf(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("3f0a2c9e-7a64-4f5e-9a43-1b1c7e0f9d11")

	tests := []struct {
		name string
		in   any
		want session.Value
	}{
		{"string", "hello", session.String("hello")},
		{"empty string", "", session.String("")},
		{"int", 42, session.Int(42)},
		{"negative int8", int8(-8), session.Int(-8)},
		{"int64 max", int64(math.MaxInt64), session.Int(math.MaxInt64)},
		{"uint32", uint32(7), session.Int(7)},
		{"uint64 fits", uint64(math.MaxInt64), session.Int(math.MaxInt64)},
		{"bool", true, session.Bool(true)},
		{"uuid as text", id, session.String(id.String())},
		{"netip as text", netip.MustParseAddr("10.0.0.1"), session.String("10.0.0.1")},
		{"string slice", []string{"a", "b"}, session.List(session.String("a"), session.String("b"))},
		{"any slice", []any{"a", 1, false}, session.List(session.String("a"), session.Int(1), session.Bool(false))},
		{"string map", map[string]string{"k": "v"}, session.Map(map[string]session.Value{"k": session.String("v")})},
		{
			"nested map",
			map[string]any{"roles": []any{"admin"}, "level": 3},
			session.Map(map[string]session.Value{
				"roles": session.List(session.String("admin")),
				"level": session.Int(3),
			}),
		},
		{"value passthrough", session.Bool(false), session.Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := session.ValueOf(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want.Interface(), got.Interface())
		})
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"float", 1.5},
		{"float32", float32(2)},
		{"uint64 overflow", uint64(math.MaxUint64)},
		{"struct", struct{ A int }{A: 1}},
		{"pointer", new(int)},
		{"invalid utf8", string([]byte{0xff, 0xfe})},
		{"zero value", session.Value{}},
		{"nested float", map[string]any{"ok": "x", "bad": 3.14}},
		{"list with nil", []any{"x", nil}},
		{"int slice", []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := session.ValueOf(tt.in)
			assert.ErrorIs(t, err, session.ErrUnsupportedValue)
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	s := session.String("x")
	str, ok := s.Str()
	assert.True(t, ok)
	assert.Equal(t, "x", str)
	_, ok = s.Int()
	assert.False(t, ok)
	assert.Equal(t, session.KindString, s.Kind())
	assert.Equal(t, "string", s.Kind().String())

	n, ok := session.Int(-5).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(-5), n)

	b, ok := session.Bool(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	list := session.List(session.Int(1))
	items, ok := list.List()
	require.True(t, ok)
	items[0] = session.Int(99)
	again, _ := list.List()
	assert.True(t, session.Int(1).Equal(again[0]), "List returns a copy")

	m := session.Map(map[string]session.Value{"a": session.Bool(true)})
	dict, ok := m.Map()
	require.True(t, ok)
	delete(dict, "a")
	again2, _ := m.Map()
	assert.Len(t, again2, 1, "Map returns a copy")

	assert.Equal(t, map[string]any{"a": true}, m.Interface())
	assert.Equal(t, []any{int64(1)}, list.Interface())
	assert.Nil(t, session.Value{}.Interface())
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, session.List().Equal(session.List()))
	assert.False(t, session.Int(1).Equal(session.String("1")))
	assert.False(t, session.List(session.Int(1)).Equal(session.List(session.Int(2))))
	assert.True(t, session.Map(nil).Equal(session.Map(map[string]session.Value{})))
	assert.False(t,
		session.Map(map[string]session.Value{"a": session.Int(1)}).
			Equal(session.Map(map[string]session.Value{"b": session.Int(1)})),
	)
}
