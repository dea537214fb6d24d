package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	Left  any
	Right any
	note  string
}

func TestEqual(t *testing.T) {
	shared := &pair{Left: 1}

	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 1, false},
		{"nil vs nil slice", nil, []int(nil), true},
		{"ints", 3, 3, true},
		{"int vs int64", 3, int64(3), true},
		{"int vs float", 3, 3.0, true},
		{"int vs uint", 3, uint(3), true},
		{"negative vs uint", -1, uint(1), false},
		{"int vs string", 3, "3", false},
		{"strings", "hey", "hey", true},
		{"bools", true, false, false},
		{"slices in order", []any{1, "a"}, []any{1, "a"}, true},
		{"slices reordered", []any{1, "a"}, []any{"a", 1}, false},
		{"slices length", []int{1}, []int{1, 2}, false},
		{"slice types", []int{1}, []int64{1}, false},
		{"maps", map[string]any{"a": 1, "b": []int{2}}, map[string]any{"b": []int{2}, "a": 1}, true},
		{"maps key set", map[string]int{"a": 1}, map[string]int{"b": 1}, false},
		{"maps size", map[string]int{"a": 1}, map[string]int{"a": 1, "b": 2}, false},
		{"structs", pair{Left: 1, Right: "x"}, pair{Left: 1, Right: "x"}, true},
		{"structs unexported", pair{note: "a"}, pair{note: "b"}, false},
		{"pointers identical", shared, shared, true},
		{"pointers deep", &pair{Left: 1}, &pair{Left: 1}, true},
		{"pointer vs nil", &pair{}, (*pair)(nil), false},
		{"matcher at top", Any, "anything", true},
		{"matcher nested", []any{1, TypeOf("string")}, []any{1, "x"}, true},
		{"matcher nested miss", map[string]any{"a": Truthy}, map[string]any{"a": 0}, false},
		{"matcher in struct", pair{Left: Defined}, pair{Left: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.expected, tt.actual))
		})
	}
}

func TestEqual_Cycle(t *testing.T) {
	type node struct {
		Next *node
		V    int
	}
	a := &node{V: 1}
	a.Next = a
	b := &node{V: 1}
	b.Next = b

	assert.True(t, Equal(a, b))
}

func TestEqual_SelfReferentialMap(t *testing.T) {
	m := map[string]any{"v": 1}
	m["self"] = m
	other := map[string]any{"v": 1}
	other["self"] = other
	different := map[string]any{"v": 2}
	different["self"] = different

	assert.True(t, Equal(m, m))
	assert.True(t, Equal(m, other))
	assert.False(t, Equal(m, different))
	assert.True(t, Matches(m, other))
	assert.False(t, Matches(m, different))
}

func TestEqual_SelfReferentialSlice(t *testing.T) {
	s := []any{1, nil}
	s[1] = s
	other := []any{1, nil}
	other[1] = other
	different := []any{2, nil}
	different[1] = different

	assert.True(t, Equal(s, s))
	assert.True(t, Equal(s, other))
	assert.False(t, Equal(s, different))
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"equal values", "foo", "foo", true},
		{"substring", "oo", "foo", true},
		{"object vs slice", map[string]any{"foo": 1}, []int{1, 3}, false},
		{"slice vs object", []int{1, 3}, map[string]any{"foo": 1}, false},
		{"nested object", map[string]any{"a": map[string]any{"b": 1}}, map[string]any{"a": map[string]any{"b": 1, "c": 2}}, true},
		{"struct subset", struct{ Left any }{Left: 1}, pair{Left: 1, Right: 2}, true},
		{"struct missing field", struct{ Other int }{Other: 1}, pair{}, false},
		{"numbers", 4, 4.0, true},
		{"matcher", Falsy, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.expected, tt.actual))
		})
	}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name     string
		expected []any
		actual   []any
		exact    bool
		want     bool
	}{
		{"prefix match", []any{1, 2}, []any{1, 2, 3}, false, true},
		{"exact rejects extra", []any{1, 2}, []any{1, 2, 3}, true, false},
		{"exact equal", []any{1, 2}, []any{1, 2}, true, true},
		{"too many expected", []any{1, 2, 3}, []any{1, 2}, false, false},
		{"mismatch", []any{4, 3}, []any{1, 3}, false, false},
		{"empty expected", nil, []any{1}, false, true},
		{"empty both exact", nil, nil, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want,
				Args(tt.expected, tt.actual, tt.exact, Equal))
		})
	}
}
