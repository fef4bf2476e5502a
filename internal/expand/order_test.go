package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schema-expander/internal/document"
)

func props(names ...string) *document.OrderedMap[*document.Document] {
	m := document.NewOrderedMap[*document.Document]()
	for _, n := range names {
		m.Set(n, &document.Document{})
	}

	return m
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name     string
		props    []string
		order    []string
		expected []string
		missing  []string
	}{
		{"prefix", []string{"c", "a", "b", "d"}, []string{"a", "b"}, []string{"a", "b", "c", "d"}, nil},
		{"full", []string{"a", "b"}, []string{"b", "a"}, []string{"b", "a"}, nil},
		{"empty order", []string{"b", "a"}, nil, []string{"b", "a"}, nil},
		{"stale names", []string{"a", "b"}, []string{"x", "b", "y"}, []string{"b", "a"}, []string{"x", "y"}},
		{"repeated names", []string{"a", "b", "c"}, []string{"c", "c", "a"}, []string{"c", "a", "b"}, nil},
		{"no properties", nil, []string{"a"}, nil, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := props(tt.props...)

			out, missing := Reorder(in, tt.order)
			assert.Equal(t, tt.expected, out.Keys())
			assert.Equal(t, tt.missing, missing)
			assert.Equal(t, tt.props, in.Keys(), "input must not change")
		})
	}
}

func TestReorderKeepsValues(t *testing.T) {
	in := props("a", "b")
	a, _ := in.Get("a")

	out, _ := Reorder(in, []string{"b"})

	got, ok := out.Get("a")
	assert.True(t, ok)
	assert.Same(t, a, got)
}
