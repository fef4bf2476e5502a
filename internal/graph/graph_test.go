package graph

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-expander/internal/document"
	"schema-expander/internal/expand"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

func add(t *testing.T, reg *registry.Registry, class pointer.Class, id, src string) {
	t.Helper()

	doc, err := document.Parse([]byte(src))
	require.NoError(t, err)

	doc.ID = id
	reg.Add(class, doc)
}

func expanded(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New()
	add(t, reg, pointer.ClassField, "radius", `{"type": "number"}`)
	add(t, reg, pointer.ClassModel, "Shape", `{"abstract": true, "properties": {"name": {"type": "string"}}}`)
	add(t, reg, pointer.ClassModel, "Circle", `{"$extend": "/model/Shape", "properties": {"radius": {"$extend": "/field/radius.json"}}}`)
	add(t, reg, pointer.ClassForm, "CircleForm", `{"$extend": ["/model/Circle", "/template/Card.wikitext"]}`)
	reg.AddLeaf(pointer.ClassTemplate, "Card", "{{Card}}")

	res := expand.New(expand.WithLogger(slog.New(slog.DiscardHandler))).Expand(reg)
	require.True(t, res.Diagnostics.IsValid(), res.Diagnostics.All())

	return res.Expanded
}

func TestBuild(t *testing.T) {
	g := Build(expanded(t))

	keys := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		keys = append(keys, n.Key)
	}

	assert.Equal(t, []string{"field/radius", "model/Circle", "model/Shape", "form/CircleForm", "template/Card"}, keys)

	shape, ok := g.Node("model/Shape")
	require.True(t, ok)
	assert.True(t, shape.Abstract)

	card, ok := g.Node("template/Card")
	require.True(t, ok)
	assert.True(t, card.Leaf)

	assert.Equal(t, []string{"field/radius", "model/Shape"}, g.Dependencies("model/Circle"))
	assert.Equal(t, []string{"form/CircleForm", "model/Circle"}, g.Dependents("field/radius"))
	assert.Contains(t, g.Edges, Edge{From: "model/Circle", To: "field/radius", Property: "radius"})
	assert.Contains(t, g.Edges, Edge{From: "form/CircleForm", To: "template/Card"})
}

func TestOrder(t *testing.T) {
	g := Build(expanded(t))

	order, err := g.Order()
	require.NoError(t, err)
	require.Len(t, order, len(g.Nodes))

	pos := make(map[string]int, len(order))
	for i, k := range order {
		pos[k] = i
	}

	for _, e := range g.Edges {
		assert.Less(t, pos[e.To], pos[e.From], "%s must precede %s", e.To, e.From)
	}
}

func TestOrderCycle(t *testing.T) {
	g := &Graph{index: map[string]int{}}
	g.addNode(Node{Key: "field/a"})
	g.addNode(Node{Key: "field/b"})
	g.Edges = []Edge{{From: "field/a", To: "field/b"}, {From: "field/b", To: "field/a"}}

	_, err := g.Order()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestWriteDOT(t *testing.T) {
	g := &Graph{index: map[string]int{}}
	g.addNode(Node{Key: "field/radius", Class: pointer.ClassField, Path: "/field/radius.json"})
	g.addNode(Node{Key: "model/Circle", Class: pointer.ClassModel, Path: "/model/Circle.json", Abstract: true})
	g.Edges = []Edge{{From: "model/Circle", To: "field/radius", Property: "radius"}}

	var buf bytes.Buffer
	require.NoError(t, g.WriteDOT(&buf))

	expected := `digraph schemas {
  rankdir=LR;
  node [shape=box, style=filled];
  "field/radius" [label="/field/radius.json", fillcolor=lightblue];
  "model/Circle" [label="/model/Circle.json", fillcolor=palegreen, style="filled,dashed"];
  "model/Circle" -> "field/radius" [label="radius"];
}
`
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, "model/Circle -> field/radius (radius)\n", g.String())
}
