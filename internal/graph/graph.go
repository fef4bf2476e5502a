package graph

import (
	"fmt"
	"slices"
	"strings"

	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

// Node is a top-level document or a leaf.
type Node struct {
	// Key is "class/id".
	Key      string
	Class    pointer.Class
	ID       string
	Path     string
	Abstract bool
	Leaf     bool
}

// Edge says that From merged To somewhere in its tree.
type Edge struct {
	From string
	To   string
	// Property is the dotted path inside From carrying the reference, empty
	// for the document itself.
	Property string
}

// Graph is the inheritance graph of an expanded registry.
type Graph struct {
	Nodes []Node
	Edges []Edge

	index map[string]int
}

// Build collects "$reference" edges from every document and nested property
// of an expanded registry. Nodes are ordered by class then id.
func Build(reg *registry.Registry) *Graph {
	g := &Graph{index: make(map[string]int)}

	reg.Each(func(class pointer.Class, doc *document.Document) {
		g.addNode(Node{
			Key:      key(class, doc.ID),
			Class:    class,
			ID:       doc.ID,
			Path:     doc.Path,
			Abstract: doc.Abstract,
		})
	})

	for _, class := range reg.LeafClasses() {
		ids := make([]string, 0, len(reg.Leaves[class]))
		for id := range reg.Leaves[class] {
			ids = append(ids, id)
		}

		slices.Sort(ids)

		for _, id := range ids {
			g.addNode(Node{
				Key:   key(class, id),
				Class: class,
				ID:    id,
				Path:  "/" + string(class) + "/" + id,
				Leaf:  true,
			})
		}
	}

	seen := make(map[Edge]bool)

	reg.Each(func(class pointer.Class, doc *document.Document) {
		from := key(class, doc.ID)

		doc.Walk(func(path string, d *document.Document) {
			if d.Reference == nil {
				return
			}

			to, ok := g.resolve(reg, *d.Reference)
			if !ok || to == from {
				return
			}

			e := Edge{From: from, To: to, Property: path}
			if seen[e] {
				return
			}

			seen[e] = true
			g.Edges = append(g.Edges, e)
		})
	})

	return g
}

func key(class pointer.Class, id string) string {
	return string(class) + "/" + id
}

func (g *Graph) addNode(n Node) {
	g.index[n.Key] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

func (g *Graph) resolve(reg *registry.Registry, ref pointer.Ref) (string, bool) {
	if reg.IsLeafClass(ref.Class) {
		k := key(ref.Class, ref.ID)
		_, ok := g.index[k]

		return k, ok
	}

	class, _, ok := reg.Lookup(ref)
	if !ok {
		return "", false
	}

	return key(class, ref.ID), true
}

// Node returns the node stored under key.
func (g *Graph) Node(key string) (Node, bool) {
	i, ok := g.index[key]
	if !ok {
		return Node{}, false
	}

	return g.Nodes[i], true
}

// Dependencies returns the keys a node references, sorted and unique.
func (g *Graph) Dependencies(key string) []string {
	var out []string

	for _, e := range g.Edges {
		if e.From == key && !slices.Contains(out, e.To) {
			out = append(out, e.To)
		}
	}

	slices.Sort(out)

	return out
}

// Dependents returns the keys of nodes that reference key, sorted and unique.
func (g *Graph) Dependents(key string) []string {
	var out []string

	for _, e := range g.Edges {
		if e.To == key && !slices.Contains(out, e.From) {
			out = append(out, e.From)
		}
	}

	slices.Sort(out)

	return out
}

// Order returns node keys so that every ancestor precedes its descendants.
func (g *Graph) Order() ([]string, error) {
	deps := make([][]int, len(g.Nodes))
	for _, e := range g.Edges {
		deps[g.index[e.From]] = append(deps[g.index[e.From]], g.index[e.To])
	}

	idx, err := topoSort(len(g.Nodes), func(i int) []int { return deps[i] })
	if err != nil {
		return nil, fmt.Errorf("build order: %w", err)
	}

	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = g.Nodes[j].Key
	}

	return out, nil
}

// String renders the edges one per line, for logs and tests.
func (g *Graph) String() string {
	var b strings.Builder

	for _, e := range g.Edges {
		b.WriteString(e.From)
		b.WriteString(" -> ")
		b.WriteString(e.To)

		if e.Property != "" {
			b.WriteString(" (")
			b.WriteString(e.Property)
			b.WriteString(")")
		}

		b.WriteString("\n")
	}

	return b.String()
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}
