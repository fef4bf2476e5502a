package registry

import (
	"maps"
	"slices"

	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
)

// Registry holds every loaded document by class and id, plus the raw
// content of leaf classes.
type Registry struct {
	Documents map[pointer.Class]map[string]*document.Document
	Leaves    map[pointer.Class]map[string]string
}

// New creates an empty registry. leafClasses are the classes whose content
// is opaque text; pointer.ClassTemplate is used when none are given.
func New(leafClasses ...pointer.Class) *Registry {
	if len(leafClasses) == 0 {
		leafClasses = []pointer.Class{pointer.ClassTemplate}
	}

	r := &Registry{
		Documents: make(map[pointer.Class]map[string]*document.Document, len(pointer.DocumentClasses)),
		Leaves:    make(map[pointer.Class]map[string]string, len(leafClasses)),
	}

	for _, c := range pointer.DocumentClasses {
		r.Documents[c] = make(map[string]*document.Document)
	}

	for _, c := range leafClasses {
		r.Leaves[c] = make(map[string]string)
	}

	return r
}

// Add stores doc under class. It fills Path from the id when empty.
func (r *Registry) Add(class pointer.Class, doc *document.Document) {
	if doc.Path == "" {
		doc.Path = "/" + string(class) + "/" + doc.ID
	}

	docs, ok := r.Documents[class]
	if !ok {
		docs = make(map[string]*document.Document)
		r.Documents[class] = docs
	}

	docs[doc.ID] = doc
}

// AddLeaf stores leaf content under class and id.
func (r *Registry) AddLeaf(class pointer.Class, id, content string) {
	leaves, ok := r.Leaves[class]
	if !ok {
		leaves = make(map[string]string)
		r.Leaves[class] = leaves
	}

	leaves[id] = content
}

// IsLeafClass reports whether c is registered as a leaf class.
func (r *Registry) IsLeafClass(c pointer.Class) bool {
	_, ok := r.Leaves[c]
	return ok
}

// LeafClasses returns the leaf classes sorted by name.
func (r *Registry) LeafClasses() []pointer.Class {
	return slices.Sorted(maps.Keys(r.Leaves))
}

// Class returns the documents of one class by id.
func (r *Registry) Class(c pointer.Class) map[string]*document.Document {
	return r.Documents[c]
}

// Get returns one document.
func (r *Registry) Get(c pointer.Class, id string) (*document.Document, bool) {
	doc, ok := r.Documents[c][id]
	return doc, ok
}

// Names returns the ids of one class sorted.
func (r *Registry) Names(c pointer.Class) []string {
	return slices.Sorted(maps.Keys(r.Documents[c]))
}

// Len returns the number of documents across all classes.
func (r *Registry) Len() int {
	n := 0
	for _, docs := range r.Documents {
		n += len(docs)
	}

	return n
}

// Lookup finds the document a pointer names. Bare ids are searched in
// field, model and form, in that order.
func (r *Registry) Lookup(ref pointer.Ref) (pointer.Class, *document.Document, bool) {
	if !ref.IsBare() {
		doc, ok := r.Get(ref.Class, ref.ID)
		return ref.Class, doc, ok
	}

	for _, c := range pointer.DocumentClasses {
		if doc, ok := r.Get(c, ref.ID); ok {
			return c, doc, true
		}
	}

	return "", nil, false
}

// Leaf returns the content a leaf pointer names.
func (r *Registry) Leaf(ref pointer.Ref) (string, bool) {
	content, ok := r.Leaves[ref.Class][ref.ID]
	return content, ok
}

// Each calls fn for every document, classes in expansion order and ids
// sorted.
func (r *Registry) Each(fn func(class pointer.Class, doc *document.Document)) {
	for _, c := range pointer.DocumentClasses {
		for _, id := range r.Names(c) {
			fn(c, r.Documents[c][id])
		}
	}
}

// Clone returns a deep copy. Documents are cloned; leaf strings are shared.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		Documents: make(map[pointer.Class]map[string]*document.Document, len(r.Documents)),
		Leaves:    make(map[pointer.Class]map[string]string, len(r.Leaves)),
	}

	for c, docs := range r.Documents {
		cp := make(map[string]*document.Document, len(docs))
		for id, doc := range docs {
			cp[id] = doc.Clone()
		}

		out.Documents[c] = cp
	}

	for c, leaves := range r.Leaves {
		out.Leaves[c] = maps.Clone(leaves)
	}

	return out
}
