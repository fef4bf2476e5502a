package merge

import (
	"encoding/json"
	"maps"
	"slices"
	"sort"

	"schema-expander/internal/common"
	"schema-expander/internal/document"
)

// Merger deep-merges documents. The zero value uses no default tokens.
type Merger struct {
	defaults Defaults
}

// New creates a Merger with the given default-token table.
func New(defaults Defaults) *Merger {
	return &Merger{defaults: defaults}
}

// Merge returns parent with child applied on top. Neither input is modified.
//
// Merge rules:
//   - identity, flags, "$remove": always the child's own
//   - "$extend", "$schema", "$reference": child's if set, else parent's
//   - attributes: objects merge recursively, arrays combine by annotation,
//     anything else is replaced by the child's value
//   - properties: merged by name; parent names keep their position and
//     child-only names are appended
//   - items: merged recursively; a child with only one of "properties" and
//     "items" drops the parent's other one
//   - "itemsOrder": combined by annotation like any array
func (m *Merger) Merge(child, parent *document.Document) *document.Document {
	if parent == nil {
		return child.Clone()
	}

	if child == nil {
		return parent.Clone()
	}

	out := parent.Clone()
	out.Walk(func(_ string, d *document.Document) {
		stripDocument(d)
	})
	m.apply(out, child)

	return out
}

// apply writes src onto dst in place. dst is owned by the caller.
func (m *Merger) apply(dst, src *document.Document) {
	dst.ID = src.ID
	dst.Path = src.Path
	dst.FilePath = src.FilePath
	dst.Abstract = src.Abstract
	dst.Ignore = src.Ignore
	dst.Remove = document.CloneList(src.Remove)
	dst.ReferenceCounter = src.ReferenceCounter
	dst.FinalOrder = slices.Clone(src.FinalOrder)

	if src.Schema != "" {
		dst.Schema = src.Schema
	}

	if len(src.Extend) > 0 {
		dst.Extend = slices.Clone(src.Extend)
	}

	if src.Reference != nil {
		ref := *src.Reference
		dst.Reference = &ref
	}

	if len(src.MergeHints) > 0 {
		if dst.MergeHints == nil {
			dst.MergeHints = make(map[string][]string, len(src.MergeHints))
		}

		for k, v := range maps.All(src.MergeHints) {
			dst.MergeHints[k] = slices.Clone(v)
		}
	}

	if src.ItemsOrder != nil {
		dst.ItemsOrder = m.Combine(document.KeyItemsOrder, src.ItemsOrder, dst.ItemsOrder, src.MergeHints)
	}

	dst.Attrs = m.mergeObject(src.Attrs, dst.Attrs, src.MergeHints)

	// "properties" and "items" are exclusive; the child's choice wins.
	switch {
	case src.Items != nil && src.Properties == nil:
		dst.Properties = nil
	case src.Properties != nil && src.Items == nil:
		dst.Items = nil
	}

	for name, p := range src.Properties.All {
		if existing, ok := dst.Property(name); ok {
			m.apply(existing, p)
			continue
		}

		dst.SetProperty(name, p.Clone())
	}

	switch {
	case src.Items == nil:
	case dst.Items == nil:
		dst.Items = src.Items.Clone()
	default:
		m.apply(dst.Items, src.Items)
	}
}

// mergeObject merges child onto parent, which the caller owns.
func (m *Merger) mergeObject(child, parent *document.Object, hints map[string][]string) *document.Object {
	if child.Len() == 0 {
		return parent
	}

	if parent == nil {
		parent = document.NewObject()
	}

	for key, cv := range child.All {
		pv, _ := parent.Get(key)
		parent.Set(key, m.mergeValue(key, cv, pv, hints))
	}

	return parent
}

func (m *Merger) mergeValue(key string, child, parent any, hints map[string][]string) any {
	switch cv := child.(type) {
	case *document.Object:
		if pv, ok := parent.(*document.Object); ok {
			return m.mergeObject(cv, pv, hints)
		}

		return document.CloneValue(cv)
	case []any:
		pv, _ := parent.([]any)
		return m.Combine(key, cv, pv, hints)
	default:
		return child
	}
}

// stripDocument removes annotation tokens from the arrays of d, in place.
// Tokens on an ancestor's arrays steered the ancestor's own merge and have no
// meaning in a descendant.
func stripDocument(d *document.Document) {
	// The parent already applied its removals.
	d.Remove = nil

	if d.ItemsOrder != nil {
		d.ItemsOrder = nonNil(Parse(d.ItemsOrder).Items)
	}

	stripObject(d.Attrs)
}

func stripObject(obj *document.Object) {
	for k, v := range obj.All {
		switch t := v.(type) {
		case []any:
			obj.Set(k, nonNil(Parse(t).Items))
		case *document.Object:
			stripObject(t)
		}
	}
}

func nonNil(list []any) []any {
	if list == nil {
		return []any{}
	}

	return list
}

// Combine merges a child array with a parent array stored under key.
//
// Tokens come from the child array itself, else hints[key], else the
// default table. Placement: "@overwrite" (or no token) keeps the child
// items, "@prepend" puts parent items first, "@append" puts child items
// first. Then "@unique" drops repeats and "@sorted" sorts unless
// "@unsorted" is present.
func (m *Merger) Combine(key string, child, parent []any, hints map[string][]string) []any {
	c := Parse(child)
	p := Parse(parent)

	tokens := c.Tokens
	if tokens == 0 {
		if names, ok := hints[key]; ok {
			tokens, _ = ParseTokens(names)
		}
	}

	if tokens == 0 {
		tokens = m.defaults[key]
	}

	var out []any

	switch {
	case tokens.Has(TokenOverwrite):
		out = document.CloneList(c.Items)
	case tokens.Has(TokenPrepend):
		out = append(document.CloneList(p.Items), document.CloneList(c.Items)...)
	case tokens.Has(TokenAppend):
		out = append(document.CloneList(c.Items), document.CloneList(p.Items)...)
	default:
		out = document.CloneList(c.Items)
	}

	if tokens.Has(TokenUnique) {
		out = common.UniqueDeep(out)
	}

	if tokens.Has(TokenSorted) && !tokens.Has(TokenUnsorted) {
		sortValues(out)
	}

	return nonNil(out)
}

// sortValues sorts lexicographically: strings by value, anything else by its
// JSON rendering.
func sortValues(list []any) {
	keys := make([]string, len(list))
	for i, v := range list {
		keys[i] = sortKey(v)
	}

	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] < keys[idx[b]]
	})

	sorted := make([]any, len(list))
	for i, j := range idx {
		sorted[i] = list[j]
	}

	copy(list, sorted)
}

func sortKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return string(b)
}
