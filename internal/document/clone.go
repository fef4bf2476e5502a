package document

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of d. Attribute values are copied recursively, so
// mutating the clone never affects d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	out := *d
	out.Extend = slices.Clone(d.Extend)
	out.Properties = d.Properties.CloneWith((*Document).Clone)
	out.Items = d.Items.Clone()
	out.ItemsOrder = CloneList(d.ItemsOrder)
	out.Remove = CloneList(d.Remove)
	out.Attrs = d.Attrs.CloneWith(CloneValue)
	out.FinalOrder = slices.Clone(d.FinalOrder)

	if d.MergeHints != nil {
		out.MergeHints = make(map[string][]string, len(d.MergeHints))
		for k, v := range maps.All(d.MergeHints) {
			out.MergeHints[k] = slices.Clone(v)
		}
	}

	if d.Reference != nil {
		ref := *d.Reference
		out.Reference = &ref
	}

	return &out
}

// CloneValue deep-copies an attribute value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.CloneWith(CloneValue)
	case []any:
		return CloneList(t)
	default:
		return v
	}
}

// CloneList deep-copies a list of attribute values.
func CloneList(list []any) []any {
	if list == nil {
		return nil
	}

	out := make([]any, len(list))
	for i, v := range list {
		out[i] = CloneValue(v)
	}

	return out
}
