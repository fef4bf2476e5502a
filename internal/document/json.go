package document

import (
	"bytes"
	"encoding/json"
	"slices"
)

// MarshalJSON writes the map as a JSON object in insertion order.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	w := newObjectWriter()
	for k, v := range m.All {
		if err := w.field(k, v); err != nil {
			return nil, err
		}
	}

	return w.close(), nil
}

// MarshalJSON writes the document with identity keys first, then attributes
// in source order, then structure, directives, and expansion metadata.
func (d *Document) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()

	fields := []struct {
		key  string
		val  any
		emit bool
	}{
		{KeyID, d.ID, d.ID != ""},
		{KeyPath, d.Path, d.Path != ""},
		{KeyFilePath, d.FilePath, d.FilePath != ""},
		{KeySchema, d.Schema, d.Schema != ""},
		{KeyExtend, []string(d.Extend), len(d.Extend) > 0},
	}

	for _, f := range fields {
		if !f.emit {
			continue
		}

		if err := w.field(f.key, f.val); err != nil {
			return nil, err
		}
	}

	for k, v := range d.Attrs.All {
		if err := w.field(k, v); err != nil {
			return nil, err
		}
	}

	tail := []struct {
		key  string
		val  any
		emit bool
	}{
		{KeyAbstract, d.Abstract, d.Abstract},
		{KeyIgnore, d.Ignore, d.Ignore},
		{KeyProperties, d.Properties, d.Properties != nil},
		{KeyItems, d.Items, d.Items != nil},
		{KeyItemsOrder, d.ItemsOrder, d.ItemsOrder != nil},
		{KeyRemove, d.Remove, d.Remove != nil},
		{KeyMerge, sortedHints(d.MergeHints), len(d.MergeHints) > 0},
		{KeyReference, d.Reference, d.Reference != nil},
		{KeyReferenceCounter, d.ReferenceCounter, d.ReferenceCounter > 0},
		{KeyFinalOrder, d.FinalOrder, d.FinalOrder != nil},
	}

	for _, f := range tail {
		if !f.emit {
			continue
		}

		if err := w.field(f.key, f.val); err != nil {
			return nil, err
		}
	}

	return w.close(), nil
}

// sortedHints renders "$merge" with sorted keys so output is stable.
func sortedHints(h map[string][]string) *OrderedMap[[]string] {
	out := NewOrderedMap[[]string]()

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		out.Set(k, h[k])
	}

	return out
}

type objectWriter struct {
	buf   bytes.Buffer
	count int
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')

	return w
}

func (w *objectWriter) field(key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}

	v, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if w.count > 0 {
		w.buf.WriteByte(',')
	}

	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
	w.count++

	return nil
}

func (w *objectWriter) close() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
