package document

import "slices"

// OrderedMap is a string-keyed map that remembers insertion order.
// The zero value is not usable; use NewOrderedMap.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Len returns the number of entries. A nil map has length zero.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}

	v, ok := m.values[key]

	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap[V]) Delete(key string) bool {
	if m == nil {
		return false
	}

	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)

	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}

	return true
}

// Keys returns a copy of the keys in order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All iterates over entries in order.
func (m *OrderedMap[V]) All(yield func(string, V) bool) {
	if m == nil {
		return
	}

	for _, k := range m.keys {
		if !yield(k, m.values[k]) {
			return
		}
	}
}

// CloneWith returns a copy of m with every value passed through cp.
func (m *OrderedMap[V]) CloneWith(cp func(V) V) *OrderedMap[V] {
	if m == nil {
		return nil
	}

	out := &OrderedMap[V]{
		keys:   slices.Clone(m.keys),
		values: make(map[string]V, len(m.values)),
	}

	for k, v := range m.values {
		out.values[k] = cp(v)
	}

	return out
}
