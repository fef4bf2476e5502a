package expand

import (
	"schema-expander/internal/document"
)

// Reorder returns a copy of props ordered by order: names from order that
// exist come first in the given sequence, then every other property in its
// original relative order. Names in order that are not properties are
// returned as missing. Repeated names are placed once.
func Reorder(props *document.OrderedMap[*document.Document], order []string) (*document.OrderedMap[*document.Document], []string) {
	out := document.NewOrderedMap[*document.Document]()

	var missing []string

	for _, name := range order {
		p, ok := props.Get(name)
		if !ok {
			missing = append(missing, name)
			continue
		}

		if out.Has(name) {
			continue
		}

		out.Set(name, p)
	}

	for name, p := range props.All {
		if !out.Has(name) {
			out.Set(name, p)
		}
	}

	return out, missing
}
