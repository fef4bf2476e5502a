package expand

import (
	"schema-expander/internal/document"
	"schema-expander/internal/merge"
)

// RemoveKeys deletes every "$remove" name from doc's properties and returns
// the names that were not present.
func RemoveKeys(doc *document.Document) []string {
	var missing []string

	for _, name := range merge.Strings(doc.Remove) {
		if !doc.Properties.Delete(name) {
			missing = append(missing, name)
		}
	}

	return missing
}
