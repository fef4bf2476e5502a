// Package merge implements the typed deep merge of schema documents and
// annotation-driven array combination.
//
// # Annotations
//
// An array may carry tokens among its items:
//
//	"required": ["@append", "@unique", "radius"]
//
//   - @overwrite (the default): the child array replaces the parent's
//   - @prepend: parent items, then child items
//   - @append: child items, then parent items
//   - @unique: drop repeated items, keeping the first
//   - @sorted: sort lexicographically; @unsorted suppresses it
//
// Tokens are parsed out once per array (see Annotated) and never reach the
// merged result. When an array carries no token, the document's "$merge"
// entry for the key is used, then the global Defaults table.
package merge
