// Package validate runs consistency checks over an expanded registry:
// unused fields, abstract documents nobody extends, documents that still
// carry "$extend", and documents with both properties and items.
package validate
