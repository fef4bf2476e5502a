// Package pointer parses extension pointers.
//
// A pointer names the document a schema inherits from:
//
//	"/<type>/<filename>[.ext]"
//
// The type is a document class (field, model, form) or a leaf class
// (template) whose content is merged in as text. The id of the target is
// the filename with a known extension stripped. A pointer without any "/"
// is a bare id; it carries no class and is looked up across the document
// classes in expansion order.
package pointer
