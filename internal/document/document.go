package document

import (
	"schema-expander/internal/pointer"
)

// Object is a JSON object with ordered keys. Attribute values are nil, bool,
// int, float64, string, []any, or *Object.
type Object = OrderedMap[any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return NewOrderedMap[any]()
}

// Document is a field, model, or form schema, or a nested property of one.
type Document struct {
	// ID is the filename without extension. Empty for nested documents.
	ID string
	// Path is the canonical pointer of the document, e.g. "/field/radius.json".
	Path string
	// FilePath is where the loader read the document from.
	FilePath string
	// Schema is the "$schema" value. Removed by expansion.
	Schema string

	// Extend lists the ancestors to merge in, in application order.
	Extend StringOrArray

	Abstract bool
	Ignore   bool

	// Properties is set on object-typed documents.
	Properties *OrderedMap[*Document]
	// Items is set on array-typed documents.
	Items *Document

	// ItemsOrder is the raw "itemsOrder" list, annotation tokens included.
	ItemsOrder []any
	// Remove is the raw "$remove" list.
	Remove []any
	// MergeHints maps a property name to the merge tokens used for arrays
	// under that name in this document ("$merge").
	MergeHints map[string][]string

	// Attrs holds every other key in source order.
	Attrs *Object

	// Reference is the last ancestor merged into this document.
	Reference *pointer.Ref
	// ReferenceCounter counts descendants that merged this document in.
	ReferenceCounter int
	// FinalOrder is the property order after expansion ("$itemsOrder").
	FinalOrder []string
}

// Reserved keys that map to Document fields instead of Attrs.
const (
	KeyID               = "id"
	KeyPath             = "$path"
	KeyFilePath         = "$filepath"
	KeySchema           = "$schema"
	KeyExtend           = "$extend"
	KeyAbstract         = "abstract"
	KeyIgnore           = "ignore"
	KeyProperties       = "properties"
	KeyItems            = "items"
	KeyItemsOrder       = "itemsOrder"
	KeyRemove           = "$remove"
	KeyMerge            = "$merge"
	KeyReference        = "$reference"
	KeyReferenceCounter = "$referenceCounter"
	KeyFinalOrder       = "$itemsOrder"
)

// HasExtend reports whether the document still has unresolved ancestors.
func (d *Document) HasExtend() bool {
	return d != nil && len(d.Extend) > 0
}

// Attr returns the attribute stored under key.
func (d *Document) Attr(key string) (any, bool) {
	if d == nil {
		return nil, false
	}

	return d.Attrs.Get(key)
}

// SetAttr stores an attribute, creating the attribute map if needed.
func (d *Document) SetAttr(key string, value any) {
	if d.Attrs == nil {
		d.Attrs = NewObject()
	}

	d.Attrs.Set(key, value)
}

// Property returns the nested document stored under name.
func (d *Document) Property(name string) (*Document, bool) {
	if d == nil {
		return nil, false
	}

	return d.Properties.Get(name)
}

// SetProperty stores a nested document, creating the property map if needed.
func (d *Document) SetProperty(name string, p *Document) {
	if d.Properties == nil {
		d.Properties = NewOrderedMap[*Document]()
	}

	d.Properties.Set(name, p)
}

// PropertyNames returns the property names in order.
func (d *Document) PropertyNames() []string {
	if d == nil {
		return nil
	}

	return d.Properties.Keys()
}

// Walk calls fn for d and every nested document below it, depth first.
// The path passed to fn is a dotted property path, with "[]" for items.
func (d *Document) Walk(fn func(path string, doc *Document)) {
	d.walk("", fn)
}

func (d *Document) walk(prefix string, fn func(string, *Document)) {
	if d == nil {
		return
	}

	fn(prefix, d)

	for name, p := range d.Properties.All {
		next := name
		if prefix != "" {
			next = prefix + "." + name
		}

		p.walk(next, fn)
	}

	if d.Items != nil {
		d.Items.walk(prefix+"[]", fn)
	}
}
