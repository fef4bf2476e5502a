package validate

import (
	"fmt"

	"schema-expander/internal/diagnostic"
	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

// Validate checks an expanded registry for consistency problems that the
// expansion pass does not report itself.
func Validate(reg *registry.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if reg == nil {
		return res
	}

	reg.Each(func(class pointer.Class, doc *document.Document) {
		checkUsage(res, class, doc)

		doc.Walk(func(path string, d *document.Document) {
			checkShape(res, doc.Path, path, d)
		})
	})

	return res
}

func checkUsage(res *diagnostic.Diagnostics, class pointer.Class, doc *document.Document) {
	if doc.Ignore {
		return
	}

	switch {
	case doc.Abstract && doc.ReferenceCounter == 0:
		res.AddWarning(diagnostic.CodeUnusedAbstract,
			fmt.Sprintf("abstract %s %q is never extended", class, doc.ID), doc.Path, "")
	case !doc.Abstract && class == pointer.ClassField && doc.ReferenceCounter == 0:
		res.AddWarning(diagnostic.CodeUnusedDocument,
			fmt.Sprintf("field %q is not used by any document", doc.ID), doc.Path, "")
	}

	if doc.Abstract && class != pointer.ClassField {
		res.AddInfo(diagnostic.CodeAbstractTopLevel,
			fmt.Sprintf("%s %q is abstract and is not rendered", class, doc.ID), doc.Path, "")
	}
}

func checkShape(res *diagnostic.Diagnostics, owner, path string, d *document.Document) {
	if d.HasExtend() {
		res.AddError(diagnostic.CodeUnresolvedExtend,
			fmt.Sprintf("unresolved $extend %v", []string(d.Extend)), owner, path)
	}

	if d.Properties != nil && d.Items != nil {
		res.AddError(diagnostic.CodePropertiesAndItems,
			"properties and items are mutually exclusive", owner, path)
	}
}
