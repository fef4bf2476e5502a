package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-expander/internal/diagnostic"
	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

func codes(diags []diagnostic.Diagnostic) []diagnostic.Code {
	out := make([]diagnostic.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}

	return out
}

func TestValidate(t *testing.T) {
	reg := registry.New()
	reg.Add(pointer.ClassField, &document.Document{ID: "used", ReferenceCounter: 2})
	reg.Add(pointer.ClassField, &document.Document{ID: "unused"})
	reg.Add(pointer.ClassField, &document.Document{ID: "hidden", Ignore: true})
	reg.Add(pointer.ClassField, &document.Document{ID: "base", Abstract: true})
	reg.Add(pointer.ClassModel, &document.Document{ID: "Shape", Abstract: true, ReferenceCounter: 1})
	reg.Add(pointer.ClassModel, &document.Document{ID: "Circle"})

	res := Validate(reg)

	assert.True(t, res.IsValid())
	assert.Equal(t, []diagnostic.Code{diagnostic.CodeUnusedAbstract, diagnostic.CodeUnusedDocument}, codes(res.Warnings))
	assert.Equal(t, "/field/base", res.Warnings[0].Document)
	assert.Equal(t, "/field/unused", res.Warnings[1].Document)

	require.Len(t, res.Infos, 1)
	assert.Equal(t, diagnostic.CodeAbstractTopLevel, res.Infos[0].Code)
	assert.Equal(t, "/model/Shape", res.Infos[0].Document)
}

func TestValidateShape(t *testing.T) {
	nested := &document.Document{
		Extend:     document.StringOrArray{"/field/x.json"},
		Properties: document.NewOrderedMap[*document.Document](),
		Items:      &document.Document{},
	}

	model := &document.Document{ID: "M"}
	model.SetProperty("outer", &document.Document{})

	outer, _ := model.Property("outer")
	outer.SetProperty("inner", nested)

	reg := registry.New()
	reg.Add(pointer.ClassModel, model)

	res := Validate(reg)

	assert.False(t, res.IsValid())
	assert.Equal(t, []diagnostic.Code{diagnostic.CodeUnresolvedExtend, diagnostic.CodePropertiesAndItems}, codes(res.Errors))

	for _, d := range res.Errors {
		assert.Equal(t, "/model/M", d.Document)
		assert.Equal(t, "outer.inner", d.Property)
	}
}

func TestValidateNil(t *testing.T) {
	assert.Zero(t, Validate(nil).Count())
}
