package output

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

func TestWrite(t *testing.T) {
	doc, err := document.Parse([]byte(`{"type": "number", "title": "radius"}`))
	require.NoError(t, err)

	doc.ID = "radius"
	doc.Path = "/field/radius.json"
	doc.FinalOrder = []string{}

	reg := registry.New()
	reg.Add(pointer.ClassField, doc)

	dir := filepath.Join(t.TempDir(), "build")
	sum, err := NewWriter(dir, slog.New(slog.DiscardHandler)).Write(reg)
	require.NoError(t, err)

	require.Equal(t, []string{filepath.Join(dir, "field", "radius.json")}, sum.Files)

	data, err := os.ReadFile(sum.Files[0])
	require.NoError(t, err)

	expected := `{
  "id": "radius",
  "$path": "/field/radius.json",
  "type": "number",
  "title": "radius",
  "$itemsOrder": []
}
`
	assert.Equal(t, expected, string(data))

	index, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"field": ["radius"], "model": [], "form": []}`, string(index))

	_, err = os.Stat(filepath.Join(dir, "model"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFailsOnFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, filePerm))

	_, err := NewWriter(blocker, nil).Write(registry.New())
	assert.Error(t, err)
}
