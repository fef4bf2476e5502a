package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-expander/internal/merge"
	"schema-expander/internal/pointer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.CycleTolerance)
	assert.Equal(t, []string{"template"}, cfg.LeafClasses)
	assert.Equal(t, []string{"@prepend", "@unique"}, cfg.Annotations["required"])

	defaults, err := cfg.Defaults()
	require.NoError(t, err)
	assert.Equal(t, merge.DefaultAnnotations(), defaults)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"no source", func(c *Config) { c.Source = "" }, "source is required"},
		{"no output", func(c *Config) { c.Output = "" }, "output is required"},
		{"tolerance", func(c *Config) { c.CycleTolerance = 0 }, "cycle_tolerance"},
		{"leaf is document class", func(c *Config) { c.LeafClasses = []string{"model"} }, "document class"},
		{"unknown pattern class", func(c *Config) { c.Patterns = map[string]string{"page": "*.json"} }, "unknown class"},
		{"bad glob", func(c *Config) { c.Patterns = map[string]string{"field": "field/[.json"} }, "invalid glob"},
		{"bad token", func(c *Config) { c.Annotations = map[string][]string{"enum": {"@shuffle"}} }, "annotations"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "schema-expander.yaml")
	writeFile(t, path, `
source: ../wiki
output: /tmp/out
cycle_tolerance: 5
leaf_classes: [template, snippet]
patterns:
  field: "field/*.json"
annotations:
  enum: ["@append", "@unique"]
watch:
  debounce: 1s
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "wiki"), cfg.Source)
	assert.Equal(t, "/tmp/out", cfg.Output)
	assert.Equal(t, 5, cfg.CycleTolerance)
	assert.Equal(t, []pointer.Class{"template", "snippet"}, cfg.Leaves())
	assert.Equal(t, time.Second, cfg.Watch.Debounce)

	rc := cfg.RegistryConfig()
	assert.Equal(t, "field/*.json", rc.Patterns[pointer.ClassField])
	assert.Equal(t, cfg.Source, rc.Source)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "cycle_tolerance: [1")

	_, err = LoadFromFile(path)
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		Output:      "out",
		Patterns:    map[string]string{"form": "form/*.yaml"},
		Annotations: map[string][]string{"enum": {"@sorted"}},
	})
	cfg.Merge(nil)

	assert.Equal(t, "wiki", cfg.Source)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, 3, cfg.CycleTolerance)
	assert.Equal(t, "form/*.yaml", cfg.Patterns["form"])
	assert.Equal(t, []string{"@sorted"}, cfg.Annotations["enum"])
	assert.Equal(t, []string{"@prepend", "@unique"}, cfg.Annotations["required"])
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Source = "/abs/wiki"
	cfg.Output = "/abs/build"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
