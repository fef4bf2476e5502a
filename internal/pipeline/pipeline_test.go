package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-expander/internal/config"
	"schema-expander/internal/diagnostic"
	"schema-expander/internal/pointer"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	writeTree(t, filepath.Join(dir, "wiki"), map[string]string{
		"field/radius.json":      `{"type": "number", "minimum": 0, "title": "radius"}`,
		"field/unused.json":      `{"type": "string"}`,
		"model/Circle.json":      `{"properties": {"radius": {"$extend": "/field/radius.json"}}}`,
		"form/CircleForm.jsonc":  `{"$extend": ["/model/Circle", "/template/Card.wikitext"], /* form */}`,
		"template/Card.wikitext": "{{Card}}",
	})

	cfg := config.DefaultConfig()
	cfg.Source = filepath.Join(dir, "wiki")
	cfg.Output = filepath.Join(dir, "build")

	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	report, err := Run(context.Background(), cfg, logger)
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"run_id":"`+report.RunID+`"`)

	assert.True(t, report.Expanded.Diagnostics.IsValid())

	circle := report.Expanded.ExpandedModel()["Circle"]
	radius, ok := circle.Property("radius")
	require.True(t, ok)
	assert.Equal(t, "/field/radius.json", radius.Reference.Path)

	form := report.Expanded.ExpandedForm()["CircleForm"]
	template, _ := form.Attr("template")
	assert.Equal(t, "{{Card}}", template)

	unused := report.Validation.ByCode(diagnostic.CodeUnusedDocument)
	require.Len(t, unused, 1)
	assert.Equal(t, "/field/unused.json", unused[0].Document)
	assert.Len(t, report.Diagnostics().Warnings, 1)

	require.NotNil(t, report.Output)
	assert.Len(t, report.Output.Files, 4)
	assert.FileExists(t, filepath.Join(cfg.Output, "model", "Circle.json"))
	assert.FileExists(t, filepath.Join(cfg.Output, "index.json"))

	assert.Len(t, report.Order, report.Graph.Len())
	assert.Contains(t, report.Graph.Dependencies("model/Circle"), "field/radius")
}

func TestRunWithoutWrite(t *testing.T) {
	cfg := testConfig(t)

	report, err := Run(context.Background(), cfg, slog.New(slog.DiscardHandler), WithoutWrite())
	require.NoError(t, err)
	assert.Nil(t, report.Output)

	_, err = os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(err))
}

type countingObserver struct {
	documents int
	reported  []diagnostic.Code
}

func (c *countingObserver) PassStarted()                     {}
func (c *countingObserver) PassFinished(_ time.Duration)     {}
func (c *countingObserver) DocumentExpanded(pointer.Class)   { c.documents++ }
func (c *countingObserver) AncestorMerged(pointer.Class)     {}
func (c *countingObserver) Reported(d diagnostic.Diagnostic) { c.reported = append(c.reported, d.Code) }

func TestRunObserver(t *testing.T) {
	obs := &countingObserver{}

	_, err := Run(context.Background(), testConfig(t), slog.New(slog.DiscardHandler), WithoutWrite(), WithObserver(obs))
	require.NoError(t, err)

	assert.Equal(t, 4, obs.documents)
	assert.Equal(t, []diagnostic.Code{diagnostic.CodeUnusedDocument}, obs.reported)
}

func TestRunErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Source = filepath.Join(t.TempDir(), "missing")

		_, err := Run(context.Background(), cfg, nil)
		require.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, testConfig(t), slog.New(slog.DiscardHandler))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad annotation", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Annotations = map[string][]string{"enum": {"@nope"}}

		_, err := Run(context.Background(), cfg, slog.New(slog.DiscardHandler))
		require.ErrorContains(t, err, "annotations")
	})
}
