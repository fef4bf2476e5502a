package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-expander/internal/config"
)

// workspace creates a wiki tree in a temp dir, makes it the working
// directory and isolates the user config.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)

	for name, content := range files {
		full := filepath.Join(dir, "wiki", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return dir
}

var circleTree = map[string]string{
	"field/radius.json": `{"type": "number", "title": "radius"}`,
	"model/Circle.yaml": "properties:\n  radius:\n    $extend: /field/radius.json\n",
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := rootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestExpandCommand(t *testing.T) {
	dir := workspace(t, circleTree)

	stdout, _, err := execute(t, "expand", "--metrics-file", "metrics.prom")
	require.NoError(t, err)

	assert.Contains(t, stdout, "expanded 2 documents into build")
	assert.FileExists(t, filepath.Join(dir, "build", "model", "Circle.json"))

	data, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "schema_expander_passes_total 1")
}

func TestExpandCommandOutputFlag(t *testing.T) {
	dir := workspace(t, circleTree)

	_, _, err := execute(t, "expand", "-o", "out")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "out", "index.json"))
	assert.NoDirExists(t, filepath.Join(dir, "build"))
}

func TestExpandCommandStrict(t *testing.T) {
	workspace(t, map[string]string{
		"model/Broken.json": `{"$extend": "/model/Missing"}`,
	})

	_, _, err := execute(t, "expand")
	require.NoError(t, err)

	_, stderr, err := execute(t, "expand", "--strict")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "MissingAncestor")
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		dir := workspace(t, circleTree)

		stdout, _, err := execute(t, "check")
		require.NoError(t, err)
		assert.Contains(t, stdout, "ok: 2 documents")
		assert.NoDirExists(t, filepath.Join(dir, "build"))
	})

	t.Run("errors", func(t *testing.T) {
		workspace(t, map[string]string{
			"model/A.json": `{"$extend": "/model/B"}`,
			"model/B.json": `{"$extend": "/model/A"}`,
		})

		stdout, _, err := execute(t, "check")
		require.ErrorIs(t, err, errDiagnostics)
		assert.Contains(t, stdout, "error: ")
		assert.Contains(t, stdout, "CircularReference")
	})
}

func TestGraphCommand(t *testing.T) {
	workspace(t, circleTree)

	stdout, _, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, stdout, "digraph schemas {")

	stdout, _, err = execute(t, "graph", "--format", "order")
	require.NoError(t, err)

	lines := strings.Fields(stdout)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"field/radius", "model/Circle"}, lines)

	stdout, _, err = execute(t, "graph", "-f", "edges")
	require.NoError(t, err)
	assert.Equal(t, "model/Circle -> field/radius (radius)\n", stdout)

	_, _, err = execute(t, "graph", "-f", "svg")
	require.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	workspace(t, nil)

	stdout, _, err := execute(t, "--cycle-tolerance", "7", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "source: wiki")
	assert.Contains(t, stdout, "cycle_tolerance: 7")

	stdout, _, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, strings.TrimSpace(stdout))
}

func TestVersionCommand(t *testing.T) {
	workspace(t, nil)

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "schema-expander version "+Version+"\n", stdout)
}

func TestInvalidFlags(t *testing.T) {
	workspace(t, circleTree)

	_, _, err := execute(t, "--log-format", "xml", "check")
	require.Error(t, err)

	_, _, err = execute(t, "--annotation", "required=@sideways", "check")
	require.Error(t, err)
}

func TestAnnotationFlag(t *testing.T) {
	a := annotationFlag{}

	require.NoError(t, a.Set("required=@prepend, @unique"))
	require.NoError(t, a.Set("enum=@overwrite"))

	assert.Equal(t, []string{"@prepend", "@unique"}, a["required"])
	assert.Equal(t, "enum=@overwrite required=@prepend,@unique", a.String())
	assert.Equal(t, "key=tokens", a.Type())

	require.Error(t, a.Set("required"))
	require.Error(t, a.Set("=@unique"))
	require.Error(t, a.Set("required=@bogus"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "loud", "text")
	require.Error(t, err)
}

func TestWatchRun(t *testing.T) {
	dir := workspace(t, circleTree)

	var out, logs bytes.Buffer

	cfg := config.DefaultConfig()
	cfg.Source = filepath.Join(dir, "wiki")
	cfg.Output = filepath.Join(dir, "build")

	a := &app{cfg: cfg, logger: slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelError}))}

	a.watchRun(context.Background(), &out)
	assert.Equal(t, "expanded 2 documents (0 errors, 0 warnings)\n", out.String())
	assert.Empty(t, logs.String())

	out.Reset()
	cfg.Source = filepath.Join(dir, "missing")

	a.watchRun(context.Background(), &out)
	assert.Empty(t, out.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "Run failed", entry["msg"])

	msg, ok := entry["error"].(string)
	require.True(t, ok, "error attr is a string")
	assert.NotEmpty(t, msg)
}
