package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"schema-expander/internal/merge"
)

// annotationFlag collects repeated --annotation key=@tok,@tok values.
type annotationFlag map[string][]string

var _ pflag.Value = annotationFlag(nil)

func (a annotationFlag) String() string {
	parts := make([]string, 0, len(a))
	for _, key := range slices.Sorted(maps.Keys(a)) {
		parts = append(parts, key+"="+strings.Join(a[key], ","))
	}

	return strings.Join(parts, " ")
}

func (a annotationFlag) Set(value string) error {
	key, list, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=@token[,@token], got %q", value)
	}

	var tokens []string

	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		if _, ok := merge.ParseToken(tok); !ok {
			return fmt.Errorf("unknown annotation %q", tok)
		}

		tokens = append(tokens, tok)
	}

	a[key] = tokens

	return nil
}

func (a annotationFlag) Type() string {
	return "key=tokens"
}

// newLogger builds the CLI logger from --log-level and --log-format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
