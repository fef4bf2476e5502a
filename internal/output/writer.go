package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// IndexFile is written at the output root and lists ids per class.
const IndexFile = "index.json"

// Writer writes an expanded registry as JSON files.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{dir: dir, logger: logger}
}

// Summary reports what Write produced.
type Summary struct {
	Files []string
	Index string
}

// Write writes every document to <dir>/<class>/<id>.json, then the index.
func (w *Writer) Write(reg *registry.Registry) (*Summary, error) {
	err := os.MkdirAll(w.dir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	sum := &Summary{}
	index := document.NewOrderedMap[[]string]()

	for _, class := range pointer.DocumentClasses {
		names := reg.Names(class)
		if len(names) == 0 {
			index.Set(string(class), []string{})
			continue
		}

		index.Set(string(class), names)

		classDir := filepath.Join(w.dir, string(class))
		if err := os.MkdirAll(classDir, dirPerm); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}

		for _, id := range names {
			doc, _ := reg.Get(class, id)
			outputPath := filepath.Join(classDir, id+".json")

			if err := writeJSON(outputPath, doc); err != nil {
				return nil, fmt.Errorf("writing file %s/%s.json: %w", class, id, err)
			}

			sum.Files = append(sum.Files, outputPath)
		}
	}

	sum.Index = filepath.Join(w.dir, IndexFile)
	if err := writeJSON(sum.Index, index); err != nil {
		return nil, fmt.Errorf("writing file %s: %w", IndexFile, err)
	}

	w.logger.Info("Wrote expanded documents",
		slog.String("dir", w.dir),
		slog.Int("files", len(sum.Files)))

	return sum, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), filePerm)
}
