package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"

	"schema-expander/internal/common"
	"schema-expander/internal/document"
	"schema-expander/internal/pointer"
)

// ErrDuplicateID is returned when two files of one class map to the same id.
var ErrDuplicateID = errors.New("duplicate document id")

// ErrPropertiesAndItems is returned for documents that set both
// "properties" and "items".
var ErrPropertiesAndItems = errors.New("document has both properties and items")

// LoadConfig controls discovery.
type LoadConfig struct {
	// Source is the root directory holding one directory per class.
	Source string
	// Patterns maps a class to a doublestar glob relative to Source.
	// Classes without an entry use DefaultPattern.
	Patterns map[pointer.Class]string
	// LeafClasses are read as raw text. Defaults to template.
	LeafClasses []pointer.Class
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultPattern returns the glob used for a class without an explicit
// pattern.
func DefaultPattern(class pointer.Class, leaf bool) string {
	if leaf {
		return string(class) + "/**/*"
	}

	return string(class) + "/**/*.{json,jsonc,yaml,yml}"
}

func (c LoadConfig) pattern(class pointer.Class, leaf bool) string {
	if p, ok := c.Patterns[class]; ok && p != "" {
		return p
	}

	return DefaultPattern(class, leaf)
}

// Load reads every document and leaf under cfg.Source.
func Load(cfg LoadConfig) (*Registry, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", cfg.Source, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", cfg.Source)
	}

	fsys := os.DirFS(cfg.Source)
	reg := New(cfg.LeafClasses...)

	for _, class := range pointer.DocumentClasses {
		files, err := glob(fsys, cfg.pattern(class, false))
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", class, err)
		}

		for _, rel := range files {
			doc, err := loadDocument(fsys, cfg.Source, class, rel)
			if err != nil {
				return nil, err
			}

			if prev, ok := reg.Get(class, doc.ID); ok {
				return nil, fmt.Errorf("%w %s/%s: %s and %s",
					ErrDuplicateID, class, doc.ID, prev.FilePath, doc.FilePath)
			}

			reg.Add(class, doc)
		}

		logger.Debug("Loaded documents",
			slog.String("class", string(class)),
			slog.Int("count", len(files)))
	}

	for _, class := range reg.LeafClasses() {
		files, err := glob(fsys, cfg.pattern(class, true))
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", class, err)
		}

		for _, rel := range files {
			data, err := fs.ReadFile(fsys, rel)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", filepath.Join(cfg.Source, rel), err)
			}

			id := common.TrimExt(path.Base(rel), pointer.KnownExtensions...)
			if _, ok := reg.Leaf(pointer.Ref{Class: class, ID: id}); ok {
				return nil, fmt.Errorf("%w %s/%s: %s", ErrDuplicateID, class, id, filepath.Join(cfg.Source, rel))
			}

			reg.AddLeaf(class, id, string(data))
		}

		logger.Debug("Loaded leaves",
			slog.String("class", string(class)),
			slog.Int("count", len(files)))
	}

	logger.Info("Registry loaded",
		slog.String("source", cfg.Source),
		slog.Int("documents", reg.Len()))

	return reg, nil
}

// glob returns regular files matching pattern, sorted.
func glob(fsys fs.FS, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	slices.Sort(matches)

	return matches, nil
}

func loadDocument(fsys fs.FS, source string, class pointer.Class, rel string) (*document.Document, error) {
	full := filepath.Join(source, filepath.FromSlash(rel))

	data, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", full, err)
	}

	doc, err := ParseFile(rel, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", full, err)
	}

	ref := pointer.New(class, path.Base(rel))
	doc.ID = ref.ID
	doc.Path = ref.Path
	doc.FilePath = full

	if err := checkShape(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", full, err)
	}

	return doc, nil
}

// ParseFile decodes a document, choosing the syntax from the file name.
// JSON files may carry comments and trailing commas.
func ParseFile(name string, data []byte) (*document.Document, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	return document.Parse(data)
}

func checkShape(doc *document.Document) error {
	var err error

	doc.Walk(func(p string, d *document.Document) {
		if err != nil {
			return
		}

		if d.Properties != nil && d.Items != nil {
			if p == "" {
				err = ErrPropertiesAndItems
			} else {
				err = fmt.Errorf("%w at %s", ErrPropertiesAndItems, p)
			}
		}
	})

	return err
}
