package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"
)

// DefaultDebounce is used when no debounce delay is configured.
const DefaultDebounce = 300 * time.Millisecond

// Operation is the kind of change seen for one file.
type Operation string

// Operations reported in a Change.
const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Change is one file whose content differs from the previous run.
type Change struct {
	// Path is relative to the watched root, with forward slashes.
	Path string
	Op   Operation
}

// Handler is called once per debounced batch of changes.
type Handler func(ctx context.Context, changes []Change) error

// Watcher watches a source tree and reports content changes in batches.
// Saves that leave the bytes of a file unchanged are not reported.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	pending map[string]fsnotify.Op
	hashes  map[string][32]byte
}

// New creates a watcher over root.
func New(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		logger:   logger,
		watcher:  fsw,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string][32]byte),
	}, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Seed adds watches for every directory under root and records the hash of
// every file, so that the first batch only holds real edits.
func (w *Watcher) Seed() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if skipped(path, w.root) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}

			w.logger.Debug("Watching directory", slog.String("path", path))

			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		w.hashes[w.rel(path)] = blake3.Sum256(content)

		return nil
	})
}

// Run processes events until ctx is done. Errors from fn are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	w.logger.Info("Watcher started",
		slog.String("root", w.root),
		slog.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}

			if w.handleFSEvent(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}

			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			changes := w.flushPending()
			if len(changes) == 0 {
				continue
			}

			w.logger.Info("Source changed", slog.Int("files", len(changes)))

			if err := fn(ctx, changes); err != nil {
				w.logger.Error("Run after change failed", slog.String("error", err.Error()))
			}
		}
	}
}

// handleFSEvent records one event and reports whether it is pending.
func (w *Watcher) handleFSEvent(event fsnotify.Event) bool {
	path := event.Name
	if skipped(path, w.root) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return w.handleNewDirectory(path)
		}
	}

	w.pending[path] |= event.Op

	w.logger.Debug("Change detected",
		slog.String("path", w.rel(path)),
		slog.String("op", event.Op.String()))

	return true
}

// handleNewDirectory watches a new directory and queues the files already in
// it, which may have been written before the watch was added.
func (w *Watcher) handleNewDirectory(dir string) bool {
	queued := false

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if skipped(path, w.root) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return w.watcher.Add(path)
		}

		w.pending[path] |= fsnotify.Create
		queued = true

		return nil
	})
	if err != nil {
		w.logger.Warn("Failed to watch new directory",
			slog.String("path", dir),
			slog.String("error", err.Error()))
	}

	return queued
}

// flushPending turns accumulated events into content changes.
func (w *Watcher) flushPending() []Change {
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}

	slices.Sort(paths)
	clear(w.pending)

	var changes []Change

	for _, path := range paths {
		rel := w.rel(path)
		_, hadHash := w.hashes[rel]

		content, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if hadHash {
					delete(w.hashes, rel)
					changes = append(changes, Change{Path: rel, Op: OpDelete})
				}

				continue
			}

			w.logger.Warn("Failed to read file for hash check",
				slog.String("path", rel),
				slog.String("error", err.Error()))

			continue
		}

		sum := blake3.Sum256(content)
		if old, ok := w.hashes[rel]; ok && old == sum {
			continue
		}

		w.hashes[rel] = sum

		op := OpModify
		if !hadHash {
			op = OpCreate
		}

		changes = append(changes, Change{Path: rel, Op: op})
	}

	return changes
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}

// skipped reports hidden entries and editor backups below root.
func skipped(path, root string) bool {
	if filepath.Clean(path) == filepath.Clean(root) {
		return false
	}

	base := filepath.Base(path)

	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
