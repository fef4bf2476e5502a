package expand

import (
	"log/slog"
	"time"

	"schema-expander/internal/diagnostic"
	"schema-expander/internal/merge"
	"schema-expander/internal/pointer"
)

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaults sets the annotation defaults used when neither the array nor
// "$merge" names a token.
func WithDefaults(defaults merge.Defaults) Option {
	return func(e *Expander) {
		e.merger = merge.New(defaults)
	}
}

// WithCycleTolerance sets how often an ancestor may be re-entered within one
// top-level document. Values below one fall back to DefaultCycleTolerance.
func WithCycleTolerance(n int) Option {
	return func(e *Expander) {
		if n <= 0 {
			n = DefaultCycleTolerance
		}

		e.tolerance = n
	}
}

// WithObserver installs an Observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(e *Expander) {
		if o != nil {
			e.observer = o
		}
	}
}

// Observer receives events from an expansion pass.
type Observer interface {
	PassStarted()
	PassFinished(elapsed time.Duration)
	DocumentExpanded(class pointer.Class)
	AncestorMerged(class pointer.Class)
	Reported(d diagnostic.Diagnostic)
}

type nopObserver struct{}

func (nopObserver) PassStarted()                   {}
func (nopObserver) PassFinished(time.Duration)     {}
func (nopObserver) DocumentExpanded(pointer.Class) {}
func (nopObserver) AncestorMerged(pointer.Class)   {}
func (nopObserver) Reported(diagnostic.Diagnostic) {}
