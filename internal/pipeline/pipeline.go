package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"schema-expander/internal/config"
	"schema-expander/internal/diagnostic"
	"schema-expander/internal/expand"
	"schema-expander/internal/graph"
	"schema-expander/internal/output"
	"schema-expander/internal/registry"
)

// Option configures a run.
type Option func(*options)

type options struct {
	write    bool
	observer expand.Observer
}

// WithoutWrite skips writing the output directory.
func WithoutWrite() Option {
	return func(o *options) { o.write = false }
}

// WithObserver forwards expansion events to obs.
func WithObserver(obs expand.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Report is everything one run produced.
type Report struct {
	RunID string
	// Raw is the registry as loaded.
	Raw *registry.Registry
	// Expanded is the expansion result.
	Expanded *expand.Result
	// Validation holds the consistency checks of the expanded registry.
	Validation *diagnostic.Diagnostics
	// Graph is the inheritance graph of the expanded registry.
	Graph *graph.Graph
	// Order lists documents with ancestors first. Empty when the graph has
	// a cycle.
	Order []string
	// Output is nil when nothing was written.
	Output  *output.Summary
	Elapsed time.Duration
}

// Diagnostics returns expansion and validation diagnostics together.
func (r *Report) Diagnostics() diagnostic.Diagnostics {
	var all diagnostic.Diagnostics
	if r.Expanded != nil {
		all.Merge(r.Expanded.Diagnostics)
	}

	if r.Validation != nil {
		all.Merge(*r.Validation)
	}

	return all
}

// Run loads, expands, validates, builds the graph and writes the output.
// Diagnostics never fail a run; load and write errors do.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	o := &options{write: true}
	for _, opt := range opts {
		opt(o)
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	logger = logger.With(slog.String("run_id", report.RunID))

	defaults, err := cfg.Defaults()
	if err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}

	lc := cfg.RegistryConfig()
	lc.Logger = logger

	report.Raw, err = registry.Load(lc)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expOpts := []expand.Option{
		expand.WithLogger(logger),
		expand.WithDefaults(defaults),
		expand.WithCycleTolerance(cfg.CycleTolerance),
	}
	if o.observer != nil {
		expOpts = append(expOpts, expand.WithObserver(o.observer))
	}

	report.Expanded = expand.New(expOpts...).Expand(report.Raw)
	var hook func(diagnostic.Diagnostic)
	if o.observer != nil {
		hook = o.observer.Reported
	}

	report.Validation = validateAndLog(report.Expanded.Expanded, logger, hook)

	report.Graph = graph.Build(report.Expanded.Expanded)
	if order, err := report.Graph.Order(); err != nil {
		logger.Warn("Cannot order documents", slog.String("error", err.Error()))
	} else {
		report.Order = order
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if o.write {
		report.Output, err = output.NewWriter(cfg.Output, logger).Write(report.Expanded.Expanded)
		if err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(start)

	diags := report.Diagnostics()
	logger.Info("Run finished",
		slog.Int("errors", len(diags.Errors)),
		slog.Int("warnings", len(diags.Warnings)),
		slog.Duration("elapsed", report.Elapsed))

	return report, nil
}
