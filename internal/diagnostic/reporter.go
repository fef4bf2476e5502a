package diagnostic

import (
	"context"
	"log/slog"
)

// Reporter collects diagnostics and mirrors them to a logger.
type Reporter struct {
	diags  *Diagnostics
	logger *slog.Logger
	hooks  []func(Diagnostic)
}

// NewReporter creates a Reporter writing into diags. A nil logger means
// slog.Default().
func NewReporter(diags *Diagnostics, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}

	if diags == nil {
		diags = &Diagnostics{}
	}

	return &Reporter{diags: diags, logger: logger}
}

// OnReport registers fn to be called for every reported diagnostic.
func (r *Reporter) OnReport(fn func(Diagnostic)) {
	r.hooks = append(r.hooks, fn)
}

// Diagnostics returns the collected diagnostics.
func (r *Reporter) Diagnostics() *Diagnostics {
	return r.diags
}

// Report records diag and logs it at the level matching its severity.
func (r *Reporter) Report(diag Diagnostic) {
	r.diags.Add(diag)

	attrs := []slog.Attr{slog.String("code", string(diag.Code))}
	if diag.Document != "" {
		attrs = append(attrs, slog.String("document", diag.Document))
	}

	if diag.Property != "" {
		attrs = append(attrs, slog.String("property", diag.Property))
	}

	if diag.Pointer != "" {
		attrs = append(attrs, slog.String("pointer", diag.Pointer))
	}

	if len(diag.Stack) > 0 {
		attrs = append(attrs, slog.Any("stack", diag.Stack))
	}

	r.logger.LogAttrs(context.Background(), level(diag.Severity), diag.Message, attrs...)

	for _, fn := range r.hooks {
		fn(diag)
	}
}

func level(s DiagnosticSeverity) slog.Level {
	switch s {
	case DiagnosticError:
		return slog.LevelError
	case DiagnosticWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
