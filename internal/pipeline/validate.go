package pipeline

import (
	"log/slog"

	"schema-expander/internal/diagnostic"
	"schema-expander/internal/registry"
	"schema-expander/internal/validate"
)

// validateAndLog runs the consistency checks, logs each finding and passes
// it to hook when set.
func validateAndLog(reg *registry.Registry, logger *slog.Logger, hook func(diagnostic.Diagnostic)) *diagnostic.Diagnostics {
	res := validate.Validate(reg)

	rep := diagnostic.NewReporter(nil, logger)
	if hook != nil {
		rep.OnReport(hook)
	}

	for _, d := range res.All() {
		rep.Report(d)
	}

	return res
}
