package diagnostic

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsAddAndMerge(t *testing.T) {
	var d Diagnostics

	d.AddError(CodeMissingAncestor, "no such document", "/model/Circle.json", "radius")
	d.AddWarning(CodeOrderingWarning, "stale name", "/model/Circle.json", "")
	d.AddInfo(CodeAbstractTopLevel, "abstract model", "/model/Shape.json", "")

	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())
	assert.Equal(t, 3, d.Count())

	var other Diagnostics
	other.AddWarning(CodeRemovalWarning, "stale removal", "/form/F.json", "")
	d.Merge(other)

	assert.Len(t, d.Warnings, 2)
	assert.Len(t, d.ByCode(CodeRemovalWarning), 1)

	all := d.All()
	require.Len(t, all, 4)
	assert.Equal(t, DiagnosticError, all[0].Severity)
}

func TestDiagnosticsError(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Error())

	d.Add(Diagnostic{
		Severity: DiagnosticError,
		Code:     CodeCircularReference,
		Message:  "inheritance cycle",
		Document: "/field/a.json",
		Stack:    []string{"/field/a.json", "/field/b.json"},
	})

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		"/field/a.json: [CircularReference] inheritance cycle (stack: /field/a.json -> /field/b.json)",
		err.Error())
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name:     "message only",
			diag:     Diagnostic{Message: "plain"},
			expected: "plain",
		},
		{
			name:     "document and property",
			diag:     Diagnostic{Code: CodeRemovalWarning, Message: "gone", Document: "/model/M.json", Property: "a.b"},
			expected: "/model/M.json#a.b: [RemovalWarning] gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.String())
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}

func TestReporterLogsAndHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var diags Diagnostics
	r := NewReporter(&diags, logger)

	var seen []Code
	r.OnReport(func(d Diagnostic) { seen = append(seen, d.Code) })

	r.Report(Diagnostic{
		Severity: DiagnosticWarning,
		Code:     CodeMissingAncestor,
		Message:  "ancestor not found",
		Document: "/model/Circle.json",
		Pointer:  "/field/nope.json",
	})

	assert.Len(t, diags.Warnings, 1)
	assert.Equal(t, []Code{CodeMissingAncestor}, seen)
	assert.Same(t, &diags, r.Diagnostics())

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=MissingAncestor")
	assert.Contains(t, out, "pointer=/field/nope.json")
}
