package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"schema-expander/internal/common"
)

// Code identifies a kind of diagnostic.
type Code string

// Expansion diagnostics.
const (
	// CodeMalformedPointer: a pointer does not have three "/" segments.
	CodeMalformedPointer Code = "MalformedPointer"
	// CodeMissingAncestor: a pointer parses but names no loaded document.
	CodeMissingAncestor Code = "MissingAncestor"
	// CodeCircularReference: the cycle guard aborted an inheritance chain.
	CodeCircularReference Code = "CircularReference"
	// CodeOrderingWarning: an "itemsOrder" name is not a property.
	CodeOrderingWarning Code = "OrderingWarning"
	// CodeRemovalWarning: a "$remove" name is not a property.
	CodeRemovalWarning Code = "RemovalWarning"
)

// Validation diagnostics.
const (
	CodeUnusedDocument     Code = "UnusedDocument"
	CodeUnusedAbstract     Code = "UnusedAbstract"
	CodeUnresolvedExtend   Code = "UnresolvedExtend"
	CodePropertiesAndItems Code = "PropertiesAndItems"
	CodeAbstractTopLevel   Code = "AbstractTopLevel"
)

// Diagnostics holds all diagnostic information from a pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code Code
	// Message is the human-readable description.
	Message string
	// Document is the "$path" of the top-level document concerned (if any).
	Document string
	// Property is the dotted property path inside Document (if any).
	Property string
	// Pointer is the extension pointer involved (if any).
	Pointer string
	// Stack is the inheritance stack at the time of a cycle abort.
	Stack []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code Code, message, document, property string) {
	d.Add(Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Document: document,
		Property: property,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code Code, message, document, property string) {
	d.Add(Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Document: document,
		Property: property,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code Code, message, document, property string) {
	d.Add(Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Document: document,
		Property: property,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// ByCode returns the diagnostics with the given code, in severity order.
func (d *Diagnostics) ByCode(code Code) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.All() {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// Count returns the number of diagnostics of every severity.
func (d *Diagnostics) Count() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Document != "" {
		prefix = append(prefix, d.Document)
	}

	if d.Property != "" {
		prefix = append(prefix, d.Property)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Stack) > 0 {
		msg += " (stack: " + strings.Join(d.Stack, " -> ") + ")"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, "#") + ": " + msg
	}

	return msg
}
