// Package expand resolves "$extend" inheritance across a registry of schema
// documents.
//
// A pass clones the registry, then expands every field, model and form in
// that order. Expanding a document merges each ancestor into it (ancestors
// are expanded first), recurses into its properties and items, applies
// "$remove" and finally "itemsOrder". Resolved documents lose "$extend" and
// "$schema" and gain "$reference" and "$itemsOrder".
//
// Inheritance cycles are cut by a per-document guard that allows an ancestor
// to be re-entered a bounded number of times (see DefaultCycleTolerance).
// Every problem is reported as a diagnostic; a pass never fails as a whole.
package expand
