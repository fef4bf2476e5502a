// Package metrics exposes Prometheus counters for expansion passes:
// passes run, documents expanded, ancestor merges, diagnostics by code and
// pass duration.
package metrics
