// Package pipeline runs one complete pass over a source tree: load the
// registry, expand it, validate the result, build the inheritance graph and
// write the expanded documents. Every run gets its own run id, attached to
// all log records of the run.
package pipeline
