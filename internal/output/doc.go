// Package output writes expanded documents to disk as indented JSON with
// the source key order preserved.
package output
