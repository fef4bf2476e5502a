// Package watch re-runs work when files under a source tree change.
//
// Events are collected until the tree has been quiet for the debounce delay.
// Each file in the batch is then hashed with BLAKE3 and compared with the
// hash from the previous batch, so editors that rewrite a file with the same
// bytes do not trigger a run.
package watch
