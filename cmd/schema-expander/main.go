// Package main provides the CLI entrypoint for schema-expander.
//
// schema-expander resolves "$extend" inheritance across a wiki's field,
// model and form schemas:
//   - Loads JSON, JSONC and YAML documents from a source tree
//   - Merges ancestors with annotation-driven array combination
//   - Validates the expanded set and writes it as ordered JSON
//   - Re-runs on every change in watch mode
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}
