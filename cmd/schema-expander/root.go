package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"schema-expander/internal/config"
)

const (
	Version = "0.1.0"
	appName = "schema-expander"
)

// errDiagnostics signals that the run reported errors which were already
// printed.
var errDiagnostics = errors.New("diagnostics reported errors")

// app holds what every subcommand needs after flag parsing.
type app struct {
	configPath     string
	logLevel       string
	logFormat      string
	source         string
	output         string
	cycleTolerance int
	annotations    annotationFlag

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{annotations: annotationFlag{}}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Expand wiki schema inheritance",
		Long: `schema-expander resolves "$extend" pointers between wiki field, model and
form schemas, merges inherited content and writes the expanded documents.

Configuration is read from ~/.config/schema-expander/config.yaml, then the
nearest schema-expander.yaml, then --config. Flags override all files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVarP(&a.source, "source", "s", "", "Source directory (overrides config)")
	flags.StringVarP(&a.output, "output", "o", "", "Output directory (overrides config)")
	flags.IntVar(&a.cycleTolerance, "cycle-tolerance", 0, "Ancestor re-entry tolerance (overrides config)")
	flags.Var(a.annotations, "annotation", "Default merge tokens for a key, e.g. required=@prepend,@unique (repeatable)")

	cmd.AddCommand(
		expandCmd(a),
		checkCmd(a),
		graphCmd(a),
		watchCmd(a),
		configCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// setup builds the logger and loads the layered config with flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
	if err != nil {
		return err
	}

	a.logger = logger

	cfg, err := config.NewLoader(logger).Load(a.configPath)
	if err != nil {
		return err
	}

	cfg.Merge(&config.Config{
		Source:         a.source,
		Output:         a.output,
		CycleTolerance: a.cycleTolerance,
		Annotations:    a.annotations,
	})

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg

	return nil
}
