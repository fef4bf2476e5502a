package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"schema-expander/internal/config"
	"schema-expander/internal/diagnostic"
	"schema-expander/internal/metrics"
	"schema-expander/internal/pipeline"
	"schema-expander/internal/watch"
)

func expandCmd(a *app) *cobra.Command {
	var (
		strict      bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand all documents and write them to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				opts []pipeline.Option
				reg  *prometheus.Registry
			)

			if metricsFile != "" {
				reg = prometheus.NewRegistry()

				m, err := metrics.New(reg)
				if err != nil {
					return err
				}

				opts = append(opts, pipeline.WithObserver(m))
			}

			report, err := pipeline.Run(cmd.Context(), a.cfg, a.logger, opts...)
			if err != nil {
				return err
			}

			diags := report.Diagnostics()
			fmt.Fprintf(cmd.OutOrStdout(), "expanded %d documents into %s (%d errors, %d warnings)\n",
				report.Expanded.Expanded.Len(), a.cfg.Output, len(diags.Errors), len(diags.Warnings))

			if reg != nil {
				if err := metrics.WriteTextfile(metricsFile, reg); err != nil {
					return err
				}
			}

			if strict && diags.HasErrors() {
				printDiagnostics(cmd.ErrOrStderr(), diags)
				return errDiagnostics
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with status 1 when any error diagnostic is reported")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")

	return cmd
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Expand and validate without writing, and print diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := pipeline.Run(cmd.Context(), a.cfg, a.logger, pipeline.WithoutWrite())
			if err != nil {
				return err
			}

			diags := report.Diagnostics()
			printDiagnostics(cmd.OutOrStdout(), diags)

			if diags.HasErrors() {
				return errDiagnostics
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d documents\n", report.Expanded.Expanded.Len())

			return nil
		},
	}
}

func graphCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the inheritance graph of the expanded documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := pipeline.Run(cmd.Context(), a.cfg, a.logger, pipeline.WithoutWrite())
			if err != nil {
				return err
			}

			switch format {
			case "dot":
				return report.Graph.WriteDOT(cmd.OutOrStdout())
			case "order":
				order, err := report.Graph.Order()
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(order, "\n"))

				return nil
			case "edges":
				fmt.Fprint(cmd.OutOrStdout(), report.Graph.String())
				return nil
			default:
				return fmt.Errorf("unknown format %q (want dot, order or edges)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format (dot, order, edges)")

	return cmd
}

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Expand once, then again on every change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			w, err := watch.New(a.cfg.Source, a.cfg.Watch.Debounce, a.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Seed(); err != nil {
				return err
			}

			a.watchRun(ctx, cmd.OutOrStdout())

			return w.Run(ctx, func(ctx context.Context, _ []watch.Change) error {
				a.watchRun(ctx, cmd.OutOrStdout())
				return nil
			})
		},
	}
}

// watchRun runs the pipeline once. Failures are logged so the loop keeps
// going.
func (a *app) watchRun(ctx context.Context, w io.Writer) {
	report, err := pipeline.Run(ctx, a.cfg, a.logger)
	if err != nil {
		a.logger.Error("Run failed", slog.String("error", err.Error()))
		return
	}

	diags := report.Diagnostics()
	fmt.Fprintf(w, "expanded %d documents (%d errors, %d warnings)\n",
		report.Expanded.Expanded.Len(), len(diags.Errors), len(diags.Warnings))
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return err
				}

				_, err = cmd.OutOrStdout().Write(data)

				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create the user config file with defaults if it does not exist",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := config.NewLoader(a.logger).EnsureUserConfig()
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), path)

				return nil
			},
		},
	)

	return cmd
}

func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d.String())
	}
}
