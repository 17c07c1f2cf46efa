package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/standardslib/export"
	"github.com/c360studio/standardslib/library"
)

func buildCmd(app *App) *cobra.Command {
	var (
		opts     BuildOptions
		progress bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Clean the vendor tables into the canonical stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if progress {
				opts.Progress = cmd.ErrOrStderr()
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if watch {
				if err := app.Watch(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}

			res, err := app.Build(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %s\n", res.Manifest.RunID, formatCounts(res.Manifest.Counts))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Vintages, "vintage", nil, "Vintages to build (default: all configured)")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "Drop schedules no program type references")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar over the vintages")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild whenever the dataset changes")
	return cmd
}

func validateCmd(app *App) *cobra.Command {
	var hydrate bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the cross references of the canonical stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Validate(cmd.Context(), hydrate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range report.Errors {
				fmt.Fprintf(out, "error: %s %s: %s\n", r.Category, r.ID, r.Message)
			}
			for _, r := range report.Warnings {
				fmt.Fprintf(out, "warning: %s %s: %s\n", r.Category, r.ID, r.Message)
			}
			fmt.Fprintln(out, report.Summary)
			if !report.Valid {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hydrate, "hydrate", false, "Also build every object through the library")
	return cmd
}

func pruneSchedulesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prune-schedules",
		Short: "Drop schedules no program type references from the schedule store",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.PruneSchedules()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d schedules\n", n)
			return nil
		},
	}
}

func lookupCmd(app *App) *cobra.Command {
	var (
		format string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <category> <identifier>...",
		Short: "Resolve identifiers into hydrated SI objects",
		Long: `Resolve identifiers into hydrated SI objects.

Categories: ` + categoryNames(),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := library.ParseCategory(args[0])
			if err != nil {
				return err
			}
			lib, metrics, err := app.OpenLibrary(stats)
			if err != nil {
				return err
			}
			defer lib.Close()

			out := cmd.OutOrStdout()
			for _, id := range args[1:] {
				obj, err := lib.Resolve(c, id)
				if err != nil {
					return err
				}
				if err := writeObject(out, obj, format); err != nil {
					return err
				}
			}

			if stats {
				return writeStats(cmd, lib, metrics)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print cache statistics and counters after the lookup")
	return cmd
}

func listCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <category>",
		Short: "List the identifiers of a category",
		Long: `List the identifiers of a category.

Categories: ` + categoryNames(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := library.ParseCategory(args[0])
			if err != nil {
				return err
			}
			lib, _, err := app.OpenLibrary(false)
			if err != nil {
				return err
			}
			defer lib.Close()

			ids, err := lib.List(c)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func registryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "registry <vintage>",
		Short: "Print the building types and program types of a vintage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := app.OpenLibrary(false)
			if err != nil {
				return err
			}
			defer lib.Close()

			reg, ok := lib.Registry(args[0])
			if !ok {
				return fmt.Errorf("%w: registry %s", library.ErrNotFound, args[0])
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reg)
		},
	}
}

func exportCmd(app *App) *cobra.Command {
	var (
		profile string
		format  string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the fully hydrated library in SI units",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if _, ok := export.Profiles[export.Profile(profile)]; !ok {
				return fmt.Errorf("unknown profile: %s", profile)
			}
			lib, _, err := app.OpenLibrary(false)
			if err != nil {
				return err
			}
			defer lib.Close()

			exporter := export.NewExporter(lib, export.Profile(profile), app.logger)
			if outDir == "" {
				return exporter.Export(cmd.Context(), cmd.OutOrStdout(), f)
			}
			paths, err := exporter.ExportDir(cmd.Context(), outDir, f)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", string(export.ProfileFull), "Export profile (envelope, loads, full)")
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "Output format ("+strings.Join(export.FormatNames(), ", ")+")")
	cmd.Flags().StringVar(&outDir, "out", "", "Write one file per category into this directory instead of stdout")
	return cmd
}

func writeObject(out io.Writer, obj any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(obj)
	case "yaml":
		data, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeStats(cmd *cobra.Command, lib *library.Library, metrics *library.Metrics) error {
	out := cmd.ErrOrStderr()
	stats := lib.Stats()
	fmt.Fprintf(out, "%-20s %8s %8s %8s %8s %8s\n", "category", "size", "hits", "misses", "lookups", "hydrated")
	for _, c := range library.Categories {
		s := stats[c]
		counts, err := metrics.Snapshot(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %8d %8d %8d %8.0f %8.0f\n",
			c, s.CurrentSize, s.Hits, s.Misses, counts.Lookups, counts.Hydrations)
	}
	return nil
}

func categoryNames() string {
	names := make([]string, 0, len(library.Categories)+2)
	for _, c := range library.Categories {
		names = append(names, string(c))
	}
	names = append(names, string(library.CategoryMaterial), string(library.CategoryConstruction))
	return strings.Join(names, ", ")
}

func formatCounts(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, c := range library.Categories {
		if n, ok := counts[string(c)]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	return strings.Join(parts, " ")
}
