// Package main provides the standardslib binary entry point.
// standardslib cleans the vendor building-energy standards tables into
// canonical stores and serves hydrated objects from them.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/c360studio/standardslib/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "standardslib"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	sourceDir  string
	outputDir  string
}

func rootCmd() *cobra.Command {
	var flags globalFlags
	app := &App{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Building energy standards library",
		Long: `standardslib cleans the OpenStudio Standards tables (materials,
constructions, construction sets, schedules and program types) into
canonical JSON stores, and resolves identifiers in those stores into
hydrated SI objects on demand.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.sourceDir, "source", "", "Vendor dataset directory (overrides source.dir)")
	cmd.PersistentFlags().StringVar(&flags.outputDir, "output", "", "Canonical store directory (overrides output.dir)")

	cmd.AddCommand(
		buildCmd(app),
		validateCmd(app),
		pruneSchedulesCmd(app),
		lookupCmd(app),
		listCmd(app),
		registryCmd(app),
		exportCmd(app),
		&cobra.Command{
			Use:               "version",
			Short:             "Print version information",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// newLogger builds the text handler used by every command.
func newLogger(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
