package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/c360studio/semstreams/metric"

	"github.com/c360studio/standardslib/config"
	"github.com/c360studio/standardslib/library"
	"github.com/c360studio/standardslib/processor/pipeline"
	"github.com/c360studio/standardslib/processor/schedules"
	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/storage"
	"github.com/c360studio/standardslib/validation"
)

// App wires configuration, the build pipeline and the library together.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// setup loads the layered configuration and applies the global flags.
func (a *App) setup(flags globalFlags) error {
	bootLevel := flags.logLevel
	if bootLevel == "" {
		bootLevel = "info"
	}
	boot, err := newLogger(bootLevel)
	if err != nil {
		return err
	}

	cfg, err := config.NewLoader(boot).Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.sourceDir != "" {
		cfg.Source.Dir = flags.sourceDir
	}
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// BuildOptions adjusts one build run.
type BuildOptions struct {
	Vintages []string
	Prune    bool
	Progress io.Writer
}

// Build runs the cleaning pipeline and writes the canonical stores.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*pipeline.Result, error) {
	vintages, err := a.cfg.SelectVintages(opts.Vintages...)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(source.NewLoader(a.cfg.Source.Dir), pipeline.Config{
		Vintages:       vintages,
		PruneSchedules: opts.Prune || a.cfg.Build.PruneSchedules,
		Validate:       a.cfg.Build.Validate,
		Progress:       opts.Progress,
		Logger:         a.logger,
	})
	return p.Run(ctx, a.store())
}

// Watch builds once and then rebuilds whenever the dataset changes, until
// ctx is done. Failed rebuilds are logged. The previous stores stay in
// place because Store.Write only swaps in a complete set.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	if _, err := a.Build(ctx, opts); err != nil {
		a.logger.Error("Initial build failed", "error", err)
	}

	w, err := source.NewWatcher(source.WatcherConfig{
		Root:   a.cfg.Source.Dir,
		Logger: a.logger,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	for changed := range w.Changes() {
		a.logger.Info("Dataset changed, rebuilding", "files", len(changed))
		if _, err := a.Build(ctx, opts); err != nil {
			a.logger.Error("Rebuild failed", "error", err)
		}
	}
	return ctx.Err()
}

// Validate checks the cross references of the written stores. With
// hydrate set every object is also built, which catches unknown types.
func (a *App) Validate(ctx context.Context, hydrate bool) (*validation.Report, error) {
	cat, err := a.store().Load()
	if err != nil {
		return nil, err
	}
	report := validation.Check(cat)
	if !hydrate || !report.Valid {
		return report, nil
	}

	lib, err := library.New(cat, library.Options{Logger: a.logger})
	if err != nil {
		return nil, err
	}
	defer lib.Close()
	if err := lib.Preload(ctx); err != nil {
		report.AddError(validation.Result{
			Level:    validation.LevelHydration,
			Message:  err.Error(),
			Category: "library",
		})
	}
	return report, nil
}

// PruneSchedules drops unreferenced schedules from the written store and
// returns how many were removed.
func (a *App) PruneSchedules() (int, error) {
	st := a.store()
	cat, err := st.Load()
	if err != nil {
		return 0, err
	}
	before := cat.Schedules.Len()
	pruned := schedules.Prune(cat.Schedules, cat.ProgramTypes, a.logger)
	if err := st.WriteSchedules(pruned); err != nil {
		return 0, err
	}
	return before - pruned.Len(), nil
}

// OpenLibrary loads the written stores into a library. Metrics are
// attached when enabled in the config or forced by the caller.
func (a *App) OpenLibrary(withMetrics bool) (*library.Library, *library.Metrics, error) {
	cat, err := a.store().Load()
	if err != nil {
		return nil, nil, err
	}

	var metrics *library.Metrics
	if withMetrics || a.cfg.Library.Metrics {
		if metrics, err = library.NewMetrics(metric.NewMetricsRegistry()); err != nil {
			return nil, nil, fmt.Errorf("create metrics: %w", err)
		}
	}

	lib, err := library.New(cat, library.Options{Metrics: metrics, Logger: a.logger})
	if err != nil {
		return nil, nil, err
	}
	return lib, metrics, nil
}

func (a *App) store() *storage.Store {
	return storage.NewStore(a.cfg.Output.Dir)
}
