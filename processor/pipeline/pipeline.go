// Package pipeline runs the cleaning stages over a vendor dataset checkout
// and writes the canonical stores.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	semerrors "github.com/c360studio/semstreams/pkg/errs"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/c360studio/standardslib/processor/constructions"
	"github.com/c360studio/standardslib/processor/constructionsets"
	"github.com/c360studio/standardslib/processor/materials"
	"github.com/c360studio/standardslib/processor/programtypes"
	"github.com/c360studio/standardslib/processor/schedules"
	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
	"github.com/c360studio/standardslib/storage"
	"github.com/c360studio/standardslib/validation"
)

// ErrValidation is returned when the built catalog fails the closure checks.
var ErrValidation = errors.New("catalog failed validation")

// Config holds the options of one build.
type Config struct {
	Vintages       []source.Vintage
	PruneSchedules bool
	Validate       bool

	// Progress, when set, receives a progress bar over the vintages.
	Progress io.Writer

	Logger *slog.Logger
}

// Result is the outcome of a build.
type Result struct {
	Catalog  *standards.Catalog
	Manifest *storage.Manifest
	Report   *validation.Report
}

// Pipeline builds a catalog from one dataset.
type Pipeline struct {
	loader *source.Loader
	config Config
	logger *slog.Logger
}

// New creates a pipeline reading through loader.
func New(loader *source.Loader, cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Vintages) == 0 {
		cfg.Vintages = source.DefaultVintages()
	}
	return &Pipeline{loader: loader, config: cfg, logger: logger}
}

// Build runs every cleaning stage and returns the catalog without writing
// it. The stages run in order: schedules, program types, materials,
// constructions, construction sets.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	names := make([]string, len(p.config.Vintages))
	for i, v := range p.config.Vintages {
		names[i] = v.Name
	}
	manifest := storage.NewManifest(p.loader.Root(), names)
	log := p.logger.With("run_id", manifest.RunID)
	log.Info("Starting build", "source", p.loader.Root(), "vintages", names)

	cat := standards.NewCatalog()

	rawSchedules, err := p.loader.Schedules()
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	if cat.Schedules, err = schedules.Clean(rawSchedules, log); err != nil {
		return nil, fmt.Errorf("clean schedules: %w", err)
	}

	bar := p.startProgress(2 * len(p.config.Vintages))

	for _, v := range p.config.Vintages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := p.loader.SpaceTypes(v)
		if err != nil {
			return nil, fmt.Errorf("load space types: %w", err)
		}
		res, err := programtypes.Clean(raw, v.Name, log)
		if err != nil {
			return nil, fmt.Errorf("clean program types %s: %w", v.Name, err)
		}
		for id, pt := range res.ProgramTypes {
			cat.ProgramTypes[id] = pt
		}
		cat.Registries[v.Name] = res.Registry
		increment(bar)
	}

	rawMaterials, err := p.loader.Materials()
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	mats, err := materials.Clean(rawMaterials, log)
	if err != nil {
		return nil, fmt.Errorf("clean materials: %w", err)
	}

	rawConstructions, err := p.loader.Constructions()
	if err != nil {
		return nil, fmt.Errorf("load constructions: %w", err)
	}
	cons := constructions.Clean(rawConstructions, mats, log)

	var resized int
	for _, v := range p.config.Vintages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		props, err := p.loader.ConstructionProperties(v)
		if err != nil {
			return nil, fmt.Errorf("load construction properties: %w", err)
		}
		syn := constructionsets.NewSynthesizer(v.Name, props, cons, mats, log)
		sets, err := syn.Build()
		if err != nil {
			return nil, fmt.Errorf("build construction sets %s: %w", v.Name, err)
		}
		for name, cs := range sets {
			cat.ConstructionSets[name] = cs
		}
		resized += syn.Created()
		increment(bar)
	}
	if bar != nil {
		bar.FinishPrint("Construction sets built")
	}

	cat.OpaqueMaterials = mats.Opaque
	cat.WindowMaterials = mats.Window
	cat.OpaqueConstructions = cons.Opaque
	cat.WindowConstructions = cons.Window

	if p.config.PruneSchedules {
		cat.Schedules = schedules.Prune(cat.Schedules, cat.ProgramTypes, log)
	}

	result := &Result{Catalog: cat, Manifest: manifest}
	if p.config.Validate {
		result.Report = validation.Check(cat)
		if !result.Report.Valid {
			for _, e := range result.Report.Errors {
				log.Error("Dangling reference",
					"category", e.Category,
					"id", e.ID,
					"reference", e.Reference,
					"message", e.Message)
			}
			return result, semerrors.WrapFatal(
				fmt.Errorf("%w: %s", ErrValidation, result.Report.Summary),
				"pipeline", "Build", "validate catalog")
		}
	}

	manifest.Counts = cat.Counts()
	manifest.FinishedAt = time.Now().UTC()
	log.Info("Build complete",
		"resized_constructions", resized,
		"duration", manifest.FinishedAt.Sub(manifest.StartedAt))
	return result, nil
}

// Run builds the catalog and writes it with its manifest to store.
func (p *Pipeline) Run(ctx context.Context, store *storage.Store) (*Result, error) {
	res, err := p.Build(ctx)
	if err != nil {
		return res, err
	}
	if err := store.Write(res.Catalog); err != nil {
		return res, err
	}
	if err := store.WriteManifest(res.Manifest); err != nil {
		return res, err
	}
	p.logger.Info("Wrote canonical stores", "dir", store.Dir(), "run_id", res.Manifest.RunID)
	return res, nil
}

func (p *Pipeline) startProgress(total int) *pb.ProgressBar {
	if p.config.Progress == nil {
		return nil
	}
	bar := pb.New(total)
	bar.Output = p.config.Progress
	bar.ShowTimeLeft = false
	return bar.Start()
}

func increment(bar *pb.ProgressBar) {
	if bar != nil {
		bar.Increment()
	}
}
