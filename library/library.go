// Package library resolves identifiers from the canonical catalog into
// SI-unit model objects.
//
// Each category keeps its own Cache. An identifier is hydrated on its first
// lookup, locked, and shared by every later caller; nested identifiers such
// as the layers of a construction are resolved through the same caches. A
// Library is safe for concurrent use.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/c360studio/semstreams/pkg/cache"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/standards"
	"github.com/c360studio/standardslib/storage"
)

var (
	// ErrNotFound is returned when an identifier is not in the catalog.
	ErrNotFound = storage.ErrNotFound

	// ErrUnrecognizedType is returned for a material type, day type or
	// category the library cannot build.
	ErrUnrecognizedType = errors.New("unrecognized type")
)

// Category names a kind of object the library resolves.
type Category string

const (
	CategoryOpaqueMaterial     Category = "opaque_material"
	CategoryWindowMaterial     Category = "window_material"
	CategoryOpaqueConstruction Category = "opaque_construction"
	CategoryWindowConstruction Category = "window_construction"
	CategoryConstructionSet    Category = "construction_set"
	CategorySchedule           Category = "schedule"
	CategoryProgramType        Category = "program_type"

	// CategoryMaterial and CategoryConstruction search both families.
	CategoryMaterial     Category = "material"
	CategoryConstruction Category = "construction"
)

// Categories lists the cached categories in dependency order.
var Categories = []Category{
	CategoryOpaqueMaterial,
	CategoryWindowMaterial,
	CategoryOpaqueConstruction,
	CategoryWindowConstruction,
	CategoryConstructionSet,
	CategorySchedule,
	CategoryProgramType,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	switch c {
	case CategoryMaterial, CategoryConstruction:
		return c, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: category %q", ErrUnrecognizedType, s)
}

func notFound(c Category, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, c, id)
}

// Options configures a Library.
type Options struct {
	// Metrics, when set, counts lookups and hydrations per category.
	Metrics *Metrics
	Logger  *slog.Logger
}

// Library serves hydrated objects from a catalog.
type Library struct {
	cat    *standards.Catalog
	logger *slog.Logger

	opaqueMaterials     *Cache[model.OpaqueMaterial]
	windowMaterials     *Cache[model.WindowMaterial]
	opaqueConstructions *Cache[*model.OpaqueConstruction]
	windowConstructions *Cache[*model.WindowConstruction]
	constructionSets    *Cache[*model.ConstructionSet]
	schedules           *Cache[*model.ScheduleRuleset]
	programTypes        *Cache[*model.ProgramType]
}

// New creates a library over cat. The catalog must not be modified while
// the library is in use.
func New(cat *standards.Catalog, opts Options) (*Library, error) {
	if cat == nil {
		return nil, errors.New("library: nil catalog")
	}
	l := &Library{cat: cat, logger: opts.Logger}
	if l.logger == nil {
		l.logger = slog.Default()
	}

	var err error
	if l.opaqueMaterials, err = NewCache[model.OpaqueMaterial](CategoryOpaqueMaterial, opts.Metrics); err != nil {
		return nil, err
	}
	if l.windowMaterials, err = NewCache[model.WindowMaterial](CategoryWindowMaterial, opts.Metrics); err != nil {
		return nil, err
	}
	if l.opaqueConstructions, err = NewCache[*model.OpaqueConstruction](CategoryOpaqueConstruction, opts.Metrics); err != nil {
		return nil, err
	}
	if l.windowConstructions, err = NewCache[*model.WindowConstruction](CategoryWindowConstruction, opts.Metrics); err != nil {
		return nil, err
	}
	if l.constructionSets, err = NewCache[*model.ConstructionSet](CategoryConstructionSet, opts.Metrics); err != nil {
		return nil, err
	}
	if l.schedules, err = NewCache[*model.ScheduleRuleset](CategorySchedule, opts.Metrics); err != nil {
		return nil, err
	}
	if l.programTypes, err = NewCache[*model.ProgramType](CategoryProgramType, opts.Metrics); err != nil {
		return nil, err
	}
	return l, nil
}

// Catalog returns the catalog the library reads from.
func (l *Library) Catalog() *standards.Catalog { return l.cat }

// OpaqueMaterial returns the opaque material with the given identifier.
func (l *Library) OpaqueMaterial(id string) (model.OpaqueMaterial, error) {
	return l.opaqueMaterials.GetOrHydrate(id, func() (model.OpaqueMaterial, error) {
		rec, ok := l.cat.OpaqueMaterials[id]
		if !ok {
			return nil, notFound(CategoryOpaqueMaterial, id)
		}
		return OpaqueMaterialFromStandards(rec)
	})
}

// WindowMaterial returns the window material with the given identifier.
func (l *Library) WindowMaterial(id string) (model.WindowMaterial, error) {
	return l.windowMaterials.GetOrHydrate(id, func() (model.WindowMaterial, error) {
		rec, ok := l.cat.WindowMaterials[id]
		if !ok {
			return nil, notFound(CategoryWindowMaterial, id)
		}
		return WindowMaterialFromStandards(rec)
	})
}

// Material returns an opaque or window material.
func (l *Library) Material(id string) (model.Object, error) {
	if _, ok := l.cat.OpaqueMaterials[id]; ok {
		return object(l.OpaqueMaterial(id))
	}
	if _, ok := l.cat.WindowMaterials[id]; ok {
		return object(l.WindowMaterial(id))
	}
	return nil, notFound(CategoryMaterial, id)
}

// OpaqueConstruction returns the opaque construction with the given
// identifier and resolves its layers.
func (l *Library) OpaqueConstruction(id string) (*model.OpaqueConstruction, error) {
	return l.opaqueConstructions.GetOrHydrate(id, func() (*model.OpaqueConstruction, error) {
		rec, ok := l.cat.OpaqueConstructions[id]
		if !ok {
			return nil, notFound(CategoryOpaqueConstruction, id)
		}
		return OpaqueConstructionFromStandards(rec, l.OpaqueMaterial)
	})
}

// WindowConstruction returns the window construction with the given
// identifier and resolves its layers.
func (l *Library) WindowConstruction(id string) (*model.WindowConstruction, error) {
	return l.windowConstructions.GetOrHydrate(id, func() (*model.WindowConstruction, error) {
		rec, ok := l.cat.WindowConstructions[id]
		if !ok {
			return nil, notFound(CategoryWindowConstruction, id)
		}
		return WindowConstructionFromStandards(rec, l.WindowMaterial)
	})
}

// Construction returns an opaque or window construction.
func (l *Library) Construction(id string) (model.Object, error) {
	if _, ok := l.cat.OpaqueConstructions[id]; ok {
		return object(l.OpaqueConstruction(id))
	}
	if _, ok := l.cat.WindowConstructions[id]; ok {
		return object(l.WindowConstruction(id))
	}
	return nil, notFound(CategoryConstruction, id)
}

// ConstructionSet returns the construction set with the given
// vintage-qualified identifier.
func (l *Library) ConstructionSet(id string) (*model.ConstructionSet, error) {
	return l.constructionSets.GetOrHydrate(id, func() (*model.ConstructionSet, error) {
		rec, ok := l.cat.ConstructionSets[id]
		if !ok {
			return nil, notFound(CategoryConstructionSet, id)
		}
		return ConstructionSetFromStandards(rec, l.OpaqueConstruction, l.WindowConstruction)
	})
}

// Schedule returns the schedule ruleset with the given name.
func (l *Library) Schedule(id string) (*model.ScheduleRuleset, error) {
	return l.schedules.GetOrHydrate(id, func() (*model.ScheduleRuleset, error) {
		recs, ok := l.cat.Schedules.Get(id)
		if !ok {
			return nil, notFound(CategorySchedule, id)
		}
		return ScheduleRulesetFromStandards(id, recs)
	})
}

// ProgramType returns the program type with the given vintage-qualified
// identifier.
func (l *Library) ProgramType(id string) (*model.ProgramType, error) {
	return l.programTypes.GetOrHydrate(id, func() (*model.ProgramType, error) {
		rec, ok := l.cat.ProgramTypes[id]
		if !ok {
			return nil, notFound(CategoryProgramType, id)
		}
		return ProgramTypeFromStandards(rec, l.Schedule)
	})
}

func object[T model.Object](v T, err error) (model.Object, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Resolve looks up id in the named category.
func (l *Library) Resolve(c Category, id string) (model.Object, error) {
	switch c {
	case CategoryOpaqueMaterial:
		return object(l.OpaqueMaterial(id))
	case CategoryWindowMaterial:
		return object(l.WindowMaterial(id))
	case CategoryMaterial:
		return object(l.Material(id))
	case CategoryOpaqueConstruction:
		return object(l.OpaqueConstruction(id))
	case CategoryWindowConstruction:
		return object(l.WindowConstruction(id))
	case CategoryConstruction:
		return object(l.Construction(id))
	case CategoryConstructionSet:
		return object(l.ConstructionSet(id))
	case CategorySchedule:
		return object(l.Schedule(id))
	case CategoryProgramType:
		return object(l.ProgramType(id))
	}
	return nil, fmt.Errorf("%w: category %q", ErrUnrecognizedType, c)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListOpaqueMaterials returns every opaque material identifier, sorted.
func (l *Library) ListOpaqueMaterials() []string { return sortedKeys(l.cat.OpaqueMaterials) }

// ListWindowMaterials returns every window material identifier, sorted.
func (l *Library) ListWindowMaterials() []string { return sortedKeys(l.cat.WindowMaterials) }

// ListOpaqueConstructions returns every opaque construction identifier,
// sorted.
func (l *Library) ListOpaqueConstructions() []string {
	return sortedKeys(l.cat.OpaqueConstructions)
}

// ListWindowConstructions returns every window construction identifier,
// sorted.
func (l *Library) ListWindowConstructions() []string {
	return sortedKeys(l.cat.WindowConstructions)
}

// ListConstructionSets returns every construction set identifier, sorted.
func (l *Library) ListConstructionSets() []string { return sortedKeys(l.cat.ConstructionSets) }

// ListSchedules returns every schedule name in store order.
func (l *Library) ListSchedules() []string { return l.cat.Schedules.Keys() }

// ListProgramTypes returns every program type identifier, sorted.
func (l *Library) ListProgramTypes() []string { return sortedKeys(l.cat.ProgramTypes) }

// List returns the identifiers of a category.
func (l *Library) List(c Category) ([]string, error) {
	switch c {
	case CategoryOpaqueMaterial:
		return l.ListOpaqueMaterials(), nil
	case CategoryWindowMaterial:
		return l.ListWindowMaterials(), nil
	case CategoryMaterial:
		return append(l.ListOpaqueMaterials(), l.ListWindowMaterials()...), nil
	case CategoryOpaqueConstruction:
		return l.ListOpaqueConstructions(), nil
	case CategoryWindowConstruction:
		return l.ListWindowConstructions(), nil
	case CategoryConstruction:
		return append(l.ListOpaqueConstructions(), l.ListWindowConstructions()...), nil
	case CategoryConstructionSet:
		return l.ListConstructionSets(), nil
	case CategorySchedule:
		return l.ListSchedules(), nil
	case CategoryProgramType:
		return l.ListProgramTypes(), nil
	}
	return nil, fmt.Errorf("%w: category %q", ErrUnrecognizedType, c)
}

// Registry returns the building-type registry of a vintage.
func (l *Library) Registry(vintage string) (*standards.Registry, bool) {
	r, ok := l.cat.Registries[vintage]
	return r, ok
}

// Preload hydrates every object of the given categories using up to
// GOMAXPROCS goroutines. It stops at the first error.
func (l *Library) Preload(ctx context.Context, categories ...Category) error {
	if len(categories) == 0 {
		categories = Categories
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, c := range categories {
		ids, err := l.List(c)
		if err != nil {
			return err
		}
		for _, id := range ids {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, err := l.Resolve(c, id)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	l.logger.Debug("Library preloaded", "categories", len(categories))
	return nil
}

// Stats returns the cache statistics of every category.
func (l *Library) Stats() map[Category]cache.StatsSummary {
	return map[Category]cache.StatsSummary{
		CategoryOpaqueMaterial:     l.opaqueMaterials.Stats(),
		CategoryWindowMaterial:     l.windowMaterials.Stats(),
		CategoryOpaqueConstruction: l.opaqueConstructions.Stats(),
		CategoryWindowConstruction: l.windowConstructions.Stats(),
		CategoryConstructionSet:    l.constructionSets.Stats(),
		CategorySchedule:           l.schedules.Stats(),
		CategoryProgramType:        l.programTypes.Stats(),
	}
}

// Close releases every cache.
func (l *Library) Close() error {
	return errors.Join(
		l.opaqueMaterials.Close(),
		l.windowMaterials.Close(),
		l.opaqueConstructions.Close(),
		l.windowConstructions.Close(),
		l.constructionSets.Close(),
		l.schedules.Close(),
		l.programTypes.Close(),
	)
}
