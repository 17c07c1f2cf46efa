package library

import (
	"fmt"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/standards"
)

// Lookup resolves a nested identifier to an object of type T.
type Lookup[T any] func(id string) (T, error)

func resolveAll[T any](ids []string, lookup Lookup[T]) ([]T, error) {
	out := make([]T, len(ids))
	for i, id := range ids {
		v, err := lookup(id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// OpaqueConstructionFromStandards builds an opaque construction, resolving
// each layer with material.
func OpaqueConstructionFromStandards(rec standards.Construction, material Lookup[model.OpaqueMaterial]) (*model.OpaqueConstruction, error) {
	layers, err := resolveAll(rec.Materials, material)
	if err != nil {
		return nil, fmt.Errorf("construction %s: %w", rec.Name, err)
	}
	return model.NewOpaqueConstruction(rec.Name, layers)
}

// WindowConstructionFromStandards builds a window construction, resolving
// each layer with material.
func WindowConstructionFromStandards(rec standards.Construction, material Lookup[model.WindowMaterial]) (*model.WindowConstruction, error) {
	layers, err := resolveAll(rec.Materials, material)
	if err != nil {
		return nil, fmt.Errorf("construction %s: %w", rec.Name, err)
	}
	return model.NewWindowConstruction(rec.Name, layers)
}

// ConstructionSetFromStandards builds a construction set, resolving opaque
// roles with opaque and fenestration roles with window.
func ConstructionSetFromStandards(
	rec standards.ConstructionSet,
	opaque Lookup[*model.OpaqueConstruction],
	window Lookup[*model.WindowConstruction],
) (*model.ConstructionSet, error) {
	o, err := resolveAll(rec.OpaqueRefs(), opaque)
	if err != nil {
		return nil, fmt.Errorf("construction set %s: %w", rec.Name, err)
	}
	w, err := resolveAll(rec.WindowRefs(), window)
	if err != nil {
		return nil, fmt.Errorf("construction set %s: %w", rec.Name, err)
	}
	return model.NewConstructionSet(rec.Name, model.ConstructionSetProperties{
		Wall:        model.WallSet{Exterior: o[0], Ground: o[1]},
		Floor:       model.FloorSet{Exterior: o[2], Ground: o[3]},
		RoofCeiling: model.RoofCeilingSet{Exterior: o[4]},
		Door:        model.DoorSet{Exterior: o[5], Overhead: o[6], ExteriorGlass: w[3]},
		Aperture:    model.ApertureSet{Window: w[0], Operable: w[1], Skylight: w[2]},
	})
}
