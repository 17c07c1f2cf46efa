package model

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MaxLayers is the deepest construction the simulation engine accepts.
const MaxLayers = 10

// OpaqueConstruction is an ordered stack of opaque layers, outside to
// inside.
type OpaqueConstruction struct {
	base
	materials []OpaqueMaterial
}

// NewOpaqueConstruction creates an opaque construction.
func NewOpaqueConstruction(id string, materials []OpaqueMaterial) (*OpaqueConstruction, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := checkLayers(id, len(materials)); err != nil {
		return nil, err
	}
	return &OpaqueConstruction{
		base:      base{id: id},
		materials: append([]OpaqueMaterial(nil), materials...),
	}, nil
}

// Materials returns the layers, outside to inside.
func (c *OpaqueConstruction) Materials() []OpaqueMaterial {
	return append([]OpaqueMaterial(nil), c.materials...)
}

// RValue returns the sum of the layer resistances in m²·K/W, without air
// films.
func (c *OpaqueConstruction) RValue() float64 {
	rs := make([]float64, len(c.materials))
	for i, m := range c.materials {
		rs[i] = m.RValue()
	}
	return floats.Sum(rs)
}

// UValue returns the inverse of RValue in W/(m²·K).
func (c *OpaqueConstruction) UValue() float64 {
	return 1 / c.RValue()
}

// Thickness returns the total thickness in m.
func (c *OpaqueConstruction) Thickness() float64 {
	var t float64
	for _, m := range c.materials {
		t += m.Thickness()
	}
	return t
}

// MarshalJSON writes the construction with its layer identifiers.
func (c *OpaqueConstruction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string   `json:"type"`
		Identifier string   `json:"identifier"`
		Materials  []string `json:"materials"`
		RValue     float64  `json:"r_value"`
		UValue     float64  `json:"u_value"`
	}{"OpaqueConstruction", c.id, identifiers(c.materials), c.RValue(), c.UValue()})
}

// WindowConstruction is an ordered stack of glazing layers, outside to
// inside.
type WindowConstruction struct {
	base
	materials []WindowMaterial
}

// NewWindowConstruction creates a window construction. A simple glazing
// system must be the only layer, and glass panes and gas gaps must
// alternate starting and ending with a pane.
func NewWindowConstruction(id string, materials []WindowMaterial) (*WindowConstruction, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := checkLayers(id, len(materials)); err != nil {
		return nil, err
	}
	for i, m := range materials {
		switch m.(type) {
		case *SimpleGlazSys:
			if len(materials) != 1 {
				return nil, fmt.Errorf("%w: construction %s mixes a simple glazing system with other layers", ErrInvalid, id)
			}
		case *Gas:
			if i == 0 || i == len(materials)-1 {
				return nil, fmt.Errorf("%w: construction %s has an outer gas layer", ErrInvalid, id)
			}
		}
	}
	return &WindowConstruction{
		base:      base{id: id},
		materials: append([]WindowMaterial(nil), materials...),
	}, nil
}

// Materials returns the layers, outside to inside.
func (c *WindowConstruction) Materials() []WindowMaterial {
	return append([]WindowMaterial(nil), c.materials...)
}

// MarshalJSON writes the construction with its layer identifiers.
func (c *WindowConstruction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string   `json:"type"`
		Identifier string   `json:"identifier"`
		Materials  []string `json:"materials"`
	}{"WindowConstruction", c.id, identifiers(c.materials)})
}

func checkLayers(id string, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: construction %s has no layers", ErrInvalid, id)
	}
	if n > MaxLayers {
		return fmt.Errorf("%w: construction %s has %d layers, limit is %d", ErrInvalid, id, n, MaxLayers)
	}
	return nil
}

func identifiers[T Object](objs []T) []string {
	ids := make([]string, len(objs))
	for i, o := range objs {
		ids[i] = o.Identifier()
	}
	return ids
}

// WallSet holds wall constructions.
type WallSet struct {
	Exterior *OpaqueConstruction
	Ground   *OpaqueConstruction
}

// FloorSet holds floor constructions.
type FloorSet struct {
	Exterior *OpaqueConstruction
	Ground   *OpaqueConstruction
}

// RoofCeilingSet holds roof constructions.
type RoofCeilingSet struct {
	Exterior *OpaqueConstruction
}

// ApertureSet holds window constructions.
type ApertureSet struct {
	Window   *WindowConstruction
	Operable *WindowConstruction
	Skylight *WindowConstruction
}

// DoorSet holds door constructions.
type DoorSet struct {
	Exterior      *OpaqueConstruction
	Overhead      *OpaqueConstruction
	ExteriorGlass *WindowConstruction
}

// ConstructionSetProperties assigns a construction to every surface role.
type ConstructionSetProperties struct {
	Wall        WallSet
	Floor       FloorSet
	RoofCeiling RoofCeilingSet
	Aperture    ApertureSet
	Door        DoorSet
}

func (p ConstructionSetProperties) opaque() []*OpaqueConstruction {
	return []*OpaqueConstruction{
		p.Wall.Exterior, p.Wall.Ground,
		p.Floor.Exterior, p.Floor.Ground,
		p.RoofCeiling.Exterior,
		p.Door.Exterior, p.Door.Overhead,
	}
}

func (p ConstructionSetProperties) window() []*WindowConstruction {
	return []*WindowConstruction{
		p.Aperture.Window, p.Aperture.Operable, p.Aperture.Skylight,
		p.Door.ExteriorGlass,
	}
}

// ConstructionSet assigns constructions to every surface role of a
// building.
type ConstructionSet struct {
	base
	props ConstructionSetProperties
}

// NewConstructionSet creates a construction set. Every role must be filled.
func NewConstructionSet(id string, p ConstructionSetProperties) (*ConstructionSet, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	for _, c := range p.opaque() {
		if c == nil {
			return nil, fmt.Errorf("%w: construction set %s has an empty opaque role", ErrInvalid, id)
		}
	}
	for _, c := range p.window() {
		if c == nil {
			return nil, fmt.Errorf("%w: construction set %s has an empty window role", ErrInvalid, id)
		}
	}
	return &ConstructionSet{base: base{id: id}, props: p}, nil
}

// Properties returns the role assignments.
func (s *ConstructionSet) Properties() ConstructionSetProperties { return s.props }

// Constructions returns every distinct construction of the set, opaque
// roles first.
func (s *ConstructionSet) Constructions() []Object {
	seen := make(map[string]bool)
	var out []Object
	for _, c := range s.props.opaque() {
		if !seen[c.Identifier()] {
			seen[c.Identifier()] = true
			out = append(out, c)
		}
	}
	for _, c := range s.props.window() {
		if !seen[c.Identifier()] {
			seen[c.Identifier()] = true
			out = append(out, c)
		}
	}
	return out
}

// MarshalJSON writes the set with construction identifiers.
func (s *ConstructionSet) MarshalJSON() ([]byte, error) {
	p := s.props
	return json.Marshal(map[string]any{
		"type":       "ConstructionSet",
		"identifier": s.id,
		"wall_set": map[string]string{
			"exterior_construction": p.Wall.Exterior.Identifier(),
			"ground_construction":   p.Wall.Ground.Identifier(),
		},
		"floor_set": map[string]string{
			"exterior_construction": p.Floor.Exterior.Identifier(),
			"ground_construction":   p.Floor.Ground.Identifier(),
		},
		"roof_ceiling_set": map[string]string{
			"exterior_construction": p.RoofCeiling.Exterior.Identifier(),
		},
		"aperture_set": map[string]string{
			"window_construction":   p.Aperture.Window.Identifier(),
			"operable_construction": p.Aperture.Operable.Identifier(),
			"skylight_construction": p.Aperture.Skylight.Identifier(),
		},
		"door_set": map[string]string{
			"exterior_construction":       p.Door.Exterior.Identifier(),
			"overhead_construction":       p.Door.Overhead.Identifier(),
			"exterior_glass_construction": p.Door.ExteriorGlass.Identifier(),
		},
	})
}
