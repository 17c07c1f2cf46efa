package standards

// Surface types that place a construction in the window store.
var windowSurfaceTypes = map[string]bool{
	"ExteriorWindow": true,
	"InteriorWindow": true,
	"GlassDoor":      true,
	"Skylight":       true,
}

// IsWindowSurface reports whether a construction with the given intended
// surface type is a fenestration construction. Untagged constructions are
// treated as fenestration.
func IsWindowSurface(surface *string) bool {
	return surface == nil || windowSurfaceTypes[*surface]
}

// Construction is an ordered list of material names, outside to inside.
type Construction struct {
	Name                string   `json:"name"`
	IntendedSurfaceType *string  `json:"intended_surface_type,omitempty"`
	Materials           []string `json:"materials"`
}

// Clone returns a copy that does not share the material slice.
func (c Construction) Clone() Construction {
	out := c
	out.Materials = append([]string(nil), c.Materials...)
	return out
}

// ConstructionSet bundles construction names by surface role.
type ConstructionSet struct {
	Name           string         `json:"name"`
	WallSet        WallSet        `json:"wall_set"`
	FloorSet       FloorSet       `json:"floor_set"`
	RoofCeilingSet RoofCeilingSet `json:"roof_ceiling_set"`
	ApertureSet    ApertureSet    `json:"aperture_set"`
	DoorSet        DoorSet        `json:"door_set"`
}

// WallSet holds wall constructions.
type WallSet struct {
	ExteriorConstruction string `json:"exterior_construction"`
	GroundConstruction   string `json:"ground_construction"`
}

// FloorSet holds floor constructions.
type FloorSet struct {
	ExteriorConstruction string `json:"exterior_construction"`
	GroundConstruction   string `json:"ground_construction"`
}

// RoofCeilingSet holds roof constructions.
type RoofCeilingSet struct {
	ExteriorConstruction string `json:"exterior_construction"`
}

// ApertureSet holds window constructions.
type ApertureSet struct {
	WindowConstruction   string `json:"window_construction"`
	OperableConstruction string `json:"operable_construction"`
	SkylightConstruction string `json:"skylight_construction"`
}

// DoorSet holds door constructions. The glass door is a window construction.
type DoorSet struct {
	ExteriorConstruction      string `json:"exterior_construction"`
	OverheadConstruction      string `json:"overhead_construction"`
	ExteriorGlassConstruction string `json:"exterior_glass_construction"`
}

// OpaqueRefs returns the opaque construction names the set references.
func (s ConstructionSet) OpaqueRefs() []string {
	return []string{
		s.WallSet.ExteriorConstruction,
		s.WallSet.GroundConstruction,
		s.FloorSet.ExteriorConstruction,
		s.FloorSet.GroundConstruction,
		s.RoofCeilingSet.ExteriorConstruction,
		s.DoorSet.ExteriorConstruction,
		s.DoorSet.OverheadConstruction,
	}
}

// WindowRefs returns the window construction names the set references.
func (s ConstructionSet) WindowRefs() []string {
	return []string{
		s.ApertureSet.WindowConstruction,
		s.ApertureSet.OperableConstruction,
		s.ApertureSet.SkylightConstruction,
		s.DoorSet.ExteriorGlassConstruction,
	}
}
