package standards

// Catalog holds every canonical store in memory. Construction sets and
// program types from all vintages are merged; identifiers carry the vintage.
type Catalog struct {
	OpaqueMaterials     map[string]Material
	WindowMaterials     map[string]Material
	OpaqueConstructions map[string]Construction
	WindowConstructions map[string]Construction
	ConstructionSets    map[string]ConstructionSet
	Schedules           *Schedules
	ProgramTypes        map[string]ProgramType

	// Registries is keyed by vintage.
	Registries map[string]*Registry
}

// NewCatalog returns a catalog with every store initialized and empty.
func NewCatalog() *Catalog {
	return &Catalog{
		OpaqueMaterials:     make(map[string]Material),
		WindowMaterials:     make(map[string]Material),
		OpaqueConstructions: make(map[string]Construction),
		WindowConstructions: make(map[string]Construction),
		ConstructionSets:    make(map[string]ConstructionSet),
		Schedules:           NewSchedules(),
		ProgramTypes:        make(map[string]ProgramType),
		Registries:          make(map[string]*Registry),
	}
}

// Counts reports the number of records per store, keyed by store file stem.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"opaque_material":     len(c.OpaqueMaterials),
		"window_material":     len(c.WindowMaterials),
		"opaque_construction": len(c.OpaqueConstructions),
		"window_construction": len(c.WindowConstructions),
		"construction_set":    len(c.ConstructionSets),
		"schedule":            c.Schedules.Len(),
		"program_type":        len(c.ProgramTypes),
	}
}
