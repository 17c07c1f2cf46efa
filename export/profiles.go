// Package export serializes a hydrated library, in SI units, to JSON,
// NDJSON or YAML documents grouped by category.
package export

import (
	"github.com/c360studio/standardslib/library"
)

// Profile determines which categories are included in the export.
type Profile string

const (
	// ProfileEnvelope includes materials, constructions and construction sets.
	ProfileEnvelope Profile = "envelope"

	// ProfileLoads includes schedules and program types.
	ProfileLoads Profile = "loads"

	// ProfileFull includes every category.
	ProfileFull Profile = "full"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// Categories are exported in this order.
	Categories []library.Category
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileEnvelope: {
		Name:        ProfileEnvelope,
		Description: "Materials, constructions and construction sets",
		Categories: []library.Category{
			library.CategoryOpaqueMaterial,
			library.CategoryWindowMaterial,
			library.CategoryOpaqueConstruction,
			library.CategoryWindowConstruction,
			library.CategoryConstructionSet,
		},
	},
	ProfileLoads: {
		Name:        ProfileLoads,
		Description: "Schedules and program types",
		Categories: []library.Category{
			library.CategorySchedule,
			library.CategoryProgramType,
		},
	},
	ProfileFull: {
		Name:        ProfileFull,
		Description: "Every category",
		Categories:  library.Categories,
	},
}

// GetProfileConfig returns the configuration for a profile. Unknown
// profiles fall back to the full profile.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileFull]
}

// Includes reports whether the profile exports category c.
func (p ProfileConfig) Includes(c library.Category) bool {
	for _, known := range p.Categories {
		if known == c {
			return true
		}
	}
	return false
}
