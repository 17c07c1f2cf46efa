// Package source provides the raw vendor record types and the loaders that
// read them from an OpenStudio Standards checkout.
package source

import (
	"encoding/json"

	"github.com/c360studio/standardslib/standards"
)

// Material is a raw vendor material record.
type Material struct {
	standards.Material

	// Notes marks records the vendor flags as unusable.
	Notes *string `json:"notes,omitempty"`
}

// Construction is a raw vendor construction record. The extra fields are
// consumed by the construction-set synthesizer and never persisted.
type Construction struct {
	standards.Construction

	InsulationLayer           *string         `json:"insulation_layer,omitempty"`
	StandardsConstructionType *string         `json:"standards_construction_type,omitempty"`
	SkylightFraming           json.RawMessage `json:"skylight_framing,omitempty"`
}

// ConstructionProperty is one row of a vintage's construction property
// table: the compliance target for a (zone, surface, type, category) key and
// the construction that meets it.
type ConstructionProperty struct {
	Template                  *string `json:"template,omitempty"`
	BuildingCategory          *string `json:"building_category,omitempty"`
	ClimateZoneSet            string  `json:"climate_zone_set"`
	IntendedSurfaceType       string  `json:"intended_surface_type"`
	StandardsConstructionType string  `json:"standards_construction_type"`
	Construction              *string `json:"construction,omitempty"`

	AssemblyMaximumUValue  *float64 `json:"assembly_maximum_u_value,omitempty"`
	AssemblyMaximumFFactor *float64 `json:"assembly_maximum_f_factor,omitempty"`
	AssemblyMaximumCFactor *float64 `json:"assembly_maximum_c_factor,omitempty"`
	AssemblyMaximumSHGC    *float64 `json:"assembly_maximum_solar_heat_gain_coefficient,omitempty"`

	MinimumPercentOfSurface *float64 `json:"minimum_percent_of_surface,omitempty"`
	MaximumPercentOfSurface *float64 `json:"maximum_percent_of_surface,omitempty"`
}

// ConstructionName returns the referenced construction, or "" when absent.
func (p ConstructionProperty) ConstructionName() string {
	if p.Construction == nil {
		return ""
	}
	return *p.Construction
}

// Category returns the building category, or "" when absent.
func (p ConstructionProperty) Category() string {
	if p.BuildingCategory == nil {
		return ""
	}
	return *p.BuildingCategory
}

// ScheduleRule is a raw schedule rule. Raw dates carry a fixed year and a
// zero time of day.
type ScheduleRule = standards.ScheduleRule

// SpaceType is a raw space-type record with vendor building and space
// names.
type SpaceType = standards.ProgramType

// Vintage names a dataset version and the directory holding its tables.
type Vintage struct {
	Name string `yaml:"name" json:"name"`
	Dir  string `yaml:"dir" json:"dir"`
}

// DefaultVintages lists the vintages published with the vendor dataset,
// newest first.
func DefaultVintages() []Vintage {
	return []Vintage{
		{Name: "2019", Dir: "ashrae_90_1_2019"},
		{Name: "2016", Dir: "ashrae_90_1_2016"},
		{Name: "2013", Dir: "ashrae_90_1_2013"},
		{Name: "2010", Dir: "ashrae_90_1_2010"},
		{Name: "2007", Dir: "ashrae_90_1_2007"},
		{Name: "2004", Dir: "ashrae_90_1_2004"},
		{Name: "1980_2004", Dir: "doe_ref_1980_2004"},
		{Name: "pre_1980", Dir: "doe_ref_pre_1980"},
	}
}
