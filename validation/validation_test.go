package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/standardslib/standards"
)

func closedCatalog() *standards.Catalog {
	cat := standards.NewCatalog()
	cat.OpaqueMaterials["Stucco"] = standards.Material{Name: "Stucco", MaterialType: standards.TypeStandardOpaque}
	cat.WindowMaterials["Clear"] = standards.Material{Name: "Clear", MaterialType: standards.TypeStandardGlazing}
	cat.OpaqueConstructions["Wall"] = standards.Construction{Name: "Wall", Materials: []string{"Stucco"}}
	cat.WindowConstructions["Glass"] = standards.Construction{Name: "Glass", Materials: []string{"Clear"}}

	var cs standards.ConstructionSet
	cs.Name = "2013::ClimateZone1::Mass"
	cs.WallSet.ExteriorConstruction = "Wall"
	cs.WallSet.GroundConstruction = "Wall"
	cs.FloorSet.ExteriorConstruction = "Wall"
	cs.FloorSet.GroundConstruction = "Wall"
	cs.RoofCeilingSet.ExteriorConstruction = "Wall"
	cs.DoorSet.ExteriorConstruction = "Wall"
	cs.DoorSet.OverheadConstruction = "Wall"
	cs.DoorSet.ExteriorGlassConstruction = "Glass"
	cs.ApertureSet.WindowConstruction = "Glass"
	cs.ApertureSet.OperableConstruction = "Glass"
	cs.ApertureSet.SkylightConstruction = "Glass"
	cat.ConstructionSets[cs.Name] = cs

	cat.Schedules.Set("Occ", []standards.ScheduleRule{{Name: "Occ", DayTypes: "Default", Values: []float64{1}}})
	cat.ProgramTypes["2013::School::Gym"] = standards.ProgramType{
		BuildingType:      "School",
		SpaceType:         "2013::School::Gym",
		OccupancySchedule: standards.String("Occ"),
	}
	reg := standards.NewRegistry()
	reg.Set("School", []string{"Gym"})
	cat.Registries["2013"] = reg
	return cat
}

func TestCheckClosedCatalog(t *testing.T) {
	r := Check(closedCatalog())
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Equal(t, "0 errors, 0 warnings, 0 info", r.Summary)
}

func TestCheckFindsDanglingReferences(t *testing.T) {
	cat := closedCatalog()
	cat.OpaqueConstructions["Broken"] = standards.Construction{Name: "Broken", Materials: []string{"Missing Brick"}}
	cs := cat.ConstructionSets["2013::ClimateZone1::Mass"]
	cs.ApertureSet.SkylightConstruction = "Wall"
	cat.ConstructionSets[cs.Name] = cs
	pt := cat.ProgramTypes["2013::School::Gym"]
	pt.LightingSchedule = standards.String("Gym Light")
	cat.ProgramTypes[pt.SpaceType] = pt

	r := Check(cat)
	require.False(t, r.Valid)
	require.Len(t, r.Errors, 3)

	refs := map[string]string{}
	for _, e := range r.Errors {
		assert.Equal(t, SeverityError, e.Severity)
		refs[e.Category] = e.Reference
	}
	assert.Equal(t, "Missing Brick", refs["opaque_construction"])
	assert.Equal(t, "Wall", refs["construction_set"], "opaque construction in a window slot")
	assert.Equal(t, "Gym Light", refs["program_type"])
}

func TestCheckMaterialsInWrongStore(t *testing.T) {
	cat := closedCatalog()
	cat.OpaqueMaterials["Argon"] = standards.Material{Name: "Argon", MaterialType: standards.TypeGas}
	r := CheckMaterials(cat)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, LevelType, r.Errors[0].Level)
}

func TestCheckRegistries(t *testing.T) {
	cat := closedCatalog()
	reg := cat.Registries["2013"]
	reg.Set("LargeOffice", nil)
	reg.Set("School", []string{"Gym", "Cafeteria"})

	r := CheckRegistries(cat)
	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "2013::School::Cafeteria", r.Warnings[0].Reference)
	require.Len(t, r.Info, 1)
	assert.Equal(t, "2013::LargeOffice", r.Info[0].ID)
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	b := NewReport()
	b.AddError(Result{Message: "bad"})
	a.Merge(b)
	assert.False(t, a.Valid)
	assert.Equal(t, "1 errors, 0 warnings, 0 info", a.Summary)
}
