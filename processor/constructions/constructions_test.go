package constructions

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/standardslib/processor/materials"
	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
)

func raw(name string, surface *string, mats ...string) source.Construction {
	return source.Construction{
		Construction: standards.Construction{
			Name:                name,
			IntendedSurfaceType: surface,
			Materials:           mats,
		},
		InsulationLayer:           standards.String("Typical Insulation"),
		StandardsConstructionType: standards.String("Mass"),
	}
}

func cleanedMaterials() *materials.Result {
	return &materials.Result{
		Opaque: map[string]standards.Material{
			"1IN Stucco":         {Name: "1IN Stucco"},
			"Typical Insulation": {Name: "Typical Insulation"},
			"1/2IN Gypsum":       {Name: "1/2IN Gypsum"},
		},
		Window: map[string]standards.Material{
			"CLEAR 3MM": {Name: "CLEAR 3MM"},
			"AIR 13MM":  {Name: "AIR 13MM"},
		},
	}
}

func TestClean(t *testing.T) {
	wall := standards.String("ExteriorWall")
	input := []source.Construction{
		raw("Mass Wall", wall, "1IN Stucco", "Typical Insulation", "1/2IN Gypsum"),
		raw("Orphan Wall", wall, "1IN Stucco", "Removed Brick"),
		raw("Plenum Acoustical Tile", standards.String("InteriorCeiling"), "1/2IN Gypsum"),
		raw("Dbl Clr", standards.String("ExteriorWindow"), "CLEAR 3MM", "AIR 13MM", "CLEAR 3MM"),
		raw("Untagged Glass", nil, "CLEAR 3MM"),
		raw("Glass Door", standards.String("GlassDoor"), "1IN Stucco"),
	}

	res := Clean(input, cleanedMaterials(), nil)

	assert.Equal(t, []string{"Mass Wall"}, keys(res.Opaque))
	assert.Equal(t, []string{"Dbl Clr", "Untagged Glass"}, keys(res.Window),
		"glass door references an opaque material and is dropped from the window store")

	assert.Equal(t, "Typical Insulation", res.Metadata["Mass Wall"].InsulationLayer)
	assert.Equal(t, "Mass", res.Metadata["Mass Wall"].StandardsConstructionType)
	assert.NotContains(t, res.Metadata, "Orphan Wall")
	assert.NotContains(t, res.Metadata, "Plenum Acoustical Tile")
}

func TestCleanDoesNotShareMaterialSlices(t *testing.T) {
	c := raw("Mass Wall", standards.String("ExteriorWall"), "1IN Stucco")
	res := Clean([]source.Construction{c}, cleanedMaterials(), nil)
	res.Opaque["Mass Wall"].Materials[0] = "changed"
	assert.Equal(t, "1IN Stucco", c.Materials[0])
}

func TestIsExcluded(t *testing.T) {
	assert.True(t, IsExcluded("Smallhotel 2010 Slab Floor"))
	assert.True(t, IsExcluded("NACM_Interior Wall"))
	assert.False(t, IsExcluded("Typical Insulated Exterior Mass Wall"))
	require.Len(t, excluded, 29)
}

func keys(m map[string]standards.Construction) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
