package standards

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMapKeepsOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 4)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":4,"alpha":2,"mid":3}`, string(data))

	back := NewOrderedMap[int]()
	require.NoError(t, json.Unmarshal([]byte(`{"b":1,"a":2,"c":3}`), back))
	assert.Equal(t, []string{"b", "a", "c"}, back.Keys())

	back.Delete("a")
	assert.Equal(t, []string{"b", "c"}, back.Keys())
	assert.False(t, back.Has("a"))
	assert.Equal(t, 2, back.Len())
}

func TestOrderedMapRejectsNonObject(t *testing.T) {
	m := NewOrderedMap[int]()
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), m))
}

func TestMaterialOmitsNulls(t *testing.T) {
	var m Material
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Gypsum",
		"material_type": "StandardOpaqueMaterial",
		"thickness": 0.5,
		"conductivity": 1.1,
		"resistance": null,
		"gas_type": null
	}`), &m))

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gypsum","material_type":"StandardOpaqueMaterial","thickness":0.5,"conductivity":1.1}`, string(out))
}

func TestLayerResistance(t *testing.T) {
	tests := []struct {
		name string
		mat  Material
		want float64
	}{
		{"massless", Material{Resistance: Float(2.5)}, 2.5},
		{"mass", Material{Thickness: Float(8), Conductivity: Float(4)}, 2},
		{"resistance wins", Material{Resistance: Float(1), Thickness: Float(8), Conductivity: Float(4)}, 1},
		{"zero conductivity", Material{Thickness: Float(8), Conductivity: Float(0)}, 0},
		{"empty", Material{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.mat.LayerResistance(), 1e-12)
		})
	}
}

func TestFlag(t *testing.T) {
	var m Material
	require.NoError(t, json.Unmarshal([]byte(`{"name":"g","material_type":"StandardGlazing","solar_diffusing":1}`), &m))
	require.NotNil(t, m.SolarDiffusing)
	assert.True(t, bool(*m.SolarDiffusing))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"g","material_type":"StandardGlazing","solar_diffusing":false}`), &m))
	assert.False(t, bool(*m.SolarDiffusing))
}

func TestMaterialTypePartition(t *testing.T) {
	for _, typ := range []string{TypeStandardOpaque, TypeMasslessOpaque, TypeAirGap} {
		assert.True(t, IsOpaqueType(typ), typ)
		assert.False(t, IsWindowType(typ), typ)
	}
	for _, typ := range []string{TypeStandardGlazing, TypeSimpleGlazing, TypeGas} {
		assert.True(t, IsWindowType(typ), typ)
		assert.False(t, IsOpaqueType(typ), typ)
	}
	assert.False(t, IsOpaqueType("Blind"))
	assert.False(t, IsWindowType("Blind"))
}

func TestIsWindowSurface(t *testing.T) {
	assert.True(t, IsWindowSurface(nil))
	assert.True(t, IsWindowSurface(String("Skylight")))
	assert.True(t, IsWindowSurface(String("GlassDoor")))
	assert.False(t, IsWindowSurface(String("ExteriorWall")))
}

func TestProgramTypeScheduleRefs(t *testing.T) {
	p := ProgramType{
		LightingSchedule:        String("LIGHT"),
		OccupancySchedule:       String("OCC"),
		HeatingSetpointSchedule: String("SETP"),
		CoolingSetpointSchedule: String("SETP"),
	}
	assert.Equal(t, []string{"LIGHT", "OCC", "SETP"}, p.ScheduleRefs())
}

func TestConstructionClone(t *testing.T) {
	c := Construction{Name: "a", Materials: []string{"x", "y"}}
	d := c.Clone()
	d.Materials[0] = "z"
	assert.Equal(t, "x", c.Materials[0])
}
