package materials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	semerrors "github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
	"github.com/c360studio/standardslib/units"
)

func rawMaterial(name, typ string) source.Material {
	return source.Material{Material: standards.Material{Name: name, MaterialType: typ}}
}

func insulationBase() source.Material {
	m := rawMaterial(InsulationBase, standards.TypeMasslessOpaque)
	m.Resistance = standards.Float(0.160253201)
	m.Conductivity = standards.Float(0.3)
	m.Density = standards.Float(2)
	m.SpecificHeat = standards.Float(0.2)
	m.ThermalAbsorptance = standards.Float(0.9)
	m.SolarAbsorptance = standards.Float(0.7)
	m.VisibleAbsorptance = standards.Float(0.7)
	return m
}

func TestCleanPartitionsAndFilters(t *testing.T) {
	noted := rawMaterial("Old Brick", standards.TypeStandardOpaque)
	noted.Notes = standards.String("deprecated")

	raw := []source.Material{
		insulationBase(),
		rawMaterial("1IN Stucco", standards.TypeStandardOpaque),
		rawMaterial("AirGap 1", standards.TypeAirGap),
		rawMaterial("CLEAR 3MM", standards.TypeStandardGlazing),
		rawMaterial("AIR 13MM", standards.TypeGas),
		rawMaterial("Fixed Window", standards.TypeSimpleGlazing),
		rawMaterial("Skylight_Frame_Width_0.430_in", standards.TypeSimpleGlazing),
		rawMaterial("Shade Roll", "Shade"),
		noted,
	}

	res, err := Clean(raw, nil)
	require.NoError(t, err)

	assert.Contains(t, res.Opaque, "1IN Stucco")
	assert.Contains(t, res.Opaque, "AirGap 1")
	assert.NotContains(t, res.Opaque, "Old Brick")
	assert.NotContains(t, res.Opaque, "Shade Roll")
	assert.NotContains(t, res.Window, "Shade Roll")

	assert.Len(t, res.Window, 3)
	assert.NotContains(t, res.Window, "Skylight_Frame_Width_0.430_in")

	// 3 raw opaque records (base, stucco, air gap) plus the series.
	assert.Len(t, res.Opaque, 3+InsulationSeriesMax)
}

func TestInsulationSeriesCoverage(t *testing.T) {
	opaque := map[string]standards.Material{InsulationBase: insulationBase().Material}
	require.NoError(t, AddTypicalInsulation(opaque))

	base := opaque[InsulationBase]
	assert.Nil(t, base.Conductivity)
	assert.Nil(t, base.Density)
	assert.Nil(t, base.SpecificHeat)
	assert.NotNil(t, base.ThermalAbsorptance, "base keeps its absorptances")

	count := 0
	for r := 1; r <= InsulationSeriesMax; r++ {
		m, ok := opaque[InsulationName(r)]
		require.True(t, ok, "missing R%d", r)
		count++

		assert.Equal(t, standards.TypeMasslessOpaque, m.MaterialType)
		assert.Nil(t, m.ThermalAbsorptance)
		assert.Nil(t, m.SolarAbsorptance)
		assert.Nil(t, m.VisibleAbsorptance)
		assert.Nil(t, m.Conductivity)
		require.NotNil(t, m.Resistance)
		assert.Equal(t, float64(r), *m.Resistance)
		assert.InDelta(t, float64(r)/5.678263337, units.ResistanceToSI(*m.Resistance), 1e-12)
	}
	assert.Equal(t, InsulationSeriesMax, count)
	assert.NotContains(t, opaque, InsulationName(0))
	assert.NotContains(t, opaque, InsulationName(InsulationSeriesMax+1))
}

func TestAddTypicalInsulationErrors(t *testing.T) {
	err := AddTypicalInsulation(map[string]standards.Material{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInsulationBase))
	assert.True(t, semerrors.IsFatal(err))

	err = AddTypicalInsulation(map[string]standards.Material{
		InsulationBase: {Name: InsulationBase, MaterialType: standards.TypeStandardOpaque},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsulationBaseType))
}

func TestCleanWithoutBaseFails(t *testing.T) {
	_, err := Clean([]source.Material{rawMaterial("1IN Stucco", standards.TypeStandardOpaque)}, nil)
	assert.ErrorIs(t, err, ErrMissingInsulationBase)
}
