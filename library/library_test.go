package library

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/standards"
	"github.com/c360studio/standardslib/storage"
)

func opaque(name string, thickness, conductivity float64) standards.Material {
	return standards.Material{
		Name:         name,
		MaterialType: standards.TypeStandardOpaque,
		Thickness:    standards.Float(thickness),
		Conductivity: standards.Float(conductivity),
		Density:      standards.Float(100),
		SpecificHeat: standards.Float(0.2),
	}
}

func testCatalog() *standards.Catalog {
	cat := standards.NewCatalog()
	for _, m := range []standards.Material{
		opaque("1IN Stucco", 1, 4.79999),
		opaque("8IN CONCRETE HW RefBldg", 8, 9.0985),
		opaque("1/2IN Gypsum", 0.5, 1.10957),
		{Name: "Typical Insulation", MaterialType: standards.TypeMasslessOpaque, Resistance: standards.Float(0.160253201)},
	} {
		cat.OpaqueMaterials[m.Name] = m
	}
	cat.WindowMaterials["Glass"] = standards.Material{
		Name:                     "Glass",
		MaterialType:             standards.TypeSimpleGlazing,
		UFactor:                  standards.Float(0.5),
		SolarHeatGainCoefficient: standards.Float(0.4),
		VisibleTransmittance:     standards.Float(0.6),
	}

	wall := "Typical Insulated Exterior Mass Wall"
	cat.OpaqueConstructions[wall] = standards.Construction{
		Name:                wall,
		IntendedSurfaceType: standards.String("ExteriorWall"),
		Materials:           []string{"1IN Stucco", "8IN CONCRETE HW RefBldg", "Typical Insulation", "1/2IN Gypsum"},
	}
	cat.WindowConstructions["Win"] = standards.Construction{
		Name:                "Win",
		IntendedSurfaceType: standards.String("ExteriorWindow"),
		Materials:           []string{"Glass"},
	}
	cat.ConstructionSets["2013::ClimateZone4::Mass"] = standards.ConstructionSet{
		Name:           "2013::ClimateZone4::Mass",
		WallSet:        standards.WallSet{ExteriorConstruction: wall, GroundConstruction: wall},
		FloorSet:       standards.FloorSet{ExteriorConstruction: wall, GroundConstruction: wall},
		RoofCeilingSet: standards.RoofCeilingSet{ExteriorConstruction: wall},
		ApertureSet:    standards.ApertureSet{WindowConstruction: "Win", OperableConstruction: "Win", SkylightConstruction: "Win"},
		DoorSet:        standards.DoorSet{ExteriorConstruction: wall, OverheadConstruction: wall, ExteriorGlassConstruction: "Win"},
	}
	return cat
}

func newLibrary(t *testing.T, cat *standards.Catalog) *Library {
	t.Helper()
	l, err := New(cat, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestMassWallHydration(t *testing.T) {
	l := newLibrary(t, testCatalog())

	c, err := l.OpaqueConstruction("Typical Insulated Exterior Mass Wall")
	require.NoError(t, err)
	assert.InEpsilon(t, 0.2993, c.RValue(), 1e-3)
	assert.InEpsilon(t, 3.3406, c.UValue(), 1e-3)
	assert.Len(t, c.Materials(), 4)
	assert.True(t, c.IsLocked())
}

func TestCacheIdentity(t *testing.T) {
	l := newLibrary(t, testCatalog())

	a, err := l.OpaqueConstruction("Typical Insulated Exterior Mass Wall")
	require.NoError(t, err)
	b, err := l.OpaqueConstruction("Typical Insulated Exterior Mass Wall")
	require.NoError(t, err)
	assert.Same(t, a, b)

	stucco, err := l.OpaqueMaterial("1IN Stucco")
	require.NoError(t, err)
	assert.Same(t, stucco, a.Materials()[0], "layers are shared with direct lookups")
	assert.True(t, stucco.IsLocked())

	set, err := l.ConstructionSet("2013::ClimateZone4::Mass")
	require.NoError(t, err)
	assert.Same(t, a, set.Properties().Wall.Exterior)
	assert.Len(t, set.Constructions(), 2)
}

func TestConcurrentLookupsHydrateOnce(t *testing.T) {
	metrics, err := NewMetrics(metric.NewMetricsRegistry())
	require.NoError(t, err)
	l, err := New(testCatalog(), Options{Metrics: metrics})
	require.NoError(t, err)

	const workers = 32
	results := make([]*model.OpaqueConstruction, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := l.OpaqueConstruction("Typical Insulated Exterior Mass Wall")
			assert.NoError(t, err)
			results[i] = c
		}()
	}
	wg.Wait()

	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	hydrations := metrics.hydrations.WithLabelValues(string(CategoryOpaqueConstruction))
	assert.Equal(t, 1.0, testutil.ToFloat64(hydrations))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.hydrations.WithLabelValues(string(CategoryOpaqueMaterial))))
	assert.Equal(t, float64(workers), testutil.ToFloat64(metrics.lookups.WithLabelValues(string(CategoryOpaqueConstruction))))

	counts, err := metrics.Snapshot(CategoryOpaqueConstruction)
	require.NoError(t, err)
	assert.Equal(t, Counts{Lookups: workers, Hydrations: 1}, counts)
}

func TestNotFoundIsNotCached(t *testing.T) {
	cat := testCatalog()
	l := newLibrary(t, cat)

	_, err := l.OpaqueMaterial("Adobe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	assert.Contains(t, err.Error(), "opaque_material Adobe")

	cat.OpaqueMaterials["Adobe"] = opaque("Adobe", 10, 3)
	m, err := l.OpaqueMaterial("Adobe")
	require.NoError(t, err)
	assert.Equal(t, "Adobe", m.Identifier())
}

func TestDanglingLayer(t *testing.T) {
	cat := testCatalog()
	cat.OpaqueConstructions["Broken"] = standards.Construction{Name: "Broken", Materials: []string{"Missing"}}
	l := newLibrary(t, cat)

	_, err := l.OpaqueConstruction("Broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnrecognizedMaterialType(t *testing.T) {
	cat := testCatalog()
	cat.OpaqueMaterials["Odd"] = standards.Material{Name: "Odd", MaterialType: "RoofVegetation"}
	l := newLibrary(t, cat)

	_, err := l.OpaqueMaterial("Odd")
	assert.ErrorIs(t, err, ErrUnrecognizedType)

	_, err = MaterialFromStandards(standards.Material{Name: "Odd", MaterialType: "InfraredTransparent"})
	assert.ErrorIs(t, err, ErrUnrecognizedType)
}

func TestMaterialFactories(t *testing.T) {
	m, err := OpaqueMaterialFromStandards(standards.Material{
		Name:             "Pad",
		MaterialType:     standards.TypeMasslessOpaque,
		Resistance:       standards.Float(5.678263337),
		Roughness:        standards.String("Smooth"),
		SolarAbsorptance: standards.Float(0.8),
	})
	require.NoError(t, err)
	noMass, ok := m.(*model.EnergyMaterialNoMass)
	require.True(t, ok)
	assert.InDelta(t, 1.0, noMass.RValue(), 1e-9)
	assert.Equal(t, "Smooth", noMass.Surface().Roughness)
	assert.Equal(t, 0.8, noMass.Surface().SolarAbsorptance)
	assert.Equal(t, model.DefaultThermalAbsorptance, noMass.Surface().ThermalAbsorptance)

	w, err := WindowMaterialFromStandards(standards.Material{
		Name: "Gap", MaterialType: standards.TypeGas, Thickness: standards.Float(0.5), GasType: standards.String("Argon"),
	})
	require.NoError(t, err)
	gas, ok := w.(*model.Gas)
	require.True(t, ok)
	assert.InDelta(t, 0.0127, gas.Thickness(), 1e-12)
	assert.Equal(t, "Argon", gas.GasType())

	diffusing := standards.Flag(true)
	w, err = WindowMaterialFromStandards(standards.Material{
		Name:                  "Clear 3mm",
		MaterialType:          standards.TypeStandardGlazing,
		Thickness:             standards.Float(0.118),
		Conductivity:          standards.Float(6.24012),
		FrontSolarReflectance: standards.Float(0.07),
		FrontEmissivity:       standards.Float(0.84),
		SolarDiffusing:        &diffusing,
	})
	require.NoError(t, err)
	glazing, ok := w.(*model.Glazing)
	require.True(t, ok)
	p := glazing.Properties()
	assert.InDelta(t, 0.07, p.SolarReflectanceBack, 1e-12)
	assert.InDelta(t, 0.84, p.EmissivityBack, 1e-12)
	assert.InDelta(t, 0.8994, p.Conductivity, 1e-4)
	assert.True(t, p.SolarDiffusing)

	_, err = OpaqueMaterialFromStandards(standards.Material{Name: "Glass", MaterialType: standards.TypeSimpleGlazing})
	assert.ErrorIs(t, err, ErrUnrecognizedType)
}

func TestResolve(t *testing.T) {
	l := newLibrary(t, testCatalog())

	obj, err := l.Resolve(CategoryMaterial, "Glass")
	require.NoError(t, err)
	assert.IsType(t, &model.SimpleGlazSys{}, obj)

	obj, err = l.Resolve(CategoryConstruction, "Win")
	require.NoError(t, err)
	assert.IsType(t, &model.WindowConstruction{}, obj)

	_, err = l.Resolve(CategoryConstruction, "Nothing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Resolve(Category("hvac"), "x")
	assert.ErrorIs(t, err, ErrUnrecognizedType)

	c, err := ParseCategory("window_material")
	require.NoError(t, err)
	assert.Equal(t, CategoryWindowMaterial, c)
	_, err = ParseCategory("hvac")
	assert.ErrorIs(t, err, ErrUnrecognizedType)
}

func TestList(t *testing.T) {
	l := newLibrary(t, testCatalog())

	assert.Equal(t, []string{"1/2IN Gypsum", "1IN Stucco", "8IN CONCRETE HW RefBldg", "Typical Insulation"},
		l.ListOpaqueMaterials())
	assert.Equal(t, []string{"Glass"}, l.ListWindowMaterials())

	all, err := l.List(CategoryMaterial)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestPreload(t *testing.T) {
	l := newLibrary(t, testCatalog())

	require.NoError(t, l.Preload(context.Background()))
	stats := l.Stats()
	assert.Equal(t, int64(4), stats[CategoryOpaqueMaterial].CurrentSize)
	assert.Equal(t, int64(1), stats[CategoryConstructionSet].CurrentSize)

	cat := testCatalog()
	cat.OpaqueConstructions["Broken"] = standards.Construction{Name: "Broken", Materials: []string{"Missing"}}
	err := newLibrary(t, cat).Preload(context.Background(), CategoryOpaqueConstruction)
	assert.ErrorIs(t, err, ErrNotFound)
}
