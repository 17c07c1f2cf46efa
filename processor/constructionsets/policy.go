package constructionsets

import (
	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
)

// slot selects one construction of a set.
type slot struct {
	surface          string
	constructionType func(setType string) string
	resize           bool
	assign           func(cs *standards.ConstructionSet, construction string)
}

func same(setType string) string { return setType }

func fixed(t string) func(string) string {
	return func(string) string { return t }
}

// roofType picks the roof row: metal buildings have their own, steel and
// mass use insulation entirely above deck, wood uses attic.
func roofType(setType string) string {
	switch setType {
	case MetalBuilding:
		return MetalBuilding
	case SteelFramed, Mass:
		return "IEAD"
	default:
		return "Attic and Other"
	}
}

// floorType maps metal buildings onto steel-framed floors.
func floorType(setType string) string {
	if setType == MetalBuilding {
		return SteelFramed
	}
	return setType
}

func windowType(setType string) string {
	if setType == WoodFramed {
		return "Nonmetal framing (all)"
	}
	return "Metal framing (all other)"
}

// slots is evaluated in order for every set. Fenestration is never resized.
var slots = []slot{
	{"ExteriorWall", same, true, func(cs *standards.ConstructionSet, c string) {
		cs.WallSet.ExteriorConstruction = c
	}},
	{"GroundContactWall", fixed(Mass), true, func(cs *standards.ConstructionSet, c string) {
		cs.WallSet.GroundConstruction = c
	}},
	{"ExteriorRoof", roofType, true, func(cs *standards.ConstructionSet, c string) {
		cs.RoofCeilingSet.ExteriorConstruction = c
	}},
	{"ExteriorFloor", floorType, true, func(cs *standards.ConstructionSet, c string) {
		cs.FloorSet.ExteriorConstruction = c
	}},
	{"GroundContactFloor", fixed("Unheated"), true, func(cs *standards.ConstructionSet, c string) {
		cs.FloorSet.GroundConstruction = c
	}},
	{"ExteriorWindow", windowType, false, func(cs *standards.ConstructionSet, c string) {
		cs.ApertureSet.WindowConstruction = c
		cs.ApertureSet.OperableConstruction = c
	}},
	{"Skylight", fixed("Glass with Curb"), false, func(cs *standards.ConstructionSet, c string) {
		cs.ApertureSet.SkylightConstruction = c
	}},
	{"ExteriorDoor", fixed("Swinging"), true, func(cs *standards.ConstructionSet, c string) {
		cs.DoorSet.ExteriorConstruction = c
	}},
	{"ExteriorDoor", fixed("NonSwinging"), true, func(cs *standards.ConstructionSet, c string) {
		cs.DoorSet.OverheadConstruction = c
	}},
	{"GlassDoor", fixed("Metal framing (entrance door)"), false, func(cs *standards.ConstructionSet, c string) {
		cs.DoorSet.ExteriorGlassConstruction = c
	}},
}

type substitutionKey struct {
	surface      string
	construction string
}

type substitution struct {
	constructionType string
	category         string
}

// substitutions replaces vendor placeholder rows with another lookup. The
// entries are specific to the vendor dataset and need revisiting whenever
// it changes.
var substitutions = map[substitutionKey]substitution{
	{"GroundContactFloor", "Smallhotel 2010 Slab Floor"}: {"Heated", "Semiheated"},
}

// F-factor thresholds for slab-on-grade floors.
const (
	fFactorExempt = 0.73
	fFactorR5     = 0.46
)

// cFactorExempt is the C-factor at or above which a below-grade wall needs
// no insulation.
const cFactorExempt = 1.14

// C-factor to R-value table for below-grade walls, in increasing R order.
var (
	cFactorR = []float64{5, 7.5, 10, 12.5, 15, 17.5, 20}
	cFactors = []float64{0.17, 0.119, 0.092, 0.075, 0.063, 0.054, 0.048}
)

// RequiredResistance returns the total assembly resistance, in source
// units, that a property row's compliance target demands. ok is false when
// the row has no target or the target exempts the assembly.
func RequiredResistance(prop source.ConstructionProperty) (r float64, ok bool) {
	switch {
	case prop.AssemblyMaximumUValue != nil:
		u := *prop.AssemblyMaximumUValue
		if u == 0 {
			return 0, false
		}
		return 1 / u, true

	case prop.AssemblyMaximumFFactor != nil:
		f := *prop.AssemblyMaximumFFactor
		if f >= fFactorExempt {
			return 0, false
		}
		if f >= fFactorR5 {
			return 5, true
		}
		return 10, true

	case prop.AssemblyMaximumCFactor != nil:
		c := *prop.AssemblyMaximumCFactor
		if c >= cFactorExempt {
			return 0, false
		}
		for i, tc := range cFactors {
			if tc <= c {
				return cFactorR[i], true
			}
		}
		return cFactorR[len(cFactorR)-1], true
	}
	return 0, false
}
