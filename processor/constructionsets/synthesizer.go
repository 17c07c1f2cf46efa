// Package constructionsets builds one construction set per climate zone and
// construction type from a vintage's construction property table, resizing
// the insulation of opaque assemblies to meet the code target.
package constructionsets

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	semerrors "github.com/c360studio/semstreams/pkg/errs"
	"gonum.org/v1/gonum/floats"

	"github.com/c360studio/standardslib/processor/constructions"
	"github.com/c360studio/standardslib/processor/materials"
	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
)

// Construction types a set is built for.
const (
	SteelFramed   = "SteelFramed"
	WoodFramed    = "WoodFramed"
	Mass          = "Mass"
	MetalBuilding = "Metal Building"

	// DefaultCategory is the building category searched first.
	DefaultCategory = "Nonresidential"

	// glazingPercent is the window-to-wall ratio whose window row is
	// preferred when a table lists several glazing ranges.
	glazingPercent = 40.0
)

// ClimateZones lists the zones a set is built for.
var ClimateZones = []int{1, 2, 3, 4, 5, 6, 7, 8}

// ConstructionTypes lists the construction types a set is built for.
var ConstructionTypes = []string{SteelFramed, WoodFramed, Mass, MetalBuilding}

var (
	// ErrNoCandidate is returned when no property row matches a lookup.
	ErrNoCandidate = errors.New("no construction candidate")

	// ErrMissingInsulation is returned when an assembly to be resized has
	// no Typical Insulation layer.
	ErrMissingInsulation = errors.New("construction has no typical insulation layer")

	// ErrInsulationRange is returned when the required insulation exceeds
	// the synthesized series.
	ErrInsulationRange = errors.New("required insulation outside synthesized series")

	// ErrMissingConstruction is returned when a property row names a
	// construction absent from the cleaned store.
	ErrMissingConstruction = errors.New("base construction not in store")

	// ErrMissingMaterial is returned when a base construction lists a
	// material absent from the cleaned store.
	ErrMissingMaterial = errors.New("material not in store")
)

// Synthesizer builds the construction sets of one vintage. It appends
// resized assemblies to the shared construction store.
type Synthesizer struct {
	vintage string
	props   []source.ConstructionProperty
	cons    *constructions.Result
	mats    *materials.Result
	logger  *slog.Logger

	created int
}

// NewSynthesizer creates a synthesizer over a vintage's property table and
// the cleaned stores.
func NewSynthesizer(vintage string, props []source.ConstructionProperty,
	cons *constructions.Result, mats *materials.Result, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		vintage: vintage,
		props:   props,
		cons:    cons,
		mats:    mats,
		logger:  logger.With("vintage", vintage),
	}
}

// Created returns how many resized assemblies this synthesizer added.
func (s *Synthesizer) Created() int {
	return s.created
}

// SetName returns the composite construction set identifier.
func SetName(vintage string, zone int, constructionType string) string {
	return fmt.Sprintf("%s::ClimateZone%d::%s", vintage, zone, constructionType)
}

// Build assembles every (zone, construction type) set.
func (s *Synthesizer) Build() (map[string]standards.ConstructionSet, error) {
	out := make(map[string]standards.ConstructionSet, len(ClimateZones)*len(ConstructionTypes))
	for _, zone := range ClimateZones {
		for _, ctype := range ConstructionTypes {
			set, err := s.BuildSet(zone, ctype)
			if err != nil {
				return nil, err
			}
			out[set.Name] = set
		}
	}
	s.logger.Info("Built construction sets",
		"sets", len(out),
		"resized_constructions", s.created)
	return out, nil
}

// BuildSet assembles the set for one zone and construction type.
func (s *Synthesizer) BuildSet(zone int, constructionType string) (standards.ConstructionSet, error) {
	set := standards.ConstructionSet{Name: SetName(s.vintage, zone, constructionType)}
	zoneKey := strconv.Itoa(zone)

	for _, sl := range slots {
		ctype := sl.constructionType(constructionType)
		prop, err := s.ExtractConstruction(zoneKey, sl.surface, ctype, DefaultCategory)
		if err != nil {
			return set, err
		}
		if alt, ok := substitutions[substitutionKey{sl.surface, prop.ConstructionName()}]; ok {
			s.logger.Debug("Substituting placeholder construction",
				"construction", prop.ConstructionName(),
				"surface", sl.surface,
				"type", alt.constructionType)
			prop, err = s.ExtractConstruction(zoneKey, sl.surface, alt.constructionType, alt.category)
			if err != nil {
				return set, err
			}
		}

		name := prop.ConstructionName()
		if sl.resize {
			name, err = s.AdjustTypicalInsulation(prop)
			if err != nil {
				return set, err
			}
		}
		sl.assign(&set, name)
	}
	return set, nil
}

// ExtractConstruction finds the property row for a zone, surface and
// construction type. It tries the given building category first, then any
// category, then repeats both with the zone's "A" sub-zone.
func (s *Synthesizer) ExtractConstruction(zone, surface, constructionType, category string) (source.ConstructionProperty, error) {
	climate := "ClimateZone " + zone

	var matched, anyCategory []source.ConstructionProperty
	for _, p := range s.props {
		name := p.ConstructionName()
		if name == "" || strings.Contains(name, "Adiabatic") {
			continue
		}
		if p.ClimateZoneSet != climate ||
			p.IntendedSurfaceType != surface ||
			p.StandardsConstructionType != constructionType {
			continue
		}
		anyCategory = append(anyCategory, p)
		if p.Category() == category {
			matched = append(matched, p)
		}
	}

	if len(matched) > 0 {
		return preferGlazing(matched), nil
	}
	if len(anyCategory) > 0 {
		return preferGlazing(anyCategory), nil
	}
	if strings.HasSuffix(zone, "A") {
		return source.ConstructionProperty{}, semerrors.WrapFatal(
			fmt.Errorf("%w: zone %s, surface %s, type %s",
				ErrNoCandidate, strings.TrimSuffix(zone, "A"), surface, constructionType),
			"constructionsets", "ExtractConstruction", "find base assembly")
	}
	return s.ExtractConstruction(zone+"A", surface, constructionType, category)
}

// preferGlazing returns the candidate whose glazing range contains the
// reference window-to-wall ratio, or the first candidate.
func preferGlazing(candidates []source.ConstructionProperty) source.ConstructionProperty {
	for _, c := range candidates {
		if c.MinimumPercentOfSurface == nil || c.MaximumPercentOfSurface == nil {
			continue
		}
		if *c.MinimumPercentOfSurface <= glazingPercent && glazingPercent <= *c.MaximumPercentOfSurface {
			return c
		}
	}
	return candidates[0]
}

// AdjustTypicalInsulation returns the name of a construction that meets the
// row's compliance target, creating a resized copy of the base assembly in
// the construction store when the base falls short.
func (s *Synthesizer) AdjustTypicalInsulation(prop source.ConstructionProperty) (string, error) {
	base := prop.ConstructionName()
	required, ok := s.requiredResistance(prop)
	if !ok {
		return base, nil
	}

	baseCons, ok := s.cons.Opaque[base]
	if !ok {
		return "", semerrors.WrapFatal(fmt.Errorf("%w: %s", ErrMissingConstruction, base),
			"constructionsets", "AdjustTypicalInsulation", "load base assembly")
	}

	baseR, err := s.assemblyResistance(baseCons)
	if err != nil {
		return "", err
	}

	targetR := int(math.Ceil(required - baseR))
	if targetR <= 0 {
		return base, nil
	}
	if targetR > materials.InsulationSeriesMax {
		return "", semerrors.WrapFatal(
			fmt.Errorf("%w: %s needs R%d", ErrInsulationRange, base, targetR),
			"constructionsets", "AdjustTypicalInsulation", "select insulation")
	}

	name := ResizedName(base, required)
	if _, exists := s.cons.Opaque[name]; exists {
		return name, nil
	}

	resized := baseCons.Clone()
	resized.Name = name
	found := false
	for i, m := range resized.Materials {
		if m == materials.InsulationBase {
			resized.Materials[i] = materials.InsulationName(targetR)
			found = true
		}
	}
	if !found {
		declared := s.cons.Metadata[base].InsulationLayer
		return "", semerrors.WrapFatal(
			fmt.Errorf("%w: %s (declared insulation layer %q)", ErrMissingInsulation, base, declared),
			"constructionsets", "AdjustTypicalInsulation", "resize insulation")
	}

	s.cons.Opaque[name] = resized
	s.created++
	s.logger.Debug("Created resized construction",
		"construction", name,
		"insulation", materials.InsulationName(targetR))
	return name, nil
}

// ResizedName names the variant of base that meets a required resistance.
func ResizedName(base string, required float64) string {
	return fmt.Sprintf("%s-R%d", base, int(math.Ceil(required)))
}

// assemblyResistance sums the layer resistances of c in source units.
func (s *Synthesizer) assemblyResistance(c standards.Construction) (float64, error) {
	layers := make([]float64, len(c.Materials))
	for i, name := range c.Materials {
		m, ok := s.mats.Opaque[name]
		if !ok {
			return 0, semerrors.WrapFatal(fmt.Errorf("%w: %s in %s", ErrMissingMaterial, name, c.Name),
				"constructionsets", "assemblyResistance", "sum layers")
		}
		layers[i] = m.LayerResistance()
	}
	return floats.Sum(layers), nil
}

func (s *Synthesizer) requiredResistance(prop source.ConstructionProperty) (float64, bool) {
	r, ok := RequiredResistance(prop)
	if ok && prop.AssemblyMaximumUValue == nil && prop.AssemblyMaximumFFactor == nil &&
		prop.AssemblyMaximumCFactor != nil && *prop.AssemblyMaximumCFactor < cFactors[len(cFactors)-1] {
		s.logger.Warn("C-factor stricter than table, using highest tabulated resistance",
			"construction", prop.ConstructionName(),
			"c_factor", *prop.AssemblyMaximumCFactor,
			"resistance", r)
	}
	return r, ok
}
