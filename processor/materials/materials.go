// Package materials cleans the raw material table and synthesizes the
// Typical Insulation series used to resize constructions.
package materials

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	semerrors "github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
)

const (
	// InsulationBase is the placeholder insulation layer in vendor
	// constructions.
	InsulationBase = "Typical Insulation"

	// InsulationSeriesMax is the highest synthesized resistance, in
	// h·ft²·°F/Btu.
	InsulationSeriesMax = 60

	skylightFramePrefix = "Skylight_Frame_Width"
)

var (
	// ErrMissingInsulationBase is returned when the raw table has no
	// Typical Insulation record.
	ErrMissingInsulationBase = errors.New("typical insulation base material missing")

	// ErrInsulationBaseType is returned when the base is not massless.
	ErrInsulationBaseType = errors.New("typical insulation base must be massless")
)

// Result holds the cleaned material stores.
type Result struct {
	Opaque map[string]standards.Material
	Window map[string]standards.Material
}

// InsulationName returns the name of the series member with resistance r.
func InsulationName(r int) string {
	return fmt.Sprintf("%s-R%d", InsulationBase, r)
}

// Clean filters and partitions raw materials and adds the insulation series
// to the opaque store.
func Clean(raw []source.Material, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{
		Opaque: make(map[string]standards.Material),
		Window: make(map[string]standards.Material),
	}

	var dropped, skipped int
	for _, m := range raw {
		if m.Notes != nil && *m.Notes != "" {
			dropped++
			continue
		}
		if strings.HasPrefix(m.Name, skylightFramePrefix) {
			dropped++
			continue
		}

		switch {
		case standards.IsOpaqueType(m.MaterialType):
			res.Opaque[m.Name] = m.Material
		case standards.IsWindowType(m.MaterialType):
			res.Window[m.Name] = m.Material
		default:
			skipped++
			logger.Debug("Skipping material of unhandled type",
				"material", m.Name,
				"type", m.MaterialType)
		}
	}

	if err := AddTypicalInsulation(res.Opaque); err != nil {
		return nil, err
	}

	logger.Info("Cleaned materials",
		"opaque", len(res.Opaque),
		"window", len(res.Window),
		"dropped", dropped,
		"skipped", skipped)
	return res, nil
}

// AddTypicalInsulation strips the base insulation down to a pure resistance
// and adds one variant for every integer resistance up to
// InsulationSeriesMax. Variants carry no surface absorptances.
func AddTypicalInsulation(opaque map[string]standards.Material) error {
	base, ok := opaque[InsulationBase]
	if !ok {
		return semerrors.WrapFatal(ErrMissingInsulationBase,
			"materials", "AddTypicalInsulation", "find base insulation")
	}
	if base.MaterialType != standards.TypeMasslessOpaque {
		return semerrors.WrapFatal(
			fmt.Errorf("%w: got %s", ErrInsulationBaseType, base.MaterialType),
			"materials", "AddTypicalInsulation", "check base insulation")
	}

	base.Conductivity = nil
	base.Density = nil
	base.SpecificHeat = nil
	opaque[InsulationBase] = base

	for r := 1; r <= InsulationSeriesMax; r++ {
		v := base
		v.Name = InsulationName(r)
		v.ThermalAbsorptance = nil
		v.SolarAbsorptance = nil
		v.VisibleAbsorptance = nil
		v.Resistance = standards.Float(float64(r))
		opaque[v.Name] = v
	}
	return nil
}
