package library

import (
	"fmt"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/standards"
	"github.com/c360studio/standardslib/units"
)

func surfaceFromStandards(rec standards.Material) model.Surface {
	s := model.DefaultSurface()
	if rec.Roughness != nil && *rec.Roughness != "" {
		s.Roughness = *rec.Roughness
	}
	s.ThermalAbsorptance = units.Or(rec.ThermalAbsorptance, nil, s.ThermalAbsorptance)
	s.SolarAbsorptance = units.Or(rec.SolarAbsorptance, nil, s.SolarAbsorptance)
	s.VisibleAbsorptance = units.Or(rec.VisibleAbsorptance, nil, s.VisibleAbsorptance)
	return s
}

// OpaqueMaterialFromStandards builds an SI opaque material from a canonical
// record. Mass materials become EnergyMaterial; massless materials and air
// gaps become EnergyMaterialNoMass.
func OpaqueMaterialFromStandards(rec standards.Material) (model.OpaqueMaterial, error) {
	switch rec.MaterialType {
	case standards.TypeStandardOpaque:
		m, err := model.NewEnergyMaterial(rec.Name, model.EnergyMaterialProperties{
			Surface:      surfaceFromStandards(rec),
			Thickness:    units.Or(rec.Thickness, units.InchesToMeters, 0),
			Conductivity: units.Or(rec.Conductivity, units.ConductivityToSI, 0),
			Density:      units.Or(rec.Density, units.DensityToSI, 0),
			SpecificHeat: units.Or(rec.SpecificHeat, units.SpecificHeatToSI, 0),
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case standards.TypeMasslessOpaque, standards.TypeAirGap:
		m, err := model.NewEnergyMaterialNoMass(rec.Name,
			units.Or(rec.Resistance, units.ResistanceToSI, 0), surfaceFromStandards(rec))
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: opaque material %s has type %q", ErrUnrecognizedType, rec.Name, rec.MaterialType)
}

// WindowMaterialFromStandards builds an SI window material from a canonical
// record.
func WindowMaterialFromStandards(rec standards.Material) (model.WindowMaterial, error) {
	switch rec.MaterialType {
	case standards.TypeStandardGlazing:
		p := model.GlazingProperties{
			Thickness:             units.Or(rec.Thickness, units.InchesToMeters, 0),
			SolarTransmittance:    units.Or(rec.SolarTransmittance, nil, 0),
			SolarReflectance:      units.Or(rec.FrontSolarReflectance, nil, 0),
			VisibleTransmittance:  units.Or(rec.VisibleTransmittanceNormal, nil, 0),
			VisibleReflectance:    units.Or(rec.FrontVisibleReflectance, nil, 0),
			InfraredTransmittance: units.Or(rec.InfraredTransmittance, nil, 0),
			Emissivity:            units.Or(rec.FrontEmissivity, nil, 0.84),
			Conductivity:          units.Or(rec.Conductivity, units.ConductivityToSI, 0),
			DirtCorrection:        units.Or(rec.DirtCorrection, nil, 1),
			SolarDiffusing:        rec.SolarDiffusing != nil && bool(*rec.SolarDiffusing),
		}
		p.SolarReflectanceBack = units.Or(rec.BackSolarReflectance, nil, p.SolarReflectance)
		p.VisibleReflectanceBack = units.Or(rec.BackVisibleReflectance, nil, p.VisibleReflectance)
		p.EmissivityBack = units.Or(rec.BackEmissivity, nil, p.Emissivity)
		g, err := model.NewGlazing(rec.Name, p)
		if err != nil {
			return nil, err
		}
		return g, nil
	case standards.TypeSimpleGlazing:
		g, err := model.NewSimpleGlazSys(rec.Name,
			units.Or(rec.UFactor, units.UFactorToSI, 0),
			units.Or(rec.SolarHeatGainCoefficient, nil, 0),
			units.Or(rec.VisibleTransmittance, nil, 0))
		if err != nil {
			return nil, err
		}
		return g, nil
	case standards.TypeGas:
		gas := ""
		if rec.GasType != nil {
			gas = *rec.GasType
		}
		g, err := model.NewGas(rec.Name, units.Or(rec.Thickness, units.InchesToMeters, 0), gas)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: window material %s has type %q", ErrUnrecognizedType, rec.Name, rec.MaterialType)
}

// MaterialFromStandards builds an opaque or window material, choosing the
// family from the record's material type.
func MaterialFromStandards(rec standards.Material) (model.Object, error) {
	switch {
	case standards.IsOpaqueType(rec.MaterialType):
		return OpaqueMaterialFromStandards(rec)
	case standards.IsWindowType(rec.MaterialType):
		return WindowMaterialFromStandards(rec)
	}
	return nil, fmt.Errorf("%w: material %s has type %q", ErrUnrecognizedType, rec.Name, rec.MaterialType)
}
