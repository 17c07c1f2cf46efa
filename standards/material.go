// Package standards defines the canonical records produced by the cleaning
// pipeline and consumed by the resolution library.
//
// Records keep the vendor's field names and inch-pound units. Optional
// vendor fields are pointers tagged omitempty, so a null in the source is
// never written back out.
package standards

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Material types recognized by the pipeline.
const (
	TypeStandardOpaque  = "StandardOpaqueMaterial"
	TypeMasslessOpaque  = "MasslessOpaqueMaterial"
	TypeAirGap          = "AirGap"
	TypeStandardGlazing = "StandardGlazing"
	TypeSimpleGlazing   = "SimpleGlazing"
	TypeGas             = "Gas"
)

// IsOpaqueType reports whether t belongs in the opaque material store.
func IsOpaqueType(t string) bool {
	switch t {
	case TypeStandardOpaque, TypeMasslessOpaque, TypeAirGap:
		return true
	}
	return false
}

// IsWindowType reports whether t belongs in the window material store.
func IsWindowType(t string) bool {
	switch t {
	case TypeStandardGlazing, TypeSimpleGlazing, TypeGas:
		return true
	}
	return false
}

// Material is a canonical material record in source units.
type Material struct {
	Name         string `json:"name"`
	MaterialType string `json:"material_type"`

	Roughness *string `json:"roughness,omitempty"`

	Thickness    *float64 `json:"thickness,omitempty"`     // in
	Conductivity *float64 `json:"conductivity,omitempty"`  // Btu·in/(h·ft²·°F)
	Resistance   *float64 `json:"resistance,omitempty"`    // h·ft²·°F/Btu
	Density      *float64 `json:"density,omitempty"`       // lb/ft³
	SpecificHeat *float64 `json:"specific_heat,omitempty"` // Btu/(lb·°F)

	ThermalAbsorptance *float64 `json:"thermal_absorptance,omitempty"`
	SolarAbsorptance   *float64 `json:"solar_absorptance,omitempty"`
	VisibleAbsorptance *float64 `json:"visible_absorptance,omitempty"`

	GasType *string `json:"gas_type,omitempty"`

	// UFactor in Btu/(h·ft²·°F), simple glazing only.
	UFactor                  *float64 `json:"u_factor,omitempty"`
	SolarHeatGainCoefficient *float64 `json:"solar_heat_gain_coefficient,omitempty"`
	VisibleTransmittance     *float64 `json:"visible_transmittance,omitempty"`

	OpticalDataType            *string  `json:"optical_data_type,omitempty"`
	SolarTransmittance         *float64 `json:"solar_transmittance_at_normal_incidence,omitempty"`
	FrontSolarReflectance      *float64 `json:"front_side_solar_reflectance_at_normal_incidence,omitempty"`
	BackSolarReflectance       *float64 `json:"back_side_solar_reflectance_at_normal_incidence,omitempty"`
	VisibleTransmittanceNormal *float64 `json:"visible_transmittance_at_normal_incidence,omitempty"`
	FrontVisibleReflectance    *float64 `json:"front_side_visible_reflectance_at_normal_incidence,omitempty"`
	BackVisibleReflectance     *float64 `json:"back_side_visible_reflectance_at_normal_incidence,omitempty"`
	InfraredTransmittance      *float64 `json:"infrared_transmittance_at_normal_incidence,omitempty"`
	FrontEmissivity            *float64 `json:"front_side_infrared_hemispherical_emissivity,omitempty"`
	BackEmissivity             *float64 `json:"back_side_infrared_hemispherical_emissivity,omitempty"`
	DirtCorrection             *float64 `json:"dirt_correction_factor_for_solar_and_visible_transmittance,omitempty"`
	SolarDiffusing             *Flag    `json:"solar_diffusing,omitempty"`
}

// LayerResistance returns the thermal resistance the material contributes to
// an assembly, in source units. Massless layers carry it directly; mass
// layers derive it from thickness and conductivity.
func (m Material) LayerResistance() float64 {
	if m.Resistance != nil {
		return *m.Resistance
	}
	if m.Thickness != nil && m.Conductivity != nil && *m.Conductivity != 0 {
		return *m.Thickness / *m.Conductivity
	}
	return 0
}

// Flag is a vendor boolean that may be encoded as a number or a bool.
type Flag bool

// UnmarshalJSON accepts true/false and any number, treating 0 as false.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flag %s: %w", data, err)
	}
	*f = n != 0
	return nil
}

// MarshalJSON writes the flag as 0 or 1, as the vendor does.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Float returns a pointer to v. Useful for building records in code.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }
