package model

import (
	"encoding/json"
	"fmt"
)

// Defaults applied to opaque materials that omit surface properties.
const (
	DefaultRoughness          = "MediumRough"
	DefaultThermalAbsorptance = 0.9
	DefaultSolarAbsorptance   = 0.7
	DefaultVisibleAbsorptance = 0.7
)

// OpaqueMaterial is a layer of an opaque construction.
type OpaqueMaterial interface {
	Object
	// RValue returns the layer resistance in m²·K/W.
	RValue() float64
	// Thickness returns the layer thickness in m. No-mass layers are 0.
	Thickness() float64
}

// WindowMaterial is a layer of a window construction.
type WindowMaterial interface {
	Object
	windowMaterial()
}

// Surface holds the exterior surface properties of an opaque material.
type Surface struct {
	Roughness          string  `json:"roughness"`
	ThermalAbsorptance float64 `json:"thermal_absorptance"`
	SolarAbsorptance   float64 `json:"solar_absorptance"`
	VisibleAbsorptance float64 `json:"visible_absorptance"`
}

// DefaultSurface returns the surface applied when the source has none.
func DefaultSurface() Surface {
	return Surface{
		Roughness:          DefaultRoughness,
		ThermalAbsorptance: DefaultThermalAbsorptance,
		SolarAbsorptance:   DefaultSolarAbsorptance,
		VisibleAbsorptance: DefaultVisibleAbsorptance,
	}
}

func (s Surface) validate() error {
	for _, a := range []float64{s.ThermalAbsorptance, s.SolarAbsorptance, s.VisibleAbsorptance} {
		if a < 0 || a > 1 {
			return fmt.Errorf("%w: absorptance %v outside [0, 1]", ErrInvalid, a)
		}
	}
	return nil
}

// EnergyMaterialProperties describes a material with thermal mass.
type EnergyMaterialProperties struct {
	Surface
	Thickness    float64 `json:"thickness"`     // m
	Conductivity float64 `json:"conductivity"`  // W/(m·K)
	Density      float64 `json:"density"`       // kg/m³
	SpecificHeat float64 `json:"specific_heat"` // J/(kg·K)
}

// EnergyMaterial is an opaque material with thermal mass.
type EnergyMaterial struct {
	base
	props EnergyMaterialProperties
}

// NewEnergyMaterial creates a mass material.
func NewEnergyMaterial(id string, p EnergyMaterialProperties) (*EnergyMaterial, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if p.Thickness <= 0 || p.Conductivity <= 0 {
		return nil, fmt.Errorf("%w: material %s needs positive thickness and conductivity", ErrInvalid, id)
	}
	if err := p.Surface.validate(); err != nil {
		return nil, fmt.Errorf("material %s: %w", id, err)
	}
	return &EnergyMaterial{base: base{id: id}, props: p}, nil
}

// Properties returns a copy of the material's properties.
func (m *EnergyMaterial) Properties() EnergyMaterialProperties { return m.props }

// Thickness returns the layer thickness in m.
func (m *EnergyMaterial) Thickness() float64 { return m.props.Thickness }

// RValue returns thickness over conductivity.
func (m *EnergyMaterial) RValue() float64 { return m.props.Thickness / m.props.Conductivity }

// MarshalJSON writes the material in SI units.
func (m *EnergyMaterial) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
		EnergyMaterialProperties
	}{"EnergyMaterial", m.id, m.props})
}

// EnergyMaterialNoMass is an opaque layer described only by its resistance.
type EnergyMaterialNoMass struct {
	base
	rValue  float64
	surface Surface
}

// NewEnergyMaterialNoMass creates a no-mass material with resistance
// rValue in m²·K/W.
func NewEnergyMaterialNoMass(id string, rValue float64, s Surface) (*EnergyMaterialNoMass, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if rValue <= 0 {
		return nil, fmt.Errorf("%w: material %s needs a positive resistance", ErrInvalid, id)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("material %s: %w", id, err)
	}
	return &EnergyMaterialNoMass{base: base{id: id}, rValue: rValue, surface: s}, nil
}

// Surface returns the material's surface properties.
func (m *EnergyMaterialNoMass) Surface() Surface { return m.surface }

// Thickness is always 0 for a no-mass layer.
func (m *EnergyMaterialNoMass) Thickness() float64 { return 0 }

// RValue returns the layer resistance in m²·K/W.
func (m *EnergyMaterialNoMass) RValue() float64 { return m.rValue }

// MarshalJSON writes the material in SI units.
func (m *EnergyMaterialNoMass) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string  `json:"type"`
		Identifier string  `json:"identifier"`
		RValue     float64 `json:"r_value"`
		Surface
	}{"EnergyMaterialNoMass", m.id, m.rValue, m.surface})
}

// GlazingProperties describes a spectral-average glass pane. Thickness is in
// m and conductivity in W/(m·K).
type GlazingProperties struct {
	Thickness              float64 `json:"thickness"`
	SolarTransmittance     float64 `json:"solar_transmittance"`
	SolarReflectance       float64 `json:"solar_reflectance"`
	SolarReflectanceBack   float64 `json:"solar_reflectance_back"`
	VisibleTransmittance   float64 `json:"visible_transmittance"`
	VisibleReflectance     float64 `json:"visible_reflectance"`
	VisibleReflectanceBack float64 `json:"visible_reflectance_back"`
	InfraredTransmittance  float64 `json:"infrared_transmittance"`
	Emissivity             float64 `json:"emissivity"`
	EmissivityBack         float64 `json:"emissivity_back"`
	Conductivity           float64 `json:"conductivity"`
	DirtCorrection         float64 `json:"dirt_correction"`
	SolarDiffusing         bool    `json:"solar_diffusing"`
}

// Glazing is a single glass pane.
type Glazing struct {
	base
	props GlazingProperties
}

// NewGlazing creates a glass pane.
func NewGlazing(id string, p GlazingProperties) (*Glazing, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if p.Thickness <= 0 {
		return nil, fmt.Errorf("%w: glazing %s needs a positive thickness", ErrInvalid, id)
	}
	if p.DirtCorrection == 0 {
		p.DirtCorrection = 1
	}
	return &Glazing{base: base{id: id}, props: p}, nil
}

// Properties returns a copy of the pane's properties.
func (g *Glazing) Properties() GlazingProperties { return g.props }

func (g *Glazing) windowMaterial() {}

// MarshalJSON writes the pane in SI units.
func (g *Glazing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
		GlazingProperties
	}{"EnergyWindowMaterialGlazing", g.id, g.props})
}

// SimpleGlazSys is a whole-window material described by its performance.
type SimpleGlazSys struct {
	base
	uFactor float64
	shgc    float64
	vt      float64
}

// NewSimpleGlazSys creates a simple glazing system with uFactor in
// W/(m²·K).
func NewSimpleGlazSys(id string, uFactor, shgc, vt float64) (*SimpleGlazSys, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if uFactor <= 0 {
		return nil, fmt.Errorf("%w: glazing system %s needs a positive u-factor", ErrInvalid, id)
	}
	return &SimpleGlazSys{base: base{id: id}, uFactor: uFactor, shgc: shgc, vt: vt}, nil
}

// UFactor returns the system u-factor in W/(m²·K).
func (s *SimpleGlazSys) UFactor() float64 { return s.uFactor }

// SHGC returns the solar heat gain coefficient.
func (s *SimpleGlazSys) SHGC() float64 { return s.shgc }

// VT returns the visible transmittance.
func (s *SimpleGlazSys) VT() float64 { return s.vt }

func (s *SimpleGlazSys) windowMaterial() {}

// MarshalJSON writes the system in SI units.
func (s *SimpleGlazSys) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string  `json:"type"`
		Identifier string  `json:"identifier"`
		UFactor    float64 `json:"u_factor"`
		SHGC       float64 `json:"shgc"`
		VT         float64 `json:"vt"`
	}{"EnergyWindowMaterialSimpleGlazSys", s.id, s.uFactor, s.shgc, s.vt})
}

// Gas is a gas-filled gap between panes.
type Gas struct {
	base
	thickness float64
	gasType   string
}

// NewGas creates a gas gap of thickness in m.
func NewGas(id string, thickness float64, gasType string) (*Gas, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if thickness <= 0 {
		return nil, fmt.Errorf("%w: gas %s needs a positive thickness", ErrInvalid, id)
	}
	if gasType == "" {
		gasType = "Air"
	}
	return &Gas{base: base{id: id}, thickness: thickness, gasType: gasType}, nil
}

// Thickness returns the gap width in m.
func (g *Gas) Thickness() float64 { return g.thickness }

// GasType returns the fill gas.
func (g *Gas) GasType() string { return g.gasType }

func (g *Gas) windowMaterial() {}

// MarshalJSON writes the gap in SI units.
func (g *Gas) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string  `json:"type"`
		Identifier string  `json:"identifier"`
		Thickness  float64 `json:"thickness"`
		GasType    string  `json:"gas_type"`
	}{"EnergyWindowMaterialGas", g.id, g.thickness, g.gasType})
}
