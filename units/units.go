// Package units converts the IP-unit quantities found in the vendor dataset
// into the SI units used by the hydrated library.
//
// Every conversion uses the exact constant published with the dataset, so
// round-tripping through the inverse reproduces the input up to floating
// point error.
package units

const (
	metersPerInch              = 0.0254
	conductivityDivisor        = 6.9381117
	densityFactor              = 16.0185
	specificHeatDivisor        = 0.000239
	resistanceDivisor          = 5.678263337
	uFactorFactor              = 5.678
	powerPerAreaFactor         = 10.7639
	gasPowerPerAreaFactor      = 3.15459
	peoplePerAreaDivisor       = 92.903
	ventilationPerPersonFactor = 0.000471947
	ventilationPerAreaFactor   = 0.00508
	infiltrationFactor         = 0.00508
	hotWaterFlowFactor         = 40.7458
)

// InchesToMeters converts a thickness in inches to meters.
func InchesToMeters(in float64) float64 { return in * metersPerInch }

// MetersToInches is the inverse of InchesToMeters.
func MetersToInches(m float64) float64 { return m / metersPerInch }

// ConductivityToSI converts Btu·in/(h·ft²·°F) to W/(m·K).
func ConductivityToSI(k float64) float64 { return k / conductivityDivisor }

// ConductivityToIP is the inverse of ConductivityToSI.
func ConductivityToIP(k float64) float64 { return k * conductivityDivisor }

// DensityToSI converts lb/ft³ to kg/m³.
func DensityToSI(d float64) float64 { return d * densityFactor }

// DensityToIP is the inverse of DensityToSI.
func DensityToIP(d float64) float64 { return d / densityFactor }

// SpecificHeatToSI converts Btu/(lb·°F) to J/(kg·K).
func SpecificHeatToSI(c float64) float64 { return c / specificHeatDivisor }

// SpecificHeatToIP is the inverse of SpecificHeatToSI.
func SpecificHeatToIP(c float64) float64 { return c * specificHeatDivisor }

// ResistanceToSI converts h·ft²·°F/Btu to m²·K/W.
func ResistanceToSI(r float64) float64 { return r / resistanceDivisor }

// ResistanceToIP is the inverse of ResistanceToSI.
func ResistanceToIP(r float64) float64 { return r * resistanceDivisor }

// UFactorToSI converts Btu/(h·ft²·°F) to W/(m²·K).
func UFactorToSI(u float64) float64 { return u * uFactorFactor }

// UFactorToIP is the inverse of UFactorToSI.
func UFactorToIP(u float64) float64 { return u / uFactorFactor }

// PowerPerAreaToSI converts W/ft² to W/m².
func PowerPerAreaToSI(p float64) float64 { return p * powerPerAreaFactor }

// PowerPerAreaToIP is the inverse of PowerPerAreaToSI.
func PowerPerAreaToIP(p float64) float64 { return p / powerPerAreaFactor }

// GasPowerPerAreaToSI converts Btu/(h·ft²) to W/m².
func GasPowerPerAreaToSI(p float64) float64 { return p * gasPowerPerAreaFactor }

// GasPowerPerAreaToIP is the inverse of GasPowerPerAreaToSI.
func GasPowerPerAreaToIP(p float64) float64 { return p / gasPowerPerAreaFactor }

// PeoplePerAreaToSI converts people per 1000 ft² to people/m².
func PeoplePerAreaToSI(p float64) float64 { return p / peoplePerAreaDivisor }

// PeoplePerAreaToIP is the inverse of PeoplePerAreaToSI.
func PeoplePerAreaToIP(p float64) float64 { return p * peoplePerAreaDivisor }

// VentilationPerPersonToSI converts cfm/person to m³/s per person.
func VentilationPerPersonToSI(v float64) float64 { return v * ventilationPerPersonFactor }

// VentilationPerPersonToIP is the inverse of VentilationPerPersonToSI.
func VentilationPerPersonToIP(v float64) float64 { return v / ventilationPerPersonFactor }

// VentilationPerAreaToSI converts cfm/ft² to m³/(s·m²).
func VentilationPerAreaToSI(v float64) float64 { return v * ventilationPerAreaFactor }

// VentilationPerAreaToIP is the inverse of VentilationPerAreaToSI.
func VentilationPerAreaToIP(v float64) float64 { return v / ventilationPerAreaFactor }

// InfiltrationToSI converts cfm/ft² of exterior area to m³/(s·m²).
func InfiltrationToSI(v float64) float64 { return v * infiltrationFactor }

// InfiltrationToIP is the inverse of InfiltrationToSI.
func InfiltrationToIP(v float64) float64 { return v / infiltrationFactor }

// HotWaterFlowToSI converts gal/(h·ft²) to L/(h·m²).
func HotWaterFlowToSI(f float64) float64 { return f * hotWaterFlowFactor }

// HotWaterFlowToIP is the inverse of HotWaterFlowToSI.
func HotWaterFlowToIP(f float64) float64 { return f / hotWaterFlowFactor }

// FahrenheitToCelsius converts a temperature in °F to °C.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// CelsiusToFahrenheit is the inverse of FahrenheitToCelsius.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// Or converts v when it is present and returns def untouched otherwise.
// Absent quantities never reach the conversion.
func Or(v *float64, convert func(float64) float64, def float64) float64 {
	if v == nil {
		return def
	}
	if convert == nil {
		return *v
	}
	return convert(*v)
}

// NonZero reports whether v is present and not zero.
func NonZero(v *float64) bool {
	return v != nil && *v != 0
}
