package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		forward func(float64) float64
		inverse func(float64) float64
	}{
		{"thickness", InchesToMeters, MetersToInches},
		{"conductivity", ConductivityToSI, ConductivityToIP},
		{"density", DensityToSI, DensityToIP},
		{"specific heat", SpecificHeatToSI, SpecificHeatToIP},
		{"resistance", ResistanceToSI, ResistanceToIP},
		{"u-factor", UFactorToSI, UFactorToIP},
		{"power per area", PowerPerAreaToSI, PowerPerAreaToIP},
		{"gas power per area", GasPowerPerAreaToSI, GasPowerPerAreaToIP},
		{"people per area", PeoplePerAreaToSI, PeoplePerAreaToIP},
		{"ventilation per person", VentilationPerPersonToSI, VentilationPerPersonToIP},
		{"ventilation per area", VentilationPerAreaToSI, VentilationPerAreaToIP},
		{"infiltration", InfiltrationToSI, InfiltrationToIP},
		{"hot water flow", HotWaterFlowToSI, HotWaterFlowToIP},
		{"temperature", FahrenheitToCelsius, CelsiusToFahrenheit},
	}

	values := []float64{0, 0.5, 1, 3.14159, 72, 1e4}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, x := range values {
				got := tt.inverse(tt.forward(x))
				assert.InEpsilon(t, x+1, got+1, 1e-12, "round trip of %v", x)
			}
		})
	}
}

func TestKnownValues(t *testing.T) {
	assert.InDelta(t, 0.003, InchesToMeters(0.118110236), 1e-9)
	assert.InDelta(t, 0.0127, InchesToMeters(0.5), 1e-12)
	assert.InDelta(t, 1.0/5.678263337, ResistanceToSI(1), 1e-12)
	assert.InDelta(t, 60.0/5.678263337, ResistanceToSI(60), 1e-12)
	assert.InDelta(t, 0.0, FahrenheitToCelsius(32), 1e-12)
	assert.InDelta(t, 60.0, math.Round(FahrenheitToCelsius(140)), 1e-12)
	assert.InDelta(t, 10.7639, PowerPerAreaToSI(1), 1e-12)
}

func TestOr(t *testing.T) {
	v := 2.0
	assert.Equal(t, 2.0*10.7639, Or(&v, PowerPerAreaToSI, 0))
	assert.Equal(t, 0.32, Or(nil, PowerPerAreaToSI, 0.32))
	assert.Equal(t, 2.0, Or(&v, nil, 0))

	called := false
	Or(nil, func(f float64) float64 { called = true; return f }, 1)
	assert.False(t, called, "conversion must not run for an absent value")
}

func TestNonZero(t *testing.T) {
	zero, one := 0.0, 1.0
	assert.False(t, NonZero(nil))
	assert.False(t, NonZero(&zero))
	assert.True(t, NonZero(&one))
}
