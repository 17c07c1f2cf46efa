package model

import (
	"encoding/json"
	"fmt"
)

// People is the occupancy load of a program.
type People struct {
	Identifier        string
	PeoplePerArea     float64 // people/m²
	OccupancySchedule *ScheduleRuleset
	ActivitySchedule  *ScheduleRuleset
}

// Lighting is the lighting load of a program.
type Lighting struct {
	Identifier        string
	WattsPerArea      float64 // W/m²
	Schedule          *ScheduleRuleset
	ReturnAirFraction float64
	RadiantFraction   float64
	VisibleFraction   float64
}

// Equipment is an electric or gas equipment load.
type Equipment struct {
	Identifier      string
	WattsPerArea    float64 // W/m²
	Schedule        *ScheduleRuleset
	RadiantFraction float64
	LatentFraction  float64
	LostFraction    float64
}

// ServiceHotWater is the hot water demand of a program.
type ServiceHotWater struct {
	Identifier        string
	FlowPerArea       float64 // L/h·m²
	Schedule          *ScheduleRuleset
	TargetTemperature float64 // °C
	SensibleFraction  float64
	LatentFraction    float64
}

// Infiltration is the envelope leakage of a program.
type Infiltration struct {
	Identifier          string
	FlowPerExteriorArea float64 // m³/s·m²
	Schedule            *ScheduleRuleset
}

// Ventilation is the outdoor air requirement of a program.
type Ventilation struct {
	Identifier        string
	FlowPerPerson     float64 // m³/s
	FlowPerArea       float64 // m³/s·m²
	FlowPerZone       float64 // m³/s
	AirChangesPerHour float64
}

// Setpoint holds the thermostat schedules of a program and the values
// derived from them.
type Setpoint struct {
	Identifier      string
	HeatingSchedule *ScheduleRuleset
	CoolingSchedule *ScheduleRuleset
}

// NewSetpoint creates a setpoint. Both schedules are required.
func NewSetpoint(id string, heating, cooling *ScheduleRuleset) (*Setpoint, error) {
	if heating == nil || cooling == nil {
		return nil, fmt.Errorf("%w: setpoint %s needs heating and cooling schedules", ErrInvalid, id)
	}
	return &Setpoint{Identifier: id, HeatingSchedule: heating, CoolingSchedule: cooling}, nil
}

// HeatingSetpoint is the occupied heating temperature in °C.
func (s *Setpoint) HeatingSetpoint() float64 { return s.HeatingSchedule.Max() }

// HeatingSetback is the unoccupied heating temperature in °C.
func (s *Setpoint) HeatingSetback() float64 { return s.HeatingSchedule.Min() }

// CoolingSetpoint is the occupied cooling temperature in °C.
func (s *Setpoint) CoolingSetpoint() float64 { return s.CoolingSchedule.Min() }

// CoolingSetback is the unoccupied cooling temperature in °C.
func (s *Setpoint) CoolingSetback() float64 { return s.CoolingSchedule.Max() }

// ProgramTypeLoads holds the optional loads of a program. A nil entry means
// the program has no such load.
type ProgramTypeLoads struct {
	People            *People
	Lighting          *Lighting
	ElectricEquipment *Equipment
	GasEquipment      *Equipment
	ServiceHotWater   *ServiceHotWater
	Infiltration      *Infiltration
	Ventilation       *Ventilation
	Setpoint          *Setpoint
}

// ProgramType is the set of loads and schedules of a space type.
type ProgramType struct {
	base
	loads ProgramTypeLoads
}

// NewProgramType creates a program type from its loads.
func NewProgramType(id string, loads ProgramTypeLoads) (*ProgramType, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return &ProgramType{base: base{id: id}, loads: loads}, nil
}

// People returns the occupancy load.
func (p *ProgramType) People() (People, bool) { return deref(p.loads.People) }

// Lighting returns the lighting load.
func (p *ProgramType) Lighting() (Lighting, bool) { return deref(p.loads.Lighting) }

// ElectricEquipment returns the electric equipment load.
func (p *ProgramType) ElectricEquipment() (Equipment, bool) {
	return deref(p.loads.ElectricEquipment)
}

// GasEquipment returns the gas equipment load.
func (p *ProgramType) GasEquipment() (Equipment, bool) { return deref(p.loads.GasEquipment) }

// ServiceHotWater returns the hot water demand.
func (p *ProgramType) ServiceHotWater() (ServiceHotWater, bool) {
	return deref(p.loads.ServiceHotWater)
}

// Infiltration returns the envelope leakage.
func (p *ProgramType) Infiltration() (Infiltration, bool) { return deref(p.loads.Infiltration) }

// Ventilation returns the outdoor air requirement.
func (p *ProgramType) Ventilation() (Ventilation, bool) { return deref(p.loads.Ventilation) }

// Setpoint returns the thermostat.
func (p *ProgramType) Setpoint() (Setpoint, bool) { return deref(p.loads.Setpoint) }

func deref[T any](v *T) (T, bool) {
	if v == nil {
		var zero T
		return zero, false
	}
	return *v, true
}

// Schedules returns every distinct schedule the program references.
func (p *ProgramType) Schedules() []*ScheduleRuleset {
	l := p.loads
	var all []*ScheduleRuleset
	if l.People != nil {
		all = append(all, l.People.OccupancySchedule, l.People.ActivitySchedule)
	}
	if l.Lighting != nil {
		all = append(all, l.Lighting.Schedule)
	}
	if l.ElectricEquipment != nil {
		all = append(all, l.ElectricEquipment.Schedule)
	}
	if l.GasEquipment != nil {
		all = append(all, l.GasEquipment.Schedule)
	}
	if l.ServiceHotWater != nil {
		all = append(all, l.ServiceHotWater.Schedule)
	}
	if l.Infiltration != nil {
		all = append(all, l.Infiltration.Schedule)
	}
	if l.Setpoint != nil {
		all = append(all, l.Setpoint.HeatingSchedule, l.Setpoint.CoolingSchedule)
	}
	seen := make(map[string]bool, len(all))
	var out []*ScheduleRuleset
	for _, s := range all {
		if s == nil || seen[s.Identifier()] {
			continue
		}
		seen[s.Identifier()] = true
		out = append(out, s)
	}
	return out
}

// Lock locks the program and every schedule it references.
func (p *ProgramType) Lock() {
	for _, s := range p.Schedules() {
		s.Lock()
	}
	p.base.Lock()
}

func scheduleID(s *ScheduleRuleset) string {
	if s == nil {
		return ""
	}
	return s.Identifier()
}

// MarshalJSON writes the program with schedule identifiers in place of
// the schedules.
func (p *ProgramType) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":       "ProgramType",
		"identifier": p.id,
	}
	l := p.loads
	if l.People != nil {
		out["people"] = map[string]any{
			"identifier":         l.People.Identifier,
			"people_per_area":    l.People.PeoplePerArea,
			"occupancy_schedule": scheduleID(l.People.OccupancySchedule),
			"activity_schedule":  scheduleID(l.People.ActivitySchedule),
		}
	}
	if l.Lighting != nil {
		out["lighting"] = map[string]any{
			"identifier":          l.Lighting.Identifier,
			"watts_per_area":      l.Lighting.WattsPerArea,
			"schedule":            scheduleID(l.Lighting.Schedule),
			"return_air_fraction": l.Lighting.ReturnAirFraction,
			"radiant_fraction":    l.Lighting.RadiantFraction,
			"visible_fraction":    l.Lighting.VisibleFraction,
		}
	}
	for key, e := range map[string]*Equipment{
		"electric_equipment": l.ElectricEquipment,
		"gas_equipment":      l.GasEquipment,
	} {
		if e == nil {
			continue
		}
		out[key] = map[string]any{
			"identifier":       e.Identifier,
			"watts_per_area":   e.WattsPerArea,
			"schedule":         scheduleID(e.Schedule),
			"radiant_fraction": e.RadiantFraction,
			"latent_fraction":  e.LatentFraction,
			"lost_fraction":    e.LostFraction,
		}
	}
	if l.ServiceHotWater != nil {
		out["service_hot_water"] = map[string]any{
			"identifier":         l.ServiceHotWater.Identifier,
			"flow_per_area":      l.ServiceHotWater.FlowPerArea,
			"schedule":           scheduleID(l.ServiceHotWater.Schedule),
			"target_temperature": l.ServiceHotWater.TargetTemperature,
			"sensible_fraction":  l.ServiceHotWater.SensibleFraction,
			"latent_fraction":    l.ServiceHotWater.LatentFraction,
		}
	}
	if l.Infiltration != nil {
		out["infiltration"] = map[string]any{
			"identifier":             l.Infiltration.Identifier,
			"flow_per_exterior_area": l.Infiltration.FlowPerExteriorArea,
			"schedule":               scheduleID(l.Infiltration.Schedule),
		}
	}
	if l.Ventilation != nil {
		out["ventilation"] = map[string]any{
			"identifier":           l.Ventilation.Identifier,
			"flow_per_person":      l.Ventilation.FlowPerPerson,
			"flow_per_area":        l.Ventilation.FlowPerArea,
			"flow_per_zone":        l.Ventilation.FlowPerZone,
			"air_changes_per_hour": l.Ventilation.AirChangesPerHour,
		}
	}
	if l.Setpoint != nil {
		out["setpoint"] = map[string]any{
			"identifier":       l.Setpoint.Identifier,
			"heating_schedule": scheduleID(l.Setpoint.HeatingSchedule),
			"cooling_schedule": scheduleID(l.Setpoint.CoolingSchedule),
			"heating_setpoint": l.Setpoint.HeatingSetpoint(),
			"heating_setback":  l.Setpoint.HeatingSetback(),
			"cooling_setpoint": l.Setpoint.CoolingSetpoint(),
			"cooling_setback":  l.Setpoint.CoolingSetback(),
		}
	}
	return json.Marshal(out)
}
