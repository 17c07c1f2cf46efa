package library

import (
	"fmt"
	"math"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/standards"
	"github.com/c360studio/standardslib/units"
)

// Defaults for load fields the vendor leaves empty.
const (
	DefaultLightingRadiantFraction = 0.32
	DefaultLightingVisibleFraction = 0.25
	DefaultHotWaterTemperature     = 60.0
	DefaultHotWaterSensible        = 0.2
	DefaultHotWaterLatent          = 0.05
)

func present(s *string) bool { return s != nil && *s != "" }

func optionalSchedule(ref *string, schedule Lookup[*model.ScheduleRuleset]) (*model.ScheduleRuleset, error) {
	if !present(ref) {
		return nil, nil
	}
	return schedule(*ref)
}

// ProgramTypeFromStandards builds a program type from a canonical space
// type, resolving schedules with schedule. A load is only present when its
// schedule (or, for ventilation, its standard) is set; a load with a
// schedule but no density gets a zero density.
func ProgramTypeFromStandards(rec standards.ProgramType, schedule Lookup[*model.ScheduleRuleset]) (*model.ProgramType, error) {
	id := rec.SpaceType
	var loads model.ProgramTypeLoads
	wrap := func(err error) error { return fmt.Errorf("program type %s: %w", id, err) }

	if present(rec.OccupancySchedule) && units.NonZero(rec.OccupancyPerArea) {
		occ, err := schedule(*rec.OccupancySchedule)
		if err != nil {
			return nil, wrap(err)
		}
		act, err := optionalSchedule(rec.OccupancyActivitySchedule, schedule)
		if err != nil {
			return nil, wrap(err)
		}
		loads.People = &model.People{
			Identifier:        id + "_People",
			PeoplePerArea:     units.PeoplePerAreaToSI(*rec.OccupancyPerArea),
			OccupancySchedule: occ,
			ActivitySchedule:  act,
		}
	}

	if present(rec.LightingSchedule) {
		sch, err := schedule(*rec.LightingSchedule)
		if err != nil {
			return nil, wrap(err)
		}
		loads.Lighting = &model.Lighting{
			Identifier:        id + "_Lighting",
			WattsPerArea:      units.Or(rec.LightingPerArea, units.PowerPerAreaToSI, 0),
			Schedule:          sch,
			ReturnAirFraction: units.Or(rec.LightingFractionToReturnAir, nil, 0),
			RadiantFraction:   units.Or(rec.LightingFractionRadiant, nil, DefaultLightingRadiantFraction),
			VisibleFraction:   units.Or(rec.LightingFractionVisible, nil, DefaultLightingVisibleFraction),
		}
	}

	if present(rec.ElectricEquipmentSchedule) {
		sch, err := schedule(*rec.ElectricEquipmentSchedule)
		if err != nil {
			return nil, wrap(err)
		}
		loads.ElectricEquipment = &model.Equipment{
			Identifier:      id + "_Electric",
			WattsPerArea:    units.Or(rec.ElectricEquipmentPerArea, units.PowerPerAreaToSI, 0),
			Schedule:        sch,
			RadiantFraction: units.Or(rec.ElectricEquipmentFractionRadiant, nil, 0),
			LatentFraction:  units.Or(rec.ElectricEquipmentFractionLatent, nil, 0),
			LostFraction:    units.Or(rec.ElectricEquipmentFractionLost, nil, 0),
		}
	}

	if present(rec.GasEquipmentSchedule) {
		sch, err := schedule(*rec.GasEquipmentSchedule)
		if err != nil {
			return nil, wrap(err)
		}
		loads.GasEquipment = &model.Equipment{
			Identifier:      id + "_Gas",
			WattsPerArea:    units.Or(rec.GasEquipmentPerArea, units.GasPowerPerAreaToSI, 0),
			Schedule:        sch,
			RadiantFraction: units.Or(rec.GasEquipmentFractionRadiant, nil, 0),
			LatentFraction:  units.Or(rec.GasEquipmentFractionLatent, nil, 0),
			LostFraction:    units.Or(rec.GasEquipmentFractionLost, nil, 0),
		}
	}

	if present(rec.ServiceWaterHeatingSchedule) {
		sch, err := schedule(*rec.ServiceWaterHeatingSchedule)
		if err != nil {
			return nil, wrap(err)
		}
		temp := DefaultHotWaterTemperature
		if rec.ServiceWaterHeatingTargetTemperature != nil {
			temp = math.RoundToEven(units.FahrenheitToCelsius(*rec.ServiceWaterHeatingTargetTemperature))
		}
		loads.ServiceHotWater = &model.ServiceHotWater{
			Identifier:        id + "_SHW",
			FlowPerArea:       units.Or(rec.ServiceWaterHeatingPeakFlowPerArea, units.HotWaterFlowToSI, 0),
			Schedule:          sch,
			TargetTemperature: temp,
			SensibleFraction:  units.Or(rec.ServiceWaterHeatingFractionSensible, nil, DefaultHotWaterSensible),
			LatentFraction:    units.Or(rec.ServiceWaterHeatingFractionLatent, nil, DefaultHotWaterLatent),
		}
	}

	if present(rec.InfiltrationSchedule) {
		sch, err := schedule(*rec.InfiltrationSchedule)
		if err != nil {
			return nil, wrap(err)
		}
		flow := rec.InfiltrationPerExteriorArea
		if flow == nil {
			flow = rec.InfiltrationPerExteriorWallArea
		}
		loads.Infiltration = &model.Infiltration{
			Identifier:          id + "_Infiltration",
			FlowPerExteriorArea: units.Or(flow, units.InfiltrationToSI, 0),
			Schedule:            sch,
		}
	}

	if present(rec.VentilationStandard) {
		loads.Ventilation = &model.Ventilation{
			Identifier:        id + "_Ventilation",
			FlowPerPerson:     units.Or(rec.VentilationPerPerson, units.VentilationPerPersonToSI, 0),
			FlowPerArea:       units.Or(rec.VentilationPerArea, units.VentilationPerAreaToSI, 0),
			AirChangesPerHour: units.Or(rec.VentilationAirChanges, nil, 0),
		}
	}

	if present(rec.HeatingSetpointSchedule) {
		heat, err := schedule(*rec.HeatingSetpointSchedule)
		if err != nil {
			return nil, wrap(err)
		}
		cool, err := optionalSchedule(rec.CoolingSetpointSchedule, schedule)
		if err != nil {
			return nil, wrap(err)
		}
		sp, err := model.NewSetpoint(id+"_Setpoint", heat, cool)
		if err != nil {
			return nil, wrap(err)
		}
		loads.Setpoint = sp
	}

	return model.NewProgramType(id, loads)
}
