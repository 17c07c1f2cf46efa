package standards

// ProgramType is a canonical space-type record. SpaceType holds the
// composite identifier "{vintage}::{building type}::{space type}".
type ProgramType struct {
	Template     *string `json:"template,omitempty"`
	BuildingType string  `json:"building_type"`
	SpaceType    string  `json:"space_type"`

	LightingStandard              *string  `json:"lighting_standard,omitempty"`
	LightingPrimarySpaceType      *string  `json:"lighting_primary_space_type,omitempty"`
	LightingSecondarySpaceType    *string  `json:"lighting_secondary_space_type,omitempty"`
	LightingPerArea               *float64 `json:"lighting_per_area,omitempty"`
	LightingPerPerson             *float64 `json:"lighting_per_person,omitempty"`
	AdditionalLightingPerArea     *float64 `json:"additional_lighting_per_area,omitempty"`
	LightingFractionToReturnAir   *float64 `json:"lighting_fraction_to_return_air,omitempty"`
	LightingFractionRadiant       *float64 `json:"lighting_fraction_radiant,omitempty"`
	LightingFractionVisible       *float64 `json:"lighting_fraction_visible,omitempty"`
	LightingSchedule              *string  `json:"lighting_schedule,omitempty"`
	VentilationStandard           *string  `json:"ventilation_standard,omitempty"`
	VentilationPrimarySpaceType   *string  `json:"ventilation_primary_space_type,omitempty"`
	VentilationSecondarySpaceType *string  `json:"ventilation_secondary_space_type,omitempty"`
	VentilationPerArea            *float64 `json:"ventilation_per_area,omitempty"`
	VentilationPerPerson          *float64 `json:"ventilation_per_person,omitempty"`
	VentilationAirChanges         *float64 `json:"ventilation_air_changes,omitempty"`
	MinimumTotalAirChanges        *float64 `json:"minimum_total_air_changes,omitempty"`

	OccupancyPerArea          *float64 `json:"occupancy_per_area,omitempty"`
	OccupancySchedule         *string  `json:"occupancy_schedule,omitempty"`
	OccupancyActivitySchedule *string  `json:"occupancy_activity_schedule,omitempty"`

	InfiltrationPerExteriorArea     *float64 `json:"infiltration_per_exterior_area,omitempty"`
	InfiltrationPerExteriorWallArea *float64 `json:"infiltration_per_exterior_wall_area,omitempty"`
	InfiltrationAirChanges          *float64 `json:"infiltration_air_changes,omitempty"`
	InfiltrationSchedule            *string  `json:"infiltration_schedule,omitempty"`

	GasEquipmentPerArea         *float64 `json:"gas_equipment_per_area,omitempty"`
	GasEquipmentFractionLatent  *float64 `json:"gas_equipment_fraction_latent,omitempty"`
	GasEquipmentFractionRadiant *float64 `json:"gas_equipment_fraction_radiant,omitempty"`
	GasEquipmentFractionLost    *float64 `json:"gas_equipment_fraction_lost,omitempty"`
	GasEquipmentSchedule        *string  `json:"gas_equipment_schedule,omitempty"`

	ElectricEquipmentPerArea         *float64 `json:"electric_equipment_per_area,omitempty"`
	ElectricEquipmentFractionLatent  *float64 `json:"electric_equipment_fraction_latent,omitempty"`
	ElectricEquipmentFractionRadiant *float64 `json:"electric_equipment_fraction_radiant,omitempty"`
	ElectricEquipmentFractionLost    *float64 `json:"electric_equipment_fraction_lost,omitempty"`
	ElectricEquipmentSchedule        *string  `json:"electric_equipment_schedule,omitempty"`

	HeatingSetpointSchedule *string `json:"heating_setpoint_schedule,omitempty"`
	CoolingSetpointSchedule *string `json:"cooling_setpoint_schedule,omitempty"`

	ServiceWaterHeatingPeakFlowPerArea   *float64 `json:"service_water_heating_peak_flow_per_area,omitempty"`
	ServiceWaterHeatingTargetTemperature *float64 `json:"service_water_heating_target_temperature,omitempty"`
	ServiceWaterHeatingFractionSensible  *float64 `json:"service_water_heating_fraction_sensible,omitempty"`
	ServiceWaterHeatingFractionLatent    *float64 `json:"service_water_heating_fraction_latent,omitempty"`
	ServiceWaterHeatingSchedule          *string  `json:"service_water_heating_schedule,omitempty"`
}

// ScheduleRefs returns every schedule name the record references, in field
// order, without duplicates.
func (p ProgramType) ScheduleRefs() []string {
	fields := []*string{
		p.LightingSchedule,
		p.OccupancySchedule,
		p.OccupancyActivitySchedule,
		p.InfiltrationSchedule,
		p.GasEquipmentSchedule,
		p.ElectricEquipmentSchedule,
		p.HeatingSetpointSchedule,
		p.CoolingSetpointSchedule,
		p.ServiceWaterHeatingSchedule,
	}
	seen := make(map[string]bool, len(fields))
	var refs []string
	for _, f := range fields {
		if f == nil || *f == "" || seen[*f] {
			continue
		}
		seen[*f] = true
		refs = append(refs, *f)
	}
	return refs
}

// Registry groups space-type names by building type, in first-seen order.
type Registry = OrderedMap[[]string]

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return NewOrderedMap[[]string]()
}
