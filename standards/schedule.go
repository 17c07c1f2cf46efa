package standards

import "strings"

// Day type tags used by schedule rules.
const (
	DayDefault = "Default"
	DaySummer  = "SmrDsn"
	DayWinter  = "WntrDsn"
)

// ScheduleRule is one day profile of a schedule together with the day types
// and date range it applies to. Canonical dates are "MM-DD".
type ScheduleRule struct {
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	Units     *string   `json:"units,omitempty"`
	DayTypes  string    `json:"day_types"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Type      *string   `json:"type,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Values    []float64 `json:"values"`
}

// DayTypeList splits the pipe-delimited day types.
func (r ScheduleRule) DayTypeList() []string {
	if r.DayTypes == "" {
		return nil
	}
	return strings.Split(r.DayTypes, "|")
}

// Schedules maps a schedule name to its rules, in first-appearance order.
type Schedules = OrderedMap[[]ScheduleRule]

// NewSchedules returns an empty schedule store.
func NewSchedules() *Schedules {
	return NewOrderedMap[[]ScheduleRule]()
}
