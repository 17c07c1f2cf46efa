package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// TypeLimit bounds the values of a schedule.
type TypeLimit struct {
	Name        string   `json:"identifier"`
	LowerLimit  *float64 `json:"lower_limit,omitempty"`
	UpperLimit  *float64 `json:"upper_limit,omitempty"`
	NumericType string   `json:"numeric_type"`
	UnitType    string   `json:"unit_type"`
}

func limit(v float64) *float64 { return &v }

// Type limits assigned to vendor schedules.
var (
	Fractional    = TypeLimit{Name: "Fractional", LowerLimit: limit(0), UpperLimit: limit(1), NumericType: "Continuous", UnitType: "Dimensionless"}
	OnOff         = TypeLimit{Name: "On-Off", LowerLimit: limit(0), UpperLimit: limit(1), NumericType: "Discrete", UnitType: "Dimensionless"}
	Temperature   = TypeLimit{Name: "Temperature", LowerLimit: limit(-273.15), NumericType: "Continuous", UnitType: "Temperature"}
	ActivityLevel = TypeLimit{Name: "Activity Level", LowerLimit: limit(0), NumericType: "Continuous", UnitType: "ActivityLevel"}
	Power         = TypeLimit{Name: "Power", NumericType: "Continuous", UnitType: "Power"}
)

// Time is a time of day at minute resolution.
type Time struct {
	Hour   int
	Minute int
}

// String formats t as HH:MM.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON writes t as [hour, minute].
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{t.Hour, t.Minute})
}

// Date is a day of a non-leap year.
type Date struct {
	Month int
	Day   int
}

// NewDate validates and creates a date.
func NewDate(month, day int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d", ErrInvalid, month)
	}
	last := time.Date(2017, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return Date{}, fmt.Errorf("%w: day %d of month %d", ErrInvalid, day, month)
	}
	return Date{Month: month, Day: day}, nil
}

// String formats d as MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d", d.Month, d.Day)
}

// MarshalJSON writes d as [month, day].
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{d.Month, d.Day})
}

// ScheduleDay is a 24-hour profile given as values that start at times.
// The first time is always midnight.
type ScheduleDay struct {
	base
	values []float64
	times  []Time
}

// NewScheduleDay creates a day schedule. times must start at 00:00 and
// increase.
func NewScheduleDay(id string, values []float64, times []Time) (*ScheduleDay, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if len(values) == 0 || len(values) != len(times) {
		return nil, fmt.Errorf("%w: day schedule %s has %d values and %d times", ErrInvalid, id, len(values), len(times))
	}
	if times[0] != (Time{}) {
		return nil, fmt.Errorf("%w: day schedule %s does not start at midnight", ErrInvalid, id)
	}
	for i := 1; i < len(times); i++ {
		prev, cur := times[i-1], times[i]
		if cur.Hour*60+cur.Minute <= prev.Hour*60+prev.Minute {
			return nil, fmt.Errorf("%w: day schedule %s times out of order at %s", ErrInvalid, id, cur)
		}
	}
	return &ScheduleDay{
		base:   base{id: id},
		values: append([]float64(nil), values...),
		times:  append([]Time(nil), times...),
	}, nil
}

// NewScheduleDayConstant creates a day schedule holding one value.
func NewScheduleDayConstant(id string, value float64) (*ScheduleDay, error) {
	return NewScheduleDay(id, []float64{value}, []Time{{}})
}

// NewScheduleDayHourly creates a day schedule from 24 hourly values, keeping
// only the hours where the value changes.
func NewScheduleDayHourly(id string, hourly []float64) (*ScheduleDay, error) {
	if len(hourly) != 24 {
		return nil, fmt.Errorf("%w: day schedule %s has %d hourly values", ErrInvalid, id, len(hourly))
	}
	values := []float64{hourly[0]}
	times := []Time{{}}
	for h := 1; h < 24; h++ {
		if hourly[h] != hourly[h-1] {
			values = append(values, hourly[h])
			times = append(times, Time{Hour: h})
		}
	}
	return NewScheduleDay(id, values, times)
}

// Rename returns an unlocked copy of d under a new identifier.
func (d *ScheduleDay) Rename(id string) (*ScheduleDay, error) {
	return NewScheduleDay(id, d.values, d.times)
}

// Values returns the profile values.
func (d *ScheduleDay) Values() []float64 { return append([]float64(nil), d.values...) }

// Times returns the time each value starts.
func (d *ScheduleDay) Times() []Time { return append([]Time(nil), d.times...) }

// HourlyValues expands the profile to one value per hour.
func (d *ScheduleDay) HourlyValues() []float64 {
	out := make([]float64, 24)
	j := 0
	for h := 0; h < 24; h++ {
		for j+1 < len(d.times) && d.times[j+1].Hour*60+d.times[j+1].Minute <= h*60 {
			j++
		}
		out[h] = d.values[j]
	}
	return out
}

// MarshalJSON writes the profile.
func (d *ScheduleDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string    `json:"type"`
		Identifier string    `json:"identifier"`
		Values     []float64 `json:"values"`
		Times      []Time    `json:"times"`
	}{"ScheduleDay", d.id, d.values, d.times})
}

// Days of the week a rule can apply to, numbered as in the vendor data.
const (
	Sunday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Holiday
)

var dayNames = [...]string{"", "sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "holiday"}

// ScheduleRule applies a day schedule to some days of the week within a
// date range.
type ScheduleRule struct {
	day       *ScheduleDay
	days      [Holiday + 1]bool
	startDate Date
	endDate   Date
}

// NewScheduleRule creates a rule applying day on the given days between
// start and end inclusive.
func NewScheduleRule(day *ScheduleDay, days []int, start, end Date) (*ScheduleRule, error) {
	if day == nil {
		return nil, fmt.Errorf("%w: rule without day schedule", ErrInvalid)
	}
	r := &ScheduleRule{day: day, startDate: start, endDate: end}
	for _, d := range days {
		if d < Sunday || d > Holiday {
			return nil, fmt.Errorf("%w: rule %s day %d", ErrInvalid, day.Identifier(), d)
		}
		r.days[d] = true
	}
	return r, nil
}

// Day returns the applied day schedule.
func (r *ScheduleRule) Day() *ScheduleDay { return r.day }

// AppliesTo reports whether the rule applies on day d.
func (r *ScheduleRule) AppliesTo(d int) bool {
	return d >= Sunday && d <= Holiday && r.days[d]
}

// StartDate returns the first date of the rule.
func (r *ScheduleRule) StartDate() Date { return r.startDate }

// EndDate returns the last date of the rule.
func (r *ScheduleRule) EndDate() Date { return r.endDate }

// MarshalJSON writes the rule.
func (r *ScheduleRule) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"schedule_day": r.day.Identifier(),
		"start_date":   r.startDate,
		"end_date":     r.endDate,
	}
	for d := Sunday; d <= Holiday; d++ {
		m["apply_"+dayNames[d]] = r.days[d]
	}
	return json.Marshal(m)
}

// ScheduleRulesetProperties holds the parts of a ruleset.
type ScheduleRulesetProperties struct {
	Default   *ScheduleDay
	Rules     []*ScheduleRule
	TypeLimit *TypeLimit
	SummerDay *ScheduleDay
	WinterDay *ScheduleDay
}

// ScheduleRuleset is an annual schedule: a default day, rules that
// override it, and optional design days.
type ScheduleRuleset struct {
	base
	props ScheduleRulesetProperties
}

// NewScheduleRuleset creates a ruleset. A default day is required.
func NewScheduleRuleset(id string, p ScheduleRulesetProperties) (*ScheduleRuleset, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if p.Default == nil {
		return nil, fmt.Errorf("%w: ruleset %s has no default day", ErrInvalid, id)
	}
	p.Rules = append([]*ScheduleRule(nil), p.Rules...)
	return &ScheduleRuleset{base: base{id: id}, props: p}, nil
}

// DefaultDay returns the day applied when no rule matches.
func (s *ScheduleRuleset) DefaultDay() *ScheduleDay { return s.props.Default }

// Rules returns the override rules in priority order.
func (s *ScheduleRuleset) Rules() []*ScheduleRule {
	return append([]*ScheduleRule(nil), s.props.Rules...)
}

// SummerDesignDay returns the summer design day, or nil.
func (s *ScheduleRuleset) SummerDesignDay() *ScheduleDay { return s.props.SummerDay }

// WinterDesignDay returns the winter design day, or nil.
func (s *ScheduleRuleset) WinterDesignDay() *ScheduleDay { return s.props.WinterDay }

// TypeLimit returns the value bounds, or nil when none could be inferred.
func (s *ScheduleRuleset) TypeLimit() *TypeLimit { return s.props.TypeLimit }

// DaySchedules returns every distinct day schedule of the ruleset.
func (s *ScheduleRuleset) DaySchedules() []*ScheduleDay {
	days := []*ScheduleDay{s.props.Default}
	for _, r := range s.props.Rules {
		days = append(days, r.day)
	}
	for _, d := range []*ScheduleDay{s.props.SummerDay, s.props.WinterDay} {
		if d != nil {
			days = append(days, d)
		}
	}
	seen := make(map[string]bool, len(days))
	out := days[:0]
	for _, d := range days {
		if !seen[d.Identifier()] {
			seen[d.Identifier()] = true
			out = append(out, d)
		}
	}
	return out
}

// Max returns the largest value of any day schedule.
func (s *ScheduleRuleset) Max() float64 {
	m := math.Inf(-1)
	for _, d := range s.DaySchedules() {
		for _, v := range d.values {
			m = math.Max(m, v)
		}
	}
	return m
}

// Min returns the smallest value of any day schedule.
func (s *ScheduleRuleset) Min() float64 {
	m := math.Inf(1)
	for _, d := range s.DaySchedules() {
		for _, v := range d.values {
			m = math.Min(m, v)
		}
	}
	return m
}

// Lock locks the ruleset and every day schedule it holds.
func (s *ScheduleRuleset) Lock() {
	for _, d := range s.DaySchedules() {
		d.Lock()
	}
	s.base.Lock()
}

// MarshalJSON writes the ruleset with its day schedules inline.
func (s *ScheduleRuleset) MarshalJSON() ([]byte, error) {
	out := struct {
		Type           string          `json:"type"`
		Identifier     string          `json:"identifier"`
		DaySchedules   []*ScheduleDay  `json:"day_schedules"`
		DefaultDay     string          `json:"default_day_schedule"`
		Rules          []*ScheduleRule `json:"schedule_rules,omitempty"`
		SummerDesign   string          `json:"summer_designday_schedule,omitempty"`
		WinterDesign   string          `json:"winter_designday_schedule,omitempty"`
		ScheduleLimits *TypeLimit      `json:"schedule_type_limit,omitempty"`
	}{
		Type:           "ScheduleRuleset",
		Identifier:     s.id,
		DaySchedules:   s.DaySchedules(),
		DefaultDay:     s.props.Default.Identifier(),
		Rules:          s.props.Rules,
		ScheduleLimits: s.props.TypeLimit,
	}
	if s.props.SummerDay != nil {
		out.SummerDesign = s.props.SummerDay.Identifier()
	}
	if s.props.WinterDay != nil {
		out.WinterDesign = s.props.WinterDay.Identifier()
	}
	return json.Marshal(out)
}
