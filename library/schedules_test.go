package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/processor/schedules"
	"github.com/c360studio/standardslib/standards"
)

var largeOfficeOcc = []float64{
	0, 0, 0, 0, 0, 0, 0.1, 0.2, 0.95, 0.95, 0.95, 0.95,
	0.5, 0.95, 0.95, 0.95, 0.95, 0.7, 0.4, 0.4, 0.1, 0.1, 0.05, 0.05,
}

func occRule(dayTypes string, values []float64) standards.ScheduleRule {
	return standards.ScheduleRule{
		Name:      "Large Office Bldg Occ",
		Category:  standards.String("Occupancy"),
		DayTypes:  dayTypes,
		StartDate: "2014-01-01T00:00:00+00:00",
		EndDate:   "2014-12-31T00:00:00+00:00",
		Values:    values,
	}
}

func TestScheduleRulesetGrouping(t *testing.T) {
	raw := []standards.ScheduleRule{
		occRule("Default", largeOfficeOcc),
		occRule("SmrDsn", []float64{1}),
		occRule("WtrDsn", []float64{0}),
		occRule("Wkdy", largeOfficeOcc),
		occRule("Sat|Sun|Hol", []float64{0}),
	}
	cleaned, err := schedules.Clean(raw, nil)
	require.NoError(t, err)

	cat := standards.NewCatalog()
	cat.Schedules = cleaned
	l := newLibrary(t, cat)

	s, err := l.Schedule("Large Office Bldg Occ")
	require.NoError(t, err)

	assert.Equal(t, "Large Office Bldg Occ_Default", s.DefaultDay().Identifier())
	require.NotNil(t, s.SummerDesignDay())
	assert.Equal(t, "Large Office Bldg Occ_SmrDsn", s.SummerDesignDay().Identifier())
	require.NotNil(t, s.WinterDesignDay())
	assert.Equal(t, "Large Office Bldg Occ_WntrDsn", s.WinterDesignDay().Identifier())

	rules := s.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "Large Office Bldg Occ_Wkdy", rules[0].Day().Identifier())
	for d := model.Monday; d <= model.Friday; d++ {
		assert.True(t, rules[0].AppliesTo(d))
	}
	assert.False(t, rules[0].AppliesTo(model.Saturday))
	assert.True(t, rules[1].AppliesTo(model.Sunday))
	assert.True(t, rules[1].AppliesTo(model.Holiday))
	assert.Equal(t, model.Date{Month: 1, Day: 1}, rules[0].StartDate())
	assert.Equal(t, model.Date{Month: 12, Day: 31}, rules[0].EndDate())

	assert.Len(t, s.DefaultDay().Values(), 10)
	require.NotNil(t, s.TypeLimit())
	assert.Equal(t, model.Fractional.Name, s.TypeLimit().Name)
	assert.Equal(t, 1.0, s.Max())
	assert.Equal(t, 0.0, s.Min())
	assert.True(t, s.IsLocked())
}

func TestScheduleRulesetPromotesFirstRule(t *testing.T) {
	recs := []standards.ScheduleRule{
		{Name: "Fan", DayTypes: "Wkdy", StartDate: "01-01", EndDate: "12-31", Values: []float64{1}},
		{Name: "Fan", DayTypes: "Wknd", StartDate: "01-01", EndDate: "12-31", Values: []float64{0},
			Category: standards.String("Fan")},
	}
	s, err := ScheduleRulesetFromStandards("Fan", recs)
	require.NoError(t, err)
	assert.Equal(t, "Fan_Wkdy", s.DefaultDay().Identifier())
	assert.Len(t, s.Rules(), 1)
	assert.Equal(t, model.OnOff.Name, s.TypeLimit().Name)
}

func TestScheduleRulesetErrors(t *testing.T) {
	_, err := ScheduleRulesetFromStandards("Empty", nil)
	assert.ErrorIs(t, err, model.ErrInvalid)

	_, err = ScheduleRulesetFromStandards("Odd", []standards.ScheduleRule{
		{Name: "Odd", DayTypes: "Default|Someday", StartDate: "01-01", EndDate: "12-31", Values: []float64{1}},
	})
	assert.ErrorIs(t, err, ErrUnrecognizedType)

	_, err = ScheduleRulesetFromStandards("Short", []standards.ScheduleRule{
		{Name: "Short", DayTypes: "Default", StartDate: "01-01", EndDate: "12-31", Values: []float64{1, 2, 3}},
	})
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestScheduleRulesetRepeatedDayTypes(t *testing.T) {
	recs := []standards.ScheduleRule{
		{Name: "Heat", DayTypes: "Default", StartDate: "01-01", EndDate: "12-31", Values: []float64{15.6}, Units: standards.String("C")},
		{Name: "Heat", DayTypes: "Wkdy", StartDate: "01-01", EndDate: "05-31", Values: []float64{21}},
		{Name: "Heat", DayTypes: "Wkdy", StartDate: "06-01", EndDate: "12-31", Values: []float64{20}},
	}
	s, err := ScheduleRulesetFromStandards("Heat", recs)
	require.NoError(t, err)
	rules := s.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "Heat_Wkdy", rules[0].Day().Identifier())
	assert.Equal(t, "Heat_Wkdy_2", rules[1].Day().Identifier())
	assert.Nil(t, s.TypeLimit(), "last record carries no units")
}

func TestTypeLimitFromStandards(t *testing.T) {
	tests := []struct {
		category, units string
		want            string
	}{
		{"Lighting", "", model.Fractional.Name},
		{"OA Air", "", model.OnOff.Name},
		{"Activity", "W", model.ActivityLevel.Name},
		{"Thermostat", "C", model.Temperature.Name},
		{"", "W", model.Power.Name},
		{"", "FRACTION", model.Fractional.Name},
		{"Misc", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.units, func(t *testing.T) {
			rec := standards.ScheduleRule{}
			if tt.category != "" {
				rec.Category = standards.String(tt.category)
			}
			if tt.units != "" {
				rec.Units = standards.String(tt.units)
			}
			got := TypeLimitFromStandards(rec)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestParseRuleDate(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Date
		wantErr bool
	}{
		{"01-01", model.Date{Month: 1, Day: 1}, false},
		{"2014-12-31T00:00:00+00:00", model.Date{Month: 12, Day: 31}, false},
		{"2014-06-15", model.Date{Month: 6, Day: 15}, false},
		{"June", model.Date{}, true},
		{"02-30", model.Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRuleDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
