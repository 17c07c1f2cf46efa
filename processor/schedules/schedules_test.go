package schedules

import (
	"bytes"
	"log/slog"
	"testing"

	semerrors "github.com/c360studio/semstreams/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/standardslib/standards"
)

func rule(name, dayTypes string, values ...float64) standards.ScheduleRule {
	return standards.ScheduleRule{
		Name:      name,
		Category:  standards.String("Occupancy"),
		DayTypes:  dayTypes,
		StartDate: "2014-01-01T00:00:00+00:00",
		EndDate:   "2014-12-31T00:00:00+00:00",
		Values:    values,
	}
}

func hourly(v float64) []float64 {
	out := make([]float64, 24)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCleanGroupsInFirstAppearanceOrder(t *testing.T) {
	occ := "Large Office Bldg Occ"
	input := []standards.ScheduleRule{
		rule(occ, "Default|SmrDsn", hourly(0.5)...),
		rule("Always On", "Default", 1),
		rule(occ, "WntrDsn", hourly(0)...),
		rule(occ, "Sat", hourly(0.1)...),
	}

	out, err := Clean(input, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{occ, "Always On"}, out.Keys())
	rules, ok := out.Get(occ)
	require.True(t, ok)
	require.Len(t, rules, 3)
	assert.Equal(t, []string{"Default|SmrDsn", "WntrDsn", "Sat"},
		[]string{rules[0].DayTypes, rules[1].DayTypes, rules[2].DayTypes})
	assert.Equal(t, "01-01", rules[0].StartDate)
	assert.Equal(t, "12-31", rules[0].EndDate)
}

func TestCleanRepairsVendorDefects(t *testing.T) {
	input := []standards.ScheduleRule{
		rule("Hotel Occ", "Default", hourly(0.3)...),
		rule("Hotel Occ", "DummySmrDsn", hourly(1)...),
		rule("Hotel Occ", "DummrySmrDsn", hourly(1)...),
		rule("Hotel Occ", "WtrDsn|Sun", hourly(0)...),
		rule("Hotel Light", "Default", 0.2, 0.4, 0.6),
	}

	out, err := Clean(input, nil)
	require.NoError(t, err)

	occ, _ := out.Get("Hotel Occ")
	require.Len(t, occ, 2, "dummy design days are dropped")
	assert.Equal(t, "WntrDsn|Sun", occ[1].DayTypes)

	light, _ := out.Get("Hotel Light")
	require.Len(t, light, 1)
	assert.Equal(t, []float64{0.2}, light[0].Values, "odd-length lists keep the first value")
}

func TestCleanLogsPlaceholderOnlySchedule(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	out, err := Clean([]standards.ScheduleRule{
		rule("Ghost Occ", "DummySmrDsn", hourly(1)...),
		rule("Ghost Occ", "DummrySmrDsn", hourly(1)...),
		rule("Hotel Occ", "Default", hourly(0.3)...),
		rule("Hotel Occ", "DummySmrDsn", hourly(1)...),
	}, logger)
	require.NoError(t, err)

	assert.False(t, out.Has("Ghost Occ"))
	assert.True(t, out.Has("Hotel Occ"))
	assert.Contains(t, logs.String(), `schedule="Ghost Occ"`)
	assert.NotContains(t, logs.String(), `schedule="Hotel Occ"`)
}

func TestCleanKeepsDummyTokenInsideLargerTag(t *testing.T) {
	out, err := Clean([]standards.ScheduleRule{rule("S", "DummySmrDsn|Sun", 1)}, nil)
	require.NoError(t, err)
	assert.True(t, out.Has("S"))
}

func TestCleanRejectsEmptyValues(t *testing.T) {
	_, err := Clean([]standards.ScheduleRule{rule("Empty", "Default")}, nil)
	require.Error(t, err)
	assert.True(t, semerrors.IsInvalid(err))
}

func TestCleanRejectsBadDate(t *testing.T) {
	r := rule("S", "Default", 1)
	r.StartDate = "not a date"
	_, err := Clean([]standards.ScheduleRule{r}, nil)
	require.Error(t, err)
	assert.True(t, semerrors.IsInvalid(err))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2014-01-01T00:00:00+00:00", "01-01"},
		{"2014-07-04T00:00:00+00:00", "07-04"},
		{"2014-12-31", "12-31"},
		{"03-15", "03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrune(t *testing.T) {
	scheds := standards.NewSchedules()
	for _, name := range []string{"Always Off", "Office Occ", "Unused", "Always On", "Office Light"} {
		scheds.Set(name, []standards.ScheduleRule{rule(name, "Default", 1)})
	}
	programs := map[string]standards.ProgramType{
		"90.1-2013::Office::OpenOffice": {
			OccupancySchedule:       standards.String("Office Occ"),
			LightingSchedule:        standards.String("Office Light"),
			HeatingSetpointSchedule: standards.String("Missing Htg"),
		},
	}

	out := Prune(scheds, programs, nil)
	assert.Equal(t, []string{"Always Off", "Office Occ", "Always On", "Office Light"}, out.Keys())
	assert.Equal(t, 5, scheds.Len(), "input is not modified")
}
