// Package schedules groups raw schedule rules into rulesets and repairs the
// known defects of the vendor table.
package schedules

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	semerrors "github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/standardslib/standards"
)

// Schedules kept by Prune regardless of program-type references.
const (
	AlwaysOff = "Always Off"
	AlwaysOn  = "Always On"
)

// dummyDayTypes are vendor placeholder rules with no meaning.
var dummyDayTypes = map[string]bool{
	"DummySmrDsn":  true,
	"DummrySmrDsn": true,
}

// dayTypeFixes maps misspelled day-type tokens to their canonical form.
var dayTypeFixes = map[string]string{
	"WtrDsn": standards.DayWinter,
}

var monthDay = regexp.MustCompile(`^\d{2}-\d{2}$`)

// Clean groups raw rules by schedule name in first-appearance order and
// repairs dates, value lists and day types.
func Clean(raw []standards.ScheduleRule, logger *slog.Logger) (*standards.Schedules, error) {
	if logger == nil {
		logger = slog.Default()
	}

	out := standards.NewSchedules()
	var dropped, repaired int
	var withDummies []string
	seenDummy := make(map[string]bool)
	for _, r := range raw {
		if dummyDayTypes[r.DayTypes] {
			dropped++
			if !seenDummy[r.Name] {
				seenDummy[r.Name] = true
				withDummies = append(withDummies, r.Name)
			}
			continue
		}

		rule := r
		rule.DayTypes = fixDayTypes(r.DayTypes)

		var err error
		if rule.StartDate, err = NormalizeDate(r.StartDate); err != nil {
			return nil, semerrors.WrapInvalid(err, "schedules", "Clean", "normalize start date of "+r.Name)
		}
		if rule.EndDate, err = NormalizeDate(r.EndDate); err != nil {
			return nil, semerrors.WrapInvalid(err, "schedules", "Clean", "normalize end date of "+r.Name)
		}

		switch n := len(r.Values); {
		case n == 0:
			return nil, semerrors.WrapInvalid(fmt.Errorf("schedule %q has no values", r.Name),
				"schedules", "Clean", "check values")
		case n != 1 && n != 24:
			logger.Warn("Schedule has an incorrect number of values, keeping the first",
				"schedule", r.Name,
				"day_types", rule.DayTypes,
				"values", n)
			rule.Values = []float64{r.Values[0]}
			repaired++
		default:
			rule.Values = append([]float64(nil), r.Values...)
		}

		rules, _ := out.Get(rule.Name)
		out.Set(rule.Name, append(rules, rule))
	}

	for _, name := range withDummies {
		if !out.Has(name) {
			logger.Debug("Schedule has only placeholder rules, dropping it", "schedule", name)
		}
	}

	logger.Info("Cleaned schedules",
		"schedules", out.Len(),
		"rules", len(raw)-dropped,
		"dropped", dropped,
		"repaired", repaired)
	return out, nil
}

// fixDayTypes rewrites misspelled tokens of a pipe-delimited day-type tag.
func fixDayTypes(dayTypes string) string {
	parts := strings.Split(dayTypes, "|")
	for i, p := range parts {
		if fixed, ok := dayTypeFixes[p]; ok {
			parts[i] = fixed
		}
	}
	return strings.Join(parts, "|")
}

// NormalizeDate reduces a vendor timestamp such as
// "2014-01-01T00:00:00+00:00" to "01-01". Month-day strings pass through.
func NormalizeDate(s string) (string, error) {
	if monthDay.MatchString(s) {
		return s, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.Format("01-02"), nil
}

// Prune keeps the schedules referenced by any program type plus the constant
// on and off schedules. References to unknown schedules are logged.
func Prune(scheds *standards.Schedules, programs map[string]standards.ProgramType, logger *slog.Logger) *standards.Schedules {
	if logger == nil {
		logger = slog.Default()
	}

	keep := map[string]bool{AlwaysOff: true, AlwaysOn: true}
	for id, p := range programs {
		for _, ref := range p.ScheduleRefs() {
			keep[ref] = true
			if !scheds.Has(ref) {
				logger.Warn("Program type references unknown schedule",
					"program_type", id,
					"schedule", ref)
			}
		}
	}

	out := standards.NewSchedules()
	scheds.Range(func(name string, rules []standards.ScheduleRule) bool {
		if keep[name] {
			out.Set(name, rules)
		}
		return true
	})

	logger.Info("Pruned schedules",
		"kept", out.Len(),
		"removed", scheds.Len()-out.Len())
	return out
}
