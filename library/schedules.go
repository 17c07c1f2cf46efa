package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/standardslib/model"
	"github.com/c360studio/standardslib/standards"
)

var ruleDays = map[string][]int{
	"Sun":  {model.Sunday},
	"Mon":  {model.Monday},
	"Tue":  {model.Tuesday},
	"Wed":  {model.Wednesday},
	"Thu":  {model.Thursday},
	"Fri":  {model.Friday},
	"Sat":  {model.Saturday},
	"Hol":  {model.Holiday},
	"Wknd": {model.Sunday, model.Saturday},
	"Wkdy": {model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday},
}

var (
	fractionalCategories = map[string]bool{
		"Lighting": true, "Equipment": true, "Infiltration": true, "Occupancy": true, "Elevator": true,
	}
	onOffCategories = map[string]bool{"Operation": true, "OA Air": true, "Fan": true}
)

// DayScheduleFromStandards builds a day schedule from one rule record. A
// single value gives a constant day; 24 values are read as hourly.
func DayScheduleFromStandards(rec standards.ScheduleRule) (*model.ScheduleDay, error) {
	switch len(rec.Values) {
	case 1:
		return model.NewScheduleDayConstant(rec.Name, rec.Values[0])
	case 24:
		return model.NewScheduleDayHourly(rec.Name, rec.Values)
	}
	return nil, fmt.Errorf("%w: schedule %s has %d values, want 1 or 24", model.ErrInvalid, rec.Name, len(rec.Values))
}

// TypeLimitFromStandards infers value bounds from a record's category and
// units. It returns nil when neither is recognized.
func TypeLimitFromStandards(rec standards.ScheduleRule) *model.TypeLimit {
	category, unit := "", ""
	if rec.Category != nil {
		category = *rec.Category
	}
	if rec.Units != nil {
		unit = *rec.Units
	}
	var tl model.TypeLimit
	switch {
	case fractionalCategories[category]:
		tl = model.Fractional
	case onOffCategories[category]:
		tl = model.OnOff
	case category == "Activity":
		tl = model.ActivityLevel
	case unit == "C":
		tl = model.Temperature
	case unit == "W":
		tl = model.Power
	case unit == "FRACTION":
		tl = model.Fractional
	default:
		return nil
	}
	return &tl
}

// ParseRuleDate reads a rule date given as "MM-DD" or as a timestamp such
// as "2014-01-01T00:00:00+00:00".
func ParseRuleDate(s string) (model.Date, error) {
	parts := strings.Split(strings.SplitN(s, "T", 2)[0], "-")
	if len(parts) < 2 {
		return model.Date{}, fmt.Errorf("%w: date %q", model.ErrInvalid, s)
	}
	month, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: date %q", model.ErrInvalid, s)
	}
	day, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: date %q", model.ErrInvalid, s)
	}
	return model.NewDate(month, day)
}

// ScheduleRulesetFromStandards builds an annual schedule from the rule
// records of one schedule name. Default, SmrDsn and WntrDsn records give
// the default and design days; every other day type becomes a rule for
// its days of the week. Without a default day the first rule is promoted.
func ScheduleRulesetFromStandards(name string, recs []standards.ScheduleRule) (*model.ScheduleRuleset, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: schedule %s has no records", model.ErrInvalid, name)
	}

	var p model.ScheduleRulesetProperties
	used := make(map[string]int)
	for _, rec := range recs {
		day, err := DayScheduleFromStandards(rec)
		if err != nil {
			return nil, err
		}

		var rest []string
		for _, tag := range rec.DayTypeList() {
			var target **model.ScheduleDay
			switch tag {
			case standards.DayDefault:
				target = &p.Default
			case standards.DaySummer:
				target = &p.SummerDay
			case standards.DayWinter:
				target = &p.WinterDay
			default:
				if _, ok := ruleDays[tag]; !ok {
					return nil, fmt.Errorf("%w: schedule %s day type %q", ErrUnrecognizedType, name, tag)
				}
				rest = append(rest, tag)
				continue
			}
			if *target, err = day.Rename(rec.Name + "_" + tag); err != nil {
				return nil, err
			}
		}
		if len(rest) == 0 {
			continue
		}

		id := rec.Name + "_" + strings.Join(rest, "|")
		if n := used[id]; n > 0 {
			used[id] = n + 1
			id = fmt.Sprintf("%s_%d", id, n+1)
		} else {
			used[id] = 1
		}
		ruleDay, err := day.Rename(id)
		if err != nil {
			return nil, err
		}
		var days []int
		for _, tag := range rest {
			days = append(days, ruleDays[tag]...)
		}
		start, err := ParseRuleDate(rec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("schedule %s start: %w", name, err)
		}
		end, err := ParseRuleDate(rec.EndDate)
		if err != nil {
			return nil, fmt.Errorf("schedule %s end: %w", name, err)
		}
		rule, err := model.NewScheduleRule(ruleDay, days, start, end)
		if err != nil {
			return nil, err
		}
		p.Rules = append(p.Rules, rule)
	}

	p.TypeLimit = TypeLimitFromStandards(recs[len(recs)-1])
	if p.Default == nil {
		if len(p.Rules) == 0 {
			return nil, fmt.Errorf("%w: schedule %s has no default day or rules", model.ErrInvalid, name)
		}
		p.Default = p.Rules[0].Day()
		p.Rules = p.Rules[1:]
	}
	return model.NewScheduleRuleset(name, p)
}
