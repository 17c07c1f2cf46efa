// Package validation checks that every identifier a canonical record
// references exists in the store it points into.
package validation

import (
	"fmt"
	"sort"

	"github.com/c360studio/standardslib/standards"
)

// Level indicates which check produced the result.
type Level string

const (
	LevelReference Level = "reference"
	LevelType      Level = "type"
	LevelRegistry  Level = "registry"
	LevelHydration Level = "hydration"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single validation finding.
type Result struct {
	Level     Level    `json:"level"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Category  string   `json:"category"`
	ID        string   `json:"id"`
	Reference string   `json:"reference,omitempty"`
}

// Report is the complete validation output.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	return &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

// Check runs every closure check over the catalog.
func Check(cat *standards.Catalog) *Report {
	r := NewReport()
	r.Merge(CheckMaterials(cat))
	r.Merge(CheckConstructions(cat))
	r.Merge(CheckConstructionSets(cat))
	r.Merge(CheckProgramTypes(cat))
	r.Merge(CheckRegistries(cat))
	r.updateSummary()
	return r
}

// CheckMaterials verifies every material sits in the store its type
// belongs to.
func CheckMaterials(cat *standards.Catalog) *Report {
	r := NewReport()
	for _, name := range sortedKeys(cat.OpaqueMaterials) {
		if t := cat.OpaqueMaterials[name].MaterialType; !standards.IsOpaqueType(t) {
			r.AddError(Result{
				Level:    LevelType,
				Message:  fmt.Sprintf("material type %q is not opaque", t),
				Category: "opaque_material",
				ID:       name,
			})
		}
	}
	for _, name := range sortedKeys(cat.WindowMaterials) {
		if t := cat.WindowMaterials[name].MaterialType; !standards.IsWindowType(t) {
			r.AddError(Result{
				Level:    LevelType,
				Message:  fmt.Sprintf("material type %q is not a window material", t),
				Category: "window_material",
				ID:       name,
			})
		}
	}
	return r
}

// CheckConstructions verifies every construction layer resolves in the
// matching material store.
func CheckConstructions(cat *standards.Catalog) *Report {
	r := NewReport()
	check := func(category string, cons map[string]standards.Construction, mats map[string]standards.Material) {
		for _, name := range sortedKeys(cons) {
			c := cons[name]
			if len(c.Materials) == 0 {
				r.AddError(Result{
					Level:    LevelReference,
					Message:  "construction has no layers",
					Category: category,
					ID:       name,
				})
			}
			for _, m := range c.Materials {
				if _, ok := mats[m]; !ok {
					r.AddError(Result{
						Level:     LevelReference,
						Message:   "material not found",
						Category:  category,
						ID:        name,
						Reference: m,
					})
				}
			}
		}
	}
	check("opaque_construction", cat.OpaqueConstructions, cat.OpaqueMaterials)
	check("window_construction", cat.WindowConstructions, cat.WindowMaterials)
	return r
}

// CheckConstructionSets verifies every slot of every set names a
// construction in the matching store.
func CheckConstructionSets(cat *standards.Catalog) *Report {
	r := NewReport()
	for _, name := range sortedKeys(cat.ConstructionSets) {
		cs := cat.ConstructionSets[name]
		for _, ref := range cs.OpaqueRefs() {
			if _, ok := cat.OpaqueConstructions[ref]; !ok {
				r.AddError(Result{
					Level:     LevelReference,
					Message:   "opaque construction not found",
					Category:  "construction_set",
					ID:        name,
					Reference: ref,
				})
			}
		}
		for _, ref := range cs.WindowRefs() {
			if _, ok := cat.WindowConstructions[ref]; !ok {
				r.AddError(Result{
					Level:     LevelReference,
					Message:   "window construction not found",
					Category:  "construction_set",
					ID:        name,
					Reference: ref,
				})
			}
		}
	}
	return r
}

// CheckProgramTypes verifies every schedule a program type references
// exists.
func CheckProgramTypes(cat *standards.Catalog) *Report {
	r := NewReport()
	for _, id := range sortedKeys(cat.ProgramTypes) {
		for _, ref := range cat.ProgramTypes[id].ScheduleRefs() {
			if !cat.Schedules.Has(ref) {
				r.AddError(Result{
					Level:     LevelReference,
					Message:   "schedule not found",
					Category:  "program_type",
					ID:        id,
					Reference: ref,
				})
			}
		}
	}
	return r
}

// CheckRegistries verifies every registry entry names a program type.
// Building types without entries are reported as info.
func CheckRegistries(cat *standards.Catalog) *Report {
	r := NewReport()
	vintages := make([]string, 0, len(cat.Registries))
	for v := range cat.Registries {
		vintages = append(vintages, v)
	}
	sort.Strings(vintages)

	for _, vintage := range vintages {
		cat.Registries[vintage].Range(func(bt string, names []string) bool {
			if len(names) == 0 {
				r.AddInfo(Result{
					Level:    LevelRegistry,
					Message:  "building type has no program types",
					Category: "registry",
					ID:       vintage + "::" + bt,
				})
			}
			for _, n := range names {
				id := vintage + "::" + bt + "::" + n
				if _, ok := cat.ProgramTypes[id]; !ok {
					r.AddWarning(Result{
						Level:     LevelRegistry,
						Message:   "registry entry has no program type",
						Category:  "registry",
						ID:        vintage + "::" + bt,
						Reference: id,
					})
				}
			}
			return true
		})
	}
	return r
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
