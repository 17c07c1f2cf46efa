// Package programtypes renames and regroups raw space types into canonical
// program types keyed by vintage, building type and space type.
package programtypes

import (
	"fmt"
	"log/slog"
	"strings"

	semerrors "github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
)

// Building types of the office split.
const (
	Office       = "Office"
	LargeOffice  = "LargeOffice"
	MediumOffice = "MediumOffice"
	SmallOffice  = "SmallOffice"

	// AnyBuilding is the vendor catch-all building type. It has no registry
	// entry and its records are skipped.
	AnyBuilding = "Any"

	wholeBuildingPrefix = "WholeBuilding"
)

// excluded space types are tied to one reference building's floor layout.
var excluded = map[string]bool{
	"Apartment_topfloor_NS": true,
	"Apartment_topfloor_WE": true,
	"Corridor_topfloor":     true,
	"HospitalOfficeFlr5":    true,
	"Hall_infil":            true,
	"OutpatientFloor2Work":  true,
	"Corridor4":             true,
	"ElevatorCore4":         true,
	"GuestRoom4Occ":         true,
	"GuestRoom4Vac":         true,
	"Stair4":                true,
	"Storage4Front":         true,
	"Storage4Rear":          true,
	"Corridor2":             true,
	"Retail2":               true,
	"- undefined -":         true,
	"Plenum":                true,
}

// renames strips building-type prefixes baked into vendor space-type names.
var renames = map[string]string{
	"Courthouse - Break Room":         "Break Room",
	"Courthouse - Cell":               "Cell",
	"Courthouse - Conference":         "Conference",
	"Courthouse - Corridor":           "Corridor",
	"Courthouse - Courtroom":          "Courtroom",
	"Courthouse - Courtroom Waiting":  "Courtroom Waiting",
	"Courthouse - Elevator Lobby":     "Elevator Lobby",
	"Courthouse - Elevator Shaft":     "Elevator Shaft",
	"Courthouse - Entrance Lobby":     "Entrance Lobby",
	"Courthouse - Judges Chamber":     "Judges Chamber",
	"Courthouse - Jury Assembly":      "Jury Assembly",
	"Courthouse - Jury Deliberation":  "Jury Deliberation",
	"Courthouse - Library":            "Library",
	"Courthouse - Office":             "Office",
	"Courthouse - Parking":            "Parking",
	"Courthouse - Plenum":             "Plenum",
	"Courthouse - Restrooms":          "Restrooms",
	"Courthouse - Security Screening": "Security Screening",
	"Courthouse - Service Shaft":      "Service Shaft",
	"Courthouse - Stairs":             "Stairs",
	"Courthouse - Storage":            "Storage",
	"Courthouse - Utility":            "Utility",
	"Strip mall - type 0A":            "Type 0A",
	"Strip mall - type 0B":            "Type 0B",
	"Strip mall - type 1":             "Type 1",
	"Strip mall - type 2":             "Type 2",
	"Strip mall - type 3":             "Type 3",
	"HospitalOfficeFlr1":              "HospitalOffice",
}

// IsExcluded reports whether a raw space-type name is dropped.
func IsExcluded(spaceType string) bool {
	return excluded[spaceType]
}

// Rename returns the canonical short form of a raw space-type name.
func Rename(spaceType string) string {
	if r, ok := renames[spaceType]; ok {
		return r
	}
	return spaceType
}

// ID returns the composite program type identifier.
func ID(vintage, buildingType, spaceType string) string {
	return fmt.Sprintf("%s::%s::%s", vintage, buildingType, spaceType)
}

// Result holds one vintage's program types and registry.
type Result struct {
	ProgramTypes map[string]standards.ProgramType
	Registry     *standards.Registry
}

// Clean normalizes one vintage's raw space types.
func Clean(raw []source.SpaceType, vintage string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("vintage", vintage)

	reg := standards.NewRegistry()
	for _, bt := range []string{LargeOffice, SmallOffice, MediumOffice} {
		reg.Set(bt, nil)
	}
	res := &Result{
		ProgramTypes: make(map[string]standards.ProgramType),
		Registry:     reg,
	}

	var skipped int
	for _, st := range raw {
		if st.BuildingType == "" || st.SpaceType == "" {
			return nil, semerrors.WrapInvalid(
				fmt.Errorf("space type record missing building or space type: %q/%q", st.BuildingType, st.SpaceType),
				"programtypes", "Clean", "read space type")
		}
		if st.BuildingType != Office && st.BuildingType != AnyBuilding && !reg.Has(st.BuildingType) {
			reg.Set(st.BuildingType, nil)
		}

		buildingType, spaceType, ok := classify(st.BuildingType, st.SpaceType)
		if !ok {
			skipped++
			logger.Debug("Skipping space type",
				"building_type", st.BuildingType,
				"space_type", st.SpaceType)
			continue
		}

		id := ID(vintage, buildingType, spaceType)
		if _, dup := res.ProgramTypes[id]; dup {
			logger.Warn("Duplicate program type, keeping the last record", "program_type", id)
		} else {
			names, _ := reg.Get(buildingType)
			reg.Set(buildingType, append(names, spaceType))
		}

		pt := st
		pt.BuildingType = buildingType
		pt.SpaceType = id
		res.ProgramTypes[id] = pt
	}

	logger.Info("Cleaned program types",
		"program_types", len(res.ProgramTypes),
		"building_types", reg.Len(),
		"skipped", skipped)
	return res, nil
}

// classify maps a raw (building type, space type) pair onto its canonical
// pair. ok is false when the record is dropped.
func classify(buildingType, spaceType string) (string, string, bool) {
	switch {
	case excluded[spaceType]:
		return "", "", false
	case renames[spaceType] != "":
		if buildingType == AnyBuilding {
			return "", "", false
		}
		return buildingType, renames[spaceType], true
	case buildingType == AnyBuilding:
		return "", "", false
	case buildingType == Office:
		return splitOffice(spaceType)
	default:
		return buildingType, spaceType, true
	}
}

// splitOffice re-homes a vendor office space type into one of the three
// office sizes.
func splitOffice(spaceType string) (string, string, bool) {
	switch {
	case strings.HasPrefix(spaceType, wholeBuildingPrefix):
		return "", "", false
	case strings.HasPrefix(spaceType, SmallOffice):
		return SmallOffice, lastSegment(spaceType), true
	case strings.HasPrefix(spaceType, MediumOffice):
		return MediumOffice, lastSegment(spaceType), true
	default:
		return LargeOffice, spaceType, true
	}
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, " - "); i >= 0 {
		return s[i+len(" - "):]
	}
	return s
}
