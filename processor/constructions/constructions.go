// Package constructions cleans the raw construction table.
package constructions

import (
	"log/slog"
	"sort"

	"github.com/c360studio/standardslib/processor/materials"
	"github.com/c360studio/standardslib/source"
	"github.com/c360studio/standardslib/standards"
)

// excluded lists vendor constructions tied to a single reference building.
var excluded = map[string]bool{
	"Ground FloorGround_Floor_R11_T2013":  true,
	"Ground FloorGround_Floor_R17_T2013":  true,
	"Ground FloorGround_Floor_R22_T2013":  true,
	"int_slab_ceiling_smallhotel":         true,
	"int_slab_floor_smallhotel":           true,
	"int_wall_smallhotel":                 true,
	"LargeHotel Interior Ceiling":         true,
	"LargeHotel Interior Floor":           true,
	"LargeHotel Interior Wall":            true,
	"Metal framed wallsW_m1_R15":          true,
	"Metal framed wallsW_m2_R19":          true,
	"Metal framed wallsW_m3_R21":          true,
	"Metal framed wallsW_T24_2013_R13.99": true,
	"Metal framed wallsW1_R8.60":          true,
	"Metal framed wallsW2_R11.13":         true,
	"Metal framed wallsW3_R11.36":         true,
	"Metal framed wallsW4_R12.62":         true,
	"Metal roofR_R30":                     true,
	"Metal roofR_R38":                     true,
	"Metal roofR_T24_2013_24.86":          true,
	"Metal roofR1_R14.20":                 true,
	"Metal roofR2_R12.90":                 true,
	"Metal roofR3_R17.74":                 true,
	"Metal roofR4_R20.28":                 true,
	"NACM_Drop Ceiling":                   true,
	"NACM_Interior Floor":                 true,
	"NACM_Interior Wall":                  true,
	"Plenum Acoustical Tile":              true,
	"Smallhotel 2010 Slab Floor":          true,
}

// IsExcluded reports whether name is on the exclusion list.
func IsExcluded(name string) bool {
	return excluded[name]
}

// Metadata is the part of a raw construction the synthesizer needs but the
// canonical store does not keep.
type Metadata struct {
	InsulationLayer           string
	StandardsConstructionType string
}

// Result holds the cleaned construction stores. The construction-set
// synthesizer appends resized variants to Opaque in place.
type Result struct {
	Opaque   map[string]standards.Construction
	Window   map[string]standards.Construction
	Metadata map[string]Metadata
}

// Clean filters, partitions and closes the raw constructions over the
// cleaned material stores.
func Clean(raw []source.Construction, mats *materials.Result, logger *slog.Logger) *Result {
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{
		Opaque:   make(map[string]standards.Construction),
		Window:   make(map[string]standards.Construction),
		Metadata: make(map[string]Metadata),
	}

	for _, c := range raw {
		if excluded[c.Name] {
			logger.Debug("Excluding construction", "construction", c.Name)
			continue
		}

		var meta Metadata
		if c.InsulationLayer != nil {
			meta.InsulationLayer = *c.InsulationLayer
		}
		if c.StandardsConstructionType != nil {
			meta.StandardsConstructionType = *c.StandardsConstructionType
		}
		res.Metadata[c.Name] = meta

		rec := c.Construction.Clone()
		if standards.IsWindowSurface(rec.IntendedSurfaceType) {
			res.Window[rec.Name] = rec
		} else {
			res.Opaque[rec.Name] = rec
		}
	}

	removeOrphans(res.Opaque, mats.Opaque, "opaque", logger)
	removeOrphans(res.Window, mats.Window, "window", logger)
	for name := range res.Metadata {
		_, isOpaque := res.Opaque[name]
		_, isWindow := res.Window[name]
		if !isOpaque && !isWindow {
			delete(res.Metadata, name)
		}
	}

	logger.Info("Cleaned constructions",
		"opaque", len(res.Opaque),
		"window", len(res.Window))
	return res
}

// removeOrphans drops constructions that list a material missing from mats.
func removeOrphans(cons map[string]standards.Construction, mats map[string]standards.Material,
	kind string, logger *slog.Logger) {
	names := make([]string, 0, len(cons))
	for name := range cons {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, m := range cons[name].Materials {
			if _, ok := mats[m]; !ok {
				logger.Warn("Removing construction with missing material",
					"kind", kind,
					"construction", name,
					"material", m)
				delete(cons, name)
				break
			}
		}
	}
}
