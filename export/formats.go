package export

import (
	"fmt"
	"sort"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatJSON produces one JSON document keyed by category.
	FormatJSON Format = "json"

	// FormatNDJSON produces one JSON object per line.
	FormatNDJSON Format = "ndjson"

	// FormatYAML produces one YAML document keyed by category.
	FormatYAML Format = "yaml"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON document with one array per category",
	},
	FormatNDJSON: {
		Name:        FormatNDJSON,
		MIMEType:    "application/x-ndjson",
		Extension:   ".ndjson",
		Description: "Newline-delimited JSON, one object per line",
	},
	FormatYAML: {
		Name:        FormatYAML,
		MIMEType:    "application/yaml",
		Extension:   ".yaml",
		Description: "YAML document with one sequence per category",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported format: %s (want one of %v)", s, FormatNames())
	}
	return f, nil
}

// FormatNames returns the supported format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
