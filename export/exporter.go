package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/standardslib/library"
	"github.com/c360studio/standardslib/standards"
)

// Exporter serializes the objects of a library selected by a profile.
type Exporter struct {
	lib     *library.Library
	profile ProfileConfig
	logger  *slog.Logger
}

// NewExporter creates an exporter for lib with the specified profile.
func NewExporter(lib *library.Library, profile Profile, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		lib:     lib,
		profile: GetProfileConfig(profile),
		logger:  logger,
	}
}

// Profile returns the profile configuration in use.
func (e *Exporter) Profile() ProfileConfig { return e.profile }

// record is one NDJSON line.
type record struct {
	Category library.Category `json:"category"`
	Object   json.RawMessage  `json:"object"`
}

// sections hydrates every selected category and returns the marshaled
// objects keyed by category, in profile order.
func (e *Exporter) sections(ctx context.Context) (*standards.OrderedMap[[]json.RawMessage], error) {
	if err := e.lib.Preload(ctx, e.profile.Categories...); err != nil {
		return nil, err
	}
	out := standards.NewOrderedMap[[]json.RawMessage]()
	for _, c := range e.profile.Categories {
		ids, err := e.lib.List(c)
		if err != nil {
			return nil, err
		}
		objs := make([]json.RawMessage, 0, len(ids))
		for _, id := range ids {
			obj, err := e.lib.Resolve(c, id)
			if err != nil {
				return nil, err
			}
			data, err := json.Marshal(obj)
			if err != nil {
				return nil, fmt.Errorf("marshal %s %s: %w", c, id, err)
			}
			objs = append(objs, data)
		}
		out.Set(string(c), objs)
		e.logger.Debug("Exported category", "category", c, "objects", len(objs))
	}
	return out, nil
}

// Export writes every selected object to w in the specified format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, format Format) error {
	sections, err := e.sections(ctx)
	if err != nil {
		return err
	}
	return encode(w, format, sections)
}

// ExportDir writes one file per selected category into dir and returns
// the paths written.
func (e *Exporter) ExportDir(ctx context.Context, dir string, format Format) ([]string, error) {
	info, ok := GetFormatInfo(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	sections, err := e.sections(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	for _, c := range sections.Keys() {
		objs, _ := sections.Get(c)
		single := standards.NewOrderedMap[[]json.RawMessage]()
		single.Set(c, objs)

		var buf bytes.Buffer
		if err := encode(&buf, format, single); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, c+info.Extension)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	e.logger.Info("Export complete", "profile", e.profile.Name, "format", format, "files", len(paths))
	return paths, nil
}

func encode(w io.Writer, format Format, sections *standards.OrderedMap[[]json.RawMessage]) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		var err error
		sections.Range(func(c string, objs []json.RawMessage) bool {
			for _, obj := range objs {
				if err = enc.Encode(record{Category: library.Category(c), Object: obj}); err != nil {
					return false
				}
			}
			return true
		})
		return err
	case FormatYAML:
		data, err := json.Marshal(sections)
		if err != nil {
			return err
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("convert to yaml: %w", err)
		}
		blockStyle(&doc)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// blockStyle switches the flow collections produced by parsing JSON to
// block style. Scalars keep their quoting.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
