// Package storage persists the canonical stores as JSON files and loads them
// back into a catalog.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	semerrors "github.com/c360studio/semstreams/pkg/errs"
	"github.com/google/uuid"

	"github.com/c360studio/standardslib/standards"
)

// Kind names a canonical store.
type Kind string

const (
	KindOpaqueMaterial     Kind = "opaque_material"
	KindWindowMaterial     Kind = "window_material"
	KindOpaqueConstruction Kind = "opaque_construction"
	KindWindowConstruction Kind = "window_construction"
	KindConstructionSet    Kind = "construction_set"
	KindSchedule           Kind = "schedule"
	KindProgramType        Kind = "program_type"
)

// Kinds lists every store in dependency order.
var Kinds = []Kind{
	KindOpaqueMaterial,
	KindWindowMaterial,
	KindOpaqueConstruction,
	KindWindowConstruction,
	KindConstructionSet,
	KindSchedule,
	KindProgramType,
}

// Partitioned reports whether the store is split into per-vintage files.
func (k Kind) Partitioned() bool {
	return k == KindConstructionSet || k == KindProgramType
}

const (
	// ManifestFile records the build that produced a store directory.
	ManifestFile = "manifest.json"

	dataSuffix     = "_data.json"
	registrySuffix = "_registry.json"
	idSeparator    = "::"
)

// ID is a vintage-qualified identifier such as "2013::ClimateZone4::Mass".
type ID struct {
	Vintage string
	Name    string
}

// String returns the string representation of the identifier.
func (id ID) String() string {
	return id.Vintage + idSeparator + id.Name
}

// ParseID splits a vintage-qualified identifier.
func ParseID(s string) (ID, error) {
	parts := strings.SplitN(s, idSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ID{}, fmt.Errorf("invalid vintage identifier: %s", s)
	}
	return ID{Vintage: parts[0], Name: parts[1]}, nil
}

// Manifest describes one build run.
type Manifest struct {
	RunID      string         `json:"run_id"`
	Source     string         `json:"source"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Vintages   []string       `json:"vintages"`
	Counts     map[string]int `json:"counts"`
}

// NewManifest starts a manifest for a build of the given vintages.
func NewManifest(source string, vintages []string) *Manifest {
	return &Manifest{
		RunID:     uuid.New().String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
		Vintages:  append([]string(nil), vintages...),
	}
}

// Store reads and writes the canonical stores below one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file of a flat store, or the data file of a vintage
// partition.
func (s *Store) Path(k Kind, vintage string) string {
	if k.Partitioned() {
		return filepath.Join(s.dir, string(k), vintage+dataSuffix)
	}
	return filepath.Join(s.dir, string(k)+".json")
}

// RegistryPath returns the program type registry file of a vintage.
func (s *Store) RegistryPath(vintage string) string {
	return filepath.Join(s.dir, string(KindProgramType), vintage+registrySuffix)
}

// Write persists every store of the catalog. Partitioned stores are split
// by the vintage prefix of their identifiers.
//
// The stores are written to a staging directory next to the store and
// swapped in once complete, so partitions of vintages missing from cat do
// not survive and a failed write leaves the previous stores in place.
func (s *Store) Write(cat *standards.Catalog) error {
	parent := filepath.Dir(s.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(s.dir)+"-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := os.Chmod(staging, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	if err := NewStore(staging).writeAll(cat); err != nil {
		return err
	}
	return swapDir(staging, s.dir)
}

// swapDir replaces dir with staging. The old directory is restored when
// the final rename fails.
func swapDir(staging, dir string) error {
	old := staging + ".old"
	hadOld := true
	if err := os.Rename(dir, old); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("move previous stores: %w", err)
		}
		hadOld = false
	}
	if err := os.Rename(staging, dir); err != nil {
		if hadOld {
			_ = os.Rename(old, dir)
		}
		return fmt.Errorf("replace stores: %w", err)
	}
	if hadOld {
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("remove previous stores: %w", err)
		}
	}
	return nil
}

func (s *Store) writeAll(cat *standards.Catalog) error {
	flat := []struct {
		kind Kind
		v    any
	}{
		{KindOpaqueMaterial, cat.OpaqueMaterials},
		{KindWindowMaterial, cat.WindowMaterials},
		{KindOpaqueConstruction, cat.OpaqueConstructions},
		{KindWindowConstruction, cat.WindowConstructions},
		{KindSchedule, cat.Schedules},
	}
	for _, f := range flat {
		if err := writeJSON(s.Path(f.kind, ""), f.v); err != nil {
			return fmt.Errorf("write %s: %w", f.kind, err)
		}
	}

	sets, err := partition(cat.ConstructionSets)
	if err != nil {
		return fmt.Errorf("partition construction sets: %w", err)
	}
	for vintage, part := range sets {
		if err := writeJSON(s.Path(KindConstructionSet, vintage), part); err != nil {
			return fmt.Errorf("write construction sets %s: %w", vintage, err)
		}
	}

	programs, err := partition(cat.ProgramTypes)
	if err != nil {
		return fmt.Errorf("partition program types: %w", err)
	}
	for vintage, part := range programs {
		if err := writeJSON(s.Path(KindProgramType, vintage), part); err != nil {
			return fmt.Errorf("write program types %s: %w", vintage, err)
		}
	}
	for vintage, reg := range cat.Registries {
		if err := writeJSON(s.RegistryPath(vintage), reg); err != nil {
			return fmt.Errorf("write registry %s: %w", vintage, err)
		}
	}
	return nil
}

// WriteSchedules rewrites only the schedule store.
func (s *Store) WriteSchedules(scheds *standards.Schedules) error {
	if err := writeJSON(s.Path(KindSchedule, ""), scheds); err != nil {
		return fmt.Errorf("write schedules: %w", err)
	}
	return nil
}

// WriteManifest records a finished build.
func (s *Store) WriteManifest(m *Manifest) error {
	if err := writeJSON(filepath.Join(s.dir, ManifestFile), m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest returns the manifest of the last build.
func (s *Store) ReadManifest() (*Manifest, error) {
	var m Manifest
	if err := readJSON(os.DirFS(s.dir), ManifestFile, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads every canonical store below the directory into a catalog.
func (s *Store) Load() (*standards.Catalog, error) {
	return LoadFS(os.DirFS(s.dir))
}

// LoadFS reads every canonical store of fsys into a catalog.
func LoadFS(fsys fs.FS) (*standards.Catalog, error) {
	cat := standards.NewCatalog()

	flat := []struct {
		kind Kind
		v    any
	}{
		{KindOpaqueMaterial, &cat.OpaqueMaterials},
		{KindWindowMaterial, &cat.WindowMaterials},
		{KindOpaqueConstruction, &cat.OpaqueConstructions},
		{KindWindowConstruction, &cat.WindowConstructions},
		{KindSchedule, cat.Schedules},
	}
	for _, f := range flat {
		if err := readJSON(fsys, string(f.kind)+".json", f.v); err != nil {
			return nil, err
		}
	}

	if err := loadPartitions(fsys, KindConstructionSet, dataSuffix, func(_ string, data []byte, name string) error {
		return mergeInto(data, name, cat.ConstructionSets)
	}); err != nil {
		return nil, err
	}
	if err := loadPartitions(fsys, KindProgramType, dataSuffix, func(_ string, data []byte, name string) error {
		return mergeInto(data, name, cat.ProgramTypes)
	}); err != nil {
		return nil, err
	}
	if err := loadPartitions(fsys, KindProgramType, registrySuffix, func(vintage string, data []byte, name string) error {
		reg := standards.NewRegistry()
		if err := json.Unmarshal(data, reg); err != nil {
			return semerrors.WrapInvalid(err, "storage", "Load", "decode "+name)
		}
		cat.Registries[vintage] = reg
		return nil
	}); err != nil {
		return nil, err
	}
	return cat, nil
}

// loadPartitions calls fn for every per-vintage file of a partitioned store.
func loadPartitions(fsys fs.FS, k Kind, suffix string, fn func(vintage string, data []byte, name string) error) error {
	matches, err := doublestar.Glob(fsys, string(k)+"/*"+suffix)
	if err != nil {
		return fmt.Errorf("glob %s: %w", k, err)
	}
	sort.Strings(matches)
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		vintage := strings.TrimSuffix(path.Base(name), suffix)
		if err := fn(vintage, data, name); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto[V any](data []byte, name string, dst map[string]V) error {
	var part map[string]V
	if err := json.Unmarshal(data, &part); err != nil {
		return semerrors.WrapInvalid(err, "storage", "Load", "decode "+name)
	}
	for id, v := range part {
		dst[id] = v
	}
	return nil
}

func partition[V any](records map[string]V) (map[string]map[string]V, error) {
	out := make(map[string]map[string]V)
	for key, v := range records {
		id, err := ParseID(key)
		if err != nil {
			return nil, err
		}
		if out[id.Vintage] == nil {
			out[id.Vintage] = make(map[string]V)
		}
		out[id.Vintage][key] = v
	}
	return out, nil
}

// numberList matches a numeric array that is the value of an object key.
// Inside a JSON string every quote is escaped, so an unescaped `": ` can
// only close a key.
var numberList = regexp.MustCompile(`([^\\]": )\[\s*(-?[0-9][0-9.eE+-]*(?:,\s*-?[0-9][0-9.eE+-]*)*)\s*\]`)

var listSpace = regexp.MustCompile(`,\s+`)

// Compact collapses indented numeric arrays onto a single line. String
// values are left untouched.
func Compact(indented []byte) []byte {
	return numberList.ReplaceAllFunc(indented, func(m []byte) []byte {
		sub := numberList.FindSubmatch(m)
		var buf bytes.Buffer
		buf.Write(sub[1])
		buf.WriteByte('[')
		buf.Write(listSpace.ReplaceAll(sub[2], []byte(", ")))
		buf.WriteByte(']')
		return buf.Bytes()
	})
}

func writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(name), err)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(name, append(Compact(data), '\n'), 0o644)
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return semerrors.WrapInvalid(err, "storage", "Load", "decode "+name)
	}
	return nil
}
