package source

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	semerrors "github.com/c360studio/semstreams/pkg/errs"
)

// Raw table locations relative to the dataset root.
const (
	MaterialsFile     = "data/ashrae_90_1.materials.json"
	ConstructionsFile = "data/ashrae_90_1.constructions.json"
	SchedulesFile     = "data/ashrae_90_1.schedules.json"

	spaceTypePattern            = "**/*.spc_typ.json"
	constructionPropertyPattern = "**/*.construction_properties.json"
)

// Loader reads raw vendor tables from a dataset checkout.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader returns a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), root: dir}
}

// NewLoaderFS returns a loader over an arbitrary file system.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, root: "."}
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// Materials reads the raw material table.
func (l *Loader) Materials() ([]Material, error) {
	var doc struct {
		Materials []Material `json:"materials"`
	}
	if err := l.readJSON(MaterialsFile, &doc); err != nil {
		return nil, err
	}
	return doc.Materials, nil
}

// Constructions reads the raw construction table.
func (l *Loader) Constructions() ([]Construction, error) {
	var doc struct {
		Constructions []Construction `json:"constructions"`
	}
	if err := l.readJSON(ConstructionsFile, &doc); err != nil {
		return nil, err
	}
	return doc.Constructions, nil
}

// Schedules reads the raw schedule rule table.
func (l *Loader) Schedules() ([]ScheduleRule, error) {
	var doc struct {
		Schedules []ScheduleRule `json:"schedules"`
	}
	if err := l.readJSON(SchedulesFile, &doc); err != nil {
		return nil, err
	}
	return doc.Schedules, nil
}

// SpaceTypes reads every space-type table found under the vintage's
// directory.
func (l *Loader) SpaceTypes(v Vintage) ([]SpaceType, error) {
	paths, err := l.find(v, spaceTypePattern)
	if err != nil {
		return nil, err
	}
	var all []SpaceType
	for _, p := range paths {
		var doc struct {
			SpaceTypes []SpaceType `json:"space_types"`
		}
		if err := l.readJSON(p, &doc); err != nil {
			return nil, err
		}
		all = append(all, doc.SpaceTypes...)
	}
	return all, nil
}

// ConstructionProperties reads every construction property table found
// under the vintage's directory.
func (l *Loader) ConstructionProperties(v Vintage) ([]ConstructionProperty, error) {
	paths, err := l.find(v, constructionPropertyPattern)
	if err != nil {
		return nil, err
	}
	var all []ConstructionProperty
	for _, p := range paths {
		var doc struct {
			ConstructionProperties []ConstructionProperty `json:"construction_properties"`
		}
		if err := l.readJSON(p, &doc); err != nil {
			return nil, err
		}
		all = append(all, doc.ConstructionProperties...)
	}
	return all, nil
}

// find globs pattern below the vintage directory. A vintage without any
// matching table is an error: every configured vintage must be buildable.
func (l *Loader) find(v Vintage, pattern string) ([]string, error) {
	base := filepath.ToSlash(v.Dir)
	matches, err := doublestar.Glob(l.fsys, base+"/"+pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", base, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("vintage %s: no files match %s under %s", v.Name, pattern, base)
	}
	sort.Strings(matches)
	return matches, nil
}

func (l *Loader) readJSON(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return semerrors.WrapInvalid(err, "source.Loader", "readJSON", "decode "+name)
	}
	return nil
}
