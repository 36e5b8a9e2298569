package sunspec

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
	"sunspecengine/pkg/sunspec/models"
	"sunspecengine/pkg/sunspec/runtime"
)

// Catalog indexes compiled model definitions by id and by name. It is
// immutable once loaded and safe to share across concurrent readers.
type Catalog struct {
	byID   map[uint16]*runtime.Model
	byName map[string]*runtime.Model
}

type modelDocument struct {
	ID     *int            `json:"id"`
	Name   string          `json:"name"`
	Groups []groupDocument `json:"groups"`
}

type groupDocument struct {
	Name      string          `json:"name"`
	Points    []pointDocument `json:"points"`
	Repeating bool            `json:"repeating"`
	Count     string          `json:"count"`
}

type pointDocument struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Size  int    `json:"size"`
	SF    string `json:"sf"`
	Units string `json:"units"`
	Label string `json:"label"`
}

// LoadCatalog reads every model document (.json or .yaml) from the given
// source and compiles it. A structurally invalid document or an unknown type
// tag fails the whole load; per-document failures are aggregated.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		byID:   map[uint16]*runtime.Model{},
		byName: map[string]*runtime.Model{},
	}
	var errs []error
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			errs = append(errs, errors.Wrapf(runtime.ErrSchema, "read %s: %v", p, err))
			return nil
		}
		model, err := compileModel(data)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "compile %s", p))
			return nil
		}
		c.byID[model.ID] = model
		c.byName[model.Name] = model
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(runtime.ErrSchema, "walk model source: %v", err)
	}
	if len(errs) > 0 {
		return nil, utilerrors.NewAggregate(errs)
	}
	klog.V(2).InfoS("Loaded SunSpec model definitions", "models", len(c.byID))
	return c, nil
}

// DefaultCatalog loads the model definitions bundled with the engine.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(models.FS)
}

func compileModel(data []byte) (*runtime.Model, error) {
	doc := &modelDocument{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrapf(runtime.ErrSchema, "unmarshal model document: %v", err)
	}
	if doc.ID == nil {
		return nil, errors.Wrap(runtime.ErrSchema, "model document missing id")
	}
	if doc.Name == "" {
		return nil, errors.Wrapf(runtime.ErrSchema, "model %d missing name", *doc.ID)
	}
	model := &runtime.Model{
		ID:     uint16(*doc.ID),
		Name:   doc.Name,
		Groups: make([]runtime.Group, 0, len(doc.Groups)),
	}
	for _, g := range doc.Groups {
		if g.Repeating && g.Count == "" {
			return nil, errors.Wrapf(runtime.ErrSchema, "model %d group %q repeating without count field", model.ID, g.Name)
		}
		group := runtime.Group{
			Name:       g.Name,
			Points:     make([]runtime.Point, 0, len(g.Points)),
			Repeating:  g.Repeating,
			CountField: g.Count,
		}
		for _, p := range g.Points {
			if p.Name == "" {
				return nil, errors.Wrapf(runtime.ErrSchema, "model %d group %q has an unnamed point", model.ID, g.Name)
			}
			kind, ok := runtime.StringToPointKind[p.Type]
			if !ok {
				return nil, errors.Wrapf(runtime.ErrSchema, "model %d point %q has unsupported type %q", model.ID, p.Name, p.Type)
			}
			if kind == runtime.String && p.Size <= 0 {
				return nil, errors.Wrapf(runtime.ErrSchema, "model %d point %q string type requires size", model.ID, p.Name)
			}
			group.Points = append(group.Points, runtime.Point{
				Name:     p.Name,
				Kind:     kind,
				Size:     p.Size,
				ScaleRef: p.SF,
				Units:    p.Units,
				Label:    p.Label,
			})
		}
		model.Groups = append(model.Groups, group)
	}
	return model, nil
}

// GetByID returns the model definition for the given id.
func (c *Catalog) GetByID(id uint16) (*runtime.Model, error) {
	model, ok := c.byID[id]
	if !ok {
		return nil, errors.Wrapf(runtime.ErrModelNotFound, "no definition loaded for model %d", id)
	}
	return model, nil
}

// GetByName returns the model definition whose name matches
// case-insensitively.
func (c *Catalog) GetByName(name string) (*runtime.Model, error) {
	for n, model := range c.byName {
		if strings.EqualFold(n, name) {
			return model, nil
		}
	}
	return nil, errors.Wrapf(runtime.ErrModelNotFound, "no definition loaded for model %q", name)
}

// IDs returns the sorted ids of all loaded models.
func (c *Catalog) IDs() []uint16 {
	ids := make([]uint16, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
