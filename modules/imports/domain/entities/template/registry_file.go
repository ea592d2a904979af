package template

import (
	"context"
	"os"

	gerrors "github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/ventia/salesadmin/pkg/constants"
)

type templateYAML struct {
	Name   string  `yaml:"name" validate:"required"`
	Entity string  `yaml:"entity" validate:"required,oneof=contracts personnel"`
	Fields []Field `yaml:"fields" validate:"required,min=1,dive"`
}

type registryYAML struct {
	Templates []templateYAML `yaml:"templates"`
}

// FileRegistry serves templates parsed from a YAML file at construction
// time. The pipeline never writes back; saved aliases are maintained by the
// external template administration surface editing the same file.
type FileRegistry struct {
	byName map[string]Template
	order  []string
}

func NewFileRegistry(path string) (*FileRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, gerrors.Wrap(err, "read templates file")
	}
	return NewFileRegistryFromBytes(raw)
}

func NewFileRegistryFromBytes(raw []byte) (*FileRegistry, error) {
	var doc registryYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, gerrors.Wrap(err, "parse templates yaml")
	}

	r := &FileRegistry{byName: make(map[string]Template, len(doc.Templates))}
	for _, t := range doc.Templates {
		if err := constants.Validate.Struct(&t); err != nil {
			return nil, gerrors.Wrapf(err, "template %q", t.Name)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, gerrors.Errorf("duplicate template name: %s", t.Name)
		}
		r.byName[t.Name] = New(t.Name, EntityKind(t.Entity), t.Fields)
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

func (r *FileRegistry) GetByName(_ context.Context, name string) (Template, error) {
	t, ok := r.byName[name]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}

func (r *FileRegistry) GetAll(_ context.Context) ([]Template, error) {
	out := make([]Template, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out, nil
}
