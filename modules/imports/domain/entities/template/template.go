package template

import (
	"context"
	"strings"

	gerrors "github.com/go-faster/errors"
)

var ErrNotFound = gerrors.New("import template not found")

// EntityKind names the fixed set of things the pipeline knows how to import.
type EntityKind string

const (
	EntityContracts EntityKind = "contracts"
	EntityPersonnel EntityKind = "personnel"
)

// FieldKind drives coercion and referential checks in the row validator.
type FieldKind string

const (
	KindString          FieldKind = "string"
	KindDecimal         FieldKind = "decimal"
	KindPositiveDecimal FieldKind = "positive_decimal"
	KindDate            FieldKind = "date"
	KindInteger         FieldKind = "integer"
	KindFlag            FieldKind = "flag"
	KindGroupRef        FieldKind = "group_ref"
	KindSalesPointRef   FieldKind = "salespoint_ref"
	KindMatriculaRef    FieldKind = "matricula_ref"
	KindPersonName      FieldKind = "person_name"
)

type Field struct {
	Name     string    `yaml:"name" validate:"required"`
	Label    string    `yaml:"label"`
	Kind     FieldKind `yaml:"kind" validate:"required"`
	Required bool      `yaml:"required"`
	Unique   bool      `yaml:"unique"`
	Aliases  []string  `yaml:"aliases"`
}

// Template describes one importable entity kind: its target fields and the
// column-name aliases remembered from earlier imports. Read-only to the
// pipeline.
type Template struct {
	name   string
	entity EntityKind
	fields []Field
}

func New(name string, entity EntityKind, fields []Field) Template {
	return Template{
		name:   strings.TrimSpace(name),
		entity: entity,
		fields: fields,
	}
}

func (t Template) Name() string       { return t.name }
func (t Template) Entity() EntityKind { return t.entity }
func (t Template) Fields() []Field    { return t.fields }
func (t Template) IsZero() bool       { return t.name == "" }

// ColumnCount is the column count a file matching this template implies,
// used by the delimiter detector as a tie-breaker.
func (t Template) ColumnCount() int { return len(t.fields) }

func (t Template) RequiredFields() []Field {
	out := make([]Field, 0, len(t.fields))
	for _, f := range t.fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

func (t Template) FieldByName(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasPersonFields reports whether any field references a person by free-text
// name, which is what triggers the resolution step.
func (t Template) HasPersonFields() bool {
	for _, f := range t.fields {
		if f.Kind == KindPersonName {
			return true
		}
	}
	return false
}

type Registry interface {
	GetByName(ctx context.Context, name string) (Template, error)
	GetAll(ctx context.Context) ([]Template, error)
}
