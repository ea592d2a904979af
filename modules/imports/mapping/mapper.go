// Package mapping proposes a source-column to target-field mapping by
// normalized-name matching against a template's fields and their saved
// aliases. The suggestion is advisory: the wizard may accept, edit, or
// discard it before the mapping is persisted to the session.
package mapping

import (
	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
	"github.com/ventia/salesadmin/pkg/fold"
)

// Suggestion is the mapper's best effort plus the required fields it could
// not place, which the wizard highlights for manual mapping.
type Suggestion struct {
	// Mapping is source column name -> target field name.
	Mapping map[string]string
	// UnmappedRequired lists required target fields with no matched column,
	// in template field order.
	UnmappedRequired []string
}

// Suggest maps columns onto tpl's fields. Matching is exact on folded names:
// field name first, then aliases. Columns are considered in input order and
// a field, once claimed, is never re-bound, so identical inputs always yield
// the identical suggestion.
func Suggest(columns []string, tpl template.Template) Suggestion {
	byKey := make(map[string]string)       // folded field name -> field name
	aliasByKey := make(map[string]string)  // folded alias -> field name
	for _, f := range tpl.Fields() {
		byKey[fold.Key(f.Name)] = f.Name
		if f.Label != "" {
			aliasByKey[fold.Key(f.Label)] = f.Name
		}
		for _, alias := range f.Aliases {
			aliasByKey[fold.Key(alias)] = f.Name
		}
	}

	mapped := make(map[string]string, len(columns))
	claimed := make(map[string]bool, len(tpl.Fields()))
	for _, col := range columns {
		key := fold.Key(col)
		if key == "" {
			continue
		}
		field, ok := byKey[key]
		if !ok {
			field, ok = aliasByKey[key]
		}
		if !ok || claimed[field] {
			continue
		}
		mapped[col] = field
		claimed[field] = true
	}

	var unmapped []string
	for _, f := range tpl.RequiredFields() {
		if !claimed[f.Name] {
			unmapped = append(unmapped, f.Name)
		}
	}

	return Suggestion{Mapping: mapped, UnmappedRequired: unmapped}
}

// MissingRequired returns the required fields of tpl not covered by the
// given (possibly hand-edited) mapping, in template field order.
func MissingRequired(m map[string]string, tpl template.Template) []string {
	covered := make(map[string]bool, len(m))
	for _, field := range m {
		covered[field] = true
	}
	var missing []string
	for _, f := range tpl.RequiredFields() {
		if !covered[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
