package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
	"github.com/ventia/salesadmin/modules/sales/domain/aggregates/contract"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/group"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/matricula"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/salespoint"
	"github.com/ventia/salesadmin/pkg/fold"
)

// Record is one validated row, coerced and ready for commit. Values is keyed
// by target field name; reference fields hold the resolved entity id.
type Record struct {
	Row    int
	Values map[string]any
	// PersonKey/PersonSource carry the row's free-text person reference when
	// the template has one; the committer turns the key into an account via
	// the session's resolutions.
	PersonKey    string
	PersonSource string
}

// ValidationResult accumulates across all rows; a bad row lands in Errors
// and never aborts its siblings.
type ValidationResult struct {
	Records       []Record
	Errors        []session.RowError
	CreatedGroups []string
	CreatedPVs    []string
}

type validateOptions struct {
	dateFormat            DateFormat
	autoCreateGroups      bool
	autoCreateSalesPoints bool
	sessionID             uuid.UUID
}

// Validator applies per-field rules to raw rows: required presence, type
// coercion, referential existence, and uniqueness.
type Validator struct {
	groups      group.Repository
	salesPoints salespoint.Repository
	matriculas  matricula.Repository
	contracts   contract.Repository
}

func NewValidator(
	groups group.Repository,
	salesPoints salespoint.Repository,
	matriculas matricula.Repository,
	contracts contract.Repository,
) *Validator {
	return &Validator{
		groups:      groups,
		salesPoints: salesPoints,
		matriculas:  matriculas,
		contracts:   contracts,
	}
}

func (v *Validator) Validate(
	ctx context.Context,
	tpl template.Template,
	rows []session.Row,
	mapping map[string]string,
	opts validateOptions,
) (*ValidationResult, error) {
	run := &validationRun{
		Validator: v,
		tpl:       tpl,
		colByField: func() map[string]string {
			m := make(map[string]string, len(mapping))
			for col, field := range mapping {
				m[field] = col
			}
			return m
		}(),
		opts:       opts,
		groupIDs:   map[string]uuid.UUID{},
		pvIDs:      map[string]uuid.UUID{},
		matIDs:     map[string]uuid.UUID{},
		seenUnique: map[string]map[string]int{},
	}

	result := &ValidationResult{}
	for i, row := range rows {
		rowNum := i + 1
		rec, rowErrs, err := run.validateRow(ctx, rowNum, row)
		if err != nil {
			return nil, err
		}
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.Records = append(result.Records, rec)
	}
	result.CreatedGroups = run.createdGroups
	result.CreatedPVs = run.createdPVs
	return result, nil
}

// validationRun holds per-pass caches so a referenced name is looked up (or
// placeholder-created) once, however many rows mention it.
type validationRun struct {
	*Validator
	tpl        template.Template
	colByField map[string]string
	opts       validateOptions

	groupIDs      map[string]uuid.UUID
	pvIDs         map[string]uuid.UUID
	matIDs        map[string]uuid.UUID
	seenUnique    map[string]map[string]int // field -> value -> first row
	createdGroups []string
	createdPVs    []string
}

// validateRow walks the template's fields in order. The first returned error
// is infrastructural (repository failure) and aborts the pass; row-level
// findings come back in errs.
func (r *validationRun) validateRow(ctx context.Context, rowNum int, row session.Row) (Record, []session.RowError, error) {
	rec := Record{Row: rowNum, Values: map[string]any{}}
	var errs []session.RowError

	for _, f := range r.tpl.Fields() {
		col, mapped := r.colByField[f.Name]
		raw := ""
		if mapped {
			raw = strings.TrimSpace(row[col])
		}

		if raw == "" {
			if f.Required {
				errs = append(errs, session.RowError{
					Row:    rowNum,
					Field:  f.Name,
					Code:   rowCodeMissingRequired,
					Reason: fmt.Sprintf("required field %s is empty", f.Name),
				})
			}
			continue
		}

		value, rowErr, err := r.coerce(ctx, rowNum, f, raw)
		if err != nil {
			return Record{}, nil, err
		}
		if rowErr != nil {
			errs = append(errs, *rowErr)
			continue
		}

		if f.Kind == template.KindPersonName {
			rec.PersonSource = raw
			rec.PersonKey = fold.Name(raw)
			continue
		}

		if f.Unique {
			if rowErr := r.checkUnique(ctx, rowNum, f, raw); rowErr != nil {
				errs = append(errs, *rowErr)
				continue
			}
		}

		rec.Values[f.Name] = value
	}

	return rec, errs, nil
}

func (r *validationRun) coerce(ctx context.Context, rowNum int, f template.Field, raw string) (any, *session.RowError, error) {
	fail := func(code, reason string) (any, *session.RowError, error) {
		return nil, &session.RowError{Row: rowNum, Field: f.Name, Code: code, Reason: reason}, nil
	}

	switch f.Kind {
	case template.KindString, template.KindPersonName, template.KindMatriculaRef:
		// matricula references resolve below; strings pass through.
	case template.KindDecimal, template.KindPositiveDecimal:
		d, err := decimal.NewFromString(normalizeDecimal(raw))
		if err != nil {
			return fail(rowCodeBadDecimal, fmt.Sprintf("%s is not a valid amount: %q", f.Name, raw))
		}
		if f.Kind == template.KindPositiveDecimal && !d.IsPositive() {
			return fail(rowCodeNonPositive, fmt.Sprintf("%s must be greater than zero, got %s", f.Name, d))
		}
		return d, nil, nil
	case template.KindDate:
		t, err := r.opts.dateFormat.Parse(raw)
		if err != nil {
			return fail(rowCodeBadDate, fmt.Sprintf("%s does not match %s: %q", f.Name, r.opts.dateFormat, raw))
		}
		return t, nil, nil
	case template.KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fail(rowCodeBadInteger, fmt.Sprintf("%s is not an integer: %q", f.Name, raw))
		}
		return n, nil, nil
	case template.KindFlag:
		b, ok := parseFlag(raw)
		if !ok {
			return fail(rowCodeBadFlag, fmt.Sprintf("%s is not a yes/no value: %q", f.Name, raw))
		}
		return b, nil, nil
	case template.KindGroupRef:
		id, found, err := r.resolveGroup(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			return fail(rowCodeRefNotFound, fmt.Sprintf("unknown group: %q", raw))
		}
		return id, nil, nil
	case template.KindSalesPointRef:
		id, found, err := r.resolveSalesPoint(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			return fail(rowCodeRefNotFound, fmt.Sprintf("unknown sales point: %q", raw))
		}
		return id, nil, nil
	}

	if f.Kind == template.KindMatriculaRef {
		id, found, err := r.resolveMatricula(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			return fail(rowCodeRefNotFound, fmt.Sprintf("unknown matricula: %q", raw))
		}
		return id, nil, nil
	}

	return raw, nil, nil
}

func (r *validationRun) checkUnique(ctx context.Context, rowNum int, f template.Field, raw string) *session.RowError {
	seen := r.seenUnique[f.Name]
	if seen == nil {
		seen = map[string]int{}
		r.seenUnique[f.Name] = seen
	}
	if first, dup := seen[raw]; dup {
		return &session.RowError{
			Row:    rowNum,
			Field:  f.Name,
			Code:   rowCodeDuplicate,
			Reason: fmt.Sprintf("%s %q repeats row %d", f.Name, raw, first),
		}
	}
	seen[raw] = rowNum

	// the only unique field in the shipped templates is the contract number
	exists, err := r.contracts.ExistsByNumber(ctx, raw)
	if err != nil {
		return &session.RowError{
			Row:    rowNum,
			Field:  f.Name,
			Code:   rowCodePersistFailed,
			Reason: err.Error(),
		}
	}
	if exists {
		return &session.RowError{
			Row:    rowNum,
			Field:  f.Name,
			Code:   rowCodeDuplicate,
			Reason: fmt.Sprintf("%s %q already exists", f.Name, raw),
		}
	}
	return nil
}

func (r *validationRun) resolveGroup(ctx context.Context, name string) (uuid.UUID, bool, error) {
	if id, ok := r.groupIDs[name]; ok {
		return id, true, nil
	}
	g, err := r.groups.GetByName(ctx, name)
	switch {
	case err == nil:
		r.groupIDs[name] = g.ID()
		return g.ID(), true, nil
	case errors.Is(err, group.ErrNotFound):
		if !r.opts.autoCreateGroups {
			return uuid.Nil, false, nil
		}
		created, err := r.groups.Create(ctx, group.NewPlaceholder(name, r.opts.sessionID))
		if err != nil {
			return uuid.Nil, false, err
		}
		r.groupIDs[name] = created.ID()
		r.createdGroups = append(r.createdGroups, created.Name())
		return created.ID(), true, nil
	default:
		return uuid.Nil, false, err
	}
}

func (r *validationRun) resolveSalesPoint(ctx context.Context, name string) (uuid.UUID, bool, error) {
	if id, ok := r.pvIDs[name]; ok {
		return id, true, nil
	}
	pv, err := r.salesPoints.GetByName(ctx, name)
	switch {
	case err == nil:
		r.pvIDs[name] = pv.ID()
		return pv.ID(), true, nil
	case errors.Is(err, salespoint.ErrNotFound):
		if !r.opts.autoCreateSalesPoints {
			return uuid.Nil, false, nil
		}
		created, err := r.salesPoints.Create(ctx, salespoint.NewPlaceholder(name, r.opts.sessionID))
		if err != nil {
			return uuid.Nil, false, err
		}
		r.pvIDs[name] = created.ID()
		r.createdPVs = append(r.createdPVs, created.Name())
		return created.ID(), true, nil
	default:
		return uuid.Nil, false, err
	}
}

// resolveMatricula links a contract row to an existing assignment by shared
// code. When several assignments share the code the owner wins, else the
// oldest.
func (r *validationRun) resolveMatricula(ctx context.Context, code string) (uuid.UUID, bool, error) {
	if id, ok := r.matIDs[code]; ok {
		return id, true, nil
	}
	ms, err := r.matriculas.GetByCode(ctx, code)
	if err != nil {
		return uuid.Nil, false, err
	}
	if len(ms) == 0 {
		return uuid.Nil, false, nil
	}
	chosen := ms[0]
	for _, m := range ms {
		if m.Owner() {
			chosen = m
			break
		}
	}
	r.matIDs[code] = chosen.ID()
	return chosen.ID(), true, nil
}

// normalizeDecimal accepts both "1.234,56" and "1,234.56" style amounts,
// which show up mixed in historical exports.
func normalizeDecimal(raw string) string {
	s := strings.ReplaceAll(raw, " ", "")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

func parseFlag(raw string) (bool, bool) {
	switch fold.Key(raw) {
	case "1", "true", "yes", "y", "si", "s", "x":
		return true, true
	case "0", "false", "no", "n", "":
		return false, true
	default:
		return false, false
	}
}
