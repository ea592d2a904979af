package services

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
	"github.com/ventia/salesadmin/modules/imports/infrastructure/fileio"
	"github.com/ventia/salesadmin/modules/imports/mapping"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/group"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/salespoint"
	"github.com/ventia/salesadmin/pkg/composables"
	"github.com/ventia/salesadmin/pkg/eventbus"
	"github.com/ventia/salesadmin/pkg/fold"
)

// sampleRowCount is how many data rows the preview carries back to the
// wizard.
const sampleRowCount = 5

// ImportService drives the bulk-import wizard: upload, mapping, person
// resolution, confirm, undo. Each operation loads the session, applies the
// transition on the aggregate, and persists it back.
type ImportService struct {
	sessions    session.Repository
	templates   template.Registry
	validator   *Validator
	resolver    *PersonResolver
	committer   *Committer
	groups      group.Repository
	salesPoints salespoint.Repository
	publisher   eventbus.EventBus
	audit       AuditRecorder
}

func NewImportService(
	sessions session.Repository,
	templates template.Registry,
	validator *Validator,
	resolver *PersonResolver,
	committer *Committer,
	groups group.Repository,
	salesPoints salespoint.Repository,
	publisher eventbus.EventBus,
	audit AuditRecorder,
) *ImportService {
	return &ImportService{
		sessions:    sessions,
		templates:   templates,
		validator:   validator,
		resolver:    resolver,
		committer:   committer,
		groups:      groups,
		salesPoints: salesPoints,
		publisher:   publisher,
		audit:       audit,
	}
}

// Upload parses the file, creates the session in preview, and returns the
// auto-mapper's suggestion alongside a row sample.
func (s *ImportService) Upload(ctx context.Context, dto UploadDTO) (*Preview, error) {
	tpl, err := s.templates.GetByName(ctx, dto.TemplateID)
	if err != nil {
		return nil, err
	}

	table, kind, err := fileio.ReadFile(dto.FileName, dto.Data, tpl.ColumnCount())
	if err != nil {
		return nil, err
	}

	actorID, err := composables.UseActorID(ctx)
	if err != nil {
		return nil, err
	}

	sess := session.New(dto.FileName, kind, actorID, tpl.Name(), table.Header, table.Rows)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	suggestion := mapping.Suggest(table.Header, tpl)
	s.recordAudit(ctx, sess.ID(), actorID, "upload", map[string]any{
		"file_name":  dto.FileName,
		"file_kind":  kind,
		"template":   tpl.Name(),
		"total_rows": sess.TotalRows(),
	})

	return &Preview{
		UploadID:         sess.ID(),
		Columns:          table.Header,
		SampleRows:       sampleRows(table.Rows),
		TotalRows:        sess.TotalRows(),
		SuggestedMapping: suggestion.Mapping,
		UnmappedRequired: suggestion.UnmappedRequired,
	}, nil
}

// ConfigureMapping stores the approved column mapping and, for person-name
// templates, computes the resolution set. Decisions made on an earlier
// mapping survive re-configuration.
func (s *ImportService) ConfigureMapping(ctx context.Context, uploadID uuid.UUID, m map[string]string) (*Preview, error) {
	sess, err := s.sessions.GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetByName(ctx, sess.TemplateID())
	if err != nil {
		return nil, err
	}

	if missing := mapping.MissingRequired(m, tpl); len(missing) > 0 {
		return nil, NewMissingRequiredFieldsError(missing)
	}
	if err := sess.Configure(m); err != nil {
		return nil, err
	}

	if tpl.HasPersonFields() {
		resolutions, err := s.resolver.Resolve(ctx, personRefs(tpl, sess.Rows(), m), sess.Resolutions())
		if err != nil {
			return nil, err
		}
		if err := sess.SetResolutions(resolutions); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, sess.ID(), sess.ActorID(), "configure_mapping", map[string]any{
		"mapped_columns": len(m),
		"pending":        len(sess.PendingResolutions()),
	})

	return &Preview{
		UploadID:         sess.ID(),
		Columns:          sess.Header(),
		SampleRows:       sampleRows(sess.Rows()),
		TotalRows:        sess.TotalRows(),
		SuggestedMapping: m,
		Pending:          pendingResolutions(sess),
	}, nil
}

// ResolvePerson applies a human decision to one pending person reference.
func (s *ImportService) ResolvePerson(ctx context.Context, uploadID uuid.UUID, key string, decision session.Resolution) error {
	sess, err := s.sessions.GetByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if err := sess.Resolve(key, decision); err != nil {
		return err
	}
	if err := s.sessions.Update(ctx, sess); err != nil {
		return err
	}
	s.recordAudit(ctx, sess.ID(), sess.ActorID(), "resolve_person", map[string]any{
		"key":    key,
		"action": decision.Action,
	})
	return nil
}

// Confirm validates the stored rows under the stored mapping and commits
// them. Already-terminal sessions are rejected so a replayed confirm can
// never double-insert.
func (s *ImportService) Confirm(ctx context.Context, uploadID uuid.UUID, opts ConfirmOptions) (*Summary, error) {
	sess, err := s.sessions.GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if err := sess.EnsureConfirmable(); err != nil {
		return nil, err
	}
	if len(sess.PendingResolutions()) > 0 {
		return nil, session.ErrPendingResolutions
	}
	tpl, err := s.templates.GetByName(ctx, sess.TemplateID())
	if err != nil {
		return nil, err
	}
	if err := checkDateFormat(tpl, opts.DateFormat); err != nil {
		return nil, err
	}

	type confirmResult struct {
		validation *ValidationResult
		outcome    *CommitOutcome
	}
	res, err := composables.InTxResult(ctx, func(txCtx context.Context) (confirmResult, error) {
		vr, err := s.validator.Validate(txCtx, tpl, sess.Rows(), sess.Mapping(), validateOptions{
			dateFormat:            opts.DateFormat,
			autoCreateGroups:      opts.AutoCreateGroups,
			autoCreateSalesPoints: opts.AutoCreateSalesPoints,
			sessionID:             sess.ID(),
		})
		if err != nil {
			return confirmResult{}, err
		}
		if opts.Strict && len(vr.Errors) > 0 {
			return confirmResult{validation: vr}, ErrStrictAborted
		}
		out, err := s.committer.Commit(txCtx, tpl.Entity(), sess.ID(), vr.Records, sess.Resolutions(), opts.Strict)
		if err != nil {
			return confirmResult{validation: vr, outcome: out}, err
		}
		return confirmResult{validation: vr, outcome: out}, nil
	})

	// A strict abort rolls the transaction back; an empty commit still
	// commits the placeholders validation created. failSession removes both
	// and persists the failed status outside the transaction.
	if gerrors.Is(err, ErrStrictAborted) {
		return s.failSession(ctx, sess, collectErrors(res.validation, res.outcome))
	}
	if err != nil {
		return nil, err
	}

	allErrs := collectErrors(res.validation, res.outcome)
	if res.outcome.Processed == 0 && sess.TotalRows() > 0 {
		return s.failSession(ctx, sess, allErrs)
	}

	if err := sess.Complete(res.outcome.Processed, countRows(allErrs), allErrs); err != nil {
		return nil, err
	}
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}

	s.publisher.Publish(session.CompletedEvent{
		UploadID:      sess.ID(),
		ActorID:       sess.ActorID(),
		ProcessedRows: sess.ProcessedRows(),
		FailedRows:    sess.FailedRows(),
	})
	s.recordAudit(ctx, sess.ID(), sess.ActorID(), "confirm", map[string]any{
		"processed": sess.ProcessedRows(),
		"failed":    sess.FailedRows(),
		"strict":    opts.Strict,
	})

	summary := summarize(sess)
	summary.CreatedContracts = res.outcome.CreatedContracts
	summary.CreatedAccounts = res.outcome.CreatedAccounts
	summary.CreatedMatriculas = res.outcome.CreatedMatriculas
	summary.CreatedGroups = res.validation.CreatedGroups
	summary.CreatedPVs = res.validation.CreatedPVs
	return summary, nil
}

// Undo deletes exactly the entities stamped with this session and marks the
// session reversed. A second undo is a no-op; undo of anything but a
// completed session is an error.
func (s *ImportService) Undo(ctx context.Context, uploadID uuid.UUID) error {
	sess, err := s.sessions.GetByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if sess.Status() == session.StatusReversed {
		return nil
	}
	if sess.Status() != session.StatusCompleted {
		return session.ErrInvalidState
	}

	counts := map[string]int64{}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		for _, step := range []struct {
			name string
			del  func(context.Context, uuid.UUID) (int64, error)
		}{
			{"contracts", s.committer.contracts.DeleteByImportSession},
			{"matriculas", s.committer.matriculas.DeleteByImportSession},
			{"accounts", s.committer.accounts.DeleteByImportSession},
			{"groups", s.groups.DeleteByImportSession},
			{"sales_points", s.salesPoints.DeleteByImportSession},
		} {
			n, err := step.del(txCtx, sess.ID())
			if err != nil {
				return gerrors.Wrap(err, "undo "+step.name)
			}
			counts[step.name] = n
		}
		if err := sess.MarkReversed(); err != nil {
			return err
		}
		return s.sessions.Update(txCtx, sess)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(session.RevertedEvent{UploadID: sess.ID(), ActorID: sess.ActorID()})
	s.recordAudit(ctx, sess.ID(), sess.ActorID(), "undo", map[string]any{"deleted": counts})
	return nil
}

// GetSession returns the session for status/summary queries.
func (s *ImportService) GetSession(ctx context.Context, uploadID uuid.UUID) (*session.Session, error) {
	return s.sessions.GetByID(ctx, uploadID)
}

// failSession marks the session failed and removes any placeholder groups or
// sales points validation auto-created for it. A failed confirm must leave
// nothing behind: Undo only accepts completed sessions, so anything stamped
// with a failed session's id would be unreachable forever.
func (s *ImportService) failSession(ctx context.Context, sess *session.Session, errs []session.RowError) (*Summary, error) {
	if err := s.removePlaceholders(ctx, sess.ID()); err != nil {
		return nil, err
	}
	if err := sess.Fail(errs); err != nil {
		return nil, err
	}
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}
	s.publisher.Publish(session.FailedEvent{
		UploadID: sess.ID(),
		ActorID:  sess.ActorID(),
		Reason:   "no rows could be committed",
	})
	s.recordAudit(ctx, sess.ID(), sess.ActorID(), "confirm_failed", map[string]any{
		"errors": len(errs),
	})
	return summarize(sess), nil
}

func (s *ImportService) removePlaceholders(ctx context.Context, sessionID uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.groups.DeleteByImportSession(txCtx, sessionID); err != nil {
			return gerrors.Wrap(err, "remove placeholder groups")
		}
		if _, err := s.salesPoints.DeleteByImportSession(txCtx, sessionID); err != nil {
			return gerrors.Wrap(err, "remove placeholder sales points")
		}
		return nil
	})
}

func (s *ImportService) recordAudit(ctx context.Context, sessionID, actorID uuid.UUID, action string, details map[string]any) {
	err := s.audit.Record(ctx, AuditEntry{
		SessionID: sessionID,
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		At:        time.Now().UTC(),
	})
	if err != nil {
		composables.UseLogger(ctx).WithFields(logrus.Fields{
			"session_id": sessionID,
			"action":     action,
		}).WithError(err).Warn("audit write failed")
	}
}

// checkDateFormat requires a recognized format only when the template can
// actually hit the date-coercion path.
func checkDateFormat(tpl template.Template, f DateFormat) error {
	for _, field := range tpl.Fields() {
		if field.Kind == template.KindDate {
			if _, ok := f.layout(); !ok {
				return ErrInvalidDateFormat
			}
			return nil
		}
	}
	return nil
}

// personRefs extracts the distinct person references to resolve without
// running full validation, so configuring a mapping has no side effects on
// reference entities.
func personRefs(tpl template.Template, rows []session.Row, m map[string]string) []Record {
	var personCols []string
	for col, fieldName := range m {
		if f, ok := tpl.FieldByName(fieldName); ok && f.Kind == template.KindPersonName {
			personCols = append(personCols, col)
		}
	}
	if len(personCols) == 0 {
		return nil
	}

	var refs []Record
	for _, row := range rows {
		for _, col := range personCols {
			raw := row[col]
			if raw == "" {
				continue
			}
			rec := Record{PersonSource: raw, PersonKey: fold.Name(raw)}
			if rec.PersonKey == "" {
				continue
			}
			refs = append(refs, rec)
		}
	}
	return refs
}

func sampleRows(rows []session.Row) []session.Row {
	if len(rows) <= sampleRowCount {
		return rows
	}
	return rows[:sampleRowCount]
}

func pendingResolutions(sess *session.Session) []PendingResolution {
	var out []PendingResolution
	for _, key := range sess.PendingResolutions() {
		r := sess.Resolutions()[key]
		out = append(out, PendingResolution{
			Key:        key,
			SourceName: r.SourceName,
			Candidates: r.Candidates,
		})
	}
	return out
}

func collectErrors(vr *ValidationResult, out *CommitOutcome) []session.RowError {
	var errs []session.RowError
	if vr != nil {
		errs = append(errs, vr.Errors...)
	}
	if out != nil {
		errs = append(errs, out.Errors...)
	}
	return errs
}

// countRows counts distinct failed rows; one row may carry several errors.
func countRows(errs []session.RowError) int {
	seen := map[int]bool{}
	for _, e := range errs {
		seen[e.Row] = true
	}
	return len(seen)
}

func summarize(sess *session.Session) *Summary {
	return &Summary{
		UploadID:      sess.ID(),
		Status:        sess.Status(),
		TotalRows:     sess.TotalRows(),
		ProcessedRows: sess.ProcessedRows(),
		FailedRows:    sess.FailedRows(),
		Errors:        sess.RowErrors(),
	}
}
