package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/pkg/composables"
)

// SessionRepository persists import sessions. The wizard state that has no
// relational shape of its own (raw rows, mapping, resolutions, row errors)
// travels as jsonb.
type SessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &SessionRepository{}
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
SELECT
	id, file_name, file_kind, actor_id, template_id, status,
	header, rows, mapping, resolutions,
	total_rows, processed_rows, failed_rows, row_errors,
	created_at, completed_at
FROM import_sessions
WHERE id = $1
`, pgtype.UUID{Bytes: id, Valid: true})
	return scanSession(row)
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	cols, err := marshalSession(s)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO import_sessions (
	id, file_name, file_kind, actor_id, template_id, status,
	header, rows, mapping, resolutions,
	total_rows, processed_rows, failed_rows, row_errors,
	created_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9::jsonb, $10::jsonb, $11, $12, $13, $14::jsonb, $15, $16)
`,
		pgtype.UUID{Bytes: s.ID(), Valid: true},
		s.FileName(),
		string(s.FileKind()),
		pgtype.UUID{Bytes: s.ActorID(), Valid: true},
		s.TemplateID(),
		string(s.Status()),
		cols.header, cols.rows, cols.mapping, cols.resolutions,
		s.TotalRows(), s.ProcessedRows(), s.FailedRows(), cols.rowErrors,
		s.CreatedAt(), s.CompletedAt(),
	)
	return err
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	cols, err := marshalSession(s)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
UPDATE import_sessions
SET
	status = $2,
	mapping = $3::jsonb,
	resolutions = $4::jsonb,
	processed_rows = $5,
	failed_rows = $6,
	row_errors = $7::jsonb,
	completed_at = $8
WHERE id = $1
`,
		pgtype.UUID{Bytes: s.ID(), Valid: true},
		string(s.Status()),
		cols.mapping, cols.resolutions,
		s.ProcessedRows(), s.FailedRows(), cols.rowErrors,
		s.CompletedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

type sessionJSON struct {
	header      []byte
	rows        []byte
	mapping     []byte
	resolutions []byte
	rowErrors   []byte
}

func marshalSession(s *session.Session) (sessionJSON, error) {
	var out sessionJSON
	var err error
	if out.header, err = json.Marshal(s.Header()); err != nil {
		return out, gerrors.Wrap(err, "marshal header")
	}
	if out.rows, err = json.Marshal(s.Rows()); err != nil {
		return out, gerrors.Wrap(err, "marshal rows")
	}
	if out.mapping, err = json.Marshal(s.Mapping()); err != nil {
		return out, gerrors.Wrap(err, "marshal mapping")
	}
	if out.resolutions, err = json.Marshal(s.Resolutions()); err != nil {
		return out, gerrors.Wrap(err, "marshal resolutions")
	}
	if out.rowErrors, err = json.Marshal(s.RowErrors()); err != nil {
		return out, gerrors.Wrap(err, "marshal row errors")
	}
	return out, nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		id          uuid.UUID
		fileName    string
		fileKind    string
		actorID     uuid.UUID
		templateID  string
		status      string
		headerB     []byte
		rowsB       []byte
		mappingB    []byte
		resB        []byte
		totalRows   int
		processed   int
		failed      int
		rowErrsB    []byte
		createdAt   time.Time
		completedAt *time.Time
	)
	if err := row.Scan(
		&id, &fileName, &fileKind, &actorID, &templateID, &status,
		&headerB, &rowsB, &mappingB, &resB,
		&totalRows, &processed, &failed, &rowErrsB,
		&createdAt, &completedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var header []string
	var rows []session.Row
	var mapping map[string]string
	var resolutions map[string]session.Resolution
	var rowErrors []session.RowError
	for _, u := range []struct {
		data []byte
		dst  any
	}{
		{headerB, &header},
		{rowsB, &rows},
		{mappingB, &mapping},
		{resB, &resolutions},
		{rowErrsB, &rowErrors},
	} {
		if len(u.data) == 0 {
			continue
		}
		if err := json.Unmarshal(u.data, u.dst); err != nil {
			return nil, gerrors.Wrap(err, "unmarshal session state")
		}
	}

	return session.Hydrate(
		id, fileName, session.FileKind(fileKind), actorID, templateID,
		session.Status(status), header, rows, mapping, resolutions,
		totalRows, processed, failed, rowErrors,
		createdAt, completedAt,
	), nil
}
