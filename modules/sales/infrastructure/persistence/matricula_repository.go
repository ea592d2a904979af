package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ventia/salesadmin/modules/sales/domain/entities/matricula"
	"github.com/ventia/salesadmin/pkg/composables"
)

type MatriculaRepository struct{}

func NewMatriculaRepository() matricula.Repository {
	return &MatriculaRepository{}
}

func (r *MatriculaRepository) GetByID(ctx context.Context, id uuid.UUID) (matricula.Matricula, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return matricula.Matricula{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, code, account_id, owner, import_session_id, created_at
FROM matriculas
WHERE id = $1
`, pgUUID(id))
	return scanMatricula(row)
}

func (r *MatriculaRepository) GetByCode(ctx context.Context, code string) ([]matricula.Matricula, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, code, account_id, owner, import_session_id, created_at
FROM matriculas
WHERE code = $1
ORDER BY created_at
`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []matricula.Matricula
	for rows.Next() {
		m, err := scanMatricula(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MatriculaRepository) Create(ctx context.Context, m matricula.Matricula) (matricula.Matricula, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return matricula.Matricula{}, err
	}
	var createdAt time.Time
	if err := tx.QueryRow(ctx, `
INSERT INTO matriculas (id, code, account_id, owner, import_session_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at
`,
		pgUUID(m.ID()),
		m.Code(),
		pgUUID(m.AccountID()),
		m.Owner(),
		pgNullableUUID(m.ImportSessionID()),
	).Scan(&createdAt); err != nil {
		return matricula.Matricula{}, err
	}
	return matricula.Hydrate(m.ID(), m.Code(), m.AccountID(), m.Owner(), m.ImportSessionID(), createdAt), nil
}

// SetOwnerForCode clears the flag on every assignment sharing the code, then
// sets it on the chosen one, keeping the one-owner-per-code invariant inside
// the caller's transaction.
func (r *MatriculaRepository) SetOwnerForCode(ctx context.Context, code string, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE matriculas SET owner = false WHERE code = $1`, code); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE matriculas SET owner = true WHERE id = $1 AND code = $2`, pgUUID(id), code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return matricula.ErrNotFound
	}
	return nil
}

func (r *MatriculaRepository) DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM matriculas WHERE import_session_id = $1`, pgUUID(sessionID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanMatricula(row pgx.Row) (matricula.Matricula, error) {
	var (
		id        uuid.UUID
		code      string
		accountID uuid.UUID
		owner     bool
		sessionID *uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &code, &accountID, &owner, &sessionID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matricula.Matricula{}, matricula.ErrNotFound
		}
		return matricula.Matricula{}, err
	}
	return matricula.Hydrate(id, code, accountID, owner, sessionID, createdAt), nil
}
