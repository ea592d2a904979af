package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ventia/salesadmin/modules/sales/domain/entities/account"
	"github.com/ventia/salesadmin/pkg/composables"
)

type AccountRepository struct{}

func NewAccountRepository() account.Repository {
	return &AccountRepository{}
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, first_name, last_name, import_session_id, created_at
FROM accounts
WHERE id = $1
`, pgUUID(id))
	return scanAccount(row)
}

func (r *AccountRepository) FindByFoldedName(ctx context.Context, key string) ([]account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, first_name, last_name, import_session_id, created_at
FROM accounts
WHERE folded_name = $1
ORDER BY created_at
`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, first_name, last_name, import_session_id, created_at
FROM accounts
ORDER BY last_name, first_name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *AccountRepository) Create(ctx context.Context, a account.Account) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, err
	}
	var createdAt time.Time
	if err := tx.QueryRow(ctx, `
INSERT INTO accounts (id, first_name, last_name, folded_name, import_session_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at
`,
		pgUUID(a.ID()),
		a.FirstName(),
		a.LastName(),
		a.FoldedName(),
		pgNullableUUID(a.ImportSessionID()),
	).Scan(&createdAt); err != nil {
		return account.Account{}, err
	}
	return account.Hydrate(a.ID(), a.FirstName(), a.LastName(), a.ImportSessionID(), createdAt), nil
}

func (r *AccountRepository) DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE import_session_id = $1`, pgUUID(sessionID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectAccounts(rows pgx.Rows) ([]account.Account, error) {
	var out []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAccount(row pgx.Row) (account.Account, error) {
	var (
		id         uuid.UUID
		first      string
		last       string
		sessionID  *uuid.UUID
		createdAt  time.Time
	)
	if err := row.Scan(&id, &first, &last, &sessionID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	return account.Hydrate(id, first, last, sessionID, createdAt), nil
}
