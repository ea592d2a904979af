package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ventia/salesadmin/modules/sales/domain/aggregates/contract"
	"github.com/ventia/salesadmin/pkg/composables"
	"github.com/ventia/salesadmin/pkg/repo"
)

type ContractRepository struct{}

func NewContractRepository() contract.Repository {
	return &ContractRepository{}
}

const contractColumns = `
	id, number, amount::text, signed_at, group_id, sales_point_id,
	account_id, matricula_id, import_session_id, created_at`

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT `+contractColumns+`
FROM contracts
WHERE id = $1
`, pgUUID(id))
	return scanContract(row)
}

func (r *ContractRepository) GetPaginated(ctx context.Context, params *contract.FindParams) ([]contract.Contract, error) {
	if params == nil {
		params = &contract.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	q := `
SELECT ` + contractColumns + `
FROM contracts`
	var args []any
	if params.GroupID != nil {
		q += `
WHERE group_id = $1`
		args = append(args, pgUUID(*params.GroupID))
	}
	q += `
ORDER BY created_at DESC
` + repo.FormatLimitOffset(limit, offset)

	rows, err := tx.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContractRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM contracts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ContractRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contracts WHERE number = $1)`, number).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ContractRepository) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contract.Contract{}, err
	}
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
INSERT INTO contracts (
	id, number, amount, signed_at, group_id, sales_point_id,
	account_id, matricula_id, import_session_id
)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9)
RETURNING created_at
`,
		pgUUID(c.ID()),
		c.Number(),
		c.Amount().String(),
		c.SignedAt(),
		pgNullableUUID(c.GroupID()),
		pgNullableUUID(c.SalesPointID()),
		pgNullableUUID(c.AccountID()),
		pgNullableUUID(c.MatriculaID()),
		pgNullableUUID(c.ImportSessionID()),
	).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return contract.Contract{}, contract.ErrNumberTaken
		}
		return contract.Contract{}, err
	}
	return contract.Hydrate(
		c.ID(), c.Number(), c.Amount(), c.SignedAt(),
		c.GroupID(), c.SalesPointID(), c.AccountID(), c.MatriculaID(), c.ImportSessionID(),
		createdAt,
	), nil
}

func (r *ContractRepository) DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM contracts WHERE import_session_id = $1`, pgUUID(sessionID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanContract(row pgx.Row) (contract.Contract, error) {
	var (
		id        uuid.UUID
		number    string
		amountStr string
		signedAt  time.Time
		groupID   *uuid.UUID
		pvID      *uuid.UUID
		accountID *uuid.UUID
		matID     *uuid.UUID
		sessionID *uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(
		&id, &number, &amountStr, &signedAt,
		&groupID, &pvID, &accountID, &matID, &sessionID,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contract.Contract{}, contract.ErrNotFound
		}
		return contract.Contract{}, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return contract.Contract{}, gerrors.Wrap(err, "parse amount")
	}
	return contract.Hydrate(id, number, amount, signedAt, groupID, pvID, accountID, matID, sessionID, createdAt), nil
}
