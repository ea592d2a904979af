package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ventia/salesadmin/modules/sales/domain/entities/salespoint"
	"github.com/ventia/salesadmin/pkg/composables"
)

type SalesPointRepository struct{}

func NewSalesPointRepository() salespoint.Repository {
	return &SalesPointRepository{}
}

func (r *SalesPointRepository) GetByID(ctx context.Context, id uuid.UUID) (salespoint.SalesPoint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return salespoint.SalesPoint{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, name, import_session_id, created_at
FROM sales_points
WHERE id = $1
`, pgUUID(id))
	return scanSalesPoint(row)
}

func (r *SalesPointRepository) GetByName(ctx context.Context, name string) (salespoint.SalesPoint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return salespoint.SalesPoint{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, name, import_session_id, created_at
FROM sales_points
WHERE name = $1
`, name)
	return scanSalesPoint(row)
}

func (r *SalesPointRepository) GetAll(ctx context.Context) ([]salespoint.SalesPoint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, name, import_session_id, created_at
FROM sales_points
ORDER BY name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []salespoint.SalesPoint
	for rows.Next() {
		p, err := scanSalesPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SalesPointRepository) Create(ctx context.Context, p salespoint.SalesPoint) (salespoint.SalesPoint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return salespoint.SalesPoint{}, err
	}
	var createdAt time.Time
	if err := tx.QueryRow(ctx, `
INSERT INTO sales_points (id, name, import_session_id)
VALUES ($1, $2, $3)
RETURNING created_at
`, pgUUID(p.ID()), p.Name(), pgNullableUUID(p.ImportSessionID())).Scan(&createdAt); err != nil {
		return salespoint.SalesPoint{}, err
	}
	return salespoint.Hydrate(p.ID(), p.Name(), p.ImportSessionID(), createdAt), nil
}

func (r *SalesPointRepository) DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM sales_points WHERE import_session_id = $1`, pgUUID(sessionID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSalesPoint(row pgx.Row) (salespoint.SalesPoint, error) {
	var (
		id        uuid.UUID
		name      string
		sessionID *uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &name, &sessionID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salespoint.SalesPoint{}, salespoint.ErrNotFound
		}
		return salespoint.SalesPoint{}, err
	}
	return salespoint.Hydrate(id, name, sessionID, createdAt), nil
}
