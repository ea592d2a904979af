package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ventia/salesadmin/modules/sales/domain/entities/group"
	"github.com/ventia/salesadmin/pkg/composables"
)

type GroupRepository struct{}

func NewGroupRepository() group.Repository {
	return &GroupRepository{}
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (group.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return group.Group{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, name, import_session_id, created_at
FROM groups
WHERE id = $1
`, pgUUID(id))
	return scanGroup(row)
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (group.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return group.Group{}, err
	}
	row := tx.QueryRow(ctx, `
SELECT id, name, import_session_id, created_at
FROM groups
WHERE name = $1
`, name)
	return scanGroup(row)
}

func (r *GroupRepository) GetAll(ctx context.Context) ([]group.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, name, import_session_id, created_at
FROM groups
ORDER BY name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []group.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GroupRepository) Create(ctx context.Context, g group.Group) (group.Group, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return group.Group{}, err
	}
	var createdAt time.Time
	if err := tx.QueryRow(ctx, `
INSERT INTO groups (id, name, import_session_id)
VALUES ($1, $2, $3)
RETURNING created_at
`, pgUUID(g.ID()), g.Name(), pgNullableUUID(g.ImportSessionID())).Scan(&createdAt); err != nil {
		return group.Group{}, err
	}
	return group.Hydrate(g.ID(), g.Name(), g.ImportSessionID(), createdAt), nil
}

func (r *GroupRepository) DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM groups WHERE import_session_id = $1`, pgUUID(sessionID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanGroup(row pgx.Row) (group.Group, error) {
	var (
		id        uuid.UUID
		name      string
		sessionID *uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &name, &sessionID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return group.Group{}, group.ErrNotFound
		}
		return group.Group{}, err
	}
	return group.Hydrate(id, name, sessionID, createdAt), nil
}
