package contract

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = gerrors.New("contract not found")
	ErrNumberTaken = gerrors.New("contract number already exists")
)

type FindParams struct {
	Limit   int
	Offset  int
	GroupID *uuid.UUID
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Contract, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Contract, error)
	Count(ctx context.Context) (int64, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, c Contract) (Contract, error)
	DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
