package salespoint

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("sales point not found")

// SalesPoint (PV) is the outlet a contract was sold through.
type SalesPoint struct {
	id              uuid.UUID
	name            string
	importSessionID *uuid.UUID
	createdAt       time.Time
}

func New(name string) SalesPoint {
	return SalesPoint{
		id:   uuid.New(),
		name: strings.TrimSpace(name),
	}
}

func NewPlaceholder(name string, sessionID uuid.UUID) SalesPoint {
	pv := New(name)
	pv.importSessionID = &sessionID
	return pv
}

func Hydrate(id uuid.UUID, name string, importSessionID *uuid.UUID, createdAt time.Time) SalesPoint {
	return SalesPoint{
		id:              id,
		name:            strings.TrimSpace(name),
		importSessionID: importSessionID,
		createdAt:       createdAt,
	}
}

func (p SalesPoint) ID() uuid.UUID               { return p.id }
func (p SalesPoint) Name() string                { return p.name }
func (p SalesPoint) ImportSessionID() *uuid.UUID { return p.importSessionID }
func (p SalesPoint) CreatedAt() time.Time        { return p.createdAt }
func (p SalesPoint) IsZero() bool                { return p.id == uuid.Nil }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (SalesPoint, error)
	GetByName(ctx context.Context, name string) (SalesPoint, error)
	GetAll(ctx context.Context) ([]SalesPoint, error)
	Create(ctx context.Context, p SalesPoint) (SalesPoint, error)
	DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
