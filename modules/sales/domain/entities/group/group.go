package group

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("group not found")

// Group is a commercial grouping contracts are filed under. Imports may
// create placeholder groups on the fly; those carry the import session that
// spawned them so undo can remove them again.
type Group struct {
	id              uuid.UUID
	name            string
	importSessionID *uuid.UUID
	createdAt       time.Time
}

func New(name string) Group {
	return Group{
		id:   uuid.New(),
		name: strings.TrimSpace(name),
	}
}

func NewPlaceholder(name string, sessionID uuid.UUID) Group {
	g := New(name)
	g.importSessionID = &sessionID
	return g
}

func Hydrate(id uuid.UUID, name string, importSessionID *uuid.UUID, createdAt time.Time) Group {
	return Group{
		id:              id,
		name:            strings.TrimSpace(name),
		importSessionID: importSessionID,
		createdAt:       createdAt,
	}
}

func (g Group) ID() uuid.UUID               { return g.id }
func (g Group) Name() string                { return g.name }
func (g Group) ImportSessionID() *uuid.UUID { return g.importSessionID }
func (g Group) CreatedAt() time.Time        { return g.createdAt }
func (g Group) IsZero() bool                { return g.id == uuid.Nil }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Group, error)
	GetByName(ctx context.Context, name string) (Group, error)
	GetAll(ctx context.Context) ([]Group, error)
	Create(ctx context.Context, g Group) (Group, error)
	DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
