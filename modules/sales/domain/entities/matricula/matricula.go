package matricula

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("matricula not found")

// Matricula is an assignment of an account to a shared sales code. Several
// assignments may share one code; at most one of them holds the owner flag.
type Matricula struct {
	id              uuid.UUID
	code            string
	accountID       uuid.UUID
	owner           bool
	importSessionID *uuid.UUID
	createdAt       time.Time
}

func New(code string, accountID uuid.UUID, owner bool) Matricula {
	return Matricula{
		id:        uuid.New(),
		code:      strings.TrimSpace(code),
		accountID: accountID,
		owner:     owner,
	}
}

func NewImported(code string, accountID uuid.UUID, owner bool, sessionID uuid.UUID) Matricula {
	m := New(code, accountID, owner)
	m.importSessionID = &sessionID
	return m
}

func Hydrate(
	id uuid.UUID,
	code string,
	accountID uuid.UUID,
	owner bool,
	importSessionID *uuid.UUID,
	createdAt time.Time,
) Matricula {
	return Matricula{
		id:              id,
		code:            strings.TrimSpace(code),
		accountID:       accountID,
		owner:           owner,
		importSessionID: importSessionID,
		createdAt:       createdAt,
	}
}

func (m Matricula) ID() uuid.UUID               { return m.id }
func (m Matricula) Code() string                { return m.code }
func (m Matricula) AccountID() uuid.UUID        { return m.accountID }
func (m Matricula) Owner() bool                 { return m.owner }
func (m Matricula) ImportSessionID() *uuid.UUID { return m.importSessionID }
func (m Matricula) CreatedAt() time.Time        { return m.createdAt }
func (m Matricula) IsZero() bool                { return m.id == uuid.Nil }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Matricula, error)
	GetByCode(ctx context.Context, code string) ([]Matricula, error)
	Create(ctx context.Context, m Matricula) (Matricula, error)
	// SetOwnerForCode makes the given assignment the sole owner of its code:
	// the flag is cleared on every sibling sharing the code first.
	SetOwnerForCode(ctx context.Context, code string, id uuid.UUID) error
	DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
