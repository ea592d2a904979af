package account

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ventia/salesadmin/pkg/fold"
)

var ErrNotFound = gerrors.New("account not found")

// Account is a person known to the system: a salesperson or contract holder.
// Imports reference accounts by free-text name, so the persistence layer
// keeps a folded name column for exact-after-normalization lookups.
type Account struct {
	id              uuid.UUID
	firstName       string
	lastName        string
	importSessionID *uuid.UUID
	createdAt       time.Time
}

func New(firstName, lastName string) Account {
	return Account{
		id:        uuid.New(),
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
	}
}

func NewImported(firstName, lastName string, sessionID uuid.UUID) Account {
	a := New(firstName, lastName)
	a.importSessionID = &sessionID
	return a
}

func Hydrate(id uuid.UUID, firstName, lastName string, importSessionID *uuid.UUID, createdAt time.Time) Account {
	return Account{
		id:              id,
		firstName:       strings.TrimSpace(firstName),
		lastName:        strings.TrimSpace(lastName),
		importSessionID: importSessionID,
		createdAt:       createdAt,
	}
}

func (a Account) ID() uuid.UUID               { return a.id }
func (a Account) FirstName() string           { return a.firstName }
func (a Account) LastName() string            { return a.lastName }
func (a Account) ImportSessionID() *uuid.UUID { return a.importSessionID }
func (a Account) CreatedAt() time.Time        { return a.createdAt }
func (a Account) IsZero() bool                { return a.id == uuid.Nil }

func (a Account) FullName() string {
	return strings.TrimSpace(a.firstName + " " + a.lastName)
}

// FoldedName is the matching key stored alongside the account.
func (a Account) FoldedName() string {
	return fold.Name(a.FullName())
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	// FindByFoldedName returns every account whose folded full name equals
	// the given key. More than one result means the name is ambiguous.
	FindByFoldedName(ctx context.Context, key string) ([]Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, a Account) (Account, error)
	DeleteByImportSession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
