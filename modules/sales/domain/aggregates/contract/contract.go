package contract

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract is a signed sales contract. Contracts written by the import
// pipeline carry the session that created them; hand-entered ones do not.
type Contract struct {
	id              uuid.UUID
	number          string
	amount          decimal.Decimal
	signedAt        time.Time
	groupID         *uuid.UUID
	salesPointID    *uuid.UUID
	accountID       *uuid.UUID
	matriculaID     *uuid.UUID
	importSessionID *uuid.UUID
	createdAt       time.Time
}

type Option func(*Contract)

func WithGroup(id uuid.UUID) Option {
	return func(c *Contract) { c.groupID = &id }
}

func WithSalesPoint(id uuid.UUID) Option {
	return func(c *Contract) { c.salesPointID = &id }
}

func WithAccount(id uuid.UUID) Option {
	return func(c *Contract) { c.accountID = &id }
}

func WithMatricula(id uuid.UUID) Option {
	return func(c *Contract) { c.matriculaID = &id }
}

func WithImportSession(id uuid.UUID) Option {
	return func(c *Contract) { c.importSessionID = &id }
}

func New(number string, amount decimal.Decimal, signedAt time.Time, opts ...Option) Contract {
	c := Contract{
		id:       uuid.New(),
		number:   strings.TrimSpace(number),
		amount:   amount,
		signedAt: signedAt,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func Hydrate(
	id uuid.UUID,
	number string,
	amount decimal.Decimal,
	signedAt time.Time,
	groupID, salesPointID, accountID, matriculaID, importSessionID *uuid.UUID,
	createdAt time.Time,
) Contract {
	return Contract{
		id:              id,
		number:          strings.TrimSpace(number),
		amount:          amount,
		signedAt:        signedAt,
		groupID:         groupID,
		salesPointID:    salesPointID,
		accountID:       accountID,
		matriculaID:     matriculaID,
		importSessionID: importSessionID,
		createdAt:       createdAt,
	}
}

func (c Contract) ID() uuid.UUID               { return c.id }
func (c Contract) Number() string              { return c.number }
func (c Contract) Amount() decimal.Decimal     { return c.amount }
func (c Contract) SignedAt() time.Time         { return c.signedAt }
func (c Contract) GroupID() *uuid.UUID         { return c.groupID }
func (c Contract) SalesPointID() *uuid.UUID    { return c.salesPointID }
func (c Contract) AccountID() *uuid.UUID       { return c.accountID }
func (c Contract) MatriculaID() *uuid.UUID     { return c.matriculaID }
func (c Contract) ImportSessionID() *uuid.UUID { return c.importSessionID }
func (c Contract) CreatedAt() time.Time        { return c.createdAt }
func (c Contract) IsZero() bool                { return c.id == uuid.Nil }
