package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
	"github.com/ventia/salesadmin/modules/sales/domain/aggregates/contract"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/account"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/matricula"
	"github.com/ventia/salesadmin/pkg/composables"
)

// ErrStrictAborted signals that strict mode saw a row failure; the caller
// rolls back the batch and fails the session with the collected errors.
var ErrStrictAborted = gerrors.New("strict import aborted on row failure")

// CommitOutcome is what one commit pass produced. IDs are recorded per
// entity so undo and the summary can enumerate exactly what this session
// wrote.
type CommitOutcome struct {
	Processed         int
	Errors            []session.RowError
	CreatedContracts  []uuid.UUID
	CreatedAccounts   []uuid.UUID
	CreatedMatriculas []uuid.UUID
}

// Committer persists validated records. Each record is written inside its own
// savepoint so one bad row never poisons the batch; in strict mode the first
// failure aborts instead.
type Committer struct {
	contracts  contract.Repository
	accounts   account.Repository
	matriculas matricula.Repository
}

func NewCommitter(
	contracts contract.Repository,
	accounts account.Repository,
	matriculas matricula.Repository,
) *Committer {
	return &Committer{
		contracts:  contracts,
		accounts:   accounts,
		matriculas: matriculas,
	}
}

// Commit writes records of the given entity kind. resolutions must contain a
// non-pending decision for every PersonKey present in records; the service
// layer guarantees that before calling.
func (c *Committer) Commit(
	ctx context.Context,
	entity template.EntityKind,
	sessionID uuid.UUID,
	records []Record,
	resolutions map[string]session.Resolution,
	strict bool,
) (*CommitOutcome, error) {
	run := &commitRun{
		Committer:   c,
		sessionID:   sessionID,
		resolutions: resolutions,
		accountIDs:  map[string]uuid.UUID{},
		lastOwner:   map[string]uuid.UUID{},
	}
	out := &CommitOutcome{}

	for _, rec := range records {
		run.staged = stagedAccount{}
		err := composables.InNestedTx(ctx, func(txCtx context.Context) error {
			switch entity {
			case template.EntityContracts:
				return run.commitContract(txCtx, rec, out)
			case template.EntityPersonnel:
				return run.commitAssignment(txCtx, rec, out)
			default:
				return fmt.Errorf("unknown import entity %q", entity)
			}
		})
		if err != nil {
			out.Errors = append(out.Errors, rowErrorFor(rec.Row, err))
			if strict {
				return out, ErrStrictAborted
			}
			continue
		}
		// An account created in this row's savepoint only survives when the
		// row does, so the cache is promoted here, not at creation time.
		if run.staged.key != "" {
			run.accountIDs[run.staged.key] = run.staged.id
			if run.staged.created {
				out.CreatedAccounts = append(out.CreatedAccounts, run.staged.id)
			}
		}
		out.Processed++
	}

	// Ownership arbitration runs after the row loop so the last explicit
	// owner row per code wins regardless of row order ties.
	for code, id := range run.lastOwner {
		if err := c.matriculas.SetOwnerForCode(ctx, code, id); err != nil {
			return out, gerrors.Wrap(err, "set owner")
		}
	}

	return out, nil
}

type commitRun struct {
	*Committer
	sessionID   uuid.UUID
	resolutions map[string]session.Resolution
	// accountIDs caches the account chosen or created per folded person key,
	// so a create_new name mentioned in ten rows yields one account.
	accountIDs map[string]uuid.UUID
	// lastOwner tracks, per matricula code, the assignment of the latest row
	// that explicitly claimed ownership.
	lastOwner map[string]uuid.UUID
	staged    stagedAccount
}

type stagedAccount struct {
	key     string
	id      uuid.UUID
	created bool
}

func (r *commitRun) commitContract(ctx context.Context, rec Record, out *CommitOutcome) error {
	number, _ := rec.Values[template.FieldNumber].(string)
	amount, _ := rec.Values[template.FieldAmount].(decimal.Decimal)
	signedAt, _ := rec.Values[template.FieldSignedDate].(time.Time)

	opts := []contract.Option{contract.WithImportSession(r.sessionID)}
	if id, ok := rec.Values[template.FieldGroup].(uuid.UUID); ok {
		opts = append(opts, contract.WithGroup(id))
	}
	if id, ok := rec.Values[template.FieldSalesPoint].(uuid.UUID); ok {
		opts = append(opts, contract.WithSalesPoint(id))
	}
	if id, ok := rec.Values[template.FieldMatricula].(uuid.UUID); ok {
		opts = append(opts, contract.WithMatricula(id))
	}
	if rec.PersonKey != "" {
		accountID, err := r.accountFor(ctx, rec)
		if err != nil {
			return err
		}
		opts = append(opts, contract.WithAccount(accountID))
	}

	created, err := r.contracts.Create(ctx, contract.New(number, amount, signedAt, opts...))
	if err != nil {
		return err
	}
	out.CreatedContracts = append(out.CreatedContracts, created.ID())
	return nil
}

func (r *commitRun) commitAssignment(ctx context.Context, rec Record, out *CommitOutcome) error {
	code, _ := rec.Values[template.FieldMatricula].(string)
	owner, _ := rec.Values[template.FieldOwner].(bool)

	accountID, err := r.accountFor(ctx, rec)
	if err != nil {
		return err
	}

	created, err := r.matriculas.Create(ctx, matricula.NewImported(code, accountID, false, r.sessionID))
	if err != nil {
		return err
	}
	out.CreatedMatriculas = append(out.CreatedMatriculas, created.ID())
	if owner {
		r.lastOwner[code] = created.ID()
	}
	return nil
}

// accountFor materializes the record's person reference following the
// session's resolution for that name.
func (r *commitRun) accountFor(ctx context.Context, rec Record) (uuid.UUID, error) {
	if id, ok := r.accountIDs[rec.PersonKey]; ok {
		return id, nil
	}
	res, ok := r.resolutions[rec.PersonKey]
	if !ok {
		return uuid.Nil, fmt.Errorf("no resolution for %q", rec.PersonSource)
	}
	switch res.Action {
	case session.ActionMapExisting:
		r.staged = stagedAccount{key: rec.PersonKey, id: res.AccountID}
		return res.AccountID, nil
	case session.ActionCreateNew:
		first, last := SplitName(res.SourceName)
		created, err := r.accounts.Create(ctx, account.NewImported(first, last, r.sessionID))
		if err != nil {
			return uuid.Nil, err
		}
		r.staged = stagedAccount{key: rec.PersonKey, id: created.ID(), created: true}
		return created.ID(), nil
	default:
		return uuid.Nil, fmt.Errorf("unresolved person %q", rec.PersonSource)
	}
}

func rowErrorFor(row int, err error) session.RowError {
	code := rowCodePersistFailed
	if errors.Is(err, contract.ErrNumberTaken) {
		code = rowCodeDuplicate
	}
	return session.RowError{Row: row, Code: code, Reason: err.Error()}
}
