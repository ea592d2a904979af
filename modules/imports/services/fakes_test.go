package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/sales/domain/aggregates/contract"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/account"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/group"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/matricula"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/salespoint"
)

func newTestContract(number string) contract.Contract {
	return contract.New(number, decimal.NewFromInt(1), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

// In-memory repositories backing the service tests. They honor the same
// contracts as the pgx implementations (not-found sentinels, unique number
// conflicts, session-tagged deletes) without a database.

type fakeGroupRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]group.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{items: map[uuid.UUID]group.Group{}}
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.items[id]
	if !ok {
		return group.Group{}, group.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroupRepo) GetByName(_ context.Context, name string) (group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.items {
		if g.Name() == name {
			return g, nil
		}
	}
	return group.Group{}, group.ErrNotFound
}

func (f *fakeGroupRepo) GetAll(_ context.Context) ([]group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]group.Group, 0, len(f.items))
	for _, g := range f.items {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGroupRepo) Create(_ context.Context, g group.Group) (group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[g.ID()] = g
	return g, nil
}

func (f *fakeGroupRepo) DeleteByImportSession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, g := range f.items {
		if g.ImportSessionID() != nil && *g.ImportSessionID() == sessionID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

type fakeSalesPointRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]salespoint.SalesPoint
}

func newFakeSalesPointRepo() *fakeSalesPointRepo {
	return &fakeSalesPointRepo{items: map[uuid.UUID]salespoint.SalesPoint{}}
}

func (f *fakeSalesPointRepo) GetByID(_ context.Context, id uuid.UUID) (salespoint.SalesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return salespoint.SalesPoint{}, salespoint.ErrNotFound
	}
	return p, nil
}

func (f *fakeSalesPointRepo) GetByName(_ context.Context, name string) (salespoint.SalesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.Name() == name {
			return p, nil
		}
	}
	return salespoint.SalesPoint{}, salespoint.ErrNotFound
}

func (f *fakeSalesPointRepo) GetAll(_ context.Context) ([]salespoint.SalesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]salespoint.SalesPoint, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeSalesPointRepo) Create(_ context.Context, p salespoint.SalesPoint) (salespoint.SalesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID()] = p
	return p, nil
}

func (f *fakeSalesPointRepo) DeleteByImportSession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, p := range f.items {
		if p.ImportSessionID() != nil && *p.ImportSessionID() == sessionID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

type fakeAccountRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]account.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{items: map[uuid.UUID]account.Account{}}
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) FindByFoldedName(_ context.Context, key string) ([]account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []account.Account
	for _, a := range f.items {
		if a.FoldedName() == key {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) GetAll(_ context.Context) ([]account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]account.Account, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) Create(_ context.Context, a account.Account) (account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[a.ID()] = a
	return a, nil
}

func (f *fakeAccountRepo) DeleteByImportSession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, a := range f.items {
		if a.ImportSessionID() != nil && *a.ImportSessionID() == sessionID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

type fakeMatriculaRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]matricula.Matricula
	order []uuid.UUID
}

func newFakeMatriculaRepo() *fakeMatriculaRepo {
	return &fakeMatriculaRepo{items: map[uuid.UUID]matricula.Matricula{}}
}

func (f *fakeMatriculaRepo) GetByID(_ context.Context, id uuid.UUID) (matricula.Matricula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return matricula.Matricula{}, matricula.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatriculaRepo) GetByCode(_ context.Context, code string) ([]matricula.Matricula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []matricula.Matricula
	for _, id := range f.order {
		if m := f.items[id]; m.Code() == code {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatriculaRepo) Create(_ context.Context, m matricula.Matricula) (matricula.Matricula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[m.ID()] = m
	f.order = append(f.order, m.ID())
	return m, nil
}

func (f *fakeMatriculaRepo) SetOwnerForCode(_ context.Context, code string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return matricula.ErrNotFound
	}
	for mid, m := range f.items {
		if m.Code() != code {
			continue
		}
		f.items[mid] = matricula.Hydrate(m.ID(), m.Code(), m.AccountID(), mid == id, m.ImportSessionID(), m.CreatedAt())
	}
	return nil
}

func (f *fakeMatriculaRepo) DeleteByImportSession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, m := range f.items {
		if m.ImportSessionID() != nil && *m.ImportSessionID() == sessionID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeMatriculaRepo) owners(code string) []matricula.Matricula {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []matricula.Matricula
	for _, id := range f.order {
		if m, ok := f.items[id]; ok && m.Code() == code && m.Owner() {
			out = append(out, m)
		}
	}
	return out
}

type fakeContractRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]contract.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{items: map[uuid.UUID]contract.Contract{}}
}

func (f *fakeContractRepo) GetByID(_ context.Context, id uuid.UUID) (contract.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return contract.Contract{}, contract.ErrNotFound
	}
	return c, nil
}

func (f *fakeContractRepo) GetPaginated(_ context.Context, params *contract.FindParams) ([]contract.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.Contract
	for _, c := range f.items {
		if params != nil && params.GroupID != nil {
			if c.GroupID() == nil || *c.GroupID() != *params.GroupID {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContractRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

func (f *fakeContractRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Number() == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContractRepo) Create(_ context.Context, c contract.Contract) (contract.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Number() == c.Number() {
			return contract.Contract{}, contract.ErrNumberTaken
		}
	}
	f.items[c.ID()] = c
	return c, nil
}

func (f *fakeContractRepo) DeleteByImportSession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, c := range f.items {
		if c.ImportSessionID() != nil && *c.ImportSessionID() == sessionID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

type fakeSessionRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*session.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{items: map[uuid.UUID]*session.Session{}}
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) Create(_ context.Context, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[s.ID()] = s
	return nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[s.ID()]; !ok {
		return session.ErrNotFound
	}
	f.items[s.ID()] = s
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (f *fakeAudit) Record(_ context.Context, entry AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}
