package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventia/salesadmin/modules/sales/domain/aggregates/contract"
	"github.com/ventia/salesadmin/pkg/composables"
	"github.com/ventia/salesadmin/pkg/eventbus"
)

// ContractCreatedEvent fires for hand-entered contracts; import-created ones
// are announced by the import session's completion event instead.
type ContractCreatedEvent struct {
	ContractID uuid.UUID
	Number     string
}

// RetentionTotals is a flat reduction over a group's contracts.
type RetentionTotals struct {
	Contracts int
	Total     decimal.Decimal
}

type ContractService struct {
	repo      contract.Repository
	publisher eventbus.EventBus
}

func NewContractService(repo contract.Repository, publisher eventbus.EventBus) *ContractService {
	return &ContractService{repo: repo, publisher: publisher}
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContractService) GetPaginated(ctx context.Context, params *contract.FindParams) ([]contract.Contract, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ContractService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ContractService) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (contract.Contract, error) {
		return s.repo.Create(txCtx, c)
	})
	if err != nil {
		return contract.Contract{}, err
	}
	s.publisher.Publish(ContractCreatedEvent{ContractID: created.ID(), Number: created.Number()})
	return created, nil
}

// Totals sums contract amounts, optionally narrowed to one group. It pages
// through the repository rather than pushing arithmetic into SQL; volumes
// here are administrative, not analytical.
func (s *ContractService) Totals(ctx context.Context, groupID *uuid.UUID) (RetentionTotals, error) {
	const pageSize = 500
	out := RetentionTotals{Total: decimal.Zero}
	for offset := 0; ; offset += pageSize {
		page, err := s.repo.GetPaginated(ctx, &contract.FindParams{
			Limit:   pageSize,
			Offset:  offset,
			GroupID: groupID,
		})
		if err != nil {
			return RetentionTotals{}, err
		}
		for _, c := range page {
			out.Contracts++
			out.Total = out.Total.Add(c.Amount())
		}
		if len(page) < pageSize {
			return out, nil
		}
	}
}
