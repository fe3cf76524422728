package balance

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/settleup"
)

// pageSize is how many bills are read per repository call while aggregating
const pageSize = 100

// GroupBalances represents the aggregated position of every member of a group
type GroupBalances struct {
	Balances    []domain.MemberBalance
	Settlements []domain.SettlementSuggestion
	BillCount   int
}

// BalanceService handles balance aggregation over stored split bills
type BalanceService struct {
	SplitBillRepo domain.SplitBillRepository
}

// NewBalanceService creates a new BalanceService instance
func NewBalanceService(splitBillRepo domain.SplitBillRepository) *BalanceService {
	return &BalanceService{
		SplitBillRepo: splitBillRepo,
	}
}

// GetGroupBalances aggregates who paid and who owes across a group's split bills
// Logic:
//   - TotalPaid: the payer is credited each bill's full total
//   - TotalOwed: each participant is debited their allocated amount
//   - Net: TotalPaid - TotalOwed (sums to zero across the group)
//
// A nil groupID aggregates every stored bill. Each bill is counted once even if
// concurrent inserts make it reappear on a later page. Balances are ordered by net
// descending, then participant ID.
func (s *BalanceService) GetGroupBalances(ctx context.Context, groupID *uuid.UUID) (*GroupBalances, error) {
	balances := make(map[uuid.UUID]*domain.MemberBalance)
	member := func(id uuid.UUID) *domain.MemberBalance {
		b, ok := balances[id]
		if !ok {
			b = &domain.MemberBalance{ParticipantID: id}
			balances[id] = b
		}
		return b
	}

	// A bill created while paging shifts older bills onto the next page, so
	// bills already counted are skipped by ID.
	counted := make(map[uuid.UUID]bool)
	for offset := 0; ; offset += pageSize {
		bills, err := s.SplitBillRepo.List(ctx, pageSize, offset, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to list split bills: %w", err)
		}

		for _, bill := range bills {
			if counted[bill.ID] {
				continue
			}
			counted[bill.ID] = true

			member(bill.PayerID).TotalPaid += bill.TotalAmount
			for _, p := range bill.Participants {
				member(p.ParticipantID).TotalOwed += p.Amount
			}
		}

		if len(bills) < pageSize {
			break
		}
	}

	result := make([]domain.MemberBalance, 0, len(balances))
	for _, b := range balances {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Net() != result[j].Net() {
			return result[i].Net() > result[j].Net()
		}
		return result[i].ParticipantID.String() < result[j].ParticipantID.String()
	})

	return &GroupBalances{
		Balances:    result,
		Settlements: settleup.GenerateSettlements(result),
		BillCount:   len(counted),
	}, nil
}
