package settleup

import (
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

// position is a participant's outstanding amount while matching
type position struct {
	id     uuid.UUID
	amount domain.Money
}

// GenerateSettlements suggests the payments that clear every balance.
//
// Logic:
//   - Split members into debtors (net < 0) and creditors (net > 0); zero nets are settled
//   - Order both sides by amount descending, ties broken by participant ID
//   - Greedily match the largest debtor with the largest creditor for min(owed, due)
//   - Advance whichever side reaches zero
//
// The balances must net to zero across the group; any imbalance is left unmatched.
func GenerateSettlements(balances []domain.MemberBalance) []domain.SettlementSuggestion {
	debtors := make([]position, 0)
	creditors := make([]position, 0)

	for _, b := range balances {
		net := b.Net()
		if net < 0 {
			debtors = append(debtors, position{id: b.ParticipantID, amount: -net})
		} else if net > 0 {
			creditors = append(creditors, position{id: b.ParticipantID, amount: net})
		}
	}

	sortPositions(debtors)
	sortPositions(creditors)

	suggestions := make([]domain.SettlementSuggestion, 0)
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		suggestions = append(suggestions, domain.SettlementSuggestion{
			FromParticipantID: debtors[i].id,
			ToParticipantID:   creditors[j].id,
			Amount:            amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return suggestions
}

func sortPositions(positions []position) {
	sort.Slice(positions, func(a, b int) bool {
		if positions[a].amount != positions[b].amount {
			return positions[a].amount > positions[b].amount
		}
		return positions[a].id.String() < positions[b].id.String()
	})
}
