package settleup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	carol = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	dave  = uuid.MustParse("00000000-0000-0000-0000-00000000000d")
)

func TestGenerateSettlements_SinglePayer(t *testing.T) {
	// Alice paid 30.00 split three ways
	balances := []domain.MemberBalance{
		{ParticipantID: alice, TotalPaid: 3000, TotalOwed: 1000},
		{ParticipantID: bob, TotalOwed: 1000},
		{ParticipantID: carol, TotalOwed: 1000},
	}

	suggestions := GenerateSettlements(balances)

	require.Len(t, suggestions, 2)
	assert.Equal(t, domain.SettlementSuggestion{FromParticipantID: bob, ToParticipantID: alice, Amount: 1000}, suggestions[0])
	assert.Equal(t, domain.SettlementSuggestion{FromParticipantID: carol, ToParticipantID: alice, Amount: 1000}, suggestions[1])
}

func TestGenerateSettlements_LargestDebtsMatchedFirst(t *testing.T) {
	balances := []domain.MemberBalance{
		{ParticipantID: alice, TotalPaid: 500},
		{ParticipantID: bob, TotalPaid: 1500},
		{ParticipantID: carol, TotalOwed: 1200},
		{ParticipantID: dave, TotalOwed: 800},
	}

	suggestions := GenerateSettlements(balances)

	require.Len(t, suggestions, 3)
	assert.Equal(t, domain.SettlementSuggestion{FromParticipantID: carol, ToParticipantID: bob, Amount: 1200}, suggestions[0])
	assert.Equal(t, domain.SettlementSuggestion{FromParticipantID: dave, ToParticipantID: bob, Amount: 300}, suggestions[1])
	assert.Equal(t, domain.SettlementSuggestion{FromParticipantID: dave, ToParticipantID: alice, Amount: 500}, suggestions[2])
}

func TestGenerateSettlements_SettledGroup(t *testing.T) {
	balances := []domain.MemberBalance{
		{ParticipantID: alice, TotalPaid: 1000, TotalOwed: 1000},
		{ParticipantID: bob},
	}

	suggestions := GenerateSettlements(balances)

	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestGenerateSettlements_ClearsEveryBalance(t *testing.T) {
	balances := []domain.MemberBalance{
		{ParticipantID: alice, TotalPaid: 10000, TotalOwed: 2501},
		{ParticipantID: bob, TotalPaid: 333, TotalOwed: 2500},
		{ParticipantID: carol, TotalPaid: 0, TotalOwed: 2833},
		{ParticipantID: dave, TotalPaid: 0, TotalOwed: 2499},
	}

	suggestions := GenerateSettlements(balances)

	net := make(map[uuid.UUID]domain.Money)
	for _, b := range balances {
		net[b.ParticipantID] = b.Net()
	}
	for _, s := range suggestions {
		assert.Positive(t, int64(s.Amount))
		net[s.FromParticipantID] += s.Amount
		net[s.ToParticipantID] -= s.Amount
	}
	for id, remaining := range net {
		assert.Equal(t, domain.Money(0), remaining, "participant %s", id)
	}
}

func TestGenerateSettlements_InputOrderDoesNotMatter(t *testing.T) {
	a := []domain.MemberBalance{
		{ParticipantID: alice, TotalPaid: 1000},
		{ParticipantID: bob, TotalOwed: 500},
		{ParticipantID: carol, TotalOwed: 500},
	}
	b := []domain.MemberBalance{a[2], a[0], a[1]}

	assert.Equal(t, GenerateSettlements(a), GenerateSettlements(b))
}
