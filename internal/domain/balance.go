package domain

import "github.com/google/uuid"

// MemberBalance is one participant's position across a set of split bills
type MemberBalance struct {
	ParticipantID uuid.UUID
	TotalPaid     Money
	TotalOwed     Money
}

// Net is positive when the participant is owed money, negative when they owe
func (b MemberBalance) Net() Money {
	return b.TotalPaid - b.TotalOwed
}

// SettlementSuggestion is a single payment that reduces outstanding debt
type SettlementSuggestion struct {
	FromParticipantID uuid.UUID
	ToParticipantID   uuid.UUID
	Amount            Money
}
