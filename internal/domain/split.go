package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitType represents the strategy used to divide a bill among participants
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypeExact      SplitType = "EXACT"
	SplitTypePercentage SplitType = "PERCENTAGE"
	SplitTypeShares     SplitType = "SHARES"
	SplitTypeAdjustment SplitType = "ADJUSTMENT"
)

// SplitTypes lists every supported strategy in display order
var SplitTypes = []SplitType{
	SplitTypeEqual,
	SplitTypeExact,
	SplitTypePercentage,
	SplitTypeShares,
	SplitTypeAdjustment,
}

// IsValid reports whether t is one of the supported strategies
func (t SplitType) IsValid() bool {
	for _, known := range SplitTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParticipantRole marks whether a participant paid the bill or owes a share of it
type ParticipantRole string

const (
	RolePayer ParticipantRole = "PAYER"
	RoleOwer  ParticipantRole = "OWER"
)

// Participant is an opaque identity taking part in a split
type Participant struct {
	ID   uuid.UUID
	Role ParticipantRole
}

// SplitParticipant is one computed allocation: who owes how much of the total
type SplitParticipant struct {
	ParticipantID uuid.UUID
	Amount        Money
}

// SplitConfig is the per-strategy configuration collected by the wizard.
// ParticipantIDs fixes the order used for remainder distribution; the maps hold
// whichever per-participant values the selected strategy needs.
type SplitConfig struct {
	Type           SplitType
	ParticipantIDs []uuid.UUID
	Amounts        map[uuid.UUID]Money           // EXACT
	Percentages    map[uuid.UUID]decimal.Decimal // PERCENTAGE (0-100)
	Shares         map[uuid.UUID]int             // SHARES (>= 1)
	Adjustments    map[uuid.UUID]Money           // ADJUSTMENT (signed)
}

// SplitBill is a finalized, immutable shared expense
type SplitBill struct {
	ID           uuid.UUID
	Title        string
	CategoryID   *uuid.UUID
	Date         time.Time
	Notes        string
	GroupID      *uuid.UUID
	PayerID      uuid.UUID
	TotalAmount  Money
	SplitType    SplitType
	Participants []SplitParticipant
	CreatedAt    time.Time
}

// Validate ensures the split bill adheres to domain rules
// CRITICAL: the sum of all participant amounts must equal the total exactly
func (b *SplitBill) Validate() error {
	if b.Title == "" {
		return errors.New("split bill title cannot be empty")
	}

	if b.TotalAmount < 0 {
		return errors.New("split bill total cannot be negative")
	}

	if !b.SplitType.IsValid() {
		return errors.New("split bill type must be EQUAL, EXACT, PERCENTAGE, SHARES, or ADJUSTMENT")
	}

	if len(b.Participants) == 0 {
		return errors.New("split bill must have at least one participant")
	}

	seen := make(map[uuid.UUID]bool, len(b.Participants))
	payerFound := false
	var sum Money
	for _, p := range b.Participants {
		if seen[p.ParticipantID] {
			return errors.New("split bill participants must be unique")
		}
		seen[p.ParticipantID] = true
		if p.ParticipantID == b.PayerID {
			payerFound = true
		}
		sum += p.Amount
	}

	if !payerFound {
		return errors.New("split bill payer must be one of the participants")
	}

	if sum != b.TotalAmount {
		return errors.New("sum of participant amounts must equal split bill total")
	}

	return nil
}

// Roles returns every participant tagged with its role on this bill
func (b *SplitBill) Roles() []Participant {
	roles := make([]Participant, 0, len(b.Participants))
	for _, p := range b.Participants {
		role := RoleOwer
		if p.ParticipantID == b.PayerID {
			role = RolePayer
		}
		roles = append(roles, Participant{ID: p.ParticipantID, Role: role})
	}
	return roles
}
