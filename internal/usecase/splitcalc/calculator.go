// Package splitcalc divides a bill total among participants.
//
// Every strategy works on integer cents. Whenever a strategy leaves cents over
// (integer division, per-participant rounding) the leftover is handed out one cent
// at a time in participant input order by distributeRemainder, so the sum of the
// allocations always equals the bill total for a valid configuration.
//
// The Calculate* functions are raw allocators and never validate; ValidateSplit
// is the advisory check the wizard runs on every edit. Calculate combines both and
// is the only entry point that hands out a Split.
package splitcalc

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

var (
	ErrNoParticipants   = errors.New("split must have at least one participant")
	ErrNoShares         = errors.New("total shares must be positive")
	ErrUnknownSplitType = errors.New("unknown split type")
	ErrInvalidSplit     = errors.New("invalid split configuration")
)

var hundred = decimal.NewFromInt(100)

// Split is an allocation that passed validation and reconciles to the total
type Split struct {
	Type         domain.SplitType
	TotalAmount  domain.Money
	Participants []domain.SplitParticipant
}

// CalculateEqualSplit divides totalAmount evenly across participantIDs.
// Each participant gets floor(total / n); the leftover cents (at most n-1) go to
// the earliest participants in input order.
func CalculateEqualSplit(totalAmount domain.Money, participantIDs []uuid.UUID) ([]domain.SplitParticipant, error) {
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	base, err := EqualAmountPerPerson(totalAmount, len(participantIDs))
	if err != nil {
		return nil, err
	}

	amounts := make([]domain.Money, len(participantIDs))
	for i := range amounts {
		amounts[i] = base
	}
	distributeRemainder(amounts, totalAmount-base*domain.Money(len(participantIDs)))

	return zip(participantIDs, amounts), nil
}

// CalculateExactAmounts returns exactly the amount configured for each participant.
// Participants without an entry are left out of the result. Nothing is
// redistributed: whether the amounts reach the total is for ValidateSplit to say.
func CalculateExactAmounts(participantIDs []uuid.UUID, amounts map[uuid.UUID]domain.Money) []domain.SplitParticipant {
	result := make([]domain.SplitParticipant, 0, len(participantIDs))
	for _, id := range participantIDs {
		amount, ok := amounts[id]
		if !ok {
			continue
		}
		result = append(result, domain.SplitParticipant{ParticipantID: id, Amount: amount})
	}
	return result
}

// CalculatePercentages converts each percentage into total * pct / 100, rounded
// half away from zero to the cent, then reconciles the rounding drift cent by cent
// in input order. Participants without a percentage are left out.
func CalculatePercentages(totalAmount domain.Money, participantIDs []uuid.UUID, percentages map[uuid.UUID]decimal.Decimal) ([]domain.SplitParticipant, error) {
	ids := make([]uuid.UUID, 0, len(participantIDs))
	amounts := make([]domain.Money, 0, len(participantIDs))
	var allocated domain.Money

	for _, id := range participantIDs {
		pct, ok := percentages[id]
		if !ok {
			continue
		}
		amount := RoundToCents(totalAmount.Decimal().Mul(pct).Div(hundred))
		ids = append(ids, id)
		amounts = append(amounts, amount)
		allocated += amount
	}

	if len(ids) == 0 {
		return nil, ErrNoParticipants
	}

	distributeRemainder(amounts, totalAmount-allocated)
	return zip(ids, amounts), nil
}

// CalculateShares divides totalAmount proportionally to integer share weights.
// Each raw amount is floor(total * share / sum(shares)) and the leftover cents go
// to the earliest participants. Participants without a share entry are left out.
func CalculateShares(totalAmount domain.Money, participantIDs []uuid.UUID, shares map[uuid.UUID]int) ([]domain.SplitParticipant, error) {
	ids := make([]uuid.UUID, 0, len(participantIDs))
	weights := make([]decimal.Decimal, 0, len(participantIDs))
	totalShares := decimal.Zero

	for _, id := range participantIDs {
		share, ok := shares[id]
		if !ok {
			continue
		}
		w := decimal.NewFromInt(int64(share))
		ids = append(ids, id)
		weights = append(weights, w)
		totalShares = totalShares.Add(w)
	}

	if len(ids) == 0 {
		return nil, ErrNoParticipants
	}
	if !totalShares.IsPositive() {
		return nil, ErrNoShares
	}

	// total * share can exceed int64, so the product is taken in decimal
	cents := decimal.NewFromInt(totalAmount.Cents())
	amounts := make([]domain.Money, len(ids))
	var allocated domain.Money
	for i, w := range weights {
		q, r := cents.Mul(w).QuoRem(totalShares, 0)
		if r.IsNegative() {
			q = q.Sub(decimal.NewFromInt(1))
		}
		amounts[i] = domain.Money(q.IntPart())
		allocated += amounts[i]
	}

	distributeRemainder(amounts, totalAmount-allocated)
	return zip(ids, amounts), nil
}

// CalculateAdjustments starts from the equal split and adds each participant's
// signed adjustment (zero when absent). The result only reconciles to the total
// when the adjustments add up to zero; that is enforced by ValidateSplit, never
// corrected here, because an adjustment is deliberate.
func CalculateAdjustments(totalAmount domain.Money, participantIDs []uuid.UUID, adjustments map[uuid.UUID]domain.Money) ([]domain.SplitParticipant, error) {
	base, err := CalculateEqualSplit(totalAmount, participantIDs)
	if err != nil {
		return nil, err
	}

	for i := range base {
		base[i].Amount += adjustments[base[i].ParticipantID]
	}
	return base, nil
}

// EqualAmountPerPerson returns totalAmount / participantCount floored to the cent.
// The wizard uses it to seed per-participant defaults after a strategy switch.
func EqualAmountPerPerson(totalAmount domain.Money, participantCount int) (domain.Money, error) {
	if participantCount <= 0 {
		return 0, ErrNoParticipants
	}
	return domain.Money(floorDiv(totalAmount.Cents(), int64(participantCount))), nil
}

// RoundToCents rounds a major-unit value to the cent, half away from zero.
// It is the only rounding rule used when money is derived from a ratio.
func RoundToCents(value decimal.Decimal) domain.Money {
	return domain.MoneyFromDecimal(value)
}

// Calculate validates cfg against totalAmount and, when valid, dispatches to the
// configured strategy. The returned Split always sums to totalAmount.
func Calculate(totalAmount domain.Money, cfg domain.SplitConfig) (*Split, error) {
	if res := ValidateSplit(totalAmount, cfg); !res.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSplit, res.Error)
	}

	participants, err := allocate(totalAmount, cfg)
	if err != nil {
		return nil, err
	}

	// Safety check: no penny lost
	var allocated domain.Money
	for _, p := range participants {
		allocated += p.Amount
	}
	if allocated != totalAmount {
		return nil, fmt.Errorf("total allocation %s does not equal total amount %s", allocated, totalAmount)
	}

	return &Split{
		Type:         cfg.Type,
		TotalAmount:  totalAmount,
		Participants: participants,
	}, nil
}

// allocate runs the strategy selected by cfg.Type without validating
func allocate(totalAmount domain.Money, cfg domain.SplitConfig) ([]domain.SplitParticipant, error) {
	switch cfg.Type {
	case domain.SplitTypeEqual:
		return CalculateEqualSplit(totalAmount, cfg.ParticipantIDs)
	case domain.SplitTypeExact:
		return CalculateExactAmounts(cfg.ParticipantIDs, cfg.Amounts), nil
	case domain.SplitTypePercentage:
		return CalculatePercentages(totalAmount, cfg.ParticipantIDs, cfg.Percentages)
	case domain.SplitTypeShares:
		return CalculateShares(totalAmount, cfg.ParticipantIDs, cfg.Shares)
	case domain.SplitTypeAdjustment:
		return CalculateAdjustments(totalAmount, cfg.ParticipantIDs, cfg.Adjustments)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitType, cfg.Type)
	}
}

// distributeRemainder hands out remainder one cent at a time in slice order,
// wrapping around if the remainder exceeds the number of slots.
// A negative remainder takes cents back in the same order, but only from slots
// that are still above zero, so no allocation is pushed below zero.
func distributeRemainder(amounts []domain.Money, remainder domain.Money) {
	if len(amounts) == 0 {
		return
	}

	if remainder >= 0 {
		n := domain.Money(len(amounts))
		whole := remainder / n
		for i := range amounts {
			amounts[i] += whole
		}
		remainder -= whole * n
		for i := 0; remainder > 0; i++ {
			amounts[i]++
			remainder--
		}
		return
	}

	for remainder < 0 {
		positive := make([]int, 0, len(amounts))
		smallest := domain.Money(0)
		for i, a := range amounts {
			if a <= 0 {
				continue
			}
			if len(positive) == 0 || a < smallest {
				smallest = a
			}
			positive = append(positive, i)
		}
		if len(positive) == 0 {
			return
		}

		n := domain.Money(len(positive))
		if whole := min(-remainder/n, smallest); whole > 0 {
			for _, i := range positive {
				amounts[i] -= whole
			}
			remainder += whole * n
			continue
		}

		for _, i := range positive {
			if remainder == 0 {
				break
			}
			amounts[i]--
			remainder++
		}
	}
}

func zip(ids []uuid.UUID, amounts []domain.Money) []domain.SplitParticipant {
	result := make([]domain.SplitParticipant, len(ids))
	for i, id := range ids {
		result[i] = domain.SplitParticipant{ParticipantID: id, Amount: amounts[i]}
	}
	return result
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
