package splitcalc

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

// PercentageTolerance absorbs input noise when checking that percentages reach 100
var PercentageTolerance = decimal.RequireFromString("0.01")

// ValidationResult is the outcome of ValidateSplit.
// Error is a human-readable message and is empty when IsValid is true.
type ValidationResult struct {
	IsValid bool
	Error   string
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{IsValid: false, Error: fmt.Sprintf(format, args...)}
}

// ValidateSplit checks whether cfg is acceptable for totalAmount.
// The allocation functions never call it; callers must, before trusting a result.
func ValidateSplit(totalAmount domain.Money, cfg domain.SplitConfig) ValidationResult {
	if len(cfg.ParticipantIDs) == 0 {
		return invalid("at least one participant is required")
	}

	seen := make(map[uuid.UUID]bool, len(cfg.ParticipantIDs))
	for _, id := range cfg.ParticipantIDs {
		if seen[id] {
			return invalid("participant %s appears more than once", id)
		}
		seen[id] = true
	}

	if totalAmount < 0 {
		return invalid("bill total %s cannot be negative", totalAmount)
	}

	switch cfg.Type {
	case domain.SplitTypeEqual:
		return valid()
	case domain.SplitTypeExact:
		return validateExact(totalAmount, cfg)
	case domain.SplitTypePercentage:
		return validatePercentages(cfg)
	case domain.SplitTypeShares:
		return validateShares(cfg)
	case domain.SplitTypeAdjustment:
		return validateAdjustments(totalAmount, cfg)
	default:
		return invalid("unknown split type %q", cfg.Type)
	}
}

func validateExact(totalAmount domain.Money, cfg domain.SplitConfig) ValidationResult {
	var sum domain.Money
	for _, p := range CalculateExactAmounts(cfg.ParticipantIDs, cfg.Amounts) {
		if p.Amount < 0 {
			return invalid("amount for participant %s cannot be negative", p.ParticipantID)
		}
		sum += p.Amount
	}

	if sum != totalAmount {
		return invalid("amounts add up to %s but the bill total is %s", sum, totalAmount)
	}
	return valid()
}

func validatePercentages(cfg domain.SplitConfig) ValidationResult {
	sum := decimal.Zero
	for _, id := range cfg.ParticipantIDs {
		pct, ok := cfg.Percentages[id]
		if !ok {
			continue
		}
		if pct.LessThan(decimal.Zero) || pct.GreaterThan(hundred) {
			return invalid("percentage for participant %s must be between 0 and 100", id)
		}
		sum = sum.Add(pct)
	}

	if sum.Sub(hundred).Abs().GreaterThan(PercentageTolerance) {
		return invalid("percentages add up to %s%% but must add up to 100%%", sum.String())
	}
	return valid()
}

func validateShares(cfg domain.SplitConfig) ValidationResult {
	for _, id := range cfg.ParticipantIDs {
		if cfg.Shares[id] < 1 {
			return invalid("participant %s must have at least 1 share", id)
		}
	}
	return valid()
}

func validateAdjustments(totalAmount domain.Money, cfg domain.SplitConfig) ValidationResult {
	participants, err := CalculateAdjustments(totalAmount, cfg.ParticipantIDs, cfg.Adjustments)
	if err != nil {
		return invalid("%s", err.Error())
	}

	var sum domain.Money
	for _, p := range participants {
		sum += p.Amount
	}

	if sum != totalAmount {
		return invalid("adjusted amounts add up to %s but the bill total is %s (adjustments must net to 0.00)", sum, totalAmount)
	}
	return valid()
}
