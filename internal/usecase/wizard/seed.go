package wizard

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitcalc"
)

// fullPercentage is 100% expressed as hundredths of a percent, so an equal split
// of it yields two-decimal percentages that add up to exactly 100
const fullPercentage domain.Money = 10000

// seedConfig builds the default configuration for splitType:
// an even starting point for exact amounts and percentages, one share each,
// and zero adjustments
func seedConfig(splitType domain.SplitType, total domain.Money, participantIDs []uuid.UUID) domain.SplitConfig {
	cfg := emptyConfig(splitType, participantIDs)
	if len(participantIDs) == 0 {
		return cfg
	}

	switch splitType {
	case domain.SplitTypeExact:
		if even, err := splitcalc.CalculateEqualSplit(total, participantIDs); err == nil {
			for _, p := range even {
				cfg.Amounts[p.ParticipantID] = p.Amount
			}
		}
	case domain.SplitTypePercentage:
		if even, err := splitcalc.CalculateEqualSplit(fullPercentage, participantIDs); err == nil {
			for _, p := range even {
				cfg.Percentages[p.ParticipantID] = p.Amount.Decimal()
			}
		}
	case domain.SplitTypeShares:
		for _, id := range participantIDs {
			cfg.Shares[id] = 1
		}
	case domain.SplitTypeAdjustment:
		for _, id := range participantIDs {
			cfg.Adjustments[id] = 0
		}
	}
	return cfg
}

func emptyConfig(splitType domain.SplitType, participantIDs []uuid.UUID) domain.SplitConfig {
	return domain.SplitConfig{
		Type:           splitType,
		ParticipantIDs: append([]uuid.UUID(nil), participantIDs...),
		Amounts:        make(map[uuid.UUID]domain.Money, len(participantIDs)),
		Percentages:    make(map[uuid.UUID]decimal.Decimal, len(participantIDs)),
		Shares:         make(map[uuid.UUID]int, len(participantIDs)),
		Adjustments:    make(map[uuid.UUID]domain.Money, len(participantIDs)),
	}
}

func cloneConfig(cfg domain.SplitConfig) domain.SplitConfig {
	out := emptyConfig(cfg.Type, cfg.ParticipantIDs)
	for k, v := range cfg.Amounts {
		out.Amounts[k] = v
	}
	for k, v := range cfg.Percentages {
		out.Percentages[k] = v
	}
	for k, v := range cfg.Shares {
		out.Shares[k] = v
	}
	for k, v := range cfg.Adjustments {
		out.Adjustments[k] = v
	}
	return out
}
