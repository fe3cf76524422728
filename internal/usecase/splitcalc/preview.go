package splitcalc

import "github.com/simaogato/splitflow-backend/internal/domain"

// Preview is the live result shown while a split is being configured.
// Participants may not reconcile to the total when Validation is not valid.
type Preview struct {
	Participants []domain.SplitParticipant
	Allocated    domain.Money
	Validation   ValidationResult
}

// PreviewSplit recomputes the allocation and re-runs validation for cfg.
// Unlike Calculate it returns whatever the strategy produced, valid or not.
func PreviewSplit(totalAmount domain.Money, cfg domain.SplitConfig) Preview {
	preview := Preview{Validation: ValidateSplit(totalAmount, cfg)}

	participants, err := allocate(totalAmount, cfg)
	if err != nil {
		if preview.Validation.IsValid {
			preview.Validation = invalid("%s", err.Error())
		}
		return preview
	}

	preview.Participants = participants
	for _, p := range participants {
		preview.Allocated += p.Amount
	}
	return preview
}
