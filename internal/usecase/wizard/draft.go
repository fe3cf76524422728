// Package wizard models the multi-step split bill form as an immutable Draft.
//
// Every transform returns a new Draft; the receiver is never modified. Switching
// the split type (or changing the inputs its defaults derive from) discards the
// per-participant configuration and reseeds it, so invalid state never survives a
// strategy switch.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitcalc"
)

// Step identifies a page of the form
type Step int

const (
	StepDetails Step = iota
	StepPayer
	StepParticipants
	StepSplitType
	StepConfigure
	StepReview
)

var stepNames = map[Step]string{
	StepDetails:      "details",
	StepPayer:        "payer",
	StepParticipants: "participants",
	StepSplitType:    "split_type",
	StepConfigure:    "configure",
	StepReview:       "review",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrCannotAdvance = errors.New("cannot advance")
	ErrNotReviewed   = errors.New("split bill must be reviewed before submission")
)

// Details is the bill metadata collected on the first step
type Details struct {
	Title       string
	TotalAmount domain.Money
	CategoryID  *uuid.UUID
	Date        time.Time
	Notes       string
	GroupID     *uuid.UUID
}

// Draft is the full state of the form at one point in time
type Draft struct {
	step    Step
	details Details
	payerID uuid.UUID
	config  domain.SplitConfig
}

// New returns an empty draft on the details step with an equal split selected
func New() Draft {
	return Draft{
		step:   StepDetails,
		config: emptyConfig(domain.SplitTypeEqual, nil),
	}
}

func (d Draft) Step() Step {
	return d.step
}

func (d Draft) Details() Details {
	return d.details
}

func (d Draft) PayerID() uuid.UUID {
	return d.payerID
}

// Config returns a copy of the current split configuration
func (d Draft) Config() domain.SplitConfig {
	return cloneConfig(d.config)
}

// ParticipantIDs returns the selected participants in selection order
func (d Draft) ParticipantIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), d.config.ParticipantIDs...)
}

// WithDetails replaces the bill metadata. A new total reseeds exact amounts,
// the only defaults derived from the total; percentages, shares and
// adjustments keep their edits.
func (d Draft) WithDetails(details Details) Draft {
	next := d.clone()
	totalChanged := next.details.TotalAmount != details.TotalAmount
	next.details = details
	if totalChanged && next.config.Type == domain.SplitTypeExact {
		next.config = seedConfig(next.config.Type, details.TotalAmount, next.config.ParticipantIDs)
	}
	return next
}

// WithPayer selects who paid the bill
func (d Draft) WithPayer(payerID uuid.UUID) Draft {
	next := d.clone()
	next.payerID = payerID
	return next
}

// WithParticipants replaces the participant set, dropping duplicates while
// keeping first-seen order, and reseeds the configuration
func (d Draft) WithParticipants(ids []uuid.UUID) Draft {
	next := d.clone()
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	next.config = seedConfig(next.config.Type, next.details.TotalAmount, unique)
	return next
}

// WithSplitType switches strategy, discarding prior per-participant configuration
func (d Draft) WithSplitType(splitType domain.SplitType) Draft {
	next := d.clone()
	next.config = seedConfig(splitType, next.details.TotalAmount, next.config.ParticipantIDs)
	return next
}

// WithAmount sets one participant's exact amount
func (d Draft) WithAmount(id uuid.UUID, amount domain.Money) Draft {
	next := d.clone()
	next.config.Amounts[id] = amount
	return next
}

// WithPercentage sets one participant's percentage
func (d Draft) WithPercentage(id uuid.UUID, percentage decimal.Decimal) Draft {
	next := d.clone()
	next.config.Percentages[id] = percentage
	return next
}

// WithShare sets one participant's share weight
func (d Draft) WithShare(id uuid.UUID, shares int) Draft {
	next := d.clone()
	next.config.Shares[id] = shares
	return next
}

// WithAdjustment sets one participant's signed adjustment on top of the equal split
func (d Draft) WithAdjustment(id uuid.UUID, adjustment domain.Money) Draft {
	next := d.clone()
	next.config.Adjustments[id] = adjustment
	return next
}

// Preview recomputes the allocation and validation for the current configuration
func (d Draft) Preview() splitcalc.Preview {
	return splitcalc.PreviewSplit(d.details.TotalAmount, d.config)
}

// CanAdvance reports whether the current step is complete.
// When it is not, the returned message says why.
func (d Draft) CanAdvance() (bool, string) {
	switch d.step {
	case StepDetails:
		if d.details.Title == "" {
			return false, "title is required"
		}
		if d.details.TotalAmount <= 0 {
			return false, "total amount must be positive"
		}
	case StepPayer:
		if d.payerID == uuid.Nil {
			return false, "payer is required"
		}
	case StepParticipants:
		if len(d.config.ParticipantIDs) == 0 {
			return false, "at least one participant is required"
		}
		if !contains(d.config.ParticipantIDs, d.payerID) {
			return false, "payer must be one of the participants"
		}
	case StepSplitType:
		if !d.config.Type.IsValid() {
			return false, fmt.Sprintf("unknown split type %q", d.config.Type)
		}
	case StepConfigure:
		if res := d.Preview().Validation; !res.IsValid {
			return false, res.Error
		}
	}
	return true, ""
}

// Next moves to the following step when the current one is complete
func (d Draft) Next() (Draft, error) {
	if d.step == StepReview {
		return d, nil
	}
	if ok, msg := d.CanAdvance(); !ok {
		return d, fmt.Errorf("%w past %s: %s", ErrCannotAdvance, d.step, msg)
	}
	next := d.clone()
	next.step++
	return next, nil
}

// Back moves to the previous step; configuration is kept
func (d Draft) Back() Draft {
	next := d.clone()
	if next.step > StepDetails {
		next.step--
	}
	return next
}

// Submit finalizes the reviewed draft into an immutable split bill
func (d Draft) Submit(now time.Time) (*domain.SplitBill, error) {
	if d.step != StepReview {
		return nil, ErrNotReviewed
	}
	return BuildSplitBill(d.details, d.payerID, d.config, now)
}

// BuildSplitBill computes the validated allocation for cfg and wraps it with the
// bill metadata. A zero details.Date defaults to now.
func BuildSplitBill(details Details, payerID uuid.UUID, cfg domain.SplitConfig, now time.Time) (*domain.SplitBill, error) {
	split, err := splitcalc.Calculate(details.TotalAmount, cfg)
	if err != nil {
		return nil, err
	}

	date := details.Date
	if date.IsZero() {
		date = now
	}

	bill := &domain.SplitBill{
		ID:           uuid.New(),
		Title:        details.Title,
		CategoryID:   details.CategoryID,
		Date:         date,
		Notes:        details.Notes,
		GroupID:      details.GroupID,
		PayerID:      payerID,
		TotalAmount:  split.TotalAmount,
		SplitType:    split.Type,
		Participants: split.Participants,
		CreatedAt:    now,
	}

	if err := bill.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSplitBill, err)
	}
	return bill, nil
}

func (d Draft) clone() Draft {
	next := d
	next.config = cloneConfig(d.config)
	return next
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
