package splitbill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/splitflow-backend/internal/domain"
	"github.com/simaogato/splitflow-backend/internal/usecase/splitcalc"
	"github.com/simaogato/splitflow-backend/internal/usecase/wizard"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrUnknownCategory = errors.New("category does not exist")
	ErrInvalidPage     = errors.New("limit and offset must not be negative")
)

// CreateSplitBillInput represents the input for creating a split bill
type CreateSplitBillInput struct {
	Details wizard.Details
	PayerID uuid.UUID
	Config  domain.SplitConfig
}

// ListResult is one page of split bills plus the total number available
type ListResult struct {
	Bills []*domain.SplitBill
	Total int
}

// SplitBillService handles split bill creation and retrieval
type SplitBillService struct {
	SplitBillRepo domain.SplitBillRepository
	CategoryRepo  domain.CategoryRepository
	Now           func() time.Time
}

// NewSplitBillService creates a new SplitBillService instance
func NewSplitBillService(splitBillRepo domain.SplitBillRepository, categoryRepo domain.CategoryRepository) *SplitBillService {
	return &SplitBillService{
		SplitBillRepo: splitBillRepo,
		CategoryRepo:  categoryRepo,
		Now:           time.Now,
	}
}

// Preview computes the allocation for a configuration without persisting anything.
// The result carries the validation outcome; an invalid configuration is not an error.
func (s *SplitBillService) Preview(total domain.Money, cfg domain.SplitConfig) splitcalc.Preview {
	return splitcalc.PreviewSplit(total, cfg)
}

// CreateSplitBill computes, validates and stores a new split bill
// Logic:
//  1. Verify the category exists (when one is given)
//  2. Calculate the allocation; an invalid configuration fails with splitcalc.ErrInvalidSplit
//  3. Validate the bill (sum invariant, payer among participants)
//  4. Save using SplitBillRepo.Create
func (s *SplitBillService) CreateSplitBill(ctx context.Context, input CreateSplitBillInput) (*domain.SplitBill, error) {
	if input.Details.CategoryID != nil {
		if _, err := s.CategoryRepo.GetByID(ctx, *input.Details.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, input.Details.CategoryID)
			}
			return nil, fmt.Errorf("failed to load category: %w", err)
		}
	}

	bill, err := wizard.BuildSplitBill(input.Details, input.PayerID, input.Config, s.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.SplitBillRepo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save split bill: %w", err)
	}

	slog.InfoContext(ctx, "split bill created",
		"id", bill.ID,
		"type", bill.SplitType,
		"total", bill.TotalAmount.String(),
		"participants", len(bill.Participants),
	)

	return bill, nil
}

// SubmitDraft stores a draft that has reached the review step
func (s *SplitBillService) SubmitDraft(ctx context.Context, draft wizard.Draft) (*domain.SplitBill, error) {
	if draft.Step() != wizard.StepReview {
		return nil, wizard.ErrNotReviewed
	}
	return s.CreateSplitBill(ctx, CreateSplitBillInput{
		Details: draft.Details(),
		PayerID: draft.PayerID(),
		Config:  draft.Config(),
	})
}

// GetSplitBill retrieves a stored split bill by ID
func (s *SplitBillService) GetSplitBill(ctx context.Context, id uuid.UUID) (*domain.SplitBill, error) {
	bill, err := s.SplitBillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// ListSplitBills returns a page of split bills, newest first.
// A zero limit selects DefaultPageSize; limits above MaxPageSize are clamped.
func (s *SplitBillService) ListSplitBills(ctx context.Context, limit, offset int, groupID *uuid.UUID) (*ListResult, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidPage
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	bills, err := s.SplitBillRepo.List(ctx, limit, offset, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list split bills: %w", err)
	}

	total, err := s.SplitBillRepo.Count(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count split bills: %w", err)
	}

	return &ListResult{Bills: bills, Total: total}, nil
}

// ListCategories returns every category ordered by name
func (s *SplitBillService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
