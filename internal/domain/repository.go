package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is wrapped by repositories when a lookup matches nothing
	ErrNotFound = errors.New("not found")

	// ErrInvalidSplitBill is wrapped around SplitBill.Validate failures
	ErrInvalidSplitBill = errors.New("invalid split bill")
)

// SplitBillRepository defines the interface for split bill persistence operations
type SplitBillRepository interface {
	// Create persists a new split bill with all its participant allocations
	Create(ctx context.Context, bill *SplitBill) error

	// GetByID retrieves a split bill by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*SplitBill, error)

	// List retrieves a paginated list of split bills, newest first
	// If groupID is nil, returns bills from every group
	List(ctx context.Context, limit, offset int, groupID *uuid.UUID) ([]*SplitBill, error)

	// Count returns the number of split bills
	// If groupID is provided, only bills of that group are counted
	Count(ctx context.Context, groupID *uuid.UUID) (int, error)
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// List retrieves all categories ordered by name
	List(ctx context.Context) ([]*Category, error)
}
