package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

// Fixed UUIDs for the default categories so clients can reference them across installs
var (
	CategoryFood          = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	CategoryTransport     = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	CategoryAccommodation = uuid.MustParse("00000000-0000-0000-0000-000000000103")
	CategoryEntertainment = uuid.MustParse("00000000-0000-0000-0000-000000000104")
	CategoryUtilities     = uuid.MustParse("00000000-0000-0000-0000-000000000105")
	CategoryGroceries     = uuid.MustParse("00000000-0000-0000-0000-000000000106")
	CategoryOther         = uuid.MustParse("00000000-0000-0000-0000-000000000107")
)

// DefaultCategories is the category set every installation starts with
var DefaultCategories = []domain.Category{
	{ID: CategoryFood, Name: "Food & Drink"},
	{ID: CategoryTransport, Name: "Transport"},
	{ID: CategoryAccommodation, Name: "Accommodation"},
	{ID: CategoryEntertainment, Name: "Entertainment"},
	{ID: CategoryUtilities, Name: "Utilities"},
	{ID: CategoryGroceries, Name: "Groceries"},
	{ID: CategoryOther, Name: "Other"},
}

// SystemSeeder handles seeding of the default categories
type SystemSeeder struct {
	repo domain.CategoryRepository
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(repo domain.CategoryRepository) *SystemSeeder {
	return &SystemSeeder{
		repo: repo,
	}
}

// Seed ensures every default category exists. It is safe to run on every start.
func (s *SystemSeeder) Seed(ctx context.Context) error {
	for _, def := range DefaultCategories {
		_, err := s.repo.GetByID(ctx, def.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up category %q: %w", def.Name, err)
		}

		category := def
		if err := category.Validate(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, &category); err != nil {
			return fmt.Errorf("failed to create category %q: %w", def.Name, err)
		}
	}

	return nil
}
