package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func TestSystemSeeder_Seed_CategoriesMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	seeder := NewSystemSeeder(mockRepo)

	for _, def := range DefaultCategories {
		mockRepo.On("GetByID", ctx, def.ID).Return(nil, domain.ErrNotFound)
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(category *domain.Category) bool {
		return category.ID == CategoryFood && category.Name == "Food & Drink"
	})).Return(nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(category *domain.Category) bool {
		return category.ID != CategoryFood
	})).Return(nil)

	// Execute
	err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Create", len(DefaultCategories))
}

func TestSystemSeeder_Seed_CategoriesExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	seeder := NewSystemSeeder(mockRepo)

	for _, def := range DefaultCategories {
		existing := def
		mockRepo.On("GetByID", ctx, def.ID).Return(&existing, nil)
	}

	// Execute
	err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	// Verify Create was NOT called (categories already exist)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestSystemSeeder_Seed_PartialCategoriesExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	seeder := NewSystemSeeder(mockRepo)

	// Only Other is missing
	for _, def := range DefaultCategories {
		if def.ID == CategoryOther {
			mockRepo.On("GetByID", ctx, def.ID).Return(nil, domain.ErrNotFound)
			continue
		}
		existing := def
		mockRepo.On("GetByID", ctx, def.ID).Return(&existing, nil)
	}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(category *domain.Category) bool {
		return category.ID == CategoryOther
	})).Return(nil)

	// Execute
	err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSystemSeeder_Seed_LookupFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	seeder := NewSystemSeeder(mockRepo)

	mockRepo.On("GetByID", ctx, CategoryFood).Return(nil, errors.New("connection refused"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertNotCalled(t, "Create")
}
