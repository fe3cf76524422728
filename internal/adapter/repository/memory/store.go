// Package memory is an in-process storage backend for local runs and tests.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/splitflow-backend/internal/domain"
)

// SplitBillStore implements domain.SplitBillRepository
type SplitBillStore struct {
	mu    sync.RWMutex
	bills map[uuid.UUID]*domain.SplitBill
}

func NewSplitBillStore() *SplitBillStore {
	return &SplitBillStore{bills: make(map[uuid.UUID]*domain.SplitBill)}
}

// Create stores a copy of bill
func (s *SplitBillStore) Create(_ context.Context, bill *domain.SplitBill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bills[bill.ID]; exists {
		return fmt.Errorf("split bill %s already exists", bill.ID)
	}
	s.bills[bill.ID] = copyBill(bill)
	return nil
}

func (s *SplitBillStore) GetByID(_ context.Context, id uuid.UUID) (*domain.SplitBill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bill, ok := s.bills[id]
	if !ok {
		return nil, fmt.Errorf("split bill %s: %w", id, domain.ErrNotFound)
	}
	return copyBill(bill), nil
}

// List returns bills newest first; ties are ordered by ID
func (s *SplitBillStore) List(_ context.Context, limit, offset int, groupID *uuid.UUID) ([]*domain.SplitBill, error) {
	s.mu.RLock()
	matched := s.filter(groupID)
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if offset >= len(matched) {
		return []*domain.SplitBill{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (s *SplitBillStore) Count(_ context.Context, groupID *uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filter(groupID)), nil
}

// filter copies the bills in groupID (all bills when nil); callers hold the lock
func (s *SplitBillStore) filter(groupID *uuid.UUID) []*domain.SplitBill {
	out := make([]*domain.SplitBill, 0, len(s.bills))
	for _, bill := range s.bills {
		if groupID != nil && (bill.GroupID == nil || *bill.GroupID != *groupID) {
			continue
		}
		out = append(out, copyBill(bill))
	}
	return out
}

func copyBill(bill *domain.SplitBill) *domain.SplitBill {
	c := *bill
	c.Participants = append([]domain.SplitParticipant(nil), bill.Participants...)
	if bill.CategoryID != nil {
		id := *bill.CategoryID
		c.CategoryID = &id
	}
	if bill.GroupID != nil {
		id := *bill.GroupID
		c.GroupID = &id
	}
	return &c
}

// CategoryStore implements domain.CategoryRepository
type CategoryStore struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]domain.Category
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{categories: make(map[uuid.UUID]domain.Category)}
}

func (s *CategoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return &category, nil
}

func (s *CategoryStore) Create(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[category.ID]; exists {
		return fmt.Errorf("category %s already exists", category.ID)
	}
	s.categories[category.ID] = *category
	return nil
}

// List returns every category ordered by name
func (s *CategoryStore) List(_ context.Context) ([]*domain.Category, error) {
	s.mu.RLock()
	out := make([]*domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		c := category
		out = append(out, &c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
