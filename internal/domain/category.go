package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Category labels a split bill (e.g. "Food", "Travel")
type Category struct {
	ID   uuid.UUID
	Name string
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return errors.New("category ID cannot be nil")
	}
	if c.Name == "" {
		return errors.New("category name cannot be empty")
	}
	return nil
}
