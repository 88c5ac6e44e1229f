// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Direction classifies a ledger movement as income or expense.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// CategoryDirection restricts which transaction directions a category accepts.
type CategoryDirection string

const (
	CategoryDirectionIncome  CategoryDirection = "income"
	CategoryDirectionExpense CategoryDirection = "expense"
	CategoryDirectionAny     CategoryDirection = "any"
)

// Category represents a user-scoped transaction label.
// Quick categories are created implicitly when the user types free text
// instead of pressing a category button during a flow.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Direction CategoryDirection
	Priority  int
	IsActive  bool
	IsQuick   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewCategory creates a new Category entity.
func NewCategory(userID uuid.UUID, name string, direction CategoryDirection) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Direction: direction,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewQuickCategory creates a Category from free text typed mid-flow.
func NewQuickCategory(userID uuid.UUID, name string, direction CategoryDirection) *Category {
	c := NewCategory(userID, name, direction)
	c.IsQuick = true
	return c
}

// Accepts reports whether the category can be attached to a transaction
// moving in the given direction.
func (c *Category) Accepts(direction Direction) bool {
	switch c.Direction {
	case CategoryDirectionAny:
		return true
	case CategoryDirectionIncome:
		return direction == DirectionIncome
	case CategoryDirectionExpense:
		return direction == DirectionExpense
	}
	return false
}
