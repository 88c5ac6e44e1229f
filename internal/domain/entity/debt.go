// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtDirection says who owes whom.
type DebtDirection string

const (
	DebtDirectionIOwe    DebtDirection = "i_owe"
	DebtDirectionTheyOwe DebtDirection = "they_owe"
)

// Debt is one person/amount agreement. RemainingAmount never goes below
// zero and reaching exactly zero flips IsPaid in the same update.
type Debt struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	PersonName      string
	Direction       DebtDirection
	Amount          decimal.Decimal
	RemainingAmount decimal.Decimal
	DueDate         *time.Time
	IsPaid          bool
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time // Soft-delete support
}

// NewDebt creates a new unpaid Debt entity.
func NewDebt(userID uuid.UUID, person string, direction DebtDirection, amount decimal.Decimal, dueDate *time.Time) *Debt {
	now := time.Now().UTC()

	return &Debt{
		ID:              uuid.New(),
		UserID:          userID,
		PersonName:      person,
		Direction:       direction,
		Amount:          amount,
		RemainingAmount: amount,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
