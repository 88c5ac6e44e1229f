// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents one immutable ledger movement.
// Amount is always a positive magnitude; Direction carries the sign.
// A transaction marked IsError has had its balance effect reversed and is
// excluded from all reporting.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Direction   Direction
	Description string
	IsImpulsive bool
	IsError     bool
	Date        time.Time
	CreatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	accountID uuid.UUID,
	categoryID *uuid.UUID,
	amount decimal.Decimal,
	direction Direction,
	description string,
	impulsive bool,
	date time.Time,
) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      amount,
		Direction:   direction,
		Description: description,
		IsImpulsive: impulsive,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
}

// TransactionWithCategory pairs a transaction with its category, if any.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category
}

// CategoryExpense is an aggregated expense total for one category.
type CategoryExpense struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
}

// ReportRow is one line of the read-only period report projection.
// An external formatter renders these; the core never formats files.
type ReportRow struct {
	Date        time.Time
	Direction   Direction
	Category    string
	Amount      decimal.Decimal
	Description string
	IsImpulsive bool
}
