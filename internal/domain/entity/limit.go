// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warning levels a limit can cross within a period, in percent of the
// limit amount. Each level is reported to the user at most once per period.
const (
	WarningLevelNone    = 0
	WarningLevelHalf    = 50
	WarningLevelHigh    = 80
	WarningLevelReached = 100
)

// BlockDuration is how long a category stays blocked after the limit is
// fully spent.
const BlockDuration = 24 * time.Hour

// Limit is a monthly spend ceiling for one (user, category) pair.
// LastWarningLevel only increases within a period; the monthly reset is the
// single code path that brings it back to zero.
type Limit struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	CategoryID       uuid.UUID
	Amount           decimal.Decimal
	SpentAmount      decimal.Decimal
	PeriodStart      time.Time
	LastWarningLevel int
	IsBlocked        bool
	BlockedUntil     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // Soft-delete support
}

// NewLimit creates a new Limit entity for the month containing now.
func NewLimit(userID, categoryID uuid.UUID, amount decimal.Decimal, now time.Time) *Limit {
	created := now.UTC()

	return &Limit{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		SpentAmount: decimal.Zero,
		PeriodStart: MonthStart(created),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// Percent returns the spent share of the limit in whole percent terms.
func (l *Limit) Percent() decimal.Decimal {
	if l.Amount.IsZero() {
		return decimal.Zero
	}
	return l.SpentAmount.Mul(decimal.NewFromInt(100)).Div(l.Amount)
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
