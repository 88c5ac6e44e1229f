// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is the recurrence interval of a regular payment.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// DefaultReminderDaysBefore is how many days ahead of the due date a
// reminder fires unless the payment overrides it.
const DefaultReminderDaysBefore = 1

// RegularPayment is a recurring obligation. NextDueDate is always the
// recurrence of LastPaidDate (or of the creation date if never paid) under
// the configured frequency.
type RegularPayment struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Name               string
	Amount             decimal.Decimal
	Frequency          Frequency
	DayOfMonth         *int
	IsPaused           bool
	LastPaidDate       *time.Time
	NextDueDate        time.Time
	ReminderDaysBefore int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time // Soft-delete support
}

// NewRegularPayment creates a new RegularPayment entity. The caller is
// responsible for computing and setting NextDueDate.
func NewRegularPayment(userID uuid.UUID, name string, amount decimal.Decimal, frequency Frequency, dayOfMonth *int) *RegularPayment {
	now := time.Now().UTC()

	return &RegularPayment{
		ID:                 uuid.New(),
		UserID:             userID,
		Name:               name,
		Amount:             amount,
		Frequency:          frequency,
		DayOfMonth:         dayOfMonth,
		ReminderDaysBefore: DefaultReminderDaysBefore,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
