// Package error defines domain-specific errors for the finance assistant.
package error

import "errors"

// Debt domain errors.
var (
	// ErrDebtNotFound is returned when a debt is not found in the system.
	ErrDebtNotFound = errors.New("debt not found")

	// ErrDebtAlreadyPaid is returned when paying into a settled debt.
	ErrDebtAlreadyPaid = errors.New("debt already paid")

	// ErrInvalidDebtAmount is returned when the debt amount is zero or negative.
	ErrInvalidDebtAmount = errors.New("invalid debt amount")
)

// Regular payment domain errors.
var (
	// ErrPaymentNotFound is returned when a regular payment is not found.
	ErrPaymentNotFound = errors.New("regular payment not found")

	// ErrInvalidFrequency is returned when the recurrence frequency is unknown.
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")
)

// ErrInvalidDate is returned when a typed date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")
