// Package error defines domain-specific errors for the finance assistant.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidAmount is returned when an amount is zero, negative, or unparseable.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when an expense exceeds the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when the user has no account yet.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionAlreadyCancelled is returned when reversing a transaction twice.
	ErrTransactionAlreadyCancelled = errors.New("transaction already cancelled")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount        TransactionErrorCode = "TXN-010001"
	ErrCodeTransactionNotFound  TransactionErrorCode = "TXN-010002"
	ErrCodeAlreadyCancelled     TransactionErrorCode = "TXN-010003"
	// Business rule errors (02XXXX)
	ErrCodeInsufficientFunds    TransactionErrorCode = "TXN-020001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
