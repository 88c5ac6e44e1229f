// Package error defines domain-specific errors for the finance assistant.
package error

import "errors"

// Limit domain errors.
var (
	// ErrInvalidLimitAmount is returned when the limit amount is zero or negative.
	ErrInvalidLimitAmount = errors.New("invalid limit amount")

	// ErrCategoryBlocked is returned when spending is attempted in a blocked category.
	// Callers must check for this before processing the transaction.
	ErrCategoryBlocked = errors.New("category is blocked")
)

// LimitErrorCode defines error codes for limit errors.
// Format: LMT-XXYYYY where XX is category and YYYY is specific error.
type LimitErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidLimitAmount LimitErrorCode = "LMT-010001"
	// Business rule errors (02XXXX)
	ErrCodeCategoryBlocked LimitErrorCode = "LMT-020001"
)

// LimitError represents a limit error with code and message.
type LimitError struct {
	Code    LimitErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LimitError) Unwrap() error {
	return e.Err
}

// NewLimitError creates a new LimitError with the given code and message.
func NewLimitError(code LimitErrorCode, message string, err error) *LimitError {
	return &LimitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
