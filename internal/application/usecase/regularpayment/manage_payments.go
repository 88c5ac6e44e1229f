// Package regularpayment contains recurring payment use cases.
package regularpayment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// ListPaymentsInput represents the input for listing recurring payments.
type ListPaymentsInput struct {
	UserID uuid.UUID
}

// ListPaymentsOutput represents the output of listing recurring payments.
type ListPaymentsOutput struct {
	Payments []*entity.RegularPayment
}

// ListPaymentsUseCase returns all of the user's recurring payments.
type ListPaymentsUseCase struct {
	paymentRepo adapter.RegularPaymentRepository
}

// NewListPaymentsUseCase creates a new ListPaymentsUseCase instance.
func NewListPaymentsUseCase(paymentRepo adapter.RegularPaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{
		paymentRepo: paymentRepo,
	}
}

// Execute performs the listing.
func (uc *ListPaymentsUseCase) Execute(ctx context.Context, input ListPaymentsInput) (*ListPaymentsOutput, error) {
	payments, err := uc.paymentRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("find regular payments: %w", err)
	}
	return &ListPaymentsOutput{Payments: payments}, nil
}

// SetPausedInput represents the input for pausing or resuming a payment.
type SetPausedInput struct {
	UserID    uuid.UUID
	PaymentID uuid.UUID
	Paused    bool
}

// SetPausedOutput represents the output of pausing or resuming a payment.
type SetPausedOutput struct {
	Payment *entity.RegularPayment
}

// SetPausedUseCase toggles reminder emission for one payment without
// touching its schedule.
type SetPausedUseCase struct {
	paymentRepo adapter.RegularPaymentRepository
	now         func() time.Time
}

// NewSetPausedUseCase creates a new SetPausedUseCase instance.
func NewSetPausedUseCase(paymentRepo adapter.RegularPaymentRepository) *SetPausedUseCase {
	return &SetPausedUseCase{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// Execute performs the toggle.
func (uc *SetPausedUseCase) Execute(ctx context.Context, input SetPausedInput) (*SetPausedOutput, error) {
	p, err := uc.paymentRepo.FindByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != input.UserID {
		return nil, domainerror.ErrPaymentNotFound
	}

	p.IsPaused = input.Paused
	p.UpdatedAt = uc.now().UTC()
	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update regular payment: %w", err)
	}

	return &SetPausedOutput{Payment: p}, nil
}
