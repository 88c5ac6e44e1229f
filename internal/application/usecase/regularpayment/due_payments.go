// Package regularpayment contains recurring payment use cases.
package regularpayment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// GetDuePaymentsInput represents the input for the reminder query.
type GetDuePaymentsInput struct {
	UserID uuid.UUID
	Now    time.Time
}

// GetDuePaymentsOutput represents the output of the reminder query.
type GetDuePaymentsOutput struct {
	Payments []*entity.RegularPayment
}

// GetDuePaymentsUseCase returns the non-paused payments whose reminder
// window has opened.
type GetDuePaymentsUseCase struct {
	paymentRepo adapter.RegularPaymentRepository
}

// NewGetDuePaymentsUseCase creates a new GetDuePaymentsUseCase instance.
func NewGetDuePaymentsUseCase(paymentRepo adapter.RegularPaymentRepository) *GetDuePaymentsUseCase {
	return &GetDuePaymentsUseCase{
		paymentRepo: paymentRepo,
	}
}

// Execute performs the query.
func (uc *GetDuePaymentsUseCase) Execute(ctx context.Context, input GetDuePaymentsInput) (*GetDuePaymentsOutput, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	payments, err := uc.paymentRepo.FindDueForReminder(ctx, input.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("find due payments: %w", err)
	}
	return &GetDuePaymentsOutput{Payments: payments}, nil
}
