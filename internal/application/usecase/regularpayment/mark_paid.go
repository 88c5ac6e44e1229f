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

// MarkPaidInput represents the input for settling one occurrence.
type MarkPaidInput struct {
	UserID    uuid.UUID
	PaymentID uuid.UUID
}

// MarkPaidOutput represents the output of settling one occurrence.
type MarkPaidOutput struct {
	Payment *entity.RegularPayment
}

// MarkPaidUseCase stamps the payment as paid now and recomputes the next
// due date from now, not from the previous due date, so a late payment
// does not compress the following interval.
type MarkPaidUseCase struct {
	paymentRepo adapter.RegularPaymentRepository
	now         func() time.Time
}

// NewMarkPaidUseCase creates a new MarkPaidUseCase instance.
func NewMarkPaidUseCase(paymentRepo adapter.RegularPaymentRepository) *MarkPaidUseCase {
	return &MarkPaidUseCase{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// Execute performs the settlement.
func (uc *MarkPaidUseCase) Execute(ctx context.Context, input MarkPaidInput) (*MarkPaidOutput, error) {
	p, err := uc.paymentRepo.FindByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != input.UserID {
		return nil, domainerror.ErrPaymentNotFound
	}

	now := uc.now().UTC()
	next, err := ComputeNextDueDate(now, p.Frequency, p.DayOfMonth)
	if err != nil {
		return nil, err
	}

	p.LastPaidDate = &now
	p.NextDueDate = next
	p.UpdatedAt = now

	if err := uc.paymentRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update regular payment: %w", err)
	}

	return &MarkPaidOutput{Payment: p}, nil
}
