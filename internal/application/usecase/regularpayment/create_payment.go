// Package regularpayment contains recurring payment use cases.
package regularpayment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// CreatePaymentInput represents the input for creating a recurring payment.
type CreatePaymentInput struct {
	UserID     uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Frequency  entity.Frequency
	DayOfMonth *int
}

// CreatePaymentOutput represents the output of creating a recurring payment.
type CreatePaymentOutput struct {
	Payment *entity.RegularPayment
}

// CreatePaymentUseCase records a recurring obligation. The first due date is
// the recurrence of the creation date.
type CreatePaymentUseCase struct {
	paymentRepo adapter.RegularPaymentRepository
	now         func() time.Time
}

// NewCreatePaymentUseCase creates a new CreatePaymentUseCase instance.
func NewCreatePaymentUseCase(paymentRepo adapter.RegularPaymentRepository) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// Execute performs the creation.
func (uc *CreatePaymentUseCase) Execute(ctx context.Context, input CreatePaymentInput) (*CreatePaymentOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.ErrInvalidAmount
	}

	next, err := ComputeNextDueDate(uc.now(), input.Frequency, input.DayOfMonth)
	if err != nil {
		return nil, err
	}

	p := entity.NewRegularPayment(input.UserID, input.Name, input.Amount, input.Frequency, input.DayOfMonth)
	p.NextDueDate = next

	if err := uc.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create regular payment: %w", err)
	}

	return &CreatePaymentOutput{Payment: p}, nil
}
