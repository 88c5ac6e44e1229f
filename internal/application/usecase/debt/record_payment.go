// Package debt contains debt tracking use cases.
package debt

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

// RecordPaymentInput represents the input for a partial or full repayment.
type RecordPaymentInput struct {
	UserID uuid.UUID
	DebtID uuid.UUID
	Amount decimal.Decimal
}

// RecordPaymentOutput represents the output of a repayment.
// Applied is the amount actually subtracted after clamping, which is what a
// linked ledger transaction should carry.
type RecordPaymentOutput struct {
	Debt    *entity.Debt
	Applied decimal.Decimal
	Settled bool
}

// RecordPaymentUseCase subtracts a payment from the remaining amount,
// clamping at zero. The payment may exceed what is left; clamping keeps
// retries after a partial failure safe. Remaining hitting exactly zero flips
// the paid flag in the same update.
type RecordPaymentUseCase struct {
	debtRepo adapter.DebtRepository
	now      func() time.Time
}

// NewRecordPaymentUseCase creates a new RecordPaymentUseCase instance.
func NewRecordPaymentUseCase(debtRepo adapter.DebtRepository) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		debtRepo: debtRepo,
		now:      time.Now,
	}
}

// Execute performs the repayment.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, input RecordPaymentInput) (*RecordPaymentOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.ErrInvalidAmount
	}

	d, err := uc.debtRepo.FindByID(ctx, input.DebtID)
	if err != nil {
		return nil, err
	}
	if d.UserID != input.UserID {
		return nil, domainerror.ErrDebtNotFound
	}
	if d.IsPaid {
		return nil, domainerror.ErrDebtAlreadyPaid
	}

	applied := input.Amount
	if applied.GreaterThan(d.RemainingAmount) {
		applied = d.RemainingAmount
	}

	now := uc.now().UTC()
	d.RemainingAmount = d.RemainingAmount.Sub(applied)
	if d.RemainingAmount.IsZero() {
		d.IsPaid = true
		d.PaidAt = &now
	}
	d.UpdatedAt = now

	if err := uc.debtRepo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update debt: %w", err)
	}

	return &RecordPaymentOutput{Debt: d, Applied: applied, Settled: d.IsPaid}, nil
}
