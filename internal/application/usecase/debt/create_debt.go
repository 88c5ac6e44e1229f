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

// CreateDebtInput represents the input for recording a debt agreement.
type CreateDebtInput struct {
	UserID     uuid.UUID
	PersonName string
	Direction  entity.DebtDirection
	Amount     decimal.Decimal
	DueDate    *time.Time
}

// CreateDebtOutput represents the output of debt creation.
type CreateDebtOutput struct {
	Debt *entity.Debt
}

// CreateDebtUseCase records a new person/amount agreement.
type CreateDebtUseCase struct {
	debtRepo adapter.DebtRepository
}

// NewCreateDebtUseCase creates a new CreateDebtUseCase instance.
func NewCreateDebtUseCase(debtRepo adapter.DebtRepository) *CreateDebtUseCase {
	return &CreateDebtUseCase{
		debtRepo: debtRepo,
	}
}

// Execute performs the debt creation.
func (uc *CreateDebtUseCase) Execute(ctx context.Context, input CreateDebtInput) (*CreateDebtOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.ErrInvalidDebtAmount
	}

	d := entity.NewDebt(input.UserID, input.PersonName, input.Direction, input.Amount, input.DueDate)
	if err := uc.debtRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}

	return &CreateDebtOutput{Debt: d}, nil
}
