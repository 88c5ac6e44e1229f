// Package limit contains spend limit use cases.
package limit

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

// SetLimitInput represents the input for creating or replacing a limit.
type SetLimitInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
}

// SetLimitOutput represents the output of setting a limit.
type SetLimitOutput struct {
	Limit *entity.Limit
}

// SetLimitUseCase creates the monthly limit for a (user, category) pair, or
// replaces the ceiling on the existing one. Accumulated spend in the current
// period is kept, so raising a limit mid-month does not forgive past spend.
type SetLimitUseCase struct {
	limitRepo adapter.LimitRepository
	now       func() time.Time
}

// NewSetLimitUseCase creates a new SetLimitUseCase instance.
func NewSetLimitUseCase(limitRepo adapter.LimitRepository) *SetLimitUseCase {
	return &SetLimitUseCase{
		limitRepo: limitRepo,
		now:       time.Now,
	}
}

// Execute performs the create-or-replace.
func (uc *SetLimitUseCase) Execute(ctx context.Context, input SetLimitInput) (*SetLimitOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewLimitError(
			domainerror.ErrCodeInvalidLimitAmount,
			"limit amount must be greater than zero",
			domainerror.ErrInvalidLimitAmount,
		)
	}

	existing, err := uc.limitRepo.FindByUserAndCategory(ctx, input.UserID, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find limit: %w", err)
	}

	if existing == nil {
		created := entity.NewLimit(input.UserID, input.CategoryID, input.Amount, uc.now())
		if err := uc.limitRepo.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("create limit: %w", err)
		}
		return &SetLimitOutput{Limit: created}, nil
	}

	existing.Amount = input.Amount
	existing.UpdatedAt = uc.now().UTC()
	if err := uc.limitRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update limit: %w", err)
	}

	return &SetLimitOutput{Limit: existing}, nil
}
