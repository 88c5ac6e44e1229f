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
)

// AddSpendingInput represents the input for accumulating spend on a limit.
type AddSpendingInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
}

// AddSpendingOutput represents the output of accumulating spend.
// CrossedLevel is the highest warning threshold newly reached by this call,
// or zero, so each level fires at most once per period.
type AddSpendingOutput struct {
	Limit        *entity.Limit
	CrossedLevel int
}

// AddSpendingUseCase adds an expense amount to the category's limit counter
// and detects threshold crossings. Crossing 100% blocks the category for 24
// hours. The session store serializes a user's turns, so the read-modify-
// write here never races with itself for the same user.
type AddSpendingUseCase struct {
	limitRepo adapter.LimitRepository
	now       func() time.Time
}

// NewAddSpendingUseCase creates a new AddSpendingUseCase instance.
func NewAddSpendingUseCase(limitRepo adapter.LimitRepository) *AddSpendingUseCase {
	return &AddSpendingUseCase{
		limitRepo: limitRepo,
		now:       time.Now,
	}
}

// Execute performs the accumulation. A user without a limit on the category
// gets a no-op result rather than an error.
func (uc *AddSpendingUseCase) Execute(ctx context.Context, input AddSpendingInput) (*AddSpendingOutput, error) {
	lim, err := uc.limitRepo.FindByUserAndCategory(ctx, input.UserID, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find limit: %w", err)
	}
	if lim == nil {
		return &AddSpendingOutput{CrossedLevel: entity.WarningLevelNone}, nil
	}

	now := uc.now().UTC()
	lim.SpentAmount = lim.SpentAmount.Add(input.Amount)

	crossed := entity.WarningLevelNone
	percent := lim.Percent()
	for _, level := range []int{entity.WarningLevelReached, entity.WarningLevelHigh, entity.WarningLevelHalf} {
		if level <= lim.LastWarningLevel {
			break
		}
		if percent.GreaterThanOrEqual(decimal.NewFromInt(int64(level))) {
			crossed = level
			break
		}
	}

	if crossed != entity.WarningLevelNone {
		lim.LastWarningLevel = crossed
		if crossed == entity.WarningLevelReached {
			until := now.Add(entity.BlockDuration)
			lim.IsBlocked = true
			lim.BlockedUntil = &until
		}
	}

	lim.UpdatedAt = now
	if err := uc.limitRepo.Update(ctx, lim); err != nil {
		return nil, fmt.Errorf("update limit: %w", err)
	}

	return &AddSpendingOutput{Limit: lim, CrossedLevel: crossed}, nil
}
