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

// ResetMonthlyLimitsInput represents the input for the period rollover.
type ResetMonthlyLimitsInput struct {
	UserID uuid.UUID
}

// ResetMonthlyLimitsOutput represents the output of the period rollover.
type ResetMonthlyLimitsOutput struct {
	ResetCount int
}

// ResetMonthlyLimitsUseCase rolls every stale limit into the current month:
// spend back to zero, block cleared, warning level back to zero. This is the
// only code path that lowers a warning level. It is idempotent: a second
// call in the same month touches nothing.
type ResetMonthlyLimitsUseCase struct {
	limitRepo adapter.LimitRepository
	now       func() time.Time
}

// NewResetMonthlyLimitsUseCase creates a new ResetMonthlyLimitsUseCase instance.
func NewResetMonthlyLimitsUseCase(limitRepo adapter.LimitRepository) *ResetMonthlyLimitsUseCase {
	return &ResetMonthlyLimitsUseCase{
		limitRepo: limitRepo,
		now:       time.Now,
	}
}

// Execute performs the rollover for one user.
func (uc *ResetMonthlyLimitsUseCase) Execute(ctx context.Context, input ResetMonthlyLimitsInput) (*ResetMonthlyLimitsOutput, error) {
	limits, err := uc.limitRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("find limits: %w", err)
	}

	now := uc.now().UTC()
	monthStart := entity.MonthStart(now)

	reset := 0
	for _, lim := range limits {
		if !lim.PeriodStart.Before(monthStart) {
			continue
		}
		lim.SpentAmount = decimal.Zero
		lim.PeriodStart = monthStart
		lim.LastWarningLevel = entity.WarningLevelNone
		lim.IsBlocked = false
		lim.BlockedUntil = nil
		lim.UpdatedAt = now
		if err := uc.limitRepo.Update(ctx, lim); err != nil {
			return nil, fmt.Errorf("reset limit %s: %w", lim.ID, err)
		}
		reset++
	}

	return &ResetMonthlyLimitsOutput{ResetCount: reset}, nil
}
