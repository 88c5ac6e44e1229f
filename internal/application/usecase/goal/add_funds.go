// Package goal contains savings goal use cases.
package goal

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

// AddFundsInput represents the input for funding a goal.
type AddFundsInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
	Amount decimal.Decimal
}

// AddFundsOutput represents the output of funding a goal.
type AddFundsOutput struct {
	Goal      *entity.Goal
	Completed bool
}

// AddFundsUseCase adds money toward a goal. Reaching the target completes
// and deactivates the goal in the same update; there is no separate
// completion pass anywhere else.
type AddFundsUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewAddFundsUseCase creates a new AddFundsUseCase instance.
func NewAddFundsUseCase(uow adapter.UnitOfWork) *AddFundsUseCase {
	return &AddFundsUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute performs the funding.
func (uc *AddFundsUseCase) Execute(ctx context.Context, input AddFundsInput) (*AddFundsOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.ErrInvalidAmount
	}

	var output *AddFundsOutput
	err := uc.uow.Run(ctx, func(repos adapter.TxRepositories) error {
		g, err := repos.Goals.FindByID(ctx, input.GoalID)
		if err != nil {
			return err
		}
		if g.UserID != input.UserID {
			return domainerror.ErrGoalNotFound
		}
		if g.IsCompleted {
			return domainerror.NewGoalError(
				domainerror.ErrCodeGoalCompleted,
				"cannot fund a completed goal",
				domainerror.ErrGoalCompleted,
			)
		}

		now := uc.now().UTC()
		g.CurrentAmount = g.CurrentAmount.Add(input.Amount)
		if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
			g.IsCompleted = true
			g.IsActive = false
			g.CompletedAt = &now
		}
		g.UpdatedAt = now

		if err := repos.Goals.Update(ctx, g); err != nil {
			return fmt.Errorf("update goal: %w", err)
		}

		output = &AddFundsOutput{Goal: g, Completed: g.IsCompleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
