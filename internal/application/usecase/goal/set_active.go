// Package goal contains savings goal use cases.
package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// SetActiveInput represents the input for switching the active goal.
type SetActiveInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
}

// SetActiveOutput represents the output of switching the active goal.
type SetActiveOutput struct {
	Goal *entity.Goal
}

// SetActiveUseCase makes the given goal the user's single active goal:
// every other goal is deactivated first, then the target is activated, both
// inside one unit of work.
type SetActiveUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewSetActiveUseCase creates a new SetActiveUseCase instance.
func NewSetActiveUseCase(uow adapter.UnitOfWork) *SetActiveUseCase {
	return &SetActiveUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute performs the switch.
func (uc *SetActiveUseCase) Execute(ctx context.Context, input SetActiveInput) (*SetActiveOutput, error) {
	var output *SetActiveOutput
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
				"cannot activate a completed goal",
				domainerror.ErrGoalCompleted,
			)
		}

		if err := repos.Goals.DeactivateAllByUser(ctx, input.UserID); err != nil {
			return fmt.Errorf("deactivate goals: %w", err)
		}

		g.IsActive = true
		g.UpdatedAt = uc.now().UTC()
		if err := repos.Goals.Update(ctx, g); err != nil {
			return fmt.Errorf("activate goal: %w", err)
		}

		output = &SetActiveOutput{Goal: g}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
