// Package goal contains savings goal use cases.
package goal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// ListGoalsInput represents the input for listing goals.
type ListGoalsInput struct {
	UserID uuid.UUID
}

// ListGoalsOutput represents the output of listing goals.
type ListGoalsOutput struct {
	Goals []*entity.Goal
}

// ListGoalsUseCase returns all of the user's goals, newest first.
type ListGoalsUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewListGoalsUseCase creates a new ListGoalsUseCase instance.
func NewListGoalsUseCase(goalRepo adapter.GoalRepository) *ListGoalsUseCase {
	return &ListGoalsUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the listing.
func (uc *ListGoalsUseCase) Execute(ctx context.Context, input ListGoalsInput) (*ListGoalsOutput, error) {
	goals, err := uc.goalRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("find goals: %w", err)
	}
	return &ListGoalsOutput{Goals: goals}, nil
}

// GetActiveGoalInput represents the input for the active goal lookup.
type GetActiveGoalInput struct {
	UserID uuid.UUID
}

// GetActiveGoalOutput represents the output of the active goal lookup.
// Goal is nil when no goal is active.
type GetActiveGoalOutput struct {
	Goal *entity.Goal
}

// GetActiveGoalUseCase finds the goal currently receiving deposits.
type GetActiveGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewGetActiveGoalUseCase creates a new GetActiveGoalUseCase instance.
func NewGetActiveGoalUseCase(goalRepo adapter.GoalRepository) *GetActiveGoalUseCase {
	return &GetActiveGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the lookup.
func (uc *GetActiveGoalUseCase) Execute(ctx context.Context, input GetActiveGoalInput) (*GetActiveGoalOutput, error) {
	g, err := uc.goalRepo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("find active goal: %w", err)
	}
	return &GetActiveGoalOutput{Goal: g}, nil
}
