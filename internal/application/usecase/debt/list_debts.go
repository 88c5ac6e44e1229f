// Package debt contains debt tracking use cases.
package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// ListDebtsInput represents the input for listing open debts.
type ListDebtsInput struct {
	UserID uuid.UUID
}

// ListDebtsOutput represents the output of listing open debts.
type ListDebtsOutput struct {
	Debts []*entity.Debt
}

// ListDebtsUseCase returns the user's unpaid debts for menu screens,
// earliest due date first.
type ListDebtsUseCase struct {
	debtRepo adapter.DebtRepository
}

// NewListDebtsUseCase creates a new ListDebtsUseCase instance.
func NewListDebtsUseCase(debtRepo adapter.DebtRepository) *ListDebtsUseCase {
	return &ListDebtsUseCase{
		debtRepo: debtRepo,
	}
}

// Execute performs the listing.
func (uc *ListDebtsUseCase) Execute(ctx context.Context, input ListDebtsInput) (*ListDebtsOutput, error) {
	debts, err := uc.debtRepo.FindUnpaidByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("find unpaid debts: %w", err)
	}
	return &ListDebtsOutput{Debts: debts}, nil
}

// GetOverdueDebtsInput represents the input for the overdue query.
type GetOverdueDebtsInput struct {
	UserID uuid.UUID
	Now    time.Time
}

// GetOverdueDebtsOutput represents the output of the overdue query.
type GetOverdueDebtsOutput struct {
	Debts []*entity.Debt
}

// GetOverdueDebtsUseCase returns unpaid debts whose due date has passed,
// earliest first.
type GetOverdueDebtsUseCase struct {
	debtRepo adapter.DebtRepository
}

// NewGetOverdueDebtsUseCase creates a new GetOverdueDebtsUseCase instance.
func NewGetOverdueDebtsUseCase(debtRepo adapter.DebtRepository) *GetOverdueDebtsUseCase {
	return &GetOverdueDebtsUseCase{
		debtRepo: debtRepo,
	}
}

// Execute performs the query.
func (uc *GetOverdueDebtsUseCase) Execute(ctx context.Context, input GetOverdueDebtsInput) (*GetOverdueDebtsOutput, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	debts, err := uc.debtRepo.FindOverdue(ctx, input.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("find overdue debts: %w", err)
	}
	return &GetOverdueDebtsOutput{Debts: debts}, nil
}
