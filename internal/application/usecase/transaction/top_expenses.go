// Package transaction contains ledger transaction use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
)

// DefaultTopExpensesCount is used when the caller does not ask for a
// specific number of categories.
const DefaultTopExpensesCount = 5

// GetTopExpensesInput represents the input for the top-expenses query.
type GetTopExpensesInput struct {
	UserID uuid.UUID
	From   time.Time
	Count  int
}

// GetTopExpensesOutput represents the output of the top-expenses query.
type GetTopExpensesOutput struct {
	Categories []*entity.CategoryExpense
}

// GetTopExpensesUseCase returns the user's biggest expense categories since
// a given time. Ordering is deterministic: totals descending, ties broken by
// category id ascending.
type GetTopExpensesUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetTopExpensesUseCase creates a new GetTopExpensesUseCase instance.
func NewGetTopExpensesUseCase(transactionRepo adapter.TransactionRepository) *GetTopExpensesUseCase {
	return &GetTopExpensesUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the query.
func (uc *GetTopExpensesUseCase) Execute(ctx context.Context, input GetTopExpensesInput) (*GetTopExpensesOutput, error) {
	count := input.Count
	if count <= 0 {
		count = DefaultTopExpensesCount
	}

	categories, err := uc.transactionRepo.TopExpenseCategories(ctx, input.UserID, input.From, count)
	if err != nil {
		return nil, fmt.Errorf("top expense categories: %w", err)
	}

	return &GetTopExpensesOutput{Categories: categories}, nil
}
