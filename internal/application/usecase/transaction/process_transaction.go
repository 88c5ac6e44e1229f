// Package transaction contains ledger transaction use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
)

// ProcessTransactionInput represents the input for recording one ledger movement.
type ProcessTransactionInput struct {
	UserID      uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Direction   entity.Direction
	Description string
	IsImpulsive bool
	Date        *time.Time
}

// ProcessTransactionOutput represents the output of transaction processing.
type ProcessTransactionOutput struct {
	Transaction *entity.Transaction
	Balance     decimal.Decimal
	Currency    string
}

// ProcessTransactionUseCase applies one income or expense to the ledger.
// The account mutation and the transaction row are committed together,
// both or neither.
type ProcessTransactionUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewProcessTransactionUseCase creates a new ProcessTransactionUseCase instance.
func NewProcessTransactionUseCase(uow adapter.UnitOfWork) *ProcessTransactionUseCase {
	return &ProcessTransactionUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute performs the transaction processing.
func (uc *ProcessTransactionUseCase) Execute(ctx context.Context, input ProcessTransactionInput) (*ProcessTransactionOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}

	date := uc.now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	var output *ProcessTransactionOutput
	err := uc.uow.Run(ctx, func(repos adapter.TxRepositories) error {
		account, err := repos.Accounts.FindByUser(ctx, input.UserID)
		if err != nil {
			if !errors.Is(err, domainerror.ErrAccountNotFound) {
				return fmt.Errorf("load account: %w", err)
			}
			account = entity.NewAccount(input.UserID, entity.DefaultCurrency)
			if err := repos.Accounts.Create(ctx, account); err != nil {
				return fmt.Errorf("create account: %w", err)
			}
		}

		switch input.Direction {
		case entity.DirectionExpense:
			if account.Balance.LessThan(input.Amount) {
				return domainerror.NewTransactionError(
					domainerror.ErrCodeInsufficientFunds,
					"expense exceeds account balance",
					domainerror.ErrInsufficientFunds,
				)
			}
			account.Balance = account.Balance.Sub(input.Amount)
		case entity.DirectionIncome:
			account.Balance = account.Balance.Add(input.Amount)
		default:
			return domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidAmount,
				"direction must be income or expense",
				domainerror.ErrInvalidAmount,
			)
		}

		account.UpdatedAt = uc.now().UTC()
		if err := repos.Accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txn := entity.NewTransaction(
			input.UserID,
			account.ID,
			input.CategoryID,
			input.Amount,
			input.Direction,
			input.Description,
			input.IsImpulsive,
			date,
		)
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		output = &ProcessTransactionOutput{
			Transaction: txn,
			Balance:     account.Balance,
			Currency:    account.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
