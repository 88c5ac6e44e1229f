// Package transaction contains ledger transaction use cases.
package transaction

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

// CancelTransactionInput represents the input for reversing a transaction.
type CancelTransactionInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
}

// CancelTransactionOutput represents the output of a reversal.
type CancelTransactionOutput struct {
	Transaction *entity.Transaction
	Balance     decimal.Decimal
	Currency    string
}

// CancelTransactionUseCase marks a transaction as erroneous and reverses its
// balance effect. A transaction already marked is never reversed twice.
type CancelTransactionUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewCancelTransactionUseCase creates a new CancelTransactionUseCase instance.
func NewCancelTransactionUseCase(uow adapter.UnitOfWork) *CancelTransactionUseCase {
	return &CancelTransactionUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute performs the reversal.
func (uc *CancelTransactionUseCase) Execute(ctx context.Context, input CancelTransactionInput) (*CancelTransactionOutput, error) {
	var output *CancelTransactionOutput
	err := uc.uow.Run(ctx, func(repos adapter.TxRepositories) error {
		txn, err := repos.Transactions.FindByID(ctx, input.TransactionID)
		if err != nil {
			return err
		}
		if txn.UserID != input.UserID {
			return domainerror.ErrTransactionNotFound
		}
		if txn.IsError {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeAlreadyCancelled,
				"transaction was already cancelled",
				domainerror.ErrTransactionAlreadyCancelled,
			)
		}

		account, err := repos.Accounts.FindByUser(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}

		// Expense credits back, income debits back.
		switch txn.Direction {
		case entity.DirectionExpense:
			account.Balance = account.Balance.Add(txn.Amount)
		case entity.DirectionIncome:
			account.Balance = account.Balance.Sub(txn.Amount)
		}

		account.UpdatedAt = uc.now().UTC()
		if err := repos.Accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txn.IsError = true
		if err := repos.Transactions.Update(ctx, txn); err != nil {
			return fmt.Errorf("mark transaction: %w", err)
		}

		output = &CancelTransactionOutput{
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
