package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
	"github.com/finance-assistant/bot/internal/integration/persistence"
	"github.com/finance-assistant/bot/internal/integration/persistence/persistencetest"
)

func newTestUser(t *testing.T, users adapter.UserRepository) *entity.User {
	t.Helper()
	user := entity.NewUser(12345, "tester")
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestProcessTransaction(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ProcessTransactionUseCase, adapter.AccountRepository, *entity.User) {
		db := persistencetest.Open(t)
		uow := persistence.NewUnitOfWork(db)
		user := newTestUser(t, persistence.NewUserRepository(db))
		return NewProcessTransactionUseCase(uow), persistence.NewAccountRepository(db), user
	}

	t.Run("income creates the account lazily", func(t *testing.T) {
		uc, accounts, user := setup(t)

		out, err := uc.Execute(ctx, ProcessTransactionInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(100),
			Direction: entity.DirectionIncome,
		})
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !out.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("balance = %s, want 100", out.Balance)
		}
		if out.Currency != entity.DefaultCurrency {
			t.Errorf("currency = %q, want %q", out.Currency, entity.DefaultCurrency)
		}

		account, err := accounts.FindByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("find account: %v", err)
		}
		if !account.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("stored balance = %s, want 100", account.Balance)
		}
	})

	t.Run("income then expense conserves the balance", func(t *testing.T) {
		uc, _, user := setup(t)

		if _, err := uc.Execute(ctx, ProcessTransactionInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(500),
			Direction: entity.DirectionIncome,
		}); err != nil {
			t.Fatalf("income: %v", err)
		}

		out, err := uc.Execute(ctx, ProcessTransactionInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(180),
			Direction: entity.DirectionExpense,
		})
		if err != nil {
			t.Fatalf("expense: %v", err)
		}
		if !out.Balance.Equal(decimal.NewFromInt(320)) {
			t.Errorf("balance = %s, want 320", out.Balance)
		}
	})

	t.Run("expense beyond the balance is rejected atomically", func(t *testing.T) {
		uc, accounts, user := setup(t)

		if _, err := uc.Execute(ctx, ProcessTransactionInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(100),
			Direction: entity.DirectionIncome,
		}); err != nil {
			t.Fatalf("income: %v", err)
		}

		_, err := uc.Execute(ctx, ProcessTransactionInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(150),
			Direction: entity.DirectionExpense,
		})
		if !errors.Is(err, domainerror.ErrInsufficientFunds) {
			t.Fatalf("err = %v, want ErrInsufficientFunds", err)
		}

		account, err := accounts.FindByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("find account: %v", err)
		}
		if !account.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("balance after rejection = %s, want 100", account.Balance)
		}
	})

	t.Run("zero and negative amounts are rejected", func(t *testing.T) {
		uc, _, user := setup(t)

		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			_, err := uc.Execute(ctx, ProcessTransactionInput{
				UserID:    user.ID,
				Amount:    amount,
				Direction: entity.DirectionIncome,
			})
			if !errors.Is(err, domainerror.ErrInvalidAmount) {
				t.Errorf("amount %s: err = %v, want ErrInvalidAmount", amount, err)
			}
		}
	})
}

func TestCancelTransaction(t *testing.T) {
	ctx := context.Background()

	db := persistencetest.Open(t)
	uow := persistence.NewUnitOfWork(db)
	accounts := persistence.NewAccountRepository(db)
	user := newTestUser(t, persistence.NewUserRepository(db))

	process := NewProcessTransactionUseCase(uow)
	cancel := NewCancelTransactionUseCase(uow)

	if _, err := process.Execute(ctx, ProcessTransactionInput{
		UserID:    user.ID,
		Amount:    decimal.NewFromInt(300),
		Direction: entity.DirectionIncome,
	}); err != nil {
		t.Fatalf("income: %v", err)
	}
	expense, err := process.Execute(ctx, ProcessTransactionInput{
		UserID:    user.ID,
		Amount:    decimal.NewFromInt(120),
		Direction: entity.DirectionExpense,
	})
	if err != nil {
		t.Fatalf("expense: %v", err)
	}

	t.Run("cancelling an expense credits the amount back", func(t *testing.T) {
		out, err := cancel.Execute(ctx, CancelTransactionInput{
			UserID:        user.ID,
			TransactionID: expense.Transaction.ID,
		})
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if !out.Balance.Equal(decimal.NewFromInt(300)) {
			t.Errorf("balance = %s, want 300", out.Balance)
		}

		account, err := accounts.FindByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("find account: %v", err)
		}
		if !account.Balance.Equal(decimal.NewFromInt(300)) {
			t.Errorf("stored balance = %s, want 300", account.Balance)
		}
	})

	t.Run("cancelling twice fails and leaves the balance alone", func(t *testing.T) {
		_, err := cancel.Execute(ctx, CancelTransactionInput{
			UserID:        user.ID,
			TransactionID: expense.Transaction.ID,
		})
		if !errors.Is(err, domainerror.ErrTransactionAlreadyCancelled) {
			t.Fatalf("err = %v, want ErrTransactionAlreadyCancelled", err)
		}

		account, err := accounts.FindByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("find account: %v", err)
		}
		if !account.Balance.Equal(decimal.NewFromInt(300)) {
			t.Errorf("balance = %s, want 300", account.Balance)
		}
	})

	t.Run("another user's transaction is invisible", func(t *testing.T) {
		stranger := entity.NewUser(999, "stranger")
		if err := persistence.NewUserRepository(db).Create(ctx, stranger); err != nil {
			t.Fatalf("create stranger: %v", err)
		}

		_, err := cancel.Execute(ctx, CancelTransactionInput{
			UserID:        stranger.ID,
			TransactionID: expense.Transaction.ID,
		})
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Fatalf("err = %v, want ErrTransactionNotFound", err)
		}
	})
}

func TestTopExpensesAndReport(t *testing.T) {
	ctx := context.Background()

	db := persistencetest.Open(t)
	uow := persistence.NewUnitOfWork(db)
	categories := persistence.NewCategoryRepository(db)
	user := newTestUser(t, persistence.NewUserRepository(db))

	process := NewProcessTransactionUseCase(uow)
	top := NewGetTopExpensesUseCase(persistence.NewTransactionRepository(db))
	report := NewBuildPeriodReportUseCase(persistence.NewTransactionRepository(db))

	food := entity.NewCategory(user.ID, "Food", entity.CategoryDirectionExpense)
	taxi := entity.NewCategory(user.ID, "Taxi", entity.CategoryDirectionExpense)
	for _, c := range []*entity.Category{food, taxi} {
		if err := categories.Create(ctx, c); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	if _, err := process.Execute(ctx, ProcessTransactionInput{
		UserID:    user.ID,
		Amount:    decimal.NewFromInt(1000),
		Direction: entity.DirectionIncome,
	}); err != nil {
		t.Fatalf("income: %v", err)
	}
	spend := func(category *entity.Category, amount int64) {
		t.Helper()
		id := category.ID
		if _, err := process.Execute(ctx, ProcessTransactionInput{
			UserID:     user.ID,
			CategoryID: &id,
			Amount:     decimal.NewFromInt(amount),
			Direction:  entity.DirectionExpense,
		}); err != nil {
			t.Fatalf("expense in %s: %v", category.Name, err)
		}
	}
	spend(food, 200)
	spend(food, 150)
	spend(taxi, 300)

	t.Run("top expenses groups and orders by total", func(t *testing.T) {
		out, err := top.Execute(ctx, GetTopExpensesInput{UserID: user.ID, From: entity.MonthStart(user.CreatedAt)})
		if err != nil {
			t.Fatalf("top: %v", err)
		}
		if len(out.Categories) != 2 {
			t.Fatalf("got %d categories, want 2", len(out.Categories))
		}
		if out.Categories[0].CategoryName != "Food" || !out.Categories[0].Total.Equal(decimal.NewFromInt(350)) {
			t.Errorf("first = %s %s, want Food 350", out.Categories[0].CategoryName, out.Categories[0].Total)
		}
		if out.Categories[1].CategoryName != "Taxi" || !out.Categories[1].Total.Equal(decimal.NewFromInt(300)) {
			t.Errorf("second = %s %s, want Taxi 300", out.Categories[1].CategoryName, out.Categories[1].Total)
		}
	})

	t.Run("period report includes every movement with categories", func(t *testing.T) {
		out, err := report.Execute(ctx, BuildPeriodReportInput{
			UserID: user.ID,
			From:   user.CreatedAt.AddDate(0, 0, -1),
			To:     user.CreatedAt.AddDate(0, 0, 1),
		})
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if len(out.Rows) != 4 {
			t.Fatalf("got %d rows, want 4", len(out.Rows))
		}
		withCategory := 0
		for _, row := range out.Rows {
			if row.Category != "" {
				withCategory++
			}
		}
		if withCategory != 3 {
			t.Errorf("rows with category = %d, want 3", withCategory)
		}
	})

	t.Run("cancelled transactions drop out of both projections", func(t *testing.T) {
		id := taxi.ID
		txn, err := process.Execute(ctx, ProcessTransactionInput{
			UserID:     user.ID,
			CategoryID: &id,
			Amount:     decimal.NewFromInt(50),
			Direction:  entity.DirectionExpense,
		})
		if err != nil {
			t.Fatalf("expense: %v", err)
		}
		if _, err := NewCancelTransactionUseCase(uow).Execute(ctx, CancelTransactionInput{
			UserID:        user.ID,
			TransactionID: txn.Transaction.ID,
		}); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		out, err := top.Execute(ctx, GetTopExpensesInput{UserID: user.ID, From: entity.MonthStart(user.CreatedAt)})
		if err != nil {
			t.Fatalf("top: %v", err)
		}
		for _, c := range out.Categories {
			if c.CategoryName == "Taxi" && !c.Total.Equal(decimal.NewFromInt(300)) {
				t.Errorf("taxi total = %s, want 300 after cancellation", c.Total)
			}
		}
	})
}
