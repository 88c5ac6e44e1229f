// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user in the database.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by its internal id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByChatID retrieves a user by the chat id delivered by the transport.
	// Returns nil without error when the chat id is unknown.
	FindByChatID(ctx context.Context, chatID int64) (*entity.User, error)

	// FindAll retrieves all users, for scheduler scans.
	FindAll(ctx context.Context) ([]*entity.User, error)
}

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByUser retrieves the user's account. Returns ErrAccountNotFound
	// when the account has not been lazily created yet.
	FindByUser(ctx context.Context, userID uuid.UUID) (*entity.Account, error)

	// Update updates an existing account in the database.
	Update(ctx context.Context, account *entity.Account) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindActiveByUser retrieves the user's active categories accepting the
	// given direction, ordered by priority descending then name.
	FindActiveByUser(ctx context.Context, userID uuid.UUID, direction entity.Direction) ([]*entity.Category, error)

	// FindByName retrieves a category by its case-insensitive name.
	// Returns nil without error when no such category exists.
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*entity.Category, error)
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// TopExpenseCategories groups non-deleted, non-error expense transactions
	// since the given time by category and returns the top N totals in
	// descending order, ties broken by category id ascending.
	TopExpenseCategories(ctx context.Context, userID uuid.UUID, since time.Time, count int) ([]*entity.CategoryExpense, error)

	// FindByPeriod retrieves non-deleted, non-error transactions within
	// [from, to] ordered by date ascending, with categories attached.
	FindByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.TransactionWithCategory, error)
}

// LimitRepository defines the interface for limit persistence operations.
type LimitRepository interface {
	// Create creates a new limit in the database.
	Create(ctx context.Context, limit *entity.Limit) error

	// FindByUserAndCategory retrieves the limit for a (user, category) pair.
	// Returns nil without error when no limit exists.
	FindByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*entity.Limit, error)

	// FindByUser retrieves all limits for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Limit, error)

	// Update updates an existing limit in the database.
	Update(ctx context.Context, limit *entity.Limit) error
}

// DebtRepository defines the interface for debt persistence operations.
type DebtRepository interface {
	// Create creates a new debt in the database.
	Create(ctx context.Context, debt *entity.Debt) error

	// FindByID retrieves a debt by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Debt, error)

	// FindUnpaidByUser retrieves unpaid debts ordered by due date ascending,
	// debts without a due date last.
	FindUnpaidByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Debt, error)

	// FindOverdue retrieves unpaid debts whose due date is before now,
	// earliest due date first.
	FindOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.Debt, error)

	// Update updates an existing debt in the database.
	Update(ctx context.Context, debt *entity.Debt) error
}

// GoalRepository defines the interface for goal persistence operations.
type GoalRepository interface {
	// Create creates a new goal in the database.
	Create(ctx context.Context, goal *entity.Goal) error

	// FindByID retrieves a goal by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error)

	// FindByUser retrieves all non-deleted goals for a user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error)

	// FindActiveByUser retrieves the user's active, non-completed goal.
	// Returns nil without error when there is none.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Goal, error)

	// DeactivateAllByUser clears the active flag on every non-completed goal.
	DeactivateAllByUser(ctx context.Context, userID uuid.UUID) error

	// Update updates an existing goal in the database.
	Update(ctx context.Context, goal *entity.Goal) error
}

// RegularPaymentRepository defines the interface for regular payment persistence operations.
type RegularPaymentRepository interface {
	// Create creates a new regular payment in the database.
	Create(ctx context.Context, payment *entity.RegularPayment) error

	// FindByID retrieves a regular payment by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RegularPayment, error)

	// FindByUser retrieves all non-deleted payments for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RegularPayment, error)

	// FindDueForReminder retrieves non-paused payments whose reminder window
	// has opened: nextDueDate - reminderDaysBefore <= now.
	FindDueForReminder(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.RegularPayment, error)

	// Update updates an existing regular payment in the database.
	Update(ctx context.Context, payment *entity.RegularPayment) error
}
