package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/application/adapter"
)

// gormUnitOfWork implements adapter.UnitOfWork on top of a gorm transaction.
type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work backed by the given database.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &gormUnitOfWork{
		db: db,
	}
}

// Run executes fn inside one database transaction. The repositories handed
// to fn are bound to that transaction; an error from fn rolls everything
// back.
func (u *gormUnitOfWork) Run(ctx context.Context, fn func(repos adapter.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(adapter.TxRepositories{
			Accounts:     NewAccountRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Goals:        NewGoalRepository(tx),
		})
	})
}
