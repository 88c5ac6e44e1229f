// Package persistencetest opens throwaway in-memory databases for tests.
package persistencetest

import (
	"database/sql"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-assistant/bot/internal/integration/persistence/model"
)

// Open returns a gorm connection to a fresh in-memory sqlite database with
// the full schema migrated. The database dies with the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	err = db.AutoMigrate(
		&model.UserModel{},
		&model.AccountModel{},
		&model.CategoryModel{},
		&model.TransactionModel{},
		&model.LimitModel{},
		&model.DebtModel{},
		&model.GoalModel{},
		&model.RegularPaymentModel{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}
