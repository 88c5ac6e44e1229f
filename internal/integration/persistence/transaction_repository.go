package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
	"github.com/finance-assistant/bot/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Save(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// topExpenseRow is the raw aggregation row scanned from the group query.
type topExpenseRow struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
}

// TopExpenseCategories groups expense transactions since the given time by
// category and returns the top N totals in descending order.
func (r *transactionRepository) TopExpenseCategories(ctx context.Context, userID uuid.UUID, since time.Time, count int) ([]*entity.CategoryExpense, error) {
	var rows []topExpenseRow
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("transactions.category_id AS category_id, categories.name AS category_name, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Where("transactions.direction = ?", string(entity.DirectionExpense)).
		Where("transactions.is_error = ?", false).
		Where("transactions.date >= ?", since).
		Where("transactions.deleted_at IS NULL").
		Group("transactions.category_id, categories.name").
		Order("total DESC, category_id ASC").
		Limit(count).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	expenses := make([]*entity.CategoryExpense, len(rows))
	for i, row := range rows {
		expenses[i] = &entity.CategoryExpense{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Total:        row.Total,
		}
	}
	return expenses, nil
}

// FindByPeriod retrieves transactions within [from, to] ordered by date
// ascending, with categories attached.
func (r *transactionRepository) FindByPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.TransactionWithCategory, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Where("is_error = ?", false).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, created_at ASC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.TransactionWithCategory, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntityWithCategory()
	}
	return transactions, nil
}
