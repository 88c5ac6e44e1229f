package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	"github.com/finance-assistant/bot/internal/integration/persistence/model"
)

// limitRepository implements the adapter.LimitRepository interface.
type limitRepository struct {
	db *gorm.DB
}

// NewLimitRepository creates a new limit repository instance.
func NewLimitRepository(db *gorm.DB) adapter.LimitRepository {
	return &limitRepository{
		db: db,
	}
}

// Create creates a new limit in the database.
func (r *limitRepository) Create(ctx context.Context, limit *entity.Limit) error {
	limitModel := model.LimitFromEntity(limit)
	result := r.db.WithContext(ctx).Create(limitModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByUserAndCategory retrieves the limit for a (user, category) pair.
func (r *limitRepository) FindByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*entity.Limit, error) {
	var limitModel model.LimitModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&limitModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return limitModel.ToEntity(), nil
}

// FindByUser retrieves all limits for a user.
func (r *limitRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Limit, error) {
	var limitModels []model.LimitModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&limitModels)
	if result.Error != nil {
		return nil, result.Error
	}

	limits := make([]*entity.Limit, len(limitModels))
	for i, lm := range limitModels {
		limits[i] = lm.ToEntity()
	}
	return limits, nil
}

// Update updates an existing limit in the database.
func (r *limitRepository) Update(ctx context.Context, limit *entity.Limit) error {
	limitModel := model.LimitFromEntity(limit)
	result := r.db.WithContext(ctx).Save(limitModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
