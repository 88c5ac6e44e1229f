package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/application/adapter"
	"github.com/finance-assistant/bot/internal/domain/entity"
	domainerror "github.com/finance-assistant/bot/internal/domain/error"
	"github.com/finance-assistant/bot/internal/integration/persistence/model"
)

// regularPaymentRepository implements the adapter.RegularPaymentRepository interface.
type regularPaymentRepository struct {
	db *gorm.DB
}

// NewRegularPaymentRepository creates a new regular payment repository instance.
func NewRegularPaymentRepository(db *gorm.DB) adapter.RegularPaymentRepository {
	return &regularPaymentRepository{
		db: db,
	}
}

// Create creates a new regular payment in the database.
func (r *regularPaymentRepository) Create(ctx context.Context, payment *entity.RegularPayment) error {
	paymentModel := model.RegularPaymentFromEntity(payment)
	result := r.db.WithContext(ctx).Create(paymentModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a regular payment by its ID.
func (r *regularPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RegularPayment, error) {
	var paymentModel model.RegularPaymentModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&paymentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPaymentNotFound
		}
		return nil, result.Error
	}
	return paymentModel.ToEntity(), nil
}

// FindByUser retrieves all non-deleted payments for a user.
func (r *regularPaymentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RegularPayment, error) {
	var paymentModels []model.RegularPaymentModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("next_due_date ASC").
		Find(&paymentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	payments := make([]*entity.RegularPayment, len(paymentModels))
	for i, pm := range paymentModels {
		payments[i] = pm.ToEntity()
	}
	return payments, nil
}

// FindDueForReminder retrieves non-paused payments whose reminder window has
// opened: nextDueDate - reminderDaysBefore <= now.
func (r *regularPaymentRepository) FindDueForReminder(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.RegularPayment, error) {
	var paymentModels []model.RegularPaymentModel

	// Each payment carries its own reminder offset, so the exact window check
	// happens in Go; the query only cuts off payments due far in the future.
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_paused = ?", userID, false).
		Where("next_due_date <= ?", now.AddDate(0, 1, 0)).
		Order("next_due_date ASC").
		Find(&paymentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	payments := make([]*entity.RegularPayment, 0, len(paymentModels))
	for _, pm := range paymentModels {
		p := pm.ToEntity()
		window := p.NextDueDate.AddDate(0, 0, -p.ReminderDaysBefore)
		if !window.After(now) {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// Update updates an existing regular payment in the database.
func (r *regularPaymentRepository) Update(ctx context.Context, payment *entity.RegularPayment) error {
	paymentModel := model.RegularPaymentFromEntity(payment)
	result := r.db.WithContext(ctx).Save(paymentModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
