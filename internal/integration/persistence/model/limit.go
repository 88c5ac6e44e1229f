package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

// LimitModel represents the limits table in the database.
type LimitModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_limits_user_category"`
	CategoryID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_limits_user_category"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SpentAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PeriodStart      time.Time       `gorm:"not null"`
	LastWarningLevel int             `gorm:"default:0"`
	IsBlocked        bool            `gorm:"default:false"`
	BlockedUntil     *time.Time      `gorm:"type:timestamp"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
	User     *UserModel     `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for the LimitModel.
func (LimitModel) TableName() string {
	return "limits"
}

// ToEntity converts a LimitModel to a domain Limit entity.
func (m *LimitModel) ToEntity() *entity.Limit {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Limit{
		ID:               m.ID,
		UserID:           m.UserID,
		CategoryID:       m.CategoryID,
		Amount:           m.Amount,
		SpentAmount:      m.SpentAmount,
		PeriodStart:      m.PeriodStart,
		LastWarningLevel: m.LastWarningLevel,
		IsBlocked:        m.IsBlocked,
		BlockedUntil:     m.BlockedUntil,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}

// LimitFromEntity creates a LimitModel from a domain Limit entity.
func LimitFromEntity(limit *entity.Limit) *LimitModel {
	var deletedAt gorm.DeletedAt
	if limit.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *limit.DeletedAt, Valid: true}
	}

	return &LimitModel{
		ID:               limit.ID,
		UserID:           limit.UserID,
		CategoryID:       limit.CategoryID,
		Amount:           limit.Amount,
		SpentAmount:      limit.SpentAmount,
		PeriodStart:      limit.PeriodStart,
		LastWarningLevel: limit.LastWarningLevel,
		IsBlocked:        limit.IsBlocked,
		BlockedUntil:     limit.BlockedUntil,
		CreatedAt:        limit.CreatedAt,
		UpdatedAt:        limit.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}
