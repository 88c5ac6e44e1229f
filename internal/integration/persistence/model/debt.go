package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

// DebtModel represents the debts table in the database.
type DebtModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PersonName      string          `gorm:"type:varchar(255);not null"`
	Direction       string          `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate         *time.Time      `gorm:"type:date;index"`
	IsPaid          bool            `gorm:"default:false;index"`
	PaidAt          *time.Time      `gorm:"type:timestamp"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	User *UserModel `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for the DebtModel.
func (DebtModel) TableName() string {
	return "debts"
}

// ToEntity converts a DebtModel to a domain Debt entity.
func (m *DebtModel) ToEntity() *entity.Debt {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Debt{
		ID:              m.ID,
		UserID:          m.UserID,
		PersonName:      m.PersonName,
		Direction:       entity.DebtDirection(m.Direction),
		Amount:          m.Amount,
		RemainingAmount: m.RemainingAmount,
		DueDate:         m.DueDate,
		IsPaid:          m.IsPaid,
		PaidAt:          m.PaidAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}

// DebtFromEntity creates a DebtModel from a domain Debt entity.
func DebtFromEntity(debt *entity.Debt) *DebtModel {
	var deletedAt gorm.DeletedAt
	if debt.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *debt.DeletedAt, Valid: true}
	}

	return &DebtModel{
		ID:              debt.ID,
		UserID:          debt.UserID,
		PersonName:      debt.PersonName,
		Direction:       string(debt.Direction),
		Amount:          debt.Amount,
		RemainingAmount: debt.RemainingAmount,
		DueDate:         debt.DueDate,
		IsPaid:          debt.IsPaid,
		PaidAt:          debt.PaidAt,
		CreatedAt:       debt.CreatedAt,
		UpdatedAt:       debt.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}
