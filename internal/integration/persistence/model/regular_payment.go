package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

// RegularPaymentModel represents the regular_payments table in the database.
type RegularPaymentModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name               string          `gorm:"type:varchar(255);not null"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Frequency          string          `gorm:"type:varchar(10);not null"`
	DayOfMonth         *int            `gorm:"type:integer"`
	IsPaused           bool            `gorm:"default:false;index"`
	LastPaidDate       *time.Time      `gorm:"type:timestamp"`
	NextDueDate        time.Time       `gorm:"not null;index"`
	ReminderDaysBefore int             `gorm:"default:1"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
	DeletedAt          gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	User *UserModel `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for the RegularPaymentModel.
func (RegularPaymentModel) TableName() string {
	return "regular_payments"
}

// ToEntity converts a RegularPaymentModel to a domain RegularPayment entity.
func (m *RegularPaymentModel) ToEntity() *entity.RegularPayment {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.RegularPayment{
		ID:                 m.ID,
		UserID:             m.UserID,
		Name:               m.Name,
		Amount:             m.Amount,
		Frequency:          entity.Frequency(m.Frequency),
		DayOfMonth:         m.DayOfMonth,
		IsPaused:           m.IsPaused,
		LastPaidDate:       m.LastPaidDate,
		NextDueDate:        m.NextDueDate,
		ReminderDaysBefore: m.ReminderDaysBefore,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}

// RegularPaymentFromEntity creates a RegularPaymentModel from a domain
// RegularPayment entity.
func RegularPaymentFromEntity(payment *entity.RegularPayment) *RegularPaymentModel {
	var deletedAt gorm.DeletedAt
	if payment.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *payment.DeletedAt, Valid: true}
	}

	return &RegularPaymentModel{
		ID:                 payment.ID,
		UserID:             payment.UserID,
		Name:               payment.Name,
		Amount:             payment.Amount,
		Frequency:          string(payment.Frequency),
		DayOfMonth:         payment.DayOfMonth,
		IsPaused:           payment.IsPaused,
		LastPaidDate:       payment.LastPaidDate,
		NextDueDate:        payment.NextDueDate,
		ReminderDaysBefore: payment.ReminderDaysBefore,
		CreatedAt:          payment.CreatedAt,
		UpdatedAt:          payment.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}
