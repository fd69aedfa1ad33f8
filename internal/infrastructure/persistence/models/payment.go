package models

import (
	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/payment"
)

// PaymentModel is the persistence model for a checkout payment.
type PaymentModel struct {
	BaseModel
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	MemoryCardID    string         `gorm:"type:varchar(64);not null;index"`
	StripeSessionID string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Amount          int64          `gorm:"not null"`
	Currency        string         `gorm:"type:varchar(3);not null"`
	Status          payment.Status `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseEntity:      m.BaseModel.ToDomain(),
		UserID:          m.UserID,
		MemoryCardID:    m.MemoryCardID,
		StripeSessionID: m.StripeSessionID,
		Amount:          m.Amount,
		Currency:        m.Currency,
		Status:          m.Status,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		UserID:          p.UserID,
		MemoryCardID:    p.MemoryCardID,
		StripeSessionID: p.StripeSessionID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          p.Status,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
