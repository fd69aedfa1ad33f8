package payment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/shared"
)

// Status represents the lifecycle of a checkout payment
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid:
		return true
	default:
		return false
	}
}

// Payment records one checkout session opened to unlock a memory card
type Payment struct {
	shared.BaseEntity
	UserID          uuid.UUID
	MemoryCardID    string
	StripeSessionID string
	Amount          int64 // minor units
	Currency        string
	Status          Status
}

// NewPendingPayment creates the payment row written when a checkout session is opened
func NewPendingPayment(userID uuid.UUID, cardID, sessionID string, amount int64, currency string) (*Payment, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if strings.TrimSpace(cardID) == "" {
		return nil, shared.NewDomainError("INVALID_CARD_ID", "Card ID cannot be empty")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, shared.NewDomainError("INVALID_SESSION_ID", "Checkout session ID cannot be empty")
	}
	if amount <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if strings.TrimSpace(currency) == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	return &Payment{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		MemoryCardID:    cardID,
		StripeSessionID: sessionID,
		Amount:          amount,
		Currency:        strings.ToLower(currency),
		Status:          StatusPending,
	}, nil
}

// MarkPaid moves the payment to paid. Calling it on a paid payment is a no-op.
func (p *Payment) MarkPaid() {
	if p.Status == StatusPaid {
		return
	}
	p.Status = StatusPaid
	p.Touch()
}

// IsPaid reports whether the processor confirmed the payment
func (p *Payment) IsPaid() bool {
	return p.Status == StatusPaid
}
