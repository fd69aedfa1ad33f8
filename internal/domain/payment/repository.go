package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/shared"
)

// Summary is a payment joined with the card it unlocked
type Summary struct {
	ID           uuid.UUID
	MemoryCardID string
	EventName    string
	PersonName   string
	Amount       int64
	Currency     string
	Status       Status
	CreatedAt    time.Time
}

// Repository persists payments
type Repository interface {
	// Create stores a new payment
	Create(ctx context.Context, p *Payment) error

	// FindBySessionID finds the payment opened for a checkout session
	FindBySessionID(ctx context.Context, sessionID string) (*Payment, error)

	// MarkPaidBySession moves the session's payment owned by userID to paid
	MarkPaidBySession(ctx context.Context, sessionID string, userID uuid.UUID) error

	// ListByUser returns the user's payments with card details, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Summary, int64, error)
}
