package memorycard

import "context"

// Repository persists memory cards in the hosted database
type Repository interface {
	// FindByID finds a card by ID regardless of owner
	FindByID(ctx context.Context, id string) (*MemoryCard, error)

	// FindByIDForUser finds a card by ID owned by userID
	FindByIDForUser(ctx context.Context, id, userID string) (*MemoryCard, error)

	// FindByUser returns the user's cards, newest first
	FindByUser(ctx context.Context, userID string) ([]*MemoryCard, error)

	// Save inserts the card or updates it in place when the ID exists
	Save(ctx context.Context, card *MemoryCard) error

	// DeleteForUser removes a card owned by userID
	DeleteForUser(ctx context.Context, id, userID string) error

	// MarkPaid sets is_paid on the card
	MarkPaid(ctx context.Context, id string) error
}
