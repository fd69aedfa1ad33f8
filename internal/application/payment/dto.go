package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/payment"
)

// Values of the payment query parameter on the checkout return URL
const (
	ReturnSuccess  = "success"
	ReturnCanceled = "canceled"
)

// CheckoutResult is returned after a checkout session was opened
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// VerifyResult reports a checkout session's payment status
type VerifyResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	CardID  string `json:"cardId,omitempty"`
}

// ReturnInput carries the query parameters of the checkout return URL
type ReturnInput struct {
	Payment   string `json:"payment"`
	SessionID string `json:"session_id"`
	CardID    string `json:"card_id"`
}

// ReturnResult is the outcome of handling a checkout return
type ReturnResult struct {
	Canceled bool          `json:"canceled"`
	CardID   string        `json:"cardId,omitempty"`
	Verified *VerifyResult `json:"verified,omitempty"`
	Replayed bool          `json:"replayed"` // answered from the ledger without calling the processor
}

// WebhookResult reports what a processor callback did
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// HistoryItem is one row of the user's payment history
type HistoryItem struct {
	ID              uuid.UUID      `json:"id"`
	MemoryCardID    string         `json:"memoryCardId"`
	EventName       string         `json:"eventName"`
	PersonName      string         `json:"personName"`
	Amount          int64          `json:"amount"`
	AmountFormatted string         `json:"amountFormatted"`
	Currency        string         `json:"currency"`
	Status          payment.Status `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// ToHistoryItem converts a payment summary for display
func ToHistoryItem(s payment.Summary) HistoryItem {
	return HistoryItem{
		ID:              s.ID,
		MemoryCardID:    s.MemoryCardID,
		EventName:       s.EventName,
		PersonName:      s.PersonName,
		Amount:          s.Amount,
		AmountFormatted: FormatAmount(s.Amount, s.Currency),
		Currency:        s.Currency,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
	}
}
