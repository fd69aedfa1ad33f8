package payment

import "github.com/memoriascard/backend/internal/domain/shared"

// Payment flow errors
var (
	ErrCardAlreadyPaid  = shared.NewDomainError("CARD_ALREADY_PAID", "Memory card is already paid")
	ErrSessionMismatch  = shared.NewDomainError("PAYMENT_SESSION_FORBIDDEN", "Checkout session belongs to another user")
	ErrSessionRequired  = shared.NewDomainError("SESSION_ID_REQUIRED", "Session ID is required")
	ErrCardIDRequired   = shared.NewDomainError("CARD_ID_REQUIRED", "Card ID is required")
	ErrReturnInProgress = shared.NewDomainError("PAYMENT_RETURN_IN_PROGRESS", "Payment return is already being processed")
	ErrInvalidReturn    = shared.NewDomainError("INVALID_PAYMENT_RETURN", "Unknown payment return state")
	ErrInvalidWebhook   = shared.NewDomainError("INVALID_WEBHOOK_SIGNATURE", "Webhook signature verification failed")
)
