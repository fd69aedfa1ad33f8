package payment

import (
	"context"

	"github.com/memoriascard/backend/internal/infrastructure/billing"
)

// Checkout is the payment processor as the payment service uses it
type Checkout interface {
	UnitAmount() int64
	Currency() string
	FindOrCreateCustomer(ctx context.Context, input billing.FindOrCreateCustomerInput) (string, error)
	CreateCheckoutSession(ctx context.Context, input billing.CreateCheckoutSessionInput) (*billing.CheckoutSessionOutput, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSessionOutput, error)
}

// WebhookVerifier checks the signature of processor callbacks
type WebhookVerifier interface {
	ConstructWebhookEvent(payload []byte, signature string) (*billing.WebhookEvent, error)
}

var (
	_ Checkout        = (*billing.StripeAdapter)(nil)
	_ WebhookVerifier = (*billing.StripeAdapter)(nil)
)
