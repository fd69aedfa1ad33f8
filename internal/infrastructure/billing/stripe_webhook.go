package billing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Stripe event types handled by the payment webhook
const (
	EventCheckoutSessionCompleted             = "checkout.session.completed"
	EventCheckoutSessionAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// WebhookEvent is a verified Stripe event. Session is set for checkout.session.* events.
type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSessionOutput
}

// ConstructWebhookEvent verifies the Stripe-Signature header and decodes the event
func (a *StripeAdapter) ConstructWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	if a.config.WebhookSecret == "" {
		return nil, fmt.Errorf("stripe: webhook secret is not configured")
	}

	event, err := webhook.ConstructEvent(payload, signature, a.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	out := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if strings.HasPrefix(out.Type, "checkout.session.") {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		out.Session = toCheckoutSessionOutput(&sess)
	}

	return out, nil
}
