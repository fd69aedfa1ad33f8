package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apppayment "github.com/memoriascard/backend/internal/application/payment"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// StripeWebhookHandler handles Stripe webhook endpoints
// These endpoints are called by Stripe and do not require authentication
type StripeWebhookHandler struct {
	BaseHandler
	payments PaymentUseCases
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(payments PaymentUseCases) *StripeWebhookHandler {
	return &StripeWebhookHandler{payments: payments}
}

// StripeWebhookResponse represents the response for Stripe webhook
type StripeWebhookResponse struct {
	Received  bool   `json:"received"`
	Processed bool   `json:"processed"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HandleStripeWebhook verifies and applies a Stripe event. Failures while
// applying a verified event answer 500 so Stripe delivers it again.
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Message: "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{
			Message: "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Message: "Missing Stripe-Signature header",
		})
		return
	}

	result, err := h.payments.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, apppayment.ErrInvalidWebhook) {
			c.JSON(http.StatusBadRequest, StripeWebhookResponse{
				Message: "Webhook signature verification failed",
			})
			return
		}
		// Don't expose internal error details
		c.JSON(http.StatusInternalServerError, StripeWebhookResponse{
			Received: true,
			Message:  "Webhook received but processing failed",
		})
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:  true,
		Processed: result.Processed,
		EventID:   result.EventID,
		EventType: result.EventType,
		Message:   result.Message,
	})
}
