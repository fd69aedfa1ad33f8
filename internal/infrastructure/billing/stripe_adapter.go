package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"go.uber.org/zap"
)

const (
	productNameFormat        = "Cartão de Memória: %s"
	productDescriptionFormat = "Celebração para %s"
)

// StripeAdapter opens and inspects one-off Stripe Checkout sessions that unlock memory cards
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// UnitAmount returns the configured price in minor units
func (a *StripeAdapter) UnitAmount() int64 {
	return a.config.UnitAmount
}

// Currency returns the configured lowercase currency code
func (a *StripeAdapter) Currency() string {
	return strings.ToLower(a.config.Currency)
}

// FindOrCreateCustomer returns the first Stripe customer registered with the email,
// creating one tagged with the user ID when none exists
func (a *StripeAdapter) FindOrCreateCustomer(ctx context.Context, input FindOrCreateCustomerInput) (string, error) {
	if strings.TrimSpace(input.Email) == "" {
		return "", fmt.Errorf("stripe: customer email is required")
	}

	a.logger.Debug("Looking up Stripe customer",
		zap.String("user_id", input.UserID.String()),
		zap.String("email", input.Email))

	listParams := &stripe.CustomerListParams{
		Email: stripe.String(input.Email),
	}
	listParams.Limit = stripe.Int64(1)

	iter := customer.List(listParams)
	if iter.Next() {
		cust := iter.Customer()
		a.logger.Debug("Found existing Stripe customer",
			zap.String("user_id", input.UserID.String()),
			zap.String("customer_id", cust.ID))
		return cust.ID, nil
	}
	if err := iter.Err(); err != nil {
		a.logger.Error("Failed to list Stripe customers",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to list customers: %w", err)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
	}
	params.AddMetadata(MetadataUserID, input.UserID.String())

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("user_id", input.UserID.String()),
		zap.String("customer_id", cust.ID))

	return cust.ID, nil
}

// CreateCheckoutSession opens a payment-mode checkout session with a single
// line item priced at the configured unit amount
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, input CreateCheckoutSessionInput) (*CheckoutSessionOutput, error) {
	if input.CardID == "" {
		return nil, fmt.Errorf("stripe: card ID is required")
	}

	a.logger.Debug("Creating Stripe checkout session",
		zap.String("user_id", input.UserID.String()),
		zap.String("card_id", input.CardID),
		zap.String("customer_id", input.CustomerID))

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(input.CardID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(a.Currency()),
					UnitAmount: stripe.Int64(a.config.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf(productNameFormat, input.EventName)),
						Description: stripe.String(fmt.Sprintf(productDescriptionFormat, input.PersonName)),
						Metadata: map[string]string{
							MetadataCardID: input.CardID,
						},
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(input.SuccessURL),
		CancelURL:  stripe.String(input.CancelURL),
	}
	if input.CustomerID != "" {
		params.Customer = stripe.String(input.CustomerID)
	}
	params.AddMetadata(MetadataCardID, input.CardID)
	params.AddMetadata(MetadataUserID, input.UserID.String())

	sess, err := session.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe checkout session",
			zap.String("card_id", input.CardID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created Stripe checkout session",
		zap.String("card_id", input.CardID),
		zap.String("session_id", sess.ID))

	return toCheckoutSessionOutput(sess), nil
}

// GetCheckoutSession retrieves a checkout session and its payment status
func (a *StripeAdapter) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionOutput, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("stripe: session ID is required")
	}

	a.logger.Debug("Getting Stripe checkout session", zap.String("session_id", sessionID))

	sess, err := session.Get(sessionID, nil)
	if err != nil {
		a.logger.Error("Failed to get Stripe checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get checkout session: %w", err)
	}

	return toCheckoutSessionOutput(sess), nil
}

func toCheckoutSessionOutput(sess *stripe.CheckoutSession) *CheckoutSessionOutput {
	out := &CheckoutSessionOutput{
		SessionID:     sess.ID,
		URL:           sess.URL,
		PaymentStatus: CheckoutPaymentStatus(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	return out
}
