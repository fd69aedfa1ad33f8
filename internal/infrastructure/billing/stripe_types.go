package billing

import (
	"github.com/google/uuid"
)

// CheckoutPaymentStatus is the payment status Stripe reports for a checkout session
type CheckoutPaymentStatus string

const (
	// CheckoutPaymentStatusPaid means the funds are available
	CheckoutPaymentStatusPaid CheckoutPaymentStatus = "paid"

	// CheckoutPaymentStatusUnpaid means the payment is not yet complete
	CheckoutPaymentStatusUnpaid CheckoutPaymentStatus = "unpaid"

	// CheckoutPaymentStatusNoPaymentRequired means the session needed no payment
	CheckoutPaymentStatusNoPaymentRequired CheckoutPaymentStatus = "no_payment_required"
)

// String returns the string representation of CheckoutPaymentStatus
func (s CheckoutPaymentStatus) String() string {
	return string(s)
}

// IsPaid returns true only when Stripe confirmed the payment
func (s CheckoutPaymentStatus) IsPaid() bool {
	return s == CheckoutPaymentStatusPaid
}

// FindOrCreateCustomerInput identifies the customer a checkout is opened for
type FindOrCreateCustomerInput struct {
	UserID uuid.UUID
	Email  string
}

// CreateCheckoutSessionInput contains input for opening a checkout session for one card
type CreateCheckoutSessionInput struct {
	CustomerID string
	UserID     uuid.UUID
	CardID     string
	EventName  string
	PersonName string
	SuccessURL string
	CancelURL  string
}

// CheckoutSessionOutput contains a checkout session as reported by Stripe
type CheckoutSessionOutput struct {
	SessionID     string
	URL           string
	CustomerID    string
	PaymentStatus CheckoutPaymentStatus
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

// CardID returns the card the session was opened for
func (o *CheckoutSessionOutput) CardID() string {
	if o.Metadata == nil {
		return ""
	}
	return o.Metadata[MetadataCardID]
}

// UserID returns the user that opened the session
func (o *CheckoutSessionOutput) UserID() string {
	if o.Metadata == nil {
		return ""
	}
	return o.Metadata[MetadataUserID]
}

// Metadata keys stamped on customers and sessions
const (
	MetadataUserID = "user_id"
	MetadataCardID = "card_id"
)
