package services

import (
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// LineItem is a priced plan + quantity pair submitted to the payment gateway.
type LineItem struct {
	PriceID  string
	Quantity int64
}

// SessionHandle identifies an externally hosted checkout flow.
type SessionHandle struct {
	ID  string
	URL string
}

// PaymentGateway wraps the payment provider's session-creation and webhook
// verification APIs so the checkout workflow can be exercised without a live
// provider.
type PaymentGateway interface {
	CreateCheckoutSession(userID string, items []LineItem, successURL, cancelURL string) (*SessionHandle, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

type StripeService struct {
	WebhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{WebhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a subscription-mode Checkout session. The user
// id travels both as the client reference and in the metadata bag so the
// webhook can recover the purchasing user without a database join.
func (s *StripeService) CreateCheckoutSession(userID string, items []LineItem, successURL, cancelURL string) (*SessionHandle, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("line items must not be empty")
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "paypal"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
		ClientReferenceID:  stripe.String(userID),
	}
	params.AddMetadata("user_id", userID)

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &SessionHandle{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the endpoint
// secret and parses the event envelope. The payload must be the raw,
// unparsed request body.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
}
