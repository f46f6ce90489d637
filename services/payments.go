package services

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
)

// CheckoutInput describes the single line item of a contest entry purchase.
// EntryFee is in major currency units; the provider receives minor units.
type CheckoutInput struct {
	ContestID   string
	ContestName string
	EntryFee    int64
	Email       string
}

// SessionResult is what settlement needs from a checkout session: whether the
// payment went through, the transaction id to key the order on, and the
// metadata planted at session creation.
type SessionResult struct {
	Complete      bool
	TransactionID string
	ContestID     string
	Email         string
}

// PaymentProvider is the external payment collaborator. The production
// implementation is Stripe; tests substitute a fake.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, input CheckoutInput) (redirectURL string, err error)
	GetSession(ctx context.Context, sessionID string) (*SessionResult, error)
}

// StripeProvider creates and retrieves Stripe checkout sessions.
type StripeProvider struct {
	successURL string
	cancelURL  string
}

func NewStripeProvider(secretKey, successURL, cancelURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{successURL: successURL, cancelURL: cancelURL}
}

// CreateCheckoutSession builds a one-item payment session carrying the
// contest id and participant email as metadata for later settlement.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, input CheckoutInput) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.ContestName),
					},
					UnitAmount: stripe.Int64(input.EntryFee * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(input.Email),
		SuccessURL:    stripe.String(p.successURL),
		CancelURL:     stripe.String(p.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("contestId", input.ContestID)
	params.AddMetadata("email", input.Email)

	checkoutSession, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}
	return checkoutSession.URL, nil
}

// GetSession retrieves a session's state and metadata by id.
func (p *StripeProvider) GetSession(ctx context.Context, sessionID string) (*SessionResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	checkoutSession, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieving checkout session: %w", err)
	}

	result := &SessionResult{
		Complete:  checkoutSession.Status == stripe.CheckoutSessionStatusComplete,
		ContestID: checkoutSession.Metadata["contestId"],
		Email:     checkoutSession.Metadata["email"],
	}
	if checkoutSession.PaymentIntent != nil {
		result.TransactionID = checkoutSession.PaymentIntent.ID
	}
	return result, nil
}
