package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeCheckout creates subscription checkout sessions. Prices maps plan
// ids to Stripe price ids.
type StripeCheckout struct {
	prices     map[string]string
	successURL string
	cancelURL  string
}

var _ Checkout = (*StripeCheckout)(nil)

func NewStripeCheckout(secretKey string, prices map[string]string, successURL, cancelURL string) *StripeCheckout {
	stripe.Key = secretKey
	return &StripeCheckout{prices: prices, successURL: successURL, cancelURL: cancelURL}
}

func (c *StripeCheckout) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	priceID := c.prices[req.PlanID]
	if priceID == "" {
		return "", fmt.Errorf("%w: price not configured for plan %s", ErrBadRequest, req.PlanID)
	}

	metadata := map[string]string{
		"athleteId": req.AthleteID,
		"plan":      req.PlanID,
		"userId":    req.UserID,
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(c.successURL),
		CancelURL:         stripe.String(c.cancelURL),
		ClientReferenceID: stripe.String(req.AthleteID),
		Metadata:          metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	session, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}
