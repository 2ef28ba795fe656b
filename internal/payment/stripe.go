package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

const (
	productName        = "Premium Dad Jokes - Lifetime Access"
	productDescription = "Unlock unlimited access to the finest, corniest dad jokes known to mankind! 🤣"
)

// StripeProvider implements CheckoutProvider against Stripe Checkout.
type StripeProvider struct {
	baseURL string
}

var _ CheckoutProvider = (*StripeProvider)(nil)

// NewStripeProvider sets the API key globally, as stripe-go expects.
// baseURL is this service's public base URL for success/cancel redirects.
func NewStripeProvider(secretKey, baseURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{baseURL: baseURL}
}

func (p *StripeProvider) CreateSession(ctx context.Context, phone string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(PriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(productName),
					Description: stripe.String(productDescription),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:             stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:       stripe.String(p.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:        stripe.String(p.baseURL + "/cancel"),
		CustomerCreation: stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
	}
	params.Context = ctx
	params.AddMetadata("phone", phone)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return fromStripe(s), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session %s: %w", id, err)
	}
	return fromStripe(s), nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:          s.ID,
		URL:         s.URL,
		AmountTotal: s.AmountTotal,
	}
	if s.Metadata != nil {
		out.Phone = s.Metadata["phone"]
	}
	if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out
}
