package payment

import "context"

// PriceCents is the one-time unlock price.
const PriceCents int64 = 299

// Session is the slice of a hosted checkout session this service reads.
type Session struct {
	ID            string
	URL           string
	Phone         string
	AmountTotal   int64
	CustomerEmail string
}

// CheckoutProvider creates and retrieves hosted checkout sessions.
type CheckoutProvider interface {
	// CreateSession opens a new one-time-payment session scoped to the
	// given phone identity.
	CreateSession(ctx context.Context, phone string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
