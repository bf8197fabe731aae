// Package payment wraps the Stripe checkout boundary. Orders are created
// before checkout; the webhook flips them to paid once Stripe confirms.
package payment

import (
	"context"

	"github.com/eclora/eclora-api/internal/domain/order"
)

// CheckoutSession is the client-facing result of starting a checkout.
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified payment notification.
type Event struct {
	// SessionID is set when the event completes a checkout session.
	SessionID string
}

// Client creates checkout sessions and verifies incoming webhooks.
type Client interface {
	// CreateCheckoutSession starts a hosted checkout for the given order.
	CreateCheckoutSession(ctx context.Context, o *order.Order) (*CheckoutSession, error)
	// VerifyWebhook authenticates a raw webhook payload and returns the
	// event when it marks a session complete, or nil for events we ignore.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
