package payment

import (
	"context"
	"fmt"

	"github.com/eclora/eclora-api/internal/domain/order"
)

var _ Client = (*DemoClient)(nil)

// DemoClient stands in when no Stripe key is configured. Checkout redirects
// straight to the success page and webhooks are never produced.
type DemoClient struct {
	clientURL string
}

// NewDemoClient returns a DemoClient redirecting to the given storefront URL.
func NewDemoClient(clientURL string) *DemoClient {
	return &DemoClient{clientURL: clientURL}
}

func (d *DemoClient) CreateCheckoutSession(_ context.Context, o *order.Order) (*CheckoutSession, error) {
	id := "demo_" + o.ID
	return &CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("%s/success?session_id=%s", d.clientURL, id),
	}, nil
}

func (d *DemoClient) VerifyWebhook([]byte, string) (*Event, error) {
	return nil, nil
}
