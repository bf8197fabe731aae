package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	created   *Order
	createErr error
	updated   map[string]StatusUpdate
	byID      map[string]*Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		updated: make(map[string]StatusUpdate),
		byID:    make(map[string]*Order),
	}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = o
	m.byID[o.ID] = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListAll(context.Context, Status) ([]Order, error)    { return nil, nil }
func (m *mockOrderRepo) ListByUser(context.Context, string) ([]Order, error) { return nil, nil }

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, upd StatusUpdate) error {
	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.updated[id] = upd
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		o.PaymentStatus = *upd.PaymentStatus
	}
	return nil
}

func (m *mockOrderRepo) MarkPaidBySession(context.Context, string) error { return nil }

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func validRequest() CreateRequest {
	return CreateRequest{
		Items: []LineItem{
			{ProductID: "p1", Name: "Lavender Candle", Price: dec("19.99"), Quantity: 2},
			{ProductID: "p2", Name: "Rose Diffuser", Price: dec("34.50"), Quantity: 1},
		},
		ShippingAddress: Address{
			FirstName: "Ada", LastName: "Lovelace",
			Address: "12 Analytical Ln", City: "London", Country: "UK",
		},
		Email:       "ada@example.com",
		TotalAmount: dec("74.48"),
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{name: "valid request"},
		{
			name:    "empty items",
			mutate:  func(r *CreateRequest) { r.Items = nil },
			wantErr: ErrEmptyItems,
		},
		{
			name:    "missing email",
			mutate:  func(r *CreateRequest) { r.Email = "" },
			wantErr: ErrEmailRequired,
		},
		{
			name:    "zero total",
			mutate:  func(r *CreateRequest) { r.TotalAmount = decimal.Zero },
			wantErr: ErrEmailRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockOrderRepo()
			svc := NewService(repo)

			req := validRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			got, err := svc.Create(context.Background(), req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, repo.created, "no order persisted on validation failure")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, PaymentPending, got.PaymentStatus)
			assert.Equal(t, StatusPending, got.Status)
			assert.Len(t, got.Items, 2)
			assert.True(t, dec("74.48").Equal(got.TotalAmount))
		})
	}
}

func TestService_CreateNonPositiveQuantity(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	req := validRequest()
	req.Items[1].Quantity = 0

	_, err := svc.Create(context.Background(), req)

	var qtyErr *InvalidQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, "p2", qtyErr.ProductID)
	assert.Nil(t, repo.created)
}

func TestService_CreateDemoCheckoutMarksPaid(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	req := validRequest()
	req.PaymentStatus = PaymentPaid

	got, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
}

func TestService_CreateGeneratesSessionMarker(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	got, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Contains(t, got.StripeSessionID, "order-",
		"orders without an external session get a generated marker")
}

func TestService_CreatePropagatesStockErrors(t *testing.T) {
	repo := newMockOrderRepo()
	repo.createErr = &InsufficientStockError{ProductID: "p1", Name: "Lavender Candle"}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Lavender Candle", stockErr.Name)
}

func TestService_UpdateStatus(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	shipped := StatusShipped
	paid := PaymentPaid
	got, err := svc.UpdateStatus(context.Background(), created.ID, StatusUpdate{
		Status:        &shipped,
		PaymentStatus: &paid,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got.Status)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
}

func TestService_UpdateStatusPartial(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Only the payment axis changes; fulfillment stays put.
	paid := PaymentPaid
	got, err := svc.UpdateStatus(context.Background(), created.ID, StatusUpdate{PaymentStatus: &paid})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
}

func TestService_UpdateStatusNoTerminalProtection(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	delivered := StatusDelivered
	_, err = svc.UpdateStatus(context.Background(), created.ID, StatusUpdate{Status: &delivered})
	require.NoError(t, err)

	// Delivered orders can be reverted; both axes are fully permissive.
	pending := StatusPending
	got, err := svc.UpdateStatus(context.Background(), created.ID, StatusUpdate{Status: &pending})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestService_UpdateStatusValidation(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	bogus := Status("teleported")
	_, err := svc.UpdateStatus(context.Background(), "some-id", StatusUpdate{Status: &bogus})
	require.Error(t, err)

	badPay := PaymentStatus("iou")
	_, err = svc.UpdateStatus(context.Background(), "some-id", StatusUpdate{PaymentStatus: &badPay})
	require.Error(t, err)
}

func TestService_UpdateStatusNotFound(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo)

	shipped := StatusShipped
	_, err := svc.UpdateStatus(context.Background(), "missing", StatusUpdate{Status: &shipped})

	require.ErrorIs(t, err, ErrNotFound)
}
