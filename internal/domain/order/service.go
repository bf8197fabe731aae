package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequest holds the input for placing an order. TotalAmount is taken
// from the caller as-is; line-item snapshots (name, unit price) are likewise
// trusted, matching the storefront checkout contract.
type CreateRequest struct {
	UserID          string
	Items           []LineItem
	ShippingAddress Address
	Email           string
	Phone           string
	TotalAmount     decimal.Decimal
	StripeSessionID string
	PaymentStatus   PaymentStatus
	Status          Status
}

// Service encapsulates order placement and status management.
type Service struct {
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders, now: time.Now}
}

// Create validates the request, persists the order with stock decrements in
// one transaction, and returns the denormalized result.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.Email == "" || req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrEmailRequired
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = PaymentPending
	}
	if !ValidPaymentStatus(paymentStatus) {
		return nil, fmt.Errorf("%w: payment status %q", ErrInvalidStatus, paymentStatus)
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: order status %q", ErrInvalidStatus, status)
	}

	sessionID := req.StripeSessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("order-%d", s.now().UnixMilli())
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		Email:           req.Email,
		Phone:           req.Phone,
		TotalAmount:     req.TotalAmount.Round(2),
		PaymentStatus:   paymentStatus,
		Status:          status,
		StripeSessionID: sessionID,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	created, err := s.orders.GetByID(ctx, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load created order")
	}
	return created, nil
}

// UpdateStatus applies whichever status fields the update carries and returns
// the updated, denormalized order. Any known value may replace any other:
// there is no transition table on either axis.
func (s *Service) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*Order, error) {
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: order status %q", ErrInvalidStatus, *upd.Status)
	}
	if upd.PaymentStatus != nil && !ValidPaymentStatus(*upd.PaymentStatus) {
		return nil, fmt.Errorf("%w: payment status %q", ErrInvalidStatus, *upd.PaymentStatus)
	}

	if err := s.orders.UpdateStatus(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

// ListAll returns every order, newest first, optionally filtered by
// fulfillment status.
func (s *Service) ListAll(ctx context.Context, statusFilter Status) ([]Order, error) {
	if statusFilter != "" && !ValidStatus(statusFilter) {
		return nil, fmt.Errorf("%w: order status %q", ErrInvalidStatus, statusFilter)
	}
	return s.orders.ListAll(ctx, statusFilter)
}

// ListByUser returns the given user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ConfirmPayment marks the order created for the given checkout session as
// paid. Called from the payment webhook.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) error {
	return s.orders.MarkPaidBySession(ctx, sessionID)
}
