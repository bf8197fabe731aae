package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfillment lifecycle stage of an order, independent of its
// payment status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is a known fulfillment status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks the payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Sentinel errors for order validation.
var (
	ErrNotFound      = fmt.Errorf("order not found")
	ErrEmptyItems    = fmt.Errorf("order must contain at least one product")
	ErrEmailRequired = fmt.Errorf("email and total amount are required")
	ErrInvalidStatus = fmt.Errorf("invalid status value")
)

// ProductNotFoundError indicates a cart line references a missing product.
// Name carries the client-supplied item name for the error message.
type ProductNotFoundError struct {
	ProductID string
	Name      string
}

func (e *ProductNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("product not found: %s", e.Name)
	}
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// InsufficientStockError indicates a product's stock cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID string
	Name      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Name)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// LineItem is a snapshot of a cart line captured at order-creation time. It
// is stored as-is, not as a live reference to current product state.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`

	// Product is populated on reads for denormalized responses and is not
	// part of the stored snapshot.
	Product *ProductSummary `json:"-"`
}

// ProductSummary is the product view embedded in denormalized order responses.
type ProductSummary struct {
	ID    string
	Name  string
	Image string
}

// CustomerSummary is the user view embedded in denormalized order responses.
type CustomerSummary struct {
	ID    string
	Name  string
	Email string
}

// Address is the structured shipping destination of an order.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// Order represents a customer order. UserID is empty for guest checkout.
type Order struct {
	ID              string
	UserID          string
	Items           []LineItem
	ShippingAddress Address
	Email           string
	Phone           string
	TotalAmount     decimal.Decimal
	PaymentStatus   PaymentStatus
	Status          Status
	StripeSessionID string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// User is populated on reads when the order belongs to a registered user.
	User *CustomerSummary
}

// StatusUpdate carries the fields to change on an order. Nil means "leave
// unchanged"; the two axes are independent.
type StatusUpdate struct {
	Status        *Status
	PaymentStatus *PaymentStatus
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and decrements stock for every line item
	// inside a single transaction. Decrements are conditional: a line whose
	// product is missing or under-stocked fails the whole transaction with
	// ProductNotFoundError or InsufficientStockError, leaving stock untouched.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListAll(ctx context.Context, statusFilter Status) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, upd StatusUpdate) error
	// MarkPaidBySession flips the payment status of the order identified by
	// a checkout session to paid. Missing sessions are not an error.
	MarkPaidBySession(ctx context.Context, sessionID string) error
}
