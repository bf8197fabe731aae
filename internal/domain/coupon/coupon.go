package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the order total.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount capped at the order total.
	DiscountFixed DiscountType = "fixed"
)

// ValidDiscountType reports whether t is a known discount type.
func ValidDiscountType(t DiscountType) bool {
	return t == DiscountPercentage || t == DiscountFixed
}

var (
	// ErrNotFound is returned when no coupon matches the given code.
	ErrNotFound = errors.New("coupon not found")
	// ErrDuplicateCode is returned when creating or renaming a coupon to a
	// code that already exists.
	ErrDuplicateCode = errors.New("coupon code already exists")
)

// InvalidReason identifies why a coupon failed validation.
type InvalidReason string

const (
	ReasonInactive     InvalidReason = "inactive"
	ReasonExpired      InvalidReason = "expired"
	ReasonLimitReached InvalidReason = "limit reached"
)

// InvalidError is returned by Validate when a coupon exists but cannot be
// applied. Reasons are checked in a fixed priority order: inactive first,
// then expired, then usage limit.
type InvalidError struct {
	Reason InvalidReason
}

func (e *InvalidError) Error() string {
	switch e.Reason {
	case ReasonInactive:
		return "coupon is inactive"
	case ReasonExpired:
		return "coupon has expired"
	case ReasonLimitReached:
		return "coupon usage limit reached"
	}
	return "coupon is not valid"
}

// BelowMinimumError is returned when the order total does not meet the
// coupon's minimum purchase threshold.
type BelowMinimumError struct {
	Minimum decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum purchase of $%s required", e.Minimum.StringFixed(2))
}

// Coupon is a discount code managed by administrators.
type Coupon struct {
	ID            string
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MinPurchase   decimal.Decimal
	ExpiryDate    time.Time
	UsageLimit    int
	UsageCount    int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Result is the outcome of a successful validation. It echoes only the
// coupon's public fields, never the stored usage counters.
type Result struct {
	Discount      decimal.Decimal
	FinalAmount   decimal.Decimal
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// Repository defines persistence operations for coupons. Code lookups are
// case-normalized by the implementation.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	// IncrementUsage adds one use to the coupon with the given code and
	// returns the updated record. The increment is a single atomic update.
	IncrementUsage(ctx context.Context, code string) (*Coupon, error)

	List(ctx context.Context) ([]Coupon, error)
	GetByID(ctx context.Context, id string) (*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id string) error
}
