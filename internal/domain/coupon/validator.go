package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validator decides whether a coupon may be applied to an order total and
// computes the resulting discount.
type Validator struct {
	repo Repository
	now  func() time.Time
}

// NewValidator creates a Validator backed by the given Repository.
func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo, now: time.Now}
}

// Validate looks up the coupon for the given code and checks, in order:
// active flag, expiry, usage limit, then the minimum purchase threshold.
// On success it returns the discount clamped to the order total, with both
// the discount and the final amount rounded to two decimal places.
func (v *Validator) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*Result, error) {
	c, err := v.repo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	switch {
	case !c.Active:
		return nil, &InvalidError{Reason: ReasonInactive}
	case !c.ExpiryDate.After(v.now()):
		return nil, &InvalidError{Reason: ReasonExpired}
	case c.UsageCount >= c.UsageLimit:
		return nil, &InvalidError{Reason: ReasonLimitReached}
	}

	if orderTotal.LessThan(c.MinPurchase) {
		return nil, &BelowMinimumError{Minimum: c.MinPurchase}
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = orderTotal.Mul(c.DiscountValue).Div(hundred)
	case DiscountFixed:
		discount = c.DiscountValue
	default:
		return nil, errors.Errorf("unsupported discount type: %q", c.DiscountType)
	}

	// The discount may never exceed the order total.
	discount = decimal.Min(discount, orderTotal).Round(2)

	return &Result{
		Discount:      discount,
		FinalAmount:   orderTotal.Sub(discount).Round(2),
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
	}, nil
}

// Apply increments the coupon's usage counter by exactly one and returns the
// updated coupon. It does not re-check the active flag, expiry, or usage
// limit: apply is a plain side effect, matching the storefront contract where
// validate and apply are separate calls.
func (v *Validator) Apply(ctx context.Context, code string) (*Coupon, error) {
	c, err := v.repo.IncrementUsage(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "increment coupon usage")
	}
	return c, nil
}
