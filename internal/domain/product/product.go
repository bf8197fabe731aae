package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// DefaultBrand is assigned to products created without an explicit brand.
const DefaultBrand = "Eclora"

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryID  string
	Price       decimal.Decimal
	Brand       string
	Image       string
	Images      []string
	Stock       int
	Active      bool
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Category is populated on reads for denormalized responses.
	Category *CategoryRef
}

// CategoryRef is the category summary embedded in product responses.
type CategoryRef struct {
	ID          string
	Name        string
	Description string
}

// ListFilter narrows the product listing. Zero values mean "no constraint".
type ListFilter struct {
	CategoryID   string
	CategoryName string
	Brand        string
	Name         string
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Featured     bool
	ActiveOnly   bool
	Page         int
	Limit        int
}

// Offset returns the row offset implied by Page and Limit.
func (f ListFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	// List returns a page of products matching the filter plus the total
	// number of matches before pagination.
	List(ctx context.Context, f ListFilter) ([]Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
