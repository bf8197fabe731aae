package category

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrDuplicateName is returned when creating or renaming a category to a
	// name that already exists.
	ErrDuplicateName = errors.New("category name already exists")
	// ErrInUse is returned when deleting a category still referenced by
	// products.
	ErrInUse = errors.New("category has products")
)

// Category groups products in the catalog. Names are unique.
type Category struct {
	ID          string
	Name        string
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	// GetByName returns a category by name, matched case-insensitively.
	GetByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}
