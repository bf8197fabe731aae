package banner

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested banner does not exist.
var ErrNotFound = errors.New("banner not found")

// Banner is a homepage hero slide. Lower priority sorts first.
type Banner struct {
	ID        string
	Title     string
	Subtitle  string
	Image     string
	CTAText   string
	CTALink   string
	Priority  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for banners.
type Repository interface {
	// List returns banners ordered by priority then recency. When activeOnly
	// is true, inactive banners are excluded (storefront view).
	List(ctx context.Context, activeOnly bool) ([]Banner, error)
	GetByID(ctx context.Context, id string) (*Banner, error)
	Create(ctx context.Context, b *Banner) error
	Update(ctx context.Context, b *Banner) error
	Delete(ctx context.Context, id string) error
}
