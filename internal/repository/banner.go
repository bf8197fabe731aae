package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eclora/eclora-api/internal/domain/banner"
)

const (
	bannerColumns = `id, title, subtitle, image, cta_text, cta_link, priority,
		active, created_at, updated_at`

	listBannersSQL = `SELECT ` + bannerColumns + ` FROM banners
		ORDER BY priority ASC, created_at DESC`

	listActiveBannersSQL = `SELECT ` + bannerColumns + ` FROM banners
		WHERE active ORDER BY priority ASC, created_at DESC`

	getBannerByIDSQL = `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`

	insertBannerSQL = `INSERT INTO banners
		(id, title, subtitle, image, cta_text, cta_link, priority, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateBannerSQL = `UPDATE banners SET title = $2, subtitle = $3, image = $4,
		cta_text = $5, cta_link = $6, priority = $7, active = $8, updated_at = now()
		WHERE id = $1`

	deleteBannerSQL = `DELETE FROM banners WHERE id = $1`
)

var _ banner.Repository = (*BannerRepository)(nil)

// BannerRepository implements banner.Repository backed by PostgreSQL.
type BannerRepository struct {
	pool *pgxpool.Pool
}

// NewBannerRepository returns a BannerRepository that uses the given pool.
func NewBannerRepository(pool *pgxpool.Pool) *BannerRepository {
	return &BannerRepository{pool: pool}
}

func (r *BannerRepository) List(ctx context.Context, activeOnly bool) ([]banner.Banner, error) {
	sql := listBannersSQL
	if activeOnly {
		sql = listActiveBannersSQL
	}
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("listing banners: %w", err)
	}
	banners, err := pgx.CollectRows(rows, scanBanner)
	if err != nil {
		return nil, fmt.Errorf("scanning banners: %w", err)
	}
	return banners, nil
}

func (r *BannerRepository) GetByID(ctx context.Context, id string) (*banner.Banner, error) {
	rows, err := r.pool.Query(ctx, getBannerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting banner %q: %w", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBanner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, banner.ErrNotFound
		}
		return nil, fmt.Errorf("getting banner %q: %w", id, err)
	}
	return &b, nil
}

func (r *BannerRepository) Create(ctx context.Context, b *banner.Banner) error {
	_, err := r.pool.Exec(ctx, insertBannerSQL,
		b.ID, b.Title, b.Subtitle, b.Image, b.CTAText, b.CTALink, b.Priority, b.Active)
	if err != nil {
		return fmt.Errorf("creating banner %q: %w", b.Title, err)
	}
	return nil
}

func (r *BannerRepository) Update(ctx context.Context, b *banner.Banner) error {
	tag, err := r.pool.Exec(ctx, updateBannerSQL,
		b.ID, b.Title, b.Subtitle, b.Image, b.CTAText, b.CTALink, b.Priority, b.Active)
	if err != nil {
		return fmt.Errorf("updating banner %q: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return banner.ErrNotFound
	}
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteBannerSQL, id)
	if err != nil {
		return fmt.Errorf("deleting banner %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return banner.ErrNotFound
	}
	return nil
}

func scanBanner(row pgx.CollectableRow) (banner.Banner, error) {
	var b banner.Banner
	err := row.Scan(
		&b.ID, &b.Title, &b.Subtitle, &b.Image, &b.CTAText, &b.CTALink,
		&b.Priority, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}
