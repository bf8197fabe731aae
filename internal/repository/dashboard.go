package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/eclora/eclora-api/internal/domain/stats"
)

const (
	countUsersSQL    = `SELECT COUNT(*) FROM users`
	countProductsSQL = `SELECT COUNT(*) FROM products`
	countOrdersSQL   = `SELECT COUNT(*) FROM orders`
	totalRevenueSQL  = `SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE payment_status = 'paid'`
)

var _ stats.Provider = (*DashboardRepository)(nil)

// DashboardRepository computes admin dashboard figures over PostgreSQL.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository returns a DashboardRepository using the given pool.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Stats runs the four aggregate queries concurrently.
func (r *DashboardRepository) Stats(ctx context.Context) (*stats.Stats, error) {
	var s stats.Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.pool.QueryRow(ctx, countUsersSQL).Scan(&s.TotalUsers)
	})
	g.Go(func() error {
		return r.pool.QueryRow(ctx, countProductsSQL).Scan(&s.TotalProducts)
	})
	g.Go(func() error {
		return r.pool.QueryRow(ctx, countOrdersSQL).Scan(&s.TotalOrders)
	})
	g.Go(func() error {
		return r.pool.QueryRow(ctx, totalRevenueSQL).Scan(&s.TotalRevenue)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing dashboard stats: %w", err)
	}
	return &s, nil
}
