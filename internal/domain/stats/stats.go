// Package stats aggregates store-wide figures for the admin dashboard.
package stats

import (
	"context"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard overview. Revenue covers paid orders only.
type Stats struct {
	TotalUsers    int
	TotalProducts int
	TotalOrders   int
	TotalRevenue  decimal.Decimal
}

// Provider computes dashboard statistics.
type Provider interface {
	Stats(ctx context.Context) (*Stats, error)
}
