package settings

import (
	"context"
	"time"
)

// Settings is the single store-wide configuration record. Get lazily creates
// it with defaults when absent.
type Settings struct {
	ID               string
	StoreName        string
	StoreEmail       string
	HomepageTitle    string
	HomepageSubtitle string
	FooterText       string
	Extras           map[string]string
	UpdatedAt        time.Time
}

// Defaults returns the settings record created on first read.
func Defaults() Settings {
	return Settings{
		StoreName:        "Eclora",
		StoreEmail:       "contact@eclora.com",
		HomepageTitle:    "Welcome to Eclora",
		HomepageSubtitle: "Premium Handmade Candles & Floral Fragrances",
		FooterText:       "© Eclora. All rights reserved.",
	}
}

// Repository defines persistence operations for store settings.
type Repository interface {
	// Get returns the settings record, creating it with defaults if missing.
	Get(ctx context.Context) (*Settings, error)
	// Update overwrites the settings record, creating it if missing.
	Update(ctx context.Context, s *Settings) (*Settings, error)
}
