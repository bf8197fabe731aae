// Command seed-db loads the demo catalog, banners, store settings, and the
// initial admin account into PostgreSQL. It is idempotent: existing records
// are updated in place, keyed by category name, product name, and banner
// title.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/repository"
)

type catalogJSON struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
}

type categoryJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type productJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Brand       string          `json:"brand"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Featured    bool            `json:"featured"`
}

type bannerJSON struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	CTAText  string `json:"ctaText"`
	CTALink  string `json:"ctaLink"`
	Priority int    `json:"priority"`
	IsActive bool   `json:"isActive"`
}

func main() {
	var (
		databaseURL   string
		catalogFile   string
		bannersFile   string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&bannersFile, "banners-file", "db/seed/banners.json", "path to banners JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@eclora.com", "email for the seeded admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin account (or ECLORA_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("ECLORA_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or ECLORA_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, bannersFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, bannersFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, pool, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if err := seedBanners(ctx, pool, bannersFile); err != nil {
		return errors.Wrap(err, "seed banners")
	}
	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin account")
	}

	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("upserting categories", slog.Int("count", len(catalog.Categories)))

	categoryIDs := make(map[string]string, len(catalog.Categories))
	for _, c := range catalog.Categories {
		var id string
		err := pool.QueryRow(ctx,
			`INSERT INTO categories (id, name, description, image)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO UPDATE
			 SET description = EXCLUDED.description, image = EXCLUDED.image, updated_at = now()
			 RETURNING id`,
			uuid.NewString(), c.Name, c.Description, c.Image,
		).Scan(&id)
		if err != nil {
			return errors.Wrapf(err, "upsert category %s", c.Name)
		}
		categoryIDs[c.Name] = id

		slog.Info("upserted category", slog.String("name", c.Name))
	}

	slog.Info("upserting products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		categoryID, ok := categoryIDs[p.Category]
		if !ok {
			return errors.Errorf("product %q references unknown category %q", p.Name, p.Category)
		}

		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		images, err := json.Marshal(p.Images)
		if err != nil {
			return errors.Wrapf(err, "marshal images for %s", p.Name)
		}

		var existingID string
		err = pool.QueryRow(ctx, `SELECT id FROM products WHERE name = $1`, p.Name).Scan(&existingID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err = pool.Exec(ctx,
				`INSERT INTO products
				 (id, name, description, category_id, price, brand, image, images, stock, is_active, featured)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10)`,
				uuid.NewString(), p.Name, p.Description, categoryID, p.Price,
				p.Brand, image, images, p.Stock, p.Featured)
		case err == nil:
			_, err = pool.Exec(ctx,
				`UPDATE products SET description = $2, category_id = $3, price = $4,
				 brand = $5, image = $6, images = $7, stock = $8, featured = $9,
				 updated_at = now() WHERE id = $1`,
				existingID, p.Description, categoryID, p.Price,
				p.Brand, image, images, p.Stock, p.Featured)
		}
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.Name)
		}

		slog.Info("upserted product", slog.String("name", p.Name))
	}

	return nil
}

func seedBanners(ctx context.Context, pool *pgxpool.Pool, bannersFile string) error {
	slog.Info("reading banners file", slog.String("path", bannersFile))

	data, err := os.ReadFile(bannersFile)
	if err != nil {
		return errors.Wrap(err, "read banners file")
	}

	var banners []bannerJSON
	if err := json.Unmarshal(data, &banners); err != nil {
		return errors.Wrap(err, "parse banners JSON")
	}

	slog.Info("upserting banners", slog.Int("count", len(banners)))

	for _, b := range banners {
		var existingID string
		err = pool.QueryRow(ctx, `SELECT id FROM banners WHERE title = $1`, b.Title).Scan(&existingID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err = pool.Exec(ctx,
				`INSERT INTO banners (id, title, subtitle, image, cta_text, cta_link, priority, active)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				uuid.NewString(), b.Title, b.Subtitle, b.Image, b.CTAText, b.CTALink, b.Priority, b.IsActive)
		case err == nil:
			_, err = pool.Exec(ctx,
				`UPDATE banners SET subtitle = $2, image = $3, cta_text = $4, cta_link = $5,
				 priority = $6, active = $7, updated_at = now() WHERE id = $1`,
				existingID, b.Subtitle, b.Image, b.CTAText, b.CTALink, b.Priority, b.IsActive)
		}
		if err != nil {
			return errors.Wrapf(err, "upsert banner %s", b.Title)
		}

		slog.Info("upserted banner", slog.String("title", b.Title))
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role)
		 VALUES ($1, 'Store Admin', LOWER($2), $3, 'admin')
		 ON CONFLICT (email) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash, role = 'admin', updated_at = now()`,
		uuid.NewString(), email, hash)
	if err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	return nil
}
