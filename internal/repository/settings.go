package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eclora/eclora-api/internal/domain/settings"
)

const (
	settingsColumns = `id, store_name, store_email, homepage_title,
		homepage_subtitle, footer_text, extras, updated_at`

	getSettingsSQL = `SELECT ` + settingsColumns + ` FROM settings LIMIT 1`

	insertSettingsSQL = `INSERT INTO settings
		(id, store_name, store_email, homepage_title, homepage_subtitle, footer_text, extras)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + settingsColumns

	updateSettingsSQL = `UPDATE settings SET store_name = $2, store_email = $3,
		homepage_title = $4, homepage_subtitle = $5, footer_text = $6,
		extras = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + settingsColumns
)

var _ settings.Repository = (*SettingsRepository)(nil)

// SettingsRepository implements settings.Repository backed by PostgreSQL.
// The table holds at most one row, created lazily on first read.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a SettingsRepository that uses the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	rows, err := r.pool.Query(ctx, getSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSettings)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.create(ctx, settings.Defaults())
	}
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, upd *settings.Settings) (*settings.Settings, error) {
	cur, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	extras, err := marshalExtras(upd.Extras)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, updateSettingsSQL,
		cur.ID, upd.StoreName, upd.StoreEmail, upd.HomepageTitle,
		upd.HomepageSubtitle, upd.FooterText, extras)
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSettings)
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepository) create(ctx context.Context, def settings.Settings) (*settings.Settings, error) {
	extras, err := marshalExtras(def.Extras)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, insertSettingsSQL,
		uuid.NewString(), def.StoreName, def.StoreEmail, def.HomepageTitle,
		def.HomepageSubtitle, def.FooterText, extras)
	if err != nil {
		return nil, fmt.Errorf("creating settings: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSettings)
	if err != nil {
		return nil, fmt.Errorf("creating settings: %w", err)
	}
	return &s, nil
}

func marshalExtras(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling settings extras: %w", err)
	}
	return b, nil
}

func scanSettings(row pgx.CollectableRow) (settings.Settings, error) {
	var (
		s      settings.Settings
		extras []byte
	)
	err := row.Scan(
		&s.ID, &s.StoreName, &s.StoreEmail, &s.HomepageTitle,
		&s.HomepageSubtitle, &s.FooterText, &extras, &s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(extras, &s.Extras); err != nil {
		return s, fmt.Errorf("unmarshaling settings extras: %w", err)
	}
	return s, nil
}
