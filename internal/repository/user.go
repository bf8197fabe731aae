package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eclora/eclora-api/internal/domain/user"
)

const (
	userColumns = `id, name, email, password_hash, role, created_at, updated_at`

	insertUserSQL = `INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, LOWER($3), $4, $5)`

	getUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1)`

	listUsersWithStatsSQL = `SELECT u.id, u.name, u.email, u.password_hash, u.role,
			u.created_at, u.updated_at,
			COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id AND o.payment_status = 'paid'
		GROUP BY u.id
		ORDER BY u.created_at DESC`

	userStatsSQL = `SELECT COUNT(id), COALESCE(SUM(total_amount), 0)
		FROM orders WHERE user_id = $1 AND payment_status = 'paid'`

	updateUserRoleSQL = `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`

	deleteUserSQL = `DELETE FROM users WHERE id = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL, u.ID, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("creating user %q: %w", u.Email, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, getUserByIDSQL, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, email)
}

func (r *UserRepository) getOne(ctx context.Context, sql, arg string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ListWithStats(ctx context.Context) ([]user.WithStats, error) {
	rows, err := r.pool.Query(ctx, listUsersWithStatsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.WithStats, error) {
		var u user.WithStats
		err := row.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.CreatedAt, &u.UpdatedAt,
			&u.OrderCount, &u.TotalSpent,
		)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) StatsFor(ctx context.Context, id string) (*user.Stats, error) {
	var s user.Stats
	err := r.pool.QueryRow(ctx, userStatsSQL, id).Scan(&s.OrderCount, &s.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("loading stats for user %q: %w", id, err)
	}
	return &s, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	tag, err := r.pool.Exec(ctx, updateUserRoleSQL, id, role)
	if err != nil {
		return fmt.Errorf("updating role of user %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("deleting user %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
