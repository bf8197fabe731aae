package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eclora/eclora-api/internal/domain/product"
)

const (
	productColumns = `p.id, p.name, p.description, p.category_id, p.price, p.brand,
		p.image, p.images, p.stock, p.is_active, p.featured, p.created_at, p.updated_at,
		c.id, c.name, c.description`

	productFromSQL = ` FROM products p JOIN categories c ON c.id = p.category_id`

	getProductByIDSQL = `SELECT ` + productColumns + productFromSQL + ` WHERE p.id = $1`

	insertProductSQL = `INSERT INTO products
		(id, name, description, category_id, price, brand, image, images, stock, is_active, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateProductSQL = `UPDATE products SET name = $2, description = $3, category_id = $4,
		price = $5, brand = $6, image = $7, images = $8, stock = $9, is_active = $10,
		featured = $11, updated_at = now() WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	countByCategorySQL = `SELECT count(*) FROM products WHERE category_id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns a page of products matching the filter, newest first, plus the
// total match count. Filtering is plain SQL predicates; text search uses ILIKE
// over name and description.
func (r *ProductRepository) List(ctx context.Context, f product.ListFilter) ([]product.Product, int, error) {
	where, args := buildProductFilter(f)

	countSQL := `SELECT count(*)` + productFromSQL + where
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	listSQL := `SELECT ` + productColumns + productFromSQL + where +
		` ORDER BY p.created_at DESC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset())

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	return products, total, nil
}

// buildProductFilter renders the WHERE clause and its arguments for f.
func buildProductFilter(f product.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ActiveOnly {
		conds = append(conds, "p.is_active = TRUE")
	}
	if f.CategoryID != "" {
		add("p.category_id = $%d", f.CategoryID)
	}
	if f.CategoryName != "" {
		add("LOWER(c.name) = LOWER($%d)", f.CategoryName)
	}
	if f.Brand != "" {
		add("p.brand = $%d", f.Brand)
	}
	if f.Name != "" {
		add("p.name ILIKE $%d", f.Name)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", n, n))
	}
	if f.MinPrice != nil {
		add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price <= $%d", *f.MaxPrice)
	}
	if f.Featured {
		conds = append(conds, "p.featured = TRUE")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetByID returns a single product with its category expanded.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshaling product images: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertProductSQL,
		p.ID, p.Name, p.Description, p.CategoryID, p.Price, p.Brand,
		p.Image, images, p.Stock, p.Active, p.Featured,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.Name, err)
	}
	return nil
}

// Update overwrites a product's mutable fields.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshaling product images: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Description, p.CategoryID, p.Price, p.Brand,
		p.Image, images, p.Stock, p.Active, p.Featured,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// CountByCategory returns how many products reference the given category.
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, countByCategorySQL, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products in category %q: %w", categoryID, err)
	}
	return n, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p      product.Product
		images []byte
		ref    product.CategoryRef
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.Price, &p.Brand,
		&p.Image, &images, &p.Stock, &p.Active, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
		&ref.ID, &ref.Name, &ref.Description,
	)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return p, fmt.Errorf("unmarshaling product images: %w", err)
	}
	p.Category = &ref
	return p, nil
}
