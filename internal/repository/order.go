package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eclora/eclora-api/internal/domain/order"
)

const (
	// Conditional decrement: zero rows affected means the product is either
	// missing or under-stocked, distinguished by a follow-up lookup.
	decrementStockSQL = `UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`

	probeProductSQL = `SELECT name FROM products WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders
		(id, user_id, items, shipping_address, email, phone, total_amount,
		 payment_status, order_status, stripe_session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	orderColumns = `o.id, o.user_id, o.items, o.shipping_address, o.email, o.phone,
		o.total_amount, o.payment_status, o.order_status, o.stripe_session_id,
		o.created_at, o.updated_at, u.name, u.email`

	orderFromSQL = ` FROM orders o LEFT JOIN users u ON u.id = o.user_id`

	getOrderByIDSQL = `SELECT ` + orderColumns + orderFromSQL + ` WHERE o.id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + orderFromSQL + ` ORDER BY o.created_at DESC`

	listOrdersByStatusSQL = `SELECT ` + orderColumns + orderFromSQL + `
		WHERE o.order_status = $1 ORDER BY o.created_at DESC`

	listOrdersByUserSQL = `SELECT ` + orderColumns + orderFromSQL + `
		WHERE o.user_id = $1 ORDER BY o.created_at DESC`

	updateOrderStatusSQL = `UPDATE orders SET
		order_status = COALESCE($2, order_status),
		payment_status = COALESCE($3, payment_status),
		updated_at = now() WHERE id = $1`

	markPaidBySessionSQL = `UPDATE orders SET payment_status = 'paid', updated_at = now()
		WHERE stripe_session_id = $1`

	productSummariesSQL = `SELECT id, name, image, images FROM products WHERE id = ANY($1)`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create decrements stock for every line item and inserts the order inside a
// single transaction. A missing or under-stocked product aborts the whole
// transaction, so earlier decrements never leak.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, item := range o.Items {
		tag, err := tx.Exec(ctx, decrementStockSQL, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrementing stock for product %q: %w", item.ProductID, err)
		}
		if tag.RowsAffected() > 0 {
			continue
		}

		var name string
		err = tx.QueryRow(ctx, probeProductSQL, item.ProductID).Scan(&name)
		if errors.Is(err, pgx.ErrNoRows) {
			return &order.ProductNotFoundError{ProductID: item.ProductID, Name: item.Name}
		}
		if err != nil {
			return fmt.Errorf("probing product %q: %w", item.ProductID, err)
		}
		return &order.InsufficientStockError{ProductID: item.ProductID, Name: name}
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}
	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshaling shipping address: %w", err)
	}

	var userID *string
	if o.UserID != "" {
		userID = &o.UserID
	}

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, userID, itemsJSON, addressJSON, o.Email, o.Phone,
		o.TotalAmount, o.PaymentStatus, o.Status, o.StripeSessionID,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order, denormalized.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	if err := r.expandProducts(ctx, []*order.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListAll returns every order, newest first, optionally filtered by
// fulfillment status.
func (r *OrderRepository) ListAll(ctx context.Context, statusFilter order.Status) ([]order.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if statusFilter != "" {
		rows, err = r.pool.Query(ctx, listOrdersByStatusSQL, statusFilter)
	} else {
		rows, err = r.pool.Query(ctx, listOrdersSQL)
	}
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return r.collectAndExpand(ctx, rows)
}

// ListByUser returns the given user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return r.collectAndExpand(ctx, rows)
}

// UpdateStatus sets whichever status fields the update carries.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, upd order.StatusUpdate) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, upd.Status, upd.PaymentStatus)
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// MarkPaidBySession flips payment status to paid for the order created from
// the given checkout session. Unknown sessions are ignored.
func (r *OrderRepository) MarkPaidBySession(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, markPaidBySessionSQL, sessionID)
	if err != nil {
		return fmt.Errorf("marking session %q paid: %w", sessionID, err)
	}
	return nil
}

func (r *OrderRepository) collectAndExpand(ctx context.Context, rows pgx.Rows) ([]order.Order, error) {
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("scanning orders: %w", err)
	}

	refs := make([]*order.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.expandProducts(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// expandProducts resolves product summaries for all line items across the
// given orders in one batch query. Items whose product has since been deleted
// keep their stored snapshot with no summary attached.
func (r *OrderRepository) expandProducts(ctx context.Context, orders []*order.Order) error {
	idSet := make(map[string]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			idSet[item.ProductID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	rows, err := r.pool.Query(ctx, productSummariesSQL, ids)
	if err != nil {
		return fmt.Errorf("loading product summaries: %w", err)
	}

	type summaryRow struct {
		id, name, image string
		images          []byte
	}
	summaries := make(map[string]order.ProductSummary)
	for rows.Next() {
		var s summaryRow
		if err := rows.Scan(&s.id, &s.name, &s.image, &s.images); err != nil {
			return fmt.Errorf("scanning product summary: %w", err)
		}
		image := s.image
		if image == "" {
			var list []string
			if err := json.Unmarshal(s.images, &list); err == nil && len(list) > 0 {
				image = list[0]
			}
		}
		summaries[s.id] = order.ProductSummary{ID: s.id, Name: s.name, Image: image}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loading product summaries: %w", err)
	}

	for _, o := range orders {
		for i := range o.Items {
			if s, ok := summaries[o.Items[i].ProductID]; ok {
				o.Items[i].Product = &s
			}
		}
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		userID    *string
		items     []byte
		address   []byte
		userName  *string
		userEmail *string
	)
	err := row.Scan(
		&o.ID, &userID, &items, &address, &o.Email, &o.Phone,
		&o.TotalAmount, &o.PaymentStatus, &o.Status, &o.StripeSessionID,
		&o.CreatedAt, &o.UpdatedAt, &userName, &userEmail,
	)
	if err != nil {
		return o, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return o, fmt.Errorf("unmarshaling shipping address: %w", err)
	}

	if userID != nil {
		o.UserID = *userID
		if userName != nil && userEmail != nil {
			o.User = &order.CustomerSummary{ID: *userID, Name: *userName, Email: *userEmail}
		}
	}
	return o, nil
}
