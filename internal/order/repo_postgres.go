package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/platform/db"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// PostgresStore is the durable Repository implementation. Lines are stored
// as a JSONB snapshot; orders never join back to the catalog.
type PostgresStore struct {
	pool db.Querier
}

// NewPostgresStore constructs a PostgresStore on top of the pool.
func NewPostgresStore(pool db.Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const orderColumns = `id, owner_id, lines, total, shipping_address, payment_method, status, created_at`

// Create inserts the order with a fresh id and timestamp.
func (s *PostgresStore) Create(ctx context.Context, order Order) (Order, error) {
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()

	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return Order{}, fmt.Errorf("order: encode lines: %w", err)
	}

	_, err = s.pool.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.OwnerID, lines, order.Total, order.ShippingAddress,
		order.PaymentMethod, string(order.Status), order.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("order: insert: %w", err)
	}
	return order, nil
}

// GetByID returns the order with the given id.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, shared.ErrNotFound
		}
		return Order{}, fmt.Errorf("order: fetch: %w", err)
	}
	return order, nil
}

// ListByOwner returns the owner's orders, oldest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Order, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE owner_id = $1 ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order: scan: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		status string
		lines  []byte
	)
	if err := row.Scan(&o.ID, &o.OwnerID, &lines, &o.Total, &o.ShippingAddress,
		&o.PaymentMethod, &status, &o.CreatedAt); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return Order{}, fmt.Errorf("decode lines: %w", err)
	}
	if o.Lines == nil {
		o.Lines = []cart.Line{}
	}
	o.Status = shared.Status(status)
	return o, nil
}
