package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendorkut/vendorkut/internal/platform/db"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// PostgresStore is the durable Repository implementation.
type PostgresStore struct {
	pool db.Querier
}

// NewPostgresStore constructs a PostgresStore on top of the pool.
func NewPostgresStore(pool db.Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const productColumns = `id, name, description, price, image, category, stock, seller_id, status, reject_reason, created_at, updated_at`

// Create inserts the product with a fresh id and timestamps.
func (s *PostgresStore) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `INSERT INTO products (`+productColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		product.ID, product.Name, product.Description, product.Price, product.Image,
		product.Category, product.Stock, product.SellerID, string(product.Status),
		product.RejectReason, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: insert: %w", err)
	}
	return product, nil
}

// GetByID returns the product with the given id.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (Product, error) {
	product, err := scanProduct(s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: fetch: %w", err)
	}
	return product, nil
}

// Update merges the patch into the stored row inside a transaction. The
// ExpectStatus guard runs on the row locked by FOR UPDATE, so concurrent
// conditional updates serialize.
func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	var updated Product
	err := db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		product, err := scanProduct(tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		if patch.ExpectStatus != nil && product.Status != *patch.ExpectStatus {
			return shared.ErrAlreadyProcessed
		}
		applyPatch(&product, patch)
		product.UpdatedAt = time.Now().UTC()
		if _, err := tx.Exec(ctx, `UPDATE products
SET name = $2, description = $3, price = $4, image = $5, category = $6, stock = $7, status = $8, reject_reason = $9, updated_at = $10
WHERE id = $1`,
			product.ID, product.Name, product.Description, product.Price, product.Image,
			product.Category, product.Stock, string(product.Status), product.RejectReason,
			product.UpdatedAt); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	return updated, nil
}

// List returns records matching the filter in insertion order.
func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var (
		clauses []string
		args    []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		clauses = append(clauses, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p      Product
		status string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category,
		&p.Stock, &p.SellerID, &status, &p.RejectReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.Status = shared.Status(status)
	return p, nil
}
