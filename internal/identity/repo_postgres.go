package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vendorkut/vendorkut/internal/document"
	"github.com/vendorkut/vendorkut/internal/platform/db"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// PostgresStore is the durable Repository implementation. Uniqueness is
// enforced by the users_email_key and users_document_key indexes.
type PostgresStore struct {
	pool db.Querier
}

// NewPostgresStore constructs a PostgresStore on top of the pool.
func NewPostgresStore(pool db.Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = `id, first_name, last_name, email, password_hash, document, document_kind, role, permissions, status, reject_reason, created_at, updated_at`

// Create inserts the user, relying on the unique indexes for atomicity of
// the duplicate check.
func (s *PostgresStore) Create(ctx context.Context, user User) (User, error) {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `INSERT INTO users (`+userColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Document, string(user.DocumentKind), string(user.Role), user.Permissions,
		string(user.Status), user.RejectReason, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return User{}, mapUserConstraint(err)
	}
	return user, nil
}

// GetByID returns the user with the given id.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail returns the user registered under email.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email))
}

// FindByDocument returns the user registered under the document, matching on
// bare digits so formatted and raw input find the same record.
func (s *PostgresStore) FindByDocument(ctx context.Context, doc string) (User, error) {
	return s.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE regexp_replace(document, '\D', '', 'g') = $1`, document.Digits(doc))
}

// Update merges the patch into the stored row inside a transaction so the
// merge is all-or-nothing. The ExpectStatus guard runs on the row locked by
// FOR UPDATE, so concurrent conditional updates serialize.
func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (User, error) {
	var updated User
	err := db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		if patch.ExpectStatus != nil && user.Status != *patch.ExpectStatus {
			return shared.ErrAlreadyProcessed
		}
		applyPatch(&user, patch)
		user.UpdatedAt = time.Now().UTC()
		if _, err := tx.Exec(ctx, `UPDATE users
SET first_name = $2, last_name = $3, password_hash = $4, role = $5, permissions = $6, status = $7, reject_reason = $8, updated_at = $9
WHERE id = $1`,
			user.ID, user.FirstName, user.LastName, user.PasswordHash, string(user.Role),
			user.Permissions, string(user.Status), user.RejectReason, user.UpdatedAt); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return updated, nil
}

// List returns records matching the filter in insertion order.
func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *PostgresStore) fetch(ctx context.Context, query string, args ...any) (User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, fmt.Errorf("identity: fetch: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		u            User
		documentKind string
		role         string
		status       string
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Document, &documentKind, &role, &u.Permissions, &status, &u.RejectReason,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	u.DocumentKind = document.Kind(documentKind)
	u.Role = Role(role)
	u.Status = shared.Status(status)
	return u, nil
}

func mapUserConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return shared.ErrDuplicateEmail
		case "users_document_key":
			return shared.ErrDuplicateDocument
		}
	}
	return err
}
