package identity

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/vendorkut/vendorkut/internal/shared"
)

func newPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock), mock
}

// anyArgs returns n placeholder matchers; pgxmock requires the expected
// argument count to match even when the values are not asserted.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func userRows(u User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "password_hash", "document",
		"document_kind", "role", "permissions", "status", "reject_reason",
		"created_at", "updated_at",
	}).AddRow(u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Document,
		string(u.DocumentKind), string(u.Role), u.Permissions, string(u.Status),
		u.RejectReason, u.CreatedAt, u.UpdatedAt)
}

func TestPostgresCreateMapsUniqueViolations(t *testing.T) {
	store, mock := newPostgresStore(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	created, err := store.Create(ctx, newUser("ana@example.com", "529.982.247-25"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	_, err = store.Create(ctx, newUser("ana@example.com", "52998224725"))
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_document_key"})
	_, err = store.Create(ctx, newUser("bia@example.com", "52998224725"))
	require.ErrorIs(t, err, shared.ErrDuplicateDocument)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	store, mock := newPostgresStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	u := newUser("ana@example.com", "529.982.247-25")
	u.ID = "7a1e2d3c"
	u.CreatedAt = now
	u.UpdatedAt = now

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))
	got, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, shared.StatusPending, got.Status)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = store.GetByID(ctx, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByEmailNormalizes(t *testing.T) {
	store, mock := newPostgresStore(t)

	u := newUser("ana@example.com", "529.982.247-25")
	u.ID = "7a1e2d3c"
	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(userRows(u))

	got, err := store.FindByEmail(context.Background(), "  Ana@Example.com ")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateIsTransactional(t *testing.T) {
	store, mock := newPostgresStore(t)
	ctx := context.Background()

	u := newUser("ana@example.com", "529.982.247-25")
	u.ID = "7a1e2d3c"
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))
	mock.ExpectExec(`UPDATE users`).
		WithArgs(anyArgs(9)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	approved := shared.StatusApproved
	updated, err := store.Update(ctx, u.ID, Patch{Status: &approved})
	require.NoError(t, err)
	require.Equal(t, shared.StatusApproved, updated.Status)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err = store.Update(ctx, "missing", Patch{Status: &approved})
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatusGuard(t *testing.T) {
	store, mock := newPostgresStore(t)
	ctx := context.Background()

	u := newUser("ana@example.com", "529.982.247-25")
	u.ID = "7a1e2d3c"
	u.Status = shared.StatusApproved
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt

	// Row already approved: the guard rolls back without issuing an UPDATE.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(u.ID).
		WillReturnRows(userRows(u))
	mock.ExpectRollback()

	pending := shared.StatusPending
	rejected := shared.StatusRejected
	_, err := store.Update(ctx, u.ID, Patch{Status: &rejected, ExpectStatus: &pending})
	require.ErrorIs(t, err, shared.ErrAlreadyProcessed)

	require.NoError(t, mock.ExpectationsWereMet())
}
