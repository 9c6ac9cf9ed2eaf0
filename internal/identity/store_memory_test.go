package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendorkut/vendorkut/internal/document"
	"github.com/vendorkut/vendorkut/internal/shared"
)

func newUser(email, doc string) User {
	return User{
		FirstName:    "Ana",
		LastName:     "Souza",
		Email:        email,
		PasswordHash: "hash",
		Document:     doc,
		DocumentKind: document.KindCPF,
		Role:         RoleStandard,
		Status:       shared.StatusPending,
	}
}

func TestMemoryStoreCreateAssignsIdentity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("Ana@Example.com", "529.982.247-25"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "ana@example.com", created.Email)
	require.False(t, created.CreatedAt.IsZero())

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, newUser("ana@example.com", "52998224725"))
	require.NoError(t, err)

	_, err = store.Create(ctx, newUser("ANA@example.com", "11222333000181"))
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)

	users, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMemoryStoreDuplicateDocument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, newUser("ana@example.com", "529.982.247-25"))
	require.NoError(t, err)

	// Same digits, different punctuation.
	_, err = store.Create(ctx, newUser("bia@example.com", "52998224725"))
	require.ErrorIs(t, err, shared.ErrDuplicateDocument)

	users, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMemoryStoreFindByDocument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("ana@example.com", "529.982.247-25"))
	require.NoError(t, err)

	got, err := store.FindByDocument(ctx, "52998224725")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = store.FindByDocument(ctx, "11222333000181")
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = store.FindByDocument(ctx, "")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("ana@example.com", "52998224725"))
	require.NoError(t, err)

	approved := shared.StatusApproved
	first := "Beatriz"
	updated, err := store.Update(ctx, created.ID, Patch{Status: &approved, FirstName: &first})
	require.NoError(t, err)
	require.Equal(t, shared.StatusApproved, updated.Status)
	require.Equal(t, "Beatriz", updated.FirstName)
	require.Equal(t, "Souza", updated.LastName)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	_, err = store.Update(ctx, "missing", Patch{Status: &approved})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStoreConditionalUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("ana@example.com", "52998224725"))
	require.NoError(t, err)

	pending := shared.StatusPending
	approved := shared.StatusApproved
	rejected := shared.StatusRejected
	reason := "duplicate registration"

	updated, err := store.Update(ctx, created.ID, Patch{Status: &approved, ExpectStatus: &pending})
	require.NoError(t, err)
	require.Equal(t, shared.StatusApproved, updated.Status)

	_, err = store.Update(ctx, created.ID, Patch{Status: &rejected, RejectReason: &reason, ExpectStatus: &pending})
	require.ErrorIs(t, err, shared.ErrAlreadyProcessed)

	stored, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, shared.StatusApproved, stored.Status)
	require.Empty(t, stored.RejectReason, "failed guard must leave the record untouched")
}

func TestMemoryStoreListOrderAndFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, newUser("a@example.com", "52998224725"))
	require.NoError(t, err)
	second, err := store.Create(ctx, newUser("b@example.com", "11222333000181"))
	require.NoError(t, err)

	approved := shared.StatusApproved
	_, err = store.Update(ctx, second.ID, Patch{Status: &approved})
	require.NoError(t, err)

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, first.ID, all[0].ID)
	require.Equal(t, second.ID, all[1].ID)

	pending := shared.StatusPending
	onlyPending, err := store.List(ctx, Filter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	require.Equal(t, first.ID, onlyPending[0].ID)
}
