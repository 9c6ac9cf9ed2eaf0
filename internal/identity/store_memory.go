package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendorkut/vendorkut/internal/document"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// MemoryStore is a mutex-guarded in-memory Repository. Listing preserves
// insertion order. It favors clarity over performance and is the default
// backend for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []User
	byID       map[string]int
	byEmail    map[string]int
	byDocument map[string]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]int),
		byEmail:    make(map[string]int),
		byDocument: make(map[string]int),
	}
}

// Create appends the user after checking email and document uniqueness under
// a single lock, so no two creates can both succeed with the same key.
func (s *MemoryStore) Create(_ context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(user.Email)
	doc := document.Digits(user.Document)
	if _, ok := s.byEmail[email]; ok {
		return User{}, shared.ErrDuplicateEmail
	}
	if doc != "" {
		if _, ok := s.byDocument[doc]; ok {
			return User{}, shared.ErrDuplicateDocument
		}
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	idx := len(s.users)
	s.users = append(s.users, user)
	s.byID[user.ID] = idx
	s.byEmail[email] = idx
	if doc != "" {
		s.byDocument[doc] = idx
	}
	return user, nil
}

// GetByID returns the user with the given id.
func (s *MemoryStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.byID[id]; ok {
		return s.users[idx], nil
	}
	return User{}, shared.ErrNotFound
}

// FindByEmail returns the user registered under email.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.byEmail[normalizeEmail(email)]; ok {
		return s.users[idx], nil
	}
	return User{}, shared.ErrNotFound
}

// FindByDocument returns the user registered under the document, matching on
// bare digits so formatted and raw input find the same record.
func (s *MemoryStore) FindByDocument(_ context.Context, doc string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	digits := document.Digits(doc)
	if digits == "" {
		return User{}, shared.ErrNotFound
	}
	if idx, ok := s.byDocument[digits]; ok {
		return s.users[idx], nil
	}
	return User{}, shared.ErrNotFound
}

// Update merges the patch into the stored record. Unknown ids return
// ErrNotFound without touching any state. The ExpectStatus guard is checked
// under the same write lock, so two conditional updates cannot both pass.
func (s *MemoryStore) Update(_ context.Context, id string, patch Patch) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}

	user := s.users[idx]
	if patch.ExpectStatus != nil && user.Status != *patch.ExpectStatus {
		return User{}, shared.ErrAlreadyProcessed
	}
	applyPatch(&user, patch)
	user.UpdatedAt = time.Now().UTC()
	s.users[idx] = user
	return user, nil
}

// List returns records matching the filter in insertion order.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func applyPatch(user *User, patch Patch) {
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Permissions != nil {
		user.Permissions = append([]string(nil), (*patch.Permissions)...)
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.RejectReason != nil {
		user.RejectReason = *patch.RejectReason
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
