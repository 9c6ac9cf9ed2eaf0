package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps cart lines per owner in process memory. It backs
// unauthenticated sessions and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Line)}
}

// Get returns the owner's lines in insertion order, empty when none exist.
func (s *MemoryStore) Get(_ context.Context, ownerID string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := s.carts[ownerID]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

// AddItem accumulates quantity onto an existing line or appends a new one.
func (s *MemoryStore) AddItem(_ context.Context, ownerID string, item Item, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[ownerID] = merge(s.carts[ownerID], item, quantity)
	return nil
}

// SetQuantity sets the exact quantity, removing the line at zero or below.
func (s *MemoryStore) SetQuantity(_ context.Context, ownerID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[ownerID] = setQuantity(s.carts[ownerID], productID, quantity)
	return nil
}

// Clear empties the owner's cart.
func (s *MemoryStore) Clear(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, ownerID)
	return nil
}
