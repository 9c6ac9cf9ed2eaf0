package order

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// MemoryStore is a mutex-guarded in-memory Repository preserving insertion
// order, the default backend for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []Order
	byID   map[string]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Create appends the order with a fresh id and timestamp.
func (s *MemoryStore) Create(_ context.Context, order Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()
	order.Lines = append([]cart.Line(nil), order.Lines...)

	s.byID[order.ID] = len(s.orders)
	s.orders = append(s.orders, order)
	return order, nil
}

// GetByID returns the order with the given id.
func (s *MemoryStore) GetByID(_ context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.byID[id]; ok {
		return s.copyAt(idx), nil
	}
	return Order{}, shared.ErrNotFound
}

// ListByOwner returns the owner's orders, oldest first.
func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Order
	for i, o := range s.orders {
		if o.OwnerID == ownerID {
			out = append(out, s.copyAt(i))
		}
	}
	return out, nil
}

func (s *MemoryStore) copyAt(idx int) Order {
	o := s.orders[idx]
	o.Lines = append([]cart.Line(nil), o.Lines...)
	return o
}
