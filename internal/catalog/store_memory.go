package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendorkut/vendorkut/internal/shared"
)

// MemoryStore is a mutex-guarded in-memory Repository preserving insertion
// order, the default backend for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	byID     map[string]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Create appends the product with a fresh id and timestamps.
func (s *MemoryStore) Create(_ context.Context, product Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	s.byID[product.ID] = len(s.products)
	s.products = append(s.products, product)
	return product, nil
}

// GetByID returns the product with the given id.
func (s *MemoryStore) GetByID(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.byID[id]; ok {
		return s.products[idx], nil
	}
	return Product{}, shared.ErrNotFound
}

// Update merges the patch into the stored record. Unknown ids return
// ErrNotFound without touching any state. The ExpectStatus guard is checked
// under the same write lock, so two conditional updates cannot both pass.
func (s *MemoryStore) Update(_ context.Context, id string, patch Patch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}

	product := s.products[idx]
	if patch.ExpectStatus != nil && product.Status != *patch.ExpectStatus {
		return Product{}, shared.ErrAlreadyProcessed
	}
	applyPatch(&product, patch)
	product.UpdatedAt = time.Now().UTC()
	s.products[idx] = product
	return product, nil
}

// List returns records matching the filter in insertion order.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !matches(p, filter) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matches(p Product, filter Filter) bool {
	if filter.Status != nil && p.Status != *filter.Status {
		return false
	}
	if filter.SellerID != nil && p.SellerID != *filter.SellerID {
		return false
	}
	if filter.Category != nil && p.Category != *filter.Category {
		return false
	}
	return true
}

func applyPatch(p *Product, patch Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.RejectReason != nil {
		p.RejectReason = *patch.RejectReason
	}
}
