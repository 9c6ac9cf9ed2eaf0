package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists cart lines in Redis as one JSON-encoded line array per
// owner, preserving insertion order. Read-modify-write sequences are
// serialized by a store-level mutex; all writers of a cart key go through
// the same instance.
type RedisStore struct {
	mu     sync.Mutex
	client *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the owner's lines, empty when no cart exists.
func (s *RedisStore) Get(ctx context.Context, ownerID string) ([]Line, error) {
	return s.load(ctx, ownerID)
}

// AddItem accumulates quantity onto an existing line or appends a new one.
func (s *RedisStore) AddItem(ctx context.Context, ownerID string, item Item, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.save(ctx, ownerID, merge(lines, item, quantity))
}

// SetQuantity sets the exact quantity, removing the line at zero or below.
func (s *RedisStore) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.save(ctx, ownerID, setQuantity(lines, productID, quantity))
}

// Clear empties the owner's cart.
func (s *RedisStore) Clear(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.Del(ctx, s.key(ownerID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cart: clear: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, ownerID string) ([]Line, error) {
	payload, err := s.client.Get(ctx, s.key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("cart: decode: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) save(ctx context.Context, ownerID string, lines []Line) error {
	if len(lines) == 0 {
		if err := s.client.Del(ctx, s.key(ownerID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("cart: save: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(ownerID), data, 0).Err(); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

func (s *RedisStore) key(ownerID string) string {
	return "cart:" + ownerID
}
