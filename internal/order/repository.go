package order

import "context"

// Repository defines data access for captured orders. Implementations
// assign ids and timestamps on Create.
type Repository interface {
	Create(ctx context.Context, order Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Order, error)
}
