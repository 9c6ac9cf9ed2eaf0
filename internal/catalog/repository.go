package catalog

import "context"

// Repository defines data access for catalog records. Implementations
// assign ids and timestamps on Create; the only uniqueness constraint is the
// id itself.
type Repository interface {
	Create(ctx context.Context, product Product) (Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Update(ctx context.Context, id string, patch Patch) (Product, error)
	List(ctx context.Context, filter Filter) ([]Product, error)
}
