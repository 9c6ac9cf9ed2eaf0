package identity

import "context"

// Repository defines data access for identity records. Implementations
// assign ids and timestamps on Create and enforce email and document
// uniqueness atomically.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByDocument(ctx context.Context, doc string) (User, error)
	Update(ctx context.Context, id string, patch Patch) (User, error)
	List(ctx context.Context, filter Filter) ([]User, error)
}
