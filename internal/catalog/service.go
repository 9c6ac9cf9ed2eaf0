package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// SellerDirectory looks up the identity behind a submission. Satisfied by
// identity.Repository.
type SellerDirectory interface {
	GetByID(ctx context.Context, id string) (identity.User, error)
}

// Service handles product submission and catalog lookups.
type Service struct {
	repo    Repository
	sellers SellerDirectory
}

// NewService constructs a Service.
func NewService(repo Repository, sellers SellerDirectory) *Service {
	return &Service{repo: repo, sellers: sellers}
}

// SubmitInput carries a product listing submission.
type SubmitInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
	Stock       int
	SellerID    string
}

// Submit validates the listing and creates a pending catalog record. The
// submitting identity must be an approved account holding the sell
// permission; validation failures never reach the store.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if in.Price < 0 {
		return Product{}, fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	if in.Stock < 0 {
		return Product{}, fmt.Errorf("%w: stock must not be negative", shared.ErrValidation)
	}

	seller, err := s.sellers.GetByID(ctx, in.SellerID)
	if err != nil {
		return Product{}, fmt.Errorf("%w: unknown seller", shared.ErrValidation)
	}
	if seller.Status != shared.StatusApproved {
		return Product{}, shared.ErrAccountNotApproved
	}
	if !seller.HasPermission(shared.PermProductsSell) {
		return Product{}, fmt.Errorf("%w: account may not sell products", shared.ErrForbidden)
	}

	return s.repo.Create(ctx, Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		Stock:       in.Stock,
		SellerID:    seller.ID,
		Status:      shared.StatusPending,
	})
}

// Get returns the product with the given id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetApproved returns the product only when it is approved; everything else
// is reported as not found so unapproved listings stay invisible.
func (s *Service) GetApproved(ctx context.Context, id string) (Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if product.Status != shared.StatusApproved {
		return Product{}, shared.ErrNotFound
	}
	return product, nil
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Product, error) {
	return s.repo.List(ctx, filter)
}

// ListApproved returns the publicly visible catalog, optionally narrowed to
// a category.
func (s *Service) ListApproved(ctx context.Context, category string) ([]Product, error) {
	approved := shared.StatusApproved
	filter := Filter{Status: &approved}
	if category != "" {
		filter.Category = &category
	}
	return s.repo.List(ctx, filter)
}
