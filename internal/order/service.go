package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Service captures orders from carts. Checkout snapshots the cart lines,
// persists the order, then clears the cart; a cart-clear failure after the
// order committed is reported to the caller but the order stands.
type Service struct {
	orders Repository
	carts  cart.Store
}

// NewService constructs a Service.
func NewService(orders Repository, carts cart.Store) *Service {
	return &Service{orders: orders, carts: carts}
}

// Checkout turns the owner's current cart into a pending order.
func (s *Service) Checkout(ctx context.Context, ownerID string, in CheckoutInput) (Order, error) {
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if in.ShippingAddress == "" {
		return Order{}, fmt.Errorf("%w: shipping address is required", shared.ErrValidation)
	}
	if in.PaymentMethod == "" {
		return Order{}, fmt.Errorf("%w: payment method is required", shared.ErrValidation)
	}

	lines, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, fmt.Errorf("%w: cart is empty", shared.ErrValidation)
	}

	created, err := s.orders.Create(ctx, Order{
		OwnerID:         ownerID,
		Lines:           lines,
		Total:           cart.Total(lines),
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Status:          shared.StatusPending,
	})
	if err != nil {
		return Order{}, err
	}

	if err := s.carts.Clear(ctx, ownerID); err != nil {
		return created, fmt.Errorf("order captured but cart not cleared: %w", err)
	}
	return created, nil
}

// Get returns one of the owner's orders. Orders belonging to other owners
// are reported as not found.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if order.OwnerID != ownerID {
		return Order{}, shared.ErrNotFound
	}
	return order, nil
}

// List returns the owner's orders, oldest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Order, error) {
	return s.orders.ListByOwner(ctx, ownerID)
}
