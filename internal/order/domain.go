package order

import (
	"time"

	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Order is a captured purchase. Lines are a snapshot of the cart at
// checkout time; later catalog changes do not reach back into an order.
type Order struct {
	ID              string
	OwnerID         string
	Lines           []cart.Line
	Total           float64
	ShippingAddress string
	PaymentMethod   string
	Status          shared.Status
	CreatedAt       time.Time
}

// CheckoutInput carries the buyer-provided checkout fields.
type CheckoutInput struct {
	ShippingAddress string
	PaymentMethod   string
}
