package catalog

import (
	"time"

	"github.com/vendorkut/vendorkut/internal/shared"
)

// Product is a sellable-item record submitted by a seller and gated by the
// approval workflow. Only approved products are eligible for display and
// purchase; that convention is enforced by callers, not by the stores.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        float64
	Image        string
	Category     string
	Stock        int
	SellerID     string
	Status       shared.Status
	RejectReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name         *string
	Description  *string
	Price        *float64
	Image        *string
	Category     *string
	Stock        *int
	Status       *shared.Status
	RejectReason *string

	// ExpectStatus makes the update conditional: the patch applies only
	// while the stored status equals it, otherwise the store returns
	// ErrAlreadyProcessed and leaves the record untouched.
	ExpectStatus *shared.Status
}

// Filter narrows List results.
type Filter struct {
	Status   *shared.Status
	SellerID *string
	Category *string
}
