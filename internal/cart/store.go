package cart

import "context"

// Store holds per-owner cart lines. The same surface is implemented by the
// in-memory store and the Redis store so callers can swap backends without
// changing behavior:
//
//   - AddItem with quantity <= 0 is a no-op; adding a product already in the
//     cart accumulates quantity and keeps the first-write snapshot fields.
//   - SetQuantity with quantity <= 0 removes the line; removing an absent
//     line is not an error.
type Store interface {
	Get(ctx context.Context, ownerID string) ([]Line, error)
	AddItem(ctx context.Context, ownerID string, item Item, quantity int) error
	SetQuantity(ctx context.Context, ownerID, productID string, quantity int) error
	Clear(ctx context.Context, ownerID string) error
}

// merge applies AddItem semantics to a line slice, returning the updated
// slice. Shared by both store implementations.
func merge(lines []Line, item Item, quantity int) []Line {
	for i := range lines {
		if lines[i].ProductID == item.ProductID {
			lines[i].Quantity += quantity
			return lines
		}
	}
	return append(lines, Line{
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  quantity,
		Image:     item.Image,
	})
}

// setQuantity applies SetQuantity semantics to a line slice.
func setQuantity(lines []Line, productID string, quantity int) []Line {
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Quantity = quantity
		return lines
	}
	return lines
}
