package cart

// Line is one aggregated entry in an owner's cart. Name, unit price and
// image are snapshots copied when the product is first added; only the
// quantity changes on later adds.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Item identifies a product being added together with its snapshot fields.
type Item struct {
	ProductID string
	Name      string
	UnitPrice float64
	Image     string
}

// Total returns the sum of quantity times unit price over the lines.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// Count returns the total number of units across the lines.
func Count(lines []Line) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}
