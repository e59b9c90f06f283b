package domain

// CartEntry pairs a product id with a positive quantity.
type CartEntry struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// LineItem is a cart entry joined against the catalog.
type LineItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	LineTotal int64   `json:"line_total"`
}

// NewLineItem computes the line total for the given product and quantity.
func NewLineItem(p Product, qty int) LineItem {
	return LineItem{Product: p, Quantity: qty, LineTotal: p.Price * int64(qty)}
}

// CartSummary is what the cart review shows: resolvable lines plus totals.
type CartSummary struct {
	Lines      []LineItem `json:"lines"`
	TotalCount int        `json:"total_count"`
	TotalPrice int64      `json:"total_price"`
}

// Empty reports whether the cart has no resolvable lines.
func (s CartSummary) Empty() bool {
	return len(s.Lines) == 0
}
