// internal/domain/cart/entity.go
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item represents a single cart line
type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Validate checks the item invariants: id and name present, non-negative
// price, quantity at least 1. An item that would reach quantity 0 is removed,
// never retained.
func (i Item) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("cart item requires a positive id")
	}
	if i.Name == "" {
		return fmt.Errorf("cart item %d requires a name", i.ID)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("cart item %d has a negative price", i.ID)
	}
	if i.Quantity < 1 {
		return fmt.Errorf("cart item %d has quantity below 1", i.ID)
	}
	return nil
}

// LineTotal returns price * quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered sequence of items pending checkout, unique by item id
type Cart []Item

// IndexOf returns the position of the item with the given id, or -1
func (c Cart) IndexOf(id int) int {
	for i, item := range c {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// TotalQuantity sums all item quantities
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Subtotal sums all line totals
func (c Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// IsEmpty reports whether the cart has no items
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// SummaryLine is one rendered row of the cart summary
type SummaryLine struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is a pure projection of cart state, recomputed in full after every
// mutation
type Summary struct {
	Lines         []SummaryLine   `json:"lines"`
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// Summarize renders the cart into its summary projection
func Summarize(c Cart) Summary {
	summary := Summary{
		Lines:         make([]SummaryLine, 0, len(c)),
		ItemCount:     len(c),
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      c.Subtotal(),
	}

	for _, item := range c {
		summary.Lines = append(summary.Lines, SummaryLine{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}

	return summary
}
