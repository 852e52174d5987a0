package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

var ErrItemNotFound = errors.New("item not in cart")

// MaxLineQuantity caps the units of one product in a cart.
const MaxLineQuantity = 1000

// Cart is a session-scoped list of product snapshots keyed by product id.
// The zero value is an empty cart.
type Cart struct {
	items []models.CartItem
}

func New(items ...models.CartItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.Add(item)
	}
	return c
}

func clamp(qty int) int {
	switch {
	case qty < 1:
		return 1
	case qty > MaxLineQuantity:
		return MaxLineQuantity
	}
	return qty
}

// Add merges item into the line with the same product id, accumulating the
// quantity up to MaxLineQuantity, or appends a new line.
func (c *Cart) Add(item models.CartItem) {
	item.Quantity = clamp(item.Quantity)
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity = clamp(c.items[i].Quantity + item.Quantity)
			return
		}
	}
	c.items = append(c.items, item)
}

// SetQuantity overwrites a line's quantity, clamped to 1..MaxLineQuantity.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = clamp(qty)
			return nil
		}
	}
	return ErrItemNotFound
}

func (c *Cart) Remove(productID int64) bool {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines.
func (c *Cart) Items() []models.CartItem {
	return append([]models.CartItem(nil), c.items...)
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Count is the total number of units across lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Source is local when every line is local stock, otherwise dubai.
func (c *Cart) Source() models.Source {
	for _, item := range c.items {
		if item.Source != models.SourceLocal {
			return models.SourceDubai
		}
	}
	return models.SourceLocal
}

// Totals is the priced view of a cart.
type Totals struct {
	Items       []models.CartItem `json:"items"`
	Count       int               `json:"count"`
	Subtotal    float64           `json:"subtotal"`
	ShippingFee float64           `json:"shippingFee"`
	Total       float64           `json:"total"`
	Source      models.Source     `json:"source"`
}

func (c *Cart) Price(shippingFee float64) Totals {
	subtotal := c.Subtotal()
	return Totals{
		Items:       c.Items(),
		Count:       c.Count(),
		Subtotal:    subtotal.InexactFloat64(),
		ShippingFee: shippingFee,
		Total:       subtotal.Add(decimal.NewFromFloat(shippingFee)).InexactFloat64(),
		Source:      c.Source(),
	}
}
