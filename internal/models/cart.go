package models

import (
	"github.com/shopspring/decimal"
)

// CartItem is one product line in the active order. Name, price and the
// stock ceiling are copied from the product card at add time and are not
// refreshed while the item stays in the cart.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	MaxStock  decimal.Decimal `json:"max_stock"`
}

// LineTotal returns unit price times quantity for this line.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(i.Quantity)
}

// Cart is the operator's in-progress, unsubmitted order. Items keep
// their order of first add; quantity changes never reorder.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IndexOf returns the position of the line holding productID, or -1.
// At most one line per product exists.
func (c *Cart) IndexOf(productID int64) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) ValidIndex(index int) bool {
	return index >= 0 && index < len(c.Items)
}

// Subtotal sums unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}
