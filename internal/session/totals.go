package session

import (
	"github.com/shopspring/decimal"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
)

// Totals is the derived money breakdown for a cart. It is never stored;
// every mutation recomputes it from the cart, the discount and the tax
// rate, so the displayed numbers cannot drift from the line items.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Taxable  decimal.Decimal `json:"taxable"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives the full breakdown. The discount is not capped
// at the subtotal; a larger discount yields a negative taxable amount.
func ComputeTotals(cart *models.Cart, discount, taxRate decimal.Decimal) Totals {
	subtotal := cart.Subtotal()
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate.Div(oneHundred))
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}
}
