package models

import (
	"github.com/shopspring/decimal"
)

// WalkInCustomerName is the sentinel option the rendering layer uses
// for "no specific customer". Walk-in customers cannot buy on credit.
const WalkInCustomerName = "Walk-in Customer"

// ProductCard mirrors the attributes a product card exposes to the
// terminal: identifier, display name, price and the sellable stock.
type ProductCard struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     decimal.Decimal `json:"stock"`
}

// CustomerOption mirrors a customer selector entry, including the
// credit standing the option carries as data attributes.
type CustomerOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	CurrentDebt decimal.Decimal `json:"current_debt"`
}

// IsWalkIn reports whether this option is the walk-in sentinel or an
// empty selection, both of which disable credit eligibility.
func (c CustomerOption) IsWalkIn() bool {
	return c.ID == "" || c.Name == WalkInCustomerName
}

func (c CustomerOption) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentDebt)
}
