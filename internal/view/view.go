// Package view projects session state into display-ready view models.
// It holds no state and performs no mutations; the session decides what
// the numbers are, this package decides how they read.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
	"github.com/OchiengBrandon/HyperPOS/internal/session"
)

type LineView struct {
	Index     int    `json:"index"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  string `json:"quantity"`
	MaxStock  string `json:"max_stock"`
	LineTotal string `json:"line_total"`
}

type TotalsView struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type CartView struct {
	Empty           bool       `json:"empty"`
	Lines           []LineView `json:"lines"`
	Totals          TotalsView `json:"totals"`
	CheckoutEnabled bool       `json:"checkout_enabled"`
}

type PaymentView struct {
	Method       string `json:"method"`
	ModalTotal   string `json:"modal_total"`
	CashReceived string `json:"cash_received"`
	Change       string `json:"change"`
	ChangeValid  bool   `json:"change_valid"`
	Reference    string `json:"reference"`
	DueDate      string `json:"credit_due_date"`
	CreditNotes  string `json:"credit_notes"`
	Notes        string `json:"notes"`
}

// DebtView feeds the customer credit-standing panel. Level mirrors the
// alert styling thresholds: danger above 80% of the limit, warning
// above 50%, info otherwise. It is hidden for walk-in customers.
type DebtView struct {
	Visible         bool   `json:"visible"`
	CurrentDebt     string `json:"current_debt"`
	CreditLimit     string `json:"credit_limit"`
	AvailableCredit string `json:"available_credit"`
	Level           string `json:"level"`
}

type ReceiptView struct {
	InvoiceNumber string `json:"invoice_number"`
	ReceiptURL    string `json:"receipt_url"`
}

// Renderer formats amounts with the configured currency prefix.
type Renderer struct {
	CurrencySymbol string
}

// Money renders an amount with the currency prefix and two decimals.
func (r Renderer) Money(amount decimal.Decimal) string {
	return r.CurrencySymbol + " " + amount.StringFixed(2)
}

// RenderCart projects the cart and its derived totals. The checkout
// control follows the cart: enabled exactly when there is a line item.
func (r Renderer) RenderCart(cart models.Cart, totals session.Totals) CartView {
	v := CartView{
		Empty:           cart.IsEmpty(),
		Lines:           make([]LineView, 0, len(cart.Items)),
		CheckoutEnabled: !cart.IsEmpty(),
		Totals: TotalsView{
			Subtotal: r.Money(totals.Subtotal),
			Discount: totals.Discount.StringFixed(2),
			Tax:      r.Money(totals.Tax),
			Total:    r.Money(totals.Total),
		},
	}
	for i, item := range cart.Items {
		v.Lines = append(v.Lines, LineView{
			Index:     i,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: r.Money(item.UnitPrice),
			Quantity:  item.Quantity.String(),
			MaxStock:  item.MaxStock.String(),
			LineTotal: r.Money(item.LineTotal()),
		})
	}
	return v
}

// RenderPayment projects the payment dialog: the active method, the
// total carried into the modal, and the cash change with its validity
// flag. The change field itself renders without the currency prefix.
func (r Renderer) RenderPayment(sel models.PaymentSelection, totals session.Totals, change decimal.Decimal, changeValid bool) PaymentView {
	return PaymentView{
		Method:       string(sel.Method),
		ModalTotal:   r.Money(totals.Total),
		CashReceived: sel.CashReceived.StringFixed(2),
		Change:       change.StringFixed(2),
		ChangeValid:  changeValid,
		Reference:    sel.Reference,
		DueDate:      sel.CreditDueDate,
		CreditNotes:  sel.CreditNotes,
		Notes:        sel.Notes,
	}
}

var (
	debtWarnRatio   = decimal.RequireFromString("0.5")
	debtDangerRatio = decimal.RequireFromString("0.8")
)

// RenderDebt projects a customer's credit standing.
func (r Renderer) RenderDebt(customer models.CustomerOption) DebtView {
	if customer.IsWalkIn() {
		return DebtView{Visible: false}
	}

	level := "info"
	if customer.CurrentDebt.GreaterThan(customer.CreditLimit.Mul(debtDangerRatio)) {
		level = "danger"
	} else if customer.CurrentDebt.GreaterThan(customer.CreditLimit.Mul(debtWarnRatio)) {
		level = "warning"
	}

	return DebtView{
		Visible:         true,
		CurrentDebt:     r.CurrencySymbol + customer.CurrentDebt.StringFixed(2),
		CreditLimit:     r.CurrencySymbol + customer.CreditLimit.StringFixed(2),
		AvailableCredit: r.CurrencySymbol + customer.AvailableCredit().StringFixed(2),
		Level:           level,
	}
}

func (r Renderer) RenderReceipt(receipt session.Receipt) ReceiptView {
	return ReceiptView{
		InvoiceNumber: receipt.InvoiceNumber,
		ReceiptURL:    receipt.ReceiptURL,
	}
}
