package models

import (
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one order line in the process-sale payload.
type SaleItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRequest is the JSON body posted to the process-sale endpoint.
// Field names follow the backend's contract.
type SaleRequest struct {
	CustomerID       *string           `json:"customer_id"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	TaxAmount        decimal.Decimal   `json:"tax_amount"`
	DiscountAmount   decimal.Decimal   `json:"discount_amount"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	PaymentMethod    PaymentMethod     `json:"payment_method"`
	PaymentReference string            `json:"payment_reference"`
	Notes            string            `json:"notes"`
	Items            []SaleItemRequest `json:"items"`
	CreditDueDate    string            `json:"credit_due_date,omitempty"`
	CreditNotes      string            `json:"credit_notes,omitempty"`
}

// SaleResponse is what the backend reports after persisting the order.
type SaleResponse struct {
	Success       bool   `json:"success"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	SaleID        string `json:"sale_id,omitempty"`
	Error         string `json:"error,omitempty"`
}
