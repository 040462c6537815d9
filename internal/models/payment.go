package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentNone   PaymentMethod = ""
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile_payment"
	PaymentCredit PaymentMethod = "credit"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentCredit:
		return PaymentMethod(s), nil
	default:
		return PaymentNone, fmt.Errorf("unknown payment method %q", s)
	}
}

// PaymentSelection holds the active payment method and its auxiliary
// fields. Switching methods only changes which fields are shown; the
// stored values survive until the sale is completed or reset.
type PaymentSelection struct {
	Method        PaymentMethod   `json:"method"`
	CashReceived  decimal.Decimal `json:"cash_received"`
	Reference     string          `json:"reference"`
	CreditDueDate string          `json:"credit_due_date"`
	CreditNotes   string          `json:"credit_notes"`
	Notes         string          `json:"notes"`
}

func (p *PaymentSelection) Selected() bool {
	return p.Method != PaymentNone
}
