package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
	"github.com/OchiengBrandon/HyperPOS/pkg/saleclient"
)

// SaleSubmitter posts a finished sale to the backend. Implemented by
// pkg/saleclient; tests swap in a stub.
type SaleSubmitter interface {
	Submit(ctx context.Context, req models.SaleRequest) (*models.SaleResponse, error)
}

// Receipt is what a successful submission leaves behind for the
// receipt dialog.
type Receipt struct {
	InvoiceNumber string `json:"invoice_number"`
	SaleID        string `json:"sale_id"`
	ReceiptURL    string `json:"receipt_url"`
}

// SubmitSale runs the checkout pipeline: validate the cart and payment
// selection, build the sale payload, post it, and on success reset the
// session to empty. Every validation failure aborts before the network
// call, and a failed call leaves the cart and form state untouched so
// the operator can retry.
func (s *Session) SubmitSale(ctx context.Context) (*Receipt, error) {
	s.mu.Lock()

	if s.submitting {
		s.mu.Unlock()
		return nil, s.reject(ErrSubmitInFlight)
	}

	if s.cart.IsEmpty() {
		err := s.reject(ErrEmptyCart)
		s.mu.Unlock()
		return nil, err
	}

	if !s.payment.Selected() {
		err := s.reject(ErrNoPaymentMethod)
		s.mu.Unlock()
		return nil, err
	}

	totals := s.totalsLocked()

	if s.payment.Method == models.PaymentCash {
		if s.payment.CashReceived.LessThan(totals.Total) {
			err := s.reject(ErrInsufficientCash)
			s.mu.Unlock()
			return nil, err
		}
	}

	if s.payment.Method == models.PaymentCredit {
		if s.customer.IsWalkIn() {
			err := s.reject(ErrCreditWalkIn)
			s.mu.Unlock()
			return nil, err
		}

		projected := s.customer.CurrentDebt.Add(totals.Total)
		if projected.GreaterThan(s.customer.CreditLimit) {
			exceeded := projected.Sub(s.customer.CreditLimit)
			prompt := fmt.Sprintf("This transaction will exceed the customer's credit limit by %s%s. Continue anyway?",
				s.currency, exceeded.StringFixed(2))
			if !s.notifier.Confirm(prompt) {
				s.mu.Unlock()
				return nil, ErrSubmitCancelled
			}
		}
	}

	req := s.buildPayloadLocked(totals)
	s.submitting = true
	s.mu.Unlock()

	resp, err := s.submitter.Submit(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		log.Printf("sale submission error: %v", err)
		if errors.Is(err, saleclient.ErrMissingToken) {
			s.notifier.Alert(err.Error())
			return nil, err
		}
		return nil, s.reject(ErrSubmitFailed)
	}

	if !resp.Success {
		s.notifier.Alert("Error: " + resp.Error)
		return nil, fmt.Errorf("%w: %s", ErrSaleRejected, resp.Error)
	}

	receipt := &Receipt{
		InvoiceNumber: resp.InvoiceNumber,
		SaleID:        resp.SaleID,
		ReceiptURL:    s.receiptPath + resp.SaleID + "/",
	}
	s.resetLocked()
	return receipt, nil
}

func (s *Session) buildPayloadLocked(totals Totals) models.SaleRequest {
	req := models.SaleRequest{
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.Tax,
		DiscountAmount: totals.Discount,
		TotalAmount:    totals.Total,
		PaymentMethod:  s.payment.Method,
		Notes:          s.payment.Notes,
		Items:          make([]models.SaleItemRequest, 0, len(s.cart.Items)),
	}

	if s.customer.ID != "" {
		id := s.customer.ID
		req.CustomerID = &id
	}

	switch s.payment.Method {
	case models.PaymentCard, models.PaymentMobile:
		req.PaymentReference = s.payment.Reference
	case models.PaymentCredit:
		req.CreditDueDate = s.payment.CreditDueDate
		req.CreditNotes = s.payment.CreditNotes
	}

	for _, item := range s.cart.Items {
		req.Items = append(req.Items, models.SaleItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return req
}

// resetLocked returns the session to its initial state after a
// completed sale: empty cart, zero discount, cleared customer and
// payment form fields.
func (s *Session) resetLocked() {
	s.cart.Items = nil
	s.discount = decimal.Zero
	s.customer = models.CustomerOption{}
	s.payment = models.PaymentSelection{}
}
