package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
)

// Quantities move in fixed steps; products are sold in fractional
// units, so a new line starts at half a unit.
var (
	defaultQuantity = decimal.RequireFromString("0.5")

	stepQuarter = decimal.RequireFromString("0.25")
	stepHalf    = decimal.RequireFromString("0.5")
	stepOne     = decimal.NewFromInt(1)
)

// AllowedSteps are the quantity deltas the terminal exposes. There is
// no -1 control; removing a full unit takes two half steps.
var AllowedSteps = []decimal.Decimal{
	stepQuarter.Neg(), stepHalf.Neg(), stepQuarter, stepHalf, stepOne,
}

func allowedStep(step decimal.Decimal) bool {
	for _, s := range AllowedSteps {
		if s.Equal(step) {
			return true
		}
	}
	return false
}

// Session is the cart session manager for one terminal: the in-memory
// cart, the operator-entered discount, the selected customer and the
// active payment selection, plus the collaborators it needs to notify
// the operator and submit the finished sale. There is no persistence;
// the state lives and dies with the session.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	cart       models.Cart
	discount   decimal.Decimal
	customer   models.CustomerOption
	payment    models.PaymentSelection
	submitting bool

	taxRate  decimal.Decimal
	currency string

	receiptPath string
	notifier    Notifier
	submitter   SaleSubmitter

	now func() time.Time
}

func NewSession(taxRate decimal.Decimal, currency, receiptPath string, notifier Notifier, submitter SaleSubmitter) *Session {
	return &Session{
		ID:          uuid.New(),
		discount:    decimal.Zero,
		taxRate:     taxRate,
		currency:    currency,
		receiptPath: receiptPath,
		notifier:    notifier,
		submitter:   submitter,
		now:         time.Now,
	}
}

// Cart returns a copy of the current cart.
func (s *Session) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return models.Cart{Items: items}
}

func (s *Session) Payment() models.PaymentSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

func (s *Session) Customer() models.CustomerOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

func (s *Session) Discount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

// Totals recomputes the derived breakdown from the current state.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Session) totalsLocked() Totals {
	return ComputeTotals(&s.cart, s.discount, s.taxRate)
}

// AddItem puts a product card into the cart. A card already in the
// cart has its quantity bumped by the default increment instead; the
// bump is refused when it would pass the card's stock.
func (s *Session) AddItem(card models.ProductCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !card.Stock.IsPositive() {
		return s.reject(ErrOutOfStock)
	}

	if idx := s.cart.IndexOf(card.ProductID); idx != -1 {
		newQuantity := s.cart.Items[idx].Quantity.Add(defaultQuantity).Round(2)
		if newQuantity.GreaterThan(card.Stock) {
			return s.reject(ErrStockLimit)
		}
		s.cart.Items[idx].Quantity = newQuantity
		return nil
	}

	s.cart.Items = append(s.cart.Items, models.CartItem{
		ProductID: card.ProductID,
		Name:      card.Name,
		UnitPrice: card.UnitPrice,
		Quantity:  defaultQuantity,
		MaxStock:  card.Stock,
	})
	return nil
}

// AdjustQuantity applies one of the fixed step deltas to the line at
// index. A step that would drive the quantity to zero or below removes
// the line instead.
func (s *Session) AdjustQuantity(index int, step decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.ValidIndex(index) {
		return s.reject(ErrInvalidIndex)
	}
	if !allowedStep(step) {
		return fmt.Errorf("unsupported quantity step %s", step.String())
	}

	item := &s.cart.Items[index]
	newQuantity := item.Quantity.Add(step).Round(2)

	if !newQuantity.IsPositive() {
		s.removeLocked(index)
		return nil
	}
	if newQuantity.GreaterThan(item.MaxStock) {
		return s.reject(ErrStockLimit)
	}

	item.Quantity = newQuantity
	return nil
}

// SetQuantity stores a manually entered quantity for the line at index.
// Rejections leave the stored quantity untouched so the front-end can
// revert the input field from the next snapshot.
func (s *Session) SetQuantity(index int, quantity decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.ValidIndex(index) {
		return s.reject(ErrInvalidIndex)
	}
	if !quantity.IsPositive() {
		return s.reject(ErrInvalidQuantity)
	}

	item := &s.cart.Items[index]
	if quantity.GreaterThan(item.MaxStock) {
		s.notifier.Alert(fmt.Sprintf("Cannot exceed stock limit of %s", item.MaxStock.String()))
		return fmt.Errorf("quantity %s exceeds stock limit of %s", quantity.String(), item.MaxStock.String())
	}

	item.Quantity = quantity.Round(2)
	return nil
}

func (s *Session) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.ValidIndex(index) {
		return s.reject(ErrInvalidIndex)
	}
	s.removeLocked(index)
	return nil
}

func (s *Session) removeLocked(index int) {
	s.cart.Items = append(s.cart.Items[:index], s.cart.Items[index+1:]...)
}

// ClearCart empties the cart after the operator confirms. An already
// empty cart is left alone without prompting.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return
	}
	if !s.notifier.Confirm("Are you sure you want to clear the cart?") {
		return
	}
	s.cart.Items = nil
}

// SetDiscount stores the operator-entered discount. It is deliberately
// not validated against the subtotal.
func (s *Session) SetDiscount(discount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = discount
}

// SelectCustomer updates the authoritative customer selection shared by
// the cart and payment views. Switching to a customer who cannot carry
// the active credit selection warns the operator, and falling back to
// the walk-in sentinel reverts the payment method to cash.
func (s *Session) SelectCustomer(customer models.CustomerOption) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customer = customer

	if s.payment.Method != models.PaymentCredit {
		return
	}
	if customer.IsWalkIn() {
		s.notifier.Alert("Credit payment is not available for walk-in customers. Please select a specific customer or choose a different payment method.")
		s.selectLocked(models.PaymentCash)
		return
	}
	if !customer.AvailableCredit().IsPositive() {
		s.notifier.Alert("Warning: Selected customer has no available credit. Please choose a different payment method or customer.")
	}
}

// OpenPayment prepares the payment dialog: the previous method
// selection is discarded so the operator picks one explicitly.
func (s *Session) OpenPayment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment.Method = models.PaymentNone
}

// SelectPaymentMethod activates a payment method. Credit demands a
// concretely selected customer; otherwise the selection falls back to
// cash and the operator is warned. Cash pre-fills the received amount
// with the current total, credit pre-fills a due date 30 days out.
func (s *Session) SelectPaymentMethod(method models.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if method != models.PaymentNone {
		if _, err := models.ParsePaymentMethod(string(method)); err != nil {
			return err
		}
	}

	if method == models.PaymentCredit && s.customer.IsWalkIn() {
		s.notifier.Alert(ErrCreditWalkIn.Error())
		s.selectLocked(models.PaymentCash)
		return nil
	}

	s.selectLocked(method)
	return nil
}

func (s *Session) selectLocked(method models.PaymentMethod) {
	s.payment.Method = method

	switch method {
	case models.PaymentCash:
		s.payment.CashReceived = s.totalsLocked().Total.Round(2)
	case models.PaymentCredit:
		s.payment.CreditDueDate = s.now().AddDate(0, 0, 30).Format("2006-01-02")
	}
}

func (s *Session) SetCashReceived(amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment.CashReceived = amount
}

func (s *Session) SetReference(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment.Reference = reference
}

func (s *Session) SetCreditDueDate(dueDate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment.CreditDueDate = dueDate
}

func (s *Session) SetCreditNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment.CreditNotes = notes
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment.Notes = notes
}

// Change computes the cash change for the current received amount. A
// shortfall reports zero change and an invalid flag instead of a
// negative number.
func (s *Session) Change() (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeLocked()
}

func (s *Session) changeLocked() (decimal.Decimal, bool) {
	change := s.payment.CashReceived.Sub(s.totalsLocked().Total)
	if change.IsNegative() {
		return decimal.Zero, false
	}
	return change.Round(2), true
}

func (s *Session) reject(err error) error {
	s.notifier.Alert(err.Error())
	return err
}
