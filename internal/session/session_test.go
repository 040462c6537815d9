package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
)

type mockNotifier struct {
	mu      sync.Mutex
	alerts  []string
	prompts []string
	answer  bool
}

func (m *mockNotifier) Alert(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, message)
}

func (m *mockNotifier) Confirm(message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, message)
	return m.answer
}

func (m *mockNotifier) lastAlert() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.alerts) == 0 {
		return ""
	}
	return m.alerts[len(m.alerts)-1]
}

type mockSubmitter struct {
	mu   sync.Mutex
	resp *models.SaleResponse
	err  error
	reqs []models.SaleRequest
}

func (m *mockSubmitter) Submit(_ context.Context, req models.SaleRequest) (*models.SaleResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs = append(m.reqs, req)
	return m.resp, m.err
}

func newTestSession(taxRate string) (*Session, *mockNotifier, *mockSubmitter) {
	notifier := &mockNotifier{}
	submitter := &mockSubmitter{}
	s := NewSession(decimal.RequireFromString(taxRate), "$", "/pos/receipt/", notifier, submitter)
	return s, notifier, submitter
}

func card(id int64, name, price, stock string) models.ProductCard {
	return models.ProductCard{
		ProductID: id,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Stock:     decimal.RequireFromString(stock),
	}
}

func TestAddItemOutOfStock(t *testing.T) {
	s, notifier, _ := newTestSession("0")

	err := s.AddItem(card(1, "Milk", "10.00", "0"))

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, s.Cart().IsEmpty())
	assert.Equal(t, ErrOutOfStock.Error(), notifier.lastAlert())
}

func TestAddItemStartsAtHalfUnit(t *testing.T) {
	s, _, _ := newTestSession("0")

	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	cart := s.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "0.5", cart.Items[0].Quantity.String())
	assert.Equal(t, "Milk", cart.Items[0].Name)
	assert.Equal(t, "5", cart.Items[0].MaxStock.String())
}

func TestAddItemTwiceIncrementsByHalf(t *testing.T) {
	s, _, _ := newTestSession("0")

	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	cart := s.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "1", cart.Items[0].Quantity.String())
	assert.Equal(t, "10.00", s.Totals().Subtotal.StringFixed(2))
}

func TestAddItemRefusesIncrementPastStock(t *testing.T) {
	s, notifier, _ := newTestSession("0")

	require.NoError(t, s.AddItem(card(1, "Saffron", "100.00", "0.5")))
	err := s.AddItem(card(1, "Saffron", "100.00", "0.5"))

	assert.ErrorIs(t, err, ErrStockLimit)
	assert.Equal(t, "0.5", s.Cart().Items[0].Quantity.String())
	assert.Equal(t, ErrStockLimit.Error(), notifier.lastAlert())
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	s, _, _ := newTestSession("0")

	require.NoError(t, s.AddItem(card(3, "Rice", "2.00", "10")))
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))
	require.NoError(t, s.AddItem(card(2, "Bread", "1.50", "8")))
	// Bumping an existing line must not reorder
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	cart := s.Cart()
	require.Len(t, cart.Items, 3)
	assert.Equal(t, int64(3), cart.Items[0].ProductID)
	assert.Equal(t, int64(1), cart.Items[1].ProductID)
	assert.Equal(t, int64(2), cart.Items[2].ProductID)
}

func TestAdjustQuantitySteps(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	require.NoError(t, s.AdjustQuantity(0, decimal.RequireFromString("1")))
	assert.Equal(t, "1.5", s.Cart().Items[0].Quantity.String())

	require.NoError(t, s.AdjustQuantity(0, decimal.RequireFromString("-0.25")))
	assert.Equal(t, "1.25", s.Cart().Items[0].Quantity.String())

	require.NoError(t, s.AdjustQuantity(0, decimal.RequireFromString("0.5")))
	assert.Equal(t, "1.75", s.Cart().Items[0].Quantity.String())
}

func TestAdjustQuantityToZeroRemovesItem(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	require.NoError(t, s.AdjustQuantity(0, decimal.RequireFromString("-0.5")))

	assert.True(t, s.Cart().IsEmpty())
}

func TestAdjustQuantityBelowZeroRemovesItem(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))
	require.NoError(t, s.AdjustQuantity(0, decimal.RequireFromString("-0.25")))

	// 0.25 - 0.5 < 0: same as removing the line
	require.NoError(t, s.AdjustQuantity(0, decimal.RequireFromString("-0.5")))

	assert.True(t, s.Cart().IsEmpty())
}

func TestAdjustQuantityRejectsPastStock(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Saffron", "100.00", "1")))

	err := s.AdjustQuantity(0, decimal.RequireFromString("1"))

	assert.ErrorIs(t, err, ErrStockLimit)
	assert.Equal(t, "0.5", s.Cart().Items[0].Quantity.String())
	assert.Equal(t, ErrStockLimit.Error(), notifier.lastAlert())
}

func TestAdjustQuantityRejectsUnknownStep(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	assert.Error(t, s.AdjustQuantity(0, decimal.RequireFromString("-1")))
	assert.Error(t, s.AdjustQuantity(0, decimal.RequireFromString("3")))
	assert.Equal(t, "0.5", s.Cart().Items[0].Quantity.String())
}

func TestAdjustQuantityInvalidIndex(t *testing.T) {
	s, _, _ := newTestSession("0")

	assert.ErrorIs(t, s.AdjustQuantity(0, decimal.RequireFromString("0.5")), ErrInvalidIndex)
	assert.ErrorIs(t, s.AdjustQuantity(-1, decimal.RequireFromString("0.5")), ErrInvalidIndex)
}

func TestSetQuantityRejectsNonPositive(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	assert.ErrorIs(t, s.SetQuantity(0, decimal.Zero), ErrInvalidQuantity)
	assert.ErrorIs(t, s.SetQuantity(0, decimal.RequireFromString("-2")), ErrInvalidQuantity)
	assert.Equal(t, "0.5", s.Cart().Items[0].Quantity.String())
	assert.Equal(t, ErrInvalidQuantity.Error(), notifier.lastAlert())
}

func TestSetQuantityRejectsPastStockWithCeilingInMessage(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	err := s.SetQuantity(0, decimal.RequireFromString("5.5"))

	require.Error(t, err)
	assert.Contains(t, notifier.lastAlert(), "Cannot exceed stock limit of 5")
	assert.Equal(t, "0.5", s.Cart().Items[0].Quantity.String())
}

func TestSetQuantityRoundsToTwoDecimals(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	require.NoError(t, s.SetQuantity(0, decimal.RequireFromString("1.236")))

	assert.Equal(t, "1.24", s.Cart().Items[0].Quantity.String())
}

func TestQuantityStaysWithinBoundsAcrossMutations(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	steps := []string{"1", "0.25", "-0.5", "0.5", "1", "-0.25", "0.25", "1"}
	for _, raw := range steps {
		s.AdjustQuantity(0, decimal.RequireFromString(raw))
		s.AddItem(card(1, "Milk", "10.00", "5"))

		for _, item := range s.Cart().Items {
			assert.True(t, item.Quantity.IsPositive(), "quantity must stay positive")
			assert.True(t, item.Quantity.LessThanOrEqual(item.MaxStock), "quantity must not pass stock")
			assert.True(t, item.Quantity.Equal(item.Quantity.Round(2)), "quantity must keep at most 2 decimals")
		}
	}
}

func TestSubtotalMatchesLineItems(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))
	require.NoError(t, s.AddItem(card(2, "Bread", "1.50", "8")))
	require.NoError(t, s.AdjustQuantity(1, decimal.RequireFromString("1")))

	want := decimal.Zero
	for _, item := range s.Cart().Items {
		want = want.Add(item.UnitPrice.Mul(item.Quantity))
	}
	assert.True(t, s.Totals().Subtotal.Equal(want))
}

func TestRemoveItem(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))
	require.NoError(t, s.AddItem(card(2, "Bread", "1.50", "8")))

	require.NoError(t, s.RemoveItem(0))

	cart := s.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ProductID)

	assert.ErrorIs(t, s.RemoveItem(5), ErrInvalidIndex)
}

func TestClearCartNeedsConfirmation(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	require.NoError(t, s.AddItem(card(1, "Milk", "10.00", "5")))

	notifier.answer = false
	s.ClearCart()
	assert.False(t, s.Cart().IsEmpty())

	notifier.answer = true
	s.ClearCart()
	assert.True(t, s.Cart().IsEmpty())
	assert.Len(t, notifier.prompts, 2)
}

func TestClearCartOnEmptyCartDoesNotPrompt(t *testing.T) {
	s, notifier, _ := newTestSession("0")

	s.ClearCart()

	assert.Empty(t, notifier.prompts)
}

func TestTotalsScenario(t *testing.T) {
	// subtotal 100.00, discount 10.00, tax rate 15 -> tax 13.50, total 103.50
	s, _, _ := newTestSession("15")
	require.NoError(t, s.AddItem(card(1, "Flour", "200.00", "10")))

	s.SetDiscount(decimal.RequireFromString("10.00"))

	totals := s.Totals()
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "13.50", totals.Tax.StringFixed(2))
	assert.Equal(t, "103.50", totals.Total.StringFixed(2))
}

func TestDiscountMayExceedSubtotal(t *testing.T) {
	s, _, _ := newTestSession("15")
	require.NoError(t, s.AddItem(card(1, "Gum", "1.00", "10")))

	s.SetDiscount(decimal.RequireFromString("100.00"))

	totals := s.Totals()
	assert.True(t, totals.Taxable.IsNegative())
	assert.True(t, totals.Total.IsNegative())
}

func TestSelectPaymentMethodCashPrefillsReceived(t *testing.T) {
	s, _, _ := newTestSession("15")
	require.NoError(t, s.AddItem(card(1, "Flour", "200.00", "10")))
	s.SetDiscount(decimal.RequireFromString("10.00"))

	require.NoError(t, s.SelectPaymentMethod(models.PaymentCash))

	assert.Equal(t, "103.50", s.Payment().CashReceived.StringFixed(2))
	change, valid := s.Change()
	assert.True(t, valid)
	assert.Equal(t, "0.00", change.StringFixed(2))
}

func TestSelectPaymentMethodCreditPrefillsDueDate(t *testing.T) {
	s, _, _ := newTestSession("0")
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	s.SelectCustomer(models.CustomerOption{
		ID:          "7",
		Name:        "Asha Traders",
		CreditLimit: decimal.RequireFromString("1000"),
	})

	require.NoError(t, s.SelectPaymentMethod(models.PaymentCredit))

	assert.Equal(t, models.PaymentCredit, s.Payment().Method)
	assert.Equal(t, "2024-03-31", s.Payment().CreditDueDate)
}

func TestSelectPaymentMethodCreditWithWalkInRevertsToCash(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	s.SelectCustomer(models.CustomerOption{Name: models.WalkInCustomerName})

	require.NoError(t, s.SelectPaymentMethod(models.PaymentCredit))

	assert.Equal(t, models.PaymentCash, s.Payment().Method)
	assert.Equal(t, ErrCreditWalkIn.Error(), notifier.lastAlert())
}

func TestSelectPaymentMethodCreditWithEmptySelectionRevertsToCash(t *testing.T) {
	s, _, _ := newTestSession("0")

	require.NoError(t, s.SelectPaymentMethod(models.PaymentCredit))

	assert.Equal(t, models.PaymentCash, s.Payment().Method)
}

func TestSelectCustomerWalkInWhileCreditRevertsToCash(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	s.SelectCustomer(models.CustomerOption{
		ID:          "7",
		Name:        "Asha Traders",
		CreditLimit: decimal.RequireFromString("1000"),
	})
	require.NoError(t, s.SelectPaymentMethod(models.PaymentCredit))

	s.SelectCustomer(models.CustomerOption{Name: models.WalkInCustomerName})

	assert.Equal(t, models.PaymentCash, s.Payment().Method)
	assert.Contains(t, notifier.lastAlert(), "not available for walk-in customers")
}

func TestSelectCustomerWithoutCreditWarns(t *testing.T) {
	s, notifier, _ := newTestSession("0")
	s.SelectCustomer(models.CustomerOption{
		ID:          "7",
		Name:        "Asha Traders",
		CreditLimit: decimal.RequireFromString("100"),
	})
	require.NoError(t, s.SelectPaymentMethod(models.PaymentCredit))

	s.SelectCustomer(models.CustomerOption{
		ID:          "8",
		Name:        "Maxed Out Ltd",
		CreditLimit: decimal.RequireFromString("100"),
		CurrentDebt: decimal.RequireFromString("100"),
	})

	assert.Equal(t, models.PaymentCredit, s.Payment().Method)
	assert.Contains(t, notifier.lastAlert(), "no available credit")
}

func TestChangeCalculation(t *testing.T) {
	s, _, _ := newTestSession("15")
	require.NoError(t, s.AddItem(card(1, "Flour", "200.00", "10")))
	s.SetDiscount(decimal.RequireFromString("10.00"))
	require.NoError(t, s.SelectPaymentMethod(models.PaymentCash))

	s.SetCashReceived(decimal.RequireFromString("50.00"))
	change, valid := s.Change()
	assert.False(t, valid)
	assert.Equal(t, "0.00", change.StringFixed(2))

	s.SetCashReceived(decimal.RequireFromString("150.00"))
	change, valid = s.Change()
	assert.True(t, valid)
	assert.Equal(t, "46.50", change.StringFixed(2))
}

func TestOpenPaymentResetsMethodSelection(t *testing.T) {
	s, _, _ := newTestSession("0")
	require.NoError(t, s.SelectPaymentMethod(models.PaymentCard))

	s.OpenPayment()

	assert.Equal(t, models.PaymentNone, s.Payment().Method)
}
