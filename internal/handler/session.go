package handler

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/OchiengBrandon/HyperPOS/internal/models"
	"github.com/OchiengBrandon/HyperPOS/internal/session"
	"github.com/OchiengBrandon/HyperPOS/internal/view"
)

// SessionHandler exposes the cart session operations over HTTP. One
// session per terminal tab; every mutation responds with the refreshed
// snapshot so the front-end redraws from state, never from its own
// bookkeeping.
type SessionHandler struct {
	Registry    *session.Registry
	Renderer    view.Renderer
	TaxRate     decimal.Decimal
	ReceiptPath string
	Submitter   session.SaleSubmitter

	mu        sync.Mutex
	notifiers map[string]*promptNotifier
}

func NewSessionHandler(registry *session.Registry, renderer view.Renderer, taxRate decimal.Decimal, receiptPath string, submitter session.SaleSubmitter) *SessionHandler {
	return &SessionHandler{
		Registry:    registry,
		Renderer:    renderer,
		TaxRate:     taxRate,
		ReceiptPath: receiptPath,
		Submitter:   submitter,
		notifiers:   make(map[string]*promptNotifier),
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	notifier := &promptNotifier{}
	s := session.NewSession(h.TaxRate, h.Renderer.CurrencySymbol, h.ReceiptPath, notifier, h.Submitter)
	h.Registry.Put(s)

	h.mu.Lock()
	h.notifiers[s.ID.String()] = notifier
	h.mu.Unlock()

	c.JSON(http.StatusCreated, h.snapshot(s, notifier, nil))
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}
	notifier.begin(false)
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

func (h *SessionHandler) CloseSession(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Registry.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	h.Registry.Delete(id)

	h.mu.Lock()
	delete(h.notifiers, id)
	h.mu.Unlock()

	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) AddItem(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var card models.ProductCard
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifier.begin(false)
	if err := s.AddItem(card); err != nil {
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": err.Error()}))
		return
	}
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

type AdjustQuantityRequest struct {
	Step string `json:"step" binding:"required"`
}

func (h *SessionHandler) AdjustQuantity(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	var req AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	step, err := decimal.NewFromString(req.Step)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity step"})
		return
	}

	notifier.begin(false)
	if err := s.AdjustQuantity(index, step); err != nil {
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": err.Error()}))
		return
	}
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

type SetQuantityRequest struct {
	Quantity string `json:"quantity" binding:"required"`
}

func (h *SessionHandler) SetQuantity(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifier.begin(false)

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		// Mirror the manual-entry rule: anything non-numeric is the
		// same as a non-positive quantity.
		notifier.Alert(session.ErrInvalidQuantity.Error())
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": session.ErrInvalidQuantity.Error()}))
		return
	}

	if err := s.SetQuantity(index, quantity); err != nil {
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": err.Error()}))
		return
	}
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

func (h *SessionHandler) RemoveItem(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	notifier.begin(false)
	if err := s.RemoveItem(index); err != nil {
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": err.Error()}))
		return
	}
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *SessionHandler) ClearCart(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	notifier.begin(req.Confirmed)
	s.ClearCart()
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

type SetDiscountRequest struct {
	Discount string `json:"discount"`
}

func (h *SessionHandler) SetDiscount(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	discount := decimal.Zero
	if req.Discount != "" {
		var err error
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount amount"})
			return
		}
	}

	notifier.begin(false)
	s.SetDiscount(discount)
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

func (h *SessionHandler) SelectCustomer(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var customer models.CustomerOption
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifier.begin(false)
	s.SelectCustomer(customer)
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

// Checkout opens the payment dialog: the method selection resets and
// the current total is projected into the modal view.
func (h *SessionHandler) Checkout(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	notifier.begin(false)
	s.OpenPayment()
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

type SelectPaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

func (h *SessionHandler) SelectPaymentMethod(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SelectPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifier.begin(false)
	if err := s.SelectPaymentMethod(method); err != nil {
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": err.Error()}))
		return
	}
	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

type PaymentDetailsRequest struct {
	CashReceived  *string `json:"cash_received"`
	Reference     *string `json:"reference"`
	CreditDueDate *string `json:"credit_due_date"`
	CreditNotes   *string `json:"credit_notes"`
	Notes         *string `json:"notes"`
}

func (h *SessionHandler) SetPaymentDetails(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var req PaymentDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifier.begin(false)

	if req.CashReceived != nil {
		// An unparsable amount counts as zero received, like an empty
		// input field.
		received, err := decimal.NewFromString(*req.CashReceived)
		if err != nil {
			received = decimal.Zero
		}
		s.SetCashReceived(received)
	}
	if req.Reference != nil {
		s.SetReference(*req.Reference)
	}
	if req.CreditDueDate != nil {
		s.SetCreditDueDate(*req.CreditDueDate)
	}
	if req.CreditNotes != nil {
		s.SetCreditNotes(*req.CreditNotes)
	}
	if req.Notes != nil {
		s.SetNotes(*req.Notes)
	}

	c.JSON(http.StatusOK, h.snapshot(s, notifier, nil))
}

func (h *SessionHandler) SubmitSale(c *gin.Context) {
	s, notifier, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	notifier.begin(req.Confirmed)

	receipt, err := s.SubmitSale(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, h.snapshot(s, notifier, gin.H{"error": err.Error()}))
		return
	}

	extra := gin.H{"receipt": h.Renderer.RenderReceipt(*receipt)}
	c.JSON(http.StatusOK, h.snapshot(s, notifier, extra))
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, *promptNotifier, bool) {
	id := c.Param("id")
	s, ok := h.Registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, nil, false
	}

	h.mu.Lock()
	notifier := h.notifiers[id]
	h.mu.Unlock()
	if notifier == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, nil, false
	}
	return s, notifier, true
}

func (h *SessionHandler) itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index"})
		return 0, false
	}
	return index, true
}

// snapshot renders the whole session into one response body: cart,
// payment dialog, customer debt panel, and any alerts or pending
// confirmation prompts the operation produced.
func (h *SessionHandler) snapshot(s *session.Session, notifier *promptNotifier, extra gin.H) gin.H {
	cart := s.Cart()
	totals := s.Totals()
	change, changeValid := s.Change()
	customer := s.Customer()
	alerts, prompts := notifier.drain()

	body := gin.H{
		"session_id":  s.ID.String(),
		"cart":        h.Renderer.RenderCart(cart, totals),
		"payment":     h.Renderer.RenderPayment(s.Payment(), totals, change, changeValid),
		"debt":        h.Renderer.RenderDebt(customer),
		"customer_id": customer.ID,
		"alerts":      alerts,
		"confirm":     prompts,
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}
