package session

import "errors"

// User-facing validation failures. The message text is what the
// terminal shows the operator, so it stays in display form.
var (
	ErrOutOfStock       = errors.New("This product is out of stock")
	ErrStockLimit       = errors.New("Cannot add more of this product due to stock limitations")
	ErrInvalidQuantity  = errors.New("Please enter a valid positive quantity")
	ErrInvalidIndex     = errors.New("No such item in the cart")
	ErrEmptyCart        = errors.New("Please add items to the cart before checkout")
	ErrNoPaymentMethod  = errors.New("Please select a payment method")
	ErrInsufficientCash = errors.New("Cash received must be at least equal to the total amount")
	ErrCreditWalkIn     = errors.New("Please select a specific customer for credit transactions. Walk-in customers cannot make credit purchases.")
	ErrSubmitInFlight   = errors.New("A sale is already being processed")
	ErrSubmitCancelled  = errors.New("Sale cancelled")
	ErrSaleRejected     = errors.New("Sale was rejected by the server")
	ErrSubmitFailed     = errors.New("An error occurred while processing the sale. Please try again.")
)
