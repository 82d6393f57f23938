package domain

type CheckoutStatus string

const (
	CheckoutStatusInitiated       CheckoutStatus = "INITIATED"
	CheckoutStatusStockValidated  CheckoutStatus = "STOCK_VALIDATED"
	CheckoutStatusStockCommitted  CheckoutStatus = "STOCK_COMMITTED"
	CheckoutStatusOrderCreated    CheckoutStatus = "ORDER_CREATED"
	CheckoutStatusDiscountSettled CheckoutStatus = "DISCOUNT_SETTLED"
	CheckoutStatusCartCleared     CheckoutStatus = "CART_CLEARED"
	CheckoutStatusCompleted       CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed          CheckoutStatus = "FAILED"
)

// Checkout advances through a strictly linear sequence; any non-terminal
// status may drop to FAILED.
var checkoutNext = map[CheckoutStatus]CheckoutStatus{
	CheckoutStatusInitiated:       CheckoutStatusStockValidated,
	CheckoutStatusStockValidated:  CheckoutStatusStockCommitted,
	CheckoutStatusStockCommitted:  CheckoutStatusOrderCreated,
	CheckoutStatusOrderCreated:    CheckoutStatusDiscountSettled,
	CheckoutStatusDiscountSettled: CheckoutStatusCartCleared,
	CheckoutStatusCartCleared:     CheckoutStatusCompleted,
}

func CanTransitionTo(from, to CheckoutStatus) bool {
	if to == CheckoutStatusFailed {
		return !from.IsTerminal()
	}
	return checkoutNext[from] == to
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
