package order

import "github.com/storeadmin/backend/internal/domain/order"

// PaymentEvent is a provider event whose signature has been verified.
// Checkout is nil for event types that are acknowledged without action.
type PaymentEvent struct {
	ID       string
	Type     string
	Checkout *CheckoutCompleted
}

// IsIgnored reports whether the event carries nothing to apply
func (e *PaymentEvent) IsIgnored() bool {
	return e.Checkout == nil
}

// CheckoutCompleted is the business content of a completed checkout session
type CheckoutCompleted struct {
	OrderID  int64
	Shipping order.ShippingDetails
}

// PaymentEventVerifier verifies and parses a raw provider delivery. It has no
// side effects. Signature failures are INVALID_SIGNATURE domain errors and
// malformed payloads are INVALID_INPUT domain errors.
type PaymentEventVerifier interface {
	ParseCheckoutEvent(payload []byte, signature string) (*PaymentEvent, error)
}
