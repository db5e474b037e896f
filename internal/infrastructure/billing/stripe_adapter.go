package billing

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	apporder "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// OrderIDMetadataKey is the checkout session metadata key carrying our order id
const OrderIDMetadataKey = "orderId"

// StripeAdapter verifies Stripe webhook deliveries and turns them into payment events.
// It performs no I/O and never touches storage.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// ParseCheckoutEvent verifies the Stripe-Signature header against the raw body and
// extracts the completed checkout, if any.
func (a *StripeAdapter) ParseCheckoutEvent(payload []byte, signature string) (*apporder.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, a.config.WebhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                a.config.Tolerance,
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		if isSignatureError(err) {
			a.logger.Warn("Rejected Stripe webhook with invalid signature", zap.Error(err))
			return nil, shared.WrapDomainError(shared.CodeInvalidSignature, "Webhook signature verification failed", err)
		}
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "Malformed webhook payload", err)
	}

	result := &apporder.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		a.logger.Debug("Ignoring Stripe event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return result, nil
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Checkout event has no session object")
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "Malformed checkout session", err)
	}

	orderID, err := parseOrderID(session.Metadata)
	if err != nil {
		return nil, err
	}

	result.Checkout = &apporder.CheckoutCompleted{
		OrderID:  orderID,
		Shipping: shippingDetails(session.CustomerDetails),
	}
	return result, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func parseOrderID(metadata map[string]string) (int64, error) {
	raw, ok := metadata[OrderIDMetadataKey]
	if !ok || raw == "" {
		return 0, shared.NewDomainError(shared.CodeInvalidInput, "Checkout session has no order id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewDomainError(shared.CodeInvalidInput, "Checkout session order id is not valid")
	}
	return id, nil
}

// shippingDetails maps customer details to the order's shipping snapshot.
// Missing details yield empty strings.
func shippingDetails(details *stripe.CheckoutSessionCustomerDetails) order.ShippingDetails {
	var out order.ShippingDetails
	if details == nil {
		return out
	}
	out.Phone = details.Phone
	if addr := details.Address; addr != nil {
		out.Address = order.Address{
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
		}
	}
	return out
}

var _ apporder.PaymentEventVerifier = (*StripeAdapter)(nil)
