package order

import "github.com/storeadmin/backend/internal/domain/shared"

// EventTypeOrderPaid is raised when an order becomes paid
const EventTypeOrderPaid = "OrderPaid"

// OrderPaidEvent tells downstream consumers which products were sold
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID        int64   `json:"order_id"`
	StoreID        int64   `json:"store_id"`
	ProductIDs     []int64 `json:"product_ids"`
	PaymentEventID string  `json:"payment_event_id,omitempty"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order, paymentEventID string) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		StoreID:         o.StoreID,
		ProductIDs:      o.ProductIDs(),
		PaymentEventID:  paymentEventID,
	}
}
