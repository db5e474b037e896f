package order

import (
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type reported by order events
const AggregateTypeOrder = "Order"

// Order is a customer order placed against a store.
// It is created by checkout and moves Unpaid -> Paid exactly once.
type Order struct {
	shared.BaseAggregateRoot
	StoreID int64
	Phone   string
	Address string
	IsPaid  bool
	Items   []Item
}

// Item is one line of an order. ProductName and ProductPrice are read from
// the product when the order is loaded for display.
type Item struct {
	shared.BaseEntity
	OrderID      int64
	ProductID    int64
	ProductName  string
	ProductPrice decimal.Decimal
}

// MarkPaid records a completed checkout. Paid is terminal: the flag is never
// reverted, and re-applying the same details leaves the order unchanged.
// An OrderPaidEvent is raised only on the Unpaid -> Paid transition.
func (o *Order) MarkPaid(details ShippingDetails, paymentEventID string) {
	wasPaid := o.IsPaid

	o.IsPaid = true
	o.Address = details.Address.Format()
	o.Phone = details.Phone
	o.Touch()

	if !wasPaid {
		o.AddDomainEvent(NewOrderPaidEvent(o, paymentEventID))
	}
}

// ProductIDs returns the distinct products referenced by the order items
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Total sums the product prices of all items
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ProductPrice)
	}
	return total
}

// ProductNames returns the item product names in item order
func (o *Order) ProductNames() []string {
	names := make([]string, len(o.Items))
	for i, item := range o.Items {
		names[i] = item.ProductName
	}
	return names
}
