package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByIDForUpdate loads an order with its items and holds a row lock
	// on the order until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*Order, error)

	// SavePayment writes the paid flag, address and phone of an order
	SavePayment(ctx context.Context, o *Order) error

	// FindByStore returns the orders of a store newest first, with item
	// product names and prices filled in
	FindByStore(ctx context.Context, storeID int64) ([]Order, error)

	// PaidRevenue sums the item product prices of the store's paid orders
	PaidRevenue(ctx context.Context, storeID int64) (decimal.Decimal, error)

	// CountPaid counts the store's paid orders
	CountPaid(ctx context.Context, storeID int64) (int64, error)
}
