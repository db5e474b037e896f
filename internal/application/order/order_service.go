package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// OrderView is one row of the store's order list
type OrderView struct {
	ID         int64           `json:"id"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Products   string          `json:"products"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	IsPaid     bool            `json:"isPaid"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// RevenueView summarizes the paid orders of a store
type RevenueView struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	SalesCount   int64           `json:"salesCount"`
}

// OrderService serves the read side of orders
type OrderService struct {
	orderRepo order.Repository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List returns the orders of a store, newest first
func (s *OrderService) List(ctx context.Context, storeID int64) ([]OrderView, error) {
	orders, err := s.orderRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, len(orders))
	for i := range orders {
		o := &orders[i]
		views[i] = OrderView{
			ID:         o.ID,
			Phone:      o.Phone,
			Address:    o.Address,
			Products:   strings.Join(o.ProductNames(), ", "),
			TotalPrice: o.Total(),
			IsPaid:     o.IsPaid,
			CreatedAt:  o.CreatedAt,
		}
	}
	return views, nil
}

// Revenue sums the item prices of paid orders and counts them
func (s *OrderService) Revenue(ctx context.Context, storeID int64) (*RevenueView, error) {
	total, err := s.orderRepo.PaidRevenue(ctx, storeID)
	if err != nil {
		return nil, err
	}
	count, err := s.orderRepo.CountPaid(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &RevenueView{TotalRevenue: total, SalesCount: count}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
