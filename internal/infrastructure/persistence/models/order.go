package models

import (
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	BaseModel
	StoreID int64            `gorm:"not null;index"`
	Phone   string           `gorm:"type:varchar(255);not null;default:''"`
	Address string           `gorm:"type:text;not null;default:''"`
	IsPaid  bool             `gorm:"not null;default:false;index"`
	Items   []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order, items included.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
		},
		StoreID: m.StoreID,
		Phone:   m.Phone,
		Address: m.Address,
		IsPaid:  m.IsPaid,
		Items:   make([]order.Item, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// OrderItemModel is the persistence model for an order line.
// Product is populated only when the caller preloads it.
type OrderItemModel struct {
	BaseModel
	OrderID   int64         `gorm:"not null;index"`
	ProductID int64         `gorm:"not null;index"`
	Product   *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order Item.
func (m *OrderItemModel) ToDomain() order.Item {
	item := order.Item{
		BaseEntity:   m.BaseModel.ToDomain(),
		OrderID:      m.OrderID,
		ProductID:    m.ProductID,
		ProductPrice: decimal.Zero,
	}
	if m.Product != nil {
		item.ProductName = m.Product.Name
		item.ProductPrice = m.Product.Price
	}
	return item
}

// OrderModels lists the order tables, for AutoMigrate in tests.
func OrderModels() []any {
	return []any{
		&OrderModel{},
		&OrderItemModel{},
	}
}
