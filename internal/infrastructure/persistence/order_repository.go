package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForUpdate locks the order row with SELECT ... FOR UPDATE, then
// loads its items. Concurrent payments of the same order serialize here.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	db := r.db.WithContext(ctx)

	var model models.OrderModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if err := db.Where("order_id = ?", id).Order("id").Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SavePayment writes the paid flag, address and phone of an order
func (r *GormOrderRepository) SavePayment(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"is_paid":    o.IsPaid,
			"address":    o.Address,
			"phone":      o.Phone,
			"updated_at": o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByStore returns the store's orders newest first, with item product
// names and prices preloaded
func (r *GormOrderRepository) FindByStore(ctx context.Context, storeID int64) ([]order.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// PaidRevenue sums the product prices of every item of the store's paid
// orders. Prices are summed as decimals so no float rounding creeps in.
func (r *GormOrderRepository) PaidRevenue(ctx context.Context, storeID int64) (decimal.Decimal, error) {
	var prices []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.store_id = ? AND orders.is_paid = ?", storeID, true).
		Pluck("products.price", &prices).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total, nil
}

// CountPaid counts the store's paid orders
func (r *GormOrderRepository) CountPaid(ctx context.Context, storeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("store_id = ? AND is_paid = ?", storeID, true).
		Count(&count).Error
	return count, err
}

var _ order.Repository = (*GormOrderRepository)(nil)
