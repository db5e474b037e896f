package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssociationRepository implements catalog.AssociationRepository using GORM.
// Callers run it inside a transaction so that a replace is never observed
// half done.
type GormAssociationRepository struct {
	db *gorm.DB
}

// NewGormAssociationRepository creates a new GormAssociationRepository
func NewGormAssociationRepository(db *gorm.DB) *GormAssociationRepository {
	return &GormAssociationRepository{db: db}
}

// Replace deletes every junction row of the kind for the product and inserts
// one row per ID, keeping the supplied order in Position
func (r *GormAssociationRepository) Replace(ctx context.Context, kind catalog.AssociationKind, productID int64, ids []int64) error {
	now := time.Now()
	db := r.db.WithContext(ctx)

	switch kind {
	case catalog.KindCategory:
		rows := make([]models.ProductCategoryModel, len(ids))
		for i, id := range ids {
			rows[i] = models.ProductCategoryModel{ProductID: productID, CategoryID: id, Position: i, CreatedAt: now}
		}
		return replaceJunctionRows(db, productID, rows)
	case catalog.KindSize:
		rows := make([]models.ProductSizeModel, len(ids))
		for i, id := range ids {
			rows[i] = models.ProductSizeModel{ProductID: productID, SizeID: id, Position: i, CreatedAt: now}
		}
		return replaceJunctionRows(db, productID, rows)
	case catalog.KindColor:
		rows := make([]models.ProductColorModel, len(ids))
		for i, id := range ids {
			rows[i] = models.ProductColorModel{ProductID: productID, ColorID: id, Position: i, CreatedAt: now}
		}
		return replaceJunctionRows(db, productID, rows)
	}
	return fmt.Errorf("unknown association kind %q", kind)
}

// ReplaceImages deletes every image of the product and inserts one per URL
func (r *GormAssociationRepository) ReplaceImages(ctx context.Context, productID int64, urls []string) error {
	now := time.Now()
	rows := make([]models.ImageModel, len(urls))
	for i, url := range urls {
		rows[i] = models.ImageModel{
			BaseModel: models.BaseModel{CreatedAt: now, UpdatedAt: now},
			ProductID: productID,
			URL:       url,
		}
	}
	return replaceJunctionRows(r.db.WithContext(ctx), productID, rows)
}

// replaceJunctionRows removes all rows of T owned by the product, then
// inserts rows. An empty rows slice leaves the relation empty.
func replaceJunctionRows[T any](db *gorm.DB, productID int64, rows []T) error {
	var zero T
	if err := db.Where("product_id = ?", productID).Delete(&zero).Error; err != nil {
		return fmt.Errorf("failed to delete %T rows: %w", zero, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert %T rows: %w", zero, err)
	}
	return nil
}

var _ catalog.AssociationRepository = (*GormAssociationRepository)(nil)
