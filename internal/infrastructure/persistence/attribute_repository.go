package persistence

import (
	"context"
	"fmt"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttributeRepository implements catalog.AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// MissingIDs returns the IDs among ids that have no row of the given kind in
// the store, in input order
func (r *GormAttributeRepository) MissingIDs(ctx context.Context, kind catalog.AssociationKind, storeID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var model any
	switch kind {
	case catalog.KindCategory:
		model = &models.CategoryModel{}
	case catalog.KindSize:
		model = &models.SizeModel{}
	case catalog.KindColor:
		model = &models.ColorModel{}
	default:
		return nil, fmt.Errorf("unknown association kind %q", kind)
	}

	var found []int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

var _ catalog.AttributeRepository = (*GormAttributeRepository)(nil)
