package persistence

import (
	"context"
	"errors"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errProductHasOrders = shared.NewDomainError(shared.CodeInvalidState,
	"Product is referenced by orders and cannot be deleted; archive it instead")

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID loads a product with its categories, sizes, colors and images
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	products := []catalog.Product{*model.ToDomain()}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// FindByIDForUpdate loads the bare product row with SELECT ... FOR UPDATE.
// Concurrent replaces of the same product queue behind the lock.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the products matching the filter, newest first.
// Relation filters are EXISTS checks against the junction tables, so a
// product matches when any of its associations matches.
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("store_id = ? AND is_archived = ?", filter.StoreID, filter.IsArchived)

	if filter.CategoryID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id = ?)", *filter.CategoryID)
	}
	if filter.SizeID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = products.id AND ps.size_id = ?)", *filter.SizeID)
	}
	if filter.ColorID != nil {
		query = query.Where("EXISTS (SELECT 1 FROM product_colors pcl WHERE pcl.product_id = products.id AND pcl.color_id = ?)", *filter.ColorID)
	}
	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}

	var rows []models.ProductModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product row and assigns its ID
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// Update writes the scalar fields of an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"price":       product.Price,
			"is_featured": product.IsFeatured,
			"is_archived": product.IsArchived,
			"updated_at":  product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a product together with its junction and image rows
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	for _, owned := range []any{
		&models.ProductCategoryModel{},
		&models.ProductSizeModel{},
		&models.ProductColorModel{},
		&models.ImageModel{},
	} {
		if err := db.Where("product_id = ?", id).Delete(owned).Error; err != nil {
			return err
		}
	}

	result := db.Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return errProductHasOrders
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// loadRelations fills Categories, Sizes, Colors and Images of the products.
// Junction rows are read in Position order; images in insertion order.
func (r *GormProductRepository) loadRelations(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)

	productIDs := make([]int64, len(products))
	index := make(map[int64]*catalog.Product, len(products))
	for i := range products {
		productIDs[i] = products[i].ID
		index[products[i].ID] = &products[i]
		products[i].Categories = []catalog.Category{}
		products[i].Sizes = []catalog.Size{}
		products[i].Colors = []catalog.Color{}
		products[i].Images = []catalog.Image{}
	}

	// categories
	var categoryLinks []models.ProductCategoryModel
	if err := db.Where("product_id IN ?", productIDs).Order("product_id, position, category_id").Find(&categoryLinks).Error; err != nil {
		return err
	}
	categories, err := findByIDs[models.CategoryModel](db, linkedIDs(categoryLinks, func(l models.ProductCategoryModel) int64 { return l.CategoryID }))
	if err != nil {
		return err
	}
	for _, link := range categoryLinks {
		if m, ok := categories[link.CategoryID]; ok {
			p := index[link.ProductID]
			p.Categories = append(p.Categories, m.ToDomain())
		}
	}

	// sizes
	var sizeLinks []models.ProductSizeModel
	if err := db.Where("product_id IN ?", productIDs).Order("product_id, position, size_id").Find(&sizeLinks).Error; err != nil {
		return err
	}
	sizes, err := findByIDs[models.SizeModel](db, linkedIDs(sizeLinks, func(l models.ProductSizeModel) int64 { return l.SizeID }))
	if err != nil {
		return err
	}
	for _, link := range sizeLinks {
		if m, ok := sizes[link.SizeID]; ok {
			p := index[link.ProductID]
			p.Sizes = append(p.Sizes, m.ToDomain())
		}
	}

	// colors
	var colorLinks []models.ProductColorModel
	if err := db.Where("product_id IN ?", productIDs).Order("product_id, position, color_id").Find(&colorLinks).Error; err != nil {
		return err
	}
	colors, err := findByIDs[models.ColorModel](db, linkedIDs(colorLinks, func(l models.ProductColorModel) int64 { return l.ColorID }))
	if err != nil {
		return err
	}
	for _, link := range colorLinks {
		if m, ok := colors[link.ColorID]; ok {
			p := index[link.ProductID]
			p.Colors = append(p.Colors, m.ToDomain())
		}
	}

	var images []models.ImageModel
	if err := db.Where("product_id IN ?", productIDs).Order("product_id, id").Find(&images).Error; err != nil {
		return err
	}
	for i := range images {
		p := index[images[i].ProductID]
		p.Images = append(p.Images, images[i].ToDomain())
	}

	return nil
}

// idModel is satisfied by every model embedding BaseModel
type idModel interface {
	models.CategoryModel | models.SizeModel | models.ColorModel
}

// findByIDs loads rows of T by primary key into a map keyed by ID
func findByIDs[T idModel](db *gorm.DB, ids []int64) (map[int64]T, error) {
	out := make(map[int64]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []T
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[modelID(row)] = row
	}
	return out, nil
}

func modelID[T idModel](row T) int64 {
	switch m := any(row).(type) {
	case models.CategoryModel:
		return m.ID
	case models.SizeModel:
		return m.ID
	case models.ColorModel:
		return m.ID
	}
	return 0
}

// linkedIDs collects the distinct related IDs of junction rows
func linkedIDs[L any](links []L, related func(L) int64) []int64 {
	seen := make(map[int64]struct{}, len(links))
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		id := related(l)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
