package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_CreateAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormProductRepository(db)
	assocRepo := NewGormAssociationRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct(fx.StoreID, "Tee", decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, product))
	require.NotZero(t, product.ID)

	require.NoError(t, assocRepo.Replace(ctx, catalog.KindCategory, product.ID, []int64{fx.Categories[2], fx.Categories[0]}))
	require.NoError(t, assocRepo.Replace(ctx, catalog.KindSize, product.ID, []int64{fx.Sizes[0]}))
	require.NoError(t, assocRepo.Replace(ctx, catalog.KindColor, product.ID, []int64{fx.Colors[1]}))
	require.NoError(t, assocRepo.ReplaceImages(ctx, product.ID, []string{"https://img/1.png", "https://img/2.png"}))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	assert.Equal(t, "Tee", found.Name)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, []int64{fx.Categories[2], fx.Categories[0]}, found.CategoryIDs())
	assert.Equal(t, []int64{fx.Sizes[0]}, found.SizeIDs())
	assert.Equal(t, []int64{fx.Colors[1]}, found.ColorIDs())
	assert.Equal(t, []string{"https://img/1.png", "https://img/2.png"}, found.ImageURLs())
	assert.Equal(t, "Hats", found.Categories[0].Label)
}

func TestGormProductRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByIDForUpdate(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindByID_EmptyRelations(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormProductRepository(db)
	id := seedProduct(t, db, fx.StoreID, "Bare", "1.00", time.Now())

	found, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.NotNil(t, found.Categories)
	assert.Empty(t, found.Categories)
	assert.NotNil(t, found.Images)
	assert.Empty(t, found.Images)
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormProductRepository(db)
	assocRepo := NewGormAssociationRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	older := seedProduct(t, db, fx.StoreID, "Older", "10.00", base)
	newer := seedProduct(t, db, fx.StoreID, "Newer", "12.00", base.Add(time.Minute))
	archived := seedProduct(t, db, fx.StoreID, "Archived", "5.00", base.Add(2*time.Minute))
	require.NoError(t, db.Table("products").Where("id = ?", archived).Update("is_archived", true).Error)
	seedProduct(t, db, fx.OtherStoreID, "Elsewhere", "3.00", base.Add(3*time.Minute))

	require.NoError(t, assocRepo.Replace(ctx, catalog.KindCategory, older, []int64{fx.Categories[0], fx.Categories[1]}))
	require.NoError(t, assocRepo.Replace(ctx, catalog.KindCategory, newer, []int64{fx.Categories[1]}))
	require.NoError(t, assocRepo.Replace(ctx, catalog.KindColor, newer, []int64{fx.Colors[0]}))
	require.NoError(t, db.Table("products").Where("id = ?", newer).Update("is_featured", true).Error)

	t.Run("store scoped, archived excluded, newest first", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, newer, products[0].ID)
		assert.Equal(t, older, products[1].ID)
	})

	t.Run("category filter matches any association", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID, CategoryID: &fx.Categories[0]})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, older, products[0].ID)
		assert.Equal(t, []int64{fx.Categories[0], fx.Categories[1]}, products[0].CategoryIDs())

		products, err = repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID, CategoryID: &fx.Categories[1]})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("color and featured filters", func(t *testing.T) {
		featured := true
		products, err := repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID, ColorID: &fx.Colors[0], IsFeatured: &featured})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, newer, products[0].ID)

		notFeatured := false
		products, err = repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID, IsFeatured: &notFeatured})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, older, products[0].ID)
	})

	t.Run("archived only", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID, IsArchived: true})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, archived, products[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		products, err := repo.FindAll(ctx, catalog.ProductFilter{StoreID: fx.StoreID, SizeID: &fx.Sizes[1]})
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	id := seedProduct(t, db, fx.StoreID, "Tee", "19.99", time.Now())

	product, err := repo.FindByIDForUpdate(ctx, id)
	require.NoError(t, err)
	require.NoError(t, product.Rename("Long Tee"))
	require.NoError(t, product.SetPrice(decimal.RequireFromString("24.50")))
	product.SetFeatured(true)
	require.NoError(t, repo.Update(ctx, product))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Long Tee", found.Name)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("24.5")))
	assert.True(t, found.IsFeatured)
	assert.False(t, found.IsArchived)

	product.ID = 9999
	assert.ErrorIs(t, repo.Update(ctx, product), shared.ErrNotFound)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormProductRepository(db)
	assocRepo := NewGormAssociationRepository(db)
	ctx := context.Background()
	id := seedProduct(t, db, fx.StoreID, "Tee", "19.99", time.Now())
	require.NoError(t, assocRepo.Replace(ctx, catalog.KindCategory, id, []int64{fx.Categories[0]}))
	require.NoError(t, assocRepo.ReplaceImages(ctx, id, []string{"https://img/1.png"}))

	require.NoError(t, repo.Delete(ctx, id))

	_, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var junctions, images int64
	require.NoError(t, db.Table("product_categories").Where("product_id = ?", id).Count(&junctions).Error)
	require.NoError(t, db.Table("images").Where("product_id = ?", id).Count(&images).Error)
	assert.Zero(t, junctions)
	assert.Zero(t, images)

	assert.ErrorIs(t, repo.Delete(ctx, id), shared.ErrNotFound)
}

func TestGormProductRepository_FindByIDForUpdate_LocksRow(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(db)

	rows := sqlmock.NewRows([]string{"id", "store_id", "name", "price", "is_featured", "is_archived", "created_at", "updated_at"}).
		AddRow(7, 1, "Tee", "19.99", false, false, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY "products"."id" LIMIT .+ FOR UPDATE`).
		WillReturnRows(rows)

	product, err := repo.FindByIDForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "Tee", product.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
