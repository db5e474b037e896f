package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with every table migrated.
// The pool is pinned to one connection so all queries see the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	all := append(models.CatalogModels(), models.OrderModels()...)
	all = append(all, &models.ProcessedWebhookEventModel{})
	require.NoError(t, db.AutoMigrate(all...))
	return db
}

type catalogFixture struct {
	StoreID      int64
	OtherStoreID int64
	Categories   []int64
	Sizes        []int64
	Colors       []int64
	// ForeignCategory belongs to OtherStoreID
	ForeignCategory int64
}

// seedCatalog creates two stores, three categories, two sizes and two colors
// in the first store and one category in the second.
func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()
	store := models.StoreModel{OwnerID: "user_owner", Name: "Main"}
	require.NoError(t, db.Create(&store).Error)
	other := models.StoreModel{OwnerID: "user_other", Name: "Other"}
	require.NoError(t, db.Create(&other).Error)

	fx := catalogFixture{StoreID: store.ID, OtherStoreID: other.ID}
	for _, name := range []string{"Shirts", "Pants", "Hats"} {
		c := models.CategoryModel{StoreID: store.ID, Label: name}
		require.NoError(t, db.Create(&c).Error)
		fx.Categories = append(fx.Categories, c.ID)
	}
	for _, v := range []string{"S", "M"} {
		s := models.SizeModel{StoreID: store.ID, Name: v, Value: v}
		require.NoError(t, db.Create(&s).Error)
		fx.Sizes = append(fx.Sizes, s.ID)
	}
	for _, v := range []string{"#000000", "#ffffff"} {
		c := models.ColorModel{StoreID: store.ID, Name: v, Value: v}
		require.NoError(t, db.Create(&c).Error)
		fx.Colors = append(fx.Colors, c.ID)
	}
	foreign := models.CategoryModel{StoreID: other.ID, Label: "Foreign"}
	require.NoError(t, db.Create(&foreign).Error)
	fx.ForeignCategory = foreign.ID
	return fx
}

// seedProduct inserts a bare product row. Later calls get later created_at values.
func seedProduct(t *testing.T, db *gorm.DB, storeID int64, name string, price string, createdAt time.Time) int64 {
	t.Helper()
	p := models.ProductModel{
		BaseModel: models.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		StoreID:   storeID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

// seedOrder inserts an order with one item per product
func seedOrder(t *testing.T, db *gorm.DB, storeID int64, paid bool, createdAt time.Time, productIDs ...int64) int64 {
	t.Helper()
	o := models.OrderModel{
		BaseModel: models.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		StoreID:   storeID,
		IsPaid:    paid,
	}
	require.NoError(t, db.Create(&o).Error)
	for _, pid := range productIDs {
		item := models.OrderItemModel{OrderID: o.ID, ProductID: pid}
		require.NoError(t, db.Create(&item).Error)
	}
	return o.ID
}
