package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_FindByIDForUpdateAndSavePayment(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	tee := seedProduct(t, db, fx.StoreID, "Tee", "19.99", time.Now())
	hat := seedProduct(t, db, fx.StoreID, "Cap", "5.01", time.Now())
	orderID := seedOrder(t, db, fx.StoreID, false, time.Now(), tee, hat)

	o, err := repo.FindByIDForUpdate(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, o.IsPaid)
	assert.Equal(t, []int64{tee, hat}, o.ProductIDs())

	o.MarkPaid(order.ShippingDetails{
		Address: order.Address{Line1: "1 Main St", City: "Springfield", PostalCode: "62701"},
		Phone:   "+1 555 0100",
	}, "evt_1")
	require.NoError(t, repo.SavePayment(ctx, o))

	reloaded, err := repo.FindByIDForUpdate(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPaid)
	assert.Equal(t, "1 Main St, Springfield, 62701", reloaded.Address)
	assert.Equal(t, "+1 555 0100", reloaded.Phone)
}

func TestGormOrderRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	_, err := repo.FindByIDForUpdate(ctx, 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	o := &order.Order{}
	o.ID = 404
	assert.ErrorIs(t, repo.SavePayment(ctx, o), shared.ErrNotFound)
}

func TestGormOrderRepository_FindByStore(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	tee := seedProduct(t, db, fx.StoreID, "Tee", "19.99", time.Now())
	hat := seedProduct(t, db, fx.StoreID, "Cap", "5.01", time.Now())
	base := time.Now().Add(-time.Hour)
	first := seedOrder(t, db, fx.StoreID, false, base, tee)
	second := seedOrder(t, db, fx.StoreID, true, base.Add(time.Minute), tee, hat)
	seedOrder(t, db, fx.OtherStoreID, true, base, tee)

	orders, err := repo.FindByStore(ctx, fx.StoreID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, second, orders[0].ID)
	assert.Equal(t, []string{"Tee", "Cap"}, orders[0].ProductNames())
	assert.True(t, orders[0].Total().Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, first, orders[1].ID)
	assert.Equal(t, []string{"Tee"}, orders[1].ProductNames())
}

func TestGormOrderRepository_Revenue(t *testing.T) {
	db := setupTestDB(t)
	fx := seedCatalog(t, db)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	tee := seedProduct(t, db, fx.StoreID, "Tee", "19.99", time.Now())
	hat := seedProduct(t, db, fx.StoreID, "Cap", "0.01", time.Now())
	seedOrder(t, db, fx.StoreID, true, time.Now(), tee, hat)
	seedOrder(t, db, fx.StoreID, true, time.Now(), hat)
	seedOrder(t, db, fx.StoreID, false, time.Now(), tee)
	seedOrder(t, db, fx.OtherStoreID, true, time.Now(), tee)

	revenue, err := repo.PaidRevenue(ctx, fx.StoreID)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("20.01")), "got %s", revenue)

	count, err := repo.CountPaid(ctx, fx.StoreID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	revenue, err = repo.PaidRevenue(ctx, 9999)
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())
}
