package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(7, "  Denim Jacket ", decimal.RequireFromString("59.999"))
		require.NoError(t, err)

		assert.Equal(t, int64(7), product.StoreID)
		assert.Equal(t, "Denim Jacket", product.Name)
		assert.Equal(t, "60", product.Price.String())
		assert.False(t, product.IsFeatured)
		assert.False(t, product.IsArchived)
		assert.True(t, product.IsNew())
		assert.False(t, product.CreatedAt.IsZero())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(7, "   ", decimal.NewFromInt(10))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Contains(t, err.Error(), "Name is required")
	})

	t.Run("fails with zero price", func(t *testing.T) {
		_, err := NewProduct(7, "Shirt", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("fails with price beyond column precision", func(t *testing.T) {
		_, err := NewProduct(7, "Shirt", decimal.RequireFromString("100000000"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("fails without store", func(t *testing.T) {
		_, err := NewProduct(0, "Shirt", decimal.NewFromInt(1))
		require.Error(t, err)
	})
}

func TestProduct_Mutators(t *testing.T) {
	product, err := NewProduct(1, "Shirt", decimal.NewFromInt(10))
	require.NoError(t, err)

	require.NoError(t, product.Rename("Polo"))
	assert.Equal(t, "Polo", product.Name)

	require.Error(t, product.Rename(""))
	assert.Equal(t, "Polo", product.Name)

	require.NoError(t, product.SetPrice(decimal.RequireFromString("12.5")))
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))

	require.Error(t, product.SetPrice(decimal.NewFromInt(-1)))
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))

	product.SetFeatured(true)
	product.SetArchived(true)
	assert.True(t, product.IsFeatured)
	assert.True(t, product.IsArchived)
}

func TestProduct_RelationIDs(t *testing.T) {
	product := &Product{
		Categories: []Category{{BaseEntity: shared.BaseEntity{ID: 3}}, {BaseEntity: shared.BaseEntity{ID: 1}}},
		Sizes:      []Size{{BaseEntity: shared.BaseEntity{ID: 9}}},
		Images:     []Image{{URL: "https://cdn.example.com/a.png"}},
	}

	assert.Equal(t, []int64{3, 1}, product.CategoryIDs())
	assert.Equal(t, []int64{9}, product.SizeIDs())
	assert.Empty(t, product.ColorIDs())
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, product.ImageURLs())
}

func TestStore_IsOwnedBy(t *testing.T) {
	store := &Store{OwnerID: "user_123"}
	assert.True(t, store.IsOwnedBy("user_123"))
	assert.False(t, store.IsOwnedBy("user_456"))
	assert.False(t, (&Store{}).IsOwnedBy(""))
}
