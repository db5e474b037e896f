package catalog

import (
	"context"
	"testing"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryService_Find(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewQueryService(repo)
	categoryID := int64(10)
	filter := catalog.ProductFilter{StoreID: 1, CategoryID: &categoryID}

	first := storedProduct(8, 1)
	first.Categories = []catalog.Category{{BaseEntity: shared.BaseEntity{ID: 10}, StoreID: 1, Label: "Shirts"}}
	second := storedProduct(7, 1)
	repo.On("FindAll", mock.Anything, filter).Return([]catalog.Product{*first, *second}, nil)

	views, err := svc.Find(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(8), views[0].ID)
	require.NotNil(t, views[0].Category)
	assert.Equal(t, "Shirts", views[0].Category.Label)
	assert.Nil(t, views[1].Category)
	assert.Equal(t, 49.9, views[1].Price)
}

func TestQueryService_Get(t *testing.T) {
	t.Run("returns product of the store", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByID", mock.Anything, int64(7)).Return(storedProduct(7, 1), nil)

		view, err := NewQueryService(repo).Get(context.Background(), 1, 7)

		require.NoError(t, err)
		assert.Equal(t, "Linen Shirt", view.Name)
	})

	t.Run("hides products of other stores", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByID", mock.Anything, int64(7)).Return(storedProduct(7, 2), nil)

		_, err := NewQueryService(repo).Get(context.Background(), 1, 7)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
