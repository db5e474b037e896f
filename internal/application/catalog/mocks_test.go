package catalog

import (
	"context"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAssociationRepository is a mock implementation of catalog.AssociationRepository
type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) Replace(ctx context.Context, kind catalog.AssociationKind, productID int64, ids []int64) error {
	args := m.Called(ctx, kind, productID, ids)
	return args.Error(0)
}

func (m *MockAssociationRepository) ReplaceImages(ctx context.Context, productID int64, urls []string) error {
	args := m.Called(ctx, productID, urls)
	return args.Error(0)
}

// MockAttributeRepository is a mock implementation of catalog.AttributeRepository
type MockAttributeRepository struct {
	mock.Mock
}

func (m *MockAttributeRepository) MissingIDs(ctx context.Context, kind catalog.AssociationKind, storeID int64, ids []int64) ([]int64, error) {
	args := m.Called(ctx, kind, storeID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of catalog.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id int64) (*catalog.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Store), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}
