package handler

import (
	"context"

	"github.com/shopspring/decimal"
	orderapp "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository implements catalog.ProductRepository for testing
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
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockAssociationRepository implements catalog.AssociationRepository for testing
type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) Replace(ctx context.Context, kind catalog.AssociationKind, productID int64, ids []int64) error {
	return m.Called(ctx, kind, productID, ids).Error(0)
}

func (m *MockAssociationRepository) ReplaceImages(ctx context.Context, productID int64, urls []string) error {
	return m.Called(ctx, productID, urls).Error(0)
}

// MockAttributeRepository implements catalog.AttributeRepository for testing
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

// MockStoreRepository implements catalog.StoreRepository for testing
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

// MockOrderRepository implements order.Repository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) SavePayment(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByStore(ctx context.Context, storeID int64) ([]order.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) PaidRevenue(ctx context.Context, storeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderRepository) CountPaid(ctx context.Context, storeID int64) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockVerifier implements orderapp.PaymentEventVerifier for testing
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) ParseCheckoutEvent(payload []byte, signature string) (*orderapp.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.PaymentEvent), args.Error(1)
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
