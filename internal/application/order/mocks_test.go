package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of order.Repository
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
	args := m.Called(ctx, o)
	return args.Error(0)
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

// MockVerifier is a mock implementation of PaymentEventVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) ParseCheckoutEvent(payload []byte, signature string) (*PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentEvent), args.Error(1)
}

// MockLedger is a mock implementation of shared.IdempotencyStore
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Close() error {
	return m.Called().Error(0)
}

// MockPublisher is a mock implementation of shared.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
