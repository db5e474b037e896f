package order

import (
	"context"

	"github.com/storeadmin/backend/internal/domain/order"
)

// TransactionScope runs order writes inside one database transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the order repository within a transaction.
type TransactionalRepositories interface {
	OrderRepo() order.Repository
}

// NoOpTransactionScope runs fn against a plain repository. It is meant for tests.
type NoOpTransactionScope struct {
	orderRepo order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(orderRepo order.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
