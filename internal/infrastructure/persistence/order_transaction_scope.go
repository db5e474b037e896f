package persistence

import (
	"context"

	apporder "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormOrderTransactionScope implements the order TransactionScope using GORM transactions.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope.
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs fn in a database transaction, committing on nil and rolling back otherwise.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOrderRepositories{tx: tx})
	})
}

type gormOrderRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormOrderRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormOrderRepositories)(nil)
