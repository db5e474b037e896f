package persistence

import (
	"context"

	appcatalog "github.com/storeadmin/backend/internal/application/catalog"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCatalogTransactionScope implements the catalog TransactionScope using GORM transactions.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope.
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error or panics, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

// gormCatalogRepositories hands out repositories bound to one transaction.
type gormCatalogRepositories struct {
	tx *gorm.DB
}

func (r *gormCatalogRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormCatalogRepositories) AssociationRepo() catalog.AssociationRepository {
	return NewGormAssociationRepository(r.tx)
}

func (r *gormCatalogRepositories) AttributeRepo() catalog.AttributeRepository {
	return NewGormAttributeRepository(r.tx)
}

var _ appcatalog.TransactionScope = (*GormCatalogTransactionScope)(nil)
var _ appcatalog.TransactionalRepositories = (*gormCatalogRepositories)(nil)
