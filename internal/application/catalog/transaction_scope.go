package catalog

import (
	"context"

	"github.com/storeadmin/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// Every repository handed to fn shares one database transaction, which is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the catalog repositories within a transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// AssociationRepo returns the junction/image repository scoped to the current transaction
	AssociationRepo() catalog.AssociationRepository
	// AttributeRepo returns the category/size/color lookup scoped to the current transaction
	AttributeRepo() catalog.AttributeRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// It is meant for tests.
type NoOpTransactionScope struct {
	productRepo     catalog.ProductRepository
	associationRepo catalog.AssociationRepository
	attributeRepo   catalog.AttributeRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	associationRepo catalog.AssociationRepository,
	attributeRepo catalog.AttributeRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:     productRepo,
		associationRepo: associationRepo,
		attributeRepo:   attributeRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// AssociationRepo returns the association repository.
func (s *NoOpTransactionScope) AssociationRepo() catalog.AssociationRepository {
	return s.associationRepo
}

// AttributeRepo returns the attribute repository.
func (s *NoOpTransactionScope) AttributeRepo() catalog.AttributeRepository {
	return s.attributeRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
