package catalog

import (
	"context"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
)

var (
	errStoreNotFound     = shared.NewDomainError(shared.CodeNotFound, "Store not found")
	errStoreNotOwned     = shared.NewDomainError(shared.CodeForbidden, "Store does not belong to the current user")
	errProductNotInStore = shared.NewDomainError(shared.CodeNotFound, "Product not found")
)

// StoreService answers store lookups and ownership questions for the HTTP layer
type StoreService struct {
	storeRepo catalog.StoreRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo catalog.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// RequireStore fails with NOT_FOUND when the store does not exist
func (s *StoreService) RequireStore(ctx context.Context, storeID int64) (*catalog.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if isNotFound(err) {
			return nil, errStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// RequireOwner fails with NOT_FOUND when the store does not exist and with
// FORBIDDEN when ownerID does not own it
func (s *StoreService) RequireOwner(ctx context.Context, storeID int64, ownerID string) (*catalog.Store, error) {
	store, err := s.RequireStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !store.IsOwnedBy(ownerID) {
		return nil, errStoreNotOwned
	}
	return store, nil
}
