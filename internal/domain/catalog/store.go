package catalog

import "github.com/storeadmin/backend/internal/domain/shared"

// Store is the root of all catalog data. Every category, size, color and
// product belongs to exactly one store.
type Store struct {
	shared.BaseEntity
	OwnerID string
	Name    string
}

// IsOwnedBy reports whether the given authenticated user owns the store
func (s *Store) IsOwnedBy(userID string) bool {
	return userID != "" && s.OwnerID == userID
}
