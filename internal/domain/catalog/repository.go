package catalog

import "context"

// ProductFilter selects products for listing
type ProductFilter struct {
	StoreID    int64
	CategoryID *int64
	SizeID     *int64
	ColorID    *int64
	// IsFeatured is applied only when set
	IsFeatured *bool
	IsArchived bool
}

// StoreRepository reads stores
type StoreRepository interface {
	FindByID(ctx context.Context, id int64) (*Store, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID loads a product with its categories, sizes, colors and images
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDForUpdate loads the bare product row and holds a row lock on it
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*Product, error)

	// FindAll returns products matching the filter, newest first, with relations loaded
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Create inserts a new product row and assigns its ID
	Create(ctx context.Context, product *Product) error

	// Update writes the scalar fields of an existing product
	Update(ctx context.Context, product *Product) error

	// Delete removes a product; junction and image rows cascade
	Delete(ctx context.Context, id int64) error
}

// AssociationRepository replaces the junction and image rows of a product
type AssociationRepository interface {
	// Replace deletes every junction row of the kind for the product and
	// inserts one row per ID, in order
	Replace(ctx context.Context, kind AssociationKind, productID int64, ids []int64) error

	// ReplaceImages deletes every image of the product and inserts one per URL
	ReplaceImages(ctx context.Context, productID int64, urls []string) error
}

// AttributeRepository checks category, size and color references
type AttributeRepository interface {
	// MissingIDs returns the IDs among ids that do not exist in the store
	MissingIDs(ctx context.Context, kind AssociationKind, storeID int64, ids []int64) ([]int64, error)
}
