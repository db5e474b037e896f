package catalog

import "github.com/storeadmin/backend/internal/domain/shared"

// AssociationKind identifies one of the product's many-to-many relations
type AssociationKind string

const (
	KindCategory AssociationKind = "category"
	KindSize     AssociationKind = "size"
	KindColor    AssociationKind = "color"
)

// AllAssociationKinds lists the junction relations in a stable order
var AllAssociationKinds = []AssociationKind{KindCategory, KindSize, KindColor}

// Category groups products within a store. Categories carry a label
// rather than a name/value pair.
type Category struct {
	shared.BaseEntity
	StoreID     int64
	Label       string
	BillboardID *int64
}

// Size is a named size option (e.g. "Large" / "L")
type Size struct {
	shared.BaseEntity
	StoreID int64
	Name    string
	Value   string
}

// Color is a named color option (e.g. "Black" / "#000000")
type Color struct {
	shared.BaseEntity
	StoreID int64
	Name    string
	Value   string
}

// Image is a product picture held in the blob store.
// It is owned by exactly one product.
type Image struct {
	shared.BaseEntity
	ProductID int64
	URL       string
}
