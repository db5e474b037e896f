package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// PriceScale is the number of decimal places a price carries
const PriceScale = 2

// Product is the aggregate root of the catalog.
// Its category, size and color sets are exactly the junction rows that
// reference it; nothing single-valued is stored.
type Product struct {
	shared.BaseAggregateRoot
	StoreID    int64
	Name       string
	Price      decimal.Decimal
	IsFeatured bool
	IsArchived bool
	Categories []Category
	Sizes      []Size
	Colors     []Color
	Images     []Image
}

// NewProduct creates a new product belonging to a store
func NewProduct(storeID int64, name string, price decimal.Decimal) (*Product, error) {
	if storeID <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Store ID is required")
	}
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Name:              name,
		Price:             price.Round(PriceScale),
	}, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetPrice changes the product price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price.Round(PriceScale)
	p.Touch()
	return nil
}

// SetFeatured toggles whether the product is shown on the storefront home page
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.Touch()
}

// SetArchived toggles whether the product is hidden from listings
func (p *Product) SetArchived(archived bool) {
	p.IsArchived = archived
	p.Touch()
}

// CategoryIDs returns the IDs of the associated categories in association order
func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

// SizeIDs returns the IDs of the associated sizes in association order
func (p *Product) SizeIDs() []int64 {
	ids := make([]int64, len(p.Sizes))
	for i, s := range p.Sizes {
		ids[i] = s.ID
	}
	return ids
}

// ColorIDs returns the IDs of the associated colors in association order
func (p *Product) ColorIDs() []int64 {
	ids := make([]int64, len(p.Colors))
	for i, c := range p.Colors {
		ids[i] = c.ID
	}
	return ids
}

// ImageURLs returns the URLs of the product images
func (p *Product) ImageURLs() []string {
	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	return urls
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Name is required")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Price must be greater than zero")
	}
	// numeric(10,2)
	if price.Round(PriceScale).GreaterThanOrEqual(decimal.New(1, 8)) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Price is out of range")
	}
	return nil
}
