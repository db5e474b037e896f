package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/catalog"
)

// CreateProductInput carries the fields of a new product and its initial
// association sets. Every set must be non-empty.
type CreateProductInput struct {
	StoreID     int64
	Name        string
	Price       decimal.Decimal
	IsFeatured  bool
	IsArchived  bool
	CategoryIDs []int64
	SizeIDs     []int64
	ColorIDs    []int64
	ImageURLs   []string
}

// Associations returns the association part of the input
func (in CreateProductInput) Associations() catalog.Associations {
	return catalog.Associations{
		CategoryIDs: in.CategoryIDs,
		SizeIDs:     in.SizeIDs,
		ColorIDs:    in.ColorIDs,
		ImageURLs:   in.ImageURLs,
	}
}

// ReplaceProductInput is a partial update of a product.
// Nil scalar pointers and nil association slices are left untouched.
type ReplaceProductInput struct {
	StoreID      int64
	Name         *string
	Price        *decimal.Decimal
	IsFeatured   *bool
	IsArchived   *bool
	Associations catalog.Associations
}

// CategoryView is the output shape of a category
type CategoryView struct {
	ID          int64  `json:"id"`
	StoreID     int64  `json:"storeId"`
	Label       string `json:"label"`
	BillboardID *int64 `json:"billboardId,omitempty"`
}

// SizeView is the output shape of a size
type SizeView struct {
	ID      int64  `json:"id"`
	StoreID int64  `json:"storeId"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// ColorView is the output shape of a color
type ColorView struct {
	ID      int64  `json:"id"`
	StoreID int64  `json:"storeId"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// ImageView is the output shape of a product image
type ImageView struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	URL       string `json:"url"`
}

// ProductView is a product with its full association arrays
type ProductView struct {
	ID         int64           `json:"id"`
	StoreID    int64           `json:"storeId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	IsFeatured bool            `json:"isFeatured"`
	IsArchived bool            `json:"isArchived"`
	Categories []CategoryView  `json:"categories"`
	Sizes      []SizeView      `json:"sizes"`
	Colors     []ColorView     `json:"colors"`
	Images     []ImageView     `json:"images"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToProductView converts a domain product with loaded relations to a ProductView.
// Association order is preserved.
func ToProductView(p *catalog.Product) ProductView {
	view := ProductView{
		ID:         p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		Price:      p.Price,
		IsFeatured: p.IsFeatured,
		IsArchived: p.IsArchived,
		Categories: make([]CategoryView, len(p.Categories)),
		Sizes:      make([]SizeView, len(p.Sizes)),
		Colors:     make([]ColorView, len(p.Colors)),
		Images:     make([]ImageView, len(p.Images)),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for i, c := range p.Categories {
		view.Categories[i] = CategoryView{ID: c.ID, StoreID: c.StoreID, Label: c.Label, BillboardID: c.BillboardID}
	}
	for i, s := range p.Sizes {
		view.Sizes[i] = SizeView{ID: s.ID, StoreID: s.StoreID, Name: s.Name, Value: s.Value}
	}
	for i, c := range p.Colors {
		view.Colors[i] = ColorView{ID: c.ID, StoreID: c.StoreID, Name: c.Name, Value: c.Value}
	}
	for i, img := range p.Images {
		view.Images[i] = ImageView{ID: img.ID, ProductID: img.ProductID, URL: img.URL}
	}
	return view
}
