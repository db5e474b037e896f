package catalog

import (
	"time"

	"github.com/storeadmin/backend/internal/domain/catalog"
)

// LegacyProductView is the single-valued product shape older storefront
// consumers are written against. Category, Size and Color hold the first
// element of the matching array, or nil when it is empty. The arrays are
// carried alongside for newer consumers.
type LegacyProductView struct {
	ID         int64          `json:"id"`
	StoreID    int64          `json:"storeId"`
	Name       string         `json:"name"`
	Price      float64        `json:"price"`
	IsFeatured bool           `json:"isFeatured"`
	IsArchived bool           `json:"isArchived"`
	Category   *CategoryView  `json:"category"`
	Size       *SizeView      `json:"size"`
	Color      *ColorView     `json:"color"`
	Images     []ImageView    `json:"images"`
	Categories []CategoryView `json:"categories"`
	Sizes      []SizeView     `json:"sizes"`
	Colors     []ColorView    `json:"colors"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ToLegacyView projects a ProductView into the legacy shape.
// The input is not modified; every slice and pointer in the result is a copy.
func ToLegacyView(p ProductView) LegacyProductView {
	view := LegacyProductView{
		ID:         p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		Price:      p.Price.Round(catalog.PriceScale).InexactFloat64(),
		IsFeatured: p.IsFeatured,
		IsArchived: p.IsArchived,
		Images:     cloneSlice(p.Images),
		Categories: cloneSlice(p.Categories),
		Sizes:      cloneSlice(p.Sizes),
		Colors:     cloneSlice(p.Colors),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	view.Category = first(view.Categories)
	view.Size = first(view.Sizes)
	view.Color = first(view.Colors)
	return view
}

// ToLegacyViews adapts a list, keeping its order
func ToLegacyViews(products []ProductView) []LegacyProductView {
	views := make([]LegacyProductView, len(products))
	for i := range products {
		views[i] = ToLegacyView(products[i])
	}
	return views
}

// LegacyAssociations is the single-valued association input older clients send
type LegacyAssociations struct {
	CategoryID *int64
	SizeID     *int64
	ColorID    *int64
}

// ToAssociations turns each supplied single ID into a one-element set.
// Kinds without an ID are left unsupplied.
func (l LegacyAssociations) ToAssociations() catalog.Associations {
	return catalog.Associations{
		CategoryIDs: single(l.CategoryID),
		SizeIDs:     single(l.SizeID),
		ColorIDs:    single(l.ColorID),
	}
}

// Fill supplies, from the legacy IDs, every kind that a is missing.
// Array input always wins over a legacy single ID.
func (l LegacyAssociations) Fill(a catalog.Associations) catalog.Associations {
	legacy := l.ToAssociations()
	if a.CategoryIDs == nil {
		a.CategoryIDs = legacy.CategoryIDs
	}
	if a.SizeIDs == nil {
		a.SizeIDs = legacy.SizeIDs
	}
	if a.ColorIDs == nil {
		a.ColorIDs = legacy.ColorIDs
	}
	return a
}

func single(id *int64) []int64 {
	if id == nil {
		return nil
	}
	return []int64{*id}
}

func first[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	v := items[0]
	return &v
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
