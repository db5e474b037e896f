package catalog

import (
	"fmt"
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
)

// Associations is the desired state of a product's relations.
//
// A nil slice means the kind was not supplied and must be left untouched.
// A non-nil empty slice means the kind is replaced with the empty set.
type Associations struct {
	CategoryIDs []int64
	SizeIDs     []int64
	ColorIDs    []int64
	ImageURLs   []string
}

// IDs returns the supplied ID list for a kind (nil when not supplied)
func (a Associations) IDs(kind AssociationKind) []int64 {
	switch kind {
	case KindCategory:
		return a.CategoryIDs
	case KindSize:
		return a.SizeIDs
	case KindColor:
		return a.ColorIDs
	}
	return nil
}

// Has reports whether the kind was supplied
func (a Associations) Has(kind AssociationKind) bool {
	return a.IDs(kind) != nil
}

// HasImages reports whether an image set was supplied
func (a Associations) HasImages() bool {
	return a.ImageURLs != nil
}

// Normalize collapses duplicate IDs and URLs, keeping first-occurrence order.
// Supplied-ness is preserved: nil stays nil and empty stays empty.
func (a Associations) Normalize() Associations {
	return Associations{
		CategoryIDs: DedupeIDs(a.CategoryIDs),
		SizeIDs:     DedupeIDs(a.SizeIDs),
		ColorIDs:    DedupeIDs(a.ColorIDs),
		ImageURLs:   dedupeURLs(a.ImageURLs),
	}
}

// Validate rejects non-positive IDs and blank image URLs
func (a Associations) Validate() error {
	for _, kind := range AllAssociationKinds {
		for _, id := range a.IDs(kind) {
			if id <= 0 {
				return shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("Invalid %s ID: %d", kind, id))
			}
		}
	}
	for _, url := range a.ImageURLs {
		if strings.TrimSpace(url) == "" {
			return shared.NewDomainError(shared.CodeInvalidInput, "Image URL cannot be empty")
		}
	}
	return nil
}

// RequireComplete checks that every kind and the image set are non-empty,
// as needed when a product is first created.
func (a Associations) RequireComplete() error {
	if len(a.ImageURLs) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Images are required")
	}
	if len(a.CategoryIDs) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "At least one category is required")
	}
	if len(a.SizeIDs) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "At least one size is required")
	}
	if len(a.ColorIDs) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "At least one color is required")
	}
	return nil
}

// DedupeIDs removes duplicates keeping first-occurrence order.
// A nil input returns nil.
func DedupeIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupeURLs(urls []string) []string {
	if urls == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// MissingReferencesError builds the referential-integrity error for IDs that
// do not exist in the product's store.
func MissingReferencesError(kind AssociationKind, missing []int64) *shared.DomainError {
	return shared.NewDomainError(shared.CodeReferentialIntegrity,
		fmt.Sprintf("Unknown %s IDs for this store: %v", kind, missing))
}
