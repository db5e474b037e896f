package catalog

import (
	"context"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// QueryService lists and reads products in the legacy view shape.
// It takes no locks.
type QueryService struct {
	productRepo catalog.ProductRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(productRepo catalog.ProductRepository) *QueryService {
	return &QueryService{productRepo: productRepo}
}

// Find returns the products of a store matching the filter, newest first
func (s *QueryService) Find(ctx context.Context, filter catalog.ProductFilter) ([]LegacyProductView, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.find_products",
		attribute.Int64("store.id", filter.StoreID),
		attribute.Bool("filter.archived", filter.IsArchived))
	defer span.End()

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	views := make([]LegacyProductView, len(products))
	for i := range products {
		views[i] = ToLegacyView(ToProductView(&products[i]))
	}
	span.SetAttributes(attribute.Int("result.count", len(views)))
	return views, nil
}

// Get returns one product of the store
func (s *QueryService) Get(ctx context.Context, storeID, productID int64) (*LegacyProductView, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, errProductNotInStore
	}
	view := ToLegacyView(ToProductView(product))
	return &view, nil
}
