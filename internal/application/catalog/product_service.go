package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProductService creates, replaces and deletes products together with their
// junction and image rows. Every write runs in a single transaction.
type ProductService struct {
	txScope TransactionScope
	metrics ReplaceMetrics
}

// ReplaceMetrics counts the association kinds replaced by Replace and
// whether their transaction committed
type ReplaceMetrics interface {
	RecordReplace(ctx context.Context, kinds []string, err error)
}

type noopReplaceMetrics struct{}

func (noopReplaceMetrics) RecordReplace(context.Context, []string, error) {}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithReplaceMetrics sets the metrics Replace reports to
func WithReplaceMetrics(m ReplaceMetrics) ProductServiceOption {
	return func(s *ProductService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewProductService creates a new ProductService
func NewProductService(txScope TransactionScope, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{txScope: txScope, metrics: noopReplaceMetrics{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a product with its initial categories, sizes, colors and images
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*ProductView, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.create_product", attribute.Int64("store.id", in.StoreID))
	defer span.End()

	assoc := in.Associations().Normalize()
	if err := assoc.Validate(); err != nil {
		return nil, err
	}
	if err := assoc.RequireComplete(); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(in.StoreID, in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	product.IsFeatured = in.IsFeatured
	product.IsArchived = in.IsArchived

	var created *catalog.Product
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := checkReferences(ctx, repos.AttributeRepo(), product.StoreID, assoc); err != nil {
			return err
		}
		if err := repos.ProductRepo().Create(ctx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		if err := applyAssociations(ctx, repos.AssociationRepo(), product.ID, assoc); err != nil {
			return err
		}
		created, err = repos.ProductRepo().FindByID(ctx, product.ID)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Product created",
		zap.Int64("product_id", created.ID),
		zap.Int64("store_id", created.StoreID))

	view := ToProductView(created)
	return &view, nil
}

// Replace applies a partial update: supplied scalar fields are written and
// every supplied association kind is replaced wholesale. Kinds left nil are
// untouched. The product row is locked first, so concurrent replaces of one
// product run one after the other.
func (s *ProductService) Replace(ctx context.Context, productID int64, in ReplaceProductInput) (*ProductView, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.replace_product", attribute.Int64("product.id", productID))
	defer span.End()

	assoc := in.Associations.Normalize()
	if err := assoc.Validate(); err != nil {
		return nil, err
	}

	var updated *catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if in.StoreID != 0 && product.StoreID != in.StoreID {
			return shared.ErrNotFound
		}

		changed, err := applyScalars(product, in)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, repos.AttributeRepo(), product.StoreID, assoc); err != nil {
			return err
		}

		// replacing a set changes the product too
		if !changed && len(suppliedKinds(assoc)) > 0 {
			product.Touch()
			changed = true
		}
		if changed {
			if err := repos.ProductRepo().Update(ctx, product); err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		if err := applyAssociations(ctx, repos.AssociationRepo(), product.ID, assoc); err != nil {
			return err
		}

		updated, err = repos.ProductRepo().FindByID(ctx, product.ID)
		return err
	})
	kinds := suppliedKinds(assoc)
	s.metrics.RecordReplace(ctx, kinds, err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Product replaced",
		zap.Int64("product_id", updated.ID),
		zap.Strings("replaced_kinds", kinds))

	view := ToProductView(updated)
	return &view, nil
}

// Delete removes a product of the store with its junction and image rows
func (s *ProductService) Delete(ctx context.Context, storeID, productID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "catalog.delete_product", attribute.Int64("product.id", productID))
	defer span.End()

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product.StoreID != storeID {
			return shared.ErrNotFound
		}
		return repos.ProductRepo().Delete(ctx, productID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("Product deleted", zap.Int64("product_id", productID))
	return nil
}

// applyScalars writes the supplied scalar fields and reports whether any was supplied
func applyScalars(p *catalog.Product, in ReplaceProductInput) (bool, error) {
	changed := false
	if in.Name != nil {
		if err := p.Rename(*in.Name); err != nil {
			return false, err
		}
		changed = true
	}
	if in.Price != nil {
		if err := p.SetPrice(*in.Price); err != nil {
			return false, err
		}
		changed = true
	}
	if in.IsFeatured != nil {
		p.SetFeatured(*in.IsFeatured)
		changed = true
	}
	if in.IsArchived != nil {
		p.SetArchived(*in.IsArchived)
		changed = true
	}
	return changed, nil
}

// checkReferences fails with a referential-integrity error when a supplied
// ID does not exist in the store
func checkReferences(ctx context.Context, repo catalog.AttributeRepository, storeID int64, assoc catalog.Associations) error {
	for _, kind := range catalog.AllAssociationKinds {
		ids := assoc.IDs(kind)
		if len(ids) == 0 {
			continue
		}
		missing, err := repo.MissingIDs(ctx, kind, storeID, ids)
		if err != nil {
			return fmt.Errorf("failed to check %s references: %w", kind, err)
		}
		if len(missing) > 0 {
			return catalog.MissingReferencesError(kind, missing)
		}
	}
	return nil
}

// applyAssociations replaces every supplied kind and the image set
func applyAssociations(ctx context.Context, repo catalog.AssociationRepository, productID int64, assoc catalog.Associations) error {
	for _, kind := range catalog.AllAssociationKinds {
		if !assoc.Has(kind) {
			continue
		}
		if err := repo.Replace(ctx, kind, productID, assoc.IDs(kind)); err != nil {
			return fmt.Errorf("failed to replace %s associations: %w", kind, err)
		}
	}
	if assoc.HasImages() {
		if err := repo.ReplaceImages(ctx, productID, assoc.ImageURLs); err != nil {
			return fmt.Errorf("failed to replace images: %w", err)
		}
	}
	return nil
}

func suppliedKinds(assoc catalog.Associations) []string {
	kinds := make([]string, 0, len(catalog.AllAssociationKinds)+1)
	for _, kind := range catalog.AllAssociationKinds {
		if assoc.Has(kind) {
			kinds = append(kinds, string(kind))
		}
	}
	if assoc.HasImages() {
		kinds = append(kinds, "image")
	}
	return kinds
}

// isNotFound reports whether err is a not-found domain error
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
