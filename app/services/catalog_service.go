package services

import (
	"context"
	"strconv"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CatalogService struct {
	store *repositories.Store
	log   *zap.Logger
}

func NewCatalogService(store *repositories.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{store: store, log: log}
}

// GetCatalog loads the full catalog with reviews and applies the filter.
func (s *CatalogService) GetCatalog(ctx context.Context, filter CatalogFilter) ([]models.Product, error) {
	products, err := s.store.Products.GetProducts(ctx)
	if err != nil {
		return nil, upstream("failed to load catalog", err)
	}
	return QueryCatalog(products, filter), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.Products.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrProductNotFound, "product_id", strconv.FormatUint(uint64(id), 10), nil)
		}
		return nil, upstream("failed to load product", err)
	}
	return product, nil
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.store.Products.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrProductNotFound, "slug", slug, nil)
		}
		return nil, upstream("failed to load product", err)
	}
	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.Products.GetCategories(ctx)
	if err != nil {
		return nil, upstream("failed to load categories", err)
	}
	return categories, nil
}

// ResolvePrice is calc.ResolvePrice with the failure reported as a domain
// error naming the product.
func ResolvePrice(p models.Product) (decimal.Decimal, error) {
	price, err := calc.ResolvePrice(p)
	if err != nil {
		return decimal.Zero, newError(ErrInvalidProduct, "base_price", strconv.FormatUint(uint64(p.ID), 10), err)
	}
	return price, nil
}
