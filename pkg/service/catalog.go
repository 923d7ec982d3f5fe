package service

import (
	"context"
	"errors"
	"strings"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type CatalogService struct {
	products ProductStore
	cache    ProductCache
}

func NewCatalogService(products ProductStore, cache ProductCache) *CatalogService {
	return &CatalogService{products: products, cache: cache}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) (global.Page[models.Product], error) {
	filter.Page, filter.Limit = NormalizePage(filter.Page, filter.Limit)
	if !models.IsValidSort(filter.Sort) {
		return global.Page[models.Product]{}, global.NewValidationError("sort", "Unknown sort option")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return global.Page[models.Product]{}, global.NewValidationError("min_price", "min_price cannot exceed max_price")
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return global.Page[models.Product]{}, err
	}
	return global.NewPage(products, filter.Page, filter.Limit, total), nil
}

// SearchProducts runs a keyword search. A blank keyword yields an empty page
// without touching the store.
func (s *CatalogService) SearchProducts(ctx context.Context, keyword string, page, limit int) (global.Page[models.Product], error) {
	page, limit = NormalizePage(page, limit)
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return global.NewPage[models.Product](nil, page, limit, 0), nil
	}

	products, total, err := s.products.Search(ctx, keyword, page, limit)
	if err != nil {
		return global.Page[models.Product]{}, err
	}
	return global.NewPage(products, page, limit, total), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.CategoryCount{}
	}
	return categories, nil
}

// GetProduct reads through the cache. The boolean reports a cache hit.
func (s *CatalogService) GetProduct(ctx context.Context, idHex string) (*models.Product, bool, error) {
	id, err := parseObjectID("id", idHex)
	if err != nil {
		return nil, false, err
	}

	product, err := s.cache.GetProduct(ctx, idHex)
	if err == nil {
		return product, true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		warn("failed to read product %s from cache: %v", idHex, err)
	}

	product, err = s.products.GetByID(ctx, id)
	if err != nil {
		return nil, false, notFound(err, "id", "Product not found")
	}

	if cacheErr := s.cache.SetProduct(ctx, product); cacheErr != nil {
		warn("failed to cache product %s: %v", idHex, cacheErr)
	}
	return product, false, nil
}

// GetProductBySKU is GetProduct keyed by SKU.
func (s *CatalogService) GetProductBySKU(ctx context.Context, sku string) (*models.Product, bool, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, false, global.NewValidationError("sku", "SKU is required")
	}

	product, err := s.cache.GetProductBySKU(ctx, sku)
	if err == nil {
		return product, true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		warn("failed to read SKU %s from cache: %v", sku, err)
	}

	product, err = s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, false, notFound(err, "sku", "Product not found")
	}

	if cacheErr := s.cache.SetProduct(ctx, product); cacheErr != nil {
		warn("failed to cache product %s: %v", product.ID.Hex(), cacheErr)
	}
	return product, false, nil
}

func (s *CatalogService) CreateProducts(ctx context.Context, reqs []models.CreateProductRequest) ([]*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, global.NewValidationError("products", "At least one product is required")
	}

	products := make([]*models.Product, len(reqs))
	for i := range reqs {
		products[i] = reqs[i].ToProduct()
	}
	if err := s.products.CreateMany(ctx, products); err != nil {
		return nil, err
	}

	for _, p := range products {
		if cacheErr := s.cache.SetProduct(ctx, p); cacheErr != nil {
			warn("failed to cache product %s: %v", p.ID.Hex(), cacheErr)
		}
	}
	return products, nil
}

// DefaultLowStockThreshold is used when the admin does not pass one.
const DefaultLowStockThreshold = 5

// LowStock lists products an admin should restock.
func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if threshold < 0 {
		return nil, global.NewValidationError("threshold", "Threshold cannot be negative")
	}
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}
	return s.products.LowStock(ctx, threshold)
}
