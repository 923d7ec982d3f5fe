package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aquashop.ca/storefront/api/pkg/models"
	"aquashop.ca/storefront/api/pkg/service"
)

// ProductCache stores products as JSON under product:{id}, with a secondary
// sku:{sku} -> id mapping for SKU lookups.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(id string) string { return fmt.Sprintf("product:%s", id) }
func skuKey(sku string) string    { return fmt.Sprintf("sku:%s", sku) }

// GetProduct returns service.ErrCacheMiss when nothing is cached for id.
func (c *ProductCache) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	productJSON, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(productJSON, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// GetProductBySKU resolves the SKU mapping and then the product itself.
func (c *ProductCache) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	id, err := c.client.Get(ctx, skuKey(sku)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return c.GetProduct(ctx, id)
}

func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) error {
	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.SKU, err)
	}

	id := product.ID.Hex()
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, productKey(id), productJSON, c.ttl)
	if product.SKU != "" {
		pipe.Set(ctx, skuKey(product.SKU), id, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", id, err)
	}
	return nil
}

// InvalidateProduct drops the cached product and its SKU mapping.
func (c *ProductCache) InvalidateProduct(ctx context.Context, id string) error {
	product, err := c.GetProduct(ctx, id)
	if errors.Is(err, service.ErrCacheMiss) {
		return nil
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, productKey(id))
	if err == nil && product.SKU != "" {
		pipe.Del(ctx, skuKey(product.SKU))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove product %s from cache: %w", id, err)
	}
	return nil
}
