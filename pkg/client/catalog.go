package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// ProductQuery mirrors the listing filters of GET /products.
type ProductQuery struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	Sort     string
	Page     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	v := pageQuery(q.Page, q.Limit)
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Brand != "" {
		v.Set("brand", q.Brand)
	}
	if q.MinPrice != nil {
		v.Set("min_price", fmt.Sprint(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", fmt.Sprint(*q.MaxPrice))
	}
	if q.InStock {
		v.Set("in_stock", "true")
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*global.Page[models.Product], error) {
	var page global.Page[models.Product]
	err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: q.values(), out: &page})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchProducts returns an empty page for a blank keyword without calling
// the server.
func (c *Client) SearchProducts(ctx context.Context, keyword string, page, limit int) (*global.Page[models.Product], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		empty := global.NewPage([]models.Product{}, 1, limit, 0)
		return &empty, nil
	}

	q := pageQuery(page, limit)
	q.Set("q", keyword)
	var result global.Page[models.Product]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/search", query: q, out: &result}); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	var categories []models.CategoryCount
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/categories", out: &categories}); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/" + url.PathEscape(id), out: &product}); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/sku/" + url.PathEscape(sku), out: &product}); err != nil {
		return nil, err
	}
	return &product, nil
}
