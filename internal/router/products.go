package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func (h *Handler) GetAllProducts(c *gin.Context) {
	filter, err := productFilterFromQuery(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	page, err := h.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to get products")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(page))
}

func (h *Handler) SearchProducts(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	result, err := h.Catalog.SearchProducts(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to search products")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(result))
}

func (h *Handler) GetAllCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get categories")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

// GetProductByID serves a product through the read-through cache and reports
// which path answered in X-Cache.
func (h *Handler) GetProductByID(c *gin.Context) {
	product, hit, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch product")
		return
	}
	cacheHeader(c, hit)
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (h *Handler) GetProductBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if len(sku) < 3 || len(sku) > 50 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid SKU format", []global.ValidationError{
			{Field: "sku", Message: "SKU must be between 3 and 50 characters", Code: "invalid_format"},
		}))
		return
	}

	product, hit, err := h.Catalog.GetProductBySKU(c.Request.Context(), sku)
	if err != nil {
		respondError(c, err, "Failed to fetch product")
		return
	}
	cacheHeader(c, hit)
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (h *Handler) CreateNewProducts(c *gin.Context) {
	var req []models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No products provided", []global.ValidationError{
			{Field: "products", Message: "At least one product is required", Code: "empty_array"},
		}))
		return
	}

	created, err := h.Catalog.CreateProducts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create products")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(map[string]interface{}{
		"products": created,
		"count":    len(created),
	}))
}

func (h *Handler) GetLowStockProducts(c *gin.Context) {
	threshold, err := queryInt(c, "threshold")
	if err != nil {
		respondError(c, err, "")
		return
	}
	products, err := h.Catalog.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err, "Failed to get low stock products")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func productFilterFromQuery(c *gin.Context) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		Sort:     strings.TrimSpace(c.Query("sort")),
	}

	var err error
	if filter.Page, err = queryInt(c, "page"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return filter, err
	}
	if raw := c.Query("in_stock"); raw != "" {
		if filter.InStock, err = strconv.ParseBool(raw); err != nil {
			return filter, global.NewValidationError("in_stock", "in_stock must be true or false")
		}
	}
	return filter, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, global.NewValidationError(key, key+" must be a number")
	}
	return &f, nil
}
