package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Ratings represents product review statistics
type Ratings struct {
	Average float64 `json:"average" bson:"average" validate:"gte=0,lte=5"`
	Count   int     `json:"count" bson:"count" validate:"gte=0"`
}

// Product represents an item in the aquarium catalog (livestock, tanks, filters, food...)
type Product struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	SKU         string        `json:"sku" bson:"sku"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description" bson:"description"`
	Category    string        `json:"category" bson:"category"`
	Brand       string        `json:"brand" bson:"brand"`
	Price       float64       `json:"price" bson:"price"`
	Currency    string        `json:"currency" bson:"currency"`
	Stock       int           `json:"stock" bson:"stock"`
	Images      []string      `json:"images" bson:"images"`
	Ratings     Ratings       `json:"ratings" bson:"ratings"`
	Tags        []string      `json:"tags" bson:"tags"`
	Status      string        `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Category    string   `json:"category" validate:"required,min=2,max=100"`
	Brand       string   `json:"brand" validate:"required,min=2,max=100"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images" validate:"dive,url"`
	Tags        []string `json:"tags" validate:"dive,min=2,max=50"`
}

// GenerateSKU builds BRAND-CAT-XXXXXXXX. The random suffix keeps SKUs unique
// when many products are created in the same second.
func (req *CreateProductRequest) GenerateSKU() string {
	brandPrefix := strings.ToUpper(req.Brand[:min(3, len(req.Brand))])
	categoryPrefix := strings.ToUpper(req.Category[:min(3, len(req.Category))])
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", brandPrefix, categoryPrefix, suffix)
}

func (req *CreateProductRequest) ToProduct() *Product {
	now := time.Now()
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	product := &Product{
		ID:          bson.NewObjectID(),
		SKU:         req.GenerateSKU(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		Currency:    strings.ToUpper(currency),
		Stock:       req.Stock,
		Images:      req.Images,
		Ratings:     Ratings{Average: 0.0, Count: 0},
		Tags:        req.Tags,
		Status:      ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	return product
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.Status == ProductStatusActive
}

func (p *Product) IsAvailable() bool {
	return p.Status == ProductStatusActive
}

// MainImage returns the first image or an empty string.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Product listing sort keys
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortName      = "name"
)

// ProductFilter holds catalog listing parameters parsed from the query string.
type ProductFilter struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	Sort     string
	Page     int
	Limit    int
}

// CategoryCount is one entry of the category listing.
type CategoryCount struct {
	Name  string `json:"name" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// IsValidSort reports whether s is a known sort key (empty means default).
func IsValidSort(s string) bool {
	switch s {
	case "", SortNewest, SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return true
	}
	return false
}
