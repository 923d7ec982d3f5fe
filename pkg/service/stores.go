// Package service holds the shop's business rules. Each service reads the
// caller's auth.Session from the request context and talks to storage only
// through the interfaces declared here.
package service

//go:generate mockgen -destination=mocks/stores.go -package=mocks . ProductStore,ProductCache,CartStore,OrderStore,ReviewStore,UserStore,BlogStore,TokenRevoker,ReviewSummarizer

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/models"
)

// ErrCacheMiss is returned by ProductCache when the product is not cached.
var ErrCacheMiss = errors.New("cache miss")

type ProductStore interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	Search(ctx context.Context, keyword string, page, limit int) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	CreateMany(ctx context.Context, products []*models.Product) error
	// ReserveStock decrements stock only if at least quantity units are left;
	// otherwise it reports global.ErrConflict.
	ReserveStock(ctx context.Context, id bson.ObjectID, quantity int, orderNumber string) error
	ReleaseStock(ctx context.Context, id bson.ObjectID, quantity int, orderNumber string) error
	UpdateRatings(ctx context.Context, id bson.ObjectID, ratings models.Ratings) error
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	InvalidateProduct(ctx context.Context, id string) error
}

type CartStore interface {
	// Get returns the user's cart, or an empty unsaved cart when none exists.
	Get(ctx context.Context, userID bson.ObjectID) (*models.Cart, error)
	// Save writes the cart if its Version is still current and bumps Version.
	// A stale cart yields models.ErrCartVersionConflict.
	Save(ctx context.Context, cart *models.Cart) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID bson.ObjectID, status models.OrderStatus, page, limit int) ([]models.Order, int64, error)
	// UpdateStatus moves the order from -> to atomically; it reports
	// global.ErrNotFound when the order is not currently in from.
	UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error)
	SalesByStatus(ctx context.Context) ([]models.StatusSummary, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Review, error)
	ListByProduct(ctx context.Context, productID bson.ObjectID, page, limit int) ([]models.Review, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id bson.ObjectID) error
	Stats(ctx context.Context, productID bson.ObjectID) (models.Ratings, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id bson.ObjectID, req models.UpdateProfileRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error
}

type BlogStore interface {
	List(ctx context.Context, tag string, page, limit int) ([]models.Blog, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) error
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type ReviewSummarizer interface {
	Enabled() bool
	Summarize(ctx context.Context, product *models.Product, reviews []models.Review) (string, error)
}
