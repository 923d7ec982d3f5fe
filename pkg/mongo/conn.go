package mongo

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/service"
)

const (
	usersCollection         = "users"
	productsCollection      = "products"
	cartsCollection         = "carts"
	ordersCollection        = "orders"
	reviewsCollection       = "reviews"
	blogsCollection         = "blogs"
	inventoryLogsCollection = "inventory_logs"
)

// Connect opens a client for cfg.MongoURI and verifies it with a ping.
func Connect(ctx context.Context, cfg *global.Config) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// InitMongoDB connects and returns the configured database, exiting on failure.
func InitMongoDB(cfg *global.Config) (*mongo.Client, *mongo.Database) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	client, err := Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Println("Connected to MongoDB successfully")
	return client, client.Database(cfg.MongoDatabase)
}

var (
	_ service.UserStore    = (*UserStore)(nil)
	_ service.ProductStore = (*ProductStore)(nil)
	_ service.CartStore    = (*CartStore)(nil)
	_ service.OrderStore   = (*OrderStore)(nil)
	_ service.ReviewStore  = (*ReviewStore)(nil)
	_ service.BlogStore    = (*BlogStore)(nil)
)

// Stores groups every collection-backed store over one database.
type Stores struct {
	Users    *UserStore
	Products *ProductStore
	Carts    *CartStore
	Orders   *OrderStore
	Reviews  *ReviewStore
	Blogs    *BlogStore
}

func NewStores(db *mongo.Database) *Stores {
	return &Stores{
		Users:    NewUserStore(db),
		Products: NewProductStore(db),
		Carts:    NewCartStore(db),
		Orders:   NewOrderStore(db),
		Reviews:  NewReviewStore(db),
		Blogs:    NewBlogStore(db),
	}
}
