package main

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"aquashop.ca/storefront/api/internal/router"
	"aquashop.ca/storefront/api/pkg/ai"
	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/mongo"
	"aquashop.ca/storefront/api/pkg/redis"
	"aquashop.ca/storefront/api/pkg/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("Error loading .env file: %v", err)
		}
		log.Println("No .env file found, using process environment")
	}

	cfg, err := global.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mongoClient, db := mongo.InitMongoDB(cfg)
	defer mongoClient.Disconnect(context.Background())
	mongo.EnsureIndexesOnStartup(db)

	redisClient := redis.InitRedis(cfg)
	defer redisClient.Close()

	stores := mongo.NewStores(db)
	cache := redis.NewProductCache(redisClient, cfg.ProductCacheTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	handler := &router.Handler{
		Catalog:     service.NewCatalogService(stores.Products, cache),
		Cart:        service.NewCartService(stores.Carts, stores.Products),
		Orders:      service.NewOrderService(stores.Orders, stores.Carts, stores.Products, cache),
		Reviews:     service.NewReviewService(stores.Reviews, stores.Products, cache, stores.Users, ai.NewSummarizer(cfg)),
		Users:       service.NewUserService(stores.Users, tokens, redis.NewTokenBlacklist(redisClient)),
		Blogs:       service.NewBlogService(stores.Blogs),
		Idempotency: redis.NewIdempotencyGuard(redisClient, cfg.IdempotencyTTL),
		Health: []router.HealthCheck{
			{Name: "database", Critical: true, Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "cache", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		},
	}
	engine := router.NewEngine(cfg, handler)

	log.Printf("Server is running on port %s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
