package redis

import (
	"log"

	"github.com/redis/go-redis/v9"

	"aquashop.ca/storefront/api/pkg/global"
)

func NewClient(cfg *global.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Protocol: 2,
	})
}

// InitRedis creates the shared client and checks the connection. An
// unreachable server is only logged: the client reconnects on demand.
func InitRedis(cfg *global.Config) *redis.Client {
	client := NewClient(cfg)

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis at %s is not reachable: %v", cfg.RedisAddress, err)
		return client
	}

	log.Println("Connected to Redis successfully")
	return client
}
