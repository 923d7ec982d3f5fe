package global

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment at startup.
type Config struct {
	Env             string
	Port            string
	MongoURI        string
	MongoDatabase   string
	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	TokenTTL        time.Duration
	CORSOrigins     []string
	IdempotencyTTL  time.Duration
	ProductCacheTTL time.Duration
	AIEndpoint      string
	AIAPIKey        string
	AIDeployment    string
}

var defaultOrigins = "http://localhost:3000,http://localhost:5173"

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDefaultTimer() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// LoadConfig builds a Config from environment variables.
// MONGODB_URI and JWT_SECRET are required.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:           GetEnvOrDefault("ENV", "development"),
		Port:          GetEnvOrDefault("PORT", "8000"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: GetEnvOrDefault("MONGODB_DATABASE", "aquashop"),
		RedisAddress:  GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   splitList(GetEnvOrDefault("CORS_ORIGINS", defaultOrigins)),
		AIEndpoint:    os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AIAPIKey:      os.Getenv("AZURE_OPENAI_API_KEY"),
		AIDeployment:  GetEnvOrDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-35-turbo"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is not set in environment variables")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set in environment variables")
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(GetEnvOrDefault("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", "24h"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(GetEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
