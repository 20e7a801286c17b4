package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "shareit_rate_limiter"

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewStore returns a Redis-backed store when client is set, otherwise an in-process one.
func NewStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memorystore.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: time.Minute,
		}), nil
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	return store, nil
}

// Middleware limits requests per client IP. rateStr uses the limiter format, e.g. "100-M" or "10-S".
// It runs ahead of identity resolution, so caller-supplied headers never pick the bucket.
func Middleware(store limiter.Store, rateStr string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rateStr, err)
	}

	instance := limiter.New(store, rate)

	return ginmiddleware.NewMiddleware(instance, ginmiddleware.WithKeyGetter(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})), nil
}
