package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds connection settings for the Redis cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisProductCache implements ProductCache using Redis
type RedisProductCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisProductCacheOption is a functional option for configuring the cache
type RedisProductCacheOption func(*RedisProductCache)

// WithProductTTL sets how long cached products stay fresh
func WithProductTTL(ttl time.Duration) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		c.logger = logger
	}
}

// NewRedisProductCache creates a Redis-backed product cache
func NewRedisProductCache(cfg RedisConfig, opts ...RedisProductCacheOption) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisProductCache{
		client:     client,
		ownsClient: true,
		ttl:        DefaultProductTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// NewRedisProductCacheWithClient creates a cache with an existing client.
// The caller retains ownership of the client and must close it.
func NewRedisProductCacheWithClient(client *redis.Client, opts ...RedisProductCacheOption) *RedisProductCache {
	cache := &RedisProductCache{
		client:     client,
		ownsClient: false,
		ttl:        DefaultProductTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *RedisProductCache) key(id storefront.ProductID) string {
	return fmt.Sprintf("product:%s", id)
}

// Get returns the cached product and whether it was present
func (c *RedisProductCache) Get(ctx context.Context, id storefront.ProductID) (*storefront.Product, bool) {
	payload, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	var product storefront.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		c.logger.Warn("product cache entry corrupt", zap.String("product_id", id.String()), zap.Error(err))
		c.client.Del(ctx, c.key(id))
		return nil, false
	}
	return &product, true
}

// Set stores a product until the TTL elapses
func (c *RedisProductCache) Set(ctx context.Context, product *storefront.Product) {
	if product == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("product cache marshal failed", zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(product.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

func (c *RedisProductCache) searchKey(key string) string {
	return fmt.Sprintf("product_search:%s", key)
}

// GetSearch returns cached search results for a key
func (c *RedisProductCache) GetSearch(ctx context.Context, key string) ([]storefront.ProductSummary, bool) {
	payload, err := c.client.Get(ctx, c.searchKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var results []storefront.ProductSummary
	if err := json.Unmarshal(payload, &results); err != nil {
		c.logger.Warn("search cache entry corrupt", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, c.searchKey(key))
		return nil, false
	}
	return results, true
}

// SetSearch stores search results until the TTL elapses
func (c *RedisProductCache) SetSearch(ctx context.Context, key string, results []storefront.ProductSummary) {
	payload, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("search cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.searchKey(key), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops a single product from the cache
func (c *RedisProductCache) Invalidate(ctx context.Context, id storefront.ProductID) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}

// Close releases the Redis client when this cache owns it
func (c *RedisProductCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
