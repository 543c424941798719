package cache

import (
	"fmt"
	"time"

	"github.com/edulistas/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ProductCacheFactory creates product caches based on configuration
type ProductCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ProductCacheFactoryOption is a functional option for configuring the factory
type ProductCacheFactoryOption func(*ProductCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.logger = logger
	}
}

// WithTTL sets how long cached products stay fresh
func WithTTL(ttl time.Duration) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProductCacheFactory creates a new factory
func NewProductCacheFactory(cfg config.RedisConfig, opts ...ProductCacheFactoryOption) *ProductCacheFactory {
	f := &ProductCacheFactory{
		redisConfig:           cfg,
		ttl:                   DefaultProductTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a product cache. When Redis is enabled it is
// tried first; the in-memory cache serves as fallback.
func (f *ProductCacheFactory) CreateCache() (ProductCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory product cache")
		return NewInMemoryProductCache(f.ttl), nil
	}

	cache, err := NewRedisProductCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, WithProductTTL(f.ttl), WithCacheLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis product cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for product cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory product cache. "+
		"Cache state will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemoryProductCache(f.ttl), nil
}
