package cache

import (
	"context"
	"fmt"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend is a customer cache that owns a connection.
// Ping backs the readiness check.
type Backend interface {
	customer.CustomerCache
	Ping(ctx context.Context) error
	Close() error
}

// CustomerCacheFactory creates customer caches based on configuration
type CustomerCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CustomerCacheFactoryOption is a functional option for configuring the factory
type CustomerCacheFactoryOption func(*CustomerCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CustomerCacheFactoryOption {
	return func(f *CustomerCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-process cache instead of failing startup
func WithInMemoryFallback(allow bool) CustomerCacheFactoryOption {
	return func(f *CustomerCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCustomerCacheFactory creates a new factory
func NewCustomerCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...CustomerCacheFactoryOption) *CustomerCacheFactory {
	f := &CustomerCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: cacheCfg.FallbackToMemory,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed customer cache
func (f *CustomerCacheFactory) CreateRedisCache() (*RedisCustomerCache, error) {
	c, err := NewRedisCustomerCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis customer cache: %w", err)
	}
	return c, nil
}

// CreateLocalCache creates an in-process customer cache.
// Snapshots are not shared across instances, so writes on one replica are
// not visible as evictions on another.
func (f *CustomerCacheFactory) CreateLocalCache() *LocalCustomerCache {
	return NewLocalCustomerCache(LocalConfig{
		Capacity:           f.cacheConfig.LocalCapacity,
		NumShards:          f.cacheConfig.LocalShards,
		TTL:                f.cacheConfig.TTL,
		EvictionPercentage: f.cacheConfig.LocalEvictionPercentage,
	}, f.logger)
}

// CreateCache creates the configured cache. With the redis backend it tries
// Redis first and falls back to the local cache when allowed.
func (f *CustomerCacheFactory) CreateCache() (Backend, error) {
	if f.cacheConfig.Backend == config.CacheBackendMemory {
		f.logger.Info("using in-process customer cache")
		return f.CreateLocalCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis customer cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for customer cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-process customer cache. "+
		"Cached snapshots will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateLocalCache(), nil
}
