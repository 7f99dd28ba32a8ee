package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// scanBatchSize is the COUNT hint passed to SCAN during EvictAll
	scanBatchSize = 500
	// maxConcurrentDeletes bounds the DEL batches in flight during EvictAll
	maxConcurrentDeletes = 4
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisCustomerCache implements customer.CustomerCache on Redis.
// Each snapshot is stored as JSON under its id, email and document keys.
type RedisCustomerCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCustomerCache connects to Redis and verifies the connection
func NewRedisCustomerCache(cfg RedisConfig, logger *zap.Logger) (*RedisCustomerCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCustomerCacheWithClient(client, logger), nil
}

// NewRedisCustomerCacheWithClient creates a cache with an existing Redis client
func NewRedisCustomerCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisCustomerCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCustomerCache{
		client: client,
		logger: logger.Named("cache.redis"),
	}
}

// Save writes the snapshot under all three keys concurrently
func (c *RedisCustomerCache) Save(ctx context.Context, cust customer.Customer, ttl time.Duration) {
	if cust == nil {
		return
	}
	if ttl <= 0 {
		ttl = customer.DefaultCacheTTL
	}

	data, err := encodeSnapshot(cust)
	if err != nil {
		c.logger.Warn("Failed to encode customer for cache", zap.Error(err))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keysOf(cust) {
		g.Go(func() error {
			if err := c.client.Set(gctx, key, data, ttl).Err(); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Warn("Failed to cache customer",
			zap.String("id", cust.Base().ID.String()),
			zap.Error(err))
	}
}

// FindByID returns the snapshot cached under the id key
func (c *RedisCustomerCache) FindByID(ctx context.Context, id uuid.UUID) (customer.Customer, bool) {
	return c.get(ctx, idKey(id.String()))
}

// FindByEmail returns the snapshot cached under the email key
func (c *RedisCustomerCache) FindByEmail(ctx context.Context, email string) (customer.Customer, bool) {
	return c.get(ctx, emailKey(email))
}

// FindByDocumentNumber returns the snapshot cached under the document key
func (c *RedisCustomerCache) FindByDocumentNumber(ctx context.Context, documentNumber string) (customer.Customer, bool) {
	return c.get(ctx, documentKey(documentNumber))
}

func (c *RedisCustomerCache) get(ctx context.Context, key string) (customer.Customer, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read customer from cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	cust, err := decodeSnapshot(data)
	if err != nil {
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.del(ctx, key)
		return nil, false
	}
	return cust, true
}

// Evict removes the id key
func (c *RedisCustomerCache) Evict(ctx context.Context, id uuid.UUID) {
	c.del(ctx, idKey(id.String()))
}

// EvictByEmail removes the email key
func (c *RedisCustomerCache) EvictByEmail(ctx context.Context, email string) {
	c.del(ctx, emailKey(email))
}

// EvictByDocumentNumber removes the document key
func (c *RedisCustomerCache) EvictByDocumentNumber(ctx context.Context, documentNumber string) {
	c.del(ctx, documentKey(documentNumber))
}

func (c *RedisCustomerCache) del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Failed to evict customer from cache", zap.String("key", key), zap.Error(err))
	}
}

// EvictAll removes every customer key. Keys are discovered with SCAN so the
// server is never blocked by a KEYS call.
func (c *RedisCustomerCache) EvictAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDeletes)

	var cursor uint64
	removed := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			c.logger.Warn("Failed to scan customer cache keys", zap.Error(err))
			break
		}
		if len(keys) > 0 {
			removed += len(keys)
			g.Go(func() error {
				return c.client.Del(gctx, keys...).Err()
			})
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("Failed to evict all customers from cache", zap.Error(err))
		return
	}
	c.logger.Info("Evicted all customers from cache", zap.Int("keys", removed))
}

// Ping checks connectivity to Redis
func (c *RedisCustomerCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisCustomerCache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client
func (c *RedisCustomerCache) Client() *redis.Client {
	return c.client
}

var (
	_ customer.CustomerCache = (*RedisCustomerCache)(nil)
	_ Backend                = (*RedisCustomerCache)(nil)
)
