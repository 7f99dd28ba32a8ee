package cache

import (
	"context"
	"strings"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

// LocalConfig holds the sizing of the in-process cache
type LocalConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultLocalConfig returns the in-process cache defaults
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		Capacity:           10000,
		NumShards:          10,
		TTL:                customer.DefaultCacheTTL,
		EvictionPercentage: 10,
	}
}

// localEntry pairs a snapshot with its own deadline so that the ttl passed
// to Save is honoured even though sturdyc applies one TTL to the whole client
type localEntry struct {
	snapshot  customer.Customer
	expiresAt time.Time
}

// LocalCustomerCache implements customer.CustomerCache in process memory.
// State is not shared between instances.
type LocalCustomerCache struct {
	client *sturdyc.Client[localEntry]
	logger *zap.Logger
	now    func() time.Time
}

// NewLocalCustomerCache creates a new in-process customer cache
func NewLocalCustomerCache(cfg LocalConfig, logger *zap.Logger) *LocalCustomerCache {
	defaults := DefaultLocalConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaults.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = defaults.NumShards
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.EvictionPercentage <= 0 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = defaults.EvictionPercentage
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LocalCustomerCache{
		client: sturdyc.New[localEntry](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		logger: logger.Named("cache.local"),
		now:    time.Now,
	}
}

// Save stores a private copy of the snapshot under all three keys
func (c *LocalCustomerCache) Save(_ context.Context, cust customer.Customer, ttl time.Duration) {
	if cust == nil {
		return
	}
	if ttl <= 0 {
		ttl = customer.DefaultCacheTTL
	}
	entry := localEntry{snapshot: cust.Clone(), expiresAt: c.now().Add(ttl)}
	for _, key := range keysOf(cust) {
		c.client.Set(key, entry)
	}
}

// FindByID returns the snapshot cached under the id key
func (c *LocalCustomerCache) FindByID(_ context.Context, id uuid.UUID) (customer.Customer, bool) {
	return c.get(idKey(id.String()))
}

// FindByEmail returns the snapshot cached under the email key
func (c *LocalCustomerCache) FindByEmail(_ context.Context, email string) (customer.Customer, bool) {
	return c.get(emailKey(email))
}

// FindByDocumentNumber returns the snapshot cached under the document key
func (c *LocalCustomerCache) FindByDocumentNumber(_ context.Context, documentNumber string) (customer.Customer, bool) {
	return c.get(documentKey(documentNumber))
}

func (c *LocalCustomerCache) get(key string) (customer.Customer, bool) {
	entry, ok := c.client.Get(key)
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.client.Delete(key)
		return nil, false
	}
	return entry.snapshot.Clone(), true
}

// Evict removes the id key
func (c *LocalCustomerCache) Evict(_ context.Context, id uuid.UUID) {
	c.client.Delete(idKey(id.String()))
}

// EvictByEmail removes the email key
func (c *LocalCustomerCache) EvictByEmail(_ context.Context, email string) {
	c.client.Delete(emailKey(email))
}

// EvictByDocumentNumber removes the document key
func (c *LocalCustomerCache) EvictByDocumentNumber(_ context.Context, documentNumber string) {
	c.client.Delete(documentKey(documentNumber))
}

// EvictAll removes every customer key
func (c *LocalCustomerCache) EvictAll(_ context.Context) {
	removed := 0
	for _, key := range c.client.ScanKeys() {
		if strings.HasPrefix(key, keyPrefix) {
			c.client.Delete(key)
			removed++
		}
	}
	c.logger.Info("Evicted all customers from local cache", zap.Int("keys", removed))
}

// Size returns the number of keys held
func (c *LocalCustomerCache) Size() int {
	return c.client.Size()
}

// Ping always succeeds for the in-process cache
func (c *LocalCustomerCache) Ping(context.Context) error {
	return nil
}

// Close releases the cached entries
func (c *LocalCustomerCache) Close() error {
	for _, key := range c.client.ScanKeys() {
		c.client.Delete(key)
	}
	return nil
}

var (
	_ customer.CustomerCache = (*LocalCustomerCache)(nil)
	_ Backend                = (*LocalCustomerCache)(nil)
)
