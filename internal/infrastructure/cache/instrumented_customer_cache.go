package cache

import (
	"context"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// InstrumentedCustomerCache records hit, miss, write and eviction metrics
// around another CustomerCache
type InstrumentedCustomerCache struct {
	next    customer.CustomerCache
	metrics *telemetry.CustomerMetrics
}

// NewInstrumentedCustomerCache wraps next. A nil metrics recorder returns next unchanged.
func NewInstrumentedCustomerCache(next customer.CustomerCache, metrics *telemetry.CustomerMetrics) customer.CustomerCache {
	if metrics == nil {
		return next
	}
	return &InstrumentedCustomerCache{next: next, metrics: metrics}
}

func (c *InstrumentedCustomerCache) Save(ctx context.Context, cust customer.Customer, ttl time.Duration) {
	start := time.Now()
	c.next.Save(ctx, cust, ttl)
	c.metrics.RecordCacheWrite(ctx, time.Since(start))
}

func (c *InstrumentedCustomerCache) FindByID(ctx context.Context, id uuid.UUID) (customer.Customer, bool) {
	return c.lookup(ctx, "id", func() (customer.Customer, bool) { return c.next.FindByID(ctx, id) })
}

func (c *InstrumentedCustomerCache) FindByEmail(ctx context.Context, email string) (customer.Customer, bool) {
	return c.lookup(ctx, "email", func() (customer.Customer, bool) { return c.next.FindByEmail(ctx, email) })
}

func (c *InstrumentedCustomerCache) FindByDocumentNumber(ctx context.Context, documentNumber string) (customer.Customer, bool) {
	return c.lookup(ctx, "document", func() (customer.Customer, bool) {
		return c.next.FindByDocumentNumber(ctx, documentNumber)
	})
}

func (c *InstrumentedCustomerCache) lookup(ctx context.Context, key string, find func() (customer.Customer, bool)) (customer.Customer, bool) {
	start := time.Now()
	cust, ok := find()
	outcome := telemetry.CacheOutcomeMiss
	if ok {
		outcome = telemetry.CacheOutcomeHit
	}
	c.metrics.RecordCacheLookup(ctx, key, outcome, time.Since(start))
	return cust, ok
}

func (c *InstrumentedCustomerCache) Evict(ctx context.Context, id uuid.UUID) {
	c.next.Evict(ctx, id)
	c.metrics.RecordCacheEviction(ctx, "id")
}

func (c *InstrumentedCustomerCache) EvictByEmail(ctx context.Context, email string) {
	c.next.EvictByEmail(ctx, email)
	c.metrics.RecordCacheEviction(ctx, "email")
}

func (c *InstrumentedCustomerCache) EvictByDocumentNumber(ctx context.Context, documentNumber string) {
	c.next.EvictByDocumentNumber(ctx, documentNumber)
	c.metrics.RecordCacheEviction(ctx, "document")
}

func (c *InstrumentedCustomerCache) EvictAll(ctx context.Context) {
	c.next.EvictAll(ctx)
	c.metrics.RecordCacheEviction(ctx, "all")
}

var _ customer.CustomerCache = (*InstrumentedCustomerCache)(nil)
