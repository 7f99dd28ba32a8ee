package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CacheOutcome labels the result of a cache lookup
type CacheOutcome string

const (
	CacheOutcomeHit  CacheOutcome = "hit"
	CacheOutcomeMiss CacheOutcome = "miss"
)

// CustomerMetrics records customer lifecycle and cache metrics.
type CustomerMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	customersCreatedTotal *Counter
	profileChangesTotal   *Counter
	customersDeletedTotal *Counter

	cacheLookupsTotal *Counter
	cacheWritesTotal  *Counter
	cacheEvictsTotal  *Counter
	cacheLatency      *Histogram
}

// CustomerMetricsConfig holds configuration for customer metrics.
type CustomerMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewCustomerMetrics creates a new CustomerMetrics instance.
func NewCustomerMetrics(cfg CustomerMetricsConfig) (*CustomerMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CustomerMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	cm.customersCreatedTotal, err = NewCounter(cfg.Meter,
		"customer_created_total",
		"Total number of customers created",
		"{customers}")
	if err != nil {
		return nil, err
	}

	cm.profileChangesTotal, err = NewCounter(cfg.Meter,
		"customer_profile_changes_total",
		"Total number of profile tier changes",
		"{changes}")
	if err != nil {
		return nil, err
	}

	cm.customersDeletedTotal, err = NewCounter(cfg.Meter,
		"customer_deleted_total",
		"Total number of customers soft-deleted",
		"{customers}")
	if err != nil {
		return nil, err
	}

	cm.cacheLookupsTotal, err = NewCounter(cfg.Meter,
		"customer_cache_lookups_total",
		"Customer cache lookups by key and outcome",
		"{lookups}")
	if err != nil {
		return nil, err
	}

	cm.cacheWritesTotal, err = NewCounter(cfg.Meter,
		"customer_cache_writes_total",
		"Customer snapshots written to the cache",
		"{writes}")
	if err != nil {
		return nil, err
	}

	cm.cacheEvictsTotal, err = NewCounter(cfg.Meter,
		"customer_cache_evictions_total",
		"Customer cache evictions by key",
		"{evictions}")
	if err != nil {
		return nil, err
	}

	cm.cacheLatency, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "customer_cache_operation_duration_seconds",
		Description: "Latency of customer cache operations",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return cm, nil
}

// RecordCustomerCreated counts a created customer by type
func (cm *CustomerMetrics) RecordCustomerCreated(ctx context.Context, customerType string) {
	cm.customersCreatedTotal.Inc(ctx, AttrCustomerType.String(customerType))
}

// RecordProfileChange counts a profile transition
func (cm *CustomerMetrics) RecordProfileChange(ctx context.Context, oldProfile, newProfile string) {
	cm.profileChangesTotal.Inc(ctx,
		AttrOldProfile.String(oldProfile),
		AttrNewProfile.String(newProfile),
	)
}

// RecordCustomerDeleted counts a soft delete
func (cm *CustomerMetrics) RecordCustomerDeleted(ctx context.Context) {
	cm.customersDeletedTotal.Inc(ctx)
}

// RecordCacheLookup records a lookup outcome and its latency
func (cm *CustomerMetrics) RecordCacheLookup(ctx context.Context, key string, outcome CacheOutcome, d time.Duration) {
	cm.cacheLookupsTotal.Inc(ctx,
		AttrCacheKey.String(key),
		AttrCacheOutcome.String(string(outcome)),
	)
	cm.cacheLatency.RecordDuration(ctx, d,
		AttrCacheOperation.String("get"),
		AttrCacheKey.String(key),
	)
}

// RecordCacheWrite records a three-key snapshot write
func (cm *CustomerMetrics) RecordCacheWrite(ctx context.Context, d time.Duration) {
	cm.cacheWritesTotal.Inc(ctx)
	cm.cacheLatency.RecordDuration(ctx, d, AttrCacheOperation.String("set"))
}

// RecordCacheEviction records an eviction of one key kind, or "all"
func (cm *CustomerMetrics) RecordCacheEviction(ctx context.Context, key string) {
	cm.cacheEvictsTotal.Inc(ctx, AttrCacheKey.String(key))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewCustomerMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
