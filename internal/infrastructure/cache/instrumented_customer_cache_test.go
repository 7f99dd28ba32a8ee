package cache

import (
	"context"
	"testing"
	"time"

	"github.com/banking/customer-service/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) map[attribute.Distinct]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[attribute.Distinct]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				out[dp.Attributes.Equivalent()] = dp.Value
			}
		}
	}
	return out
}

func attrs(kv ...attribute.KeyValue) attribute.Distinct {
	s := attribute.NewSet(kv...)
	return s.Equivalent()
}

func TestInstrumentedCustomerCache(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewCustomerMetrics(telemetry.CustomerMetricsConfig{Meter: provider.Meter("test")})
	require.NoError(t, err)

	local := NewLocalCustomerCache(DefaultLocalConfig(), nil)
	c := NewInstrumentedCustomerCache(local, metrics)
	cust := newCachedPersonal()

	c.Save(ctx, cust, time.Minute)
	_, ok := c.FindByID(ctx, cust.ID)
	require.True(t, ok)
	_, ok = c.FindByEmail(ctx, "missing@x.com")
	require.False(t, ok)
	_, ok = c.FindByDocumentNumber(ctx, cust.DocumentNumber)
	require.True(t, ok)
	_, ok = c.FindByID(ctx, uuid.New())
	require.False(t, ok)
	c.Evict(ctx, cust.ID)
	c.EvictByEmail(ctx, cust.Email)
	c.EvictByDocumentNumber(ctx, cust.DocumentNumber)
	c.EvictAll(ctx)

	lookups := collectSum(t, reader, "customer_cache_lookups_total")
	assert.Equal(t, int64(1), lookups[attrs(telemetry.AttrCacheKey.String("id"), telemetry.AttrCacheOutcome.String("hit"))])
	assert.Equal(t, int64(1), lookups[attrs(telemetry.AttrCacheKey.String("id"), telemetry.AttrCacheOutcome.String("miss"))])
	assert.Equal(t, int64(1), lookups[attrs(telemetry.AttrCacheKey.String("email"), telemetry.AttrCacheOutcome.String("miss"))])
	assert.Equal(t, int64(1), lookups[attrs(telemetry.AttrCacheKey.String("document"), telemetry.AttrCacheOutcome.String("hit"))])

	writes := collectSum(t, reader, "customer_cache_writes_total")
	assert.Equal(t, int64(1), writes[attrs()])

	evictions := collectSum(t, reader, "customer_cache_evictions_total")
	for _, key := range []string{"id", "email", "document", "all"} {
		assert.Equal(t, int64(1), evictions[attrs(telemetry.AttrCacheKey.String(key))], key)
	}
}

func TestNewInstrumentedCustomerCache_NilMetrics(t *testing.T) {
	local := NewLocalCustomerCache(DefaultLocalConfig(), nil)

	c := NewInstrumentedCustomerCache(local, nil)

	assert.Same(t, local, c)
}
