package cache

import (
	"context"
	"testing"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalCache(t *testing.T) (*LocalCustomerCache, *time.Time) {
	t.Helper()
	c := NewLocalCustomerCache(DefaultLocalConfig(), nil)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestLocalCustomerCache_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestLocalCache(t)
	cust := newCachedPersonal()

	c.Save(ctx, cust, time.Minute)
	assert.Equal(t, 3, c.Size())

	byID, ok := c.FindByID(ctx, cust.ID)
	require.True(t, ok)
	assert.Equal(t, cust.ID, byID.Base().ID)

	byEmail, ok := c.FindByEmail(ctx, cust.Email)
	require.True(t, ok)
	assert.Equal(t, cust.ID, byEmail.Base().ID)

	byDoc, ok := c.FindByDocumentNumber(ctx, cust.DocumentNumber)
	require.True(t, ok)
	assert.Equal(t, cust.ID, byDoc.Base().ID)

	_, ok = c.FindByID(ctx, uuid.New())
	assert.False(t, ok)
}

func TestLocalCustomerCache_Isolation(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestLocalCache(t)
	cust := newCachedBusiness()
	c.Save(ctx, cust, time.Minute)

	t.Run("mutating the saved aggregate does not change the snapshot", func(t *testing.T) {
		cust.BusinessName = "Changed"
		cust.AuthorizedSigners[0].FirstName = "Changed"

		got, ok := c.FindByID(ctx, cust.ID)
		require.True(t, ok)
		b := got.(*customer.BusinessCustomer)
		assert.Equal(t, "Acme SAC", b.BusinessName)
		assert.Equal(t, "Ana", b.AuthorizedSigners[0].FirstName)
	})

	t.Run("mutating a returned snapshot does not change the cache", func(t *testing.T) {
		got, _ := c.FindByID(ctx, cust.ID)
		got.Base().Email = "other@acme.pe"

		again, ok := c.FindByID(ctx, cust.ID)
		require.True(t, ok)
		assert.Equal(t, "contacto@acme.pe", again.Base().Email)
	})
}

func TestLocalCustomerCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, now := newTestLocalCache(t)
	cust := newCachedPersonal()
	c.Save(ctx, cust, 5*time.Minute)

	*now = now.Add(4 * time.Minute)
	_, ok := c.FindByID(ctx, cust.ID)
	assert.True(t, ok)

	*now = now.Add(time.Minute)
	_, ok = c.FindByID(ctx, cust.ID)
	assert.False(t, ok)
	_, ok = c.FindByEmail(ctx, cust.Email)
	assert.False(t, ok)
}

func TestLocalCustomerCache_Evict(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestLocalCache(t)
	cust := newCachedPersonal()
	c.Save(ctx, cust, time.Minute)

	c.Evict(ctx, cust.ID)
	_, ok := c.FindByID(ctx, cust.ID)
	assert.False(t, ok)
	_, ok = c.FindByEmail(ctx, cust.Email)
	assert.True(t, ok, "other keys survive a single-key eviction")

	c.EvictByEmail(ctx, cust.Email)
	c.EvictByDocumentNumber(ctx, cust.DocumentNumber)
	assert.Equal(t, 0, c.Size())
}

func TestLocalCustomerCache_EvictAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestLocalCache(t)
	c.Save(ctx, newCachedPersonal(), time.Minute)
	c.Save(ctx, newCachedBusiness(), time.Minute)
	require.Equal(t, 6, c.Size())

	c.EvictAll(ctx)

	assert.Equal(t, 0, c.Size())
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
