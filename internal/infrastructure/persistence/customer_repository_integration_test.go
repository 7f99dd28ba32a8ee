//go:build integration

package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/banking/customer-service/internal/infrastructure/migration"
	"github.com/banking/customer-service/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresCustomerRepository starts a PostgreSQL container, applies the
// embedded migrations and returns a repository bound to it
func newPostgresCustomerRepository(t *testing.T) *GormCustomerRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("customers_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewFromFS(sqlDB, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return NewGormCustomerRepository(db)
}

func TestGormCustomerRepository_Postgres(t *testing.T) {
	repo := newPostgresCustomerRepository(t)
	ctx := context.Background()

	personal, err := repo.Save(ctx, newPersonal("12345678", "juan@x.com"))
	require.NoError(t, err)
	business, err := repo.Save(ctx, newBusiness("20123456789", "acme@x.com"))
	require.NoError(t, err)

	t.Run("round trips both variants", func(t *testing.T) {
		got, err := repo.FindByID(ctx, personal.Base().ID)
		require.NoError(t, err)
		p, ok := got.(*customer.PersonalCustomer)
		require.True(t, ok)
		assert.Equal(t, "Juan", p.FirstName)
		assert.True(t, p.DateOfBirth.Equal(time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)))

		got, err = repo.FindByDocumentNumber(ctx, "20123456789")
		require.NoError(t, err)
		b, ok := got.(*customer.BusinessCustomer)
		require.True(t, ok)
		assert.Equal(t, business.Base().ID, b.ID)
		assert.Len(t, b.AuthorizedSigners, 2)
	})

	t.Run("absent lookups return nil", func(t *testing.T) {
		got, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unique email names the email", func(t *testing.T) {
		_, err := repo.Save(ctx, newPersonal("87654321", "juan@x.com"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.Contains(t, err.Error(), "email juan@x.com")
	})

	t.Run("unique document names the document", func(t *testing.T) {
		_, err := repo.Save(ctx, newPersonal("12345678", "other@x.com"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.Contains(t, err.Error(), "document number 12345678")
	})

	t.Run("pages in creation order", func(t *testing.T) {
		page, err := repo.FindAll(ctx, 0, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, personal.Base().ID, page[0].Base().ID)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
