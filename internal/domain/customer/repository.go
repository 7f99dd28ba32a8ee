package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CustomerRepository defines the durable store for customers.
// Lookups return (nil, nil) when the customer does not exist.
type CustomerRepository interface {
	// Save inserts or updates the customer and returns it with an assigned id.
	// Implementations enforce email and document uniqueness and report
	// violations as shared.ErrAlreadyExists.
	Save(ctx context.Context, customer Customer) (Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (Customer, error)
	FindByEmail(ctx context.Context, email string) (Customer, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (Customer, error)
	// FindAll returns one zero-based page of customers ordered by creation time
	FindAll(ctx context.Context, page, size int) ([]Customer, error)
	Count(ctx context.Context) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error)
}

// DefaultCacheTTL is how long a cached customer snapshot lives
const DefaultCacheTTL = time.Hour

// CustomerCache is a volatile store addressed by id, email and document number.
// Every Save writes the same snapshot under all three keys. Implementations
// absorb and log their own failures; a failed read is reported as a miss.
type CustomerCache interface {
	Save(ctx context.Context, customer Customer, ttl time.Duration)
	FindByID(ctx context.Context, id uuid.UUID) (Customer, bool)
	FindByEmail(ctx context.Context, email string) (Customer, bool)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (Customer, bool)
	Evict(ctx context.Context, id uuid.UUID)
	EvictByEmail(ctx context.Context, email string)
	EvictByDocumentNumber(ctx context.Context, documentNumber string)
	EvictAll(ctx context.Context)
}
