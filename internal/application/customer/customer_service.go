package customer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/banking/customer-service/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const serviceName = "customer"

// CustomerService orchestrates the customer use cases over the durable store
// and the cache. The store is authoritative; the cache is populated lazily on
// reads and refreshed after every write.
type CustomerService struct {
	repo      customer.CustomerRepository
	cache     customer.CustomerCache
	publisher shared.EventPublisher
	metrics   *telemetry.CustomerMetrics
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// Option configures a CustomerService
type Option func(*CustomerService)

// WithCacheTTL overrides the cache entry lifetime
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *CustomerService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithEventPublisher sets the publisher for customer domain events
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *CustomerService) {
		s.publisher = publisher
	}
}

// WithMetrics sets the recorder for customer metrics
func WithMetrics(metrics *telemetry.CustomerMetrics) Option {
	return func(s *CustomerService) {
		s.metrics = metrics
	}
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	repo customer.CustomerRepository,
	cache customer.CustomerCache,
	logger *zap.Logger,
	opts ...Option,
) *CustomerService {
	s := &CustomerService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cacheTTL: customer.DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// identity is the set of cache keys a customer snapshot is stored under
type identity struct {
	id             uuid.UUID
	email          string
	documentNumber string
}

func identityOf(c customer.Customer) identity {
	b := c.Base()
	return identity{id: b.ID, email: b.Email, documentNumber: b.DocumentNumber}
}

// Create validates and stores a new customer, then caches it
func (s *CustomerService) Create(ctx context.Context, c customer.Customer) (_ customer.Customer, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "create")
	defer func() { endSpan(span, err) }()

	if c == nil {
		return nil, shared.NewValidationError("Customer payload is required")
	}

	c.InitializeDefaults()
	b := c.Base()
	now := time.Now()
	b.ID = uuid.Nil
	b.Status = customer.CustomerStatusActive
	b.CreatedAt = now
	b.UpdatedAt = now

	s.logger.Info("Creating customer", zap.String("customer_type", string(b.CustomerType)))

	if err := c.Validate(); err != nil {
		s.logger.Warn("Customer validation failed", zap.Error(err))
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, b.Email)
	if err != nil {
		return nil, s.storeError("check email uniqueness", err)
	}
	if exists {
		s.logger.Warn("Email already registered", zap.String("email", b.Email))
		return nil, shared.NewDuplicateError(fmt.Sprintf("Customer with email %s already exists", b.Email))
	}

	exists, err = s.repo.ExistsByDocumentNumber(ctx, b.DocumentNumber)
	if err != nil {
		return nil, s.storeError("check document uniqueness", err)
	}
	if exists {
		s.logger.Warn("Document number already registered", zap.String("document_number", b.DocumentNumber))
		return nil, shared.NewDuplicateError(fmt.Sprintf("Customer with document number %s already exists", b.DocumentNumber))
	}

	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return nil, s.storeError("save customer", err)
	}

	s.cache.Save(ctx, saved, s.cacheTTL)
	s.publish(ctx, customer.NewCustomerCreatedEvent(saved))
	if s.metrics != nil {
		s.metrics.RecordCustomerCreated(ctx, string(saved.Base().CustomerType))
	}
	span.SetAttributes(telemetry.SpanAttrCustomerID.String(saved.Base().ID.String()))

	s.logger.Info("Customer created", zap.String("id", saved.Base().ID.String()))
	return saved, nil
}

// FindByID returns the customer with the given id
func (s *CustomerService) FindByID(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	return s.readThrough(ctx, "id", id.String(),
		func() (customer.Customer, bool) { return s.cache.FindByID(ctx, id) },
		func() (customer.Customer, error) { return s.repo.FindByID(ctx, id) },
	)
}

// FindByEmail returns the customer with the given email
func (s *CustomerService) FindByEmail(ctx context.Context, email string) (customer.Customer, error) {
	return s.readThrough(ctx, "email", email,
		func() (customer.Customer, bool) { return s.cache.FindByEmail(ctx, email) },
		func() (customer.Customer, error) { return s.repo.FindByEmail(ctx, email) },
	)
}

// FindByDocumentNumber returns the customer with the given document number
func (s *CustomerService) FindByDocumentNumber(ctx context.Context, documentNumber string) (customer.Customer, error) {
	return s.readThrough(ctx, "document", documentNumber,
		func() (customer.Customer, bool) { return s.cache.FindByDocumentNumber(ctx, documentNumber) },
		func() (customer.Customer, error) { return s.repo.FindByDocumentNumber(ctx, documentNumber) },
	)
}

// readThrough serves a lookup from the cache, falling back to the store and
// populating the cache on a store hit
func (s *CustomerService) readThrough(
	ctx context.Context,
	keyName, key string,
	fromCache func() (customer.Customer, bool),
	fromStore func() (customer.Customer, error),
) (customer.Customer, error) {
	if c, ok := fromCache(); ok {
		s.logger.Debug("Customer served from cache", zap.String(keyName, key))
		return c, nil
	}

	c, err := fromStore()
	if err != nil {
		return nil, s.storeError("find customer by "+keyName, err)
	}
	if c == nil {
		s.logger.Warn("Customer not found", zap.String(keyName, key))
		return nil, shared.NewNotFoundError(fmt.Sprintf("Customer not found with %s: %s", keyName, key))
	}

	s.cache.Save(ctx, c, s.cacheTTL)
	return c, nil
}

// FindAll returns one zero-based page of customers straight from the store
func (s *CustomerService) FindAll(ctx context.Context, page, size int) (shared.Paginated[customer.Customer], error) {
	if page < 0 {
		return shared.Paginated[customer.Customer]{}, shared.NewValidationError("Page must be greater than or equal to 0")
	}
	if size <= 0 {
		return shared.Paginated[customer.Customer]{}, shared.NewValidationError("Size must be greater than 0")
	}
	if page > math.MaxInt/size {
		return shared.Paginated[customer.Customer]{}, shared.NewValidationError("Page is out of range")
	}

	s.logger.Info("Listing customers", zap.Int("page", page), zap.Int("size", size))

	items, err := s.repo.FindAll(ctx, page, size)
	if err != nil {
		return shared.Paginated[customer.Customer]{}, s.storeError("list customers", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return shared.Paginated[customer.Customer]{}, s.storeError("count customers", err)
	}
	return shared.NewPaginated(items, total, page, size), nil
}

// Update applies a partial update of email, phone and address
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, in UpdateCustomerInput) (_ customer.Customer, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "update",
		telemetry.SpanAttrCustomerID.String(id.String()))
	defer func() { endSpan(span, err) }()

	s.logger.Info("Updating customer", zap.String("id", id.String()))

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Email is itself a cache key, so the old keys must be captured before mutating.
	previous := identityOf(c)

	b := c.Base()
	if in.Email != nil {
		b.SetEmail(*in.Email)
	}
	if in.PhoneNumber != nil {
		b.SetPhoneNumber(*in.PhoneNumber)
	}
	if in.Address != nil {
		b.SetAddress(*in.Address)
	}
	b.Touch()

	if err := c.Validate(); err != nil {
		s.logger.Warn("Customer update rejected", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return nil, s.storeError("save customer", err)
	}

	s.refreshCache(ctx, previous, saved)
	s.publish(ctx, customer.NewCustomerUpdatedEvent(saved))

	s.logger.Info("Customer updated", zap.String("id", id.String()))
	return saved, nil
}

// UpdateProfile moves the customer to the VIP, PYME or STANDARD tier.
// VIP is reserved for personal customers and PYME for business customers.
func (s *CustomerService) UpdateProfile(ctx context.Context, id uuid.UUID, profileType string) (_ customer.Customer, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "update_profile",
		telemetry.SpanAttrCustomerID.String(id.String()),
		telemetry.SpanAttrProfileType.String(profileType))
	defer func() { endSpan(span, err) }()

	s.logger.Info("Updating customer profile",
		zap.String("id", id.String()),
		zap.String("profile_type", profileType))

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := identityOf(c)
	oldProfile := c.ProfileName()

	if err := applyProfile(c, profileType); err != nil {
		s.logger.Warn("Profile update rejected",
			zap.String("id", id.String()),
			zap.String("profile_type", profileType),
			zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return nil, s.storeError("save customer", err)
	}

	s.refreshCache(ctx, previous, saved)
	s.publish(ctx, customer.NewCustomerProfileUpdatedEvent(saved, oldProfile))
	if s.metrics != nil {
		s.metrics.RecordProfileChange(ctx, oldProfile, saved.ProfileName())
	}

	s.logger.Info("Customer profile updated",
		zap.String("id", id.String()),
		zap.String("old_profile", oldProfile),
		zap.String("new_profile", saved.ProfileName()))
	return saved, nil
}

func applyProfile(c customer.Customer, profileType string) error {
	switch {
	case strings.EqualFold(profileType, ProfileVIP):
		personal, ok := c.(*customer.PersonalCustomer)
		if !ok {
			return shared.NewValidationError("Only PERSONAL customers can have VIP profile")
		}
		personal.UpgradeToVip()
	case strings.EqualFold(profileType, ProfilePyme):
		business, ok := c.(*customer.BusinessCustomer)
		if !ok {
			return shared.NewValidationError("Only BUSINESS customers can have PYME profile")
		}
		business.UpgradeToPyme()
	case strings.EqualFold(profileType, ProfileStandard):
		c.DowngradeToStandard()
	default:
		return shared.NewIllegalProfileError("Invalid profile type: " + profileType)
	}
	return nil
}

// Delete soft-deletes the customer by marking it INACTIVE
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "delete",
		telemetry.SpanAttrCustomerID.String(id.String()))
	defer func() { endSpan(span, err) }()

	s.logger.Info("Deleting customer", zap.String("id", id.String()))

	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	c.Base().Deactivate()

	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return s.storeError("save customer", err)
	}

	s.evict(ctx, identityOf(saved))
	s.publish(ctx, customer.NewCustomerDeletedEvent(saved))
	if s.metrics != nil {
		s.metrics.RecordCustomerDeleted(ctx)
	}

	s.logger.Info("Customer deleted", zap.String("id", id.String()))
	return nil
}

// AddAuthorizedSigner appends a signer to a business customer
func (s *CustomerService) AddAuthorizedSigner(ctx context.Context, id uuid.UUID, signer customer.AuthorizedSigner) (customer.Customer, error) {
	business, previous, err := s.loadBusiness(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := business.AddAuthorizedSigner(signer); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, business)
	if err != nil {
		return nil, s.storeError("save customer", err)
	}

	s.refreshCache(ctx, previous, saved)
	s.publish(ctx, customer.NewSignerAddedEvent(saved, signer.DocumentNumber))
	return saved, nil
}

// RemoveAuthorizedSigner removes a signer from a business customer
func (s *CustomerService) RemoveAuthorizedSigner(ctx context.Context, id uuid.UUID, documentNumber string) (customer.Customer, error) {
	business, previous, err := s.loadBusiness(ctx, id)
	if err != nil {
		return nil, err
	}

	if !business.RemoveAuthorizedSigner(documentNumber) {
		return nil, shared.NewNotFoundError(fmt.Sprintf("Signer not found with document: %s", documentNumber))
	}

	saved, err := s.repo.Save(ctx, business)
	if err != nil {
		return nil, s.storeError("save customer", err)
	}

	s.refreshCache(ctx, previous, saved)
	s.publish(ctx, customer.NewSignerRemovedEvent(saved, documentNumber))
	return saved, nil
}

// EvictAll drops every cached customer
func (s *CustomerService) EvictAll(ctx context.Context) {
	s.logger.Warn("Evicting all customers from cache")
	s.cache.EvictAll(ctx)
}

// load reads the authoritative copy of a customer for a write, bypassing the
// cache. Soft-deleted customers stay readable but are not found for writes.
func (s *CustomerService) load(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError("find customer by id", err)
	}
	if c == nil || c.Base().Status == customer.CustomerStatusInactive {
		return nil, shared.NewNotFoundError(fmt.Sprintf("Customer not found with id: %s", id))
	}
	return c, nil
}

func (s *CustomerService) loadBusiness(ctx context.Context, id uuid.UUID) (*customer.BusinessCustomer, identity, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, identity{}, err
	}
	business, ok := c.(*customer.BusinessCustomer)
	if !ok {
		return nil, identity{}, shared.NewValidationError("Authorized signers are only supported for BUSINESS customers")
	}
	return business, identityOf(c), nil
}

// refreshCache evicts the keys of the previous snapshot and caches the new one
func (s *CustomerService) refreshCache(ctx context.Context, previous identity, saved customer.Customer) {
	s.evict(ctx, previous)
	s.cache.Save(ctx, saved, s.cacheTTL)
}

// evict drops the three keys concurrently and returns once all have finished.
// A failed eviction leaves that key stale until its TTL expires.
func (s *CustomerService) evict(ctx context.Context, keys identity) {
	var wg sync.WaitGroup
	wg.Go(func() { s.cache.Evict(ctx, keys.id) })
	wg.Go(func() { s.cache.EvictByEmail(ctx, keys.email) })
	wg.Go(func() { s.cache.EvictByDocumentNumber(ctx, keys.documentNumber) })
	wg.Wait()
}

// endSpan records a failed operation on the span and closes it
func endSpan(span trace.Span, err error) {
	telemetry.RecordError(span, err)
	span.End()
}

func (s *CustomerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish customer events", zap.Error(err))
	}
}

// storeError passes domain errors through and wraps anything else as a
// transient store failure
func (s *CustomerService) storeError(op string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if errors.Is(err, shared.ErrTransientStore) {
			s.logger.Error("Customer store failure", zap.String("operation", op), zap.Error(err))
		}
		return err
	}
	s.logger.Error("Customer store failure", zap.String("operation", op), zap.Error(err))
	return shared.NewTransientStoreError("Customer store unavailable: "+op, err)
}
