package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/banking/customer-service/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save inserts a new customer or updates an existing one. A nil id is
// replaced with a fresh UUID before insert. The input is never modified.
func (r *GormCustomerRepository) Save(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	if c == nil {
		return nil, shared.NewValidationError("Customer payload is required")
	}

	model, err := models.CustomerModelFromDomain(c)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		return nil, r.translate("save customer", c, err)
	}

	return model.ToDomain()
}

// FindByID returns the customer with the given id, or nil when absent
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	return r.findOne(ctx, "find customer by id", "id = ?", id)
}

// FindByEmail returns the customer with the given email, or nil when absent
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (customer.Customer, error) {
	return r.findOne(ctx, "find customer by email", "email = ?", email)
}

// FindByDocumentNumber returns the customer with the given document, or nil when absent
func (r *GormCustomerRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (customer.Customer, error) {
	return r.findOne(ctx, "find customer by document number", "document_number = ?", documentNumber)
}

func (r *GormCustomerRepository) findOne(ctx context.Context, op, query string, arg any) (customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, shared.NewTransientStoreError("Customer store unavailable: "+op, err)
	}
	return model.ToDomain()
}

// FindAll returns one zero-based page ordered by creation time, then id
func (r *GormCustomerRepository) FindAll(ctx context.Context, page, size int) ([]customer.Customer, error) {
	if page < 0 || size <= 0 {
		return nil, shared.NewValidationError("Page must be >= 0 and size must be > 0")
	}
	// page*size must not wrap; gorm drops a non-positive OFFSET
	if page > math.MaxInt/size {
		return nil, shared.NewValidationError("Page is out of range")
	}

	var rows []models.CustomerModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset(page * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, shared.NewTransientStoreError("Customer store unavailable: list customers", err)
	}

	customers := make([]customer.Customer, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// Count returns the number of stored customers in any status
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&n).Error; err != nil {
		return 0, shared.NewTransientStoreError("Customer store unavailable: count customers", err)
	}
	return n, nil
}

// ExistsByEmail reports whether any customer uses the email
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "check email uniqueness", "email = ?", email)
}

// ExistsByDocumentNumber reports whether any customer uses the document number
func (r *GormCustomerRepository) ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error) {
	return r.exists(ctx, "check document uniqueness", "document_number = ?", documentNumber)
}

func (r *GormCustomerRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, shared.NewTransientStoreError("Customer store unavailable: "+op, err)
	}
	return n > 0, nil
}

// translate maps unique violations to DuplicateError and everything else to
// TransientStoreError
func (r *GormCustomerRepository) translate(op string, c customer.Customer, err error) error {
	if !isUniqueViolation(err) {
		return shared.NewTransientStoreError("Customer store unavailable: "+op, err)
	}
	b := c.Base()
	switch violatedConstraint(err) {
	case constraintDocument:
		return shared.NewDuplicateError(fmt.Sprintf("Customer with document number %s already exists", b.DocumentNumber))
	case constraintEmail:
		return shared.NewDuplicateError(fmt.Sprintf("Customer with email %s already exists", b.Email))
	default:
		return shared.NewDuplicateError("Customer with the same email or document number already exists")
	}
}

var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)
