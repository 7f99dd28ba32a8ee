package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
)

// CustomerModel is the single-table persistence model for both customer
// variants. CustomerType selects which column group is populated.
type CustomerModel struct {
	BaseModel
	CustomerType   customer.CustomerType   `gorm:"type:varchar(20);not null"`
	DocumentType   customer.DocumentType   `gorm:"type:varchar(20);not null"`
	DocumentNumber string                  `gorm:"type:varchar(20);not null;uniqueIndex:idx_customers_document_number"`
	Email          string                  `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email"`
	PhoneNumber    string                  `gorm:"type:varchar(20)"`
	Address        string                  `gorm:"type:text"`
	Status         customer.CustomerStatus `gorm:"type:varchar(20);not null;index:idx_customers_status"`

	// personal columns
	FirstName       *string    `gorm:"type:varchar(100)"`
	LastName        *string    `gorm:"type:varchar(100)"`
	DateOfBirth     *time.Time `gorm:"type:date"`
	Gender          *string    `gorm:"type:varchar(10)"`
	PersonalProfile *string    `gorm:"type:varchar(20)"`

	// business columns
	BusinessName      *string `gorm:"type:varchar(200)"`
	BusinessType      *string `gorm:"type:varchar(10)"`
	TaxID             *string `gorm:"column:tax_id;type:varchar(11)"`
	BusinessProfile   *string `gorm:"type:varchar(20)"`
	AuthorizedSigners *string `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the row to the variant named by its discriminator
func (m *CustomerModel) ToDomain() (customer.Customer, error) {
	base := customer.BaseCustomer{
		BaseEntity:     m.BaseModel.ToDomain(),
		CustomerType:   m.CustomerType,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		Email:          m.Email,
		PhoneNumber:    m.PhoneNumber,
		Address:        m.Address,
		Status:         m.Status,
	}

	switch m.CustomerType {
	case customer.CustomerTypePersonal:
		p := &customer.PersonalCustomer{
			BaseCustomer:    base,
			FirstName:       deref(m.FirstName),
			LastName:        deref(m.LastName),
			Gender:          customer.Gender(deref(m.Gender)),
			PersonalProfile: customer.PersonalProfile(deref(m.PersonalProfile)),
		}
		if m.DateOfBirth != nil {
			p.DateOfBirth = *m.DateOfBirth
		}
		return p, nil

	case customer.CustomerTypeBusiness:
		b := &customer.BusinessCustomer{
			BaseCustomer:      base,
			BusinessName:      deref(m.BusinessName),
			BusinessType:      customer.BusinessType(deref(m.BusinessType)),
			TaxID:             deref(m.TaxID),
			BusinessProfile:   customer.BusinessProfile(deref(m.BusinessProfile)),
			AuthorizedSigners: []customer.AuthorizedSigner{},
		}
		if raw := deref(m.AuthorizedSigners); raw != "" {
			if err := json.Unmarshal([]byte(raw), &b.AuthorizedSigners); err != nil {
				return nil, fmt.Errorf("failed to decode authorized signers of customer %s: %w", m.ID, err)
			}
		}
		return b, nil

	default:
		return nil, fmt.Errorf("customer %s has unknown customer_type %q", m.ID, m.CustomerType)
	}
}

// FromDomain populates the model from either customer variant
func (m *CustomerModel) FromDomain(c customer.Customer) error {
	b := c.Base()
	m.FromDomainBaseEntity(b.BaseEntity)
	m.CustomerType = b.CustomerType
	m.DocumentType = b.DocumentType
	m.DocumentNumber = b.DocumentNumber
	m.Email = b.Email
	m.PhoneNumber = b.PhoneNumber
	m.Address = b.Address
	m.Status = b.Status

	switch v := c.(type) {
	case *customer.PersonalCustomer:
		dob := v.DateOfBirth
		m.FirstName = ptr(v.FirstName)
		m.LastName = ptr(v.LastName)
		m.DateOfBirth = &dob
		m.Gender = optional(string(v.Gender))
		m.PersonalProfile = ptr(string(v.PersonalProfile))

	case *customer.BusinessCustomer:
		signers := v.AuthorizedSigners
		if signers == nil {
			signers = []customer.AuthorizedSigner{}
		}
		data, err := json.Marshal(signers)
		if err != nil {
			return fmt.Errorf("failed to encode authorized signers: %w", err)
		}
		m.BusinessName = ptr(v.BusinessName)
		m.BusinessType = ptr(string(v.BusinessType))
		m.TaxID = ptr(v.TaxID)
		m.BusinessProfile = ptr(string(v.BusinessProfile))
		m.AuthorizedSigners = ptr(string(data))

	default:
		return fmt.Errorf("unsupported customer variant %T", c)
	}
	return nil
}

// CustomerModelFromDomain creates a new persistence model from a domain customer
func CustomerModelFromDomain(c customer.Customer) (*CustomerModel, error) {
	m := &CustomerModel{}
	if err := m.FromDomain(c); err != nil {
		return nil, err
	}
	return m, nil
}

func ptr(s string) *string {
	return &s
}

// optional maps the empty string to NULL
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
