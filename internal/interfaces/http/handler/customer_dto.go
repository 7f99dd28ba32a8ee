package handler

import (
	"strings"
	"time"

	"github.com/banking/customer-service/internal/domain/customer"
)

// dateLayout is the wire format of date_of_birth
const dateLayout = "2006-01-02"

// CreateCustomerRequest is the body of POST /customers. CustomerType selects
// which of the personal or business field groups is read.
type CreateCustomerRequest struct {
	CustomerType   string `json:"customer_type" binding:"required,customer_type"`
	DocumentType   string `json:"document_type" binding:"omitempty,document_type"`
	DocumentNumber string `json:"document_number" binding:"required,max=20"`
	Email          string `json:"email" binding:"required,email,max=255"`
	PhoneNumber    string `json:"phone_number" binding:"omitempty,max=20"`
	Address        string `json:"address" binding:"omitempty,max=500"`

	// personal
	FirstName       string `json:"first_name" binding:"omitempty,max=100"`
	LastName        string `json:"last_name" binding:"omitempty,max=100"`
	DateOfBirth     string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	PersonalProfile string `json:"personal_profile" binding:"omitempty,profile_type"`

	// business
	BusinessName      string                    `json:"business_name" binding:"omitempty,max=200"`
	BusinessType      string                    `json:"business_type" binding:"omitempty,oneof=SAC SRL SA EIRL"`
	TaxID             string                    `json:"tax_id" binding:"omitempty,max=11"`
	BusinessProfile   string                    `json:"business_profile" binding:"omitempty,profile_type"`
	AuthorizedSigners []AuthorizedSignerRequest `json:"authorized_signers" binding:"omitempty,dive"`
}

// ToDomain builds the customer variant named by CustomerType
func (r CreateCustomerRequest) ToDomain() customer.Customer {
	base := customer.BaseCustomer{
		CustomerType:   customer.CustomerType(strings.ToUpper(r.CustomerType)),
		DocumentType:   customer.DocumentType(strings.ToUpper(r.DocumentType)),
		DocumentNumber: r.DocumentNumber,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		Address:        r.Address,
	}

	if base.CustomerType == customer.CustomerTypeBusiness {
		signers := make([]customer.AuthorizedSigner, 0, len(r.AuthorizedSigners))
		for _, s := range r.AuthorizedSigners {
			signers = append(signers, s.ToDomain())
		}
		return &customer.BusinessCustomer{
			BaseCustomer:      base,
			BusinessName:      r.BusinessName,
			BusinessType:      customer.BusinessType(r.BusinessType),
			TaxID:             r.TaxID,
			BusinessProfile:   customer.BusinessProfile(strings.ToUpper(r.BusinessProfile)),
			AuthorizedSigners: signers,
		}
	}

	p := &customer.PersonalCustomer{
		BaseCustomer:    base,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Gender:          customer.Gender(r.Gender),
		PersonalProfile: customer.PersonalProfile(strings.ToUpper(r.PersonalProfile)),
	}
	// binding has already checked the layout
	if dob, err := time.Parse(dateLayout, r.DateOfBirth); err == nil {
		p.DateOfBirth = dob
	}
	return p
}

// UpdateCustomerRequest is the body of PATCH /customers/:id.
// Omitted fields are left untouched.
type UpdateCustomerRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
}

// UpdateProfileRequest is the body of PATCH /customers/:id/profile
type UpdateProfileRequest struct {
	ProfileType string `json:"profile_type" binding:"required"`
}

// AuthorizedSignerRequest is a signer in a create request or the body of
// POST /customers/:id/signers
type AuthorizedSignerRequest struct {
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	DocumentType   string `json:"document_type" binding:"required,document_type"`
	DocumentNumber string `json:"document_number" binding:"required,max=20"`
	Role           string `json:"role" binding:"required,oneof=TITULAR AUTHORIZED"`
}

// ToDomain converts the request into a signer value
func (r AuthorizedSignerRequest) ToDomain() customer.AuthorizedSigner {
	return customer.AuthorizedSigner{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DocumentType:   customer.DocumentType(strings.ToUpper(r.DocumentType)),
		DocumentNumber: r.DocumentNumber,
		Role:           customer.SignerRole(r.Role),
	}
}

// CustomerResponse is the wire form of either customer variant.
// Fields of the other variant are omitted.
type CustomerResponse struct {
	ID             string    `json:"id"`
	CustomerType   string    `json:"customer_type"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Address        string    `json:"address,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Gender          string `json:"gender,omitempty"`
	PersonalProfile string `json:"personal_profile,omitempty"`

	BusinessName      string                       `json:"business_name,omitempty"`
	BusinessType      string                       `json:"business_type,omitempty"`
	TaxID             string                       `json:"tax_id,omitempty"`
	BusinessProfile   string                       `json:"business_profile,omitempty"`
	AuthorizedSigners *[]customer.AuthorizedSigner `json:"authorized_signers,omitempty"`
}

// ToCustomerResponse converts a domain customer to its wire form
func ToCustomerResponse(c customer.Customer) CustomerResponse {
	b := c.Base()
	resp := CustomerResponse{
		ID:             b.ID.String(),
		CustomerType:   string(b.CustomerType),
		DocumentType:   string(b.DocumentType),
		DocumentNumber: b.DocumentNumber,
		Email:          b.Email,
		PhoneNumber:    b.PhoneNumber,
		Address:        b.Address,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}

	switch v := c.(type) {
	case *customer.PersonalCustomer:
		resp.FirstName = v.FirstName
		resp.LastName = v.LastName
		if !v.DateOfBirth.IsZero() {
			resp.DateOfBirth = v.DateOfBirth.Format(dateLayout)
		}
		resp.Gender = string(v.Gender)
		resp.PersonalProfile = string(v.PersonalProfile)
	case *customer.BusinessCustomer:
		resp.BusinessName = v.BusinessName
		resp.BusinessType = string(v.BusinessType)
		resp.TaxID = v.TaxID
		resp.BusinessProfile = string(v.BusinessProfile)
		signers := v.AuthorizedSigners
		if signers == nil {
			signers = []customer.AuthorizedSigner{}
		}
		resp.AuthorizedSigners = &signers
	}
	return resp
}

// ToCustomerResponses converts a page of customers
func ToCustomerResponses(items []customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ToCustomerResponse(c))
	}
	return out
}
