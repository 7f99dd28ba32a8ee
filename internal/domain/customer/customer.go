package customer

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/banking/customer-service/internal/domain/shared"
	"golang.org/x/text/unicode/norm"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

// Customer is implemented by the two customer variants.
// Callers dispatch on the concrete type with a type switch.
type Customer interface {
	// Base returns the attributes shared by every variant
	Base() *BaseCustomer
	// Validate checks base fields, then variant required fields, then variant format rules.
	// The first violated rule is reported as a validation error.
	Validate() error
	// InitializeDefaults assigns the discriminator and default profile when absent
	InitializeDefaults()
	// ProfileName returns the current profile tier
	ProfileName() string
	// DowngradeToStandard resets the profile tier
	DowngradeToStandard()
	// Clone returns a deep copy
	Clone() Customer
}

// BaseCustomer holds the attributes shared by personal and business customers
type BaseCustomer struct {
	shared.BaseEntity
	CustomerType   CustomerType   `json:"customer_type"`
	DocumentType   DocumentType   `json:"document_type"`
	DocumentNumber string         `json:"document_number"`
	Email          string         `json:"email"`
	PhoneNumber    string         `json:"phone_number,omitempty"`
	Address        string         `json:"address,omitempty"`
	Status         CustomerStatus `json:"status"`
}

// Base returns the receiver
func (b *BaseCustomer) Base() *BaseCustomer {
	return b
}

// IsActive reports whether the customer is active
func (b *BaseCustomer) IsActive() bool {
	return b.Status == CustomerStatusActive
}

// SetEmail changes the email address
func (b *BaseCustomer) SetEmail(email string) {
	b.Email = email
	b.Touch()
}

// SetPhoneNumber changes the phone number
func (b *BaseCustomer) SetPhoneNumber(phone string) {
	b.PhoneNumber = phone
	b.Touch()
}

// SetAddress changes the postal address
func (b *BaseCustomer) SetAddress(address string) {
	b.Address = address
	b.Touch()
}

// Deactivate soft-deletes the customer
func (b *BaseCustomer) Deactivate() {
	b.Status = CustomerStatusInactive
	b.Touch()
}

// initializeDefaults sets status and timestamps for a newly constructed customer
func (b *BaseCustomer) initializeDefaults() {
	if b.Status == "" {
		b.Status = CustomerStatusActive
	}
	if b.CreatedAt.IsZero() {
		now := time.Now()
		b.CreatedAt = now
		b.UpdatedAt = now
	}
}

// validate checks the shared fields
func (b *BaseCustomer) validate() error {
	if !b.CustomerType.IsValid() {
		return shared.NewValidationError("Customer type is required and must be PERSONAL or BUSINESS")
	}
	if b.DocumentType == "" {
		return shared.NewValidationError("Document type is required")
	}
	if !b.DocumentType.IsValid() {
		return shared.NewValidationError("Document type must be one of DNI, CEX, PASSPORT, RUC")
	}
	if isBlank(b.DocumentNumber) {
		return shared.NewValidationError("Document number is required")
	}
	if isBlank(b.Email) {
		return shared.NewValidationError("Email is required")
	}
	if !emailRegex.MatchString(b.Email) {
		return shared.NewValidationError("Invalid email format")
	}
	if b.PhoneNumber != "" {
		if len(b.PhoneNumber) < 6 || len(b.PhoneNumber) > 20 {
			return shared.NewValidationError("Phone number must be between 6 and 20 characters")
		}
		if !phoneRegex.MatchString(b.PhoneNumber) {
			return shared.NewValidationError("Invalid phone number format")
		}
	}
	if !b.Status.IsValid() {
		return shared.NewValidationError("Status must be one of ACTIVE, INACTIVE, BLOCKED")
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// charLen counts characters after NFC normalization so composed and
// decomposed accented letters measure the same.
func charLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

func lengthBetween(s string, minLen, maxLen int) bool {
	n := charLen(s)
	return n >= minLen && n <= maxLen
}
