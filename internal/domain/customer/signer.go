package customer

import "github.com/banking/customer-service/internal/domain/shared"

// AuthorizedSigner is a person allowed to operate on behalf of a business customer.
// It is a value object owned by exactly one BusinessCustomer.
type AuthorizedSigner struct {
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	DocumentType   DocumentType `json:"document_type"`
	DocumentNumber string       `json:"document_number"`
	Role           SignerRole   `json:"role"`
}

// Validate checks the signer fields. Signers cannot identify with a RUC.
func (s AuthorizedSigner) Validate() error {
	if isBlank(s.FirstName) {
		return shared.NewValidationError("Signer first name is required")
	}
	if isBlank(s.LastName) {
		return shared.NewValidationError("Signer last name is required")
	}
	if s.DocumentType == "" {
		return shared.NewValidationError("Signer document type is required")
	}
	if !s.DocumentType.IsValid() {
		return shared.NewValidationError("Signer document type must be one of DNI, CEX, PASSPORT")
	}
	if s.DocumentType == DocumentTypeRUC {
		return shared.NewValidationError("Signer document type cannot be RUC (only DNI, CEX or PASSPORT)")
	}
	if isBlank(s.DocumentNumber) {
		return shared.NewValidationError("Signer document number is required")
	}
	if s.Role == "" {
		return shared.NewValidationError("Signer role is required")
	}
	if !s.Role.IsValid() {
		return shared.NewValidationError("Signer role must be TITULAR or AUTHORIZED")
	}
	return nil
}

// FullName returns first and last name
func (s AuthorizedSigner) FullName() string {
	return s.FirstName + " " + s.LastName
}
