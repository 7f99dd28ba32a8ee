package customer

import (
	"fmt"
	"regexp"

	"github.com/banking/customer-service/internal/domain/shared"
)

// TaxIDLength is the number of digits in a RUC
const TaxIDLength = 11

var taxIDRegex = regexp.MustCompile(`^[0-9]{11}$`)

// BusinessCustomer is a legal entity
type BusinessCustomer struct {
	BaseCustomer
	BusinessName      string             `json:"business_name"`
	BusinessType      BusinessType       `json:"business_type"`
	TaxID             string             `json:"tax_id"`
	BusinessProfile   BusinessProfile    `json:"business_profile"`
	AuthorizedSigners []AuthorizedSigner `json:"authorized_signers"`
}

// Validate checks base fields, then required business fields, then tax id and signer rules
func (b *BusinessCustomer) Validate() error {
	if err := b.BaseCustomer.validate(); err != nil {
		return err
	}
	if b.CustomerType != CustomerTypeBusiness {
		return shared.NewValidationError("Customer type must be BUSINESS for business customers")
	}

	if isBlank(b.BusinessName) {
		return shared.NewValidationError("Business name is required for business customers")
	}
	if b.BusinessType == "" {
		return shared.NewValidationError("Business type is required")
	}
	if isBlank(b.TaxID) {
		return shared.NewValidationError("Tax ID (RUC) is required for business customers")
	}

	if !lengthBetween(b.BusinessName, 2, 200) {
		return shared.NewValidationError("Business name must be between 2 and 200 characters")
	}
	if !b.BusinessType.IsValid() {
		return shared.NewValidationError("Business type must be one of SAC, SRL, SA, EIRL")
	}
	if b.BusinessProfile != "" && b.BusinessProfile != BusinessProfileStandard && b.BusinessProfile != BusinessProfilePyme {
		return shared.NewValidationError("Business profile must be STANDARD or PYME")
	}
	if b.DocumentType != DocumentTypeRUC {
		return shared.NewValidationError("Business customers must use RUC as document type")
	}
	if len(b.TaxID) != TaxIDLength {
		return shared.NewValidationError(fmt.Sprintf("Tax ID (RUC) must be exactly %d digits", TaxIDLength))
	}
	if !taxIDRegex.MatchString(b.TaxID) {
		return shared.NewValidationError("Tax ID (RUC) must contain only digits")
	}
	if b.TaxID != b.DocumentNumber {
		return shared.NewValidationError("Tax ID (RUC) must equal the customer's document number")
	}
	return b.validateSigners()
}

func (b *BusinessCustomer) validateSigners() error {
	seen := make(map[string]struct{}, len(b.AuthorizedSigners))
	for _, s := range b.AuthorizedSigners {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.DocumentNumber]; dup {
			return shared.NewValidationError("Duplicate signer document number " + s.DocumentNumber)
		}
		seen[s.DocumentNumber] = struct{}{}
	}
	return nil
}

// InitializeDefaults assigns the BUSINESS discriminator, STANDARD profile and
// RUC document type when absent
func (b *BusinessCustomer) InitializeDefaults() {
	b.BaseCustomer.initializeDefaults()
	b.CustomerType = CustomerTypeBusiness
	if b.DocumentType == "" {
		b.DocumentType = DocumentTypeRUC
	}
	if b.BusinessProfile == "" {
		b.BusinessProfile = BusinessProfileStandard
	}
	if b.AuthorizedSigners == nil {
		b.AuthorizedSigners = []AuthorizedSigner{}
	}
}

// IsPyme reports whether the company has the PYME profile
func (b *BusinessCustomer) IsPyme() bool {
	return b.BusinessProfile == BusinessProfilePyme
}

// ProfileName returns the business profile
func (b *BusinessCustomer) ProfileName() string {
	return string(b.BusinessProfile)
}

// UpgradeToPyme sets the PYME profile
func (b *BusinessCustomer) UpgradeToPyme() {
	b.BusinessProfile = BusinessProfilePyme
	b.Touch()
}

// DowngradeToStandard sets the STANDARD profile
func (b *BusinessCustomer) DowngradeToStandard() {
	b.BusinessProfile = BusinessProfileStandard
	b.Touch()
}

// AddAuthorizedSigner appends a signer. It fails when the signer is invalid or
// another signer already uses the same document number.
func (b *BusinessCustomer) AddAuthorizedSigner(signer AuthorizedSigner) error {
	if err := signer.Validate(); err != nil {
		return err
	}
	if _, ok := b.FindSigner(signer.DocumentNumber); ok {
		return shared.NewValidationError("A signer with document " + signer.DocumentNumber + " already exists")
	}
	b.AuthorizedSigners = append(b.AuthorizedSigners, signer)
	b.Touch()
	return nil
}

// RemoveAuthorizedSigner removes the signer with the given document number.
// It returns false, without touching the customer, when no such signer exists.
func (b *BusinessCustomer) RemoveAuthorizedSigner(documentNumber string) bool {
	for i, s := range b.AuthorizedSigners {
		if s.DocumentNumber == documentNumber {
			b.AuthorizedSigners = append(b.AuthorizedSigners[:i:i], b.AuthorizedSigners[i+1:]...)
			b.Touch()
			return true
		}
	}
	return false
}

// FindSigner looks up a signer by document number
func (b *BusinessCustomer) FindSigner(documentNumber string) (AuthorizedSigner, bool) {
	for _, s := range b.AuthorizedSigners {
		if s.DocumentNumber == documentNumber {
			return s, true
		}
	}
	return AuthorizedSigner{}, false
}

// Clone returns a deep copy
func (b *BusinessCustomer) Clone() Customer {
	c := *b
	if b.AuthorizedSigners != nil {
		c.AuthorizedSigners = make([]AuthorizedSigner, len(b.AuthorizedSigners))
		copy(c.AuthorizedSigners, b.AuthorizedSigners)
	}
	return &c
}
