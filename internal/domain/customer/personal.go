package customer

import (
	"fmt"
	"time"

	"github.com/banking/customer-service/internal/domain/shared"
)

// MinimumAge is the minimum age in whole years for a personal customer
const MinimumAge = 18

// PersonalCustomer is a natural person
type PersonalCustomer struct {
	BaseCustomer
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	DateOfBirth     time.Time       `json:"date_of_birth"`
	Gender          Gender          `json:"gender,omitempty"`
	PersonalProfile PersonalProfile `json:"personal_profile"`
}

// Validate checks base fields, then required personal fields, then age and document rules
func (p *PersonalCustomer) Validate() error {
	if err := p.BaseCustomer.validate(); err != nil {
		return err
	}
	if p.CustomerType != CustomerTypePersonal {
		return shared.NewValidationError("Customer type must be PERSONAL for personal customers")
	}

	if isBlank(p.FirstName) {
		return shared.NewValidationError("First name is required for personal customers")
	}
	if isBlank(p.LastName) {
		return shared.NewValidationError("Last name is required for personal customers")
	}
	if p.DateOfBirth.IsZero() {
		return shared.NewValidationError("Date of birth is required")
	}

	if !lengthBetween(p.FirstName, 2, 100) {
		return shared.NewValidationError("First name must be between 2 and 100 characters")
	}
	if !lengthBetween(p.LastName, 2, 100) {
		return shared.NewValidationError("Last name must be between 2 and 100 characters")
	}
	if p.Gender != "" && !p.Gender.IsValid() {
		return shared.NewValidationError("Gender must be one of MALE, FEMALE, OTHER")
	}
	if p.PersonalProfile != "" && p.PersonalProfile != PersonalProfileStandard && p.PersonalProfile != PersonalProfileVIP {
		return shared.NewValidationError("Personal profile must be STANDARD or VIP")
	}
	if p.DocumentType == DocumentTypeRUC {
		return shared.NewValidationError("Personal customers cannot use RUC as document type")
	}
	if age := p.Age(); age < MinimumAge {
		return shared.NewValidationError(fmt.Sprintf("Customer must be at least %d years old. Current age: %d", MinimumAge, age))
	}
	return nil
}

// InitializeDefaults assigns the PERSONAL discriminator and STANDARD profile
func (p *PersonalCustomer) InitializeDefaults() {
	p.BaseCustomer.initializeDefaults()
	p.CustomerType = CustomerTypePersonal
	if p.PersonalProfile == "" {
		p.PersonalProfile = PersonalProfileStandard
	}
}

// Age returns the whole years between the date of birth and now
func (p *PersonalCustomer) Age() int {
	return ageAt(p.DateOfBirth, time.Now())
}

// FullName returns first and last name
func (p *PersonalCustomer) FullName() string {
	return p.FirstName + " " + p.LastName
}

// IsVIP reports whether the customer has the VIP profile
func (p *PersonalCustomer) IsVIP() bool {
	return p.PersonalProfile == PersonalProfileVIP
}

// ProfileName returns the personal profile
func (p *PersonalCustomer) ProfileName() string {
	return string(p.PersonalProfile)
}

// UpgradeToVip sets the VIP profile
func (p *PersonalCustomer) UpgradeToVip() {
	p.PersonalProfile = PersonalProfileVIP
	p.Touch()
}

// DowngradeToStandard sets the STANDARD profile
func (p *PersonalCustomer) DowngradeToStandard() {
	p.PersonalProfile = PersonalProfileStandard
	p.Touch()
}

// Clone returns a deep copy
func (p *PersonalCustomer) Clone() Customer {
	c := *p
	return &c
}

func ageAt(birth, now time.Time) int {
	if birth.IsZero() {
		return 0
	}
	now = now.In(birth.Location())
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
