package customer

// CustomerType discriminates the customer variants
type CustomerType string

const (
	CustomerTypePersonal CustomerType = "PERSONAL"
	CustomerTypeBusiness CustomerType = "BUSINESS"
)

// IsValid reports whether the type is a known variant
func (t CustomerType) IsValid() bool {
	return t == CustomerTypePersonal || t == CustomerTypeBusiness
}

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE" // soft-deleted
	CustomerStatusBlocked  CustomerStatus = "BLOCKED"  // requires administrative intervention
)

// IsValid reports whether the status is known
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusBlocked:
		return true
	}
	return false
}

// DocumentType is the kind of identity document
type DocumentType string

const (
	DocumentTypeDNI      DocumentType = "DNI"      // national identity document
	DocumentTypeCEX      DocumentType = "CEX"      // foreigner's card
	DocumentTypePassport DocumentType = "PASSPORT" // passport
	DocumentTypeRUC      DocumentType = "RUC"      // tax id, businesses only
)

// IsValid reports whether the document type is known
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeDNI, DocumentTypeCEX, DocumentTypePassport, DocumentTypeRUC:
		return true
	}
	return false
}

// Gender of a personal customer
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid reports whether the gender is known
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// PersonalProfile is the tier of a personal customer
type PersonalProfile string

const (
	PersonalProfileStandard PersonalProfile = "STANDARD"
	PersonalProfileVIP      PersonalProfile = "VIP"
)

// BusinessProfile is the tier of a business customer
type BusinessProfile string

const (
	BusinessProfileStandard BusinessProfile = "STANDARD"
	BusinessProfilePyme     BusinessProfile = "PYME"
)

// BusinessType is the legal form of a company
type BusinessType string

const (
	BusinessTypeSAC  BusinessType = "SAC"
	BusinessTypeSRL  BusinessType = "SRL"
	BusinessTypeSA   BusinessType = "SA"
	BusinessTypeEIRL BusinessType = "EIRL"
)

// IsValid reports whether the business type is known
func (b BusinessType) IsValid() bool {
	switch b {
	case BusinessTypeSAC, BusinessTypeSRL, BusinessTypeSA, BusinessTypeEIRL:
		return true
	}
	return false
}

// SignerRole is the role of an authorized signer
type SignerRole string

const (
	SignerRoleTitular    SignerRole = "TITULAR"
	SignerRoleAuthorized SignerRole = "AUTHORIZED"
)

// IsValid reports whether the role is known
func (r SignerRole) IsValid() bool {
	return r == SignerRoleTitular || r == SignerRoleAuthorized
}
