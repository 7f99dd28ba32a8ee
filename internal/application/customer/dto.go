package customer

// UpdateCustomerInput carries a partial update of contact data.
// Nil fields are left untouched.
type UpdateCustomerInput struct {
	Email       *string
	PhoneNumber *string
	Address     *string
}

// IsEmpty reports whether no field is set
func (in UpdateCustomerInput) IsEmpty() bool {
	return in.Email == nil && in.PhoneNumber == nil && in.Address == nil
}

// Profile names accepted by UpdateProfile (case-insensitive)
const (
	ProfileVIP      = "VIP"
	ProfilePyme     = "PYME"
	ProfileStandard = "STANDARD"
)
