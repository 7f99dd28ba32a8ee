package shared

import "errors"

// Error codes used across the domain
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeAlreadyExists    = "ALREADY_EXISTS"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeIllegalProfile   = "ILLEGAL_PROFILE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
// This lets callers match any error of a kind against the sentinels below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed or rule-violating input
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewDuplicateError reports a uniqueness conflict
func NewDuplicateError(message string) *DomainError {
	return NewDomainError(CodeAlreadyExists, message)
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewIllegalProfileError reports an unsupported profile request
func NewIllegalProfileError(message string) *DomainError {
	return NewDomainError(CodeIllegalProfile, message)
}

// NewTransientStoreError wraps a persistence I/O failure. These are safe to retry.
func NewTransientStoreError(message string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeStoreUnavailable,
		Message: message,
		Err:     cause,
	}
}

// Common domain errors
var (
	ErrValidation     = NewDomainError(CodeValidation, "Validation failed")
	ErrAlreadyExists  = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrNotFound       = NewDomainError(CodeNotFound, "Resource not found")
	ErrTransientStore = NewDomainError(CodeStoreUnavailable, "Store temporarily unavailable")
	ErrIllegalProfile = NewDomainError(CodeIllegalProfile, "Illegal profile request")
)
