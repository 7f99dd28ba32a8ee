package customer

import (
	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeCustomer is the aggregate name carried by customer events
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated        = "customer.created"
	EventTypeCustomerUpdated        = "customer.updated"
	EventTypeCustomerProfileUpdated = "customer.profile_updated"
	EventTypeCustomerDeleted        = "customer.deleted"
	EventTypeSignerAdded            = "customer.signer_added"
	EventTypeSignerRemoved          = "customer.signer_removed"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID     uuid.UUID    `json:"customer_id"`
	CustomerType   CustomerType `json:"customer_type"`
	DocumentNumber string       `json:"document_number"`
	Email          string       `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c Customer) *CustomerCreatedEvent {
	b := c.Base()
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, b.ID),
		CustomerID:      b.ID,
		CustomerType:    b.CustomerType,
		DocumentNumber:  b.DocumentNumber,
		Email:           b.Email,
	}
}

// CustomerUpdatedEvent is published when contact data changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID `json:"customer_id"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c Customer) *CustomerUpdatedEvent {
	b := c.Base()
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, b.ID),
		CustomerID:      b.ID,
		Email:           b.Email,
		PhoneNumber:     b.PhoneNumber,
		Address:         b.Address,
	}
}

// CustomerProfileUpdatedEvent is published when a profile tier changes
type CustomerProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	OldProfile string    `json:"old_profile"`
	NewProfile string    `json:"new_profile"`
}

// NewCustomerProfileUpdatedEvent creates a new CustomerProfileUpdatedEvent
func NewCustomerProfileUpdatedEvent(c Customer, oldProfile string) *CustomerProfileUpdatedEvent {
	b := c.Base()
	return &CustomerProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerProfileUpdated, AggregateTypeCustomer, b.ID),
		CustomerID:      b.ID,
		OldProfile:      oldProfile,
		NewProfile:      c.ProfileName(),
	}
}

// CustomerStatusEvent is published on soft delete and reactivation
type CustomerStatusEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID      `json:"customer_id"`
	Status     CustomerStatus `json:"status"`
}

// NewCustomerDeletedEvent creates the soft-delete event
func NewCustomerDeletedEvent(c Customer) *CustomerStatusEvent {
	b := c.Base()
	return &CustomerStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, b.ID),
		CustomerID:      b.ID,
		Status:          b.Status,
	}
}

// SignerChangedEvent is published when a signer is added or removed
type SignerChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID           uuid.UUID `json:"customer_id"`
	SignerDocumentNumber string    `json:"signer_document_number"`
}

// NewSignerAddedEvent creates a SignerChangedEvent for an added signer
func NewSignerAddedEvent(c Customer, documentNumber string) *SignerChangedEvent {
	return newSignerChangedEvent(EventTypeSignerAdded, c, documentNumber)
}

// NewSignerRemovedEvent creates a SignerChangedEvent for a removed signer
func NewSignerRemovedEvent(c Customer, documentNumber string) *SignerChangedEvent {
	return newSignerChangedEvent(EventTypeSignerRemoved, c, documentNumber)
}

func newSignerChangedEvent(eventType string, c Customer, documentNumber string) *SignerChangedEvent {
	b := c.Base()
	return &SignerChangedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(eventType, AggregateTypeCustomer, b.ID),
		CustomerID:           b.ID,
		SignerDocumentNumber: documentNumber,
	}
}
