package event

import "github.com/banking/customer-service/internal/domain/customer"

// RegisterCustomerEvents registers every customer lifecycle event with the serializer
func RegisterCustomerEvents(serializer *EventSerializer) {
	serializer.Register(customer.EventTypeCustomerCreated, &customer.CustomerCreatedEvent{})
	serializer.Register(customer.EventTypeCustomerUpdated, &customer.CustomerUpdatedEvent{})
	serializer.Register(customer.EventTypeCustomerProfileUpdated, &customer.CustomerProfileUpdatedEvent{})
	serializer.Register(customer.EventTypeCustomerDeleted, &customer.CustomerStatusEvent{})
	serializer.Register(customer.EventTypeSignerAdded, &customer.SignerChangedEvent{})
	serializer.Register(customer.EventTypeSignerRemoved, &customer.SignerChangedEvent{})
}
