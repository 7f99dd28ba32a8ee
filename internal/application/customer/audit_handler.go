package customer

import (
	"context"

	"github.com/banking/customer-service/internal/domain/customer"
	"github.com/banking/customer-service/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditHandler writes an audit log line for every customer lifecycle event
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(logger *zap.Logger) *AuditHandler {
	return &AuditHandler{logger: logger.Named("customer.audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditHandler) EventTypes() []string {
	return []string{
		customer.EventTypeCustomerCreated,
		customer.EventTypeCustomerUpdated,
		customer.EventTypeCustomerProfileUpdated,
		customer.EventTypeCustomerDeleted,
		customer.EventTypeSignerAdded,
		customer.EventTypeSignerRemoved,
	}
}

// Handle logs the event with the fields specific to its type
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("customer_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *customer.CustomerCreatedEvent:
		fields = append(fields,
			zap.String("customer_type", string(e.CustomerType)),
			zap.String("document_number", e.DocumentNumber))
	case *customer.CustomerProfileUpdatedEvent:
		fields = append(fields,
			zap.String("old_profile", e.OldProfile),
			zap.String("new_profile", e.NewProfile))
	case *customer.CustomerStatusEvent:
		fields = append(fields, zap.String("status", string(e.Status)))
	case *customer.SignerChangedEvent:
		fields = append(fields, zap.String("signer_document_number", e.SignerDocumentNumber))
	}

	h.logger.Info("customer audit", fields...)
	return nil
}
