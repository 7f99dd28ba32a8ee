package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/banking/customer-service/internal/infrastructure/logger"
	"github.com/banking/customer-service/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithSerializer logs the JSON payload of every published event at debug level
func WithSerializer(s *EventSerializer) BusOption {
	return func(b *InMemoryEventBus) {
		b.serializer = s
	}
}

// InMemoryEventBus dispatches events synchronously to the handlers
// subscribed to their type. Handler failures are logged and never returned.
type InMemoryEventBus struct {
	registry   *HandlerRegistry
	serializer *EventSerializer
	logger     *zap.Logger

	// mu orders the stopped check and inflight.Add against Stop
	mu       sync.RWMutex
	stopped  bool
	inflight sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(l *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if l == nil {
		l = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   l.Named("event_bus"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish dispatches each event to its handlers in subscription order.
// Events published after Stop are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.acquire() {
		b.logger.Warn("Event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	defer b.inflight.Done()

	log := logger.Enrich(ctx, b.logger)
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			log.Warn("Context done, remaining events not dispatched",
				zap.String("event_type", event.EventType()), zap.Error(err))
			return nil
		}
		b.logPayload(log, event)

		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				log.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("handler", fmt.Sprintf("%T", handler)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no event types the handler's own
// EventTypes are used, and an empty list subscribes it to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as accepting events
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	b.stopped = false
	b.mu.Unlock()
	b.logger.Info("Event bus started", zap.Strings("event_types", b.registry.EventTypes()))
	return nil
}

// Stop rejects new events and waits for in-flight publishes or ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

// acquire registers a publish as in flight unless the bus is stopped
func (b *InMemoryEventBus) acquire() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		return false
	}
	b.inflight.Add(1)
	return true
}

// dispatch runs one handler inside a span and turns a panic into an error
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "event."+event.EventType(),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			telemetry.SpanAttrEventID.String(event.EventID().String()),
			telemetry.SpanAttrCustomerID.String(event.AggregateID().String()),
		),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		telemetry.RecordError(span, err)
		span.End()
	}()

	return handler.Handle(ctx, event)
}

func (b *InMemoryEventBus) logPayload(log *zap.Logger, event shared.DomainEvent) {
	if b.serializer == nil || !log.Core().Enabled(zap.DebugLevel) {
		return
	}
	data, err := b.serializer.Serialize(event)
	if err != nil {
		log.Debug("Event payload not serializable", zap.String("event_type", event.EventType()), zap.Error(err))
		return
	}
	log.Debug("Publishing event",
		zap.String("event_type", event.EventType()),
		zap.ByteString("payload", data),
	)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
