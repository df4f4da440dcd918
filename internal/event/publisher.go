package event

import (
	"context"
	"log/slog"
)

const (
	routingKeyCustomerRegistered = "customer.registered"
	routingKeyLoanCreated        = "loan.created"
	publisherAppID               = "credit-approval"
)

type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
}

// NopPublisher is used when no broker is configured; events are only logged.
type NopPublisher struct {
	logger *slog.Logger
}

func NewNopPublisher(logger *slog.Logger) *NopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NopPublisher{logger: logger.With("component", "NopPublisher")}
}

func (p *NopPublisher) PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error {
	p.logger.DebugContext(ctx, "Dropping event, no broker configured",
		"routingKey", routingKeyCustomerRegistered, "eventID", event.EventID)
	return nil
}

func (p *NopPublisher) PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event, no broker configured",
		"routingKey", routingKeyLoanCreated, "eventID", event.EventID)
	return nil
}

var _ EventPublisher = (*NopPublisher)(nil)
