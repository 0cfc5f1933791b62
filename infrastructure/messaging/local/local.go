// Package local provides in-process stand-ins for the event bus and the
// websocket notifier, used when the service runs outside AWS.
package local

import (
	"context"

	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/domain/events"
	"kindra/domain/insights"
)

// Publisher logs events instead of sending them anywhere
type Publisher struct {
	logger *zap.Logger
}

// NewPublisher creates a logging publisher
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *Publisher) PublishBatch(_ context.Context, domainEvents []events.DomainEvent) error {
	for _, e := range domainEvents {
		p.logger.Debug("Domain event",
			zap.String("eventType", e.GetEventType()),
			zap.String("aggregateID", e.GetAggregateID()),
			zap.String("userID", e.GetUserID()),
		)
	}
	return nil
}

// Notifier logs insight digests
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a logging notifier
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) Notify(_ context.Context, userID string, items []insights.Insight) error {
	n.logger.Debug("Insights refreshed", zap.String("userID", userID), zap.Int("count", len(items)))
	return nil
}

// Send logs a message that would have gone to the user's sockets
func (n *Notifier) Send(_ context.Context, userID, messageType string, _ interface{}) error {
	n.logger.Debug("Socket message", zap.String("userID", userID), zap.String("type", messageType))
	return nil
}

var (
	_ ports.EventPublisher  = (*Publisher)(nil)
	_ ports.InsightNotifier = (*Notifier)(nil)
)
