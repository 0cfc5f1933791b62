package handlers

import (
	"context"

	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/domain/events"
)

// aggregate is anything that buffers domain events until they are published
type aggregate interface {
	GetUncommittedEvents() []events.DomainEvent
	MarkEventsAsCommitted()
}

// sideEffects runs the post-commit work shared by every write: dropping the
// user's cached reads and publishing the raised events. Neither step can fail
// the command once the write itself succeeded.
type sideEffects struct {
	publisher ports.EventPublisher
	cache     ports.Cache
	logger    *zap.Logger
}

func (s sideEffects) afterWrite(ctx context.Context, userID string, agg aggregate) {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, ports.UserCachePrefix(userID))
	}

	pending := agg.GetUncommittedEvents()
	if len(pending) == 0 || s.publisher == nil {
		agg.MarkEventsAsCommitted()
		return
	}

	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.String("userID", userID),
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
	agg.MarkEventsAsCommitted()
}
