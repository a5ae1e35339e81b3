// Package event holds the application's domain event handlers and the
// helper services use to publish what their aggregates recorded.
package event

import (
	"context"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// EventSource is an aggregate that buffers domain events
type EventSource interface {
	PullDomainEvents() []shared.DomainEvent
}

// PublishPending drains the sources' events and publishes them. A nil
// publisher just drops the events. Publish failures are logged and never
// returned: the state change they describe is already committed.
func PublishPending(ctx context.Context, publisher shared.EventPublisher, sources ...EventSource) {
	events := make([]shared.DomainEvent, 0)
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.PullDomainEvents()...)
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err))
	}
}
