package event

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared"
)

// IdempotentHandler runs the wrapped handler at most once per event id.
// A failed run releases the key so a redelivery can retry it.
type IdempotentHandler struct {
	name   string
	inner  shared.EventHandler
	store  shared.IdempotencyStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdempotentHandler wraps inner. name namespaces the keys so different
// handlers of the same event do not share them.
func NewIdempotentHandler(name string, inner shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{name: name, inner: inner, store: store, ttl: ttl, logger: logger}
}

// EventTypes delegates to the wrapped handler
func (h *IdempotentHandler) EventTypes() []string { return h.inner.EventTypes() }

// Handle implements shared.EventHandler
func (h *IdempotentHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	key := "event:" + h.name + ":" + ev.EventID().String()
	fresh, err := h.store.Reserve(ctx, key, h.ttl)
	if err != nil {
		// Store outage: process anyway rather than lose the event.
		h.logger.Warn("Idempotency check failed", zap.String("key", key), zap.Error(err))
		return h.inner.Handle(ctx, ev)
	}
	if !fresh {
		h.logger.Debug("Duplicate event skipped", zap.String("key", key))
		return nil
	}
	if err := h.inner.Handle(ctx, ev); err != nil {
		_ = h.store.Release(ctx, key)
		return err
	}
	return h.store.Complete(ctx, key, "ok", h.ttl)
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
