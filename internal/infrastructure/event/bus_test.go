package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marketplace/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New())}
}

type recordingHandler struct {
	types    []string
	received []string
	err      error
	panics   bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, ev.EventType())
	return h.err
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	placed := &recordingHandler{types: []string{"order.placed"}}
	all := &recordingHandler{}
	bus.Subscribe(placed)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.placed"), newTestEvent("order.cancelled")))

	assert.Equal(t, []string{"order.placed"}, placed.received)
	assert.Equal(t, []string{"order.placed", "order.cancelled"}, all.received)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"order.placed"}}
	bus.Subscribe(h, "order.paid")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.placed"), newTestEvent("order.paid")))
	assert.Equal(t, []string{"order.paid"}, h.received)
}

func TestInMemoryEventBus_IsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))
	bus.Subscribe(&recordingHandler{panics: true})
	bus.Subscribe(&recordingHandler{err: errors.New("boom")})
	ok := &recordingHandler{}
	bus.Subscribe(ok)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("user.registered")))

	assert.Equal(t, []string{"user.registered"}, ok.received)
	assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
}

func TestInMemoryEventBus_UnsubscribeAndStop(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"order.placed"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)
	require.NoError(t, bus.Publish(ctx, newTestEvent("order.placed")))
	assert.Empty(t, h.received)

	bus.Subscribe(h)
	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("order.placed")))
	assert.Empty(t, h.received)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("order.placed")))
	assert.Len(t, h.received, 1)
}

func TestHandlerRegistry_Count(t *testing.T) {
	r := NewHandlerRegistry()
	h := &recordingHandler{}
	r.Register(h, "a", "b")
	r.Register(&recordingHandler{})
	assert.Equal(t, 2, r.Count())
	assert.Len(t, r.HandlersFor("a"), 2)

	r.Unregister(h)
	assert.Equal(t, 1, r.Count())
	assert.Len(t, r.HandlersFor("a"), 1)
}

type memStore struct {
	reserved map[string]bool
	failWith error
}

func (m *memStore) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	if m.reserved[key] {
		return false, nil
	}
	m.reserved[key] = true
	return true, nil
}
func (m *memStore) Complete(context.Context, string, string, time.Duration) error { return nil }
func (m *memStore) Result(context.Context, string) (string, error)                { return "", nil }
func (m *memStore) Release(_ context.Context, key string) error {
	delete(m.reserved, key)
	return nil
}
func (m *memStore) Close() error { return nil }

func TestIdempotentHandler(t *testing.T) {
	ctx := context.Background()
	store := &memStore{reserved: map[string]bool{}}
	inner := &recordingHandler{types: []string{"order.placed"}}
	h := NewIdempotentHandler("notify", inner, store, time.Hour, zap.NewNop())
	ev := newTestEvent("order.placed")

	require.NoError(t, h.Handle(ctx, ev))
	require.NoError(t, h.Handle(ctx, ev))
	assert.Len(t, inner.received, 1)
	assert.Equal(t, []string{"order.placed"}, h.EventTypes())

	inner.err = errors.New("socket closed")
	other := newTestEvent("order.placed")
	assert.Error(t, h.Handle(ctx, other))
	assert.NotContains(t, store.reserved, "event:notify:"+other.EventID().String())

	store.failWith = errors.New("redis down")
	inner.err = nil
	require.NoError(t, h.Handle(ctx, other))
	assert.Len(t, inner.received, 3)
}
