package checkout

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeSession = "CheckoutSession"

const (
	EventTypeSessionInitiated = "checkout.initiated"
	EventTypeSessionCompleted = "checkout.completed"
	EventTypeSessionCancelled = "checkout.cancelled"
)

// SessionInitiatedEvent is published when a checkout starts
type SessionInitiatedEvent struct {
	shared.BaseDomainEvent
	CartID   uuid.UUID       `json:"cart_id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Guest    bool            `json:"guest"`
}

func NewSessionInitiatedEvent(s *Session) *SessionInitiatedEvent {
	return &SessionInitiatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionInitiated, AggregateTypeSession, s.ID),
		CartID:          s.CartID,
		Subtotal:        s.Subtotal,
		Guest:           s.IsGuest(),
	}
}

// SessionCompletedEvent is published when a session produced an order
type SessionCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

func NewSessionCompletedEvent(s *Session) *SessionCompletedEvent {
	e := &SessionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionCompleted, AggregateTypeSession, s.ID),
		Total:           s.Total,
	}
	if s.OrderID != nil {
		e.OrderID = *s.OrderID
	}
	return e
}

// SessionCancelledEvent is published when a buyer abandons a checkout
type SessionCancelledEvent struct {
	shared.BaseDomainEvent
}

func NewSessionCancelledEvent(s *Session) *SessionCancelledEvent {
	return &SessionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionCancelled, AggregateTypeSession, s.ID),
	}
}
