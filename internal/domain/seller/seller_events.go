package seller

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

const AggregateTypeSeller = "Seller"

const (
	EventTypeSellerApplied       = "seller.applied"
	EventTypeSellerStatusChanged = "seller.status_changed"
)

// SellerAppliedEvent is published when a user applies to sell
type SellerAppliedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	StoreName string    `json:"store_name"`
}

func NewSellerAppliedEvent(s *Seller) *SellerAppliedEvent {
	return &SellerAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerApplied, AggregateTypeSeller, s.ID),
		UserID:          s.UserID,
		StoreName:       s.StoreName,
	}
}

// SellerStatusChangedEvent is published on approval, rejection, suspension and reinstatement
type SellerStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Status Status    `json:"status"`
	Reason string    `json:"reason,omitempty"`
}

func NewSellerStatusChangedEvent(s *Seller) *SellerStatusChangedEvent {
	return &SellerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerStatusChanged, AggregateTypeSeller, s.ID),
		UserID:          s.UserID,
		Status:          s.Status,
		Reason:          s.StatusReason,
	}
}
