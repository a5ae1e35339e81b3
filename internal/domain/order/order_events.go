package order

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced    = "order.placed"
	EventTypeOrderPaid      = "order.paid"
	EventTypeOrderShipped   = "order.shipped"
	EventTypeOrderCancelled = "order.cancelled"
)

// SellerShare is one seller's part of an order
type SellerShare struct {
	SellerID  uuid.UUID       `json:"seller_id"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderPlacedEvent is published after a checkout is confirmed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	Number   string          `json:"number"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Guest    bool            `json:"guest"`
	Sellers  []SellerShare   `json:"sellers"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	sellers := make([]SellerShare, 0)
	for _, id := range o.SellerIDs() {
		count := 0
		for _, it := range o.ItemsForSeller(id) {
			count += it.Quantity
		}
		sellers = append(sellers, SellerShare{SellerID: id, ItemCount: count, Subtotal: o.SellerSubtotal(id)})
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		Total:           o.Total,
		Currency:        o.Currency,
		Guest:           o.IsGuest(),
		Sellers:         sellers,
	}
}

// OrderPaidEvent is published when payment is recorded
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		Total:           o.Total,
	}
}

// OrderShippedEvent is published when an order leaves the warehouse
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	Number         string `json:"number"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		TrackingNumber:  o.TrackingNumber,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	Number   string          `json:"number"`
	Reason   string          `json:"reason,omitempty"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		Reason:          o.CancelReason,
		Total:           o.Total,
		Currency:        o.Currency,
	}
}
