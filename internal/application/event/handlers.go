package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderMetricsHandler feeds order events into the business metrics
type OrderMetricsHandler struct {
	metrics *telemetry.MarketplaceMetrics
}

// NewOrderMetricsHandler creates an OrderMetricsHandler
func NewOrderMetricsHandler(metrics *telemetry.MarketplaceMetrics) *OrderMetricsHandler {
	return &OrderMetricsHandler{metrics: metrics}
}

// EventTypes implements shared.EventHandler
func (h *OrderMetricsHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, order.EventTypeOrderCancelled}
}

// Handle implements shared.EventHandler
func (h *OrderMetricsHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.metrics == nil {
		return nil
	}
	switch e := ev.(type) {
	case *order.OrderPlacedEvent:
		h.metrics.RecordOrderPlaced(ctx, e.Currency, e.Total, e.Guest)
	case *order.OrderCancelledEvent:
		h.metrics.RecordOrderCancelled(ctx, e.Currency)
	}
	return nil
}

// SellerNotifier pushes a message to a seller's connected clients
type SellerNotifier interface {
	NotifySeller(sellerID uuid.UUID, message any) int
}

// SellerOrderNotification is the realtime message sent to a seller when an
// order containing their products is placed
type SellerOrderNotification struct {
	Type        string          `json:"type"`
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Currency    string          `json:"currency"`
}

// SellerOrderNotifier sends one notification per seller of a placed order
type SellerOrderNotifier struct {
	notifier SellerNotifier
}

// NewSellerOrderNotifier creates a SellerOrderNotifier
func NewSellerOrderNotifier(notifier SellerNotifier) *SellerOrderNotifier {
	return &SellerOrderNotifier{notifier: notifier}
}

// EventTypes implements shared.EventHandler
func (h *SellerOrderNotifier) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle implements shared.EventHandler
func (h *SellerOrderNotifier) Handle(ctx context.Context, ev shared.DomainEvent) error {
	placed, ok := ev.(*order.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	for _, share := range placed.Sellers {
		delivered := h.notifier.NotifySeller(share.SellerID, SellerOrderNotification{
			Type:        order.EventTypeOrderPlaced,
			OrderID:     placed.AggregateID(),
			OrderNumber: placed.Number,
			ItemCount:   share.ItemCount,
			Subtotal:    share.Subtotal,
			Currency:    placed.Currency,
		})
		logger.L(ctx).Debug("Seller notified of new order",
			zap.String("seller_id", share.SellerID.String()),
			zap.String("order_number", placed.Number),
			zap.Int("connections", delivered))
	}
	return nil
}

// UserRegisteredLogger writes an audit line for new accounts
type UserRegisteredLogger struct{}

// EventTypes implements shared.EventHandler
func (UserRegisteredLogger) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle implements shared.EventHandler
func (UserRegisteredLogger) Handle(ctx context.Context, ev shared.DomainEvent) error {
	e, ok := ev.(*identity.UserRegisteredEvent)
	if !ok {
		return nil
	}
	logger.L(ctx).Info("User registered",
		zap.String("user_id", e.AggregateID().String()),
		zap.String("email", e.Email),
		zap.String("role", string(e.Role)))
	return nil
}
