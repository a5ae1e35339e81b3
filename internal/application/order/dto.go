package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderListFilter holds order listing query parameters
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid shipped delivered cancelled"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LookupRequest finds a guest order
type LookupRequest struct {
	Number string `form:"number" binding:"required,max=32"`
	Email  string `form:"email" binding:"required,email"`
}

// CancelRequest cancels an order
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ShipRequest marks an order shipped
type ShipRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
}

// UpdateStatusRequest moves an order through its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=paid shipped delivered cancelled"`
	Note   string `json:"note" binding:"max=500"`
}

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ShippingMethodSummary names the chosen delivery service
type ShippingMethodSummary struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Name    string     `json:"name"`
	Carrier string     `json:"carrier,omitempty"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID                uuid.UUID             `json:"id"`
	Number            string                `json:"number"`
	Status            string                `json:"status"`
	Email             string                `json:"email"`
	Guest             bool                  `json:"guest"`
	CheckoutSessionID uuid.UUID             `json:"checkout_session_id"`
	Items             []OrderItemResponse   `json:"items"`
	ShippingAddress   valueobject.Address   `json:"shipping_address"`
	BillingAddress    valueobject.Address   `json:"billing_address"`
	ShippingMethod    ShippingMethodSummary `json:"shipping_method"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	ShippingCost      decimal.Decimal       `json:"shipping_cost"`
	TaxAmount         decimal.Decimal       `json:"tax_amount"`
	Total             decimal.Decimal       `json:"total"`
	Currency          string                `json:"currency"`
	TrackingNumber    string                `json:"tracking_number,omitempty"`
	CancelReason      string                `json:"cancel_reason,omitempty"`
	PaidAt            *time.Time            `json:"paid_at,omitempty"`
	ShippedAt         *time.Time            `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time            `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// SellerOrderResponse is an order as one seller sees it: only their lines
type SellerOrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Currency        string              `json:"currency"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	ShippingMethod  string              `json:"shipping_method"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toItems(items []order.Item) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, it := range items {
		out[i] = OrderItemResponse{
			ProductID:   it.ProductID,
			SellerID:    it.SellerID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		}
	}
	return out
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:                o.ID,
		Number:            o.Number,
		Status:            string(o.Status),
		Email:             o.Email,
		Guest:             o.IsGuest(),
		CheckoutSessionID: o.CheckoutSessionID,
		Items:             toItems(o.Items),
		ShippingAddress:   o.ShippingAddress,
		BillingAddress:    o.BillingAddress,
		ShippingMethod: ShippingMethodSummary{
			ID:      o.ShippingMethodID,
			Name:    o.ShippingMethodName,
			Carrier: o.ShippingCarrier,
		},
		Subtotal:       o.Subtotal,
		ShippingCost:   o.ShippingCost,
		TaxAmount:      o.TaxAmount,
		Total:          o.Total,
		Currency:       o.Currency,
		TrackingNumber: o.TrackingNumber,
		CancelReason:   o.CancelReason,
		PaidAt:         o.PaidAt,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		CreatedAt:      o.CreatedAt,
	}
}

// ToSellerOrderResponse converts an order for sellerID
func ToSellerOrderResponse(o *order.Order, sellerID uuid.UUID) SellerOrderResponse {
	return SellerOrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		Status:          string(o.Status),
		Items:           toItems(o.ItemsForSeller(sellerID)),
		Subtotal:        o.SellerSubtotal(sellerID),
		Currency:        o.Currency,
		ShippingAddress: o.ShippingAddress,
		ShippingMethod:  o.ShippingMethodName,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt,
	}
}
