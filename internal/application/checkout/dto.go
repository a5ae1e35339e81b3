package checkout

import (
	"time"

	"github.com/google/uuid"
	cartapp "github.com/marketplace/backend/internal/application/cart"
	orderapp "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Owner identifies the shopper driving a checkout
type Owner = cartapp.Owner

// InitiateRequest starts a checkout from the caller's cart
type InitiateRequest struct {
	Email string `json:"email" binding:"omitempty,email,max=255"`
}

// AddressRequest sets the destination of a checkout
type AddressRequest struct {
	SessionID       uuid.UUID            `json:"session_id" binding:"required"`
	ShippingAddress valueobject.Address  `json:"shipping_address" binding:"required"`
	BillingAddress  *valueobject.Address `json:"billing_address"`
	Email           string               `json:"email" binding:"omitempty,email,max=255"`
}

// SelectShippingRequest picks one of the quoted methods
type SelectShippingRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	MethodID  uuid.UUID `json:"shipping_method_id" binding:"required"`
}

// ConfirmRequest places the order
type ConfirmRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
}

// SelectedShipping is the method applied to a session
type SelectedShipping struct {
	MethodID        uuid.UUID `json:"method_id"`
	Name            string    `json:"name"`
	Carrier         string    `json:"carrier,omitempty"`
	MinDeliveryDays int       `json:"min_delivery_days"`
	MaxDeliveryDays int       `json:"max_delivery_days"`
}

// SessionResponse is a checkout session in API responses
type SessionResponse struct {
	ID              uuid.UUID            `json:"id"`
	Status          string               `json:"status"`
	Guest           bool                 `json:"guest"`
	Email           string               `json:"email,omitempty"`
	Items           []checkout.Item      `json:"items"`
	ShippingAddress *valueobject.Address `json:"shipping_address,omitempty"`
	BillingAddress  *valueobject.Address `json:"billing_address,omitempty"`
	Shipping        *SelectedShipping    `json:"shipping,omitempty"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	ShippingCost    decimal.Decimal      `json:"shipping_cost"`
	TaxAmount       decimal.Decimal      `json:"tax_amount"`
	Total           decimal.Decimal      `json:"total"`
	Currency        string               `json:"currency"`
	ExpiresAt       time.Time            `json:"expires_at"`
	OrderID         *uuid.UUID           `json:"order_id,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
}

// ConfirmResponse carries the placed order. Replayed is set when an earlier
// request with the same idempotency key already placed it.
type ConfirmResponse struct {
	Order    *orderapp.OrderResponse `json:"order"`
	Replayed bool                    `json:"replayed"`
}

// ToSessionResponse converts a domain session
func ToSessionResponse(s *checkout.Session) *SessionResponse {
	resp := &SessionResponse{
		ID:           s.ID,
		Status:       string(s.Status),
		Guest:        s.IsGuest(),
		Email:        s.Email,
		Items:        s.Items,
		Subtotal:     s.Subtotal,
		ShippingCost: s.ShippingCost,
		TaxAmount:    s.TaxAmount,
		Total:        s.Total,
		Currency:     s.Currency,
		ExpiresAt:    s.ExpiresAt,
		OrderID:      s.OrderID,
		CompletedAt:  s.CompletedAt,
	}
	if s.HasAddress() {
		ship, bill := s.ShippingAddress, s.BillingAddress
		resp.ShippingAddress = &ship
		resp.BillingAddress = &bill
	}
	if s.HasShipping() {
		resp.Shipping = &SelectedShipping{
			MethodID:        *s.ShippingMethodID,
			Name:            s.ShippingMethodName,
			Carrier:         s.ShippingCarrier,
			MinDeliveryDays: s.MinDeliveryDays,
			MaxDeliveryDays: s.MaxDeliveryDays,
		}
	}
	if resp.Items == nil {
		resp.Items = []checkout.Item{}
	}
	return resp
}
