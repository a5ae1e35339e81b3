package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// Owner identifies whose cart is addressed: a signed-in user or a guest
type Owner struct {
	UserID  *uuid.UUID
	GuestID string
}

// IsZero reports whether neither a user nor a guest is known
func (o Owner) IsZero() bool {
	return o.UserID == nil && o.GuestID == ""
}

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateItemRequest sets a line quantity; 0 removes the line
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=999"`
}

// CartItemResponse is a cart line in API responses
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartResponse is a cart in API responses
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	Guest     bool               `json:"guest"`
	Currency  string             `json:"currency"`
	Items     []CartItemResponse `json:"items"`
	Summary   CartSummary        `json:"summary"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CartSummary holds cart totals
type CartSummary struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Currency    string          `json:"currency"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	ItemCount   int             `json:"item_count"`
	LineCount   int             `json:"line_count"`
	SellerCount int             `json:"seller_count"`
}

// ToCartResponse converts a domain cart
func ToCartResponse(c *cart.Cart) *CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemResponse{
			ProductID:   item.ProductID,
			SellerID:    item.SellerID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			UnitPrice:   item.UnitPrice,
			UnitWeight:  item.UnitWeight,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		}
	}
	return &CartResponse{
		ID:        c.ID,
		Guest:     c.IsGuest(),
		Currency:  c.Currency,
		Items:     items,
		Summary:   toSummary(c),
		UpdatedAt: c.UpdatedAt,
	}
}

func toSummary(c *cart.Cart) CartSummary {
	return CartSummary{
		Subtotal:    c.Subtotal().Amount(),
		Currency:    c.Currency,
		TotalWeight: c.TotalWeight(),
		ItemCount:   c.ItemCount(),
		LineCount:   len(c.Items),
		SellerCount: len(c.SellerIDs()),
	}
}
