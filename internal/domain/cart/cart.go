package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line
const MaxLineQuantity = 999

// Cart holds the items a shopper intends to buy. It is owned either by a
// registered user or by an anonymous guest, never both.
type Cart struct {
	shared.BaseAggregateRoot
	UserID   *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	GuestID  *string    `gorm:"type:varchar(64);uniqueIndex"`
	Currency string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Items    []CartItem `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one product line in a cart. Price and weight are captured
// when the item is added and refreshed at checkout.
type CartItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"column:sku;type:varchar(64)"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitWeight  decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	Quantity    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal returns unit price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineWeight returns unit weight times quantity
func (i CartItem) LineWeight() decimal.Decimal {
	return i.UnitWeight.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductSnapshot is the product data a cart line is built from
type ProductSnapshot struct {
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Name      string
	SKU       string
	UnitPrice valueobject.Money
	Weight    decimal.Decimal
}

// NewUserCart creates an empty cart for a registered user
func NewUserCart(userID uuid.UUID, currency valueobject.Currency) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "User ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            &userID,
		Currency:          string(currency),
		Items:             make([]CartItem, 0),
	}, nil
}

// NewGuestCart creates an empty cart for an anonymous visitor
func NewGuestCart(guestID string, currency valueobject.Currency) (*Cart, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "Guest ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GuestID:           &guestID,
		Currency:          string(currency),
		Items:             make([]CartItem, 0),
	}, nil
}

// IsGuest reports whether the cart belongs to an anonymous visitor
func (c *Cart) IsGuest() bool {
	return c.UserID == nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the line for productID
func (c *Cart) FindItem(productID uuid.UUID) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// QuantityOf returns the quantity of productID already in the cart
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	if item, ok := c.FindItem(productID); ok {
		return item.Quantity
	}
	return 0
}

// AddItem adds qty units of a product, merging with an existing line.
// The line's price and weight are refreshed from the snapshot.
func (c *Cart) AddItem(p ProductSnapshot, qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if string(p.UnitPrice.Currency()) != c.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cart currency is %s but product is priced in %s", c.Currency, p.UnitPrice.Currency()))
	}

	if item, ok := c.FindItem(p.ProductID); ok {
		if item.Quantity+qty > MaxLineQuantity {
			return shared.NewDomainError("QUANTITY_LIMIT", fmt.Sprintf("Quantity per item cannot exceed %d", MaxLineQuantity))
		}
		item.Quantity += qty
		item.UnitPrice = p.UnitPrice.Amount()
		item.UnitWeight = p.Weight
		item.ProductName = p.Name
		item.SKU = p.SKU
		c.IncrementVersion()
		return nil
	}

	if qty > MaxLineQuantity {
		return shared.NewDomainError("QUANTITY_LIMIT", fmt.Sprintf("Quantity per item cannot exceed %d", MaxLineQuantity))
	}
	c.Items = append(c.Items, CartItem{
		ID:          uuid.New(),
		CartID:      c.ID,
		ProductID:   p.ProductID,
		SellerID:    p.SellerID,
		ProductName: p.Name,
		SKU:         p.SKU,
		UnitPrice:   p.UnitPrice.Amount(),
		UnitWeight:  p.Weight,
		Quantity:    qty,
	})
	c.IncrementVersion()
	return nil
}

// UpdateItemQuantity sets the quantity of a line; 0 removes it
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if qty == 0 {
		return c.RemoveItem(productID)
	}
	if qty > MaxLineQuantity {
		return shared.NewDomainError("QUANTITY_LIMIT", fmt.Sprintf("Quantity per item cannot exceed %d", MaxLineQuantity))
	}
	item, ok := c.FindItem(productID)
	if !ok {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in cart")
	}
	item.Quantity = qty
	c.IncrementVersion()
	return nil
}

// RemoveItem deletes the line for productID
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in cart")
}

// Clear removes every line
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.IncrementVersion()
}

// Subtotal sums line totals
func (c *Cart) Subtotal() valueobject.Money {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return valueobject.MustMoney(total, valueobject.Currency(c.Currency))
}

// TotalWeight sums line weights in kilograms
func (c *Cart) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineWeight())
	}
	return total
}

// ItemCount sums quantities across lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// ProductIDs lists the distinct products in the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// SellerIDs lists the distinct sellers in the cart, in line order
func (c *Cart) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, item := range c.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			ids = append(ids, item.SellerID)
		}
	}
	return ids
}

// MergeFrom folds another cart's lines into this one. Quantities of
// matching products are summed and capped at MaxLineQuantity. Lines in a
// different currency are skipped and returned.
func (c *Cart) MergeFrom(other *Cart) []CartItem {
	if other == nil {
		return nil
	}
	skipped := make([]CartItem, 0)
	if other.Currency != c.Currency {
		return append(skipped, other.Items...)
	}
	for _, src := range other.Items {
		if item, ok := c.FindItem(src.ProductID); ok {
			item.Quantity = min(item.Quantity+src.Quantity, MaxLineQuantity)
			continue
		}
		src.ID = uuid.New()
		src.CartID = c.ID
		src.Quantity = min(src.Quantity, MaxLineQuantity)
		c.Items = append(c.Items, src)
	}
	c.IncrementVersion()
	return skipped
}

// AssignToUser converts a guest cart into a user cart
func (c *Cart) AssignToUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_OWNER", "User ID cannot be empty")
	}
	if !c.IsGuest() {
		return shared.NewDomainError("INVALID_STATE", "Cart already belongs to a user")
	}
	c.UserID = &userID
	c.GuestID = nil
	c.IncrementVersion()
	return nil
}
