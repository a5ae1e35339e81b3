package order

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// IsValid checks the status value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is one purchased product line
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"seller_id"`
	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name"`
	SKU         string          `gorm:"column:sku;type:varchar(64)" json:"sku"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// Order is a confirmed purchase produced by a completed checkout
type Order struct {
	shared.BaseAggregateRoot
	Number            string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	UserID            *uuid.UUID `gorm:"type:uuid;index"`
	GuestID           *string    `gorm:"type:varchar(64)"`
	Email             string     `gorm:"type:varchar(255);index"`
	CheckoutSessionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items             []Item     `gorm:"foreignKey:OrderID;references:ID"`

	ShippingAddress    valueobject.Address `gorm:"embedded;embeddedPrefix:ship_"`
	BillingAddress     valueobject.Address `gorm:"embedded;embeddedPrefix:bill_"`
	ShippingMethodID   *uuid.UUID          `gorm:"type:uuid"`
	ShippingMethodName string              `gorm:"type:varchar(100)"`
	ShippingCarrier    string              `gorm:"type:varchar(100)"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency     string          `gorm:"type:varchar(3);not null"`

	Status         Status `gorm:"type:varchar(20);not null;index"`
	TrackingNumber string `gorm:"type:varchar(100)"`
	CancelReason   string `gorm:"type:varchar(500)"`
	PaidAt         *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderFromCheckout builds a pending order from a session that is ready
// to complete. Expiry and completing the session are left to the caller.
func NewOrderFromCheckout(s *checkout.Session) (*Order, error) {
	if err := s.ReadyToComplete(); err != nil {
		return nil, err
	}
	o := &Order{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Email:              s.Email,
		CheckoutSessionID:  s.ID,
		ShippingAddress:    s.ShippingAddress,
		BillingAddress:     s.BillingAddress,
		ShippingMethodID:   s.ShippingMethodID,
		ShippingMethodName: s.ShippingMethodName,
		ShippingCarrier:    s.ShippingCarrier,
		Subtotal:           s.Subtotal,
		ShippingCost:       s.ShippingCost,
		TaxAmount:          s.TaxAmount,
		Total:              s.Total,
		Currency:           s.Currency,
		Status:             StatusPending,
	}
	number, err := GenerateNumber(o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Number = number
	if s.UserID != nil {
		uid := *s.UserID
		o.UserID = &uid
	} else if s.GuestID != nil {
		gid := *s.GuestID
		o.GuestID = &gid
	}
	o.Items = make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		o.Items = append(o.Items, Item{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			SellerID:    it.SellerID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal().Round(2),
		})
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateNumber returns an order number of the form ORD-YYYYMMDD-XXXXXXXX
func GenerateNumber(at time.Time) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("ORD-")
	sb.WriteString(at.UTC().Format("20060102"))
	sb.WriteByte('-')
	for _, b := range buf {
		sb.WriteByte(numberAlphabet[int(b)%len(numberAlphabet)])
	}
	return sb.String(), nil
}

// IsGuest reports whether the order was placed without an account
func (o *Order) IsGuest() bool {
	return o.UserID == nil
}

// OwnedBy reports whether userID placed the order
func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}

// MatchesGuest reports whether email is the order's contact email
func (o *Order) MatchesGuest(email string) bool {
	return email != "" && strings.EqualFold(o.Email, strings.TrimSpace(email))
}

// MarkPaid records payment
func (o *Order) MarkPaid() error {
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending orders can be marked as paid")
	}
	t := time.Now()
	o.PaidAt = &t
	o.Status = StatusPaid
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// MarkShipped records dispatch with an optional tracking number
func (o *Order) MarkShipped(tracking string) error {
	if o.Status != StatusPaid && o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending or paid orders can be shipped")
	}
	t := time.Now()
	o.ShippedAt = &t
	o.TrackingNumber = strings.TrimSpace(tracking)
	o.Status = StatusShipped
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderShippedEvent(o))
	return nil
}

// MarkDelivered closes a shipped order
func (o *Order) MarkDelivered() error {
	if o.Status != StatusShipped {
		return shared.NewDomainError("INVALID_STATE", "Only shipped orders can be delivered")
	}
	t := time.Now()
	o.DeliveredAt = &t
	o.Status = StatusDelivered
	o.IncrementVersion()
	return nil
}

// Cancel cancels a pending or paid order
func (o *Order) Cancel(reason string) error {
	if o.Status != StatusPending && o.Status != StatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Only pending or paid orders can be cancelled")
	}
	t := time.Now()
	o.CancelledAt = &t
	o.CancelReason = strings.TrimSpace(reason)
	o.Status = StatusCancelled
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// TransitionTo applies an admin status change through the regular transitions
func (o *Order) TransitionTo(status Status, note string) error {
	switch status {
	case StatusPaid:
		return o.MarkPaid()
	case StatusShipped:
		return o.MarkShipped(note)
	case StatusDelivered:
		return o.MarkDelivered()
	case StatusCancelled:
		return o.Cancel(note)
	}
	return shared.NewDomainError("INVALID_STATUS", "Unsupported target status: "+string(status))
}

// SellerIDs returns the distinct sellers in the order
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.SellerID]; ok {
			continue
		}
		seen[it.SellerID] = struct{}{}
		ids = append(ids, it.SellerID)
	}
	return ids
}

// HasSeller reports whether sellerID supplied any item
func (o *Order) HasSeller(sellerID uuid.UUID) bool {
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

// ItemsForSeller returns the lines supplied by sellerID
func (o *Order) ItemsForSeller(sellerID uuid.UUID) []Item {
	var items []Item
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			items = append(items, it)
		}
	}
	return items
}

// SellerSubtotal sums the lines supplied by sellerID
func (o *Order) SellerSubtotal(sellerID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.ItemsForSeller(sellerID) {
		total = total.Add(it.LineTotal)
	}
	return total
}
