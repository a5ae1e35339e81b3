package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DefaultSessionTTL is how long a session stays open without activity
const DefaultSessionTTL = 30 * time.Minute

// Status is the checkout session lifecycle state
type Status string

const (
	StatusInitiated        Status = "initiated"
	StatusAddressProvided  Status = "address_provided"
	StatusShippingSelected Status = "shipping_selected"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
	StatusExpired          Status = "expired"
)

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

var (
	ErrCheckoutExpired    = shared.NewDomainError("CHECKOUT_EXPIRED", "Checkout session has expired")
	ErrCheckoutClosed     = shared.NewDomainError("CHECKOUT_CLOSED", "Checkout session is no longer open")
	ErrCheckoutEmpty      = shared.NewDomainError("CHECKOUT_EMPTY", "Cannot check out an empty cart")
	ErrAddressRequired    = shared.NewDomainError("CHECKOUT_ADDRESS_REQUIRED", "A shipping address is required first")
	ErrShippingRequired   = shared.NewDomainError("CHECKOUT_SHIPPING_REQUIRED", "A shipping method must be selected first")
	ErrEmailRequired      = shared.NewDomainError("CHECKOUT_EMAIL_REQUIRED", "A contact email is required for guest checkout")
	ErrCurrencyMismatched = shared.NewDomainError("CHECKOUT_CURRENCY_MISMATCH", "Shipping option currency does not match the session")
)

// Item is a snapshot of a cart line taken when the session starts
type Item struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	Quantity    int             `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Owner identifies who a session belongs to
type Owner struct {
	UserID  *uuid.UUID
	GuestID string
	Email   string
}

// Session is a server-side checkout in progress
type Session struct {
	shared.BaseAggregateRoot
	UserID  *uuid.UUID `gorm:"type:uuid;index"`
	GuestID *string    `gorm:"type:varchar(64);index"`
	Email   string     `gorm:"type:varchar(255)"`
	CartID  uuid.UUID  `gorm:"type:uuid;not null;index"`

	Items datatypes.JSONSlice[Item] `gorm:"type:json;not null"`

	ShippingAddress valueobject.Address `gorm:"embedded;embeddedPrefix:ship_"`
	BillingAddress  valueobject.Address `gorm:"embedded;embeddedPrefix:bill_"`

	ShippingMethodID   *uuid.UUID `gorm:"type:uuid"`
	ShippingMethodName string     `gorm:"type:varchar(100)"`
	ShippingCarrier    string     `gorm:"type:varchar(100)"`
	MinDeliveryDays    int
	MaxDeliveryDays    int

	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency     string          `gorm:"type:varchar(3);not null"`

	Status      Status     `gorm:"type:varchar(20);not null;index"`
	TTLSeconds  int        `gorm:"not null"`
	ExpiresAt   time.Time  `gorm:"not null;index"`
	OrderID     *uuid.UUID `gorm:"type:uuid"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Session) TableName() string {
	return "checkout_sessions"
}

// NewSession starts a checkout for owner over a snapshot of cart items.
// The session expires ttl after at.
func NewSession(owner Owner, cartID uuid.UUID, currency string, items []Item, ttl time.Duration, at time.Time) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrCheckoutEmpty
	}
	if cartID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CART", "Cart ID cannot be empty")
	}
	guestID := strings.TrimSpace(owner.GuestID)
	if owner.UserID == nil && guestID == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "A guest ID is required without a user")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
	}

	s := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CartID:            cartID,
		Items:             datatypes.JSONSlice[Item](items),
		Currency:          currency,
		Status:            StatusInitiated,
		TTLSeconds:        int(ttl / time.Second),
	}
	if owner.UserID != nil {
		uid := *owner.UserID
		s.UserID = &uid
	} else {
		s.GuestID = &guestID
	}
	if owner.Email != "" {
		if err := s.setEmail(owner.Email); err != nil {
			return nil, err
		}
	}
	for _, it := range items {
		s.Subtotal = s.Subtotal.Add(it.LineTotal())
	}
	s.Subtotal = s.Subtotal.Round(2)
	s.recalculate()
	s.refreshExpiry(at)

	s.AddDomainEvent(NewSessionInitiatedEvent(s))
	return s, nil
}

// IsGuest reports whether the session has no registered owner
func (s *Session) IsGuest() bool {
	return s.UserID == nil
}

// BelongsTo reports whether the session is owned by the user or guest
func (s *Session) BelongsTo(userID *uuid.UUID, guestID string) bool {
	if s.UserID != nil {
		return userID != nil && *s.UserID == *userID
	}
	return s.GuestID != nil && guestID != "" && *s.GuestID == guestID
}

// IsExpired reports whether the session timed out at t
func (s *Session) IsExpired(t time.Time) bool {
	if s.Status == StatusExpired {
		return true
	}
	return !s.Status.IsTerminal() && t.After(s.ExpiresAt)
}

// IsOpen reports whether the session still accepts changes at t
func (s *Session) IsOpen(t time.Time) bool {
	return !s.Status.IsTerminal() && !s.IsExpired(t)
}

// HasAddress reports whether a shipping address was provided
func (s *Session) HasAddress() bool {
	return !s.ShippingAddress.IsZero()
}

// HasShipping reports whether a shipping method was selected
func (s *Session) HasShipping() bool {
	return s.ShippingMethodID != nil
}

// TotalWeight sums line weights
func (s *Session) TotalWeight() decimal.Decimal {
	w := decimal.Zero
	for _, it := range s.Items {
		w = w.Add(it.UnitWeight.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return w
}

// ItemCount sums line quantities
func (s *Session) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// QuoteInput builds the shipping calculator input for the session
func (s *Session) QuoteInput(distanceKm *decimal.Decimal, date time.Time) shipping.QuoteInput {
	return shipping.QuoteInput{
		Destination: s.ShippingAddress,
		Subtotal:    s.Subtotal,
		Currency:    s.Currency,
		Weight:      s.TotalWeight(),
		ItemCount:   s.ItemCount(),
		DistanceKm:  distanceKm,
		Date:        date,
	}
}

// SetContactEmail records the email used for order notifications
func (s *Session) SetContactEmail(email string, at time.Time) error {
	if err := s.EnsureOpen(at); err != nil {
		return err
	}
	if err := s.setEmail(email); err != nil {
		return err
	}
	s.touch(at)
	return nil
}

func (s *Session) setEmail(email string) error {
	email = identity.NormalizeEmail(email)
	if err := identity.ValidateEmail(email); err != nil {
		return err
	}
	s.Email = email
	return nil
}

// SetAddresses stores shipping and billing addresses. Billing defaults to
// shipping. Any selected shipping method is dropped since rates depend on
// the destination.
func (s *Session) SetAddresses(ship valueobject.Address, bill *valueobject.Address, at time.Time) error {
	if err := s.EnsureOpen(at); err != nil {
		return err
	}
	ship = ship.Normalize()
	if err := ship.Validate(); err != nil {
		return shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	billing := ship
	if bill != nil && !bill.IsZero() {
		billing = bill.Normalize()
		if err := billing.Validate(); err != nil {
			return shared.NewDomainError("INVALID_BILLING_ADDRESS", err.Error())
		}
	}

	s.ShippingAddress = ship
	s.BillingAddress = billing
	s.clearShipping()
	s.TaxAmount = decimal.Zero
	s.Status = StatusAddressProvided
	s.recalculate()
	s.touch(at)
	return nil
}

// SelectShipping applies a priced shipping option
func (s *Session) SelectShipping(opt shipping.Option, at time.Time) error {
	if err := s.EnsureOpen(at); err != nil {
		return err
	}
	if !s.HasAddress() {
		return ErrAddressRequired
	}
	if opt.Currency != "" && opt.Currency != s.Currency {
		return ErrCurrencyMismatched
	}
	methodID := opt.MethodID
	s.ShippingMethodID = &methodID
	s.ShippingMethodName = opt.Name
	s.ShippingCarrier = opt.Carrier
	s.MinDeliveryDays = opt.MinDeliveryDays
	s.MaxDeliveryDays = opt.MaxDeliveryDays
	s.ShippingCost = opt.Cost.Round(2)
	s.Status = StatusShippingSelected
	s.recalculate()
	s.touch(at)
	return nil
}

// ApplyTax sets the tax amount and recomputes the total
func (s *Session) ApplyTax(amount decimal.Decimal, at time.Time) error {
	if err := s.EnsureOpen(at); err != nil {
		return err
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}
	s.TaxAmount = amount.Round(2)
	s.recalculate()
	s.touch(at)
	return nil
}

// CanComplete checks every precondition of Complete at t without changing
// state
func (s *Session) CanComplete(t time.Time) error {
	if err := s.EnsureOpen(t); err != nil {
		return err
	}
	return s.ReadyToComplete()
}

// ReadyToComplete checks the status and required details, ignoring expiry
func (s *Session) ReadyToComplete() error {
	if s.Status.IsTerminal() {
		return ErrCheckoutClosed
	}
	if s.Status != StatusShippingSelected || !s.HasShipping() {
		return ErrShippingRequired
	}
	if s.IsGuest() && s.Email == "" {
		return ErrEmailRequired
	}
	return nil
}

// Complete closes the session with the order it produced
func (s *Session) Complete(orderID uuid.UUID, at time.Time) error {
	if err := s.CanComplete(at); err != nil {
		return err
	}
	s.OrderID = &orderID
	s.CompletedAt = &at
	s.Status = StatusCompleted
	s.IncrementVersion()
	s.AddDomainEvent(NewSessionCompletedEvent(s))
	return nil
}

// Cancel abandons an open session
func (s *Session) Cancel() error {
	if s.Status.IsTerminal() {
		return ErrCheckoutClosed
	}
	s.Status = StatusCancelled
	s.IncrementVersion()
	s.AddDomainEvent(NewSessionCancelledEvent(s))
	return nil
}

// Expire marks a timed-out session as expired
func (s *Session) Expire() error {
	if s.Status.IsTerminal() {
		return ErrCheckoutClosed
	}
	s.Status = StatusExpired
	s.IncrementVersion()
	return nil
}

// AssignToUser moves a guest session to a registered user
func (s *Session) AssignToUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_OWNER", "User ID cannot be empty")
	}
	if !s.IsGuest() {
		return shared.NewDomainError("ALREADY_OWNED", "Session already belongs to a user")
	}
	s.UserID = &userID
	s.GuestID = nil
	s.IncrementVersion()
	return nil
}

// EnsureOpen returns ErrCheckoutExpired or ErrCheckoutClosed unless the
// session still accepts changes at t
func (s *Session) EnsureOpen(t time.Time) error {
	if s.Status == StatusExpired {
		return ErrCheckoutExpired
	}
	if s.Status.IsTerminal() {
		return ErrCheckoutClosed
	}
	if s.IsExpired(t) {
		return ErrCheckoutExpired
	}
	return nil
}

func (s *Session) clearShipping() {
	s.ShippingMethodID = nil
	s.ShippingMethodName = ""
	s.ShippingCarrier = ""
	s.MinDeliveryDays = 0
	s.MaxDeliveryDays = 0
	s.ShippingCost = decimal.Zero
}

func (s *Session) recalculate() {
	s.Total = s.Subtotal.Add(s.ShippingCost).Add(s.TaxAmount).Round(2)
}

func (s *Session) refreshExpiry(at time.Time) {
	s.ExpiresAt = at.Add(time.Duration(s.TTLSeconds) * time.Second)
}

func (s *Session) touch(at time.Time) {
	s.refreshExpiry(at)
	s.IncrementVersion()
}
