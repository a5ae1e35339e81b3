package seller

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the approval state of a seller account
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

// DefaultCommissionRate is applied to new applications, in percent
var DefaultCommissionRate = decimal.NewFromInt(10)

// Seller is a storefront operated by a registered user
type Seller struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	StoreName      string              `gorm:"type:varchar(150);not null"`
	Slug           string              `gorm:"type:varchar(170);not null;uniqueIndex"`
	Description    string              `gorm:"type:text"`
	ContactEmail   string              `gorm:"type:varchar(200)"`
	Phone          string              `gorm:"type:varchar(50)"`
	Address        valueobject.Address `gorm:"embedded;embeddedPrefix:address_"`
	CommissionRate decimal.Decimal     `gorm:"type:decimal(5,2);not null;default:10"`
	Status         Status              `gorm:"type:varchar(20);not null;default:'pending';index"`
	StatusReason   string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// Profile holds the seller-editable storefront fields
type Profile struct {
	StoreName    string
	Description  string
	ContactEmail string
	Phone        string
	Address      valueobject.Address
}

// NewSeller creates a pending seller application for userID
func NewSeller(userID uuid.UUID, profile Profile) (*Seller, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	s := &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		CommissionRate:    DefaultCommissionRate,
		Status:            StatusPending,
	}
	if err := s.applyProfile(profile); err != nil {
		return nil, err
	}
	s.AddDomainEvent(NewSellerAppliedEvent(s))
	return s, nil
}

func (s *Seller) applyProfile(p Profile) error {
	name := strings.TrimSpace(p.StoreName)
	if name == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(name) > 150 {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 150 characters")
	}
	slug := shared.Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name must contain letters or digits")
	}
	addr := p.Address.Normalize()
	if !addr.IsZero() {
		if err := addr.Validate(); err != nil {
			return shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
	}
	s.StoreName = name
	s.Slug = slug
	s.Description = strings.TrimSpace(p.Description)
	s.ContactEmail = strings.ToLower(strings.TrimSpace(p.ContactEmail))
	s.Phone = strings.TrimSpace(p.Phone)
	s.Address = addr
	return nil
}

// UpdateProfile changes storefront details. The slug follows the store name.
func (s *Seller) UpdateProfile(p Profile) error {
	if err := s.applyProfile(p); err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

// SetCommissionRate sets the marketplace commission in percent
func (s *Seller) SetCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission rate must be between 0 and 100")
	}
	s.CommissionRate = rate
	s.IncrementVersion()
	return nil
}

// Approve allows the seller to list products
func (s *Seller) Approve() error {
	if s.Status != StatusPending && s.Status != StatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Only pending or rejected sellers can be approved")
	}
	s.Status = StatusApproved
	s.StatusReason = ""
	s.IncrementVersion()
	s.AddDomainEvent(NewSellerStatusChangedEvent(s))
	return nil
}

// Reject declines a pending application
func (s *Seller) Reject(reason string) error {
	if s.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending sellers can be rejected")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A rejection reason is required")
	}
	s.Status = StatusRejected
	s.StatusReason = strings.TrimSpace(reason)
	s.IncrementVersion()
	s.AddDomainEvent(NewSellerStatusChangedEvent(s))
	return nil
}

// Suspend stops an approved seller from selling
func (s *Seller) Suspend(reason string) error {
	if s.Status != StatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved sellers can be suspended")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A suspension reason is required")
	}
	s.Status = StatusSuspended
	s.StatusReason = strings.TrimSpace(reason)
	s.IncrementVersion()
	s.AddDomainEvent(NewSellerStatusChangedEvent(s))
	return nil
}

// Reinstate returns a suspended seller to approved
func (s *Seller) Reinstate() error {
	if s.Status != StatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended sellers can be reinstated")
	}
	s.Status = StatusApproved
	s.StatusReason = ""
	s.IncrementVersion()
	s.AddDomainEvent(NewSellerStatusChangedEvent(s))
	return nil
}

// CanSell reports whether the seller may manage and sell products
func (s *Seller) CanSell() bool {
	return s.Status == StatusApproved
}

// Commission returns the marketplace share of amount
func (s *Seller) Commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}
