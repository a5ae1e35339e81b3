package seller

import (
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ApplyRequest is a seller application; it doubles as the profile update body
type ApplyRequest struct {
	StoreName    string              `json:"store_name" binding:"required,min=2,max=150"`
	Description  string              `json:"description" binding:"max=2000"`
	ContactEmail string              `json:"contact_email" binding:"omitempty,email,max=200"`
	Phone        string              `json:"phone" binding:"max=50"`
	Address      valueobject.Address `json:"address"`
}

// UpdateProfileRequest changes storefront details
type UpdateProfileRequest = ApplyRequest

func (r ApplyRequest) profile() seller.Profile {
	return seller.Profile{
		StoreName:    r.StoreName,
		Description:  r.Description,
		ContactEmail: r.ContactEmail,
		Phone:        r.Phone,
		Address:      r.Address,
	}
}

// ApproveRequest optionally overrides the commission rate on approval
type ApproveRequest struct {
	CommissionRate *float64 `json:"commission_rate" binding:"omitempty,min=0,max=100"`
}

// ReasonRequest carries a rejection or suspension reason
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SellerListFilter holds the admin seller listing query
type SellerListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected suspended"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SellerResponse is a seller in API responses
type SellerResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	StoreName      string              `json:"store_name"`
	Slug           string              `json:"slug"`
	Description    string              `json:"description,omitempty"`
	ContactEmail   string              `json:"contact_email,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	Address        valueobject.Address `json:"address"`
	CommissionRate decimal.Decimal     `json:"commission_rate"`
	Status         string              `json:"status"`
	StatusReason   string              `json:"status_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// PublicSellerResponse omits internal fields for storefront visitors
type PublicSellerResponse struct {
	ID          uuid.UUID `json:"id"`
	StoreName   string    `json:"store_name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	Since       time.Time `json:"since"`
}

// StorefrontResponse is a public seller page
type StorefrontResponse struct {
	Seller   PublicSellerResponse                          `json:"seller"`
	Products *shared.Paginated[catalogapp.ProductResponse] `json:"products"`
}

// ToSellerResponse converts a domain seller
func ToSellerResponse(s *seller.Seller) SellerResponse {
	return SellerResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		StoreName:      s.StoreName,
		Slug:           s.Slug,
		Description:    s.Description,
		ContactEmail:   s.ContactEmail,
		Phone:          s.Phone,
		Address:        s.Address,
		CommissionRate: s.CommissionRate,
		Status:         string(s.Status),
		StatusReason:   s.StatusReason,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toPublicSeller(s *seller.Seller) PublicSellerResponse {
	return PublicSellerResponse{
		ID:          s.ID,
		StoreName:   s.StoreName,
		Slug:        s.Slug,
		Description: s.Description,
		City:        s.Address.City,
		Country:     s.Address.Country,
		Since:       s.CreatedAt,
	}
}
