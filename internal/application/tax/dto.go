package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// TaxRateRequest creates or replaces a tax rate
type TaxRateRequest struct {
	Country         string          `json:"country" binding:"required,len=2"`
	State           string          `json:"state" binding:"max=100"`
	Name            string          `json:"name" binding:"required,max=100"`
	Rate            decimal.Decimal `json:"rate" binding:"required"`
	IncludeShipping bool            `json:"include_shipping"`
	IsActive        *bool           `json:"is_active"`
}

func (r TaxRateRequest) spec() tax.RateSpec {
	return tax.RateSpec{
		Country:         r.Country,
		State:           r.State,
		Name:            r.Name,
		Rate:            r.Rate,
		IncludeShipping: r.IncludeShipping,
	}
}

// TaxRateResponse is a tax rate in API responses
type TaxRateResponse struct {
	ID              uuid.UUID       `json:"id"`
	Country         string          `json:"country"`
	State           string          `json:"state,omitempty"`
	Name            string          `json:"name"`
	Rate            decimal.Decimal `json:"rate"`
	IncludeShipping bool            `json:"include_shipping"`
	IsActive        bool            `json:"is_active"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToTaxRateResponse converts a domain tax rate
func ToTaxRateResponse(t *tax.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		ID:              t.ID,
		Country:         t.Country,
		State:           t.State,
		Name:            t.Name,
		Rate:            t.Rate,
		IncludeShipping: t.IncludeShipping,
		IsActive:        t.IsActive,
		UpdatedAt:       t.UpdatedAt,
	}
}
