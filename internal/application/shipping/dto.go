package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of holiday dates
const DateLayout = "2006-01-02"

// ZoneRequest creates or replaces a zone
type ZoneRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Countries   []string `json:"countries" binding:"dive,max=2"`
	States      []string `json:"states" binding:"dive,max=100"`
	Cities      []string `json:"cities" binding:"dive,max=100"`
	PostalCodes []string `json:"postal_codes" binding:"dive,max=41"`
	Priority    int      `json:"priority"`
	IsActive    *bool    `json:"is_active"`
}

func (r ZoneRequest) rules() shipping.ZoneRules {
	return shipping.ZoneRules{
		Countries:   r.Countries,
		States:      r.States,
		Cities:      r.Cities,
		PostalCodes: r.PostalCodes,
	}
}

// MethodRequest creates or replaces a method
type MethodRequest struct {
	Name                  string           `json:"name" binding:"required,max=100"`
	Code                  string           `json:"code" binding:"max=50"`
	Carrier               string           `json:"carrier" binding:"max=100"`
	Description           string           `json:"description" binding:"max=1000"`
	MinDeliveryDays       int              `json:"min_delivery_days" binding:"min=0"`
	MaxDeliveryDays       int              `json:"max_delivery_days" binding:"min=0"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold"`
	SortOrder             int              `json:"sort_order"`
	IsActive              *bool            `json:"is_active"`
}

func (r MethodRequest) spec() shipping.MethodSpec {
	return shipping.MethodSpec{
		Name:                  r.Name,
		Code:                  r.Code,
		Carrier:               r.Carrier,
		Description:           r.Description,
		MinDeliveryDays:       r.MinDeliveryDays,
		MaxDeliveryDays:       r.MaxDeliveryDays,
		FreeShippingThreshold: r.FreeShippingThreshold,
		SortOrder:             r.SortOrder,
	}
}

// RateRequest creates or replaces a rate
type RateRequest struct {
	Type          string           `json:"type" binding:"required,oneof=flat weight_based price_based distance_based free item_based"`
	MinValue      *decimal.Decimal `json:"min_value"`
	MaxValue      *decimal.Decimal `json:"max_value"`
	BaseAmount    decimal.Decimal  `json:"base_amount"`
	PerUnitAmount decimal.Decimal  `json:"per_unit_amount"`
	Percentage    decimal.Decimal  `json:"percentage"`
	IsActive      *bool            `json:"is_active"`
}

func (r RateRequest) spec() shipping.RateSpec {
	return shipping.RateSpec{
		Type:          shipping.RateType(r.Type),
		MinValue:      r.MinValue,
		MaxValue:      r.MaxValue,
		BaseAmount:    r.BaseAmount,
		PerUnitAmount: r.PerUnitAmount,
		Percentage:    r.Percentage,
	}
}

// HolidayRequest creates or replaces a holiday rate
type HolidayRequest struct {
	MethodID          *uuid.UUID      `json:"method_id"`
	Name              string          `json:"name" binding:"required,max=100"`
	StartDate         string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate           string          `json:"end_date" binding:"required,datetime=2006-01-02"`
	AdjustmentType    string          `json:"adjustment_type" binding:"required,oneof=fixed percentage override"`
	Amount            decimal.Decimal `json:"amount"`
	ExtraDeliveryDays int             `json:"extra_delivery_days" binding:"min=0"`
	IsActive          *bool           `json:"is_active"`
}

func (r HolidayRequest) spec() (shipping.HolidaySpec, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return shipping.HolidaySpec{}, err
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return shipping.HolidaySpec{}, err
	}
	return shipping.HolidaySpec{
		MethodID:          r.MethodID,
		Name:              r.Name,
		StartDate:         start,
		EndDate:           end,
		AdjustmentType:    shipping.AdjustmentType(r.AdjustmentType),
		Amount:            r.Amount,
		ExtraDeliveryDays: r.ExtraDeliveryDays,
	}, nil
}

// ZoneResponse is a zone in API responses
type ZoneResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Countries   []string         `json:"countries"`
	States      []string         `json:"states"`
	Cities      []string         `json:"cities"`
	PostalCodes []string         `json:"postal_codes"`
	Priority    int              `json:"priority"`
	IsActive    bool             `json:"is_active"`
	Methods     []MethodResponse `json:"methods,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// MethodResponse is a method in API responses
type MethodResponse struct {
	ID                    uuid.UUID        `json:"id"`
	ZoneID                uuid.UUID        `json:"zone_id"`
	Name                  string           `json:"name"`
	Code                  string           `json:"code"`
	Carrier               string           `json:"carrier,omitempty"`
	Description           string           `json:"description,omitempty"`
	MinDeliveryDays       int              `json:"min_delivery_days"`
	MaxDeliveryDays       int              `json:"max_delivery_days"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	SortOrder             int              `json:"sort_order"`
	IsActive              bool             `json:"is_active"`
	Rates                 []RateResponse   `json:"rates"`
}

// RateResponse is a rate in API responses
type RateResponse struct {
	ID            uuid.UUID        `json:"id"`
	MethodID      uuid.UUID        `json:"method_id"`
	Type          string           `json:"type"`
	MinValue      *decimal.Decimal `json:"min_value,omitempty"`
	MaxValue      *decimal.Decimal `json:"max_value,omitempty"`
	BaseAmount    decimal.Decimal  `json:"base_amount"`
	PerUnitAmount decimal.Decimal  `json:"per_unit_amount"`
	Percentage    decimal.Decimal  `json:"percentage"`
	IsActive      bool             `json:"is_active"`
}

// HolidayResponse is a holiday rate in API responses
type HolidayResponse struct {
	ID                uuid.UUID       `json:"id"`
	MethodID          *uuid.UUID      `json:"method_id,omitempty"`
	Name              string          `json:"name"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	AdjustmentType    string          `json:"adjustment_type"`
	Amount            decimal.Decimal `json:"amount"`
	ExtraDeliveryDays int             `json:"extra_delivery_days"`
	IsActive          bool            `json:"is_active"`
}

// ToZoneResponse converts a zone and any loaded methods
func ToZoneResponse(z *shipping.Zone) ZoneResponse {
	resp := ZoneResponse{
		ID:          z.ID,
		Name:        z.Name,
		Countries:   z.Countries,
		States:      z.States,
		Cities:      z.Cities,
		PostalCodes: z.PostalCodes,
		Priority:    z.Priority,
		IsActive:    z.IsActive,
		CreatedAt:   z.CreatedAt,
	}
	for i := range z.Methods {
		resp.Methods = append(resp.Methods, ToMethodResponse(&z.Methods[i]))
	}
	return resp
}

// ToMethodResponse converts a method with its rates
func ToMethodResponse(m *shipping.Method) MethodResponse {
	rates := make([]RateResponse, len(m.Rates))
	for i := range m.Rates {
		rates[i] = ToRateResponse(&m.Rates[i])
	}
	return MethodResponse{
		ID:                    m.ID,
		ZoneID:                m.ZoneID,
		Name:                  m.Name,
		Code:                  m.Code,
		Carrier:               m.Carrier,
		Description:           m.Description,
		MinDeliveryDays:       m.MinDeliveryDays,
		MaxDeliveryDays:       m.MaxDeliveryDays,
		FreeShippingThreshold: m.FreeShippingThreshold,
		SortOrder:             m.SortOrder,
		IsActive:              m.IsActive,
		Rates:                 rates,
	}
}

// ToRateResponse converts a rate
func ToRateResponse(r *shipping.Rate) RateResponse {
	return RateResponse{
		ID:            r.ID,
		MethodID:      r.MethodID,
		Type:          string(r.Type),
		MinValue:      r.MinValue,
		MaxValue:      r.MaxValue,
		BaseAmount:    r.BaseAmount,
		PerUnitAmount: r.PerUnitAmount,
		Percentage:    r.Percentage,
		IsActive:      r.IsActive,
	}
}

// ToHolidayResponse converts a holiday rate
func ToHolidayResponse(h *shipping.HolidayRate) HolidayResponse {
	return HolidayResponse{
		ID:                h.ID,
		MethodID:          h.MethodID,
		Name:              h.Name,
		StartDate:         h.StartDate.Format(DateLayout),
		EndDate:           h.EndDate.Format(DateLayout),
		AdjustmentType:    string(h.AdjustmentType),
		Amount:            h.Amount,
		ExtraDeliveryDays: h.ExtraDeliveryDays,
		IsActive:          h.IsActive,
	}
}

// CalculateOptionsRequest quotes shipping for either a checkout session or
// an explicit shipment
type CalculateOptionsRequest struct {
	CheckoutSessionID *uuid.UUID           `json:"checkout_session_id"`
	Address           *valueobject.Address `json:"address"`
	Subtotal          decimal.Decimal      `json:"subtotal"`
	Currency          string               `json:"currency" binding:"omitempty,len=3"`
	Weight            decimal.Decimal      `json:"weight"`
	ItemCount         int                  `json:"item_count" binding:"min=0"`
	DistanceKm        *decimal.Decimal     `json:"distance_km"`
}

// QuoteResponse lists the priced options for a destination
type QuoteResponse struct {
	ZoneID   uuid.UUID         `json:"zone_id"`
	ZoneName string            `json:"zone_name"`
	Currency string            `json:"currency"`
	Options  []shipping.Option `json:"options"`
}

// ToQuoteResponse converts a calculator quote
func ToQuoteResponse(q *shipping.Quote, currency string) *QuoteResponse {
	resp := &QuoteResponse{Currency: currency, Options: q.Options}
	if q.Zone != nil {
		resp.ZoneID = q.Zone.ID
		resp.ZoneName = q.Zone.Name
	}
	return resp
}
