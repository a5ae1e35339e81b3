package shipping

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Method is a delivery service offered within a zone, e.g. "Standard" or "Express"
type Method struct {
	shared.BaseAggregateRoot
	ZoneID                uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name                  string           `gorm:"type:varchar(100);not null"`
	Code                  string           `gorm:"type:varchar(50);not null"`
	Carrier               string           `gorm:"type:varchar(100)"`
	Description           string           `gorm:"type:text"`
	MinDeliveryDays       int              `gorm:"not null;default:0"`
	MaxDeliveryDays       int              `gorm:"not null;default:0"`
	FreeShippingThreshold *decimal.Decimal `gorm:"type:decimal(18,2)"`
	IsActive              bool             `gorm:"not null"`
	SortOrder             int              `gorm:"not null;default:0"`
	Rates                 []Rate           `gorm:"foreignKey:MethodID;references:ID"`
}

// TableName returns the table name for GORM
func (Method) TableName() string {
	return "shipping_methods"
}

// MethodSpec holds the editable fields of a method
type MethodSpec struct {
	Name                  string
	Code                  string
	Carrier               string
	Description           string
	MinDeliveryDays       int
	MaxDeliveryDays       int
	FreeShippingThreshold *decimal.Decimal
	SortOrder             int
}

// NewMethod creates an active method in zoneID
func NewMethod(zoneID uuid.UUID, spec MethodSpec) (*Method, error) {
	if zoneID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ZONE", "Zone ID cannot be empty")
	}
	m := &Method{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ZoneID:            zoneID,
		IsActive:          true,
	}
	if err := m.Update(spec); err != nil {
		return nil, err
	}
	m.Version = 1
	return m, nil
}

// Update replaces the method's editable fields
func (m *Method) Update(spec MethodSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_METHOD_NAME", "Method name cannot be empty")
	}
	code := strings.ToLower(strings.TrimSpace(spec.Code))
	if code == "" {
		code = shared.Slugify(name)
	}
	if spec.MinDeliveryDays < 0 || spec.MaxDeliveryDays < spec.MinDeliveryDays {
		return shared.NewDomainError("INVALID_DELIVERY_DAYS", "Delivery days must satisfy 0 <= min <= max")
	}
	if spec.FreeShippingThreshold != nil && spec.FreeShippingThreshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Free shipping threshold cannot be negative")
	}
	m.Name = name
	m.Code = code
	m.Carrier = strings.TrimSpace(spec.Carrier)
	m.Description = strings.TrimSpace(spec.Description)
	m.MinDeliveryDays = spec.MinDeliveryDays
	m.MaxDeliveryDays = spec.MaxDeliveryDays
	m.FreeShippingThreshold = spec.FreeShippingThreshold
	m.SortOrder = spec.SortOrder
	m.IncrementVersion()
	return nil
}

// SetActive toggles the method
func (m *Method) SetActive(active bool) {
	m.IsActive = active
	m.IncrementVersion()
}

// QualifiesForFreeShipping reports whether subtotal reaches the threshold
func (m *Method) QualifiesForFreeShipping(subtotal decimal.Decimal) bool {
	return m.FreeShippingThreshold != nil && subtotal.GreaterThanOrEqual(*m.FreeShippingThreshold)
}

// RateType selects how a rate computes its cost
type RateType string

const (
	RateTypeFlat     RateType = "flat"
	RateTypeWeight   RateType = "weight_based"
	RateTypePrice    RateType = "price_based"
	RateTypeDistance RateType = "distance_based"
	RateTypeFree     RateType = "free"
	RateTypeItem     RateType = "item_based"
)

// IsValid checks if the rate type is known
func (t RateType) IsValid() bool {
	switch t {
	case RateTypeFlat, RateTypeWeight, RateTypePrice, RateTypeDistance, RateTypeFree, RateTypeItem:
		return true
	}
	return false
}

// Rate is a pricing rule of a method. MinValue/MaxValue bracket the
// rate's measure: weight for weight_based, distance for distance_based,
// item count for item_based and subtotal for the other types. The
// bracket is min-inclusive and max-exclusive; nil bounds are open.
type Rate struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MethodID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type          RateType         `gorm:"type:varchar(20);not null"`
	MinValue      *decimal.Decimal `gorm:"type:decimal(18,3)"`
	MaxValue      *decimal.Decimal `gorm:"type:decimal(18,3)"`
	BaseAmount    decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	PerUnitAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Percentage    decimal.Decimal  `gorm:"type:decimal(7,4);not null;default:0"`
	IsActive      bool             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Rate) TableName() string {
	return "shipping_rates"
}

// RateSpec holds the editable fields of a rate
type RateSpec struct {
	Type          RateType
	MinValue      *decimal.Decimal
	MaxValue      *decimal.Decimal
	BaseAmount    decimal.Decimal
	PerUnitAmount decimal.Decimal
	Percentage    decimal.Decimal
}

// NewRate creates an active rate for methodID
func NewRate(methodID uuid.UUID, spec RateSpec) (*Rate, error) {
	if methodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_METHOD", "Method ID cannot be empty")
	}
	r := &Rate{ID: uuid.New(), MethodID: methodID, IsActive: true}
	if err := r.Update(spec); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the rate's editable fields
func (r *Rate) Update(spec RateSpec) error {
	if !spec.Type.IsValid() {
		return shared.NewDomainError("INVALID_RATE_TYPE", "Unknown rate type: "+string(spec.Type))
	}
	if spec.BaseAmount.IsNegative() || spec.PerUnitAmount.IsNegative() || spec.Percentage.IsNegative() {
		return shared.NewDomainError("INVALID_RATE_AMOUNT", "Rate amounts cannot be negative")
	}
	if spec.MinValue != nil && spec.MinValue.IsNegative() {
		return shared.NewDomainError("INVALID_RATE_BRACKET", "Bracket minimum cannot be negative")
	}
	if spec.MinValue != nil && spec.MaxValue != nil && !spec.MaxValue.GreaterThan(*spec.MinValue) {
		return shared.NewDomainError("INVALID_RATE_BRACKET", "Bracket maximum must be greater than minimum")
	}
	r.Type = spec.Type
	r.MinValue = spec.MinValue
	r.MaxValue = spec.MaxValue
	r.BaseAmount = spec.BaseAmount
	r.PerUnitAmount = spec.PerUnitAmount
	r.Percentage = spec.Percentage
	return nil
}

// measure picks the quantity the rate brackets and charges on.
// ok is false when the measure is unknown (distance without coordinates).
func (r *Rate) measure(in QuoteInput) (decimal.Decimal, bool) {
	switch r.Type {
	case RateTypeWeight:
		return in.Weight, true
	case RateTypeDistance:
		if in.DistanceKm == nil {
			return decimal.Zero, false
		}
		return *in.DistanceKm, true
	case RateTypeItem:
		return decimal.NewFromInt(int64(in.ItemCount)), true
	default:
		return in.Subtotal, true
	}
}

// Applies reports whether the rate's bracket covers the input
func (r *Rate) Applies(in QuoteInput) bool {
	if !r.IsActive {
		return false
	}
	v, ok := r.measure(in)
	if !ok {
		return false
	}
	if r.MinValue != nil && v.LessThan(*r.MinValue) {
		return false
	}
	if r.MaxValue != nil && !v.LessThan(*r.MaxValue) {
		return false
	}
	return true
}

// Cost computes the rate's price for the input, before holiday
// adjustments and free-shipping thresholds
func (r *Rate) Cost(in QuoteInput) decimal.Decimal {
	v, _ := r.measure(in)
	switch r.Type {
	case RateTypeFree:
		return decimal.Zero
	case RateTypeFlat:
		return r.BaseAmount
	case RateTypePrice:
		return r.BaseAmount.Add(v.Mul(r.Percentage).Div(decimal.NewFromInt(100)))
	default:
		return r.BaseAmount.Add(r.PerUnitAmount.Mul(v))
	}
}
