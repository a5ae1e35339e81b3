package shipping

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentType selects how a holiday rate changes the computed cost
type AdjustmentType string

const (
	AdjustmentFixed      AdjustmentType = "fixed"      // adds Amount
	AdjustmentPercentage AdjustmentType = "percentage" // adds Amount% of the cost
	AdjustmentOverride   AdjustmentType = "override"   // replaces the cost with Amount
)

// IsValid checks if the adjustment type is known
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentFixed, AdjustmentPercentage, AdjustmentOverride:
		return true
	}
	return false
}

// HolidayRate temporarily adjusts shipping prices and delivery estimates.
// A nil MethodID applies to every method. Dates are inclusive and compared
// by calendar day in UTC.
type HolidayRate struct {
	shared.BaseAggregateRoot
	MethodID          *uuid.UUID      `gorm:"type:uuid;index"`
	Name              string          `gorm:"type:varchar(100);not null"`
	StartDate         time.Time       `gorm:"type:date;not null"`
	EndDate           time.Time       `gorm:"type:date;not null"`
	AdjustmentType    AdjustmentType  `gorm:"type:varchar(20);not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ExtraDeliveryDays int             `gorm:"not null;default:0"`
	IsActive          bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (HolidayRate) TableName() string {
	return "shipping_holiday_rates"
}

// HolidaySpec holds the editable fields of a holiday rate
type HolidaySpec struct {
	MethodID          *uuid.UUID
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	AdjustmentType    AdjustmentType
	Amount            decimal.Decimal
	ExtraDeliveryDays int
}

// NewHolidayRate creates an active holiday rate
func NewHolidayRate(spec HolidaySpec) (*HolidayRate, error) {
	h := &HolidayRate{BaseAggregateRoot: shared.NewBaseAggregateRoot(), IsActive: true}
	if err := h.Update(spec); err != nil {
		return nil, err
	}
	h.Version = 1
	return h, nil
}

// Update replaces the editable fields
func (h *HolidayRate) Update(spec HolidaySpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_HOLIDAY_NAME", "Holiday name cannot be empty")
	}
	if !spec.AdjustmentType.IsValid() {
		return shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Unknown adjustment type: "+string(spec.AdjustmentType))
	}
	start, end := day(spec.StartDate), day(spec.EndDate)
	if end.Before(start) {
		return shared.NewDomainError("INVALID_HOLIDAY_DATES", "End date cannot be before start date")
	}
	if spec.Amount.IsNegative() && spec.AdjustmentType == AdjustmentOverride {
		return shared.NewDomainError("INVALID_HOLIDAY_AMOUNT", "Override amount cannot be negative")
	}
	if spec.ExtraDeliveryDays < 0 {
		return shared.NewDomainError("INVALID_HOLIDAY_DAYS", "Extra delivery days cannot be negative")
	}
	h.MethodID = spec.MethodID
	h.Name = name
	h.StartDate = start
	h.EndDate = end
	h.AdjustmentType = spec.AdjustmentType
	h.Amount = spec.Amount
	h.ExtraDeliveryDays = spec.ExtraDeliveryDays
	h.IncrementVersion()
	return nil
}

// SetActive toggles the holiday rate
func (h *HolidayRate) SetActive(active bool) {
	h.IsActive = active
	h.IncrementVersion()
}

// CoversDate reports whether t falls inside the holiday window
func (h *HolidayRate) CoversDate(t time.Time) bool {
	d := day(t)
	return h.IsActive && !d.Before(day(h.StartDate)) && !d.After(day(h.EndDate))
}

// AppliesTo reports whether the holiday targets methodID
func (h *HolidayRate) AppliesTo(methodID uuid.UUID) bool {
	return h.MethodID == nil || *h.MethodID == methodID
}

// Adjust applies the holiday to cost. The result is never negative.
// Negative fixed/percentage amounts act as discounts.
func (h *HolidayRate) Adjust(cost decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch h.AdjustmentType {
	case AdjustmentOverride:
		out = h.Amount
	case AdjustmentPercentage:
		out = cost.Add(cost.Mul(h.Amount).Div(decimal.NewFromInt(100)))
	default:
		out = cost.Add(h.Amount)
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// SelectHoliday picks the holiday that governs methodID on date: a
// method-specific holiday beats a global one, then the latest start wins.
func SelectHoliday(holidays []HolidayRate, methodID uuid.UUID, date time.Time) *HolidayRate {
	var best *HolidayRate
	for i := range holidays {
		h := &holidays[i]
		if !h.CoversDate(date) || !h.AppliesTo(methodID) {
			continue
		}
		if best == nil || holidayBeats(h, best) {
			best = h
		}
	}
	return best
}

func holidayBeats(a, b *HolidayRate) bool {
	aSpecific, bSpecific := a.MethodID != nil, b.MethodID != nil
	if aSpecific != bSpecific {
		return aSpecific
	}
	return day(a.StartDate).After(day(b.StartDate))
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
