package shipping

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ErrShippingUnavailable is returned when no zone or method can serve an address
var ErrShippingUnavailable = shared.NewDomainError("SHIPPING_UNAVAILABLE", "No shipping options are available for this address")

// QuoteInput describes a shipment to price
type QuoteInput struct {
	Destination valueobject.Address
	Subtotal    decimal.Decimal
	Currency    string
	Weight      decimal.Decimal // kilograms
	ItemCount   int
	DistanceKm  *decimal.Decimal // nil when unknown
	Date        time.Time
}

// Option is one priced delivery choice
type Option struct {
	MethodID        uuid.UUID       `json:"method_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Carrier         string          `json:"carrier,omitempty"`
	Description     string          `json:"description,omitempty"`
	ZoneID          uuid.UUID       `json:"zone_id"`
	ZoneName        string          `json:"zone_name"`
	RateType        RateType        `json:"rate_type"`
	BaseCost        decimal.Decimal `json:"base_cost"`
	Cost            decimal.Decimal `json:"cost"`
	Currency        string          `json:"currency"`
	IsFree          bool            `json:"is_free"`
	Holiday         string          `json:"holiday,omitempty"`
	MinDeliveryDays int             `json:"min_delivery_days"`
	MaxDeliveryDays int             `json:"max_delivery_days"`

	sortOrder int
}

// Quote is the result of a calculation
type Quote struct {
	Zone    *Zone
	Options []Option
}

// Find returns the option for methodID
func (q *Quote) Find(methodID uuid.UUID) (*Option, bool) {
	for i := range q.Options {
		if q.Options[i].MethodID == methodID {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// Calculator prices shipments against zones, methods, rates and holidays
type Calculator struct{}

// NewCalculator creates a Calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// MatchZone returns the best active zone for dest: highest specificity,
// then highest priority, then the oldest zone
func (c *Calculator) MatchZone(zones []Zone, dest valueobject.Address) (*Zone, bool) {
	var best *Zone
	bestScore := -1
	for i := range zones {
		z := &zones[i]
		if !z.IsActive {
			continue
		}
		score, ok := z.Match(dest)
		if !ok {
			continue
		}
		if best == nil || score > bestScore ||
			(score == bestScore && z.Priority > best.Priority) ||
			(score == bestScore && z.Priority == best.Priority && z.CreatedAt.Before(best.CreatedAt)) {
			best, bestScore = z, score
		}
	}
	return best, best != nil
}

// Calculate prices every active method of the matching zone. Methods with
// no applicable rate are skipped. Options come sorted by cost, sort order
// and name.
func (c *Calculator) Calculate(zones []Zone, holidays []HolidayRate, in QuoteInput) (*Quote, error) {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	zone, ok := c.MatchZone(zones, in.Destination)
	if !ok {
		return nil, ErrShippingUnavailable
	}

	options := make([]Option, 0, len(zone.Methods))
	for i := range zone.Methods {
		m := &zone.Methods[i]
		if !m.IsActive {
			continue
		}
		opt, ok := c.priceMethod(zone, m, holidays, in)
		if ok {
			options = append(options, opt)
		}
	}
	if len(options) == 0 {
		return nil, ErrShippingUnavailable
	}

	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if !a.Cost.Equal(b.Cost) {
			return a.Cost.LessThan(b.Cost)
		}
		if a.sortOrder != b.sortOrder {
			return a.sortOrder < b.sortOrder
		}
		return a.Name < b.Name
	})
	return &Quote{Zone: zone, Options: options}, nil
}

func (c *Calculator) priceMethod(zone *Zone, m *Method, holidays []HolidayRate, in QuoteInput) (Option, bool) {
	var rate *Rate
	var base decimal.Decimal
	for i := range m.Rates {
		r := &m.Rates[i]
		if !r.Applies(in) {
			continue
		}
		cost := r.Cost(in)
		if rate == nil || cost.LessThan(base) {
			rate, base = r, cost
		}
	}
	if rate == nil {
		return Option{}, false
	}

	opt := Option{
		MethodID:        m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Carrier:         m.Carrier,
		Description:     m.Description,
		ZoneID:          zone.ID,
		ZoneName:        zone.Name,
		RateType:        rate.Type,
		BaseCost:        base.Round(2),
		Currency:        in.Currency,
		MinDeliveryDays: m.MinDeliveryDays,
		MaxDeliveryDays: m.MaxDeliveryDays,
		sortOrder:       m.SortOrder,
	}

	cost := base
	if h := SelectHoliday(holidays, m.ID, in.Date); h != nil {
		cost = h.Adjust(cost)
		opt.Holiday = h.Name
		opt.MinDeliveryDays += h.ExtraDeliveryDays
		opt.MaxDeliveryDays += h.ExtraDeliveryDays
	}
	if m.QualifiesForFreeShipping(in.Subtotal) {
		cost = decimal.Zero
	}
	opt.Cost = cost.Round(2)
	opt.IsFree = opt.Cost.IsZero()
	return opt, true
}
