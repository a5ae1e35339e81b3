package tax

import (
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaxRate is a sales tax percentage for a country, optionally narrowed to a state
type TaxRate struct {
	shared.BaseAggregateRoot
	Country         string          `gorm:"type:varchar(2);not null;index:idx_tax_region"`
	State           string          `gorm:"type:varchar(100);index:idx_tax_region"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	IncludeShipping bool            `gorm:"not null;default:false"`
	IsActive        bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxRate) TableName() string {
	return "tax_rates"
}

// RateSpec carries the editable fields of a tax rate
type RateSpec struct {
	Country         string
	State           string
	Name            string
	Rate            decimal.Decimal
	IncludeShipping bool
}

// NewTaxRate creates an active tax rate
func NewTaxRate(spec RateSpec) (*TaxRate, error) {
	t := &TaxRate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
	}
	if err := t.Update(spec); err != nil {
		return nil, err
	}
	t.Version = 1
	return t, nil
}

// Update replaces the rate's editable fields
func (t *TaxRate) Update(spec RateSpec) error {
	country := strings.ToUpper(strings.TrimSpace(spec.Country))
	if len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be a 2-letter ISO code")
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tax rate name cannot be empty")
	}
	if spec.Rate.IsNegative() || spec.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_RATE", "Tax rate must be between 0 and 100")
	}
	t.Country = country
	t.State = strings.TrimSpace(spec.State)
	t.Name = name
	t.Rate = spec.Rate
	t.IncludeShipping = spec.IncludeShipping
	t.IncrementVersion()
	return nil
}

// SetActive toggles the rate
func (t *TaxRate) SetActive(active bool) {
	t.IsActive = active
	t.IncrementVersion()
}

// matches returns the specificity of the rate for a region, or -1
func (t *TaxRate) matches(country, state string) int {
	if !t.IsActive || !strings.EqualFold(t.Country, country) {
		return -1
	}
	if t.State == "" {
		return 0
	}
	if state != "" && shared.FoldText(t.State) == shared.FoldText(state) {
		return 1
	}
	return -1
}

// Compute returns the tax on subtotal and shipping, rounded to cents
func (t *TaxRate) Compute(subtotal, shipping decimal.Decimal) decimal.Decimal {
	base := subtotal
	if t.IncludeShipping {
		base = base.Add(shipping)
	}
	return base.Mul(t.Rate).Div(decimal.NewFromInt(100)).Round(2)
}

// Resolve picks the most specific active rate for country and state.
// A state rate beats a country-wide one.
func Resolve(rates []TaxRate, country, state string) *TaxRate {
	var best *TaxRate
	bestScore := -1
	for i := range rates {
		score := rates[i].matches(country, state)
		if score > bestScore {
			best, bestScore = &rates[i], score
		}
	}
	return best
}

// Result is the outcome of a tax calculation
type Result struct {
	Amount decimal.Decimal
	Rate   *TaxRate
}

// Calculate resolves the applicable rate and computes the tax. No match
// means no tax.
func Calculate(rates []TaxRate, country, state string, subtotal, shipping decimal.Decimal) Result {
	r := Resolve(rates, country, state)
	if r == nil {
		return Result{Amount: decimal.Zero}
	}
	return Result{Amount: r.Compute(subtotal, shipping), Rate: r}
}
