package tax

import (
	"context"

	"github.com/google/uuid"
)

// TaxRateRepository persists tax rates
type TaxRateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TaxRate, error)
	FindAll(ctx context.Context) ([]TaxRate, error)

	// FindActiveByCountry returns active rates for a country, state rates included
	FindActiveByCountry(ctx context.Context, country string) ([]TaxRate, error)

	Save(ctx context.Context, rate *TaxRate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
