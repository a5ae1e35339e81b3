package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/tax"
	"gorm.io/gorm"
)

// GormTaxRateRepository implements TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByID finds a tax rate by its ID
func (r *GormTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	var rate tax.TaxRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &rate, nil
}

// FindAll lists tax rates by region
func (r *GormTaxRateRepository) FindAll(ctx context.Context) ([]tax.TaxRate, error) {
	var rates []tax.TaxRate
	if err := r.db.WithContext(ctx).Order("country ASC, state ASC, name ASC").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindActiveByCountry returns the active country-wide and state rates of a country
func (r *GormTaxRateRepository) FindActiveByCountry(ctx context.Context, country string) ([]tax.TaxRate, error) {
	var rates []tax.TaxRate
	if err := r.db.WithContext(ctx).
		Where("country = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(country)), true).
		Order("state ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *tax.TaxRate) error {
	return translateError(r.db.WithContext(ctx).Save(rate).Error)
}

// Delete deletes a tax rate
func (r *GormTaxRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&tax.TaxRate{}, "id = ?", id))
}

var _ tax.TaxRateRepository = (*GormTaxRateRepository)(nil)
