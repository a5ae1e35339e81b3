package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// TaxService maintains tax rates and computes tax for a destination
type TaxService struct {
	repo tax.TaxRateRepository
}

// NewTaxService creates a new TaxService
func NewTaxService(repo tax.TaxRateRepository) *TaxService {
	return &TaxService{repo: repo}
}

// Compute returns the tax owed for a destination. No matching rate means
// zero tax.
func (s *TaxService) Compute(ctx context.Context, country, state string, subtotal, shipping decimal.Decimal) (decimal.Decimal, error) {
	rates, err := s.repo.FindActiveByCountry(ctx, country)
	if err != nil {
		return decimal.Zero, err
	}
	return tax.Calculate(rates, country, state, subtotal, shipping).Amount, nil
}

// List returns every tax rate
func (s *TaxService) List(ctx context.Context) ([]TaxRateResponse, error) {
	rates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TaxRateResponse, len(rates))
	for i := range rates {
		out[i] = ToTaxRateResponse(&rates[i])
	}
	return out, nil
}

// Get returns a tax rate
func (s *TaxService) Get(ctx context.Context, id uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTaxRateResponse(rate)
	return &resp, nil
}

// Create adds a tax rate
func (s *TaxService) Create(ctx context.Context, req TaxRateRequest) (*TaxRateResponse, error) {
	rate, err := tax.NewTaxRate(req.spec())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		rate.SetActive(false)
	}
	if err := s.repo.Save(ctx, rate); err != nil {
		return nil, err
	}
	resp := ToTaxRateResponse(rate)
	return &resp, nil
}

// Update replaces a tax rate
func (s *TaxService) Update(ctx context.Context, id uuid.UUID, req TaxRateRequest) (*TaxRateResponse, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rate.Update(req.spec()); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		rate.SetActive(*req.IsActive)
	}
	if err := s.repo.Save(ctx, rate); err != nil {
		return nil, err
	}
	resp := ToTaxRateResponse(rate)
	return &resp, nil
}

// Delete removes a tax rate
func (s *TaxService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
