package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs returns the products found; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByIDsForUpdate is FindByIDs with the rows locked for the rest of
	// the surrounding transaction
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)

	// FindAllBySeller returns every product of a seller, unpaginated
	FindAllBySeller(ctx context.Context, sellerID uuid.UUID) ([]Product, error)

	ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows product listings
type ProductFilter struct {
	Keyword     string
	SellerID    *uuid.UUID
	CategoryIDs []uuid.UUID
	Status      *ProductStatus
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	OrderBy     string // price, name, created_at
	OrderDir    string
	Page        int
	PageSize    int
}
