package seller

import (
	"context"

	"github.com/google/uuid"
)

// SellerRepository defines persistence for sellers
type SellerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Seller, error)
	FindBySlug(ctx context.Context, slug string) (*Seller, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter SellerFilter) ([]Seller, int64, error)
	Save(ctx context.Context, s *Seller) error
}

// SellerFilter narrows seller listings
type SellerFilter struct {
	Keyword  string
	Status   *Status
	Page     int
	PageSize int
}
