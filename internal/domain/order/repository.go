package order

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows order listings
type Filter struct {
	UserID   *uuid.UUID
	SellerID *uuid.UUID
	Status   *Status
	Keyword  string // order number or email
	Page     int
	PageSize int
}

// OrderRepository persists orders with their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindByCheckoutSession(ctx context.Context, sessionID uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]Order, int64, error)
	Save(ctx context.Context, o *Order) error
}
