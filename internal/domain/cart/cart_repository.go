package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines persistence for carts
type CartRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	FindByGuestID(ctx context.Context, guestID string) (*Cart, error)

	// Save persists the cart and syncs its item rows
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}
