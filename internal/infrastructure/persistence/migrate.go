package persistence

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/domain/tax"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order
func Models() []any {
	return []any{
		&identity.User{},
		&seller.Seller{},
		&catalog.Category{},
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&shipping.Zone{},
		&shipping.Method{},
		&shipping.Rate{},
		&shipping.HolidayRate{},
		&tax.TaxRate{},
		&checkout.Session{},
		&order.Order{},
		&order.Item{},
	}
}

// AutoMigrate creates or updates the schema for every model
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
