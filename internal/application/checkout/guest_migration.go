package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CartMigrator moves a guest cart to a user
type CartMigrator interface {
	MigrateGuestCart(ctx context.Context, guestID string, userID uuid.UUID) (bool, error)
}

// GuestMigration moves everything a guest built up to the account they
// signed in to: the cart first, then open checkout sessions
type GuestMigration struct {
	carts    CartMigrator
	checkout *CheckoutService
	metrics  *telemetry.MarketplaceMetrics
	logger   *zap.Logger
}

// NewGuestMigration creates a GuestMigration
func NewGuestMigration(carts CartMigrator, checkout *CheckoutService, logger *zap.Logger) *GuestMigration {
	return &GuestMigration{carts: carts, checkout: checkout, logger: logger}
}

// SetBusinessMetrics sets the migration counter
func (g *GuestMigration) SetBusinessMetrics(m *telemetry.MarketplaceMetrics) {
	g.metrics = m
}

// MigrateGuest reports whether a cart moved and how many sessions did
func (g *GuestMigration) MigrateGuest(ctx context.Context, guestID string, userID uuid.UUID) (bool, int, error) {
	if guestID == "" {
		return false, 0, nil
	}
	cartMoved, err := g.carts.MigrateGuestCart(ctx, guestID, userID)
	if err != nil {
		return false, 0, err
	}
	sessions, err := g.checkout.MigrateGuestSessions(ctx, guestID, userID)
	if err != nil {
		return cartMoved, sessions, err
	}

	if cartMoved || sessions > 0 {
		carts := 0
		if cartMoved {
			carts = 1
		}
		if g.metrics != nil {
			g.metrics.RecordGuestMigration(ctx, carts, sessions)
		}
		logger.For(ctx, g.logger).Info("Guest data migrated",
			zap.String("guest_id", guestID),
			zap.String("user_id", userID.String()),
			zap.Bool("cart", cartMoved),
			zap.Int("sessions", sessions))
	}
	return cartMoved, sessions, nil
}
