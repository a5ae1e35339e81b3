package scheduler

import (
	"context"
	"time"
)

// SessionExpirer bulk-expires checkout sessions past their deadline
type SessionExpirer interface {
	ExpireStale(ctx context.Context, t time.Time) (int64, error)
}

// GuestCartPurger deletes abandoned guest carts
type GuestCartPurger interface {
	PurgeGuestCarts(ctx context.Context, t time.Time) (int64, error)
}

// ExpireCheckoutSessions marks open sessions whose expiry has passed as
// expired, so they stop counting as open for their owner.
type ExpireCheckoutSessions struct {
	Sessions SessionExpirer
}

// Name implements Task
func (ExpireCheckoutSessions) Name() string { return "expire_checkout_sessions" }

// Run implements Task
func (t ExpireCheckoutSessions) Run(ctx context.Context, now time.Time) (int64, error) {
	return t.Sessions.ExpireStale(ctx, now)
}

// PurgeGuestCarts removes guest carts idle for longer than TTL.
// Carts owned by users are never touched.
type PurgeGuestCarts struct {
	Carts GuestCartPurger
	TTL   time.Duration
}

// Name implements Task
func (PurgeGuestCarts) Name() string { return "purge_guest_carts" }

// Run implements Task
func (t PurgeGuestCarts) Run(ctx context.Context, now time.Time) (int64, error) {
	return t.Carts.PurgeGuestCarts(ctx, now.Add(-t.TTL))
}
