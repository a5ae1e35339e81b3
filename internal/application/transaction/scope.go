// Package transaction defines the unit-of-work boundary used by services
// that must change several aggregates atomically.
package transaction

import (
	"context"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/order"
)

// Scope runs fn inside a database transaction. A non-nil error from fn
// rolls every write back.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes the repositories bound to the running transaction
type Repositories interface {
	Products() catalog.ProductRepository
	Orders() order.OrderRepository
	Sessions() checkout.SessionRepository
	Carts() cart.CartRepository
}

// NoOpScope calls fn directly with fixed repositories. Used in unit tests
// and wherever atomicity is provided elsewhere.
type NoOpScope struct {
	products catalog.ProductRepository
	orders   order.OrderRepository
	sessions checkout.SessionRepository
	carts    cart.CartRepository
}

// NewNoOpScope creates a NoOpScope
func NewNoOpScope(
	products catalog.ProductRepository,
	orders order.OrderRepository,
	sessions checkout.SessionRepository,
	carts cart.CartRepository,
) *NoOpScope {
	return &NoOpScope{products: products, orders: orders, sessions: sessions, carts: carts}
}

// Execute runs fn without a transaction
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *NoOpScope) Products() catalog.ProductRepository  { return s.products }
func (s *NoOpScope) Orders() order.OrderRepository        { return s.orders }
func (s *NoOpScope) Sessions() checkout.SessionRepository { return s.sessions }
func (s *NoOpScope) Carts() cart.CartRepository           { return s.carts }

var (
	_ Scope        = (*NoOpScope)(nil)
	_ Repositories = (*NoOpScope)(nil)
)
