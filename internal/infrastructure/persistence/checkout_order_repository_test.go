package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySession(t *testing.T, owner checkout.Owner, sellerID uuid.UUID) *checkout.Session {
	t.Helper()
	items := []checkout.Item{{
		ProductID:   uuid.New(),
		SellerID:    sellerID,
		ProductName: "Desk Lamp",
		SKU:         "LAMP-1",
		UnitPrice:   decimal.RequireFromString("24.50"),
		UnitWeight:  decimal.RequireFromString("1.2"),
		Quantity:    2,
	}}
	s, err := checkout.NewSession(owner, uuid.New(), "USD", items, 30*time.Minute, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.SetAddresses(valueobject.Address{
		FullName: "Ana Lima", Line1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "us",
	}, nil, time.Now()))
	require.NoError(t, s.SelectShipping(shipping.Option{
		MethodID: uuid.New(), Name: "Standard", Cost: decimal.NewFromInt(5), Currency: "USD",
	}, time.Now()))
	require.NoError(t, s.ApplyTax(decimal.RequireFromString("3.92"), time.Now()))
	return s
}

func TestGormCheckoutSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCheckoutSessionRepository(newTestDB(t))

	userID := uuid.New()
	open := readySession(t, checkout.Owner{UserID: &userID}, uuid.New())
	require.NoError(t, repo.Save(ctx, open))
	cancelled := readySession(t, checkout.Owner{UserID: &userID}, uuid.New())
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, repo.Save(ctx, cancelled))
	guest := readySession(t, checkout.Owner{GuestID: "guest-1", Email: "guest@example.com"}, uuid.New())
	require.NoError(t, repo.Save(ctx, guest))

	t.Run("round trips items, addresses and totals", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, open.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
		assert.Equal(t, "US", loaded.ShippingAddress.Country)
		assert.Equal(t, "Austin", loaded.BillingAddress.City)
		assert.True(t, loaded.Total.Equal(open.Total), "total %s != %s", loaded.Total, open.Total)
		assert.Equal(t, checkout.StatusShippingSelected, loaded.Status)
		assert.WithinDuration(t, open.ExpiresAt, loaded.ExpiresAt, time.Second)
	})

	t.Run("open sessions exclude terminal ones", func(t *testing.T) {
		sessions, err := repo.FindOpenByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, open.ID, sessions[0].ID)

		sessions, err = repo.FindOpenByGuest(ctx, "guest-1")
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.True(t, sessions[0].IsGuest())
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("expire stale skips terminal sessions", func(t *testing.T) {
		n, err := repo.ExpireStale(ctx, time.Now())
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.ExpireStale(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		loaded, err := repo.FindByID(ctx, open.ID)
		require.NoError(t, err)
		assert.Equal(t, checkout.StatusExpired, loaded.Status)
		assert.Equal(t, open.Version+1, loaded.Version)

		stillCancelled, err := repo.FindByID(ctx, cancelled.ID)
		require.NoError(t, err)
		assert.Equal(t, checkout.StatusCancelled, stillCancelled.Status)
	})
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newTestDB(t))

	userID := uuid.New()
	sellerA, sellerB := uuid.New(), uuid.New()

	placeOrder := func(owner checkout.Owner, sellerID uuid.UUID) *order.Order {
		s := readySession(t, owner, sellerID)
		o, err := order.NewOrderFromCheckout(s)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, o))
		return o
	}

	first := placeOrder(checkout.Owner{UserID: &userID}, sellerA)
	second := placeOrder(checkout.Owner{UserID: &userID}, sellerB)
	guest := placeOrder(checkout.Owner{GuestID: "g-7", Email: "Guest@Example.com"}, sellerA)

	t.Run("loads items with the order", func(t *testing.T) {
		loaded, err := repo.FindByNumber(ctx, first.Number)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, sellerA, loaded.Items[0].SellerID)
		assert.True(t, loaded.Items[0].LineTotal.Equal(decimal.RequireFromString("49")))

		bySession, err := repo.FindByCheckoutSession(ctx, first.CheckoutSessionID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, bySession.ID)
	})

	t.Run("one order per checkout session", func(t *testing.T) {
		dup, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		dup.ID = uuid.New()
		dup.Number = "DUP-1"
		dup.Items = nil
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("stale copy cannot overwrite a newer update", func(t *testing.T) {
		otherUser := uuid.New()
		o := placeOrder(checkout.Owner{UserID: &otherUser}, uuid.New())

		shipper, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		canceller, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)

		require.NoError(t, shipper.MarkShipped("1Z999"))
		require.NoError(t, repo.Save(ctx, shipper))

		require.NoError(t, canceller.Cancel("too slow"))
		assert.ErrorIs(t, repo.Save(ctx, canceller), shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, stored.Status)
		assert.Equal(t, "1Z999", stored.TrackingNumber)
		assert.Equal(t, 2, stored.Version)
		require.Len(t, stored.Items, 1)

		require.NoError(t, stored.MarkDelivered())
		require.NoError(t, repo.Save(ctx, stored))
	})

	t.Run("filters by user, seller, status and keyword", func(t *testing.T) {
		orders, total, err := repo.FindAll(ctx, order.Filter{UserID: &userID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, orders, 2)

		orders, total, err = repo.FindAll(ctx, order.Filter{SellerID: &sellerA})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, o := range orders {
			assert.True(t, o.HasSeller(sellerA))
		}

		orders, total, err = repo.FindAll(ctx, order.Filter{Keyword: "guest@"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, guest.ID, orders[0].ID)

		require.NoError(t, second.Cancel("changed my mind"))
		require.NoError(t, repo.Save(ctx, second))
		status := order.StatusCancelled
		orders, total, err = repo.FindAll(ctx, order.Filter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "changed my mind", orders[0].CancelReason)
		require.Len(t, orders[0].Items, 1)
	})
}
