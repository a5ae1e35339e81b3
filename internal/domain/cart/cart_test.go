package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(price string, weight string) ProductSnapshot {
	return ProductSnapshot{
		ProductID: uuid.New(),
		SellerID:  uuid.New(),
		Name:      "Widget",
		SKU:       "W-1",
		UnitPrice: valueobject.MustMoney(decimal.RequireFromString(price), valueobject.USD),
		Weight:    decimal.RequireFromString(weight),
	}
}

func newGuestCart(t *testing.T) *Cart {
	t.Helper()
	c, err := NewGuestCart("guest-123", valueobject.USD)
	require.NoError(t, err)
	return c
}

func TestNewCart(t *testing.T) {
	c := newGuestCart(t)
	assert.True(t, c.IsGuest())
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "guest-123", *c.GuestID)

	_, err := NewGuestCart(" ", valueobject.USD)
	assert.Error(t, err)

	_, err = NewUserCart(uuid.Nil, valueobject.USD)
	assert.Error(t, err)

	uc, err := NewUserCart(uuid.New(), valueobject.USD)
	require.NoError(t, err)
	assert.False(t, uc.IsGuest())
}

func TestCart_AddItem(t *testing.T) {
	t.Run("merges quantities for the same product", func(t *testing.T) {
		c := newGuestCart(t)
		p := snapshot("10.00", "0.5")

		require.NoError(t, c.AddItem(p, 2))
		p.UnitPrice = valueobject.MustMoney(decimal.RequireFromString("9.50"), valueobject.USD)
		require.NoError(t, c.AddItem(p, 3))

		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
		assert.Equal(t, "9.5", c.Items[0].UnitPrice.String())
		assert.Equal(t, 5, c.QuantityOf(p.ProductID))
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		c := newGuestCart(t)
		assert.Error(t, c.AddItem(snapshot("1", "0"), 0))
		assert.Error(t, c.AddItem(snapshot("1", "0"), MaxLineQuantity+1))
	})

	t.Run("caps merged line quantity", func(t *testing.T) {
		c := newGuestCart(t)
		p := snapshot("1", "0")
		require.NoError(t, c.AddItem(p, MaxLineQuantity))
		assert.Error(t, c.AddItem(p, 1))
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		c := newGuestCart(t)
		p := snapshot("1", "0")
		p.UnitPrice = valueobject.MustMoney(decimal.NewFromInt(1), valueobject.EUR)
		assert.Error(t, c.AddItem(p, 1))
	})
}

func TestCart_Totals(t *testing.T) {
	c := newGuestCart(t)
	a := snapshot("12.50", "0.4")
	b := snapshot("3.00", "1.25")
	b.SellerID = a.SellerID
	require.NoError(t, c.AddItem(a, 2))
	require.NoError(t, c.AddItem(b, 3))

	assert.Equal(t, "34.00 USD", c.Subtotal().String())
	assert.Equal(t, "4.55", c.TotalWeight().String())
	assert.Equal(t, 5, c.ItemCount())
	assert.Len(t, c.SellerIDs(), 1)
	assert.ElementsMatch(t, []uuid.UUID{a.ProductID, b.ProductID}, c.ProductIDs())
}

func TestCart_UpdateAndRemove(t *testing.T) {
	c := newGuestCart(t)
	p := snapshot("2", "0")
	require.NoError(t, c.AddItem(p, 1))

	require.NoError(t, c.UpdateItemQuantity(p.ProductID, 4))
	assert.Equal(t, 4, c.ItemCount())
	assert.Error(t, c.UpdateItemQuantity(p.ProductID, -1))
	assert.Error(t, c.UpdateItemQuantity(uuid.New(), 1))

	require.NoError(t, c.UpdateItemQuantity(p.ProductID, 0))
	assert.True(t, c.IsEmpty())
	assert.Error(t, c.RemoveItem(p.ProductID))

	require.NoError(t, c.AddItem(p, 1))
	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCart_MergeFrom(t *testing.T) {
	user, err := NewUserCart(uuid.New(), valueobject.USD)
	require.NoError(t, err)
	guest := newGuestCart(t)

	shared := snapshot("5", "0")
	onlyGuest := snapshot("7", "0")
	require.NoError(t, user.AddItem(shared, 990))
	require.NoError(t, guest.AddItem(shared, 20))
	require.NoError(t, guest.AddItem(onlyGuest, 1))

	skipped := user.MergeFrom(guest)
	assert.Empty(t, skipped)
	assert.Equal(t, MaxLineQuantity, user.QuantityOf(shared.ProductID))
	assert.Equal(t, 1, user.QuantityOf(onlyGuest.ProductID))
	item, ok := user.FindItem(onlyGuest.ProductID)
	require.True(t, ok)
	assert.Equal(t, user.ID, item.CartID)

	euro, err := NewGuestCart("g2", valueobject.EUR)
	require.NoError(t, err)
	euro.Items = append(euro.Items, CartItem{ProductID: uuid.New(), Quantity: 1})
	assert.Len(t, user.MergeFrom(euro), 1)
}

func TestCart_AssignToUser(t *testing.T) {
	c := newGuestCart(t)
	userID := uuid.New()

	require.NoError(t, c.AssignToUser(userID))
	assert.Equal(t, &userID, c.UserID)
	assert.Nil(t, c.GuestID)
	assert.Error(t, c.AssignToUser(uuid.New()))
}
