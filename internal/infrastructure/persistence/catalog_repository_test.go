package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, sellerID uuid.UUID, sku, name, price string, stock int, categoryID *uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sellerID, catalog.ProductDetails{
		SKU:        sku,
		Name:       name,
		CategoryID: categoryID,
		Weight:     decimal.RequireFromString("0.5"),
	}, valueobject.MustMoney(decimal.RequireFromString(price), valueobject.USD), stock)
	require.NoError(t, err)
	return p
}

func TestGormCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)

	root, err := catalog.NewCategory("Books", "")
	require.NoError(t, err)
	child, err := catalog.NewChildCategory("Fiction", "", root)
	require.NoError(t, err)
	grandchild, err := catalog.NewChildCategory("Sci-Fi", "", child)
	require.NoError(t, err)
	other, err := catalog.NewCategory("Music", "")
	require.NoError(t, err)
	for _, c := range []*catalog.Category{root, child, grandchild, other} {
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("lists categories by level", func(t *testing.T) {
		all, err := repo.FindAll(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, 0, all[0].Level)
		assert.Equal(t, 2, all[3].Level)
	})

	t.Run("active only hides inactive categories", func(t *testing.T) {
		require.NoError(t, other.Deactivate())
		require.NoError(t, repo.Save(ctx, other))

		active, err := repo.FindAll(ctx, true)
		require.NoError(t, err)
		assert.Len(t, active, 3)
	})

	t.Run("descendants follow the path", func(t *testing.T) {
		ids, err := repo.FindDescendantIDs(ctx, root.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{child.ID, grandchild.ID}, ids)

		ids, err = repo.FindDescendantIDs(ctx, grandchild.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("children and products block deletion checks", func(t *testing.T) {
		has, err := repo.HasChildren(ctx, root.ID)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = repo.HasProducts(ctx, grandchild.ID)
		require.NoError(t, err)
		assert.False(t, has)

		p := mustProduct(t, uuid.New(), "SKU-1", "Dune", "12.00", 1, &grandchild.ID)
		require.NoError(t, NewGormProductRepository(db).Save(ctx, p))

		has, err = repo.HasProducts(ctx, grandchild.ID)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("slug lookups", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "fiction")
		require.NoError(t, err)
		assert.Equal(t, child.ID, found.ID)

		taken, err := repo.ExistsBySlug(ctx, "fiction", &child.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, other.ID))
		assert.ErrorIs(t, repo.Delete(ctx, other.ID), shared.ErrNotFound)
	})
}

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	sellerA, sellerB := uuid.New(), uuid.New()
	cat := uuid.New()
	cheap := mustProduct(t, sellerA, "A-1", "Blue Mug", "5.00", 10, &cat)
	mid := mustProduct(t, sellerA, "A-2", "Red Mug", "15.00", 0, &cat)
	pricey := mustProduct(t, sellerB, "B-1", "Teapot", "40.00", 3, nil)
	for _, p := range []*catalog.Product{cheap, mid, pricey} {
		require.NoError(t, p.Activate())
		require.NoError(t, repo.Save(ctx, p))
	}

	t.Run("round trips prices and images", func(t *testing.T) {
		require.NoError(t, cheap.AddImage("products/a-1/front.jpg"))
		require.NoError(t, repo.Save(ctx, cheap))

		found, err := repo.FindByID(ctx, cheap.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("5").Equal(found.Price))
		assert.Equal(t, []string{"products/a-1/front.jpg"}, []string(found.ImageKeys))
	})

	t.Run("filters by keyword, price and stock", func(t *testing.T) {
		products, total, err := repo.FindAll(ctx, catalog.ProductFilter{Keyword: "mug"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, products, 2)

		minPrice := decimal.NewFromInt(10)
		products, total, err = repo.FindAll(ctx, catalog.ProductFilter{MinPrice: &minPrice, InStockOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, pricey.ID, products[0].ID)

		products, _, err = repo.FindAll(ctx, catalog.ProductFilter{CategoryIDs: []uuid.UUID{cat}, OrderBy: "price"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, cheap.ID, products[0].ID)
	})

	t.Run("sorts descending and paginates", func(t *testing.T) {
		products, total, err := repo.FindAll(ctx, catalog.ProductFilter{OrderBy: "price", OrderDir: "desc", Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, products, 2)
		assert.Equal(t, pricey.ID, products[0].ID)
		assert.Equal(t, mid.ID, products[1].ID)
	})

	t.Run("seller scoped queries", func(t *testing.T) {
		products, err := repo.FindAllBySeller(ctx, sellerA)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "A-1", products[0].SKU)

		taken, err := repo.ExistsBySKU(ctx, sellerA, "A-2", nil)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsBySKU(ctx, sellerB, "A-2", nil)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("duplicate SKU for the same seller is rejected", func(t *testing.T) {
		dup := mustProduct(t, sellerA, "A-1", "Another Mug", "7.00", 1, nil)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("find by ids skips missing ids", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []uuid.UUID{cheap.ID, uuid.New(), pricey.ID})
		require.NoError(t, err)
		assert.Len(t, products, 2)

		locked, err := repo.FindByIDsForUpdate(ctx, []uuid.UUID{mid.ID})
		require.NoError(t, err)
		assert.Len(t, locked, 1)

		none, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, mid.ID))
		_, err := repo.FindByID(ctx, mid.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
