package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var (
	ErrOwnerRequired      = shared.NewDomainError("UNAUTHORIZED", "A signed-in user or guest session is required")
	ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
)

// CartService manages shopping carts for users and guests
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	currency    valueobject.Currency
	logger      *zap.Logger
}

// NewCartService creates a new CartService. New carts use currency.
func NewCartService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	currency valueobject.Currency,
	logger *zap.Logger,
) *CartService {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		currency:    currency,
		logger:      logger,
	}
}

// find returns the owner's cart or nil when none exists yet
func (s *CartService) find(ctx context.Context, owner Owner) (*cart.Cart, error) {
	var (
		c   *cart.Cart
		err error
	)
	switch {
	case owner.UserID != nil:
		c, err = s.cartRepo.FindByUserID(ctx, *owner.UserID)
	case owner.GuestID != "":
		c, err = s.cartRepo.FindByGuestID(ctx, owner.GuestID)
	default:
		return nil, ErrOwnerRequired
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *CartService) loadOrCreate(ctx context.Context, owner Owner) (*cart.Cart, bool, error) {
	c, err := s.find(ctx, owner)
	if err != nil || c != nil {
		return c, false, err
	}
	if owner.UserID != nil {
		c, err = cart.NewUserCart(*owner.UserID, s.currency)
	} else {
		c, err = cart.NewGuestCart(owner.GuestID, s.currency)
	}
	return c, true, err
}

func (s *CartService) load(ctx context.Context, owner Owner) (*cart.Cart, error) {
	c, err := s.find(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cart not found")
	}
	return c, nil
}

// GetCart returns the owner's cart, creating an empty one on first access
func (s *CartService) GetCart(ctx context.Context, owner Owner) (*CartResponse, error) {
	c, created, err := s.loadOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
	}
	return ToCartResponse(c), nil
}

// Summary returns the cart totals without lines
func (s *CartService) Summary(ctx context.Context, owner Owner) (*CartSummary, error) {
	c, err := s.find(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &CartSummary{Subtotal: valueobject.Zero(s.currency).Amount(), Currency: string(s.currency)}, nil
	}
	summary := toSummary(c)
	return &summary, nil
}

// AddItem adds a purchasable product at its current price. The total
// quantity in the cart may not exceed the product's stock.
func (s *CartService) AddItem(ctx context.Context, owner Owner, req AddItemRequest) (*CartResponse, error) {
	c, _, err := s.loadOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	product, err := s.purchasable(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(product, c.QuantityOf(product.ID)+req.Quantity); err != nil {
		return nil, err
	}

	if err := c.AddItem(snapshotOf(product), req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Debug("Item added to cart",
		zap.String("cart_id", c.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity))
	return ToCartResponse(c), nil
}

func (s *CartService) purchasable(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.IsPurchasable() {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

func checkStock(p *catalog.Product, wanted int) error {
	if wanted > p.Stock {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Only %d of %s available", p.Stock, p.Name))
	}
	return nil
}

func snapshotOf(p *catalog.Product) cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.UnitPrice(),
		Weight:    p.Weight,
	}
}

// UpdateItem sets a line's quantity; 0 removes it
func (s *CartService) UpdateItem(ctx context.Context, owner Owner, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	qty := 0
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty > 0 {
		if _, ok := c.FindItem(productID); !ok {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Item not found in cart")
		}
		product, err := s.purchasable(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := checkStock(product, qty); err != nil {
			return nil, err
		}
	}
	if err := c.UpdateItemQuantity(productID, qty); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// RemoveItem drops a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, owner Owner, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, owner Owner) (*CartResponse, error) {
	c, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// MigrateGuestCart moves a guest cart to userID. When the user already has
// a cart the guest lines are merged into it and the guest cart is deleted.
// Returns false when the guest had no cart.
func (s *CartService) MigrateGuestCart(ctx context.Context, guestID string, userID uuid.UUID) (bool, error) {
	if guestID == "" {
		return false, nil
	}
	guest, err := s.cartRepo.FindByGuestID(ctx, guestID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	log := logger.For(ctx, s.logger).With(
		zap.String("guest_id", guestID),
		zap.String("user_id", userID.String()))

	existing, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	if existing == nil {
		if err := guest.AssignToUser(userID); err != nil {
			return false, err
		}
		if err := s.cartRepo.Save(ctx, guest); err != nil {
			return false, err
		}
		log.Info("Guest cart assigned to user", zap.String("cart_id", guest.ID.String()))
		return true, nil
	}

	skipped := existing.MergeFrom(guest)
	if err := s.cartRepo.Save(ctx, existing); err != nil {
		return false, err
	}
	if err := s.cartRepo.Delete(ctx, guest.ID); err != nil {
		return false, err
	}
	if len(skipped) > 0 {
		log.Warn("Guest cart lines skipped during merge", zap.Int("skipped", len(skipped)))
	}
	log.Info("Guest cart merged into user cart", zap.String("cart_id", existing.ID.String()))
	return true, nil
}
