package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) findOne(ctx context.Context, query string, args ...any) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_name ASC, id ASC") }).
		Where(query, args...).
		First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// FindByID finds a cart with its items
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUserID finds the cart owned by a user
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// FindByGuestID finds the cart owned by a guest
func (r *GormCartRepository) FindByGuestID(ctx context.Context, guestID string) (*cart.Cart, error) {
	return r.findOne(ctx, "guest_id = ?", guestID)
}

// Save writes the cart row, removes item rows no longer in the cart and
// upserts the rest
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
			return translateError(err)
		}

		keep := make([]uuid.UUID, 0, len(c.Items))
		for i := range c.Items {
			c.Items[i].CartID = c.ID
			keep = append(keep, c.Items[i].ID)
		}

		stale := tx.Where("cart_id = ?", c.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		if len(c.Items) == 0 {
			return nil
		}
		return translateError(tx.Save(&c.Items).Error)
	})
}

// Delete removes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return deleteResult(tx.Delete(&cart.Cart{}, "id = ?", id))
	})
}

// PurgeGuestCarts deletes guest carts not updated since t, with their items
func (r *GormCartRepository) PurgeGuestCarts(ctx context.Context, t time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&cart.Cart{}).Select("id").Where("guest_id IS NOT NULL AND updated_at < ?", t)
		if err := tx.Where("cart_id IN (?)", stale).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("guest_id IS NOT NULL AND updated_at < ?", t).Delete(&cart.Cart{})
		purged = res.RowsAffected
		return res.Error
	})
	return purged, err
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
