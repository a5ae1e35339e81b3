package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("seller_id ASC, product_name ASC")
	})
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.withItems(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

// FindByNumber finds an order by its public number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.withItems(ctx).Where("number = ?", number).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

// FindByCheckoutSession finds the order placed from a checkout session
func (r *GormOrderRepository) FindByCheckoutSession(ctx context.Context, sessionID uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.withItems(ctx).Where("checkout_session_id = ?", sessionID).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

// FindAll lists orders matching the filter, newest first. A seller filter
// keeps orders containing at least one of the seller's items; every item
// is still loaded.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.SellerID != nil {
		sellerOrders := r.db.WithContext(ctx).Model(&order.Item{}).
			Select("order_id").
			Where("seller_id = ?", *filter.SellerID)
		query = query.Where("id IN (?)", sellerOrders)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		query = query.Where(`LOWER(number) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []order.Order
	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save inserts a new order with its items, or updates an existing one
// under optimistic locking. Every order transition bumps Version exactly
// once, so the stored row must still hold Version-1; otherwise another
// writer got there first and ErrConcurrencyConflict is returned. Order
// lines never change after placement and are only written on insert.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if o.Version <= 1 {
			return r.create(tx, o)
		}

		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Select("*").
			Omit(clause.Associations, "id", "created_at").
			Updates(o)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

func (r *GormOrderRepository) create(tx *gorm.DB, o *order.Order) error {
	if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
		return translateError(err)
	}
	if len(o.Items) == 0 {
		return nil
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	return translateError(tx.Create(&o.Items).Error)
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
