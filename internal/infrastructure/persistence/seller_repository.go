package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/seller"
	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

func (r *GormSellerRepository) findOne(ctx context.Context, query string, args ...any) (*seller.Seller, error) {
	var s seller.Seller
	if err := r.db.WithContext(ctx).Where(query, args...).First(&s).Error; err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

// FindByID finds a seller by its ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUserID finds the seller profile owned by a user
func (r *GormSellerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.Seller, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// FindBySlug finds a seller by its store slug
func (r *GormSellerRepository) FindBySlug(ctx context.Context, slug string) (*seller.Seller, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// ExistsBySlug checks slug uniqueness, optionally ignoring one seller
func (r *GormSellerRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&seller.Seller{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// FindAll lists sellers matching the filter, newest first
func (r *GormSellerRepository) FindAll(ctx context.Context, filter seller.SellerFilter) ([]seller.Seller, int64, error) {
	query := r.db.WithContext(ctx).Model(&seller.Seller{})
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		query = query.Where(`LOWER(store_name) LIKE ? ESCAPE '\' OR LOWER(slug) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sellers []seller.Seller
	if err := paginate(query, filter.Page, filter.PageSize).
		Order("created_at DESC").
		Find(&sellers).Error; err != nil {
		return nil, 0, err
	}
	return sellers, total, nil
}

// Save creates or updates a seller
func (r *GormSellerRepository) Save(ctx context.Context, s *seller.Seller) error {
	return translateError(r.db.WithContext(ctx).Save(s).Error)
}

var _ seller.SellerRepository = (*GormSellerRepository)(nil)
