package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindBySlug finds a category by its slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindAll returns categories ordered for tree building
func (r *GormCategoryRepository) FindAll(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Category{})
	if activeOnly {
		query = query.Where("status = ?", catalog.CategoryStatusActive)
	}
	var categories []catalog.Category
	if err := query.Order("level ASC, sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindDescendantIDs returns every category whose path lies under id's path
func (r *GormCategoryRepository) FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	category, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&catalog.Category{}).
		Where("path LIKE ?", category.Path+"/%").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ExistsBySlug checks slug uniqueness, optionally ignoring one category
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return exists(query)
}

// HasChildren reports whether any category has id as parent
func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Category{}).Where("parent_id = ?", id))
}

// HasProducts reports whether any product is assigned to the category
func (r *GormCategoryRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("category_id = ?", id))
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id))
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
