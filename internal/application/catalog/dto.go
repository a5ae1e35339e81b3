package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest creates a root or child category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
}

// UpdateCategoryRequest updates a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   *int   `json:"sort_order"`
}

// CategoryResponse is a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Level       int        `json:"level"`
	SortOrder   int        `json:"sort_order"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CategoryTreeNode is a category with its children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateProductRequest creates a draft product
type CreateProductRequest struct {
	SKU            string           `json:"sku" binding:"required,min=1,max=64"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description" binding:"max=5000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Currency       string           `json:"currency" binding:"omitempty,len=3"`
	Weight         decimal.Decimal  `json:"weight"`
	Stock          int              `json:"stock" binding:"min=0"`
}

// UpdateProductRequest replaces a product's descriptive fields
type UpdateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=64"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Weight      decimal.Decimal `json:"weight"`
}

// UpdatePriceRequest changes a product's price
type UpdatePriceRequest struct {
	Price          decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
}

// UpdateStockRequest sets the absolute stock level
type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

// ImageUploadRequest asks for a presigned image upload URL
type ImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// RemoveImageRequest identifies an image to drop
type RemoveImageRequest struct {
	Key string `json:"key" binding:"required"`
}

// ImageUploadResponse carries the presigned URL for the client upload
type ImageUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ImageURL  string    `json:"image_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProductListFilter holds the public catalog query
type ProductListFilter struct {
	Search     string     `form:"search" binding:"max=100"`
	CategoryID *uuid.UUID `form:"category_id"`
	SellerID   *uuid.UUID `form:"seller_id"`
	MinPrice   *float64   `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice   *float64   `form:"max_price" binding:"omitempty,min=0"`
	InStock    bool       `form:"in_stock"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=price name created_at stock"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductImage is an image with its public URL
type ProductImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ProductResponse is a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	SellerID       uuid.UUID        `json:"seller_id"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Currency       string           `json:"currency"`
	Weight         decimal.Decimal  `json:"weight"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	Status         string           `json:"status"`
	Images         []ProductImage   `json:"images"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain product. urlFor may be nil.
func ToProductResponse(p *catalog.Product, urlFor func(string) string) ProductResponse {
	images := make([]ProductImage, 0, len(p.ImageKeys))
	for _, key := range p.ImageKeys {
		img := ProductImage{Key: key}
		if urlFor != nil {
			img.URL = urlFor(key)
		}
		images = append(images, img)
	}
	return ProductResponse{
		ID:             p.ID,
		SellerID:       p.SellerID,
		CategoryID:     p.CategoryID,
		SKU:            p.SKU,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Currency:       p.Currency,
		Weight:         p.Weight,
		Stock:          p.Stock,
		InStock:        p.Stock > 0,
		Status:         string(p.Status),
		Images:         images,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
