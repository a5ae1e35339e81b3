package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusInactive:
		return true
	}
	return false
}

// MaxProductImages caps the number of images per product
const MaxProductImages = 10

// Product is a sellable listing owned by a seller
type Product struct {
	shared.BaseAggregateRoot
	SellerID       uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_product_seller_sku,priority:1"`
	CategoryID     *uuid.UUID                  `gorm:"type:uuid;index"`
	SKU            string                      `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_product_seller_sku,priority:2"`
	Name           string                      `gorm:"type:varchar(200);not null"`
	Slug           string                      `gorm:"type:varchar(230);not null;uniqueIndex"`
	Description    string                      `gorm:"type:text"`
	Price          decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	CompareAtPrice *decimal.Decimal            `gorm:"type:decimal(18,2)"`
	Currency       string                      `gorm:"type:varchar(3);not null;default:'USD'"`
	Weight         decimal.Decimal             `gorm:"type:decimal(10,3);not null;default:0"` // kilograms
	Stock          int                         `gorm:"not null;default:0"`
	Status         ProductStatus               `gorm:"type:varchar(20);not null;default:'draft';index"`
	ImageKeys      datatypes.JSONSlice[string] `gorm:"type:json"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails holds the descriptive fields of a product
type ProductDetails struct {
	SKU         string
	Name        string
	Description string
	CategoryID  *uuid.UUID
	Weight      decimal.Decimal
}

// NewProduct creates a draft product for sellerID
func NewProduct(sellerID uuid.UUID, details ProductDetails, price valueobject.Money, stock int) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Price:             price.Amount().Round(2),
		Currency:          string(price.Currency()),
		Stock:             stock,
		Status:            ProductStatusDraft,
		ImageKeys:         datatypes.JSONSlice[string]{},
	}
	if err := p.applyDetails(details); err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

func (p *Product) applyDetails(d ProductDetails) error {
	sku := strings.ToUpper(strings.TrimSpace(d.SKU))
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if d.Weight.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}

	p.SKU = sku
	p.Name = name
	p.Slug = productSlug(name, p.ID)
	p.Description = strings.TrimSpace(d.Description)
	p.CategoryID = d.CategoryID
	p.Weight = d.Weight
	return nil
}

// productSlug keeps slugs unique across sellers by suffixing the id prefix
func productSlug(name string, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s", shared.Slugify(name), id.String()[:8])
}

// UpdateDetails replaces the descriptive fields
func (p *Product) UpdateDetails(d ProductDetails) error {
	if err := p.applyDetails(d); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// UpdatePrice sets the price and optional compare-at price
func (p *Product) UpdatePrice(price decimal.Decimal, compareAt *decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if compareAt != nil && compareAt.LessThan(price) {
		return shared.NewDomainError("INVALID_COMPARE_AT_PRICE", "Compare-at price cannot be lower than price")
	}
	p.Price = price.Round(2)
	if compareAt != nil {
		c := compareAt.Round(2)
		p.CompareAtPrice = &c
	} else {
		p.CompareAtPrice = nil
	}
	p.IncrementVersion()
	return nil
}

// SetStock sets the absolute stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	old := p.Stock
	p.Stock = stock
	p.IncrementVersion()
	p.AddDomainEvent(NewProductStockChangedEvent(p, old))
	return nil
}

// DecreaseStock removes qty units, failing when not enough are on hand
func (p *Product) DecreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < qty {
		return shared.NewDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", p.Name, qty, p.Stock))
	}
	old := p.Stock
	p.Stock -= qty
	p.IncrementVersion()
	p.AddDomainEvent(NewProductStockChangedEvent(p, old))
	return nil
}

// IncreaseStock returns qty units to stock
func (p *Product) IncreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	old := p.Stock
	p.Stock += qty
	p.IncrementVersion()
	p.AddDomainEvent(NewProductStockChangedEvent(p, old))
	return nil
}

// Activate publishes the product to the storefront
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if !p.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Product needs a price before activation")
	}
	p.Status = ProductStatusActive
	p.IncrementVersion()
	p.AddDomainEvent(NewProductActivatedEvent(p))
	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() error {
	if p.Status != ProductStatusActive {
		return shared.NewDomainError("NOT_ACTIVE", "Product is not active")
	}
	p.Status = ProductStatusInactive
	p.IncrementVersion()
	return nil
}

// AddImage records an uploaded image storage key
func (p *Product) AddImage(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image key cannot be empty")
	}
	for _, k := range p.ImageKeys {
		if k == key {
			return nil
		}
	}
	if len(p.ImageKeys) >= MaxProductImages {
		return shared.NewDomainError("TOO_MANY_IMAGES", fmt.Sprintf("A product can have at most %d images", MaxProductImages))
	}
	p.ImageKeys = append(p.ImageKeys, key)
	p.IncrementVersion()
	return nil
}

// RemoveImage drops an image key
func (p *Product) RemoveImage(key string) error {
	for i, k := range p.ImageKeys {
		if k == key {
			p.ImageKeys = append(p.ImageKeys[:i:i], p.ImageKeys[i+1:]...)
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("IMAGE_NOT_FOUND", "Image not found on product")
}

// IsActive returns true if the product is listed
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsPurchasable reports whether the product can be added to a cart
func (p *Product) IsPurchasable() bool {
	return p.IsActive() && p.Stock > 0
}

// UnitPrice returns the price as Money
func (p *Product) UnitPrice() valueobject.Money {
	return valueobject.MustMoney(p.Price, valueobject.Currency(p.Currency))
}

// BelongsTo reports whether sellerID owns the product
func (p *Product) BelongsTo(sellerID uuid.UUID) bool {
	return p.SellerID == sellerID
}
