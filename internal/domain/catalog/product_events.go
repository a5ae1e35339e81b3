package catalog

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated      = "product.created"
	EventTypeProductActivated    = "product.activated"
	EventTypeProductStockChanged = "product.stock_changed"
)

// ProductCreatedEvent is published when a seller creates a product
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID       `json:"seller_id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		SellerID:        p.SellerID,
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductActivatedEvent is published when a product goes live
type ProductActivatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
}

func NewProductActivatedEvent(p *Product) *ProductActivatedEvent {
	return &ProductActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductActivated, AggregateTypeProduct, p.ID),
		SellerID:        p.SellerID,
	}
}

// ProductStockChangedEvent is published on every stock movement
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	OldStock int       `json:"old_stock"`
	NewStock int       `json:"new_stock"`
}

func NewProductStockChangedEvent(p *Product, oldStock int) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, AggregateTypeProduct, p.ID),
		SellerID:        p.SellerID,
		OldStock:        oldStock,
		NewStock:        p.Stock,
	}
}
