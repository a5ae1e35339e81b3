package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/event"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNotASeller        = shared.NewDomainError("FORBIDDEN", "Only registered sellers can manage products")
	ErrSellerNotApproved = shared.NewDomainError("FORBIDDEN", "Seller account is not approved")
	ErrNotProductOwner   = shared.NewDomainError("FORBIDDEN", "Product belongs to another seller")
)

// ProductService handles catalog browsing and seller product management
type ProductService struct {
	productRepo     catalog.ProductRepository
	categoryRepo    catalog.CategoryRepository
	sellerRepo      seller.SellerRepository
	storage         ObjectStorage
	exporter        ProductExporter
	publisher       shared.EventPublisher
	defaultCurrency valueobject.Currency
}

// NewProductService creates a new ProductService. storage and exporter may
// be nil; the operations that need them then fail with STORAGE_DISABLED or
// EXPORT_DISABLED.
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	sellerRepo seller.SellerRepository,
	storage ObjectStorage,
	exporter ProductExporter,
	defaultCurrency valueobject.Currency,
) *ProductService {
	if defaultCurrency == "" {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &ProductService{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		sellerRepo:      sellerRepo,
		storage:         storage,
		exporter:        exporter,
		defaultCurrency: defaultCurrency,
	}
}

// SetEventPublisher sets the publisher for product events
func (s *ProductService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

func (s *ProductService) imageURL(key string) string {
	if s.storage == nil {
		return ""
	}
	return s.storage.PublicURL(key)
}

func (s *ProductService) toResponse(p *catalog.Product) *ProductResponse {
	resp := ToProductResponse(p, s.imageURL)
	return &resp
}

// List returns active products matching the public catalog filter. A
// category filter includes every descendant category.
func (s *ProductService) List(ctx context.Context, f ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	active := catalog.ProductStatusActive
	filter := catalog.ProductFilter{
		Keyword:     strings.TrimSpace(f.Search),
		SellerID:    f.SellerID,
		Status:      &active,
		InStockOnly: f.InStock,
		OrderBy:     f.OrderBy,
		OrderDir:    f.OrderDir,
		Page:        f.Page,
		PageSize:    f.PageSize,
	}
	if f.MinPrice != nil {
		v := decimal.NewFromFloat(*f.MinPrice)
		filter.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := decimal.NewFromFloat(*f.MaxPrice)
		filter.MaxPrice = &v
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, shared.NewDomainError("INVALID_PRICE_RANGE", "min_price cannot exceed max_price")
	}
	if f.CategoryID != nil {
		ids, err := s.categoryIDsWithDescendants(ctx, *f.CategoryID)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}

	return s.list(ctx, filter)
}

func (s *ProductService) list(ctx context.Context, filter catalog.ProductFilter) (*shared.Paginated[ProductResponse], error) {
	norm := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	filter.Page, filter.PageSize = norm.Page, norm.PageSize

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i], s.imageURL)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ProductService) categoryIDsWithDescendants(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}
	descendants, err := s.categoryRepo.FindDescendantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return append([]uuid.UUID{id}, descendants...), nil
}

// Get returns an active product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.ErrNotFound
	}
	return s.toResponse(product), nil
}

// ListActiveBySeller returns a seller's active products for the storefront
func (s *ProductService) ListActiveBySeller(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*shared.Paginated[ProductResponse], error) {
	active := catalog.ProductStatusActive
	return s.list(ctx, catalog.ProductFilter{
		SellerID: &sellerID,
		Status:   &active,
		Page:     page,
		PageSize: pageSize,
	})
}

// activeSeller resolves the seller account of userID and requires it to be approved
func (s *ProductService) activeSeller(ctx context.Context, userID uuid.UUID) (*seller.Seller, error) {
	sel, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotASeller
		}
		return nil, err
	}
	if !sel.CanSell() {
		return nil, ErrSellerNotApproved
	}
	return sel, nil
}

// ownedProduct loads a product the caller's seller account owns
func (s *ProductService) ownedProduct(ctx context.Context, userID, productID uuid.UUID) (*seller.Seller, *catalog.Product, error) {
	sel, err := s.activeSeller(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if !product.BelongsTo(sel.ID) {
		return nil, nil, ErrNotProductOwner
	}
	return sel, product, nil
}

func (s *ProductService) validateCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	category, err := s.categoryRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	if !category.IsActive() {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is inactive")
	}
	return nil
}

func (s *ProductService) ensureSKUFree(ctx context.Context, sellerID uuid.UUID, sku string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySKU(ctx, sellerID, strings.ToUpper(strings.TrimSpace(sku)), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}
	return nil
}

func (s *ProductService) save(ctx context.Context, p *catalog.Product) error {
	if err := s.productRepo.Save(ctx, p); err != nil {
		return err
	}
	event.PublishPending(ctx, s.publisher, p)
	return nil
}

// ListMine returns every product of the caller's seller account
func (s *ProductService) ListMine(ctx context.Context, userID uuid.UUID, f ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	sel, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNotASeller
		}
		return nil, err
	}
	return s.list(ctx, catalog.ProductFilter{
		Keyword:  strings.TrimSpace(f.Search),
		SellerID: &sel.ID,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Page:     f.Page,
		PageSize: f.PageSize,
	})
}

// Create creates a draft product for the caller's seller account
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	sel, err := s.activeSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.validateCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, sel.ID, req.SKU, nil); err != nil {
		return nil, err
	}

	currency := s.defaultCurrency
	if req.Currency != "" {
		currency, err = valueobject.ParseCurrency(req.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
	}
	price, err := valueobject.NewMoney(req.Price, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
	}

	product, err := catalog.NewProduct(sel.ID, catalog.ProductDetails{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Weight:      req.Weight,
	}, price, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.CompareAtPrice != nil {
		if err := product.UpdatePrice(product.Price, req.CompareAtPrice); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sel.ID.String()),
		zap.String("sku", product.SKU))
	return s.toResponse(product), nil
}

// Update replaces a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, userID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	sel, product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.validateCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, sel.ID, req.SKU, &product.ID); err != nil {
		return nil, err
	}
	if err := product.UpdateDetails(catalog.ProductDetails{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Weight:      req.Weight,
	}); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	return s.toResponse(product), nil
}

// UpdatePrice changes the price of an owned product
func (s *ProductService) UpdatePrice(ctx context.Context, userID, productID uuid.UUID, req UpdatePriceRequest) (*ProductResponse, error) {
	return s.mutate(ctx, userID, productID, func(p *catalog.Product) error {
		return p.UpdatePrice(req.Price, req.CompareAtPrice)
	})
}

// UpdateStock sets the stock level of an owned product
func (s *ProductService) UpdateStock(ctx context.Context, userID, productID uuid.UUID, req UpdateStockRequest) (*ProductResponse, error) {
	if req.Stock == nil {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock is required")
	}
	return s.mutate(ctx, userID, productID, func(p *catalog.Product) error {
		return p.SetStock(*req.Stock)
	})
}

// Activate publishes an owned product
func (s *ProductService) Activate(ctx context.Context, userID, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, userID, productID, (*catalog.Product).Activate)
}

// Deactivate unlists an owned product
func (s *ProductService) Deactivate(ctx context.Context, userID, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, userID, productID, (*catalog.Product).Deactivate)
}

func (s *ProductService) mutate(ctx context.Context, userID, productID uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	_, product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	return s.toResponse(product), nil
}

// Delete removes an owned product and its stored images
func (s *ProductService) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	_, product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}
	if s.storage != nil {
		for _, key := range product.ImageKeys {
			if err := s.storage.DeleteObject(ctx, key); err != nil {
				logger.L(ctx).Warn("Failed to delete product image",
					zap.String("product_id", product.ID.String()),
					zap.String("key", key),
					zap.Error(err))
			}
		}
	}
	logger.L(ctx).Info("Product deleted", zap.String("product_id", product.ID.String()))
	return nil
}

// RequestImageUpload presigns an upload URL for a new product image and
// records its key on the product. The key is released again if the product
// cannot be saved.
func (s *ProductService) RequestImageUpload(ctx context.Context, userID, productID uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", fmt.Sprintf("Content type %q is not an accepted image type", req.ContentType))
	}

	_, product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if len(product.ImageKeys) >= catalog.MaxProductImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", fmt.Sprintf("A product can have at most %d images", catalog.MaxProductImages))
	}

	key := imageStorageKey(product, req.FileName, ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, ImageUploadExpiry)
	if err != nil {
		logger.L(ctx).Error("Failed to presign image upload", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare image upload")
	}

	if err := product.AddImage(key); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			logger.L(ctx).Warn("Failed to clean up image key", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL: uploadURL,
		Key:       key,
		ImageURL:  s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// imageStorageKey builds products/{seller}/{product}/{uuid}-{name}{ext}
func imageStorageKey(p *catalog.Product, fileName, ext string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(fileName, "\\", "/")), path.Ext(fileName))
	base = shared.Slugify(base)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("products/%s/%s/%s-%s%s", p.SellerID, p.ID, uuid.New().String()[:8], base, ext)
}

// RemoveImage drops an image from an owned product and deletes the object
func (s *ProductService) RemoveImage(ctx context.Context, userID, productID uuid.UUID, key string) (*ProductResponse, error) {
	resp, err := s.mutate(ctx, userID, productID, func(p *catalog.Product) error {
		return p.RemoveImage(key)
	})
	if err != nil {
		return nil, err
	}
	if s.storage != nil {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			logger.L(ctx).Warn("Failed to delete product image", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

// Export writes every product of the caller's seller account to w
func (s *ProductService) Export(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	if s.exporter == nil {
		return shared.NewDomainError("EXPORT_DISABLED", "Product export is not configured")
	}
	sel, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrNotASeller
		}
		return err
	}
	products, err := s.productRepo.FindAllBySeller(ctx, sel.ID)
	if err != nil {
		return err
	}
	rows := make([]ProductResponse, len(products))
	for i := range products {
		rows[i] = ToProductResponse(&products[i], s.imageURL)
	}
	if err := s.exporter.WriteProducts(w, rows); err != nil {
		return fmt.Errorf("failed to export products: %w", err)
	}
	logger.L(ctx).Info("Products exported",
		zap.String("seller_id", sel.ID.String()),
		zap.Int("count", len(rows)))
	return nil
}

// ExportFormat returns the content type and file extension of exports
func (s *ProductService) ExportFormat() (string, string) {
	if s.exporter == nil {
		return "", ""
	}
	return s.exporter.ContentType(), s.exporter.FileExtension()
}
