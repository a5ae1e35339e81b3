package handler

import (
	"context"
	"io"

	"github.com/google/uuid"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	"github.com/marketplace/backend/internal/application/identity"
	orderapp "github.com/marketplace/backend/internal/application/order"
	sellerapp "github.com/marketplace/backend/internal/application/seller"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	taxapp "github.com/marketplace/backend/internal/application/tax"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
)

// The interfaces below are the slices of the application services each
// handler depends on. The concrete services satisfy them.

// AuthUseCases is implemented by identity.AuthService
type AuthUseCases interface {
	Register(ctx context.Context, req identity.RegisterRequest, guestID string) (*identity.AuthResult, error)
	Login(ctx context.Context, req identity.LoginRequest, guestID string) (*identity.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uuid.UUID) (*identity.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req identity.ChangePasswordRequest) error
}

// UserUseCases is implemented by identity.UserService
type UserUseCases interface {
	List(ctx context.Context, f identity.UserListFilter) (*shared.Paginated[identity.UserResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*identity.UserResponse, error)
	Suspend(ctx context.Context, actorID, id uuid.UUID) (*identity.UserResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*identity.UserResponse, error)
}

// CategoryUseCases is implemented by catalog.CategoryService
type CategoryUseCases interface {
	Create(ctx context.Context, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*catalogapp.CategoryResponse, error)
	List(ctx context.Context, includeInactive bool) ([]catalogapp.CategoryResponse, error)
	GetTree(ctx context.Context) ([]catalogapp.CategoryTreeNode, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductUseCases is implemented by catalog.ProductService
type ProductUseCases interface {
	List(ctx context.Context, f catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, f catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductResponse], error)
	Create(ctx context.Context, userID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, userID, productID uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	UpdatePrice(ctx context.Context, userID, productID uuid.UUID, req catalogapp.UpdatePriceRequest) (*catalogapp.ProductResponse, error)
	UpdateStock(ctx context.Context, userID, productID uuid.UUID, req catalogapp.UpdateStockRequest) (*catalogapp.ProductResponse, error)
	Activate(ctx context.Context, userID, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	Deactivate(ctx context.Context, userID, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	RequestImageUpload(ctx context.Context, userID, productID uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.ImageUploadResponse, error)
	RemoveImage(ctx context.Context, userID, productID uuid.UUID, key string) (*catalogapp.ProductResponse, error)
	Export(ctx context.Context, userID uuid.UUID, w io.Writer) error
	ExportFormat() (string, string)
}

// SellerUseCases is implemented by seller.SellerService
type SellerUseCases interface {
	Apply(ctx context.Context, userID uuid.UUID, req sellerapp.ApplyRequest) (*sellerapp.SellerResponse, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*sellerapp.SellerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*sellerapp.SellerResponse, error)
	List(ctx context.Context, f sellerapp.SellerListFilter) (*shared.Paginated[sellerapp.SellerResponse], error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req sellerapp.UpdateProfileRequest) (*sellerapp.SellerResponse, error)
	Approve(ctx context.Context, id uuid.UUID, req sellerapp.ApproveRequest) (*sellerapp.SellerResponse, error)
	Reject(ctx context.Context, id uuid.UUID, req sellerapp.ReasonRequest) (*sellerapp.SellerResponse, error)
	Suspend(ctx context.Context, id uuid.UUID, req sellerapp.ReasonRequest) (*sellerapp.SellerResponse, error)
	Reinstate(ctx context.Context, id uuid.UUID) (*sellerapp.SellerResponse, error)
	Storefront(ctx context.Context, slug string, page, pageSize int) (*sellerapp.StorefrontResponse, error)
}

// CartUseCases is implemented by cart.CartService
type CartUseCases interface {
	GetCart(ctx context.Context, owner cartapp.Owner) (*cartapp.CartResponse, error)
	AddItem(ctx context.Context, owner cartapp.Owner, req cartapp.AddItemRequest) (*cartapp.CartResponse, error)
	UpdateItem(ctx context.Context, owner cartapp.Owner, productID uuid.UUID, req cartapp.UpdateItemRequest) (*cartapp.CartResponse, error)
	RemoveItem(ctx context.Context, owner cartapp.Owner, productID uuid.UUID) (*cartapp.CartResponse, error)
	Clear(ctx context.Context, owner cartapp.Owner) (*cartapp.CartResponse, error)
}

// CheckoutUseCases is implemented by checkout.CheckoutService
type CheckoutUseCases interface {
	Initiate(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.InitiateRequest) (*checkoutapp.SessionResponse, error)
	Get(ctx context.Context, owner checkoutapp.Owner, id uuid.UUID) (*checkoutapp.SessionResponse, error)
	SetAddress(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.AddressRequest) (*checkoutapp.SessionResponse, error)
	ShippingOptions(ctx context.Context, owner checkoutapp.Owner, id uuid.UUID) (*shippingapp.QuoteResponse, error)
	SelectShipping(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.SelectShippingRequest) (*checkoutapp.SessionResponse, error)
	Cancel(ctx context.Context, owner checkoutapp.Owner, id uuid.UUID) (*checkoutapp.SessionResponse, error)
	ConfirmOrder(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.ConfirmRequest, key string) (*checkoutapp.ConfirmResponse, error)
}

// ShippingQuoteUseCases is implemented by shipping.QuoteService
type ShippingQuoteUseCases interface {
	CalculateOptions(ctx context.Context, userID *uuid.UUID, guestID string, req shippingapp.CalculateOptionsRequest) (*shippingapp.QuoteResponse, error)
}

// ShippingAdminUseCases is implemented by shipping.AdminService
type ShippingAdminUseCases interface {
	ListZones(ctx context.Context) ([]shippingapp.ZoneResponse, error)
	GetZone(ctx context.Context, id uuid.UUID) (*shippingapp.ZoneResponse, error)
	CreateZone(ctx context.Context, req shippingapp.ZoneRequest) (*shippingapp.ZoneResponse, error)
	UpdateZone(ctx context.Context, id uuid.UUID, req shippingapp.ZoneRequest) (*shippingapp.ZoneResponse, error)
	DeleteZone(ctx context.Context, id uuid.UUID) error
	ListMethods(ctx context.Context, zoneID uuid.UUID) ([]shippingapp.MethodResponse, error)
	CreateMethod(ctx context.Context, zoneID uuid.UUID, req shippingapp.MethodRequest) (*shippingapp.MethodResponse, error)
	UpdateMethod(ctx context.Context, id uuid.UUID, req shippingapp.MethodRequest) (*shippingapp.MethodResponse, error)
	DeleteMethod(ctx context.Context, id uuid.UUID) error
	CreateRate(ctx context.Context, methodID uuid.UUID, req shippingapp.RateRequest) (*shippingapp.RateResponse, error)
	UpdateRate(ctx context.Context, id uuid.UUID, req shippingapp.RateRequest) (*shippingapp.RateResponse, error)
	DeleteRate(ctx context.Context, id uuid.UUID) error
	ListHolidays(ctx context.Context) ([]shippingapp.HolidayResponse, error)
	CreateHoliday(ctx context.Context, req shippingapp.HolidayRequest) (*shippingapp.HolidayResponse, error)
	UpdateHoliday(ctx context.Context, id uuid.UUID, req shippingapp.HolidayRequest) (*shippingapp.HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id uuid.UUID) error
}

// TaxUseCases is implemented by tax.TaxService
type TaxUseCases interface {
	List(ctx context.Context) ([]taxapp.TaxRateResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*taxapp.TaxRateResponse, error)
	Create(ctx context.Context, req taxapp.TaxRateRequest) (*taxapp.TaxRateResponse, error)
	Update(ctx context.Context, id uuid.UUID, req taxapp.TaxRateRequest) (*taxapp.TaxRateResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderUseCases is implemented by order.OrderService
type OrderUseCases interface {
	ListMine(ctx context.Context, userID uuid.UUID, f orderapp.OrderListFilter) (*shared.Paginated[orderapp.OrderResponse], error)
	GetMine(ctx context.Context, userID, id uuid.UUID) (*orderapp.OrderResponse, error)
	Lookup(ctx context.Context, req orderapp.LookupRequest) (*orderapp.OrderResponse, error)
	Cancel(ctx context.Context, userID, id uuid.UUID, req orderapp.CancelRequest) (*orderapp.OrderResponse, error)
	ListForSeller(ctx context.Context, userID uuid.UUID, f orderapp.OrderListFilter) (*shared.Paginated[orderapp.SellerOrderResponse], error)
	ShipForSeller(ctx context.Context, userID, id uuid.UUID, req orderapp.ShipRequest) (*orderapp.SellerOrderResponse, error)
	List(ctx context.Context, f orderapp.OrderListFilter) (*shared.Paginated[orderapp.OrderResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*orderapp.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error)
}

var (
	_ AuthUseCases          = (*identity.AuthService)(nil)
	_ UserUseCases          = (*identity.UserService)(nil)
	_ CategoryUseCases      = (*catalogapp.CategoryService)(nil)
	_ ProductUseCases       = (*catalogapp.ProductService)(nil)
	_ SellerUseCases        = (*sellerapp.SellerService)(nil)
	_ CartUseCases          = (*cartapp.CartService)(nil)
	_ CheckoutUseCases      = (*checkoutapp.CheckoutService)(nil)
	_ ShippingQuoteUseCases = (*shippingapp.QuoteService)(nil)
	_ ShippingAdminUseCases = (*shippingapp.AdminService)(nil)
	_ TaxUseCases           = (*taxapp.TaxService)(nil)
	_ OrderUseCases         = (*orderapp.OrderService)(nil)
)
