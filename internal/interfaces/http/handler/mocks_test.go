package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	"github.com/marketplace/backend/internal/application/identity"
	orderapp "github.com/marketplace/backend/internal/application/order"
	sellerapp "github.com/marketplace/backend/internal/application/seller"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
)

// result returns the typed first return value of a mock call, or nil
func result[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req identity.RegisterRequest, guestID string) (*identity.AuthResult, error) {
	args := m.Called(ctx, req, guestID)
	return result[identity.AuthResult](args), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req identity.LoginRequest, guestID string) (*identity.AuthResult, error) {
	args := m.Called(ctx, req, guestID)
	return result[identity.AuthResult](args), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return result[auth.TokenPair](args), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.UserResponse, error) {
	args := m.Called(ctx, userID)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req identity.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type mockCartService struct{ mock.Mock }

func (m *mockCartService) GetCart(ctx context.Context, owner cartapp.Owner) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, owner)
	return result[cartapp.CartResponse](args), args.Error(1)
}

func (m *mockCartService) AddItem(ctx context.Context, owner cartapp.Owner, req cartapp.AddItemRequest) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, owner, req)
	return result[cartapp.CartResponse](args), args.Error(1)
}

func (m *mockCartService) UpdateItem(ctx context.Context, owner cartapp.Owner, productID uuid.UUID, req cartapp.UpdateItemRequest) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, owner, productID, req)
	return result[cartapp.CartResponse](args), args.Error(1)
}

func (m *mockCartService) RemoveItem(ctx context.Context, owner cartapp.Owner, productID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, owner, productID)
	return result[cartapp.CartResponse](args), args.Error(1)
}

func (m *mockCartService) Clear(ctx context.Context, owner cartapp.Owner) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, owner)
	return result[cartapp.CartResponse](args), args.Error(1)
}

type mockCheckoutService struct{ mock.Mock }

func (m *mockCheckoutService) Initiate(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.InitiateRequest) (*checkoutapp.SessionResponse, error) {
	args := m.Called(ctx, owner, req)
	return result[checkoutapp.SessionResponse](args), args.Error(1)
}

func (m *mockCheckoutService) Get(ctx context.Context, owner checkoutapp.Owner, id uuid.UUID) (*checkoutapp.SessionResponse, error) {
	args := m.Called(ctx, owner, id)
	return result[checkoutapp.SessionResponse](args), args.Error(1)
}

func (m *mockCheckoutService) SetAddress(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.AddressRequest) (*checkoutapp.SessionResponse, error) {
	args := m.Called(ctx, owner, req)
	return result[checkoutapp.SessionResponse](args), args.Error(1)
}

func (m *mockCheckoutService) ShippingOptions(ctx context.Context, owner checkoutapp.Owner, id uuid.UUID) (*shippingapp.QuoteResponse, error) {
	args := m.Called(ctx, owner, id)
	return result[shippingapp.QuoteResponse](args), args.Error(1)
}

func (m *mockCheckoutService) SelectShipping(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.SelectShippingRequest) (*checkoutapp.SessionResponse, error) {
	args := m.Called(ctx, owner, req)
	return result[checkoutapp.SessionResponse](args), args.Error(1)
}

func (m *mockCheckoutService) Cancel(ctx context.Context, owner checkoutapp.Owner, id uuid.UUID) (*checkoutapp.SessionResponse, error) {
	args := m.Called(ctx, owner, id)
	return result[checkoutapp.SessionResponse](args), args.Error(1)
}

func (m *mockCheckoutService) ConfirmOrder(ctx context.Context, owner checkoutapp.Owner, req checkoutapp.ConfirmRequest, key string) (*checkoutapp.ConfirmResponse, error) {
	args := m.Called(ctx, owner, req, key)
	return result[checkoutapp.ConfirmResponse](args), args.Error(1)
}

type mockProductService struct{ mock.Mock }

func (m *mockProductService) List(ctx context.Context, f catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, f)
	return result[shared.Paginated[catalogapp.ProductResponse]](args), args.Error(1)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) ListMine(ctx context.Context, userID uuid.UUID, f catalogapp.ProductListFilter) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, userID, f)
	return result[shared.Paginated[catalogapp.ProductResponse]](args), args.Error(1)
}

func (m *mockProductService) Create(ctx context.Context, userID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, req)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, userID, productID uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, productID, req)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) UpdatePrice(ctx context.Context, userID, productID uuid.UUID, req catalogapp.UpdatePriceRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, productID, req)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) UpdateStock(ctx context.Context, userID, productID uuid.UUID, req catalogapp.UpdateStockRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, productID, req)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Activate(ctx context.Context, userID, productID uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, productID)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Deactivate(ctx context.Context, userID, productID uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, productID)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *mockProductService) RequestImageUpload(ctx context.Context, userID, productID uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.ImageUploadResponse, error) {
	args := m.Called(ctx, userID, productID, req)
	return result[catalogapp.ImageUploadResponse](args), args.Error(1)
}

func (m *mockProductService) RemoveImage(ctx context.Context, userID, productID uuid.UUID, key string) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, productID, key)
	return result[catalogapp.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Export(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, userID, w)
	if args.Error(0) == nil {
		_, _ = io.WriteString(w, "xlsx-bytes")
	}
	return args.Error(0)
}

func (m *mockProductService) ExportFormat() (string, string) {
	args := m.Called()
	return args.String(0), args.String(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) ListMine(ctx context.Context, userID uuid.UUID, f orderapp.OrderListFilter) (*shared.Paginated[orderapp.OrderResponse], error) {
	args := m.Called(ctx, userID, f)
	return result[shared.Paginated[orderapp.OrderResponse]](args), args.Error(1)
}

func (m *mockOrderService) GetMine(ctx context.Context, userID, id uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, id)
	return result[orderapp.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) Lookup(ctx context.Context, req orderapp.LookupRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, req)
	return result[orderapp.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) Cancel(ctx context.Context, userID, id uuid.UUID, req orderapp.CancelRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, userID, id, req)
	return result[orderapp.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) ListForSeller(ctx context.Context, userID uuid.UUID, f orderapp.OrderListFilter) (*shared.Paginated[orderapp.SellerOrderResponse], error) {
	args := m.Called(ctx, userID, f)
	return result[shared.Paginated[orderapp.SellerOrderResponse]](args), args.Error(1)
}

func (m *mockOrderService) ShipForSeller(ctx context.Context, userID, id uuid.UUID, req orderapp.ShipRequest) (*orderapp.SellerOrderResponse, error) {
	args := m.Called(ctx, userID, id, req)
	return result[orderapp.SellerOrderResponse](args), args.Error(1)
}

func (m *mockOrderService) List(ctx context.Context, f orderapp.OrderListFilter) (*shared.Paginated[orderapp.OrderResponse], error) {
	args := m.Called(ctx, f)
	return result[shared.Paginated[orderapp.OrderResponse]](args), args.Error(1)
}

func (m *mockOrderService) Get(ctx context.Context, id uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, id)
	return result[orderapp.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	return result[orderapp.OrderResponse](args), args.Error(1)
}

type mockSellerService struct{ mock.Mock }

func (m *mockSellerService) Apply(ctx context.Context, userID uuid.UUID, req sellerapp.ApplyRequest) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, userID, req)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) GetMine(ctx context.Context, userID uuid.UUID) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, userID)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) Get(ctx context.Context, id uuid.UUID) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, id)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) List(ctx context.Context, f sellerapp.SellerListFilter) (*shared.Paginated[sellerapp.SellerResponse], error) {
	args := m.Called(ctx, f)
	return result[shared.Paginated[sellerapp.SellerResponse]](args), args.Error(1)
}

func (m *mockSellerService) UpdateProfile(ctx context.Context, userID uuid.UUID, req sellerapp.UpdateProfileRequest) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, userID, req)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) Approve(ctx context.Context, id uuid.UUID, req sellerapp.ApproveRequest) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, id, req)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) Reject(ctx context.Context, id uuid.UUID, req sellerapp.ReasonRequest) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, id, req)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) Suspend(ctx context.Context, id uuid.UUID, req sellerapp.ReasonRequest) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, id, req)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) Reinstate(ctx context.Context, id uuid.UUID) (*sellerapp.SellerResponse, error) {
	args := m.Called(ctx, id)
	return result[sellerapp.SellerResponse](args), args.Error(1)
}

func (m *mockSellerService) Storefront(ctx context.Context, slug string, page, pageSize int) (*sellerapp.StorefrontResponse, error) {
	args := m.Called(ctx, slug, page, pageSize)
	return result[sellerapp.StorefrontResponse](args), args.Error(1)
}

type mockQuoteService struct{ mock.Mock }

func (m *mockQuoteService) CalculateOptions(ctx context.Context, userID *uuid.UUID, guestID string, req shippingapp.CalculateOptionsRequest) (*shippingapp.QuoteResponse, error) {
	args := m.Called(ctx, userID, guestID, req)
	return result[shippingapp.QuoteResponse](args), args.Error(1)
}

var (
	_ AuthUseCases          = (*mockAuthService)(nil)
	_ CartUseCases          = (*mockCartService)(nil)
	_ CheckoutUseCases      = (*mockCheckoutService)(nil)
	_ ProductUseCases       = (*mockProductService)(nil)
	_ OrderUseCases         = (*mockOrderService)(nil)
	_ SellerUseCases        = (*mockSellerService)(nil)
	_ ShippingQuoteUseCases = (*mockQuoteService)(nil)
)
