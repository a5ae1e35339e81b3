package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	orderapp "github.com/marketplace/backend/internal/application/order"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

func newCheckoutRouter(svc *mockCheckoutService, who caller) *gin.Engine {
	h := NewCheckoutHandler(svc)
	r := newTestRouter(who)
	r.POST("/checkout/initiate", h.Initiate)
	r.GET("/checkout/:id", h.Get)
	r.POST("/checkout/address", h.SetAddress)
	r.GET("/checkout/:id/shipping-options", h.ShippingOptions)
	r.POST("/checkout/shipping", h.SelectShipping)
	r.POST("/checkout/confirm-order", h.ConfirmOrder)
	r.POST("/checkout/:id/cancel", h.Cancel)
	return r
}

func TestCheckoutHandler_Initiate_WithoutBody(t *testing.T) {
	guestID := uuid.NewString()
	svc := new(mockCheckoutService)
	svc.On("Initiate", mock.Anything, guestOwner(guestID), checkoutapp.InitiateRequest{}).
		Return(&checkoutapp.SessionResponse{ID: uuid.New(), Status: "pending"}, nil)

	w := doJSON(t, newCheckoutRouter(svc, asGuest(guestID)), http.MethodPost, "/checkout/initiate", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCheckoutHandler_Initiate_EmptyCart(t *testing.T) {
	svc := new(mockCheckoutService)
	svc.On("Initiate", mock.Anything, mock.Anything, checkoutapp.InitiateRequest{Email: "guest@example.com"}).
		Return(nil, shared.NewDomainError("CHECKOUT_EMPTY", "Cart is empty"))

	w := doJSON(t, newCheckoutRouter(svc, asGuest(uuid.NewString())), http.MethodPost, "/checkout/initiate",
		checkoutapp.InitiateRequest{Email: "guest@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeCheckoutEmpty, decodeResponse(t, w).Error.Code)
}

func TestCheckoutHandler_Get_Expired(t *testing.T) {
	guestID := uuid.NewString()
	id := uuid.New()
	svc := new(mockCheckoutService)
	svc.On("Get", mock.Anything, guestOwner(guestID), id).
		Return(nil, shared.NewDomainError("CHECKOUT_EXPIRED", "Checkout session has expired"))

	w := doJSON(t, newCheckoutRouter(svc, asGuest(guestID)), http.MethodGet, "/checkout/"+id.String(), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeCheckoutExpired, decodeResponse(t, w).Error.Code)
}

func TestCheckoutHandler_Get_OtherOwnersSession(t *testing.T) {
	svc := new(mockCheckoutService)
	svc.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	w := doJSON(t, newCheckoutRouter(svc, asCustomer(uuid.New())), http.MethodGet, "/checkout/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_SetAddress_RequiresSession(t *testing.T) {
	svc := new(mockCheckoutService)

	w := doJSON(t, newCheckoutRouter(svc, asGuest(uuid.NewString())), http.MethodPost, "/checkout/address",
		map[string]any{"shipping_address": map[string]any{"line1": "1 Main St", "city": "Austin", "country": "US"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	svc.AssertNotCalled(t, "SetAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHandler_ShippingOptions(t *testing.T) {
	guestID := uuid.NewString()
	id := uuid.New()
	svc := new(mockCheckoutService)
	svc.On("ShippingOptions", mock.Anything, guestOwner(guestID), id).
		Return(&shippingapp.QuoteResponse{ZoneName: "Domestic", Currency: "USD"}, nil)

	w := doJSON(t, newCheckoutRouter(svc, asGuest(guestID)), http.MethodGet, "/checkout/"+id.String()+"/shipping-options", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Domestic", decodeResponse(t, w).Data.(map[string]any)["zone_name"])
}

func TestCheckoutHandler_SelectShipping_MethodNotOffered(t *testing.T) {
	guestID := uuid.NewString()
	req := checkoutapp.SelectShippingRequest{SessionID: uuid.New(), MethodID: uuid.New()}
	svc := new(mockCheckoutService)
	svc.On("SelectShipping", mock.Anything, guestOwner(guestID), req).
		Return(nil, shared.NewDomainError("SHIPPING_METHOD_UNAVAILABLE", "Method is not available for this address"))

	w := doJSON(t, newCheckoutRouter(svc, asGuest(guestID)), http.MethodPost, "/checkout/shipping", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeShippingMethodUnavailable, decodeResponse(t, w).Error.Code)
}

func TestCheckoutHandler_ConfirmOrder(t *testing.T) {
	guestID := uuid.NewString()
	req := checkoutapp.ConfirmRequest{SessionID: uuid.New()}
	order := &orderapp.OrderResponse{ID: uuid.New(), Number: "MP-20260101-ABCDEF"}

	tests := []struct {
		name     string
		replayed bool
		status   int
	}{
		{"first placement", false, http.StatusCreated},
		{"replay", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockCheckoutService)
			svc.On("ConfirmOrder", mock.Anything, guestOwner(guestID), req, "retry-key-1").
				Return(&checkoutapp.ConfirmResponse{Order: order, Replayed: tt.replayed}, nil)

			w := doJSON(t, newCheckoutRouter(svc, asGuest(guestID)), http.MethodPost, "/checkout/confirm-order", req,
				IdempotencyKeyHeader, "retry-key-1")

			assert.Equal(t, tt.status, w.Code)
			data := decodeResponse(t, w).Data.(map[string]any)
			assert.Equal(t, tt.replayed, data["replayed"])
			svc.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_ConfirmOrder_InFlight(t *testing.T) {
	svc := new(mockCheckoutService)
	svc.On("ConfirmOrder", mock.Anything, mock.Anything, mock.Anything, "k").
		Return(nil, shared.NewDomainError("CONFLICT", "Order placement already in progress"))

	w := doJSON(t, newCheckoutRouter(svc, asGuest(uuid.NewString())), http.MethodPost, "/checkout/confirm-order",
		checkoutapp.ConfirmRequest{SessionID: uuid.New()}, IdempotencyKeyHeader, "k")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutHandler_ConfirmOrder_KeyTooLong(t *testing.T) {
	svc := new(mockCheckoutService)

	w := doJSON(t, newCheckoutRouter(svc, asGuest(uuid.NewString())), http.MethodPost, "/checkout/confirm-order",
		checkoutapp.ConfirmRequest{SessionID: uuid.New()}, IdempotencyKeyHeader, strings.Repeat("k", 129))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Cancel(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	svc := new(mockCheckoutService)
	svc.On("Cancel", mock.Anything, userOwner(userID), id).
		Return(&checkoutapp.SessionResponse{ID: id, Status: "cancelled"}, nil)

	w := doJSON(t, newCheckoutRouter(svc, asCustomer(userID)), http.MethodPost, "/checkout/"+id.String()+"/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decodeResponse(t, w).Data.(map[string]any)["status"])
}
