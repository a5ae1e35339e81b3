package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

func newCartRouter(svc *mockCartService, who caller) *gin.Engine {
	h := NewCartHandler(svc)
	r := newTestRouter(who)
	r.GET("/cart", h.Get)
	r.POST("/cart/add", h.AddItem)
	r.PUT("/cart/items/:product_id", h.UpdateItem)
	r.DELETE("/cart/items/:product_id", h.RemoveItem)
	r.DELETE("/cart", h.Clear)
	return r
}

func guestOwner(id string) cartapp.Owner { return cartapp.Owner{GuestID: id} }

func userOwner(id uuid.UUID) cartapp.Owner { return cartapp.Owner{UserID: &id} }

func TestCartHandler_Get_Guest(t *testing.T) {
	guestID := uuid.NewString()
	svc := new(mockCartService)
	svc.On("GetCart", mock.Anything, guestOwner(guestID)).
		Return(&cartapp.CartResponse{ID: uuid.New(), Guest: true, Items: []cartapp.CartItemResponse{}}, nil)

	w := doJSON(t, newCartRouter(svc, asGuest(guestID)), http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeResponse(t, w).Data.(map[string]any)["guest"])
	svc.AssertExpectations(t)
}

func TestCartHandler_Get_Anonymous(t *testing.T) {
	svc := new(mockCartService)

	w := doJSON(t, newCartRouter(svc, anonymous()), http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
}

func TestCartHandler_AddItem_User(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	req := cartapp.AddItemRequest{ProductID: productID, Quantity: 2}
	svc := new(mockCartService)
	svc.On("AddItem", mock.Anything, userOwner(userID), req).
		Return(&cartapp.CartResponse{Items: []cartapp.CartItemResponse{{ProductID: productID, Quantity: 2}}}, nil)

	w := doJSON(t, newCartRouter(svc, asCustomer(userID)), http.MethodPost, "/cart/add", req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_AddItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing product", map[string]any{"quantity": 1}},
		{"zero quantity", map[string]any{"product_id": uuid.NewString(), "quantity": 0}},
		{"quantity over limit", map[string]any{"product_id": uuid.NewString(), "quantity": 1000}},
		{"malformed json", `{"product_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockCartService)
			w := doJSON(t, newCartRouter(svc, asGuest(uuid.NewString())), http.MethodPost, "/cart/add", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCartHandler_AddItem_InsufficientStock(t *testing.T) {
	svc := new(mockCartService)
	svc.On("AddItem", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrInsufficientStock)

	w := doJSON(t, newCartRouter(svc, asGuest(uuid.NewString())), http.MethodPost, "/cart/add",
		cartapp.AddItemRequest{ProductID: uuid.New(), Quantity: 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientStock, decodeResponse(t, w).Error.Code)
}

func TestCartHandler_UpdateItem_ZeroQuantityAllowed(t *testing.T) {
	guestID := uuid.NewString()
	productID := uuid.New()
	svc := new(mockCartService)
	svc.On("UpdateItem", mock.Anything, guestOwner(guestID), productID, mock.MatchedBy(func(r cartapp.UpdateItemRequest) bool {
		return r.Quantity != nil && *r.Quantity == 0
	})).Return(&cartapp.CartResponse{Items: []cartapp.CartItemResponse{}}, nil)

	w := doJSON(t, newCartRouter(svc, asGuest(guestID)), http.MethodPut, "/cart/items/"+productID.String(),
		map[string]any{"quantity": 0})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_UpdateItem_BadProductID(t *testing.T) {
	w := doJSON(t, newCartRouter(new(mockCartService), asGuest(uuid.NewString())), http.MethodPut, "/cart/items/xyz",
		map[string]any{"quantity": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_RemoveItem_NotInCart(t *testing.T) {
	guestID := uuid.NewString()
	productID := uuid.New()
	svc := new(mockCartService)
	svc.On("RemoveItem", mock.Anything, guestOwner(guestID), productID).
		Return(nil, shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart"))

	w := doJSON(t, newCartRouter(svc, asGuest(guestID)), http.MethodDelete, "/cart/items/"+productID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	userID := uuid.New()
	svc := new(mockCartService)
	svc.On("Clear", mock.Anything, userOwner(userID)).Return(&cartapp.CartResponse{Items: []cartapp.CartItemResponse{}}, nil)

	w := doJSON(t, newCartRouter(svc, asCustomer(userID)), http.MethodDelete, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
