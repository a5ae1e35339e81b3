package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	orderapp "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

func newOrderRouter(svc *mockOrderService, who caller) *gin.Engine {
	h := NewOrderHandler(svc)
	r := newTestRouter(who)
	r.GET("/orders", h.ListMine)
	r.GET("/orders/lookup", h.Lookup)
	r.GET("/orders/:id", h.GetMine)
	r.POST("/orders/:id/cancel", h.Cancel)
	r.GET("/seller/orders", h.ListForSeller)
	r.POST("/seller/orders/:id/ship", h.ShipForSeller)
	r.GET("/admin/orders", h.AdminList)
	r.GET("/admin/orders/:id", h.AdminGet)
	r.PUT("/admin/orders/:id/status", h.UpdateStatus)
	return r
}

func TestOrderHandler_ListMine(t *testing.T) {
	userID := uuid.New()
	svc := new(mockOrderService)
	svc.On("ListMine", mock.Anything, userID, orderapp.OrderListFilter{Status: "pending"}).
		Return(&shared.Paginated[orderapp.OrderResponse]{Items: nil, Total: 0, Page: 1, PageSize: 20}, nil)

	w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodGet, "/orders?status=pending", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decodeResponse(t, w).Data)
	svc.AssertExpectations(t)
}

func TestOrderHandler_ListMine_Guest(t *testing.T) {
	svc := new(mockOrderService)

	w := doJSON(t, newOrderRouter(svc, asGuest(uuid.NewString())), http.MethodGet, "/orders", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_GetMine_OtherBuyer(t *testing.T) {
	userID, orderID := uuid.New(), uuid.New()
	svc := new(mockOrderService)
	svc.On("GetMine", mock.Anything, userID, orderID).Return(nil, shared.ErrNotFound)

	w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodGet, "/orders/"+orderID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_Lookup(t *testing.T) {
	req := orderapp.LookupRequest{Number: "MP-20261015-0001", Email: "guest@example.com"}
	svc := new(mockOrderService)
	svc.On("Lookup", mock.Anything, req).
		Return(&orderapp.OrderResponse{ID: uuid.New(), Number: req.Number, Guest: true}, nil)

	w := doJSON(t, newOrderRouter(svc, anonymous()), http.MethodGet,
		"/orders/lookup?number=MP-20261015-0001&email=guest@example.com", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, req.Number, decodeResponse(t, w).Data.(map[string]any)["number"])
}

func TestOrderHandler_Lookup_Validation(t *testing.T) {
	svc := new(mockOrderService)
	r := newOrderRouter(svc, anonymous())

	for _, target := range []string{
		"/orders/lookup?number=MP-1",
		"/orders/lookup?email=guest@example.com",
		"/orders/lookup?number=MP-1&email=not-an-email",
	} {
		w := doJSON(t, r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code, target)
	}
	svc.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestOrderHandler_Cancel(t *testing.T) {
	userID, orderID := uuid.New(), uuid.New()

	t.Run("without body", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("Cancel", mock.Anything, userID, orderID, orderapp.CancelRequest{}).
			Return(&orderapp.OrderResponse{ID: orderID, Status: "cancelled"}, nil)

		w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodPost, "/orders/"+orderID.String()+"/cancel", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("with reason", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("Cancel", mock.Anything, userID, orderID, orderapp.CancelRequest{Reason: "changed my mind"}).
			Return(&orderapp.OrderResponse{ID: orderID, Status: "cancelled"}, nil)

		w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodPost, "/orders/"+orderID.String()+"/cancel",
			orderapp.CancelRequest{Reason: "changed my mind"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("already shipped", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("Cancel", mock.Anything, userID, orderID, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_STATE", "Only pending orders can be cancelled"))

		w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodPost, "/orders/"+orderID.String()+"/cancel", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
	})
}

func TestOrderHandler_ShipForSeller(t *testing.T) {
	userID, orderID := uuid.New(), uuid.New()
	svc := new(mockOrderService)
	svc.On("ShipForSeller", mock.Anything, userID, orderID, orderapp.ShipRequest{TrackingNumber: "1Z999"}).
		Return(&orderapp.SellerOrderResponse{ID: orderID, Status: "shipped", TrackingNumber: "1Z999"}, nil)

	w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodPost, "/seller/orders/"+orderID.String()+"/ship",
		orderapp.ShipRequest{TrackingNumber: "1Z999"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shipped", decodeResponse(t, w).Data.(map[string]any)["status"])
}

func TestOrderHandler_ListForSeller_NotASeller(t *testing.T) {
	userID := uuid.New()
	svc := new(mockOrderService)
	svc.On("ListForSeller", mock.Anything, userID, orderapp.OrderListFilter{}).Return(nil, shared.ErrForbidden)

	w := doJSON(t, newOrderRouter(svc, asCustomer(userID)), http.MethodGet, "/seller/orders", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()
	admin := caller{userID: uuid.New(), role: "admin"}

	t.Run("valid transition", func(t *testing.T) {
		svc := new(mockOrderService)
		svc.On("UpdateStatus", mock.Anything, orderID, orderapp.UpdateStatusRequest{Status: "paid"}).
			Return(&orderapp.OrderResponse{ID: orderID, Status: "paid"}, nil)

		w := doJSON(t, newOrderRouter(svc, admin), http.MethodPut, "/admin/orders/"+orderID.String()+"/status",
			orderapp.UpdateStatusRequest{Status: "paid"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := new(mockOrderService)

		w := doJSON(t, newOrderRouter(svc, admin), http.MethodPut, "/admin/orders/"+orderID.String()+"/status",
			map[string]string{"status": "refunded"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(t, newOrderRouter(new(mockOrderService), admin), http.MethodPut, "/admin/orders/42/status",
			orderapp.UpdateStatusRequest{Status: "paid"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
