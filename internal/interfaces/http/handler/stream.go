package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	sellerapp "github.com/marketplace/backend/internal/application/seller"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/infrastructure/logger"
)

// OrderStream upgrades a request into a per-seller notification stream
type OrderStream interface {
	Serve(w http.ResponseWriter, r *http.Request, sellerID uuid.UUID) error
}

// sellerLookup resolves the caller's seller account
type sellerLookup interface {
	GetMine(ctx context.Context, userID uuid.UUID) (*sellerapp.SellerResponse, error)
}

// StreamHandler pushes new order notifications to connected sellers
type StreamHandler struct {
	BaseHandler
	sellers sellerLookup
	stream  OrderStream
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(sellers SellerUseCases, stream OrderStream) *StreamHandler {
	return &StreamHandler{sellers: sellers, stream: stream}
}

// SellerOrders godoc
// @ID           streamSellerOrders
// @Summary      Live order notifications
// @Description  WebSocket stream. One message is pushed for each new order containing the seller's products.
// @Tags         seller-orders
// @Success      101
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/orders/stream [get]
func (h *StreamHandler) SellerOrders(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	sel, err := h.sellers.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if sel.Status != string(seller.StatusApproved) {
		h.Forbidden(c, "Seller account is not approved")
		return
	}

	// The upgrader writes its own response when the handshake fails
	if err := h.stream.Serve(c.Writer, c.Request, sel.ID); err != nil {
		logger.GetGinLogger(c).Debug("Order stream closed", zap.Error(err))
	}
}
