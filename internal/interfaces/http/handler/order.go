package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/marketplace/backend/internal/application/order"
)

// OrderHandler serves orders to buyers, sellers and administrators
type OrderHandler struct {
	BaseHandler
	orderService OrderUseCases
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderUseCases) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListMine godoc
// @ID           listMyOrders
// @Summary      The caller's orders
// @Tags         orders
// @Produce      json
// @Param        status query string false "Status filter" Enums(pending, paid, shipped, delivered, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]order.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.orderService.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// GetMine godoc
// @ID           getMyOrder
// @Summary      One of the caller's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	resp, err := h.orderService.GetMine(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Lookup godoc
// @ID           lookupOrder
// @Summary      Find a guest order
// @Description  Matches the order number together with the email given at checkout
// @Tags         orders
// @Produce      json
// @Param        number query string true "Order number"
// @Param        email query string true "Checkout email"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /orders/lookup [get]
func (h *OrderHandler) Lookup(c *gin.Context) {
	var req orderapp.LookupRequest
	if !h.bindQuery(c, &req) {
		return
	}

	resp, err := h.orderService.Lookup(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel godoc
// @ID           cancelMyOrder
// @Summary      Cancel an order
// @Description  Only pending orders can be cancelled by the buyer. Reserved stock is released.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.CancelRequest false "Reason"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req orderapp.CancelRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListForSeller godoc
// @ID           listSellerOrders
// @Summary      Orders containing the caller's products
// @Description  Each order lists only the seller's own lines
// @Tags         seller-orders
// @Produce      json
// @Param        status query string false "Status filter" Enums(pending, paid, shipped, delivered, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]order.SellerOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/orders [get]
func (h *OrderHandler) ListForSeller(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.orderService.ListForSeller(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// ShipForSeller godoc
// @ID           shipSellerOrder
// @Summary      Mark the seller's part of an order as shipped
// @Tags         seller-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.ShipRequest false "Tracking"
// @Success      200 {object} APIResponse[order.SellerOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/orders/{id}/ship [post]
func (h *OrderHandler) ShipForSeller(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req orderapp.ShipRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.ShipForSeller(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AdminList godoc
// @ID           adminListOrders
// @Summary      List all orders
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "Status filter" Enums(pending, paid, shipped, delivered, cancelled)
// @Param        search query string false "Order number or email"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]order.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// AdminGet godoc
// @ID           adminGetOrder
// @Summary      Get any order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           adminUpdateOrderStatus
// @Summary      Move an order through its lifecycle
// @Description  Cancelling from the admin side restocks the order's products
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.UpdateStatusRequest true "Status"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
