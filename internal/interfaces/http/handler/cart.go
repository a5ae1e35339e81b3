package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/marketplace/backend/internal/application/cart"
)

// CartHandler handles the shopping cart of a user or guest
type CartHandler struct {
	BaseHandler
	cartService CartUseCases
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService CartUseCases) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @ID           getCart
// @Summary      Get the cart
// @Description  Returns the caller's cart. Anonymous callers are identified by the guest session.
// @Tags         cart
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	resp, err := h.cartService.GetCart(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart increases its quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        request body cart.AddItemRequest true "Item"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cart/add [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.AddItem(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Change a line quantity
// @Description  A quantity of zero removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body cart.UpdateItemRequest true "Quantity"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cart/items/{product_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "product_id", "product")
	if !ok {
		return
	}

	var req cartapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.UpdateItem(c.Request.Context(), owner, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "product_id", "product")
	if !ok {
		return
	}

	resp, err := h.cartService.RemoveItem(c.Request.Context(), owner, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	resp, err := h.cartService.Clear(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
