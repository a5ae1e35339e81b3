package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sellerapp "github.com/marketplace/backend/internal/application/seller"
)

// SellerHandler handles seller onboarding, storefronts and moderation
type SellerHandler struct {
	BaseHandler
	sellerService SellerUseCases
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(sellerService SellerUseCases) *SellerHandler {
	return &SellerHandler{sellerService: sellerService}
}

// Apply godoc
// @ID           applySeller
// @Summary      Apply to become a seller
// @Description  Creates a pending seller account for the caller. An administrator must approve it before products can be listed.
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        request body seller.ApplyRequest true "Storefront details"
// @Success      201 {object} APIResponse[seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/apply [post]
func (h *SellerHandler) Apply(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req sellerapp.ApplyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.sellerService.Apply(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetMine godoc
// @ID           getMySeller
// @Summary      The caller's seller account
// @Tags         seller
// @Produce      json
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/me [get]
func (h *SellerHandler) GetMine(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	resp, err := h.sellerService.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateMine godoc
// @ID           updateMySeller
// @Summary      Update storefront details
// @Description  The storefront slug follows the store name
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        request body seller.ApplyRequest true "Storefront details"
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/me [put]
func (h *SellerHandler) UpdateMine(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req sellerapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.sellerService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Storefront godoc
// @ID           getStorefront
// @Summary      Seller storefront
// @Description  Public seller profile with its active products. Only approved sellers have a storefront.
// @Tags         sellers
// @Produce      json
// @Param        slug path string true "Storefront slug"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[seller.StorefrontResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sellers/{slug} [get]
func (h *SellerHandler) Storefront(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.sellerService.Storefront(c.Request.Context(), c.Param("slug"), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AdminList godoc
// @ID           adminListSellers
// @Summary      List sellers
// @Tags         admin-sellers
// @Produce      json
// @Param        search query string false "Search in store name"
// @Param        status query string false "Status filter" Enums(pending, approved, rejected, suspended)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sellers [get]
func (h *SellerHandler) AdminList(c *gin.Context) {
	var filter sellerapp.SellerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.sellerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// AdminGet godoc
// @ID           adminGetSeller
// @Summary      Get seller by ID
// @Tags         admin-sellers
// @Produce      json
// @Param        id path string true "Seller ID" format(uuid)
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sellers/{id} [get]
func (h *SellerHandler) AdminGet(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "seller")
	if !ok {
		return
	}

	resp, err := h.sellerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve godoc
// @ID           approveSeller
// @Summary      Approve a seller
// @Description  Optionally overrides the default commission rate
// @Tags         admin-sellers
// @Accept       json
// @Produce      json
// @Param        id path string true "Seller ID" format(uuid)
// @Param        request body seller.ApproveRequest false "Commission"
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/approve [post]
func (h *SellerHandler) Approve(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "seller")
	if !ok {
		return
	}

	var req sellerapp.ApproveRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.sellerService.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject godoc
// @ID           rejectSeller
// @Summary      Reject a seller application
// @Tags         admin-sellers
// @Accept       json
// @Produce      json
// @Param        id path string true "Seller ID" format(uuid)
// @Param        request body seller.ReasonRequest true "Reason"
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/reject [post]
func (h *SellerHandler) Reject(c *gin.Context) {
	h.moderateWithReason(c, h.sellerService.Reject)
}

// Suspend godoc
// @ID           suspendSeller
// @Summary      Suspend a seller
// @Tags         admin-sellers
// @Accept       json
// @Produce      json
// @Param        id path string true "Seller ID" format(uuid)
// @Param        request body seller.ReasonRequest true "Reason"
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/suspend [post]
func (h *SellerHandler) Suspend(c *gin.Context) {
	h.moderateWithReason(c, h.sellerService.Suspend)
}

func (h *SellerHandler) moderateWithReason(c *gin.Context, apply func(ctx context.Context, id uuid.UUID, req sellerapp.ReasonRequest) (*sellerapp.SellerResponse, error)) {
	id, ok := h.parseUUIDParam(c, "id", "seller")
	if !ok {
		return
	}

	var req sellerapp.ReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := apply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reinstate godoc
// @ID           reinstateSeller
// @Summary      Reinstate a suspended seller
// @Tags         admin-sellers
// @Produce      json
// @Param        id path string true "Seller ID" format(uuid)
// @Success      200 {object} APIResponse[seller.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/reinstate [post]
func (h *SellerHandler) Reinstate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "seller")
	if !ok {
		return
	}

	resp, err := h.sellerService.Reinstate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
