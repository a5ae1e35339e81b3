package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marketplace/backend/internal/application/identity"
)

// UserHandler handles account administration
type UserHandler struct {
	BaseHandler
	userService UserUseCases
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserUseCases) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @ID           adminListUsers
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Param        search query string false "Email or name"
// @Param        role query string false "Role filter" Enums(customer, seller, admin)
// @Param        status query string false "Status filter" Enums(active, suspended)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// Get godoc
// @ID           adminGetUser
// @Summary      Get user by ID
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Suspend godoc
// @ID           adminSuspendUser
// @Summary      Suspend a user
// @Description  Suspended users cannot sign in. Administrators cannot suspend themselves.
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/suspend [post]
func (h *UserHandler) Suspend(c *gin.Context) {
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Suspend(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate godoc
// @ID           adminActivateUser
// @Summary      Reactivate a suspended user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
