package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/models"
)

// UserManager exposes account management.
type UserManager interface {
	Get(ctx context.Context, id int64) (*models.UserResponse, error)
	List(ctx context.Context, caller *models.User) ([]models.UserResponse, error)
	Update(ctx context.Context, caller *models.User, id int64, req models.UpdateUserRequest) (*models.UserResponse, error)
	Delete(ctx context.Context, caller *models.User, id int64) error
}

// UserHandler handles user management requests.
type UserHandler struct {
	logger  logging.Logger
	service UserManager
}

// NewUserHandler creates a new user handler.
func NewUserHandler(logger logging.Logger, service UserManager) *UserHandler {
	return &UserHandler{
		logger:  logger.With(zap.String("handler", "user")),
		service: service,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Lists every user. Requires ADMIN.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]models.UserResponse}
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Admin privileges required"
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	users, err := h.service.List(c.Request.Context(), user)
	if handleServiceError(c, h.logger, err, "list users") {
		return
	}
	response.OK(c, users)
}

// GetUser godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.SuccessResponse{data=models.UserResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid id"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if handleServiceError(c, h.logger, err, "get user") {
		return
	}
	response.OK(c, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Partially updates a user. Allowed for the user itself or an ADMIN.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse{data=models.UserResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 403 {object} response.ErrorResponse "Not allowed"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Failure 409 {object} response.ErrorResponse "Username or email taken"
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), user, id, req)
	if handleServiceError(c, h.logger, err, "update user") {
		return
	}
	response.OK(c, updated)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Deletes a user with all of its events and logs. Allowed for the user itself or an ADMIN.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse "Not allowed"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if handleServiceError(c, h.logger, h.service.Delete(c.Request.Context(), user, id), "delete user") {
		return
	}
	response.Message(c, fmt.Sprintf("User %d deleted successfully", id))
}
