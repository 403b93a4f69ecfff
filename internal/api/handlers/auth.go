package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/models"
)

// Authenticator registers users and exchanges credentials for tokens.
type Authenticator interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
}

// AuthHandler handles registration, login and identity requests.
type AuthHandler struct {
	logger  logging.Logger
	service Authenticator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger logging.Logger, service Authenticator) *AuthHandler {
	return &AuthHandler{
		logger:  logger.With(zap.String("handler", "auth")),
		service: service,
	}
}

// Register godoc
// @Summary Register a user
// @Description Creates an account with role USER
// @Tags Authentication
// @Accept json
// @Produce json
// @Param user body models.RegisterRequest true "Account details"
// @Success 201 {object} response.SuccessResponse{data=models.UserResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 409 {object} response.ErrorResponse "Username or email taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if handleServiceError(c, h.logger, err, "register user") {
		return
	}

	response.Created(c, user, "user registered successfully")
}

// Login godoc
// @Summary Log in
// @Description Exchanges username and password for a bearer token. Accepts JSON or an OAuth2 password form.
// @Tags Authentication
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} response.SuccessResponse{data=models.TokenResponse}
// @Failure 400 {object} response.ErrorResponse "Missing credentials"
// @Failure 401 {object} response.ErrorResponse "Invalid username or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "username and password are required", err.Error())
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if handleServiceError(c, h.logger, err, "login") {
		return
	}

	response.OK(c, token)
}

// Me godoc
// @Summary Current user
// @Description Returns the user the bearer token was issued to
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=models.UserResponse}
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	response.OK(c, models.NewUserResponse(user))
}
