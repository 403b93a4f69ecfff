package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/api/middleware"
	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/models"
)

// handleServiceError writes the response for err and reports whether one was written.
func handleServiceError(c *gin.Context, logger logging.Logger, err error, operation string) bool {
	if err == nil {
		return false
	}

	var (
		validationErr apperr.ValidationError
		storageErr    *apperr.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, validationErr.Error(), validationErr.Details)
	case errors.Is(err, apperr.ErrUnsupportedMethod):
		response.BadRequest(c, err.Error(), nil)
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrInvalidToken):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		response.Conflict(c, err.Error(), nil)
	case errors.As(err, &storageErr):
		logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)))
		response.InternalServerError(c, "failed to "+storageErr.Op)
	default:
		logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)))
		response.InternalServerError(c, "internal server error")
	}
	return true
}

// pathID parses a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name, c.Param(name))
		return 0, false
	}
	return id, true
}

// caller returns the authenticated user or answers 401.
func caller(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}
