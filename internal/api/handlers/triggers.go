package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/models"
)

// Triggerer fires an event and returns the stored log.
type Triggerer interface {
	Trigger(ctx context.Context, caller *models.User, eventID int64) (*models.Log, error)
}

// TriggerHandler handles on-demand event triggers.
type TriggerHandler struct {
	logger logging.Logger
	engine Triggerer
}

// NewTriggerHandler creates a new trigger handler.
func NewTriggerHandler(logger logging.Logger, engine Triggerer) *TriggerHandler {
	return &TriggerHandler{
		logger: logger.With(zap.String("handler", "trigger")),
		engine: engine,
	}
}

// TriggerEvent godoc
// @Summary Trigger an event
// @Description Calls the event destination once and records the outcome. An unreachable destination is recorded as a log with status 500, not returned as an error.
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.SuccessResponse{data=models.Log}
// @Failure 400 {object} response.ErrorResponse "Unsupported method"
// @Failure 403 {object} response.ErrorResponse "Not the owner"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Failure 500 {object} response.ErrorResponse "Failed to store log"
// @Router /events/trigger/{id} [post]
func (h *TriggerHandler) TriggerEvent(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entry, err := h.engine.Trigger(c.Request.Context(), user, id)
	if handleServiceError(c, h.logger, err, "trigger event") {
		return
	}

	h.logger.Info("event triggered",
		zap.Int64("event_id", id),
		zap.Int64("log_id", entry.ID),
		zap.Int("response_status_code", entry.ResponseStatusCode),
		zap.String("request_id", response.GetRequestID(c)))
	response.OK(c, entry)
}
