package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/models"
)

// LogReader answers log queries scoped to the caller.
type LogReader interface {
	ListForCaller(ctx context.Context, caller *models.User) ([]models.Log, error)
	ListForEvent(ctx context.Context, caller *models.User, eventID int64) (*models.EventLogsResponse, error)
}

// LogHandler handles log queries.
type LogHandler struct {
	logger  logging.Logger
	service LogReader
}

// NewLogHandler creates a new log handler.
func NewLogHandler(logger logging.Logger, service LogReader) *LogHandler {
	return &LogHandler{
		logger:  logger.With(zap.String("handler", "log")),
		service: service,
	}
}

// ListLogs godoc
// @Summary List logs
// @Description Lists the logs of every event the caller owns. Answers 404 when there are none.
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]models.Log}
// @Failure 404 {object} response.ErrorResponse "No logs"
// @Router /logs/ [get]
func (h *LogHandler) ListLogs(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	logs, err := h.service.ListForCaller(c.Request.Context(), user)
	if handleServiceError(c, h.logger, err, "list logs") {
		return
	}
	response.OK(c, logs)
}

// ListEventLogs godoc
// @Summary List logs of an event
// @Description Lists the logs of one event. An event without logs answers 404 with the empty result in details.
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Success 200 {object} response.SuccessResponse{data=models.EventLogsResponse}
// @Failure 403 {object} response.ErrorResponse "Not the owner"
// @Failure 404 {object} response.ErrorResponse "Event not found or no logs"
// @Router /logs/filter/by/{event_id} [get]
func (h *LogHandler) ListEventLogs(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "event_id")
	if !ok {
		return
	}

	result, err := h.service.ListForEvent(c.Request.Context(), user, eventID)
	if handleServiceError(c, h.logger, err, "list event logs") {
		return
	}

	// TODO: answer 200 with an empty list once existing clients stop relying on this 404.
	if result.LogsCount == 0 {
		response.Error(c, http.StatusNotFound, "No logs found for this event", result)
		return
	}
	response.OK(c, result)
}
