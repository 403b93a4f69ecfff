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

// EventManager exposes CRUD over the caller's events.
type EventManager interface {
	Create(ctx context.Context, caller *models.User, req models.EventRequest) (*models.EventResponse, error)
	List(ctx context.Context, caller *models.User) ([]models.EventResponse, error)
	Get(ctx context.Context, caller *models.User, id int64) (*models.EventResponse, error)
	Update(ctx context.Context, caller *models.User, id int64, req models.EventRequest) (*models.EventResponse, error)
	Delete(ctx context.Context, caller *models.User, id int64) error
}

// EventHandler handles event management requests.
type EventHandler struct {
	logger  logging.Logger
	service EventManager
}

// NewEventHandler creates a new event handler.
func NewEventHandler(logger logging.Logger, service EventManager) *EventHandler {
	return &EventHandler{
		logger:  logger.With(zap.String("handler", "event")),
		service: service,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a webhook definition owned by the caller. Schedule fields not matching event_type are cleared.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body models.EventRequest true "Event definition"
// @Success 201 {object} response.SuccessResponse{data=models.EventResponse}
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /events/create [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	event, err := h.service.Create(c.Request.Context(), user, req)
	if handleServiceError(c, h.logger, err, "create event") {
		return
	}

	h.logger.Info("event created",
		zap.Int64("event_id", event.ID),
		zap.String("request_id", response.GetRequestID(c)))
	response.Created(c, event, "event created successfully")
}

// ListEvents godoc
// @Summary List events
// @Description Lists the caller's events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]models.EventResponse}
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /events/all [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	events, err := h.service.List(c.Request.Context(), user)
	if handleServiceError(c, h.logger, err, "list events") {
		return
	}
	response.OK(c, events)
}

// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.SuccessResponse{data=models.EventResponse}
// @Failure 403 {object} response.ErrorResponse "Not the owner"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, err := h.service.Get(c.Request.Context(), user, id)
	if handleServiceError(c, h.logger, err, "get event") {
		return
	}
	response.OK(c, event)
}

// UpdateEvent godoc
// @Summary Replace an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body models.EventRequest true "Event definition"
// @Success 200 {object} response.SuccessResponse{data=models.EventResponse}
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 403 {object} response.ErrorResponse "Not the owner"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	event, err := h.service.Update(c.Request.Context(), user, id, req)
	if handleServiceError(c, h.logger, err, "update event") {
		return
	}
	response.OK(c, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event and all of its logs
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse "Not the owner"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if handleServiceError(c, h.logger, h.service.Delete(c.Request.Context(), user, id), "delete event") {
		return
	}
	response.Message(c, fmt.Sprintf("Event %d deleted successfully", id))
}
