package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/models"
)

// StatsProvider counts stored rows.
type StatsProvider interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// MetricsHandler handles metrics requests.
type MetricsHandler struct {
	logger logging.Logger
	stats  StatsProvider
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(logger logging.Logger, stats StatsProvider) *MetricsHandler {
	return &MetricsHandler{logger: logger, stats: stats}
}

// Metrics godoc
// @Summary Get service metrics
// @Description Returns user, event and log counts, including logs that recorded a 5xx outcome
// @Tags System
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=models.Stats}
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if handleServiceError(c, h.logger, err, "collect metrics") {
		return
	}
	response.OK(c, stats)
}
