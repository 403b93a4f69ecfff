package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/api/response"
	"github.com/dhima/event-trigger-service/internal/logging"
)

const (
	serviceName    = "event-trigger-service"
	serviceVersion = "1.0.0"
)

// Pinger checks a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger logging.Logger
	db     Pinger
}

// NewHealthHandler creates a new health check handler. db may be nil.
func NewHealthHandler(logger logging.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, db: db}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Service  string `json:"service" example:"event-trigger-service"`
	Version  string `json:"version" example:"1.0.0"`
	Database string `json:"database,omitempty" example:"ok"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API service and its database
// @Tags System
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=HealthResponse}
// @Failure 503 {object} response.SuccessResponse{data=HealthResponse}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		Service: serviceName,
		Version: serviceVersion,
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		resp.Database = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("database ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Database = "unreachable"
			response.Success(c, http.StatusServiceUnavailable, resp, "")
			return
		}
	}

	response.OK(c, resp)
}
