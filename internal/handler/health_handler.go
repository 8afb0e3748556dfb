package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and process uptime.
type HealthHandler struct {
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler creates a health handler counting uptime from startedAt.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, now: time.Now}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp int64   `json:"timestamp"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	now := h.now()
	uptime := now.Sub(h.startedAt).Seconds()
	if uptime < 0 {
		uptime = 0
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Uptime:    uptime,
		Timestamp: now.UnixMilli(),
	})
}
