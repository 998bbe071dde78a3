package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	project string
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(project, version string) *HealthHandler {
	return &HealthHandler{project: project, version: version}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string `json:"status" example:"OK"`
	Project   string `json:"project"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Project:   h.project,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
