package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shiftplan-ai/shiftplan/domain/retrieval"
)

// Handler handles health check requests
type Handler struct {
	coordinator *retrieval.Service
	startAt     time.Time
}

// NewHandler creates a new health handler
func NewHandler(coordinator *retrieval.Service) *Handler {
	return &Handler{
		coordinator: coordinator,
		startAt:     time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health returns the overall service health including both backing stores.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := h.coordinator.Health(ctx)

	checks := map[string]Check{
		"vector": checkFor(status.Vector, "vector index client not initialized"),
		"graph":  checkFor(status.Graph, "graph store unreachable"),
	}

	overall := "healthy"
	statusCode := http.StatusOK
	if !status.Healthy() {
		overall = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startAt).String(),
		Checks:    checks,
	})
}

func checkFor(healthy bool, message string) Check {
	if healthy {
		return Check{Status: "healthy"}
	}
	return Check{Status: "unhealthy", Message: message}
}

// Healthz returns a simple health check (for k8s liveness probe)
// GET /healthz
func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ready returns readiness status (for k8s readiness probe)
// GET /ready
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if !h.coordinator.Health(ctx).Healthy() {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":  "not_ready",
			"message": "backing store connection failed",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ready",
	})
}
