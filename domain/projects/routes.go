package projects

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all project routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.DELETE("/api/projects/:projectId", h.DeleteProject)
}
