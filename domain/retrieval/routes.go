package retrieval

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all retrieval routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/retrieval")
	g.POST("/search", h.Search)
	g.POST("/format", h.FormatContext)
	g.GET("/health", h.Health)
}
