package tasks

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all task lifecycle routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	t := e.Group("/api/tasks")
	t.POST("", h.CreateTask)
	t.PUT("/:taskId", h.UpdateTask)
	t.GET("/:taskId", h.GetTask)
	t.DELETE("/:taskId", h.DeleteTask)

	epics := e.Group("/api/epics")
	epics.POST("", h.CreateEpic)
	epics.DELETE("/:epicId", h.DeleteEpic)
}
