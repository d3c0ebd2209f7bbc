package graph

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all graph routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/graph")

	tasks := g.Group("/tasks")
	tasks.POST("", h.UpsertTask)
	tasks.GET("/:taskId", h.GetTask)
	tasks.GET("/:taskId/related", h.GetRelatedTasks)
	tasks.GET("/:taskId/siblings", h.GetEpicSiblings)
	tasks.POST("/:taskId/epic", h.LinkTaskToEpic)
	tasks.DELETE("/:taskId", h.DeleteTask)

	epics := g.Group("/epics")
	epics.POST("", h.UpsertEpic)
	epics.DELETE("/:epicId", h.DeleteEpic)

	relationships := g.Group("/relationships")
	relationships.POST("", h.CreateRelationship)
	relationships.DELETE("", h.DeleteRelationship)
}
