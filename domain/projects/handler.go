package projects

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for project teardown.
type Handler struct {
	svc *Service
}

// NewHandler creates a new projects handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// DeleteProject removes everything belonging to the project from both
// stores.
// DELETE /api/projects/:projectId
func (h *Handler) DeleteProject(c echo.Context) error {
	result, err := h.svc.Delete(c.Request().Context(), c.Param("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
