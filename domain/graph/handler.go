package graph

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
)

// Handler handles HTTP requests for graph operations.
type Handler struct {
	svc *Service
}

// NewHandler creates a new graph handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// projectID extracts the required projectId query parameter.
func projectID(c echo.Context) (string, error) {
	id := c.QueryParam("projectId")
	if id == "" {
		return "", apperror.ErrBadRequest.WithMessage("projectId is required")
	}
	return id, nil
}

// UpsertTask creates or updates a task node.
// POST /api/graph/tasks
func (h *Handler) UpsertTask(c echo.Context) error {
	var req UpsertTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	if err := h.svc.UpsertTask(c.Request().Context(), req.ToNode()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Success: true})
}

// UpsertEpic creates or updates an epic node.
// POST /api/graph/epics
func (h *Handler) UpsertEpic(c echo.Context) error {
	var req UpsertEpicRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	if err := h.svc.UpsertEpic(c.Request().Context(), req.ToNode()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{Success: true})
}

// CreateRelationship creates a typed edge between two nodes.
// POST /api/graph/relationships
func (h *Handler) CreateRelationship(c echo.Context) error {
	var req RelationshipRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	relType, err := ParseRelationshipType(req.Type)
	if err != nil {
		return err
	}
	if err := h.svc.CreateRelationship(c.Request().Context(), req.SourceID, req.TargetID, relType, req.ProjectID, req.Weight); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, StatusResponse{Success: true})
}

// DeleteRelationship removes a typed edge if it exists.
// DELETE /api/graph/relationships
func (h *Handler) DeleteRelationship(c echo.Context) error {
	var req RelationshipRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	relType, err := ParseRelationshipType(req.Type)
	if err != nil {
		return err
	}
	deleted, err := h.svc.DeleteRelationship(c.Request().Context(), req.SourceID, req.TargetID, relType, req.ProjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

// LinkTaskToEpic creates a PART_OF_EPIC edge from a task to an epic.
// POST /api/graph/tasks/:taskId/epic
func (h *Handler) LinkTaskToEpic(c echo.Context) error {
	var req LinkEpicRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	if err := h.svc.LinkTaskToEpic(c.Request().Context(), c.Param("taskId"), req.EpicID, req.ProjectID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, StatusResponse{Success: true})
}

// GetTask returns the task with all incident relationships and the derived
// context summary.
// GET /api/graph/tasks/:taskId?projectId=...
func (h *Handler) GetTask(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	result, err := h.svc.GetTaskWithRelationships(c.Request().Context(), c.Param("taskId"), pid)
	if err != nil {
		return err
	}
	if result == nil {
		return apperror.ErrTaskNotFound
	}
	return c.JSON(http.StatusOK, result)
}

// GetRelatedTasks returns tasks reachable within the requested depth.
// GET /api/graph/tasks/:taskId/related?projectId=...&depth=2
func (h *Handler) GetRelatedTasks(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	depth := 0
	if depthStr := c.QueryParam("depth"); depthStr != "" {
		depth, err = strconv.Atoi(depthStr)
		if err != nil {
			return apperror.ErrBadRequest.WithMessage("depth must be an integer")
		}
	}
	tasks, err := h.svc.FindRelatedTasks(c.Request().Context(), c.Param("taskId"), pid, depth)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RelatedTasksResponse{Tasks: tasks, Count: len(tasks)})
}

// GetEpicSiblings returns tasks sharing the same epic, excluding the origin.
// GET /api/graph/tasks/:taskId/siblings?projectId=...
func (h *Handler) GetEpicSiblings(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	tasks, err := h.svc.FindTasksInSameEpic(c.Request().Context(), c.Param("taskId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RelatedTasksResponse{Tasks: tasks, Count: len(tasks)})
}

// DeleteTask detach-deletes a task node.
// DELETE /api/graph/tasks/:taskId?projectId=...
func (h *Handler) DeleteTask(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	deleted, err := h.svc.DeleteTask(c.Request().Context(), c.Param("taskId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}

// DeleteEpic detach-deletes an epic node.
// DELETE /api/graph/epics/:epicId?projectId=...
func (h *Handler) DeleteEpic(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	deleted, err := h.svc.DeleteEpic(c.Request().Context(), c.Param("epicId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: deleted})
}
