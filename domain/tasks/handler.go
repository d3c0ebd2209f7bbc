package tasks

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
)

// Handler handles HTTP requests for the task lifecycle.
type Handler struct {
	svc *Service
}

// NewHandler creates a new tasks handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func projectID(c echo.Context) (string, error) {
	id := c.QueryParam("projectId")
	if id == "" {
		return "", apperror.ErrBadRequest.WithMessage("projectId is required")
	}
	return id, nil
}

// CreateTask creates a task in both stores.
// POST /api/tasks
func (h *Handler) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	task, outcome, err := h.svc.Upsert(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newTaskResponse(task, outcome))
}

// UpdateTask re-upserts a task under an existing id.
// PUT /api/tasks/:taskId
func (h *Handler) UpdateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	req.ID = c.Param("taskId")
	task, outcome, err := h.svc.Upsert(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskResponse(task, outcome))
}

// GetTask returns the task with graph context.
// GET /api/tasks/:taskId?projectId=...
func (h *Handler) GetTask(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	result, err := h.svc.Get(c.Request().Context(), c.Param("taskId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteTask removes the task from both stores.
// DELETE /api/tasks/:taskId?projectId=...
func (h *Handler) DeleteTask(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	outcome, err := h.svc.Delete(c.Request().Context(), c.Param("taskId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteTaskResponse{
		VectorDeleted: outcome.VectorDeleted,
		GraphDeleted:  outcome.GraphDeleted,
	})
}

// CreateEpic creates an epic node.
// POST /api/epics
func (h *Handler) CreateEpic(c echo.Context) error {
	var req CreateEpicRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithInternal(err)
	}
	epic, err := h.svc.UpsertEpic(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, epic)
}

// DeleteEpic removes an epic node.
// DELETE /api/epics/:epicId?projectId=...
func (h *Handler) DeleteEpic(c echo.Context) error {
	pid, err := projectID(c)
	if err != nil {
		return err
	}
	deleted, err := h.svc.DeleteEpic(c.Request().Context(), c.Param("epicId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": deleted})
}
