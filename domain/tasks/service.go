package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/domain/retrieval"
	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
)

// Service owns the task and epic lifecycle. Writes flow through the
// retrieval coordinator so the dual-write policy holds for every task;
// epics live only in the graph.
type Service struct {
	coordinator *retrieval.Service
	graph       *graph.Service
	log         *slog.Logger
}

// NewService creates a new tasks service.
func NewService(coordinator *retrieval.Service, graphSvc *graph.Service, log *slog.Logger) *Service {
	return &Service{
		coordinator: coordinator,
		graph:       graphSvc,
		log:         log.With(logger.Scope("tasks")),
	}
}

// Upsert creates or updates a task in both stores. The returned outcome
// reflects the dual-write policy: a vector failure is an error, a graph
// failure is a degraded success.
func (s *Service) Upsert(ctx context.Context, req CreateTaskRequest) (Task, retrieval.UpsertOutcome, error) {
	if req.Title == "" {
		return Task{}, retrieval.UpsertOutcome{}, apperror.NewValidation("title is required")
	}
	if req.ProjectID == "" {
		return Task{}, retrieval.UpsertOutcome{}, apperror.NewValidation("projectId is required")
	}

	task := Task{
		ID:               req.ID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Priority:         req.Priority,
		ArchitectureArea: req.ArchitectureArea,
		ProjectID:        req.ProjectID,
		EpicID:           req.EpicID,
		CreatedAt:        time.Now().UTC(),
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	outcome, err := s.coordinator.UpsertTask(ctx, retrieval.TaskDocument{
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Content:   task.SearchDocument(),
		Node:      task.Node(),
	})
	if err != nil {
		return Task{}, outcome, err
	}
	return task, outcome, nil
}

// Get returns the task with its relationships and context summary, or a
// not-found error.
func (s *Service) Get(ctx context.Context, taskID, projectID string) (*graph.SearchResult, error) {
	result, err := s.graph.GetTaskWithRelationships(ctx, taskID, projectID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, apperror.ErrTaskNotFound
	}
	return result, nil
}

// Delete removes the task from both stores.
func (s *Service) Delete(ctx context.Context, taskID, projectID string) (retrieval.DeleteOutcome, error) {
	return s.coordinator.DeleteTask(ctx, taskID, projectID)
}

// UpsertEpic creates or updates an epic node.
func (s *Service) UpsertEpic(ctx context.Context, req CreateEpicRequest) (Epic, error) {
	if req.Title == "" {
		return Epic{}, apperror.NewValidation("title is required")
	}
	if req.ProjectID == "" {
		return Epic{}, apperror.NewValidation("projectId is required")
	}

	epic := Epic{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		CreatedAt:   time.Now().UTC(),
	}
	if epic.ID == "" {
		epic.ID = uuid.NewString()
	}
	if err := s.graph.UpsertEpic(ctx, epic.Node()); err != nil {
		return Epic{}, err
	}
	return epic, nil
}

// DeleteEpic detach-deletes an epic; member tasks lose their containment
// edge but survive.
func (s *Service) DeleteEpic(ctx context.Context, epicID, projectID string) (bool, error) {
	return s.graph.DeleteEpic(ctx, epicID, projectID)
}
