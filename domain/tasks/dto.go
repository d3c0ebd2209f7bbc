package tasks

import (
	"github.com/shiftplan-ai/shiftplan/domain/retrieval"
)

// CreateTaskRequest is the payload for creating or updating a task. A
// missing ID means the server generates one.
type CreateTaskRequest struct {
	ID               string `json:"id,omitempty"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	ArchitectureArea string `json:"architectureArea"`
	ProjectID        string `json:"projectId"`
	EpicID           string `json:"epicId,omitempty"`
}

// CreateEpicRequest is the payload for creating or updating an epic.
type CreateEpicRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   string `json:"projectId"`
}

// TaskResponse reports the stored task and how far the dual write got.
type TaskResponse struct {
	Task         Task `json:"task"`
	VectorSynced bool `json:"vectorSynced"`
	GraphSynced  bool `json:"graphSynced"`
}

// DeleteTaskResponse reports per-store delete results.
type DeleteTaskResponse struct {
	VectorDeleted bool `json:"vectorDeleted"`
	GraphDeleted  bool `json:"graphDeleted"`
}

func newTaskResponse(task Task, outcome retrieval.UpsertOutcome) TaskResponse {
	return TaskResponse{
		Task:         task,
		VectorSynced: outcome.VectorSynced,
		GraphSynced:  outcome.GraphSynced,
	}
}
