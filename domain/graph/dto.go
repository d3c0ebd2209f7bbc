package graph

import "time"

// UpsertTaskRequest is the payload for creating or updating a task node.
type UpsertTaskRequest struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	ArchitectureArea string `json:"architectureArea"`
	ProjectID        string `json:"projectId"`
	EpicID           string `json:"epicId,omitempty"`
}

func (r UpsertTaskRequest) ToNode() TaskNode {
	return TaskNode{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		Priority:         r.Priority,
		ArchitectureArea: r.ArchitectureArea,
		ProjectID:        r.ProjectID,
		EpicID:           r.EpicID,
		CreatedAt:        time.Now().UTC(),
	}
}

// UpsertEpicRequest is the payload for creating or updating an epic node.
type UpsertEpicRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   string `json:"projectId"`
}

func (r UpsertEpicRequest) ToNode() EpicNode {
	return EpicNode{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		ProjectID:   r.ProjectID,
		CreatedAt:   time.Now().UTC(),
	}
}

// RelationshipRequest identifies a typed edge between two nodes. Weight is
// optional on create and ignored on delete.
type RelationshipRequest struct {
	SourceID  string  `json:"sourceId"`
	TargetID  string  `json:"targetId"`
	Type      string  `json:"type"`
	ProjectID string  `json:"projectId"`
	Weight    float64 `json:"weight,omitempty"`
}

// LinkEpicRequest links a task to its containing epic.
type LinkEpicRequest struct {
	EpicID    string `json:"epicId"`
	ProjectID string `json:"projectId"`
}

// StatusResponse is the generic acknowledgement body.
type StatusResponse struct {
	Success bool `json:"success"`
}

// DeletedResponse reports whether a delete removed anything.
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// RelatedTasksResponse wraps a traversal result.
type RelatedTasksResponse struct {
	Tasks []TaskNode `json:"tasks"`
	Count int        `json:"count"`
}
