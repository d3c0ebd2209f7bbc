package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
)

// Task is a migration-planning task. It has no table of its own: the vector
// index holds its searchable document and the graph store holds its node
// and relationships.
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Priority         string    `json:"priority"`
	ArchitectureArea string    `json:"architectureArea"`
	ProjectID        string    `json:"projectId"`
	EpicID           string    `json:"epicId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Epic is a grouping node for a larger body of work.
type Epic struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	ProjectID   string    `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Node maps the task onto its graph representation.
func (t Task) Node() graph.TaskNode {
	return graph.TaskNode{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Category:         t.Category,
		Priority:         t.Priority,
		ArchitectureArea: t.ArchitectureArea,
		ProjectID:        t.ProjectID,
		EpicID:           t.EpicID,
		CreatedAt:        t.CreatedAt,
	}
}

// Node maps the epic onto its graph representation.
func (e Epic) Node() graph.EpicNode {
	return graph.EpicNode{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Priority:    e.Priority,
		ProjectID:   e.ProjectID,
		CreatedAt:   e.CreatedAt,
	}
}

// SearchDocument renders the task as the text stored in the vector index.
// Field labels keep short fields like category and priority retrievable by
// semantic search.
func (t Task) SearchDocument() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}
	if t.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", t.Category)
	}
	if t.Priority != "" {
		fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	}
	if t.ArchitectureArea != "" {
		fmt.Fprintf(&b, "Architecture area: %s\n", t.ArchitectureArea)
	}
	return strings.TrimRight(b.String(), "\n")
}
