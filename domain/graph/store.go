package graph

import "context"

// Store is the persistence contract for the project-scoped property graph.
// Implemented by the Neo4j Repository; tests substitute an in-memory
// implementation.
//
// Every operation is scoped by projectId; nothing crosses project
// boundaries. A missing node is reported as a nil result or false, never as
// an error.
type Store interface {
	// UpsertTask creates or updates a task keyed by (id, projectId).
	UpsertTask(ctx context.Context, task TaskNode) error

	// UpsertEpic creates or updates an epic keyed by (id, projectId).
	UpsertEpic(ctx context.Context, epic EpicNode) error

	// CreateRelationship idempotently creates a typed edge. Re-creating the
	// same typed edge between the same pair is a no-op success.
	CreateRelationship(ctx context.Context, sourceID, targetID string, relType RelationshipType, projectID string, weight float64) error

	// DeleteRelationship removes at most the matching typed edge and reports
	// whether anything was removed.
	DeleteRelationship(ctx context.Context, sourceID, targetID string, relType RelationshipType, projectID string) (bool, error)

	// GetTaskWithRelationships fetches the task and all incident edges in
	// both directions with resolved neighbors. Returns (nil, nil) when the
	// task does not exist. The ContextSummary field is left empty; the
	// service derives it.
	GetTaskWithRelationships(ctx context.Context, taskID, projectID string) (*SearchResult, error)

	// FindRelatedTasks returns tasks reachable within depth hops,
	// deduplicated by id, excluding the origin, capped at MaxRelatedTasks.
	FindRelatedTasks(ctx context.Context, taskID, projectID string, depth int) ([]TaskNode, error)

	// FindTasksInSameEpic returns sibling tasks sharing the same
	// PART_OF_EPIC target, excluding the origin.
	FindTasksInSameEpic(ctx context.Context, taskID, projectID string) ([]TaskNode, error)

	// DeleteTask detach-deletes the task and every incident edge.
	DeleteTask(ctx context.Context, taskID, projectID string) (bool, error)

	// DeleteEpic detach-deletes the epic and every incident edge.
	DeleteEpic(ctx context.Context, epicID, projectID string) (bool, error)

	// DeleteProject removes every node and edge tagged with the project.
	DeleteProject(ctx context.Context, projectID string) (bool, error)

	// HealthCheck is a trivial connectivity probe.
	HealthCheck(ctx context.Context) error
}

// MaxRelatedTasks bounds FindRelatedTasks response size.
const MaxRelatedTasks = 20

// MaxTraversalDepth bounds the variable-length traversal in
// FindRelatedTasks regardless of the requested depth.
const MaxTraversalDepth = 5
