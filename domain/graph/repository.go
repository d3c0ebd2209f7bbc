package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
)

// Repository is the Neo4j-backed Store. The driver is long-lived and owns
// the connection pool; every operation opens a scoped session for the
// duration of that single call and releases it on all exit paths.
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	log      *slog.Logger
}

// NewRepository creates a new graph repository.
func NewRepository(driver neo4j.DriverWithContext, cfg *config.Config, log *slog.Logger) *Repository {
	return &Repository{
		driver:   driver,
		database: cfg.Graph.Database,
		log:      log.With(logger.Scope("graph.repo")),
	}
}

var _ Store = (*Repository)(nil)

func (r *Repository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: r.database,
	})
}

// UpsertTask creates or updates a task keyed by (id, projectId). MERGE on
// the identity key guarantees a re-upsert updates fields in place and never
// produces a second node.
func (r *Repository) UpsertTask(ctx context.Context, task TaskNode) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MERGE (t:Task {id: $id, projectId: $projectId})
			ON CREATE SET t.createdAt = $createdAt
			SET t.title = $title,
			    t.description = $description,
			    t.category = $category,
			    t.priority = $priority,
			    t.architectureArea = $architectureArea,
			    t.epicId = $epicId`,
			map[string]any{
				"id":               task.ID,
				"projectId":        task.ProjectID,
				"title":            task.Title,
				"description":      task.Description,
				"category":         task.Category,
				"priority":         task.Priority,
				"architectureArea": task.ArchitectureArea,
				"epicId":           task.EpicID,
				"createdAt":        task.CreatedAt,
			})
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return nil
}

// UpsertEpic creates or updates an epic keyed by (id, projectId).
func (r *Repository) UpsertEpic(ctx context.Context, epic EpicNode) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MERGE (e:Epic {id: $id, projectId: $projectId})
			ON CREATE SET e.createdAt = $createdAt
			SET e.title = $title,
			    e.description = $description,
			    e.priority = $priority`,
			map[string]any{
				"id":          epic.ID,
				"projectId":   epic.ProjectID,
				"title":       epic.Title,
				"description": epic.Description,
				"priority":    epic.Priority,
				"createdAt":   epic.CreatedAt,
			})
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return nil
}

// Relationship types cannot be bound as cypher parameters, so each valid
// type gets its own pre-written query literal. Caller input never reaches
// the query text; everything else is parameterized.
var createRelationshipQueries = map[RelationshipType]string{
	DependsOn: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})
		MATCH (b:Task {id: $targetId, projectId: $projectId})
		MERGE (a)-[r:DEPENDS_ON]->(b)
		ON CREATE SET r.weight = $weight, r.createdAt = $createdAt
		RETURN r`,
	Blocks: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})
		MATCH (b:Task {id: $targetId, projectId: $projectId})
		MERGE (a)-[r:BLOCKS]->(b)
		ON CREATE SET r.weight = $weight, r.createdAt = $createdAt
		RETURN r`,
	RelatedTo: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})
		MATCH (b:Task {id: $targetId, projectId: $projectId})
		MERGE (a)-[r:RELATED_TO]->(b)
		ON CREATE SET r.weight = $weight, r.createdAt = $createdAt
		RETURN r`,
	SimilarTo: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})
		MATCH (b:Task {id: $targetId, projectId: $projectId})
		MERGE (a)-[r:SIMILAR_TO]->(b)
		ON CREATE SET r.weight = $weight, r.createdAt = $createdAt
		RETURN r`,
	PartOfEpic: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})
		MATCH (b:Epic {id: $targetId, projectId: $projectId})
		MERGE (a)-[r:PART_OF_EPIC]->(b)
		ON CREATE SET r.weight = $weight, r.createdAt = $createdAt
		RETURN r`,
}

var deleteRelationshipQueries = map[RelationshipType]string{
	DependsOn: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})-[r:DEPENDS_ON]->(b:Task {id: $targetId, projectId: $projectId})
		DELETE r`,
	Blocks: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})-[r:BLOCKS]->(b:Task {id: $targetId, projectId: $projectId})
		DELETE r`,
	RelatedTo: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})-[r:RELATED_TO]->(b:Task {id: $targetId, projectId: $projectId})
		DELETE r`,
	SimilarTo: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})-[r:SIMILAR_TO]->(b:Task {id: $targetId, projectId: $projectId})
		DELETE r`,
	PartOfEpic: `
		MATCH (a:Task {id: $sourceId, projectId: $projectId})-[r:PART_OF_EPIC]->(b:Epic {id: $targetId, projectId: $projectId})
		DELETE r`,
}

// CreateRelationship idempotently creates a typed edge between two nodes of
// the same project. Weight and creation timestamp are only set when the edge
// is first created.
func (r *Repository) CreateRelationship(ctx context.Context, sourceID, targetID string, relType RelationshipType, projectID string, weight float64) error {
	query, ok := createRelationshipQueries[relType]
	if !ok {
		return apperror.NewValidation(fmt.Sprintf("unknown relationship type '%s'", relType))
	}
	if weight <= 0 {
		weight = DefaultWeight
	}

	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"sourceId":  sourceID,
			"targetId":  targetID,
			"projectId": projectID,
			"weight":    weight,
			"createdAt": time.Now().UTC(),
		})
		if err != nil {
			return false, err
		}
		// No row means one of the endpoints did not match.
		return result.Next(ctx), nil
	})
	if err != nil {
		return apperror.ErrGraphUnavailable.WithInternal(err)
	}
	if !created.(bool) {
		return apperror.NewNotFound("relationship endpoint", sourceID+" -> "+targetID)
	}
	return nil
}

// DeleteRelationship removes at most the matching typed edge. Returns
// whether anything was removed.
func (r *Repository) DeleteRelationship(ctx context.Context, sourceID, targetID string, relType RelationshipType, projectID string) (bool, error) {
	query, ok := deleteRelationshipQueries[relType]
	if !ok {
		return false, apperror.NewValidation(fmt.Sprintf("unknown relationship type '%s'", relType))
	}

	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"sourceId":  sourceID,
			"targetId":  targetID,
			"projectId": projectID,
		})
		if err != nil {
			return false, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().RelationshipsDeleted() > 0, nil
	})
	if err != nil {
		return false, apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return deleted.(bool), nil
}

// GetTaskWithRelationships fetches the node and all incident edges in one
// traversal, resolving each neighbor and tagging it with direction and type.
func (r *Repository) GetTaskWithRelationships(ctx context.Context, taskID, projectID string) (*SearchResult, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	res, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (t:Task {id: $taskId, projectId: $projectId})
			OPTIONAL MATCH (t)-[rel]-(n)
			WHERE n.projectId = $projectId
			RETURN t, collect(CASE WHEN rel IS NULL THEN NULL ELSE {
				type: type(rel),
				weight: coalesce(rel.weight, 1.0),
				createdAt: rel.createdAt,
				outgoing: startNode(rel) = t,
				labels: labels(n),
				id: n.id,
				title: n.title,
				category: n.category,
				priority: n.priority
			} END) AS rels`,
			map[string]any{
				"taskId":    taskID,
				"projectId": projectID,
			})
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		// Zero rows means the task does not exist; that is not an error.
		if len(records) == 0 {
			return nil, nil
		}
		return recordToSearchResult(records[0])
	})
	if err != nil {
		return nil, apperror.ErrGraphUnavailable.WithInternal(err)
	}
	if res == nil {
		return nil, nil
	}
	return res.(*SearchResult), nil
}

// FindRelatedTasks runs a bounded variable-length traversal. The depth is a
// clamped integer baked into the pattern (cypher cannot parameterize hop
// bounds); all identifiers remain parameters.
func (r *Repository) FindRelatedTasks(ctx context.Context, taskID, projectID string, depth int) ([]TaskNode, error) {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxTraversalDepth {
		depth = MaxTraversalDepth
	}

	query := fmt.Sprintf(`
		MATCH (t:Task {id: $taskId, projectId: $projectId})-[*1..%d]-(other:Task {projectId: $projectId})
		WHERE other.id <> $taskId
		RETURN DISTINCT other
		LIMIT %d`, depth, MaxRelatedTasks)

	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	res, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"taskId":    taskID,
			"projectId": projectID,
		})
		if err != nil {
			return nil, err
		}
		return collectTasks(ctx, result, "other")
	})
	if err != nil {
		return nil, apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return res.([]TaskNode), nil
}

// FindTasksInSameEpic returns sibling tasks sharing the same PART_OF_EPIC
// target, excluding the origin.
func (r *Repository) FindTasksInSameEpic(ctx context.Context, taskID, projectID string) ([]TaskNode, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	res, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (t:Task {id: $taskId, projectId: $projectId})-[:PART_OF_EPIC]->(e:Epic)
			      <-[:PART_OF_EPIC]-(sibling:Task {projectId: $projectId})
			WHERE sibling.id <> $taskId
			RETURN DISTINCT sibling`,
			map[string]any{
				"taskId":    taskID,
				"projectId": projectID,
			})
		if err != nil {
			return nil, err
		}
		return collectTasks(ctx, result, "sibling")
	})
	if err != nil {
		return nil, apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return res.([]TaskNode), nil
}

// DeleteTask detach-deletes the node and every incident edge, so no
// dangling relationships remain.
func (r *Repository) DeleteTask(ctx context.Context, taskID, projectID string) (bool, error) {
	return r.detachDelete(ctx, `
		MATCH (t:Task {id: $id, projectId: $projectId})
		DETACH DELETE t`, taskID, projectID)
}

// DeleteEpic detach-deletes the epic and every incident edge.
func (r *Repository) DeleteEpic(ctx context.Context, epicID, projectID string) (bool, error) {
	return r.detachDelete(ctx, `
		MATCH (e:Epic {id: $id, projectId: $projectId})
		DETACH DELETE e`, epicID, projectID)
}

func (r *Repository) detachDelete(ctx context.Context, query, id, projectID string) (bool, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{
			"id":        id,
			"projectId": projectID,
		})
		if err != nil {
			return false, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().NodesDeleted() > 0, nil
	})
	if err != nil {
		return false, apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return deleted.(bool), nil
}

// DeleteProject removes every node and edge tagged with the project and
// nothing else.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) (bool, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (n {projectId: $projectId})
			DETACH DELETE n`,
			map[string]any{"projectId": projectID})
		if err != nil {
			return false, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().NodesDeleted() > 0, nil
	})
	if err != nil {
		return false, apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return deleted.(bool), nil
}

// HealthCheck is a trivial connectivity probe independent of any project.
func (r *Repository) HealthCheck(ctx context.Context) error {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, "RETURN 1", nil)
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return apperror.ErrGraphUnavailable.WithInternal(err)
	}
	return nil
}

// ---- record mapping ----

func recordToSearchResult(record *neo4j.Record) (*SearchResult, error) {
	nodeVal, ok := record.Get("t")
	if !ok {
		return nil, fmt.Errorf("missing task node in record")
	}
	node, ok := nodeVal.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected task node type %T", nodeVal)
	}

	result := &SearchResult{
		Task:          nodeToTask(node),
		Relationships: []Relationship{},
	}

	relsVal, _ := record.Get("rels")
	rels, _ := relsVal.([]any)
	for _, raw := range rels {
		props, ok := raw.(map[string]any)
		if !ok || props == nil {
			continue
		}
		rel := Relationship{
			Type:      RelationshipType(asString(props["type"])),
			Direction: Incoming,
			Weight:    asFloat(props["weight"], DefaultWeight),
			CreatedAt: asTime(props["createdAt"]),
			Neighbor: Neighbor{
				Kind:     neighborKind(props["labels"]),
				ID:       asString(props["id"]),
				Title:    asString(props["title"]),
				Category: asString(props["category"]),
				Priority: asString(props["priority"]),
			},
		}
		if outgoing, _ := props["outgoing"].(bool); outgoing {
			rel.Direction = Outgoing
		}
		result.Relationships = append(result.Relationships, rel)
	}

	return result, nil
}

func nodeToTask(node neo4j.Node) TaskNode {
	p := node.Props
	return TaskNode{
		ID:               asString(p["id"]),
		Title:            asString(p["title"]),
		Description:      asString(p["description"]),
		Category:         asString(p["category"]),
		Priority:         asString(p["priority"]),
		ArchitectureArea: asString(p["architectureArea"]),
		ProjectID:        asString(p["projectId"]),
		EpicID:           asString(p["epicId"]),
		CreatedAt:        asTime(p["createdAt"]),
	}
}

func collectTasks(ctx context.Context, result neo4j.ResultWithContext, key string) ([]TaskNode, error) {
	tasks := []TaskNode{}
	for result.Next(ctx) {
		nodeVal, ok := result.Record().Get(key)
		if !ok {
			continue
		}
		node, ok := nodeVal.(neo4j.Node)
		if !ok {
			continue
		}
		tasks = append(tasks, nodeToTask(node))
	}
	return tasks, result.Err()
}

func neighborKind(labels any) NodeKind {
	if ls, ok := labels.([]any); ok {
		for _, l := range ls {
			if l == "Epic" {
				return KindEpic
			}
		}
	}
	return KindTask
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any, fallback float64) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	}
	return fallback
}

func asTime(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
