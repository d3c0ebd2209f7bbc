package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
)

// EmptySummary is what a task with no relationships reports.
const EmptySummary = "No relationships found for this task."

// Service validates input at the boundary and layers the deterministic
// context summary on top of the raw store operations.
type Service struct {
	store        Store
	defaultDepth int
	log          *slog.Logger
}

// NewService creates a new graph service.
func NewService(store Store, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		store:        store,
		defaultDepth: cfg.Retrieval.RelationshipDepth,
		log:          log.With(logger.Scope("graph.service")),
	}
}

func (s *Service) UpsertTask(ctx context.Context, task TaskNode) error {
	if task.ID == "" || task.ProjectID == "" {
		return apperror.NewValidation("task id and projectId are required")
	}
	return s.store.UpsertTask(ctx, task)
}

func (s *Service) UpsertEpic(ctx context.Context, epic EpicNode) error {
	if epic.ID == "" || epic.ProjectID == "" {
		return apperror.NewValidation("epic id and projectId are required")
	}
	return s.store.UpsertEpic(ctx, epic)
}

// CreateRelationship rejects unknown types before any query is constructed.
func (s *Service) CreateRelationship(ctx context.Context, sourceID, targetID string, relType RelationshipType, projectID string, weight float64) error {
	if sourceID == "" || targetID == "" || projectID == "" {
		return apperror.NewValidation("sourceId, targetId and projectId are required")
	}
	if !relType.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown relationship type '%s'", relType))
	}
	return s.store.CreateRelationship(ctx, sourceID, targetID, relType, projectID, weight)
}

// LinkTaskToEpic is shorthand for a PART_OF_EPIC edge.
func (s *Service) LinkTaskToEpic(ctx context.Context, taskID, epicID, projectID string) error {
	return s.CreateRelationship(ctx, taskID, epicID, PartOfEpic, projectID, DefaultWeight)
}

func (s *Service) DeleteRelationship(ctx context.Context, sourceID, targetID string, relType RelationshipType, projectID string) (bool, error) {
	if !relType.Valid() {
		return false, apperror.NewValidation(fmt.Sprintf("unknown relationship type '%s'", relType))
	}
	return s.store.DeleteRelationship(ctx, sourceID, targetID, relType, projectID)
}

// GetTaskWithRelationships returns the task, its incident edges and the
// derived context summary, or nil when the task does not exist.
func (s *Service) GetTaskWithRelationships(ctx context.Context, taskID, projectID string) (*SearchResult, error) {
	result, err := s.store.GetTaskWithRelationships(ctx, taskID, projectID)
	if err != nil || result == nil {
		return result, err
	}
	result.ContextSummary = BuildContextSummary(result.Relationships)
	return result, nil
}

// FindRelatedTasks traverses up to depth hops; depth <= 0 falls back to the
// configured default.
func (s *Service) FindRelatedTasks(ctx context.Context, taskID, projectID string, depth int) ([]TaskNode, error) {
	if depth <= 0 {
		depth = s.defaultDepth
	}
	return s.store.FindRelatedTasks(ctx, taskID, projectID, depth)
}

func (s *Service) FindTasksInSameEpic(ctx context.Context, taskID, projectID string) ([]TaskNode, error) {
	return s.store.FindTasksInSameEpic(ctx, taskID, projectID)
}

func (s *Service) DeleteTask(ctx context.Context, taskID, projectID string) (bool, error) {
	return s.store.DeleteTask(ctx, taskID, projectID)
}

func (s *Service) DeleteEpic(ctx context.Context, epicID, projectID string) (bool, error) {
	return s.store.DeleteEpic(ctx, epicID, projectID)
}

func (s *Service) DeleteProject(ctx context.Context, projectID string) (bool, error) {
	return s.store.DeleteProject(ctx, projectID)
}

func (s *Service) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

// summaryClause is one rendered sentence fragment of the context summary.
// The order of this table is the contract: epic membership first, then the
// task-to-task types by priority.
type summaryClause struct {
	relType RelationshipType
	// Label per direction. RELATED_TO and SIMILAR_TO are rendered
	// symmetrically, so both directions share one label.
	outgoingLabel string
	incomingLabel string
}

var summaryClauses = []summaryClause{
	{PartOfEpic, "Part of epic", "Part of epic"},
	{DependsOn, "Depends on", "Depended on by"},
	{Blocks, "Blocks", "Blocked by"},
	{RelatedTo, "Related to", "Related to"},
	{SimilarTo, "Similar to", "Similar to"},
}

// BuildContextSummary renders relationships as a deterministic sentence.
// Same relationships in, byte-identical summary out: clause order is fixed,
// neighbor titles within a clause are sorted, and the empty case is a fixed
// literal.
func BuildContextSummary(relationships []Relationship) string {
	if len(relationships) == 0 {
		return EmptySummary
	}

	// Bucket quoted neighbor titles per (type, label).
	buckets := map[string][]string{}
	for _, rel := range relationships {
		var label string
		for _, clause := range summaryClauses {
			if clause.relType != rel.Type {
				continue
			}
			if rel.Direction == Outgoing {
				label = clause.outgoingLabel
			} else {
				label = clause.incomingLabel
			}
			break
		}
		if label == "" {
			continue
		}
		buckets[label] = append(buckets[label], fmt.Sprintf("%q", rel.Neighbor.Title))
	}

	var clauses []string
	appendClause := func(label string) {
		titles, ok := buckets[label]
		if !ok {
			return
		}
		sort.Strings(titles)
		clauses = append(clauses, label+": "+strings.Join(titles, ", "))
		delete(buckets, label)
	}
	for _, clause := range summaryClauses {
		appendClause(clause.outgoingLabel)
		appendClause(clause.incomingLabel)
	}

	if len(clauses) == 0 {
		return EmptySummary
	}
	return strings.Join(clauses, ". ")
}
