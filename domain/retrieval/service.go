package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
	"github.com/shiftplan-ai/shiftplan/pkg/tracing"
	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

// VectorIndex is the slice of the vector client the coordinator depends on.
type VectorIndex interface {
	Query(ctx context.Context, query, storeName string, topK int) ([]vectorindex.Hit, error)
	UpsertDocument(ctx context.Context, corpusName, documentID, content string) (*vectorindex.Document, error)
	DeleteDocumentByDisplayName(ctx context.Context, corpusName, documentID string) (bool, error)
	DeleteCorpus(ctx context.Context, corpusName string) (bool, error)
}

// GraphIndex is the slice of the graph service the coordinator depends on.
type GraphIndex interface {
	UpsertTask(ctx context.Context, task graph.TaskNode) error
	LinkTaskToEpic(ctx context.Context, taskID, epicID, projectID string) error
	GetTaskWithRelationships(ctx context.Context, taskID, projectID string) (*graph.SearchResult, error)
	FindRelatedTasks(ctx context.Context, taskID, projectID string, depth int) ([]graph.TaskNode, error)
	DeleteTask(ctx context.Context, taskID, projectID string) (bool, error)
	HealthCheck(ctx context.Context) error
}

// Service coordinates the vector index and the graph store: hybrid search
// with graph enrichment, and the dual-write task lifecycle where the vector
// index is the source of truth.
type Service struct {
	vector VectorIndex
	graph  GraphIndex
	cfg    config.RetrievalConfig
	log    *slog.Logger
}

// NewService creates a new retrieval coordinator.
func NewService(vector VectorIndex, graphSvc GraphIndex, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		vector: vector,
		graph:  graphSvc,
		cfg:    cfg.Retrieval,
		log:    log.With(logger.Scope("retrieval")),
	}
}

// Search runs the vector query, then enriches each hit with graph context.
// An empty vector result short-circuits before any graph call. Enrichment
// failures degrade the individual hit and never fail the whole search, and
// the returned slice keeps the vector index's ranking order.
func (s *Service) Search(ctx context.Context, query, storeName, projectID string, opts SearchOptions) ([]EnrichedResult, error) {
	ctx, span := tracing.Start(ctx, "retrieval.search",
		attribute.String("shiftplan.project.id", projectID),
		attribute.String("shiftplan.store", storeName),
	)
	defer span.End()

	start := time.Now()
	defer func() { searchDuration.Observe(time.Since(start).Seconds()) }()

	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	// Vector search is an enrichment path: transient index failures are
	// logged and treated as "nothing found" rather than failing the caller.
	hits, err := s.vector.Query(ctx, query, storeName, topK)
	if err != nil {
		searchesTotal.WithLabelValues("error").Inc()
		s.log.Warn("vector query failed, returning no results", logger.Error(err))
		return []EnrichedResult{}, nil
	}
	if len(hits) == 0 {
		searchesTotal.WithLabelValues("empty").Inc()
		return []EnrichedResult{}, nil
	}
	searchesTotal.WithLabelValues("hit").Inc()

	results := make([]EnrichedResult, len(hits))
	for i, hit := range hits {
		results[i] = EnrichedResult{
			DocumentID:     hit.ID,
			Content:        hit.Content,
			RelevanceScore: hit.RelevanceScore,
		}
		taskID, err := vectorindex.TaskIDFromDocID(hit.ID)
		if err != nil {
			malformedDocIDs.Inc()
			s.log.Warn("document id does not map to a task, keeping hit unenriched",
				slog.String("documentId", hit.ID), logger.Error(err))
			continue
		}
		results[i].TaskID = taskID
	}

	if !opts.IncludeGraphContext && !opts.IncludeRelatedTasks {
		return results, nil
	}

	depth := opts.RelationshipDepth
	if depth <= 0 {
		depth = s.cfg.RelationshipDepth
	}

	// Per-hit lookups are independent, so fan out with a bounded group.
	// Each worker writes only its own index, which preserves ranking.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i := range results {
		if results[i].TaskID == "" {
			continue
		}
		g.Go(func() error {
			s.enrich(gctx, &results[i], projectID, depth, opts)
			return nil
		})
	}
	// Workers never return errors; Wait only observes context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) workers() int {
	if s.cfg.EnrichmentWorkers > 0 {
		return s.cfg.EnrichmentWorkers
	}
	return 1
}

func (s *Service) enrich(ctx context.Context, result *EnrichedResult, projectID string, depth int, opts SearchOptions) {
	if opts.IncludeGraphContext {
		graphCtx, err := s.graph.GetTaskWithRelationships(ctx, result.TaskID, projectID)
		if err != nil {
			enrichmentFailures.WithLabelValues("graph_context").Inc()
			s.log.Warn("graph context enrichment failed",
				slog.String("taskId", result.TaskID), logger.Error(err))
		} else if graphCtx != nil {
			result.GraphContext = graphCtx
		}
	}
	if opts.IncludeRelatedTasks {
		related, err := s.graph.FindRelatedTasks(ctx, result.TaskID, projectID, depth)
		if err != nil {
			enrichmentFailures.WithLabelValues("related_tasks").Inc()
			s.log.Warn("related task enrichment failed",
				slog.String("taskId", result.TaskID), logger.Error(err))
		} else if len(related) > 0 {
			result.RelatedTasks = related
		}
	}
}

// UpsertTask dual-writes a task. The vector index is written first and is
// authoritative: a vector failure fails the whole operation, while a graph
// failure after a successful vector write is a degraded success surfaced in
// the outcome.
func (s *Service) UpsertTask(ctx context.Context, doc TaskDocument) (UpsertOutcome, error) {
	ctx, span := tracing.Start(ctx, "retrieval.upsert_task",
		attribute.String("shiftplan.task.id", doc.TaskID),
		attribute.String("shiftplan.project.id", doc.ProjectID),
	)
	defer span.End()

	outcome := UpsertOutcome{}

	corpus := vectorindex.CorpusForProject(doc.ProjectID)
	docID := vectorindex.TaskDocID(doc.TaskID)
	if _, err := s.vector.UpsertDocument(ctx, corpus, docID, doc.Content); err != nil {
		return outcome, fmt.Errorf("vector upsert for task %s: %w", doc.TaskID, err)
	}
	outcome.VectorSynced = true

	node := doc.Node
	node.ID = doc.TaskID
	node.ProjectID = doc.ProjectID
	if err := s.syncGraph(ctx, node); err != nil {
		partialWrites.Inc()
		outcome.GraphErr = err
		s.log.Warn("graph sync failed after vector write, task remains searchable",
			slog.String("taskId", doc.TaskID), logger.Error(err))
		return outcome, nil
	}
	outcome.GraphSynced = true
	return outcome, nil
}

func (s *Service) syncGraph(ctx context.Context, node graph.TaskNode) error {
	if err := s.graph.UpsertTask(ctx, node); err != nil {
		return err
	}
	if node.EpicID != "" {
		if err := s.graph.LinkTaskToEpic(ctx, node.ID, node.EpicID, node.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTask removes the task from both stores. Both deletes are always
// attempted regardless of individual failures, but the call only succeeds
// when neither store threw; a false deleted flag with a nil error means the
// store had nothing to remove.
func (s *Service) DeleteTask(ctx context.Context, taskID, projectID string) (DeleteOutcome, error) {
	outcome := DeleteOutcome{}

	corpus := vectorindex.CorpusForProject(projectID)
	vectorDeleted, vErr := s.vector.DeleteDocumentByDisplayName(ctx, corpus, vectorindex.TaskDocID(taskID))
	if vErr != nil {
		s.log.Error("vector delete failed", slog.String("taskId", taskID), logger.Error(vErr))
	}
	outcome.VectorDeleted = vectorDeleted
	outcome.VectorErr = vErr

	graphDeleted, gErr := s.graph.DeleteTask(ctx, taskID, projectID)
	if gErr != nil {
		s.log.Error("graph delete failed", slog.String("taskId", taskID), logger.Error(gErr))
	}
	outcome.GraphDeleted = graphDeleted
	outcome.GraphErr = gErr

	switch {
	case vErr != nil && gErr != nil:
		return outcome, apperror.NewInternal("task delete failed in both stores", errors.Join(vErr, gErr))
	case vErr != nil:
		return outcome, apperror.ErrPartialWrite.WithMessage("vector delete failed, graph delete completed").WithInternal(vErr)
	case gErr != nil:
		return outcome, apperror.ErrPartialWrite.WithMessage("graph delete failed, vector delete completed").WithInternal(gErr)
	}
	return outcome, nil
}

// Health probes the backing stores. The vector index exposes no probe
// endpoint, so its flag reflects client construction rather than a live
// round trip.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Vector: true}
	if err := s.graph.HealthCheck(ctx); err != nil {
		s.log.Warn("graph health check failed", logger.Error(err))
		return status
	}
	status.Graph = true
	return status
}
