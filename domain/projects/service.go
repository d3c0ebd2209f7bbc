package projects

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

// VectorIndex is the slice of the vector client used for project teardown.
type VectorIndex interface {
	DeleteCorpus(ctx context.Context, corpusName string) (bool, error)
}

// GraphIndex is the slice of the graph service used for project teardown.
type GraphIndex interface {
	DeleteProject(ctx context.Context, projectID string) (bool, error)
}

// Service tears down whole projects: the project's vector corpus and every
// graph node and edge tagged with the project id. Both stores are always
// attempted; nothing outside the project is touched.
type Service struct {
	vector VectorIndex
	graph  GraphIndex
	log    *slog.Logger
}

// NewService creates a new projects service.
func NewService(vector VectorIndex, graphSvc GraphIndex, log *slog.Logger) *Service {
	return &Service{
		vector: vector,
		graph:  graphSvc,
		log:    log.With(logger.Scope("projects")),
	}
}

// Delete removes the project's corpus and graph subgraph. Both stores are
// always attempted, but the call only succeeds when neither store threw;
// per-store results say which side lagged.
func (s *Service) Delete(ctx context.Context, projectID string) (DeleteResult, error) {
	result := DeleteResult{ProjectID: projectID}

	corpusDeleted, vErr := s.vector.DeleteCorpus(ctx, vectorindex.CorpusForProject(projectID))
	if vErr != nil {
		s.log.Error("corpus delete failed", slog.String("projectId", projectID), logger.Error(vErr))
	}
	result.CorpusDeleted = corpusDeleted
	result.CorpusErr = vErr

	graphDeleted, gErr := s.graph.DeleteProject(ctx, projectID)
	if gErr != nil {
		s.log.Error("graph project delete failed", slog.String("projectId", projectID), logger.Error(gErr))
	}
	result.GraphDeleted = graphDeleted
	result.GraphErr = gErr

	switch {
	case vErr != nil && gErr != nil:
		return result, apperror.NewInternal("project delete failed in both stores", errors.Join(vErr, gErr))
	case vErr != nil:
		return result, apperror.ErrPartialWrite.WithMessage("corpus delete failed, graph delete completed").WithInternal(vErr)
	case gErr != nil:
		return result, apperror.ErrPartialWrite.WithMessage("graph delete failed, corpus delete completed").WithInternal(gErr)
	}
	return result, nil
}
