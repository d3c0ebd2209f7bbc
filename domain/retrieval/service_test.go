package retrieval_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/domain/retrieval"
	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/internal/testutil"
	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

type fixture struct {
	svc    *retrieval.Service
	vector *testutil.VectorIndex
	store  *testutil.GraphStore
	graph  *graph.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Retrieval: config.RetrievalConfig{
			TopK:              5,
			RelationshipDepth: 2,
			EnrichmentWorkers: 4,
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	vector := testutil.NewVectorIndex()
	store := testutil.NewGraphStore()
	graphSvc := graph.NewService(store, cfg, log)
	return &fixture{
		svc:    retrieval.NewService(vector, graphSvc, cfg, log),
		vector: vector,
		store:  store,
		graph:  graphSvc,
	}
}

func seedTask(t *testing.T, f *fixture, id, projectID, title string) {
	t.Helper()
	err := f.graph.UpsertTask(context.Background(), graph.TaskNode{
		ID: id, ProjectID: projectID, Title: title, Category: "backend", Priority: "high",
	})
	require.NoError(t, err)
}

func TestSearchEmptyVectorResultMakesNoGraphCalls(t *testing.T) {
	f := newFixture(t)

	results, err := f.svc.Search(context.Background(), "migrate auth", "store", "p1", retrieval.SearchOptions{
		IncludeGraphContext: true,
		IncludeRelatedTasks: true,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, f.store.TotalCalls(), "empty vector result must short-circuit before any graph call")
}

func TestSearchPreservesRankingAndEnriches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedTask(t, f, "t1", "p1", "Migrate auth service")
	seedTask(t, f, "t2", "p1", "Provision database")
	require.NoError(t, f.graph.CreateRelationship(ctx, "t1", "t2", graph.DependsOn, "p1", 1.0))

	f.vector.Hits = []vectorindex.Hit{
		{ID: "task-t2", Content: "database doc", RelevanceScore: 0.92},
		{ID: "task-t1", Content: "auth doc", RelevanceScore: 0.61},
	}

	results, err := f.svc.Search(ctx, "migrate", "store", "p1", retrieval.SearchOptions{
		IncludeGraphContext: true,
		IncludeRelatedTasks: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Vector ranking order survives concurrent enrichment.
	assert.Equal(t, "t2", results[0].TaskID)
	assert.Equal(t, "t1", results[1].TaskID)

	require.NotNil(t, results[1].GraphContext)
	assert.Contains(t, results[1].GraphContext.ContextSummary, `Depends on: "Provision database"`)
	require.Len(t, results[1].RelatedTasks, 1)
	assert.Equal(t, "t2", results[1].RelatedTasks[0].ID)
}

func TestSearchNoEnrichmentWhenNotRequested(t *testing.T) {
	f := newFixture(t)
	seedTask(t, f, "t1", "p1", "Migrate auth service")
	calls := f.store.TotalCalls()

	f.vector.Hits = []vectorindex.Hit{{ID: "task-t1", Content: "doc", RelevanceScore: 0.5}}

	results, err := f.svc.Search(context.Background(), "migrate", "store", "p1", retrieval.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].GraphContext)
	assert.Equal(t, calls, f.store.TotalCalls(), "no graph calls without enrichment options")
}

func TestSearchMalformedDocumentIDStaysUnenriched(t *testing.T) {
	f := newFixture(t)
	f.vector.Hits = []vectorindex.Hit{
		{ID: "note-1234", Content: "not a task doc", RelevanceScore: 0.4},
	}

	results, err := f.svc.Search(context.Background(), "q", "store", "p1", retrieval.SearchOptions{
		IncludeGraphContext: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].TaskID)
	assert.Nil(t, results[0].GraphContext)
	assert.Zero(t, f.store.TotalCalls(), "underivable task id must not trigger graph lookups")
}

func TestSearchEnrichmentFailureDegradesHit(t *testing.T) {
	f := newFixture(t)
	f.vector.Hits = []vectorindex.Hit{{ID: "task-t1", Content: "doc", RelevanceScore: 0.8}}
	f.store.FailWith = errors.New("bolt connection refused")

	results, err := f.svc.Search(context.Background(), "q", "store", "p1", retrieval.SearchOptions{
		IncludeGraphContext: true,
		IncludeRelatedTasks: true,
	})
	require.NoError(t, err, "enrichment failures must not fail the search")
	require.Len(t, results, 1)
	assert.Equal(t, "t1", results[0].TaskID)
	assert.Nil(t, results[0].GraphContext)
	assert.Nil(t, results[0].RelatedTasks)
}

func TestSearchVectorErrorSoftFails(t *testing.T) {
	f := newFixture(t)
	f.vector.QueryErr = errors.New("503 from index")

	results, err := f.svc.Search(context.Background(), "q", "store", "p1", retrieval.SearchOptions{
		IncludeGraphContext: true,
	})
	require.NoError(t, err, "a failing index reads as nothing found")
	assert.Empty(t, results)
	assert.Zero(t, f.store.TotalCalls())
}

func TestUpsertTaskDualWrite(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.UpsertTask(context.Background(), retrieval.TaskDocument{
		TaskID:    "t1",
		ProjectID: "p1",
		Content:   "Migrate the auth service to the new cluster",
		Node:      graph.TaskNode{Title: "Migrate auth", Category: "backend", Priority: "high"},
	})
	require.NoError(t, err)
	assert.True(t, outcome.VectorSynced)
	assert.True(t, outcome.GraphSynced)

	content, ok := f.vector.Document("project-p1", "task-t1")
	require.True(t, ok)
	assert.Equal(t, "Migrate the auth service to the new cluster", content)
	assert.True(t, f.store.TaskExists("t1", "p1"))
}

func TestUpsertTaskVectorFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.vector.UpsertErr = errors.New("index rejected write")

	outcome, err := f.svc.UpsertTask(context.Background(), retrieval.TaskDocument{
		TaskID: "t1", ProjectID: "p1", Content: "doc",
	})
	require.Error(t, err)
	assert.False(t, outcome.VectorSynced)
	assert.Zero(t, f.store.TotalCalls(), "graph must not be written when the vector write fails")
}

func TestUpsertTaskGraphFailureIsDegradedSuccess(t *testing.T) {
	f := newFixture(t)
	f.store.FailWith = errors.New("bolt down")

	outcome, err := f.svc.UpsertTask(context.Background(), retrieval.TaskDocument{
		TaskID: "t1", ProjectID: "p1", Content: "doc",
	})
	require.NoError(t, err, "vector is the source of truth, graph failure is non-fatal")
	assert.True(t, outcome.VectorSynced)
	assert.False(t, outcome.GraphSynced)
	assert.Error(t, outcome.GraphErr)

	_, ok := f.vector.Document("project-p1", "task-t1")
	assert.True(t, ok, "the document remains searchable")
}

func TestUpsertTaskLinksEpic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.graph.UpsertEpic(ctx, graph.EpicNode{ID: "e1", ProjectID: "p1", Title: "Wave 1"}))

	outcome, err := f.svc.UpsertTask(ctx, retrieval.TaskDocument{
		TaskID:    "t1",
		ProjectID: "p1",
		Content:   "doc",
		Node:      graph.TaskNode{Title: "Migrate auth", EpicID: "e1"},
	})
	require.NoError(t, err)
	assert.True(t, outcome.GraphSynced)

	result, err := f.graph.GetTaskWithRelationships(ctx, "t1", "p1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.ContextSummary, `Part of epic: "Wave 1"`)
}

func TestDeleteTaskAttemptsBothStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedTask(t, f, "t1", "p1", "Migrate auth")
	_, err := f.vector.UpsertDocument(ctx, "project-p1", "task-t1", "doc")
	require.NoError(t, err)
	f.vector.DeleteErr = errors.New("index down")

	outcome, err := f.svc.DeleteTask(ctx, "t1", "p1")
	require.ErrorIs(t, err, apperror.ErrPartialWrite)
	assert.False(t, outcome.VectorDeleted)
	assert.Error(t, outcome.VectorErr)
	assert.True(t, outcome.GraphDeleted, "graph delete must run even when the vector delete fails")
	assert.NoError(t, outcome.GraphErr)
	assert.False(t, f.store.TaskExists("t1", "p1"))
}

func TestDeleteTaskStoreFailureIsNotAbsence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Neither store holds the task: a clean no-op, not an error.
	outcome, err := f.svc.DeleteTask(ctx, "ghost", "p1")
	require.NoError(t, err)
	assert.False(t, outcome.VectorDeleted)
	assert.NoError(t, outcome.VectorErr)
	assert.False(t, outcome.GraphDeleted)
	assert.NoError(t, outcome.GraphErr)

	// The same flags with a thrown vector delete must surface the throw.
	f.vector.DeleteErr = errors.New("index down")
	outcome, err = f.svc.DeleteTask(ctx, "ghost", "p1")
	require.ErrorIs(t, err, apperror.ErrPartialWrite)
	assert.False(t, outcome.VectorDeleted)
	assert.Error(t, outcome.VectorErr)
}

func TestDeleteTaskBothStoresFailing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.vector.DeleteErr = errors.New("index down")
	f.store.FailWith = errors.New("bolt down")

	outcome, err := f.svc.DeleteTask(ctx, "t1", "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrPartialWrite)
	assert.Error(t, outcome.VectorErr)
	assert.Error(t, outcome.GraphErr)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	status := f.svc.Health(context.Background())
	assert.True(t, status.Vector)
	assert.True(t, status.Graph)
	assert.True(t, status.Healthy())

	f.store.FailWith = errors.New("bolt down")
	status = f.svc.Health(context.Background())
	assert.True(t, status.Vector)
	assert.False(t, status.Graph)
	assert.False(t, status.Healthy())
}
