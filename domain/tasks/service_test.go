package tasks_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/domain/retrieval"
	"github.com/shiftplan-ai/shiftplan/domain/tasks"
	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/internal/testutil"
)

type fixture struct {
	svc    *tasks.Service
	vector *testutil.VectorIndex
	store  *testutil.GraphStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Retrieval: config.RetrievalConfig{TopK: 5, RelationshipDepth: 2, EnrichmentWorkers: 4},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	vector := testutil.NewVectorIndex()
	store := testutil.NewGraphStore()
	graphSvc := graph.NewService(store, cfg, log)
	coordinator := retrieval.NewService(vector, graphSvc, cfg, log)
	return &fixture{
		svc:    tasks.NewService(coordinator, graphSvc, log),
		vector: vector,
		store:  store,
	}
}

func TestUpsertGeneratesIDAndWritesBothStores(t *testing.T) {
	f := newFixture(t)

	task, outcome, err := f.svc.Upsert(context.Background(), tasks.CreateTaskRequest{
		Title:     "Migrate auth service",
		Category:  "backend",
		Priority:  "high",
		ProjectID: "p1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.True(t, outcome.VectorSynced)
	assert.True(t, outcome.GraphSynced)

	content, ok := f.vector.Document("project-p1", "task-"+task.ID)
	require.True(t, ok)
	assert.Contains(t, content, "Task: Migrate auth service")
	assert.Contains(t, content, "Category: backend")
	assert.True(t, f.store.TaskExists(task.ID, "p1"))
}

func TestUpsertKeepsProvidedID(t *testing.T) {
	f := newFixture(t)

	task, _, err := f.svc.Upsert(context.Background(), tasks.CreateTaskRequest{
		ID:        "t1",
		Title:     "Move DNS",
		ProjectID: "p1",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
}

func TestUpsertValidation(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Upsert(context.Background(), tasks.CreateTaskRequest{ProjectID: "p1"})
	require.Error(t, err)

	_, _, err = f.svc.Upsert(context.Background(), tasks.CreateTaskRequest{Title: "no project"})
	require.Error(t, err)
	assert.Zero(t, f.vector.Calls["UpsertDocument"])
}

func TestUpsertWithEpicLinksContainment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	epic, err := f.svc.UpsertEpic(ctx, tasks.CreateEpicRequest{
		Title: "Wave 1", ProjectID: "p1",
	})
	require.NoError(t, err)

	task, _, err := f.svc.Upsert(ctx, tasks.CreateTaskRequest{
		Title: "Provision database", ProjectID: "p1", EpicID: epic.ID,
	})
	require.NoError(t, err)

	result, err := f.svc.Get(ctx, task.ID, "p1")
	require.NoError(t, err)
	assert.Contains(t, result.ContextSummary, `Part of epic: "Wave 1"`)
}

func TestGetMissingTask(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "ghost", "p1")
	require.Error(t, err)
}

func TestDeleteRemovesBothStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, _, err := f.svc.Upsert(ctx, tasks.CreateTaskRequest{
		ID: "t1", Title: "Move DNS", ProjectID: "p1",
	})
	require.NoError(t, err)

	outcome, err := f.svc.Delete(ctx, task.ID, "p1")
	require.NoError(t, err)
	assert.True(t, outcome.VectorDeleted)
	assert.True(t, outcome.GraphDeleted)

	_, ok := f.vector.Document("project-p1", "task-t1")
	assert.False(t, ok)
	assert.False(t, f.store.TaskExists("t1", "p1"))
}

func TestSearchDocumentOmitsEmptyFields(t *testing.T) {
	task := tasks.Task{Title: "Minimal"}
	doc := task.SearchDocument()
	assert.Equal(t, "Task: Minimal", doc)
}
