package graph_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/internal/config"
)

// newRepository connects to a live Neo4j instance. These tests only run
// when NEO4J_URI is set, e.g. against a local container.
func newRepository(t *testing.T) *graph.Repository {
	t.Helper()

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set, skipping graph store integration tests")
	}

	cfg := &config.Config{
		Graph: config.GraphConfig{
			URI:      uri,
			Username: os.Getenv("NEO4J_USERNAME"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Database: "neo4j",
		},
	}

	driver, err := neo4j.NewDriverWithContext(cfg.Graph.URI,
		neo4j.BasicAuth(cfg.Graph.Username, cfg.Graph.Password, ""))
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close(context.Background()) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return graph.NewRepository(driver, cfg, log)
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	// Throwaway project id keeps runs isolated from each other.
	projectID := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = repo.DeleteProject(context.Background(), projectID) })

	require.NoError(t, repo.UpsertTask(ctx, graph.TaskNode{
		ID: "t1", ProjectID: projectID, Title: "Plan cutover",
	}))
	require.NoError(t, repo.UpsertTask(ctx, graph.TaskNode{
		ID: "t2", ProjectID: projectID, Title: "Provision database",
	}))
	require.NoError(t, repo.CreateRelationship(ctx, "t1", "t2", graph.DependsOn, projectID, 2.0))

	// Idempotent edge creation.
	require.NoError(t, repo.CreateRelationship(ctx, "t1", "t2", graph.DependsOn, projectID, 2.0))

	result, err := repo.GetTaskWithRelationships(ctx, "t1", projectID)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, graph.DependsOn, result.Relationships[0].Type)
	assert.Equal(t, graph.Outgoing, result.Relationships[0].Direction)
	assert.Equal(t, 2.0, result.Relationships[0].Weight)
	assert.Equal(t, "t2", result.Relationships[0].Neighbor.ID)

	related, err := repo.FindRelatedTasks(ctx, "t1", projectID, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "t2", related[0].ID)

	deleted, err := repo.DeleteTask(ctx, "t1", projectID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.GetTaskWithRelationships(ctx, "t1", projectID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// The dependent task lost the incident edge.
	result, err = repo.GetTaskWithRelationships(ctx, "t2", projectID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Relationships)
}

func TestRepositoryProjectScoping(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	p1 := "test-" + uuid.NewString()
	p2 := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = repo.DeleteProject(context.Background(), p1)
		_, _ = repo.DeleteProject(context.Background(), p2)
	})

	require.NoError(t, repo.UpsertTask(ctx, graph.TaskNode{ID: "t1", ProjectID: p1, Title: "A"}))
	require.NoError(t, repo.UpsertTask(ctx, graph.TaskNode{ID: "t1", ProjectID: p2, Title: "A in p2"}))

	deleted, err := repo.DeleteProject(ctx, p1)
	require.NoError(t, err)
	assert.True(t, deleted)

	result, err := repo.GetTaskWithRelationships(ctx, "t1", p2)
	require.NoError(t, err)
	require.NotNil(t, result, "other project must be untouched")
	assert.Equal(t, "A in p2", result.Task.Title)
}
