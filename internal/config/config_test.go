package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "NEO4J_URI", "NEO4J_DATABASE", "VECTOR_BASE_URL",
		"RETRIEVAL_TOP_K", "RETRIEVAL_RELATIONSHIP_DEPTH", "RETRIEVAL_ENRICHMENT_WORKERS",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig(slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 3004, cfg.ServerPort)
	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, "neo4j", cfg.Graph.Database)
	assert.Equal(t, "http://localhost:8200", cfg.Vector.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Vector.Timeout)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 2, cfg.Retrieval.RelationshipDepth)
	assert.Equal(t, 4, cfg.Retrieval.EnrichmentWorkers)
	assert.False(t, cfg.Otel.Enabled())
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("NEO4J_URI", "neo4j://graph.internal:7687")
	t.Setenv("VECTOR_BASE_URL", "https://vectors.internal")
	t.Setenv("RETRIEVAL_TOP_K", "10")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")

	cfg, err := NewConfig(slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "neo4j://graph.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "https://vectors.internal", cfg.Vector.BaseURL)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.True(t, cfg.Otel.Enabled())
}
