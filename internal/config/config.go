package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Config holds all application configuration
type Config struct {
	// Server settings
	ServerPort    int    `env:"SERVER_PORT" envDefault:"3004"`
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Environment   string `env:"ENVIRONMENT" envDefault:"local"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Graph store settings (Neo4j)
	Graph GraphConfig

	// Vector index service settings
	Vector VectorConfig

	// Retrieval defaults
	Retrieval RetrievalConfig

	// OpenTelemetry settings
	Otel OtelConfig

	// Server timeouts
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// GraphConfig holds Neo4j connection settings
type GraphConfig struct {
	URI      string `env:"NEO4J_URI" envDefault:"bolt://localhost:7687"`
	Username string `env:"NEO4J_USERNAME" envDefault:"neo4j"`
	Password string `env:"NEO4J_PASSWORD" envDefault:""`
	Database string `env:"NEO4J_DATABASE" envDefault:"neo4j"`

	// ConnectTimeout bounds the startup connectivity verification.
	ConnectTimeout time.Duration `env:"NEO4J_CONNECT_TIMEOUT" envDefault:"10s"`
}

// VectorConfig holds the embedding service settings
type VectorConfig struct {
	// BaseURL of the managed vector index service, e.g. http://localhost:8200
	BaseURL string `env:"VECTOR_BASE_URL" envDefault:"http://localhost:8200"`

	// APIKey sent as a bearer token on every request
	APIKey string `env:"VECTOR_API_KEY" envDefault:""`

	// Timeout is the per-request HTTP timeout
	Timeout time.Duration `env:"VECTOR_TIMEOUT" envDefault:"30s"`

	// MaxRetries for 429/5xx responses
	MaxRetries int `env:"VECTOR_MAX_RETRIES" envDefault:"3"`
}

// RetrievalConfig holds defaults for the retrieval coordinator
type RetrievalConfig struct {
	// TopK is the default number of vector hits requested per search
	TopK int `env:"RETRIEVAL_TOP_K" envDefault:"5"`

	// RelationshipDepth is the default traversal depth for related tasks
	RelationshipDepth int `env:"RETRIEVAL_RELATIONSHIP_DEPTH" envDefault:"2"`

	// EnrichmentWorkers bounds the per-hit graph enrichment fan-out
	EnrichmentWorkers int `env:"RETRIEVAL_ENRICHMENT_WORKERS" envDefault:"4"`
}

// NewConfig loads configuration from environment variables
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("environment", cfg.Environment),
		slog.String("graph_uri", cfg.Graph.URI),
		slog.String("vector_base_url", cfg.Vector.BaseURL),
	)

	return cfg, nil
}
