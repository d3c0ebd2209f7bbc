// Package database provides the Neo4j driver as a long-lived, shared
// dependency. The driver owns its connection pool; individual operations
// open a scoped session per call and release it on every exit path.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/fx"

	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
)

var Module = fx.Module("database",
	fx.Provide(NewDriver),
)

// NewDriver creates the Neo4j driver, verifies connectivity once at startup,
// and closes the driver on application stop.
func NewDriver(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (neo4j.DriverWithContext, error) {
	log = log.With(logger.Scope("database"))

	driver, err := neo4j.NewDriverWithContext(
		cfg.Graph.URI,
		neo4j.BasicAuth(cfg.Graph.Username, cfg.Graph.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Graph.ConnectTimeout)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	log.Info("graph driver connected",
		slog.String("uri", cfg.Graph.URI),
		slog.String("database", cfg.Graph.Database),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing graph driver")
			return driver.Close(ctx)
		},
	})

	return driver, nil
}
