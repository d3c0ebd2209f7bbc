// Package main provides the entry point for the shiftplan retrieval server.
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/domain/health"
	"github.com/shiftplan-ai/shiftplan/domain/projects"
	"github.com/shiftplan-ai/shiftplan/domain/retrieval"
	"github.com/shiftplan-ai/shiftplan/domain/tasks"
	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/internal/database"
	"github.com/shiftplan-ai/shiftplan/internal/server"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
	"github.com/shiftplan-ai/shiftplan/pkg/tracing"
	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

func main() {
	// Load .env files if present (for local development)
	// Order matters: .env.local overrides .env
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		// Logging
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		database.Module,
		server.Module,
		tracing.Module,

		// Vector index client
		vectorindex.Module,

		// Domain modules
		health.Module,
		graph.Module,
		retrieval.Module,
		tasks.Module,
		projects.Module,
	).Run()
}
