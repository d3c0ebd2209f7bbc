package vectorindex

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/shiftplan-ai/shiftplan/internal/config"
	"github.com/shiftplan-ai/shiftplan/pkg/logger"
)

// Module provides the vector index client.
var Module = fx.Module("vectorindex",
	fx.Provide(NewClientFromConfig),
)

// NewClientFromConfig builds the client from application configuration.
func NewClientFromConfig(cfg *config.Config, log *slog.Logger) (*Client, error) {
	return NewClient(
		Config{
			BaseURL: cfg.Vector.BaseURL,
			APIKey:  cfg.Vector.APIKey,
			Timeout: cfg.Vector.Timeout,
		},
		WithMaxRetries(cfg.Vector.MaxRetries),
		WithLogger(log.With(logger.Scope("vectorindex"))),
	)
}
