package retrieval

import (
	"go.uber.org/fx"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

// Module provides retrieval domain dependencies.
var Module = fx.Module("retrieval",
	fx.Provide(provideVectorIndex),
	fx.Provide(provideGraphIndex),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func provideVectorIndex(client *vectorindex.Client) VectorIndex {
	return client
}

func provideGraphIndex(svc *graph.Service) GraphIndex {
	return svc
}
