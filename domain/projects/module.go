package projects

import (
	"go.uber.org/fx"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

// Module provides project teardown dependencies.
var Module = fx.Module("projects",
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
