package tasks

import (
	"go.uber.org/fx"
)

// Module provides task lifecycle dependencies.
var Module = fx.Module("tasks",
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
