package components

import (
	"log/slog"

	"stayops/internal/domain/event"
	"stayops/internal/infra/eventlog"
	"stayops/internal/infra/pgstore"
	"stayops/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			pgstore.NewUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			func(logger *slog.Logger) *eventlog.LogSink {
				return eventlog.NewLogSink(logger)
			},
			fx.As(new(event.Sink)),
		),
	),
)
