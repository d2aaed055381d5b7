package components

import (
	"log/slog"

	"stayops/internal/domain/event"
	"stayops/internal/engine"
	"stayops/internal/pkg/config"
	"stayops/internal/usecase/commands"

	"go.uber.org/fx"
)

var EngineModule = fx.Module("engine",
	fx.Provide(
		func(ledger commands.BookingLedger, sink event.Sink, cfg config.Config, logger *slog.Logger) *engine.Sweeper {
			return engine.NewSweeper(ledger, sink, cfg.Sweep.Interval, logger)
		},
	),
)
