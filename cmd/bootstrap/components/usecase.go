package components

import (
	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/config"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		func(cfg config.Config) *booking.StandardRateCalculator {
			return booking.NewStandardRateCalculator(cfg.Pricing.ExtraGuestFeeCents)
		},
		fx.As(new(booking.RateCalculator)),
	),
	booking.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRoomCatalog,
		commands.NewRoomStatusController,
		commands.NewHousekeepingScheduler,
		commands.NewBookingLedger,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
	),
)
