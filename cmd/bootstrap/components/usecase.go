package components

import (
	"log/slog"

	"carbooking/internal/infra/readstore"
	"carbooking/internal/pkg/clock"
	"carbooking/internal/pkg/config"
	"carbooking/internal/usecase/commands"
	"carbooking/internal/usecase/queries"
	"carbooking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewBookingCommands,
		NewAvailabilityQueries,
		NewBookingQueries,
	),
)

func NewBookingCommands(
	uow shared.UnitOfWork,
	notifier commands.Notifier,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) commands.BookingCommands {
	return commands.NewBookingCommands(uow, notifier, cfg.Booking, clk, logger)
}

func NewAvailabilityQueries(store *readstore.BookingReadStore, clk clock.Clock) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(store, clk)
}

func NewBookingQueries(store *readstore.BookingReadStore, cfg config.Config, clk clock.Clock) queries.BookingQueries {
	return queries.NewBookingQueries(store, cfg.Booking.PhoneLookupLimit, clk)
}
