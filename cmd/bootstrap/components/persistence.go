package components

import (
	"carbooking/internal/infra/notifier"
	"carbooking/internal/infra/readstore"
	"carbooking/internal/infra/uow"
	"carbooking/internal/usecase/commands"
	"carbooking/internal/usecase/queries"
	"carbooking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
		NewBookingReadStore,
		NewNotifier,
	),
)

func NewBookingReadStore(pool *pgxpool.Pool) *readstore.BookingReadStore {
	return readstore.NewBookingReadStore(pool)
}

func NewNotifier(pool *pgxpool.Pool) commands.Notifier {
	return notifier.NewJobNotifier(pool)
}

// Bind the concrete read store to read-side query ports.
var _ queries.BookingSpanReader = (*readstore.BookingReadStore)(nil)
var _ queries.BookingListReader = (*readstore.BookingReadStore)(nil)
var _ shared.UnitOfWork = (*uow.PostgresUoW)(nil)
