//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/domain/car"
	"carbooking/internal/pkg/clock"
	"carbooking/internal/pkg/config"
	"carbooking/internal/usecase/commands"
	"carbooking/internal/usecase/queries"
	"carbooking/internal/usecase/shared"
	"carbooking/tests/common/builder"
	"carbooking/tests/common/fake"
	commandsmock "carbooking/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// Inside the payment window of the builder's default reservation, so seeded
// bookings are not logically expired unless a test says so.
var fixedNow = time.Date(2024, 2, 1, 9, 35, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type noopNotifier struct{}

func (noopNotifier) BookingConfirmed(context.Context, *queries.BookingView) error { return nil }
func (noopNotifier) BookingExtended(context.Context, *queries.BookingView) error  { return nil }
func (noopNotifier) PaymentReceived(context.Context, *queries.BookingView) error  { return nil }

type fixture struct {
	store    *fake.Store
	clock    *clock.MockClock
	svc      commands.BookingCommands
	carID    uuid.UUID
	branchA  uuid.UUID
	branchB  uuid.UUID
	customer booking.Customer
}

func newFixture(t *testing.T, notifier commands.Notifier) *fixture {
	t.Helper()
	store := fake.NewStore()
	mc := clock.NewMockClock(fixedNow)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := commands.NewBookingCommands(store, notifier, config.NewTestConfig().Booking, mc, logger)

	f := &fixture{
		store:   store,
		clock:   mc,
		svc:     svc,
		carID:   uuid.New(),
		branchA: uuid.New(),
		branchB: uuid.New(),
		customer: booking.Customer{
			Name:    "Ada",
			Surname: "Lovelace",
			Phone:   "+15550100",
			Email:   "ada@example.com",
		},
	}
	store.AddBranch(shared.BranchSnapshot{ID: f.branchA, Name: "Downtown"})
	store.AddBranch(shared.BranchSnapshot{ID: f.branchB, Name: "Airport"})
	store.AddCar(shared.CarSnapshot{
		ID:              f.carID,
		DailyPriceCents: 100000,
		Status:          car.StatusActive,
		BranchID:        f.branchA,
		Version:         1,
	})
	return f
}

func (f *fixture) createInput(pickup, dropoff time.Time) commands.CreateBookingInput {
	return commands.CreateBookingInput{
		CarID:           f.carID,
		PickupBranchID:  f.branchA,
		DropoffBranchID: f.branchB,
		PickupDate:      pickup,
		DropoffDate:     dropoff,
		Customer:        f.customer,
	}
}

func (f *fixture) manualInput(pickup, dropoff time.Time, startNow bool) commands.CreateManualBookingInput {
	return commands.CreateManualBookingInput{
		CarID:           f.carID,
		DropoffBranchID: f.branchB,
		PickupDate:      pickup,
		DropoffDate:     dropoff,
		Customer:        f.customer,
		StartNow:        startNow,
	}
}

func (f *fixture) seedBooking(b *builder.BookingBuilder) *shared.BookingSnapshot {
	snap := b.BuildSnapshot()
	f.store.AddBooking(*snap)
	return snap
}

func TestCreateBooking(t *testing.T) {
	t.Run("creates an unpaid reservation with expiry window", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})

		view, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 10), day(2024, 2, 15)))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(view.Code, "BK"))
		assert.Equal(t, booking.StatusReserved.String(), view.Status)
		assert.Equal(t, booking.PaymentUnpaid.String(), view.PaymentStatus)
		assert.Equal(t, int64(500000), view.TotalPriceCents)
		assert.Equal(t, int32(1), view.Version)
		require.NotNil(t, view.ExpiresAt)
		assert.Equal(t, fixedNow.Add(10*time.Minute), *view.ExpiresAt)
		assert.NotNil(t, f.store.Booking(view.ID))
	})

	t.Run("normalizes dates and enforces minimum span", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})

		view, err := f.svc.CreateBooking(context.Background(), f.createInput(
			time.Date(2024, 2, 10, 18, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
		))
		require.NoError(t, err)

		assert.Equal(t, day(2024, 2, 10), view.PickupDate)
		assert.Equal(t, day(2024, 2, 11), view.DropoffDate)
		assert.Equal(t, int64(100000), view.TotalPriceCents)
	})

	t.Run("rejects unknown car", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		input := f.createInput(day(2024, 2, 10), day(2024, 2, 15))
		input.CarID = uuid.New()

		_, err := f.svc.CreateBooking(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrCarNotFound)
	})

	t.Run("rejects inactive car", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.store.AddCar(shared.CarSnapshot{
			ID:              f.carID,
			DailyPriceCents: 100000,
			Status:          car.StatusMaintenance,
			BranchID:        f.branchA,
			Version:         1,
		})

		_, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 10), day(2024, 2, 15)))
		assert.ErrorIs(t, err, commands.ErrCarNotActive)
	})

	t.Run("rejects unknown branch", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		input := f.createInput(day(2024, 2, 10), day(2024, 2, 15))
		input.DropoffBranchID = uuid.New()

		_, err := f.svc.CreateBooking(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrBranchNotFound)
	})

	t.Run("rejects pickup branch that is not the car location", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		input := f.createInput(day(2024, 2, 10), day(2024, 2, 15))
		input.PickupBranchID = f.branchB

		_, err := f.svc.CreateBooking(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrBranchMismatch)
	})

	t.Run("rejects overlapping dates", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithStatus(booking.StatusReserved).
			WithPayment(booking.PaymentPaid))

		_, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 13), day(2024, 2, 20)))
		assert.ErrorIs(t, err, commands.ErrDateConflict)
	})

	t.Run("allows back to back bookings sharing a boundary day", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithPayment(booking.PaymentPaid))

		_, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 15), day(2024, 2, 20)))
		assert.NoError(t, err)
	})

	t.Run("expired unpaid reservation does not block the dates", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		expired := fixedNow.Add(-time.Minute)
		f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithExpiresAt(&expired))

		_, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 10), day(2024, 2, 15)))
		assert.NoError(t, err)
	})
}

func TestCreateBooking_Notification(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := commandsmock.NewMockNotifier(ctrl)

	delivered := make(chan *queries.BookingView, 1)
	notifier.EXPECT().
		BookingConfirmed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, view *queries.BookingView) error {
			delivered <- view
			return nil
		})

	f := newFixture(t, notifier)
	view, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 10), day(2024, 2, 15)))
	require.NoError(t, err)

	select {
	case got := <-delivered:
		assert.Equal(t, view.Code, got.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation notification was never delivered")
	}
}

func TestCreateManualBooking(t *testing.T) {
	t.Run("walk-in starting today is paid and active", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.clock.Set(time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC))

		view, err := f.svc.CreateManualBooking(context.Background(), f.manualInput(day(2024, 2, 10), day(2024, 2, 15), true))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusActive.String(), view.Status)
		assert.Equal(t, booking.PaymentPaid.String(), view.PaymentStatus)
		require.NotNil(t, view.PaymentRef)
		assert.Equal(t, "MANUAL-"+view.Code, *view.PaymentRef)
		assert.Nil(t, view.ExpiresAt)
		// The pickup branch is wherever the car currently sits.
		assert.Equal(t, f.branchA, view.PickupBranchID)
	})

	t.Run("future walk-in stays reserved", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})

		view, err := f.svc.CreateManualBooking(context.Background(), f.manualInput(day(2024, 2, 10), day(2024, 2, 15), true))
		require.NoError(t, err)
		assert.Equal(t, booking.StatusReserved.String(), view.Status)
	})

	t.Run("rejects overlapping dates", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithPayment(booking.PaymentPaid))

		_, err := f.svc.CreateManualBooking(context.Background(), f.manualInput(day(2024, 2, 12), day(2024, 2, 18), false))
		assert.ErrorIs(t, err, commands.ErrDateConflict)
	})
}

func TestGetBookingByCode(t *testing.T) {
	t.Run("returns the booking", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().WithCode("BKAAAA01"))

		view, err := f.svc.GetBookingByCode(context.Background(), "BKAAAA01")
		require.NoError(t, err)
		assert.Equal(t, snap.ID, view.ID)
		assert.Equal(t, booking.StatusReserved.String(), view.Status)
	})

	t.Run("lazily cancels an expired reservation", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		expired := fixedNow.Add(-time.Minute)
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKAAAA02").
			WithExpiresAt(&expired))

		view, err := f.svc.GetBookingByCode(context.Background(), "BKAAAA02")
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCancelled.String(), view.Status)
		// The correction is physical, not just presentational.
		stored := f.store.Booking(snap.ID)
		assert.Equal(t, booking.StatusCancelled, stored.Status)
		assert.Equal(t, int32(2), stored.Version)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		_, err := f.svc.GetBookingByCode(context.Background(), "BKNOPE99")
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestPayBooking(t *testing.T) {
	t.Run("settles the reservation", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKPAY001").
			WithTotalPriceCents(500000))

		view, err := f.svc.PayBooking(context.Background(), "BKPAY001", 500000)
		require.NoError(t, err)

		assert.Equal(t, booking.PaymentPaid.String(), view.PaymentStatus)
		require.NotNil(t, view.PaymentRef)
		assert.True(t, strings.HasPrefix(*view.PaymentRef, "SIM-BKPAY001-"))
		assert.Equal(t, int32(2), view.Version)

		stored := f.store.Booking(snap.ID)
		assert.Equal(t, booking.PaymentPaid, stored.PaymentStatus)
		assert.False(t, stored.AdminRead)
	})

	t.Run("rejects wrong amount", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKPAY002").
			WithTotalPriceCents(500000))

		_, err := f.svc.PayBooking(context.Background(), "BKPAY002", 400000)
		assert.ErrorIs(t, err, commands.ErrPaymentAmountMismatch)
	})

	t.Run("expired reservation is cancelled instead of paid", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		expired := fixedNow.Add(-time.Minute)
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKPAY003").
			WithExpiresAt(&expired))

		_, err := f.svc.PayBooking(context.Background(), "BKPAY003", 500000)
		assert.ErrorIs(t, err, commands.ErrBookingExpired)

		stored := f.store.Booking(snap.ID)
		assert.Equal(t, booking.StatusCancelled, stored.Status)
	})

	t.Run("rejects double payment", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKPAY004").
			WithPayment(booking.PaymentPaid))

		_, err := f.svc.PayBooking(context.Background(), "BKPAY004", 500000)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}

func TestExtendBooking(t *testing.T) {
	t.Run("charges only the added span", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKEXT001").
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithTotalPriceCents(500000).
			WithPayment(booking.PaymentPaid))

		view, err := f.svc.ExtendBooking(context.Background(), "BKEXT001", day(2024, 2, 18))
		require.NoError(t, err)

		assert.Equal(t, day(2024, 2, 18), view.DropoffDate)
		assert.Equal(t, int64(800000), view.TotalPriceCents)
		require.NotNil(t, view.OriginalDropoff)
		assert.Equal(t, day(2024, 2, 15), *view.OriginalDropoff)
		assert.Equal(t, int32(2), view.Version)

		stored := f.store.Booking(snap.ID)
		assert.Equal(t, day(2024, 2, 18), stored.DropoffDate)
	})

	t.Run("rejects extension colliding with the next booking", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKEXT002").
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithPayment(booking.PaymentPaid))
		f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKEXT003").
			WithCarID(f.carID).
			WithDates(day(2024, 2, 16), day(2024, 2, 18)).
			WithPayment(booking.PaymentPaid))

		_, err := f.svc.ExtendBooking(context.Background(), "BKEXT002", day(2024, 2, 17))
		assert.ErrorIs(t, err, commands.ErrDateConflict)

		// Up to the neighbour's pickup day is fine.
		_, err = f.svc.ExtendBooking(context.Background(), "BKEXT002", day(2024, 2, 16))
		assert.NoError(t, err)
	})

	t.Run("rejects dropoff not after current", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKEXT004").
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithPayment(booking.PaymentPaid))

		_, err := f.svc.ExtendBooking(context.Background(), "BKEXT004", day(2024, 2, 14))
		assert.ErrorIs(t, err, commands.ErrInvalidDropoff)
	})

	t.Run("rejects expired reservation", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		expired := fixedNow.Add(-time.Minute)
		f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKEXT005").
			WithCarID(f.carID).
			WithExpiresAt(&expired))

		_, err := f.svc.ExtendBooking(context.Background(), "BKEXT005", day(2024, 2, 18))
		assert.ErrorIs(t, err, commands.ErrBookingExpired)
	})
}

func TestAdminTransitions(t *testing.T) {
	t.Run("start requires payment", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder())

		err := f.svc.StartBooking(context.Background(), snap.ID, &snap.Version)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("start moves a paid reservation to active", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().WithPayment(booking.PaymentPaid))

		require.NoError(t, f.svc.StartBooking(context.Background(), snap.ID, &snap.Version))
		assert.Equal(t, booking.StatusActive, f.store.Booking(snap.ID).Status)
	})

	t.Run("complete relocates the car to the dropoff branch", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithBranches(f.branchA, f.branchB).
			WithStatus(booking.StatusActive).
			WithPayment(booking.PaymentPaid))

		require.NoError(t, f.svc.CompleteBooking(context.Background(), snap.ID, &snap.Version))

		assert.Equal(t, booking.StatusCompleted, f.store.Booking(snap.ID).Status)
		movedCar := f.store.Car(f.carID)
		assert.Equal(t, f.branchB, movedCar.BranchID)
		assert.Equal(t, car.StatusActive, movedCar.Status)
		assert.Equal(t, int32(2), movedCar.Version)
	})

	t.Run("complete rejects non-active booking", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder())

		err := f.svc.CompleteBooking(context.Background(), snap.ID, &snap.Version)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("cancel rejects completed booking", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithStatus(booking.StatusCompleted).
			WithPayment(booking.PaymentPaid))

		err := f.svc.CancelBooking(context.Background(), snap.ID, &snap.Version)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("stale version loses, refreshed retry wins", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder())
		stale := snap.Version

		// First admin cancels at version 1.
		require.NoError(t, f.svc.CancelBooking(context.Background(), snap.ID, &stale))

		// Second admin still holds version 1 and must be told to refresh.
		err := f.svc.CancelBooking(context.Background(), snap.ID, &stale)
		assert.ErrorIs(t, err, commands.ErrVersionConflict)

		// After re-reading the current version the retry goes through.
		current := f.store.Booking(snap.ID).Version
		assert.NoError(t, f.svc.CancelBooking(context.Background(), snap.ID, &current))
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		v := int32(1)
		err := f.svc.CancelBooking(context.Background(), uuid.New(), &v)
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestUpdateBookingDates(t *testing.T) {
	t.Run("reprices the full span and records an audit note", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)).
			WithTotalPriceCents(500000))

		view, err := f.svc.UpdateBookingDates(context.Background(), snap.ID, commands.UpdateDatesInput{
			PickupDate:  day(2024, 3, 1),
			DropoffDate: day(2024, 3, 4),
		}, &snap.Version)
		require.NoError(t, err)

		assert.Equal(t, day(2024, 3, 1), view.PickupDate)
		assert.Equal(t, day(2024, 3, 4), view.DropoffDate)
		assert.Equal(t, int64(300000), view.TotalPriceCents)

		stored := f.store.Booking(snap.ID)
		require.NotNil(t, stored.AuditNote)
		assert.Contains(t, *stored.AuditNote, "dates updated from [2024-02-10, 2024-02-15)")
		assert.Contains(t, *stored.AuditNote, "to [2024-03-01, 2024-03-04)")
	})

	t.Run("own footprint does not count as a conflict", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)))

		_, err := f.svc.UpdateBookingDates(context.Background(), snap.ID, commands.UpdateDatesInput{
			PickupDate:  day(2024, 2, 12),
			DropoffDate: day(2024, 2, 16),
		}, &snap.Version)
		assert.NoError(t, err)
	})

	t.Run("rejects conflicting span", func(t *testing.T) {
		f := newFixture(t, noopNotifier{})
		f.seedBooking(builder.NewBookingBuilder().
			WithCarID(f.carID).
			WithDates(day(2024, 3, 1), day(2024, 3, 5)).
			WithPayment(booking.PaymentPaid))
		snap := f.seedBooking(builder.NewBookingBuilder().
			WithCode("BKUPD001").
			WithCarID(f.carID).
			WithDates(day(2024, 2, 10), day(2024, 2, 15)))

		_, err := f.svc.UpdateBookingDates(context.Background(), snap.ID, commands.UpdateDatesInput{
			PickupDate:  day(2024, 3, 2),
			DropoffDate: day(2024, 3, 6),
		}, &snap.Version)
		assert.ErrorIs(t, err, commands.ErrDateConflict)
	})
}

func TestCancelExpiredBookings(t *testing.T) {
	f := newFixture(t, noopNotifier{})
	expired := fixedNow.Add(-time.Minute)
	open := fixedNow.Add(time.Minute)

	f.seedBooking(builder.NewBookingBuilder().WithCode("BKEXP001").WithExpiresAt(&expired))
	f.seedBooking(builder.NewBookingBuilder().WithCode("BKEXP002").WithExpiresAt(&expired))
	f.seedBooking(builder.NewBookingBuilder().WithCode("BKEXP003").WithExpiresAt(&open))

	affected, err := f.svc.CancelExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	// The sweep is idempotent: a second pass finds nothing.
	affected, err = f.svc.CancelExpiredBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestBookingLifecycle_EndToEnd(t *testing.T) {
	f := newFixture(t, noopNotifier{})

	view, err := f.svc.CreateBooking(context.Background(), f.createInput(day(2024, 2, 10), day(2024, 2, 15)))
	require.NoError(t, err)

	paid, err := f.svc.PayBooking(context.Background(), view.Code, view.TotalPriceCents)
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentPaid.String(), paid.PaymentStatus)

	f.clock.Set(time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, f.svc.StartBooking(context.Background(), view.ID, &paid.Version))

	f.clock.Set(time.Date(2024, 2, 15, 11, 0, 0, 0, time.UTC))
	current := f.store.Booking(view.ID).Version
	require.NoError(t, f.svc.CompleteBooking(context.Background(), view.ID, &current))

	assert.Equal(t, booking.StatusCompleted, f.store.Booking(view.ID).Status)
	assert.Equal(t, f.branchB, f.store.Car(f.carID).BranchID)

	// A completed rental no longer blocks the calendar; the next customer
	// picks the car up where it now sits.
	input := f.createInput(day(2024, 2, 10), day(2024, 2, 15))
	input.PickupBranchID = f.branchB
	_, err = f.svc.CreateBooking(context.Background(), input)
	assert.NoError(t, err)
}
