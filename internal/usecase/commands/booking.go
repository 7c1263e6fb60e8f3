package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/domain/car"
	"carbooking/internal/infra"
	"carbooking/internal/pkg/clock"
	"carbooking/internal/pkg/config"
	"carbooking/internal/pkg/errs"
	"carbooking/internal/usecase/queries"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCarNotFound             = errs.New("car not found")
	ErrBranchNotFound          = errs.New("branch not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrCarNotActive            = errs.New("car is not active")
	ErrBranchMismatch          = errs.New("pickup branch does not match car location")
	ErrDateConflict            = errs.New("car is already booked for the requested dates")
	ErrVersionConflict         = errs.New("booking was modified concurrently, refresh and retry")
	ErrCarVersionConflict      = errs.New("car was modified concurrently, refresh and retry")
	ErrBookingExpired          = errs.New("booking payment window has expired")
	ErrInvalidTransition       = errs.New("transition not allowed from current state")
	ErrInvalidDropoff          = errs.New("new dropoff must extend the booking")
	ErrPaymentAmountMismatch   = errs.New("payment amount does not match booking total")
	ErrDuplicateCode           = errs.New("booking code already in use")
	ErrCodeAllocationFailed    = errs.New("failed to allocate a unique booking code")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type BookingCommands interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*queries.BookingView, error)
	CreateManualBooking(ctx context.Context, input CreateManualBookingInput) (*queries.BookingView, error)
	GetBookingByCode(ctx context.Context, code string) (*queries.BookingView, error)
	ExtendBooking(ctx context.Context, code string, newDropoff time.Time) (*queries.BookingView, error)
	PayBooking(ctx context.Context, code string, amountCents int64) (*queries.BookingView, error)
	StartBooking(ctx context.Context, id uuid.UUID, expectedVersion *int32) error
	CompleteBooking(ctx context.Context, id uuid.UUID, expectedVersion *int32) error
	CancelBooking(ctx context.Context, id uuid.UUID, expectedVersion *int32) error
	UpdateBookingDates(ctx context.Context, id uuid.UUID, input UpdateDatesInput, expectedVersion *int32) (*queries.BookingView, error)
	CancelExpiredBookings(ctx context.Context) (int64, error)
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
	codes    *booking.CodeGenerator
	cfg      config.BookingConfig
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	notifier Notifier,
	cfg config.BookingConfig,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		notifier: notifier,
		codes:    booking.NewCodeGenerator(cfg.CodePrefix, cfg.CodeLength),
		cfg:      cfg,
		clock:    clk,
		logger:   logger,
	}
}

// CreateBooking admits a public reservation. The whole guard pipeline
// (car -> branches -> branch match -> overlap) and the insert run inside one
// serializable transaction so two concurrent requests for conflicting spans
// cannot both pass the overlap check.
func (u *bookingCommandsImpl) CreateBooking(ctx context.Context, input CreateBookingInput) (*queries.BookingView, error) {
	now := u.clock.Now()
	dates := booking.NewDateRange(input.PickupDate, input.DropoffDate)

	var created *booking.Booking
	err := u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		carSnap, err := u.guardCar(ctx, tx, input.CarID)
		if err != nil {
			return err
		}
		if _, err := u.guardBranch(ctx, tx, input.PickupBranchID); err != nil {
			return err
		}
		if _, err := u.guardBranch(ctx, tx, input.DropoffBranchID); err != nil {
			return err
		}
		if carSnap.BranchID != input.PickupBranchID {
			return ErrBranchMismatch
		}
		if err := u.guardNoOverlap(ctx, tx, input.CarID, dates, nil, now); err != nil {
			return err
		}

		code, err := u.codes.Allocate(ctx, tx.Bookings().IsCodeTaken)
		if err != nil {
			return errs.Mark(err, ErrCodeAllocationFailed)
		}

		price := booking.TotalPrice(booking.NewMoney(carSnap.DailyPriceCents), dates)
		entity, err := booking.NewReserved(
			code, input.CarID, dates,
			input.PickupBranchID, input.DropoffBranchID,
			price, input.Customer,
			now.Add(u.cfg.PaymentWindow),
		)
		if err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if _, err := tx.Bookings().Insert(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateCode)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		created = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := viewFromDomain(created, now)
	u.notifyAsync("booking_confirmed", view, u.notifier.BookingConfirmed)
	return view, nil
}

// CreateManualBooking is the admin walk-in path: pre-paid, no expiry window,
// optionally active immediately. The pickup branch is wherever the car is.
func (u *bookingCommandsImpl) CreateManualBooking(ctx context.Context, input CreateManualBookingInput) (*queries.BookingView, error) {
	now := u.clock.Now()
	dates := booking.NewDateRange(input.PickupDate, input.DropoffDate)

	var created *booking.Booking
	err := u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		carSnap, err := u.guardCar(ctx, tx, input.CarID)
		if err != nil {
			return err
		}
		if _, err := u.guardBranch(ctx, tx, input.DropoffBranchID); err != nil {
			return err
		}
		if err := u.guardNoOverlap(ctx, tx, input.CarID, dates, nil, now); err != nil {
			return err
		}

		code, err := u.codes.Allocate(ctx, tx.Bookings().IsCodeTaken)
		if err != nil {
			return errs.Mark(err, ErrCodeAllocationFailed)
		}

		price := booking.TotalPrice(booking.NewMoney(carSnap.DailyPriceCents), dates)
		entity, err := booking.NewManual(
			code, input.CarID, dates,
			carSnap.BranchID, input.DropoffBranchID,
			price, input.Customer,
			input.StartNow, now,
		)
		if err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if _, err := tx.Bookings().Insert(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateCode)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		created = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	return viewFromDomain(created, now), nil
}

// GetBookingByCode applies the lazy expiry correction before returning: an
// expired unpaid reservation is physically cancelled on this read so the car
// frees up without waiting for the sweep.
func (u *bookingCommandsImpl) GetBookingByCode(ctx context.Context, code string) (*queries.BookingView, error) {
	now := u.clock.Now()

	var view *queries.BookingView
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := u.fetchByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if snap.ToDomain().IsExpired(now) {
			if _, err := tx.Bookings().CancelIfExpired(ctx, snap.ID, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if snap, err = u.fetchByCode(ctx, tx, code); err != nil {
				return err
			}
		}
		view = queries.NewBookingView(snap, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ExtendBooking pushes the dropoff out, charging only for the added span.
// Runs serializable for the same reason as create: the added span must not
// collide with a reservation committed by a concurrent transaction.
func (u *bookingCommandsImpl) ExtendBooking(ctx context.Context, code string, newDropoff time.Time) (*queries.BookingView, error) {
	now := u.clock.Now()

	var view *queries.BookingView
	err := u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := u.fetchByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		entity := snap.ToDomain()

		carSnap, err := tx.Reads().CarByID(ctx, snap.CarID)
		if err != nil {
			return u.mapCarReadErr(err)
		}

		previousDropoff := entity.Dates().Dropoff()
		if err := entity.Extend(newDropoff, booking.NewMoney(carSnap.DailyPriceCents), now); err != nil {
			return mapDomainErr(err)
		}

		// Only the added span can conflict; the original footprint is ours.
		id := snap.ID
		addedSpan := booking.NewDateRange(previousDropoff, entity.Dates().Dropoff())
		if err := u.guardNoOverlap(ctx, tx, snap.CarID, addedSpan, &id, now); err != nil {
			return err
		}

		dropoff := entity.Dates().Dropoff()
		total := entity.TotalPrice().Cents()
		patch := shared.BookingPatch{
			DropoffDate:     &dropoff,
			TotalPriceCents: &total,
			OriginalDropoff: entity.OriginalDropoff(),
		}
		if err := u.applyPatch(ctx, tx, snap.ID, &snap.Version, patch); err != nil {
			return err
		}

		if snap, err = u.fetchByCode(ctx, tx, code); err != nil {
			return err
		}
		view = queries.NewBookingView(snap, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifyAsync("booking_extended", view, u.notifier.BookingExtended)
	return view, nil
}

// PayBooking settles the reservation with a simulated payment. An expired
// reservation is cancelled on the spot instead of being paid; the correction
// must commit, so the transaction returns cleanly and the error is surfaced
// only after it.
func (u *bookingCommandsImpl) PayBooking(ctx context.Context, code string, amountCents int64) (*queries.BookingView, error) {
	now := u.clock.Now()

	var view *queries.BookingView
	var expired bool
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := u.fetchByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		entity := snap.ToDomain()

		if entity.IsExpired(now) {
			if _, err := tx.Bookings().CancelIfExpired(ctx, snap.ID, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			expired = true
			return nil
		}
		if amountCents != snap.TotalPriceCents {
			return ErrPaymentAmountMismatch
		}

		ref := fmt.Sprintf("SIM-%s-%d", code, now.Unix())
		if err := entity.Pay(now, ref); err != nil {
			return mapDomainErr(err)
		}

		paid := entity.PaymentStatus()
		adminRead := entity.AdminRead()
		patch := shared.BookingPatch{
			PaymentStatus: &paid,
			PaymentRef:    entity.PaymentRef(),
			AdminRead:     &adminRead,
		}
		if err := u.applyPatch(ctx, tx, snap.ID, &snap.Version, patch); err != nil {
			return err
		}

		if snap, err = u.fetchByCode(ctx, tx, code); err != nil {
			return err
		}
		view = queries.NewBookingView(snap, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrBookingExpired
	}

	u.notifyAsync("payment_received", view, u.notifier.PaymentReceived)
	return view, nil
}

// StartBooking hands the keys over: RESERVED -> ACTIVE, paid only.
func (u *bookingCommandsImpl) StartBooking(ctx context.Context, id uuid.UUID, expectedVersion *int32) error {
	return u.adminTransition(ctx, id, expectedVersion, func(b *booking.Booking) (shared.BookingPatch, error) {
		if err := b.Start(); err != nil {
			return shared.BookingPatch{}, mapDomainErr(err)
		}
		status := b.Status()
		return shared.BookingPatch{Status: &status}, nil
	}, nil)
}

// CompleteBooking closes the rental and relocates the vehicle to the dropoff
// branch. Both rows move in the same transaction, each guarded by its version.
func (u *bookingCommandsImpl) CompleteBooking(ctx context.Context, id uuid.UUID, expectedVersion *int32) error {
	return u.adminTransition(ctx, id, expectedVersion, func(b *booking.Booking) (shared.BookingPatch, error) {
		if err := b.Complete(); err != nil {
			return shared.BookingPatch{}, mapDomainErr(err)
		}
		status := b.Status()
		return shared.BookingPatch{Status: &status}, nil
	}, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		carSnap, err := tx.Reads().CarByID(ctx, b.CarID())
		if err != nil {
			return u.mapCarReadErr(err)
		}
		entity, err := car.Reconstruct(carSnap.ID, carSnap.DailyPriceCents, carSnap.Status, carSnap.BranchID, carSnap.Version)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		entity.Relocate(b.DropoffBranchID())

		status := entity.Status()
		branchID := entity.BranchID()
		rows, err := tx.Cars().UpdateConditional(ctx, entity.ID(), carSnap.Version, shared.CarPatch{
			Status:   &status,
			BranchID: &branchID,
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if rows == 0 {
			return ErrCarVersionConflict
		}
		return nil
	})
}

// CancelBooking is valid from any non-terminal state.
func (u *bookingCommandsImpl) CancelBooking(ctx context.Context, id uuid.UUID, expectedVersion *int32) error {
	return u.adminTransition(ctx, id, expectedVersion, func(b *booking.Booking) (shared.BookingPatch, error) {
		if err := b.Cancel(); err != nil {
			return shared.BookingPatch{}, mapDomainErr(err)
		}
		status := b.Status()
		return shared.BookingPatch{Status: &status}, nil
	}, nil)
}

// UpdateBookingDates replaces the span and recomputes the total from scratch.
// Unlike ExtendBooking this is a full reprice; the two policies are kept as
// distinct operations on purpose.
func (u *bookingCommandsImpl) UpdateBookingDates(ctx context.Context, id uuid.UUID, input UpdateDatesInput, expectedVersion *int32) (*queries.BookingView, error) {
	now := u.clock.Now()
	dates := booking.NewDateRange(input.PickupDate, input.DropoffDate)

	var view *queries.BookingView
	err := u.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, id)
		if err != nil {
			return u.mapBookingReadErr(err)
		}
		entity := snap.ToDomain()

		carSnap, err := tx.Reads().CarByID(ctx, snap.CarID)
		if err != nil {
			return u.mapCarReadErr(err)
		}

		excludeID := snap.ID
		if err := u.guardNoOverlap(ctx, tx, snap.CarID, dates, &excludeID, now); err != nil {
			return err
		}

		note := fmt.Sprintf("dates updated from [%s, %s) to [%s, %s) at %s",
			snap.PickupDate.Format("2006-01-02"),
			snap.DropoffDate.Format("2006-01-02"),
			dates.Pickup().Format("2006-01-02"),
			dates.Dropoff().Format("2006-01-02"),
			now.Format(time.RFC3339))
		if input.Note != "" {
			note = input.Note + ": " + note
		}
		if err := entity.UpdateDates(dates, booking.NewMoney(carSnap.DailyPriceCents), note); err != nil {
			return mapDomainErr(err)
		}

		pickup := entity.Dates().Pickup()
		dropoff := entity.Dates().Dropoff()
		total := entity.TotalPrice().Cents()
		patch := shared.BookingPatch{
			PickupDate:      &pickup,
			DropoffDate:     &dropoff,
			TotalPriceCents: &total,
			AuditNote:       entity.AuditNote(),
		}
		if err := u.applyPatch(ctx, tx, snap.ID, expectedVersion, patch); err != nil {
			return err
		}

		if snap, err = tx.Reads().BookingByID(ctx, id); err != nil {
			return u.mapBookingReadErr(err)
		}
		view = queries.NewBookingView(snap, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CancelExpiredBookings bulk-corrects logically expired reservations.
// Idempotent: rows already cancelled do not match the sweep predicate.
func (u *bookingCommandsImpl) CancelExpiredBookings(ctx context.Context) (int64, error) {
	now := u.clock.Now()

	var affected int64
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Bookings().CancelExpired(ctx, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		u.logger.Info("expired bookings cancelled", "count", affected)
	}
	return affected, nil
}

// adminTransition is the shared optimistic-locking skeleton: load, guard via
// the entity, conditional update, disambiguate zero rows by re-fetching.
func (u *bookingCommandsImpl) adminTransition(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion *int32,
	mutate func(b *booking.Booking) (shared.BookingPatch, error),
	after func(ctx context.Context, tx shared.Tx, b *booking.Booking) error,
) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, id)
		if err != nil {
			return u.mapBookingReadErr(err)
		}
		entity := snap.ToDomain()

		patch, err := mutate(entity)
		if err != nil {
			return err
		}

		if err := u.applyPatch(ctx, tx, id, expectedVersion, patch); err != nil {
			return err
		}

		if after != nil {
			return after(ctx, tx, entity)
		}
		return nil
	})
}

func (u *bookingCommandsImpl) applyPatch(ctx context.Context, tx shared.Tx, id uuid.UUID, expectedVersion *int32, patch shared.BookingPatch) error {
	rows, err := tx.Bookings().UpdateConditional(ctx, id, expectedVersion, patch)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if rows == 0 {
		// Zero rows is ambiguous: the row vanished or the version moved.
		if _, readErr := tx.Reads().BookingByID(ctx, id); readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}
		return ErrVersionConflict
	}
	return nil
}

func (u *bookingCommandsImpl) guardCar(ctx context.Context, tx shared.Tx, carID uuid.UUID) (*shared.CarSnapshot, error) {
	carSnap, err := tx.Reads().CarByID(ctx, carID)
	if err != nil {
		return nil, u.mapCarReadErr(err)
	}
	if carSnap.Status != car.StatusActive {
		return nil, ErrCarNotActive
	}
	return carSnap, nil
}

func (u *bookingCommandsImpl) guardBranch(ctx context.Context, tx shared.Tx, branchID uuid.UUID) (*shared.BranchSnapshot, error) {
	branch, err := tx.Reads().BranchByID(ctx, branchID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return branch, nil
}

func (u *bookingCommandsImpl) guardNoOverlap(ctx context.Context, tx shared.Tx, carID uuid.UUID, dates booking.DateRange, excludeID *uuid.UUID, now time.Time) error {
	conflict, err := tx.Bookings().ExistsConflict(ctx, carID, dates.Pickup(), dates.Dropoff(), excludeID, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if conflict {
		return ErrDateConflict
	}
	return nil
}

func (u *bookingCommandsImpl) fetchByCode(ctx context.Context, tx shared.Tx, code string) (*shared.BookingSnapshot, error) {
	snap, err := tx.Reads().BookingByCode(ctx, code)
	if err != nil {
		return nil, u.mapBookingReadErr(err)
	}
	return snap, nil
}

func (u *bookingCommandsImpl) mapBookingReadErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrBookingNotFound
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func (u *bookingCommandsImpl) mapCarReadErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrCarNotFound
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

// notifyAsync fires the notification without tying its fate to the caller's:
// a slow or failing notifier only produces a log line.
func (u *bookingCommandsImpl) notifyAsync(topic string, view *queries.BookingView, send func(ctx context.Context, view *queries.BookingView) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := send(ctx, view); err != nil {
			u.logger.Warn("notification delivery failed", "topic", topic, "booking_code", view.Code, "error", err)
		}
	}()
}

func mapDomainErr(err error) error {
	switch err {
	case booking.ErrExpired:
		return ErrBookingExpired
	case booking.ErrInvalidDropoff:
		return errs.Mark(err, ErrInvalidDropoff)
	default:
		return errs.Mark(err, ErrInvalidTransition)
	}
}

func viewFromDomain(b *booking.Booking, now time.Time) *queries.BookingView {
	snap := &shared.BookingSnapshot{
		ID:              b.ID(),
		Code:            b.Code(),
		CarID:           b.CarID(),
		PickupDate:      b.Dates().Pickup(),
		DropoffDate:     b.Dates().Dropoff(),
		PickupBranchID:  b.PickupBranchID(),
		DropoffBranchID: b.DropoffBranchID(),
		TotalPriceCents: b.TotalPrice().Cents(),
		Status:          b.Status(),
		PaymentStatus:   b.PaymentStatus(),
		PaymentRef:      b.PaymentRef(),
		ExpiresAt:       b.ExpiresAt(),
		Version:         b.Version(),
		OriginalDropoff: b.OriginalDropoff(),
		AdminRead:       b.AdminRead(),
		AuditNote:       b.AuditNote(),
		Customer:        b.Customer(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	return queries.NewBookingView(snap, now)
}
