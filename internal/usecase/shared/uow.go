package shared

import (
	"context"
	"time"

	"carbooking/internal/domain/booking"

	"github.com/google/uuid"
)

// UnitOfWork scopes repository work to a single transaction.
//
// WithinSerializable must be used for the read-check-then-write sequences
// exposed to the double-booking race (create, extend): the conflicting row
// does not yet exist at check time for a competing transaction, so row locks
// cannot help — only true serializable isolation does. Pure status
// transitions rely on version compare-and-swap and run under Within.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Cars() CarRepository
	Reads() CommandReads
}

type BookingRepository interface {
	Insert(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	// UpdateConditional applies the patch and bumps version by exactly 1.
	// When expectedVersion is non-nil the update matches (id, version) and
	// the returned row count disambiguates conflict from absence.
	UpdateConditional(ctx context.Context, id uuid.UUID, expectedVersion *int32, patch BookingPatch) (int64, error)
	// ExistsConflict checks the half-open overlap predicate against all
	// occupying, non-logically-expired bookings for the car.
	ExistsConflict(ctx context.Context, carID uuid.UUID, pickup, dropoff time.Time, excludeID *uuid.UUID, now time.Time) (bool, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	// CancelIfExpired performs the lazy single-row expiry correction.
	CancelIfExpired(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	// CancelExpired is the bulk sweep counterpart; idempotent.
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
}

type CarRepository interface {
	UpdateConditional(ctx context.Context, id uuid.UUID, expectedVersion int32, patch CarPatch) (int64, error)
}

// CommandReads are write-side snapshot lookups used in command validation.
type CommandReads interface {
	CarByID(ctx context.Context, id uuid.UUID) (*CarSnapshot, error)
	BranchByID(ctx context.Context, id uuid.UUID) (*BranchSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	BookingByCode(ctx context.Context, code string) (*BookingSnapshot, error)
}
