package commands

import (
	"context"
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/usecase/queries"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports.go -package=commandsmock

// Notifier delivers customer-facing notifications. Calls are fire-and-forget
// from the lifecycle's point of view: failures are logged, never surfaced,
// never allowed to block a transition.
type Notifier interface {
	BookingConfirmed(ctx context.Context, view *queries.BookingView) error
	BookingExtended(ctx context.Context, view *queries.BookingView) error
	PaymentReceived(ctx context.Context, view *queries.BookingView) error
}

type CreateBookingInput struct {
	CarID           uuid.UUID
	PickupBranchID  uuid.UUID
	DropoffBranchID uuid.UUID
	PickupDate      time.Time
	DropoffDate     time.Time
	Customer        booking.Customer
}

// CreateManualBookingInput carries no pickup branch: a walk-in booking always
// picks up at the car's home branch.
type CreateManualBookingInput struct {
	CarID           uuid.UUID
	DropoffBranchID uuid.UUID
	PickupDate      time.Time
	DropoffDate     time.Time
	Customer        booking.Customer
	// StartNow activates the booking immediately when the pickup day has arrived.
	StartNow bool
}

type UpdateDatesInput struct {
	PickupDate  time.Time
	DropoffDate time.Time
	Note        string
}
