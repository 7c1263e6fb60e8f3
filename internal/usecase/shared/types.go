package shared

import (
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/domain/car"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types (CQRS separation)

type CarSnapshot struct {
	ID              uuid.UUID
	DailyPriceCents int64
	Status          car.Status
	BranchID        uuid.UUID
	Version         int32
}

type BranchSnapshot struct {
	ID   uuid.UUID
	Name string
}

type BookingSnapshot struct {
	ID              uuid.UUID
	Code            string
	CarID           uuid.UUID
	PickupDate      time.Time
	DropoffDate     time.Time
	PickupBranchID  uuid.UUID
	DropoffBranchID uuid.UUID
	TotalPriceCents int64
	Status          booking.Status
	PaymentStatus   booking.PaymentStatus
	PaymentRef      *string
	ExpiresAt       *time.Time
	Version         int32
	OriginalDropoff *time.Time
	AdminRead       bool
	AuditNote       *string
	Customer        booking.Customer
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ToDomain reconstructs the entity for transition logic.
func (s *BookingSnapshot) ToDomain() *booking.Booking {
	return booking.Reconstruct(
		s.ID,
		s.Code,
		s.CarID,
		booking.NewDateRange(s.PickupDate, s.DropoffDate),
		s.PickupBranchID,
		s.DropoffBranchID,
		booking.NewMoney(s.TotalPriceCents),
		s.Status,
		s.PaymentStatus,
		s.PaymentRef,
		s.ExpiresAt,
		s.Version,
		s.OriginalDropoff,
		s.AdminRead,
		s.AuditNote,
		s.Customer,
		s.CreatedAt,
		s.UpdatedAt,
	)
}

// BookingPatch carries only the columns a transition touches; nil fields are
// left untouched by the conditional update.
type BookingPatch struct {
	Status          *booking.Status
	PaymentStatus   *booking.PaymentStatus
	PaymentRef      *string
	PickupDate      *time.Time
	DropoffDate     *time.Time
	TotalPriceCents *int64
	OriginalDropoff *time.Time
	AdminRead       *bool
	AuditNote       *string
}

type CarPatch struct {
	Status   *car.Status
	BranchID *uuid.UUID
}
