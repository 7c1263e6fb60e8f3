package queries

import (
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingView represents read-optimized booking data
type BookingView struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	CarID           uuid.UUID  `json:"car_id"`
	PickupDate      time.Time  `json:"pickup_date"`
	DropoffDate     time.Time  `json:"dropoff_date"`
	PickupBranchID  uuid.UUID  `json:"pickup_branch_id"`
	DropoffBranchID uuid.UUID  `json:"dropoff_branch_id"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	PaymentRef      *string    `json:"payment_ref,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	Version         int32      `json:"version"`
	OriginalDropoff *time.Time `json:"original_dropoff_date,omitempty"`
	CustomerName    string     `json:"customer_name"`
	CustomerSurname string     `json:"customer_surname"`
	CustomerPhone   string     `json:"customer_phone"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewBookingView projects a write-side snapshot into the caller-facing view,
// collapsing logical expiry into the visible status.
func NewBookingView(s *shared.BookingSnapshot, now time.Time) *BookingView {
	return &BookingView{
		ID:              s.ID,
		Code:            s.Code,
		CarID:           s.CarID,
		PickupDate:      s.PickupDate,
		DropoffDate:     s.DropoffDate,
		PickupBranchID:  s.PickupBranchID,
		DropoffBranchID: s.DropoffBranchID,
		TotalPriceCents: s.TotalPriceCents,
		Status:          s.ToDomain().EffectiveStatus(now).String(),
		PaymentStatus:   s.PaymentStatus.String(),
		PaymentRef:      s.PaymentRef,
		ExpiresAt:       s.ExpiresAt,
		Version:         s.Version,
		OriginalDropoff: s.OriginalDropoff,
		CustomerName:    s.Customer.Name,
		CustomerSurname: s.Customer.Surname,
		CustomerPhone:   s.Customer.Phone,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// BookingListItem is the compact row returned by list lookups
type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	CarID       uuid.UUID `json:"car_id"`
	PickupDate  time.Time `json:"pickup_date"`
	DropoffDate time.Time `json:"dropoff_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingListRow is the raw store row behind list lookups. It carries the
// payment and expiry columns so the projection can collapse logical expiry
// instead of trusting the stored status.
type BookingListRow struct {
	ID            uuid.UUID
	Code          string
	CarID         uuid.UUID
	PickupDate    time.Time
	DropoffDate   time.Time
	Status        string
	PaymentStatus string
	ExpiresAt     *time.Time
	CreatedAt     time.Time
}

// CarBookingSpan is the minimal projection of a booking needed for overlap
// and availability math.
type CarBookingSpan struct {
	BookingID     uuid.UUID
	PickupDate    time.Time
	DropoffDate   time.Time
	Status        string
	PaymentStatus string
	ExpiresAt     *time.Time
}

// effectiveStatus collapses logical expiry for raw store rows, mirroring
// Booking.EffectiveStatus without reconstructing the whole entity.
func effectiveStatus(status, paymentStatus string, expiresAt *time.Time, now time.Time) booking.Status {
	s := booking.Status(status)
	if s == booking.StatusReserved &&
		booking.PaymentStatus(paymentStatus) == booking.PaymentUnpaid &&
		expiresAt != nil && now.After(*expiresAt) {
		return booking.StatusCancelled
	}
	return s
}
