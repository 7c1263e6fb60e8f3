package queries

import (
	"context"
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/pkg/clock"
	"carbooking/internal/pkg/errs"

	"github.com/google/uuid"
)

type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayBooked    DayStatus = "booked"
)

var ErrInvalidWindow = errs.New("availability window end must be after start")

type DayAvailability struct {
	Date      time.Time  `json:"date"`
	Status    DayStatus  `json:"status"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

type AvailabilityRange struct {
	From      time.Time  `json:"from"`
	To        time.Time  `json:"to"`
	Status    DayStatus  `json:"status"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

type AvailabilityView struct {
	CarID  uuid.UUID           `json:"car_id"`
	PerDay []DayAvailability   `json:"per_day"`
	Ranges []AvailabilityRange `json:"ranges"`
}

// BookingSpanReader loads the occupying bookings whose spans intersect the
// query window.
type BookingSpanReader interface {
	ListSpansForCarInRange(ctx context.Context, carID uuid.UUID, from, to time.Time) ([]CarBookingSpan, error)
}

type AvailabilityQueries interface {
	GetAvailability(ctx context.Context, carID uuid.UUID, from, to time.Time) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	spans BookingSpanReader
	clock clock.Clock
}

func NewAvailabilityQueries(spans BookingSpanReader, clock clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{spans: spans, clock: clock}
}

func (q *availabilityQueriesImpl) GetAvailability(ctx context.Context, carID uuid.UUID, from, to time.Time) (*AvailabilityView, error) {
	start := booking.NormalizeDay(from)
	end := booking.NormalizeDay(to)
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	rows, err := q.spans.ListSpansForCarInRange(ctx, carID, start, end)
	if err != nil {
		return nil, err
	}

	view := BuildCalendar(carID, start, end, q.clock.Now(), rows)
	return &view, nil
}

// BuildCalendar walks every day in [from,to), assigns a status from the
// occupying bookings, then run-length-encodes consecutive identical
// (status, bookingID) pairs into ranges. Deterministic given the same
// snapshot; a car with zero bookings yields a fully available calendar.
func BuildCalendar(carID uuid.UUID, from, to, now time.Time, rows []CarBookingSpan) AvailabilityView {
	type daySlot struct {
		status    DayStatus
		bookingID *uuid.UUID
	}

	byDay := make(map[time.Time]daySlot)
	for i := range rows {
		row := rows[i]
		if !spanOccupies(row, now) {
			continue
		}
		r := booking.NewDateRange(row.PickupDate, row.DropoffDate)
		for d := r.Pickup(); d.Before(r.Dropoff()); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || !d.Before(to) {
				continue
			}
			id := row.BookingID
			byDay[d] = daySlot{status: DayBooked, bookingID: &id}
		}
	}

	days := int(to.Sub(from) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	perDay := make([]DayAvailability, 0, days)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		slot, ok := byDay[d]
		if !ok {
			slot = daySlot{status: DayAvailable}
		}
		perDay = append(perDay, DayAvailability{
			Date:      d,
			Status:    slot.status,
			BookingID: slot.bookingID,
		})
	}

	return AvailabilityView{
		CarID:  carID,
		PerDay: perDay,
		Ranges: compressRanges(perDay),
	}
}

func compressRanges(perDay []DayAvailability) []AvailabilityRange {
	ranges := make([]AvailabilityRange, 0)
	for _, day := range perDay {
		n := len(ranges)
		if n > 0 && ranges[n-1].Status == day.Status && sameBooking(ranges[n-1].BookingID, day.BookingID) {
			ranges[n-1].To = day.Date.AddDate(0, 0, 1)
			continue
		}
		ranges = append(ranges, AvailabilityRange{
			From:      day.Date,
			To:        day.Date.AddDate(0, 0, 1),
			Status:    day.Status,
			BookingID: day.BookingID,
		})
	}
	return ranges
}

func sameBooking(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// spanOccupies applies the logical-expiry predicate to a raw row: an expired
// unpaid reservation no longer blocks the calendar even if its status column
// has not been corrected yet.
func spanOccupies(row CarBookingSpan, now time.Time) bool {
	return effectiveStatus(row.Status, row.PaymentStatus, row.ExpiresAt, now).Occupies()
}
