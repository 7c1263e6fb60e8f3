package builder

import (
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingBuilder assembles booking snapshots for tests. Defaults describe a
// freshly created, unpaid public reservation.
type BookingBuilder struct {
	snapshot shared.BookingSnapshot
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	expires := now.Add(10 * time.Minute)
	return &BookingBuilder{
		snapshot: shared.BookingSnapshot{
			ID:              uuid.New(),
			Code:            "BKTEST01",
			CarID:           uuid.New(),
			PickupDate:      time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			DropoffDate:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			PickupBranchID:  uuid.New(),
			DropoffBranchID: uuid.New(),
			TotalPriceCents: 500000,
			Status:          booking.StatusReserved,
			PaymentStatus:   booking.PaymentUnpaid,
			ExpiresAt:       &expires,
			Version:         1,
			AdminRead:       true,
			Customer: booking.Customer{
				Name:       "Ada",
				Surname:    "Lovelace",
				Phone:      "+15550100",
				Email:      "ada@example.com",
				NationalID: "12345678901",
				LicenseNo:  "D-9876",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.snapshot.ID = id
	return b
}

func (b *BookingBuilder) WithCode(code string) *BookingBuilder {
	b.snapshot.Code = code
	return b
}

func (b *BookingBuilder) WithCarID(id uuid.UUID) *BookingBuilder {
	b.snapshot.CarID = id
	return b
}

func (b *BookingBuilder) WithDates(pickup, dropoff time.Time) *BookingBuilder {
	b.snapshot.PickupDate = booking.NormalizeDay(pickup)
	b.snapshot.DropoffDate = booking.NormalizeDay(dropoff)
	return b
}

func (b *BookingBuilder) WithBranches(pickup, dropoff uuid.UUID) *BookingBuilder {
	b.snapshot.PickupBranchID = pickup
	b.snapshot.DropoffBranchID = dropoff
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.snapshot.Status = status
	return b
}

func (b *BookingBuilder) WithPayment(status booking.PaymentStatus) *BookingBuilder {
	b.snapshot.PaymentStatus = status
	return b
}

func (b *BookingBuilder) WithTotalPriceCents(cents int64) *BookingBuilder {
	b.snapshot.TotalPriceCents = cents
	return b
}

func (b *BookingBuilder) WithExpiresAt(t *time.Time) *BookingBuilder {
	b.snapshot.ExpiresAt = t
	return b
}

func (b *BookingBuilder) WithVersion(v int32) *BookingBuilder {
	b.snapshot.Version = v
	return b
}

func (b *BookingBuilder) WithPhone(phone string) *BookingBuilder {
	b.snapshot.Customer.Phone = phone
	return b
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	snap := b.snapshot
	return &snap
}

func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return b.BuildSnapshot().ToDomain()
}
