package repository

import (
	"context"
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/infra"
	"carbooking/internal/infra/db"
	"carbooking/internal/pkg/pgconv"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const insertBookingSQL = `
INSERT INTO bookings (
	id, booking_code, car_id, pickup_date, dropoff_date,
	pickup_branch_id, dropoff_branch_id, total_price_cents,
	status, payment_status, payment_ref, expires_at, version,
	original_dropoff_date, admin_read, audit_note,
	customer_name, customer_surname, customer_phone,
	customer_email, customer_national_id, customer_license_no,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
	$14, $15, $16, $17, $18, $19, $20, $21, $22, now(), now()
)
RETURNING id`

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	c := b.Customer()

	var id uuid.UUID
	err := r.db.QueryRow(ctx, insertBookingSQL,
		pgconv.UUIDToPgtype(b.ID()),
		b.Code(),
		pgconv.UUIDToPgtype(b.CarID()),
		pgconv.DateToPgtype(b.Dates().Pickup()),
		pgconv.DateToPgtype(b.Dates().Dropoff()),
		pgconv.UUIDToPgtype(b.PickupBranchID()),
		pgconv.UUIDToPgtype(b.DropoffBranchID()),
		b.TotalPrice().Cents(),
		b.Status().String(),
		b.PaymentStatus().String(),
		pgconv.StringPtrToPgtype(b.PaymentRef()),
		pgconv.TimePtrToPgtype(b.ExpiresAt()),
		b.Version(),
		pgconv.DatePtrToPgtype(b.OriginalDropoff()),
		b.AdminRead(),
		pgconv.StringPtrToPgtype(b.AuditNote()),
		c.Name, c.Surname, c.Phone, c.Email, c.NationalID, c.LicenseNo,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert booking", err)
	}

	return id, nil
}

const updateBookingConditionalSQL = `
UPDATE bookings SET
	status = COALESCE($3, status),
	payment_status = COALESCE($4, payment_status),
	payment_ref = COALESCE($5, payment_ref),
	pickup_date = COALESCE($6, pickup_date),
	dropoff_date = COALESCE($7, dropoff_date),
	total_price_cents = COALESCE($8, total_price_cents),
	original_dropoff_date = COALESCE($9, original_dropoff_date),
	admin_read = COALESCE($10, admin_read),
	audit_note = COALESCE($11, audit_note),
	version = version + 1,
	updated_at = now()
WHERE id = $1 AND ($2::int4 IS NULL OR version = $2)`

// UpdateConditional bumps version by exactly 1 on every match. A zero row
// count under a non-nil expectedVersion means another writer won the race;
// the caller re-fetches to tell conflict from absence.
func (r *BookingRepository) UpdateConditional(ctx context.Context, id uuid.UUID, expectedVersion *int32, patch shared.BookingPatch) (int64, error) {
	tag, err := r.db.Exec(ctx, updateBookingConditionalSQL,
		pgconv.UUIDToPgtype(id),
		expectedVersion,
		statusPtrToText(patch.Status),
		paymentStatusPtrToText(patch.PaymentStatus),
		pgconv.StringPtrToPgtype(patch.PaymentRef),
		pgconv.DatePtrToPgtype(patch.PickupDate),
		pgconv.DatePtrToPgtype(patch.DropoffDate),
		patch.TotalPriceCents,
		pgconv.DatePtrToPgtype(patch.OriginalDropoff),
		patch.AdminRead,
		pgconv.StringPtrToPgtype(patch.AuditNote),
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to update booking", err)
	}
	return tag.RowsAffected(), nil
}

const existsConflictSQL = `
SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE car_id = $1
	  AND status IN ('RESERVED', 'ACTIVE')
	  AND NOT (status = 'RESERVED' AND payment_status = 'UNPAID'
	           AND expires_at IS NOT NULL AND expires_at < $4)
	  AND pickup_date < $3 AND dropoff_date > $2
	  AND ($5::uuid IS NULL OR id <> $5)
)`

// ExistsConflict applies half-open interval overlap: touching endpoints do
// not conflict. Logically expired unpaid reservations are excluded from the
// conflict set even before the sweep corrects them.
func (r *BookingRepository) ExistsConflict(ctx context.Context, carID uuid.UUID, pickup, dropoff time.Time, excludeID *uuid.UUID, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, existsConflictSQL,
		pgconv.UUIDToPgtype(carID),
		pgconv.DateToPgtype(pickup),
		pgconv.DateToPgtype(dropoff),
		pgconv.TimeToPgtype(now),
		pgconv.UUIDPtrToPgtype(excludeID),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking conflict", err)
	}
	return exists, nil
}

func (r *BookingRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking code", err)
	}
	return exists, nil
}

const cancelIfExpiredSQL = `
UPDATE bookings SET
	status = 'CANCELLED',
	version = version + 1,
	updated_at = now()
WHERE id = $1
  AND status = 'RESERVED' AND payment_status = 'UNPAID'
  AND expires_at IS NOT NULL AND expires_at < $2`

func (r *BookingRepository) CancelIfExpired(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, cancelIfExpiredSQL, pgconv.UUIDToPgtype(id), pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel expired booking", err)
	}
	return tag.RowsAffected(), nil
}

const cancelExpiredSQL = `
UPDATE bookings SET
	status = 'CANCELLED',
	version = version + 1,
	updated_at = now()
WHERE status = 'RESERVED' AND payment_status = 'UNPAID'
  AND expires_at IS NOT NULL AND expires_at < $1`

// CancelExpired is the bulk sweep. Re-running it over the same window is a
// no-op: corrected rows no longer match the predicate.
func (r *BookingRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, cancelExpiredSQL, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sweep expired bookings", err)
	}
	return tag.RowsAffected(), nil
}

func statusPtrToText(s *booking.Status) *string {
	if s == nil {
		return nil
	}
	v := s.String()
	return &v
}

func paymentStatusPtrToText(p *booking.PaymentStatus) *string {
	if p == nil {
		return nil
	}
	v := p.String()
	return &v
}
