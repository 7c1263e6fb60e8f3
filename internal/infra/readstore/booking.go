package readstore

import (
	"context"
	"time"

	"carbooking/internal/infra"
	"carbooking/internal/infra/db"
	"carbooking/internal/pkg/pgconv"
	"carbooking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingReadStore backs the read-side queries: availability projection and
// the capped phone lookup.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const listSpansSQL = `
SELECT id, pickup_date, dropoff_date, status, payment_status, expires_at
FROM bookings
WHERE car_id = $1
  AND status IN ('RESERVED', 'ACTIVE')
  AND pickup_date < $3 AND dropoff_date > $2
ORDER BY pickup_date, id`

// ListSpansForCarInRange returns occupying candidates clipped to the window.
// The logical-expiry predicate is applied by the projection, not here, so the
// caller decides "now".
func (r *BookingReadStore) ListSpansForCarInRange(ctx context.Context, carID uuid.UUID, from, to time.Time) ([]queries.CarBookingSpan, error) {
	rows, err := r.db.Query(ctx, listSpansSQL,
		pgconv.UUIDToPgtype(carID),
		pgconv.DateToPgtype(from),
		pgconv.DateToPgtype(to),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking spans", err)
	}
	defer rows.Close()

	spans := make([]queries.CarBookingSpan, 0)
	for rows.Next() {
		var (
			id                      pgtype.UUID
			pickupDate, dropoffDate pgtype.Date
			status, payment         string
			expiresAt               pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &pickupDate, &dropoffDate, &status, &payment, &expiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking span", err)
		}
		spans = append(spans, queries.CarBookingSpan{
			BookingID:     uuid.UUID(id.Bytes),
			PickupDate:    pgconv.DateFromPgtype(pickupDate),
			DropoffDate:   pgconv.DateFromPgtype(dropoffDate),
			Status:        status,
			PaymentStatus: payment,
			ExpiresAt:     pgconv.TimePtrFromPgtype(expiresAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking spans", err)
	}

	return spans, nil
}

const findByPhoneSQL = `
SELECT id, booking_code, car_id, pickup_date, dropoff_date, status, payment_status, expires_at, created_at
FROM bookings
WHERE customer_phone = $1
ORDER BY created_at DESC, id
LIMIT $2`

// FindByPhone is an exact-match lookup, capped to keep the result bounded.
// Payment and expiry columns ride along so the query layer can collapse
// logical expiry instead of trusting the stored status.
func (r *BookingReadStore) FindByPhone(ctx context.Context, phone string, limit int32) ([]queries.BookingListRow, error) {
	rows, err := r.db.Query(ctx, findByPhoneSQL, phone, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by phone", err)
	}
	defer rows.Close()

	list := make([]queries.BookingListRow, 0)
	for rows.Next() {
		var (
			id, carID               pgtype.UUID
			code, status, payment   string
			pickupDate, dropoffDate pgtype.Date
			expiresAt               pgtype.Timestamptz
			createdAt               pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &code, &carID, &pickupDate, &dropoffDate, &status, &payment, &expiresAt, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		list = append(list, queries.BookingListRow{
			ID:            uuid.UUID(id.Bytes),
			Code:          code,
			CarID:         uuid.UUID(carID.Bytes),
			PickupDate:    pgconv.DateFromPgtype(pickupDate),
			DropoffDate:   pgconv.DateFromPgtype(dropoffDate),
			Status:        status,
			PaymentStatus: payment,
			ExpiresAt:     pgconv.TimePtrFromPgtype(expiresAt),
			CreatedAt:     pgconv.TimeFromPgtype(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings by phone", err)
	}

	return list, nil
}
