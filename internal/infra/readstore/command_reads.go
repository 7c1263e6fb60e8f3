package readstore

import (
	"context"

	"carbooking/internal/domain/booking"
	"carbooking/internal/domain/car"
	"carbooking/internal/infra"
	"carbooking/internal/infra/db"
	"carbooking/internal/pkg/pgconv"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReads serves write-side snapshot lookups for command validation.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

func (r *CommandReads) CarByID(ctx context.Context, id uuid.UUID) (*shared.CarSnapshot, error) {
	var (
		carID    pgtype.UUID
		price    int64
		status   string
		branchID pgtype.UUID
		version  int32
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, daily_price_cents, status, branch_id, version FROM cars WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	).Scan(&carID, &price, &status, &branchID, &version)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find car by ID", err)
	}

	return &shared.CarSnapshot{
		ID:              uuid.UUID(carID.Bytes),
		DailyPriceCents: price,
		Status:          car.Status(status),
		BranchID:        uuid.UUID(branchID.Bytes),
		Version:         version,
	}, nil
}

func (r *CommandReads) BranchByID(ctx context.Context, id uuid.UUID) (*shared.BranchSnapshot, error) {
	var (
		branchID pgtype.UUID
		name     string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM branches WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	).Scan(&branchID, &name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("branch not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find branch by ID", err)
	}

	return &shared.BranchSnapshot{
		ID:   uuid.UUID(branchID.Bytes),
		Name: name,
	}, nil
}

const bookingSnapshotColumns = `
	id, booking_code, car_id, pickup_date, dropoff_date,
	pickup_branch_id, dropoff_branch_id, total_price_cents,
	status, payment_status, payment_ref, expires_at, version,
	original_dropoff_date, admin_read, audit_note,
	customer_name, customer_surname, customer_phone,
	customer_email, customer_national_id, customer_license_no,
	created_at, updated_at`

func (r *CommandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+bookingSnapshotColumns+` FROM bookings WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	snap, err := scanBookingSnapshot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return snap, nil
}

func (r *CommandReads) BookingByCode(ctx context.Context, code string) (*shared.BookingSnapshot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+bookingSnapshotColumns+` FROM bookings WHERE booking_code = $1`,
		code,
	)
	snap, err := scanBookingSnapshot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by code", err)
	}
	return snap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingSnapshot(row rowScanner) (*shared.BookingSnapshot, error) {
	var (
		id, carID                   pgtype.UUID
		pickupBranch, dropoffBranch pgtype.UUID
		pickupDate, dropoffDate     pgtype.Date
		originalDropoff             pgtype.Date
		paymentRef, auditNote       pgtype.Text
		expiresAt                   pgtype.Timestamptz
		createdAt, updatedAt        pgtype.Timestamptz
		code, status, payment       string
		total                       int64
		version                     int32
		adminRead                   bool
		cust                        booking.Customer
	)

	err := row.Scan(
		&id, &code, &carID, &pickupDate, &dropoffDate,
		&pickupBranch, &dropoffBranch, &total,
		&status, &payment, &paymentRef, &expiresAt, &version,
		&originalDropoff, &adminRead, &auditNote,
		&cust.Name, &cust.Surname, &cust.Phone,
		&cust.Email, &cust.NationalID, &cust.LicenseNo,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &shared.BookingSnapshot{
		ID:              uuid.UUID(id.Bytes),
		Code:            code,
		CarID:           uuid.UUID(carID.Bytes),
		PickupDate:      pgconv.DateFromPgtype(pickupDate),
		DropoffDate:     pgconv.DateFromPgtype(dropoffDate),
		PickupBranchID:  uuid.UUID(pickupBranch.Bytes),
		DropoffBranchID: uuid.UUID(dropoffBranch.Bytes),
		TotalPriceCents: total,
		Status:          booking.Status(status),
		PaymentStatus:   booking.PaymentStatus(payment),
		PaymentRef:      pgconv.StringPtrFromPgtype(paymentRef),
		ExpiresAt:       pgconv.TimePtrFromPgtype(expiresAt),
		Version:         version,
		OriginalDropoff: pgconv.DatePtrFromPgtype(originalDropoff),
		AdminRead:       adminRead,
		AuditNote:       pgconv.StringPtrFromPgtype(auditNote),
		Customer:        cust,
		CreatedAt:       pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:       pgconv.TimeFromPgtype(updatedAt),
	}, nil
}
