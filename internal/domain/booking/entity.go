package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDropoff   = errors.New("new dropoff must be after current dropoff")
	ErrAlreadyPaid      = errors.New("booking is already paid")
	ErrExpired          = errors.New("booking payment window has expired")
	ErrNotReserved      = errors.New("booking is not in reserved state")
	ErrNotActive        = errors.New("booking is not in active state")
	ErrNotPaid          = errors.New("booking is not paid")
	ErrAlreadyTerminal  = errors.New("booking is already completed or cancelled")
	ErrNegativePrice    = errors.New("price cannot be negative")
)

// Customer fields are opaque to the lifecycle core; masking happens at the
// presentation boundary.
type Customer struct {
	Name       string
	Surname    string
	Phone      string
	Email      string
	NationalID string
	LicenseNo  string
}

type Booking struct {
	id              uuid.UUID
	code            string
	carID           uuid.UUID
	dates           DateRange
	pickupBranchID  uuid.UUID
	dropoffBranchID uuid.UUID
	totalPrice      Money
	status          Status
	paymentStatus   PaymentStatus
	paymentRef      *string
	expiresAt       *time.Time
	version         int32
	originalDropoff *time.Time
	adminRead       bool
	auditNote       *string
	customer        Customer
	createdAt       time.Time
	updatedAt       time.Time
}

// NewReserved creates a public booking: unpaid, expiring after the payment window.
func NewReserved(
	code string,
	carID uuid.UUID,
	dates DateRange,
	pickupBranchID, dropoffBranchID uuid.UUID,
	totalPrice Money,
	customer Customer,
	expiresAt time.Time,
) (*Booking, error) {
	if totalPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	exp := expiresAt
	return &Booking{
		id:              uuid.New(),
		code:            code,
		carID:           carID,
		dates:           dates,
		pickupBranchID:  pickupBranchID,
		dropoffBranchID: dropoffBranchID,
		totalPrice:      totalPrice,
		status:          StatusReserved,
		paymentStatus:   PaymentUnpaid,
		expiresAt:       &exp,
		version:         1,
		customer:        customer,
	}, nil
}

// NewManual creates an admin walk-in booking: pre-paid, no expiry window,
// immediately active when the pickup day has arrived and startNow is set.
func NewManual(
	code string,
	carID uuid.UUID,
	dates DateRange,
	pickupBranchID, dropoffBranchID uuid.UUID,
	totalPrice Money,
	customer Customer,
	startNow bool,
	now time.Time,
) (*Booking, error) {
	if totalPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	status := StatusReserved
	if startNow && !dates.Pickup().After(NormalizeDay(now)) {
		status = StatusActive
	}
	ref := fmt.Sprintf("MANUAL-%s", code)
	return &Booking{
		id:              uuid.New(),
		code:            code,
		carID:           carID,
		dates:           dates,
		pickupBranchID:  pickupBranchID,
		dropoffBranchID: dropoffBranchID,
		totalPrice:      totalPrice,
		status:          status,
		paymentStatus:   PaymentPaid,
		paymentRef:      &ref,
		version:         1,
		customer:        customer,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	code string,
	carID uuid.UUID,
	dates DateRange,
	pickupBranchID, dropoffBranchID uuid.UUID,
	totalPrice Money,
	status Status,
	paymentStatus PaymentStatus,
	paymentRef *string,
	expiresAt *time.Time,
	version int32,
	originalDropoff *time.Time,
	adminRead bool,
	auditNote *string,
	customer Customer,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		code:            code,
		carID:           carID,
		dates:           dates,
		pickupBranchID:  pickupBranchID,
		dropoffBranchID: dropoffBranchID,
		totalPrice:      totalPrice,
		status:          status,
		paymentStatus:   paymentStatus,
		paymentRef:      paymentRef,
		expiresAt:       expiresAt,
		version:         version,
		originalDropoff: originalDropoff,
		adminRead:       adminRead,
		auditNote:       auditNote,
		customer:        customer,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// IsExpired is the logical-expiry predicate: a reserved, unpaid booking whose
// payment window has elapsed is cancelled for all business purposes even
// before the stored status column catches up. Every read path must consult
// this, not the raw column.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.status == StatusReserved &&
		b.paymentStatus == PaymentUnpaid &&
		b.expiresAt != nil &&
		now.After(*b.expiresAt)
}

// EffectiveStatus collapses logical expiry into the status the caller should see.
func (b *Booking) EffectiveStatus(now time.Time) Status {
	if b.IsExpired(now) {
		return StatusCancelled
	}
	return b.status
}

// Occupies reports whether the booking blocks the car for its date span.
func (b *Booking) Occupies(now time.Time) bool {
	return b.EffectiveStatus(now).Occupies()
}

// Pay settles the reservation. Expired reservations cannot be paid; the lazy
// correction cancels them instead.
func (b *Booking) Pay(now time.Time, paymentRef string) error {
	if b.IsExpired(now) {
		return ErrExpired
	}
	if b.paymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	if b.status != StatusReserved {
		return ErrNotReserved
	}
	b.paymentStatus = PaymentPaid
	b.paymentRef = &paymentRef
	b.adminRead = false // re-surface for the admin notification feed
	return nil
}

// Extend pushes the dropoff out and adds only the incremental charge for the
// added span. The pre-extension dropoff is captured once for audit.
func (b *Booking) Extend(newDropoff time.Time, dailyRate Money, now time.Time) error {
	if b.IsExpired(now) {
		return ErrExpired
	}
	if !b.status.Occupies() {
		return ErrAlreadyTerminal
	}
	nd := NormalizeDay(newDropoff)
	if !nd.After(b.dates.Dropoff()) {
		return ErrInvalidDropoff
	}
	if b.originalDropoff == nil {
		orig := b.dates.Dropoff()
		b.originalDropoff = &orig
	}
	b.totalPrice = b.totalPrice.Add(ExtensionPrice(dailyRate, b.dates.Dropoff(), nd))
	b.dates = DateRange{pickup: b.dates.Pickup(), dropoff: nd}
	return nil
}

// Start moves a paid reservation into the active rental period.
func (b *Booking) Start() error {
	if b.status != StatusReserved {
		return ErrNotReserved
	}
	if b.paymentStatus != PaymentPaid {
		return ErrNotPaid
	}
	b.status = StatusActive
	return nil
}

// Complete closes out an active rental.
func (b *Booking) Complete() error {
	if b.status != StatusActive {
		return ErrNotActive
	}
	b.status = StatusCompleted
	return nil
}

// Cancel is valid from any non-terminal state. Re-cancelling an already
// cancelled booking is a no-op, which keeps the expiry sweep and admin
// retries idempotent.
func (b *Booking) Cancel() error {
	if b.status == StatusCompleted {
		return ErrAlreadyTerminal
	}
	b.status = StatusCancelled
	return nil
}

// UpdateDates replaces the whole span and recomputes the total from scratch.
// This is deliberately a different pricing policy from Extend.
func (b *Booking) UpdateDates(dates DateRange, dailyRate Money, note string) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	b.dates = dates
	b.totalPrice = TotalPrice(dailyRate, dates)
	b.appendAuditNote(note)
	return nil
}

func (b *Booking) appendAuditNote(note string) {
	if note == "" {
		return
	}
	if b.auditNote == nil {
		b.auditNote = &note
		return
	}
	combined := *b.auditNote + "\n" + note
	b.auditNote = &combined
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) Code() string               { return b.code }
func (b *Booking) CarID() uuid.UUID           { return b.carID }
func (b *Booking) Dates() DateRange           { return b.dates }
func (b *Booking) PickupBranchID() uuid.UUID  { return b.pickupBranchID }
func (b *Booking) DropoffBranchID() uuid.UUID { return b.dropoffBranchID }
func (b *Booking) TotalPrice() Money          { return b.totalPrice }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus {
	return b.paymentStatus
}
func (b *Booking) PaymentRef() *string         { return b.paymentRef }
func (b *Booking) ExpiresAt() *time.Time       { return b.expiresAt }
func (b *Booking) Version() int32              { return b.version }
func (b *Booking) OriginalDropoff() *time.Time { return b.originalDropoff }
func (b *Booking) AdminRead() bool             { return b.adminRead }
func (b *Booking) AuditNote() *string          { return b.auditNote }
func (b *Booking) Customer() Customer          { return b.customer }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
