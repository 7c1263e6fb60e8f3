package fake

import (
	"context"
	"sync"
	"time"

	"carbooking/internal/domain/booking"
	"carbooking/internal/infra"
	"carbooking/internal/usecase/queries"
	"carbooking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store is an in-memory stand-in for the postgres unit of work. Transactions
// are serialized by a mutex, which gives the serializable guarantees the
// real store provides for create/extend, and run against a scratch copy that
// is committed only when the transaction function returns nil — an error
// rolls everything back, matching the real store.
type Store struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*shared.BookingSnapshot
	cars     map[uuid.UUID]*shared.CarSnapshot
	branches map[uuid.UUID]*shared.BranchSnapshot
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[uuid.UUID]*shared.BookingSnapshot),
		cars:     make(map[uuid.UUID]*shared.CarSnapshot),
		branches: make(map[uuid.UUID]*shared.BranchSnapshot),
	}
}

func (s *Store) AddCar(snap shared.CarSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cars[snap.ID] = &snap
}

func (s *Store) AddBranch(snap shared.BranchSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[snap.ID] = &snap
}

func (s *Store) AddBooking(snap shared.BookingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[snap.ID] = &snap
}

func (s *Store) Booking(id uuid.UUID) *shared.BookingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.bookings[id]; ok {
		c := *snap
		return &c
	}
	return nil
}

func (s *Store) Car(id uuid.UUID) *shared.CarSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.cars[id]; ok {
		c := *snap
		return &c
	}
	return nil
}

// ---- shared.UnitOfWork ----

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.snapshotState()
	if err := fn(ctx, &fakeTx{state: scratch}); err != nil {
		return err
	}
	s.bookings = scratch.bookings
	s.cars = scratch.cars
	s.branches = scratch.branches
	return nil
}

func (s *Store) WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.Within(ctx, fn)
}

// txState is the scratch copy a transaction mutates. Snapshots are copied by
// value; patches replace pointer fields wholesale, so aliasing is harmless.
type txState struct {
	bookings map[uuid.UUID]*shared.BookingSnapshot
	cars     map[uuid.UUID]*shared.CarSnapshot
	branches map[uuid.UUID]*shared.BranchSnapshot
}

func (s *Store) snapshotState() *txState {
	st := &txState{
		bookings: make(map[uuid.UUID]*shared.BookingSnapshot, len(s.bookings)),
		cars:     make(map[uuid.UUID]*shared.CarSnapshot, len(s.cars)),
		branches: make(map[uuid.UUID]*shared.BranchSnapshot, len(s.branches)),
	}
	for id, snap := range s.bookings {
		c := *snap
		st.bookings[id] = &c
	}
	for id, snap := range s.cars {
		c := *snap
		st.cars[id] = &c
	}
	for id, snap := range s.branches {
		c := *snap
		st.branches[id] = &c
	}
	return st
}

type fakeTx struct {
	state *txState
}

func (t *fakeTx) Bookings() shared.BookingRepository {
	return &fakeBookingRepo{state: t.state}
}

func (t *fakeTx) Cars() shared.CarRepository {
	return &fakeCarRepo{state: t.state}
}

func (t *fakeTx) Reads() shared.CommandReads {
	return &fakeReads{state: t.state}
}

// ---- shared.BookingRepository ----

type fakeBookingRepo struct {
	state *txState
}

func (r *fakeBookingRepo) Insert(_ context.Context, b *booking.Booking) (uuid.UUID, error) {
	for _, existing := range r.state.bookings {
		if existing.Code == b.Code() {
			return uuid.Nil, infra.NewRepoErr("duplicate booking code", infra.KindDuplicateKey)
		}
	}
	snap := &shared.BookingSnapshot{
		ID:              b.ID(),
		Code:            b.Code(),
		CarID:           b.CarID(),
		PickupDate:      b.Dates().Pickup(),
		DropoffDate:     b.Dates().Dropoff(),
		PickupBranchID:  b.PickupBranchID(),
		DropoffBranchID: b.DropoffBranchID(),
		TotalPriceCents: b.TotalPrice().Cents(),
		Status:          b.Status(),
		PaymentStatus:   b.PaymentStatus(),
		PaymentRef:      b.PaymentRef(),
		ExpiresAt:       b.ExpiresAt(),
		Version:         b.Version(),
		OriginalDropoff: b.OriginalDropoff(),
		AdminRead:       b.AdminRead(),
		AuditNote:       b.AuditNote(),
		Customer:        b.Customer(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	r.state.bookings[snap.ID] = snap
	return snap.ID, nil
}

func (r *fakeBookingRepo) UpdateConditional(_ context.Context, id uuid.UUID, expectedVersion *int32, patch shared.BookingPatch) (int64, error) {
	snap, ok := r.state.bookings[id]
	if !ok {
		return 0, nil
	}
	if expectedVersion != nil && snap.Version != *expectedVersion {
		return 0, nil
	}
	if patch.Status != nil {
		snap.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		snap.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentRef != nil {
		snap.PaymentRef = patch.PaymentRef
	}
	if patch.PickupDate != nil {
		snap.PickupDate = *patch.PickupDate
	}
	if patch.DropoffDate != nil {
		snap.DropoffDate = *patch.DropoffDate
	}
	if patch.TotalPriceCents != nil {
		snap.TotalPriceCents = *patch.TotalPriceCents
	}
	if patch.OriginalDropoff != nil {
		snap.OriginalDropoff = patch.OriginalDropoff
	}
	if patch.AdminRead != nil {
		snap.AdminRead = *patch.AdminRead
	}
	if patch.AuditNote != nil {
		snap.AuditNote = patch.AuditNote
	}
	snap.Version++
	snap.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeBookingRepo) ExistsConflict(_ context.Context, carID uuid.UUID, pickup, dropoff time.Time, excludeID *uuid.UUID, now time.Time) (bool, error) {
	for _, snap := range r.state.bookings {
		if snap.CarID != carID {
			continue
		}
		if excludeID != nil && snap.ID == *excludeID {
			continue
		}
		if !snap.Status.Occupies() {
			continue
		}
		if snap.ToDomain().IsExpired(now) {
			continue
		}
		if booking.Overlaps(snap.PickupDate, snap.DropoffDate, pickup, dropoff) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) IsCodeTaken(_ context.Context, code string) (bool, error) {
	for _, snap := range r.state.bookings {
		if snap.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) CancelIfExpired(_ context.Context, id uuid.UUID, now time.Time) (int64, error) {
	snap, ok := r.state.bookings[id]
	if !ok || !snap.ToDomain().IsExpired(now) {
		return 0, nil
	}
	snap.Status = booking.StatusCancelled
	snap.Version++
	snap.UpdatedAt = now
	return 1, nil
}

func (r *fakeBookingRepo) CancelExpired(_ context.Context, now time.Time) (int64, error) {
	var affected int64
	for _, snap := range r.state.bookings {
		if snap.ToDomain().IsExpired(now) {
			snap.Status = booking.StatusCancelled
			snap.Version++
			snap.UpdatedAt = now
			affected++
		}
	}
	return affected, nil
}

// ---- shared.CarRepository ----

type fakeCarRepo struct {
	state *txState
}

func (r *fakeCarRepo) UpdateConditional(_ context.Context, id uuid.UUID, expectedVersion int32, patch shared.CarPatch) (int64, error) {
	snap, ok := r.state.cars[id]
	if !ok || snap.Version != expectedVersion {
		return 0, nil
	}
	if patch.Status != nil {
		snap.Status = *patch.Status
	}
	if patch.BranchID != nil {
		snap.BranchID = *patch.BranchID
	}
	snap.Version++
	return 1, nil
}

// ---- shared.CommandReads ----

type fakeReads struct {
	state *txState
}

func (r *fakeReads) CarByID(_ context.Context, id uuid.UUID) (*shared.CarSnapshot, error) {
	snap, ok := r.state.cars[id]
	if !ok {
		return nil, infra.NewRepoErr("car not found", infra.KindNotFound)
	}
	c := *snap
	return &c, nil
}

func (r *fakeReads) BranchByID(_ context.Context, id uuid.UUID) (*shared.BranchSnapshot, error) {
	snap, ok := r.state.branches[id]
	if !ok {
		return nil, infra.NewRepoErr("branch not found", infra.KindNotFound)
	}
	c := *snap
	return &c, nil
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	snap, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.NewRepoErr("booking not found", infra.KindNotFound)
	}
	c := *snap
	return &c, nil
}

func (r *fakeReads) BookingByCode(_ context.Context, code string) (*shared.BookingSnapshot, error) {
	for _, snap := range r.state.bookings {
		if snap.Code == code {
			c := *snap
			return &c, nil
		}
	}
	return nil, infra.NewRepoErr("booking not found", infra.KindNotFound)
}

// ---- queries read ports ----

func (s *Store) ListSpansForCarInRange(_ context.Context, carID uuid.UUID, from, to time.Time) ([]queries.CarBookingSpan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	spans := make([]queries.CarBookingSpan, 0)
	for _, snap := range s.bookings {
		if snap.CarID != carID || !snap.Status.Occupies() {
			continue
		}
		if !booking.Overlaps(snap.PickupDate, snap.DropoffDate, from, to) {
			continue
		}
		spans = append(spans, queries.CarBookingSpan{
			BookingID:     snap.ID,
			PickupDate:    snap.PickupDate,
			DropoffDate:   snap.DropoffDate,
			Status:        snap.Status.String(),
			PaymentStatus: snap.PaymentStatus.String(),
			ExpiresAt:     snap.ExpiresAt,
		})
	}
	return spans, nil
}

func (s *Store) FindByPhone(_ context.Context, phone string, limit int32) ([]queries.BookingListRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]queries.BookingListRow, 0)
	for _, snap := range s.bookings {
		if snap.Customer.Phone != phone {
			continue
		}
		rows = append(rows, queries.BookingListRow{
			ID:            snap.ID,
			Code:          snap.Code,
			CarID:         snap.CarID,
			PickupDate:    snap.PickupDate,
			DropoffDate:   snap.DropoffDate,
			Status:        snap.Status.String(),
			PaymentStatus: snap.PaymentStatus.String(),
			ExpiresAt:     snap.ExpiresAt,
			CreatedAt:     snap.CreatedAt,
		})
		if int32(len(rows)) >= limit {
			break
		}
	}
	return rows, nil
}
