//go:build unit

package fake_test

import (
	"context"
	"testing"

	"carbooking/internal/domain/booking"
	"carbooking/internal/pkg/errs"
	"carbooking/internal/usecase/shared"
	"carbooking/tests/common/builder"
	"carbooking/tests/common/fake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Within(t *testing.T) {
	t.Run("commits writes when the function returns nil", func(t *testing.T) {
		store := fake.NewStore()
		snap := builder.NewBookingBuilder().BuildSnapshot()
		store.AddBooking(*snap)

		err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			cancelled := booking.StatusCancelled
			_, err := tx.Bookings().UpdateConditional(ctx, snap.ID, nil, shared.BookingPatch{Status: &cancelled})
			return err
		})
		require.NoError(t, err)

		stored := store.Booking(snap.ID)
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusCancelled, stored.Status)
	})

	t.Run("discards writes when the function returns an error", func(t *testing.T) {
		store := fake.NewStore()
		snap := builder.NewBookingBuilder().BuildSnapshot()
		store.AddBooking(*snap)

		boom := errs.New("boom")
		err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			cancelled := booking.StatusCancelled
			if _, err := tx.Bookings().UpdateConditional(ctx, snap.ID, nil, shared.BookingPatch{Status: &cancelled}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		stored := store.Booking(snap.ID)
		require.NotNil(t, stored)
		assert.Equal(t, snap.Status, stored.Status)
		assert.Equal(t, snap.Version, stored.Version)
	})

	t.Run("discards inserts when the function returns an error", func(t *testing.T) {
		store := fake.NewStore()

		b := builder.NewBookingBuilder().BuildDomain()
		boom := errs.New("boom")
		err := store.WithinSerializable(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			if _, err := tx.Bookings().Insert(ctx, b); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Nil(t, store.Booking(b.ID()))
	})
}
