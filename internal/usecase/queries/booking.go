package queries

import (
	"context"

	"carbooking/internal/pkg/clock"
)

// BookingListReader backs the capped exact-match phone lookup.
type BookingListReader interface {
	FindByPhone(ctx context.Context, phone string, limit int32) ([]BookingListRow, error)
}

type BookingQueries interface {
	LookupByPhone(ctx context.Context, phone string) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	reader BookingListReader
	limit  int32
	clock  clock.Clock
}

func NewBookingQueries(reader BookingListReader, limit int32, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{reader: reader, limit: limit, clock: clk}
}

// LookupByPhone reports the effective status per row: an expired unpaid
// reservation shows as CANCELLED even before any correction has written it.
func (q *bookingQueriesImpl) LookupByPhone(ctx context.Context, phone string) ([]*BookingListItem, error) {
	rows, err := q.reader.FindByPhone(ctx, phone, q.limit)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	items := make([]*BookingListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &BookingListItem{
			ID:          row.ID,
			Code:        row.Code,
			CarID:       row.CarID,
			PickupDate:  row.PickupDate,
			DropoffDate: row.DropoffDate,
			Status:      effectiveStatus(row.Status, row.PaymentStatus, row.ExpiresAt, now).String(),
			CreatedAt:   row.CreatedAt,
		})
	}
	return items, nil
}
