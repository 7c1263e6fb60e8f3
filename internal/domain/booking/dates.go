package booking

import "time"

// NormalizeDay collapses a timestamp to its UTC calendar-day boundary.
// A reservation's conflict footprint is whole-day granularity regardless of
// the hour the customer picked.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EnforceMinimumSpan guarantees every booking spans at least one billable day:
// if the normalized dropoff does not fall after the normalized pickup, it is
// pushed to the next day.
func EnforceMinimumSpan(pickup, dropoff time.Time) time.Time {
	p := NormalizeDay(pickup)
	d := NormalizeDay(dropoff)
	if !d.After(p) {
		return p.AddDate(0, 0, 1)
	}
	return d
}

// Days returns the whole calendar days between two normalized dates, minimum 1.
func Days(pickup, dropoff time.Time) int {
	p := NormalizeDay(pickup)
	d := NormalizeDay(dropoff)
	days := int(d.Sub(p) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// Overlaps reports whether two half-open day intervals [a1,a2) and [b1,b2)
// share at least one calendar day. Touching endpoints do not conflict: the
// same day can be one booking's dropoff and the next booking's pickup.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && a2.After(b1)
}

// DateRange is a normalized half-open [pickup, dropoff) day interval.
type DateRange struct {
	pickup  time.Time
	dropoff time.Time
}

// NewDateRange normalizes both ends and enforces the minimum one-day span.
func NewDateRange(pickup, dropoff time.Time) DateRange {
	p := NormalizeDay(pickup)
	return DateRange{
		pickup:  p,
		dropoff: EnforceMinimumSpan(p, dropoff),
	}
}

func (r DateRange) Pickup() time.Time  { return r.pickup }
func (r DateRange) Dropoff() time.Time { return r.dropoff }

func (r DateRange) Days() int {
	return Days(r.pickup, r.dropoff)
}

func (r DateRange) Overlaps(other DateRange) bool {
	return Overlaps(r.pickup, r.dropoff, other.pickup, other.dropoff)
}

// Contains reports whether the given normalized day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := NormalizeDay(day)
	return !d.Before(r.pickup) && d.Before(r.dropoff)
}
