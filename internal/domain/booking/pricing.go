package booking

import "time"

// TotalPrice computes dailyRate × whole-day span for a normalized range.
// Deterministic and pure.
func TotalPrice(dailyRate Money, r DateRange) Money {
	return dailyRate.MulDays(r.Days())
}

// ExtensionPrice computes only the incremental charge for pushing a dropoff
// out to newDropoff. Extensions never recompute the full total, so a rate
// change after the original booking does not reprice the already-billed span.
func ExtensionPrice(dailyRate Money, currentDropoff, newDropoff time.Time) Money {
	added := Days(currentDropoff, newDropoff)
	return dailyRate.MulDays(added)
}
