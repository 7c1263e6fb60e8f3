package booking

import "errors"

// Money is an exact amount in integer cents. Pricing feeds billing, so no
// floating-point arithmetic is allowed anywhere in this package.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) MulDays(days int) Money {
	return Money{cents: m.cents * int64(days)}
}

func (m Money) IsNegative() bool {
	return m.cents < 0
}
