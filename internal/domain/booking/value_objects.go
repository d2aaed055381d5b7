package booking

import (
	"fmt"
	"time"

	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"
)

var (
	ErrInvalidStayPeriod = errs.New("check-out must be after check-in")
	ErrNegativeAmount    = errs.New("amount cannot be negative")
)

// StayPeriod is the half-open [checkIn, checkOut) date interval of a stay.
// Check-out day is exclusive: a departure and an arrival on the same date do
// not conflict.
type StayPeriod struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayPeriod(checkIn, checkOut time.Time) (StayPeriod, error) {
	checkIn = clock.DateOf(checkIn)
	checkOut = clock.DateOf(checkOut)
	if !checkOut.After(checkIn) {
		return StayPeriod{}, ErrInvalidStayPeriod
	}
	return StayPeriod{checkIn: checkIn, checkOut: checkOut}, nil
}

func (p StayPeriod) CheckIn() time.Time {
	return p.checkIn
}

func (p StayPeriod) CheckOut() time.Time {
	return p.checkOut
}

// Nights counts whole days between the bounds, rounding fractional days up.
func (p StayPeriod) Nights() int {
	d := p.checkOut.Sub(p.checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Overlaps uses the half-open comparison shared with the availability index:
// a.start < b.end && b.start < a.end.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.checkIn.Before(other.checkOut) && other.checkIn.Before(p.checkOut)
}

// Contains reports whether the instant t falls inside [checkIn, checkOut).
func (p StayPeriod) Contains(t time.Time) bool {
	return !t.Before(p.checkIn) && t.Before(p.checkOut)
}

// RemainderFrom returns the sub-period [from, checkOut), used when a stay is
// transferred mid-visit. from is clamped to the period start.
func (p StayPeriod) RemainderFrom(from time.Time) (StayPeriod, error) {
	from = clock.DateOf(from)
	if from.Before(p.checkIn) {
		from = p.checkIn
	}
	return NewStayPeriod(from, p.checkOut)
}

func (p StayPeriod) String() string {
	return fmt.Sprintf("[%s,%s)", p.checkIn.Format("2006-01-02"), p.checkOut.Format("2006-01-02"))
}

// Money is an amount in the smallest currency unit.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}
