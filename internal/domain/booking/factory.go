package booking

import (
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPastCheckIn       = errs.New("check-in date is in the past")
	ErrInvalidGuestCount = errs.New("number of guests must be at least 1")
)

// RateContext is the pricing-relevant slice of a room's type at booking time.
// The quote is computed once here; later rate changes never reprice it.
type RateContext struct {
	RoomTypeID    uuid.UUID
	BaseRateCents int64
	MaxOccupancy  int
}

type RateCalculator interface {
	TotalCents(rate RateContext, period StayPeriod, numberOfGuests int) int64
}

// StandardRateCalculator quotes baseRate × nights plus a surcharge for each
// guest beyond the room type's occupancy cap. The fee is property policy and
// comes from configuration.
type StandardRateCalculator struct {
	ExtraGuestFeeCents int64
}

func NewStandardRateCalculator(extraGuestFeeCents int64) *StandardRateCalculator {
	return &StandardRateCalculator{ExtraGuestFeeCents: extraGuestFeeCents}
}

func (c *StandardRateCalculator) TotalCents(rate RateContext, period StayPeriod, numberOfGuests int) int64 {
	total := rate.BaseRateCents * int64(period.Nights())
	if extra := numberOfGuests - rate.MaxOccupancy; extra > 0 {
		total += int64(extra) * c.ExtraGuestFeeCents
	}
	return total
}

type Factory struct {
	Clock          clock.Clock
	RateCalculator RateCalculator
}

func NewFactory(c clock.Clock, rateCalculator RateCalculator) *Factory {
	return &Factory{
		Clock:          c,
		RateCalculator: rateCalculator,
	}
}

// NewBookingParams carries caller policy for booking creation. DeferPayment
// leaves the booking Pending until payment capture; AllowBackdated admits
// past check-in dates for migrations and test fixtures.
type NewBookingParams struct {
	GuestID        uuid.UUID
	RoomID         uuid.UUID
	Period         StayPeriod
	NumberOfGuests int
	DeferPayment   bool
	AllowBackdated bool
}

func (f *Factory) NewBooking(rate RateContext, params NewBookingParams) (*Booking, error) {
	if params.NumberOfGuests < 1 {
		return nil, ErrInvalidGuestCount
	}
	now := f.Clock.Now()
	if !params.AllowBackdated && params.Period.CheckIn().Before(clock.DateOf(now)) {
		return nil, ErrPastCheckIn
	}

	totalCents := f.RateCalculator.TotalCents(rate, params.Period, params.NumberOfGuests)
	total, err := NewMoney(totalCents)
	if err != nil {
		return nil, err
	}

	status := StatusConfirmed
	if params.DeferPayment {
		status = StatusPending
	}

	return &Booking{
		id:             uuid.New(),
		guestID:        params.GuestID,
		roomID:         params.RoomID,
		period:         params.Period,
		status:         status,
		totalAmount:    total,
		paymentStatus:  PaymentPending,
		numberOfGuests: params.NumberOfGuests,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// NewTransferSuccessor opens the checked-in continuation of source on a new
// room for the remaining stay. Quote and payment state carry over untouched.
func (f *Factory) NewTransferSuccessor(source *Booking, newRoomID uuid.UUID) (*Booking, error) {
	now := f.Clock.Now()
	remainder, err := source.Period().RemainderFrom(now)
	if err != nil {
		return nil, err
	}

	sourceID := source.ID()
	return &Booking{
		id:              uuid.New(),
		guestID:         source.GuestID(),
		roomID:          newRoomID,
		period:          remainder,
		status:          StatusCheckedIn,
		totalAmount:     source.TotalAmount(),
		paymentStatus:   source.PaymentStatus(),
		numberOfGuests:  source.NumberOfGuests(),
		transferredFrom: &sourceID,
		checkedInAt:     source.CheckedInAt(),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}
