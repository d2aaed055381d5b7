//go:build unit || e2e

package builder

import (
	"time"

	"stayops/internal/usecase/commands"

	"github.com/google/uuid"
)

// Date is shorthand for a UTC-midnight calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type BookingParamsBuilder struct {
	GuestID        uuid.UUID
	RoomID         uuid.UUID
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfGuests int
	DeferPayment   bool
	AllowBackdated bool
}

func NewBookingParamsBuilder(roomID uuid.UUID) *BookingParamsBuilder {
	return &BookingParamsBuilder{
		GuestID:        uuid.New(),
		RoomID:         roomID,
		CheckIn:        Date(2025, 6, 10),
		CheckOut:       Date(2025, 6, 13),
		NumberOfGuests: 2,
	}
}

func (b *BookingParamsBuilder) With(mutate func(*BookingParamsBuilder)) *BookingParamsBuilder {
	mutate(b)
	return b
}

func (b *BookingParamsBuilder) Build() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		GuestID:        b.GuestID,
		RoomID:         b.RoomID,
		CheckIn:        b.CheckIn,
		CheckOut:       b.CheckOut,
		NumberOfGuests: b.NumberOfGuests,
		DeferPayment:   b.DeferPayment,
		AllowBackdated: b.AllowBackdated,
	}
}
