package booking

import (
	"time"

	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatusChange  = errs.New("invalid booking status change")
	ErrCheckInOutsideWindow = errs.New("today is outside the booking's stay period")
	ErrNoShowTooEarly       = errs.New("check-in date has not passed yet")
)

// Booking assigns a guest to a room over a stay period. Only the lifecycle
// methods below mutate state; the room reference never changes in place — a
// transfer closes this booking and opens a new one.
type Booking struct {
	id              uuid.UUID
	guestID         uuid.UUID
	roomID          uuid.UUID
	period          StayPeriod
	status          Status
	totalAmount     Money
	paymentStatus   PaymentStatus
	numberOfGuests  int
	transferredFrom *uuid.UUID
	transferredTo   *uuid.UUID
	checkedInAt     *time.Time
	checkedOutAt    *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func ReconstructBooking(
	id, guestID, roomID uuid.UUID,
	period StayPeriod,
	status Status,
	totalAmount Money,
	paymentStatus PaymentStatus,
	numberOfGuests int,
	transferredFrom, transferredTo *uuid.UUID,
	checkedInAt, checkedOutAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		guestID:         guestID,
		roomID:          roomID,
		period:          period,
		status:          status,
		totalAmount:     totalAmount,
		paymentStatus:   paymentStatus,
		numberOfGuests:  numberOfGuests,
		transferredFrom: transferredFrom,
		transferredTo:   transferredTo,
		checkedInAt:     checkedInAt,
		checkedOutAt:    checkedOutAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) GuestID() uuid.UUID           { return b.guestID }
func (b *Booking) RoomID() uuid.UUID            { return b.roomID }
func (b *Booking) Period() StayPeriod           { return b.period }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) TotalAmount() Money           { return b.totalAmount }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) NumberOfGuests() int          { return b.numberOfGuests }
func (b *Booking) TransferredFrom() *uuid.UUID  { return b.transferredFrom }
func (b *Booking) TransferredTo() *uuid.UUID    { return b.transferredTo }
func (b *Booking) CheckedInAt() *time.Time      { return b.checkedInAt }
func (b *Booking) CheckedOutAt() *time.Time     { return b.checkedOutAt }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

func (b *Booking) IsTransfer() bool {
	return b.transferredFrom != nil
}

// Confirm promotes a pending booking once payment capture completes.
func (b *Booking) Confirm(now time.Time) error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidStatusChange
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return nil
}

// CheckIn requires a confirmed booking and today within the stay period.
func (b *Booking) CheckIn(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCheckedIn) {
		return ErrInvalidStatusChange
	}
	if !b.period.Contains(clock.DateOf(now)) {
		return ErrCheckInOutsideWindow
	}
	b.status = StatusCheckedIn
	b.checkedInAt = &now
	b.updatedAt = now
	return nil
}

// CheckOut closes the stay and stamps the actual departure time. An early
// departure shrinks the interval to the actual stay so the freed nights
// return to availability and history stays accurate.
func (b *Booking) CheckOut(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCheckedOut) {
		return ErrInvalidStatusChange
	}
	today := clock.DateOf(now)
	if today.Before(b.period.checkOut) {
		end := today
		if !end.After(b.period.checkIn) {
			end = b.period.checkIn.AddDate(0, 0, 1)
		}
		b.period = StayPeriod{checkIn: b.period.checkIn, checkOut: end}
	}
	b.status = StatusCheckedOut
	b.checkedOutAt = &now
	b.updatedAt = now
	return nil
}

// CloseForTransfer checks the stay out on the source room and records the
// successor booking.
func (b *Booking) CloseForTransfer(successorID uuid.UUID, now time.Time) error {
	if err := b.CheckOut(now); err != nil {
		return err
	}
	b.transferredTo = &successorID
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusChange
	}
	b.status = StatusCancelled
	if b.paymentStatus == PaymentPaid {
		b.paymentStatus = PaymentRefunded
	}
	b.updatedAt = now
	return nil
}

// MarkNoShow absorbs a confirmed booking whose check-in date has passed
// without the guest arriving.
func (b *Booking) MarkNoShow(now time.Time) error {
	if !b.status.CanTransitionTo(StatusNoShow) {
		return ErrInvalidStatusChange
	}
	if !clock.DateOf(now).After(b.period.CheckIn()) {
		return ErrNoShowTooEarly
	}
	b.status = StatusNoShow
	b.updatedAt = now
	return nil
}

func (b *Booking) MarkPaid(now time.Time) {
	b.paymentStatus = PaymentPaid
	b.updatedAt = now
}
