package event

import (
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"

	"github.com/google/uuid"
)

// Event is a fact the engine records alongside a command's result. Commands
// return events as plain values; an external dispatcher delivers them after
// the transaction commits, so delivery failure can never roll state back.
type Event interface {
	Name() string
}

type BookingCreated struct {
	BookingID uuid.UUID
	RoomID    uuid.UUID
	GuestID   uuid.UUID
	Period    booking.StayPeriod
	Status    booking.Status
}

func (BookingCreated) Name() string { return "booking.created" }

type BookingConfirmed struct {
	BookingID uuid.UUID
	RoomID    uuid.UUID
}

func (BookingConfirmed) Name() string { return "booking.confirmed" }

type BookingCancelled struct {
	BookingID uuid.UUID
	RoomID    uuid.UUID
}

func (BookingCancelled) Name() string { return "booking.cancelled" }

type BookingNoShow struct {
	BookingID uuid.UUID
	RoomID    uuid.UUID
}

func (BookingNoShow) Name() string { return "booking.no_show" }

type GuestCheckedIn struct {
	BookingID uuid.UUID
	RoomID    uuid.UUID
	GuestID   uuid.UUID
}

func (GuestCheckedIn) Name() string { return "booking.checked_in" }

type GuestCheckedOut struct {
	BookingID    uuid.UUID
	RoomID       uuid.UUID
	GuestID      uuid.UUID
	CheckedOutAt time.Time
}

func (GuestCheckedOut) Name() string { return "booking.checked_out" }

type RoomTransferred struct {
	OldBookingID uuid.UUID
	NewBookingID uuid.UUID
	OldRoomID    uuid.UUID
	NewRoomID    uuid.UUID
	GuestID      uuid.UUID
}

func (RoomTransferred) Name() string { return "booking.transferred" }

type RoomStatusChanged struct {
	RoomID  uuid.UUID
	From    room.Status
	To      room.Status
	Trigger room.Trigger
}

func (RoomStatusChanged) Name() string { return "room.status_changed" }

type TaskOpened struct {
	TaskID       uuid.UUID
	RoomID       uuid.UUID
	CleaningType housekeeping.CleaningType
}

func (TaskOpened) Name() string { return "housekeeping.task_opened" }

type TaskVerified struct {
	TaskID       uuid.UUID
	RoomID       uuid.UUID
	VerifiedByID uuid.UUID
}

func (TaskVerified) Name() string { return "housekeeping.task_verified" }

// Sink receives committed events. Implementations must tolerate being called
// after the fact: returning an error only gets logged, never retried into the
// originating transaction.
type Sink interface {
	Publish(event Event) error
}
