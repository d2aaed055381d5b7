package queries

import (
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type RoomView struct {
	ID         uuid.UUID   `json:"id"`
	RoomNumber string      `json:"room_number"`
	Floor      int         `json:"floor"`
	RoomTypeID uuid.UUID   `json:"room_type_id"`
	Status     room.Status `json:"status"`
	Capacity   int         `json:"capacity"`
}

type RoomTypeView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	BaseRateCents int64     `json:"base_rate_cents"`
	MaxAdults     int       `json:"max_adults"`
	MaxChildren   int       `json:"max_children"`
	BedCount      int       `json:"bed_count"`
	Features      []string  `json:"features"`
	IsActive      bool      `json:"is_active"`
}

type BookingView struct {
	ID              uuid.UUID             `json:"id"`
	GuestID         uuid.UUID             `json:"guest_id"`
	RoomID          uuid.UUID             `json:"room_id"`
	CheckIn         time.Time             `json:"check_in"`
	CheckOut        time.Time             `json:"check_out"`
	Nights          int                   `json:"nights"`
	Status          booking.Status        `json:"status"`
	TotalCents      int64                 `json:"total_cents"`
	PaymentStatus   booking.PaymentStatus `json:"payment_status"`
	NumberOfGuests  int                   `json:"number_of_guests"`
	TransferredFrom *uuid.UUID            `json:"transferred_from,omitempty"`
	TransferredTo   *uuid.UUID            `json:"transferred_to,omitempty"`
	CheckedInAt     *time.Time            `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time            `json:"checked_out_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type TaskView struct {
	ID                uuid.UUID                 `json:"id"`
	RoomID            uuid.UUID                 `json:"room_id"`
	Status            housekeeping.Status       `json:"status"`
	CleaningType      housekeeping.CleaningType `json:"cleaning_type"`
	AssignedToID      *uuid.UUID                `json:"assigned_to_id,omitempty"`
	ScheduledDate     time.Time                 `json:"scheduled_date"`
	CompletedAt       *time.Time                `json:"completed_at,omitempty"`
	VerifiedByID      *uuid.UUID                `json:"verified_by_id,omitempty"`
	VerificationNotes string                    `json:"verification_notes,omitempty"`
}

// CalendarOccupancy is the booking occupying a room on a given day.
type CalendarOccupancy struct {
	BookingID uuid.UUID      `json:"booking_id"`
	GuestID   uuid.UUID      `json:"guest_id"`
	Status    booking.Status `json:"status"`
}

// CalendarDay is one grid cell: either an occupying booking, or the room's
// non-booking state (maintenance/cleaning), or neither when the day is free.
type CalendarDay struct {
	Date       time.Time          `json:"date"`
	Occupancy  *CalendarOccupancy `json:"occupancy,omitempty"`
	RoomStatus *room.Status       `json:"room_status,omitempty"`
}

type RoomCalendar struct {
	RoomID     uuid.UUID     `json:"room_id"`
	RoomNumber string        `json:"room_number"`
	Days       []CalendarDay `json:"days"`
}

type OccupancyReport struct {
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	Nights             int       `json:"nights"`
	ActiveRooms        int       `json:"active_rooms"`
	OccupiedRoomNights int       `json:"occupied_room_nights"`
	Rate               float64   `json:"rate"`
}

// AvailabilityFilter narrows an availability search. Nil fields match all.
type AvailabilityFilter struct {
	RoomTypeID  *uuid.UUID
	MinCapacity *int
	Floor       *int
}
