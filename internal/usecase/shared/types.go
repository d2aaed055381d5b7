package shared

import (
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"

	"github.com/google/uuid"
)

// Snapshots are the flat records the datastore hands back. Commands that need
// to mutate reconstruct the domain entity via ToDomain.

type RoomTypeSnapshot struct {
	ID            uuid.UUID
	Name          string
	BaseRateCents int64
	MaxAdults     int
	MaxChildren   int
	BedCount      int
	Features      []string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *RoomTypeSnapshot) MaxOccupancy() int {
	return s.MaxAdults + s.MaxChildren
}

func (s *RoomTypeSnapshot) ToDomain() *room.RoomType {
	return room.ReconstructRoomType(
		s.ID, s.Name, s.BaseRateCents,
		s.MaxAdults, s.MaxChildren, s.BedCount,
		s.Features, s.IsActive,
		s.CreatedAt, s.UpdatedAt,
	)
}

type RoomSnapshot struct {
	ID         uuid.UUID
	RoomNumber string
	Floor      int
	RoomTypeID uuid.UUID
	Status     room.Status
	Capacity   int
	Retired    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s *RoomSnapshot) ToDomain() *room.Room {
	return room.ReconstructRoom(
		s.ID, s.RoomNumber, s.Floor, s.RoomTypeID,
		s.Status, s.Capacity, s.Retired,
		s.CreatedAt, s.UpdatedAt,
	)
}

type BookingSnapshot struct {
	ID              uuid.UUID
	GuestID         uuid.UUID
	RoomID          uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	Status          booking.Status
	TotalCents      int64
	PaymentStatus   booking.PaymentStatus
	NumberOfGuests  int
	TransferredFrom *uuid.UUID
	TransferredTo   *uuid.UUID
	CheckedInAt     *time.Time
	CheckedOutAt    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *BookingSnapshot) ToDomain() (*booking.Booking, error) {
	period, err := booking.NewStayPeriod(s.CheckIn, s.CheckOut)
	if err != nil {
		return nil, err
	}
	total, err := booking.NewMoney(s.TotalCents)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		s.ID, s.GuestID, s.RoomID,
		period, s.Status, total, s.PaymentStatus, s.NumberOfGuests,
		s.TransferredFrom, s.TransferredTo,
		s.CheckedInAt, s.CheckedOutAt,
		s.CreatedAt, s.UpdatedAt,
	), nil
}

func (s *BookingSnapshot) Period() (booking.StayPeriod, error) {
	return booking.NewStayPeriod(s.CheckIn, s.CheckOut)
}

type TaskSnapshot struct {
	ID                uuid.UUID
	RoomID            uuid.UUID
	Status            housekeeping.Status
	CleaningType      housekeeping.CleaningType
	AssignedToID      *uuid.UUID
	ScheduledDate     time.Time
	CompletedAt       *time.Time
	VerifiedByID      *uuid.UUID
	VerificationNotes string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s *TaskSnapshot) ToDomain() *housekeeping.Task {
	return housekeeping.ReconstructTask(
		s.ID, s.RoomID, s.Status, s.CleaningType,
		s.AssignedToID, s.ScheduledDate, s.CompletedAt,
		s.VerifiedByID, s.VerificationNotes,
		s.CreatedAt, s.UpdatedAt,
	)
}
