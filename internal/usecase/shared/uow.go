package shared

import (
	"context"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"

	"github.com/google/uuid"
)

// UnitOfWork is the engine's datastore collaborator. Within runs a write
// transaction; failures surface to the caller untouched (booking writes are
// never retried blindly). WithinReadOnly runs a consistent read snapshot and
// may be retried by callers on transient failures. Reads gives single-query
// access outside any transaction.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r Reads) error) error
	Reads() Reads
}

// Tx exposes the write repositories plus LockRooms, the per-room serialization
// point: implementations must acquire the given rooms' locks in ascending id
// order and hold them until the transaction ends.
type Tx interface {
	RoomTypes() RoomTypeRepository
	Rooms() RoomRepository
	Bookings() BookingRepository
	Tasks() TaskRepository
	Reads() Reads
	LockRooms(ctx context.Context, roomIDs ...uuid.UUID) error
}

type RoomTypeRepository interface {
	Create(ctx context.Context, roomType *room.RoomType) error
	Update(ctx context.Context, roomType *room.RoomType) error
}

type RoomRepository interface {
	Create(ctx context.Context, r *room.Room) error
	// UpdateStatus is compare-and-set on the status column so a raced write
	// cannot silently clobber another transition.
	UpdateStatus(ctx context.Context, roomID uuid.UUID, from, to room.Status) error
	MarkRetired(ctx context.Context, roomID uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
}

type TaskRepository interface {
	Create(ctx context.Context, t *housekeeping.Task) error
	Update(ctx context.Context, t *housekeeping.Task) error
}

// RoomFilter narrows room listings. Nil fields match everything; retired
// rooms are excluded unless asked for.
type RoomFilter struct {
	Floor          *int
	RoomTypeID     *uuid.UUID
	Status         *room.Status
	IncludeRetired bool
}

// Reads is the query surface shared by commands (validation reads inside a
// transaction) and the availability index (snapshot reads).
type Reads interface {
	RoomTypeByID(ctx context.Context, id uuid.UUID) (*RoomTypeSnapshot, error)
	RoomByID(ctx context.Context, id uuid.UUID) (*RoomSnapshot, error)
	RoomByNumber(ctx context.Context, roomNumber string) (*RoomSnapshot, error)
	// Rooms returns matches ordered by roomNumber ascending.
	Rooms(ctx context.Context, filter RoomFilter) ([]RoomSnapshot, error)

	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// BlockingBookings returns Confirmed/CheckedIn bookings on the room whose
	// [checkIn, checkOut) overlaps period, using the half-open comparison.
	BlockingBookings(ctx context.Context, roomID uuid.UUID, period booking.StayPeriod) ([]BookingSnapshot, error)
	// BookingsOverlappingRange returns occupancy-relevant bookings (Confirmed,
	// CheckedIn, and completed CheckedOut stays) across many rooms at once,
	// for calendar rendering and occupancy metrics. Callers needing only the
	// availability-blocking subset filter on Status.BlocksAvailability.
	BookingsOverlappingRange(ctx context.Context, roomIDs []uuid.UUID, period booking.StayPeriod) ([]BookingSnapshot, error)
	// HasBlockingBookingAfter reports whether the room has a Confirmed or
	// CheckedIn booking checking out after t.
	HasBlockingBookingAfter(ctx context.Context, roomID uuid.UUID, t time.Time) (bool, error)
	// ConfirmedArrivalsDue lists Confirmed bookings whose check-in date is
	// exactly today, for the Vacant→Reserved arrival sweep.
	ConfirmedArrivalsDue(ctx context.Context, today time.Time) ([]BookingSnapshot, error)
	// ConfirmedNoShowsDue lists Confirmed bookings whose check-in date has
	// passed without a check-in.
	ConfirmedNoShowsDue(ctx context.Context, today time.Time) ([]BookingSnapshot, error)

	OpenTaskForRoom(ctx context.Context, roomID uuid.UUID) (*TaskSnapshot, error)
	TaskByID(ctx context.Context, id uuid.UUID) (*TaskSnapshot, error)
}
