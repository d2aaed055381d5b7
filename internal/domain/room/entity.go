package room

import (
	"time"

	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidOccupancy = errs.New("max occupancy must be at least 1")
	ErrNegativeRate     = errs.New("base rate cannot be negative")
	ErrEmptyName        = errs.New("room type name cannot be empty")
	ErrEmptyRoomNumber  = errs.New("room number cannot be empty")
	ErrInvalidCapacity  = errs.New("room capacity must be at least 1")
	ErrRoomRetired      = errs.New("room is retired")
)

// RoomType is the rateable configuration a room is sold as. Rate changes never
// touch bookings that already quoted a total.
type RoomType struct {
	id            uuid.UUID
	name          string
	baseRateCents int64
	maxAdults     int
	maxChildren   int
	bedCount      int
	features      Features
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewRoomType(name string, baseRateCents int64, maxAdults, maxChildren, bedCount int, features []string, now time.Time) (*RoomType, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if maxAdults+maxChildren < 1 {
		return nil, ErrInvalidOccupancy
	}
	if baseRateCents < 0 {
		return nil, ErrNegativeRate
	}
	if bedCount < 1 {
		bedCount = 1
	}

	return &RoomType{
		id:            uuid.New(),
		name:          name,
		baseRateCents: baseRateCents,
		maxAdults:     maxAdults,
		maxChildren:   maxChildren,
		bedCount:      bedCount,
		features:      NewFeatures(features),
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructRoomType(
	id uuid.UUID,
	name string,
	baseRateCents int64,
	maxAdults, maxChildren, bedCount int,
	features []string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *RoomType {
	return &RoomType{
		id:            id,
		name:          name,
		baseRateCents: baseRateCents,
		maxAdults:     maxAdults,
		maxChildren:   maxChildren,
		bedCount:      bedCount,
		features:      NewFeatures(features),
		isActive:      isActive,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (t *RoomType) ID() uuid.UUID        { return t.id }
func (t *RoomType) Name() string         { return t.name }
func (t *RoomType) BaseRateCents() int64 { return t.baseRateCents }
func (t *RoomType) MaxAdults() int       { return t.maxAdults }
func (t *RoomType) MaxChildren() int     { return t.maxChildren }
func (t *RoomType) MaxOccupancy() int    { return t.maxAdults + t.maxChildren }
func (t *RoomType) BedCount() int        { return t.bedCount }
func (t *RoomType) Features() Features   { return t.features }
func (t *RoomType) IsActive() bool       { return t.isActive }
func (t *RoomType) CreatedAt() time.Time { return t.createdAt }
func (t *RoomType) UpdatedAt() time.Time { return t.updatedAt }

// Update revises the sellable configuration with the same validation as
// NewRoomType. Callers gate it on the type having no active bookings; totals
// already quoted are never recalculated.
func (t *RoomType) Update(name string, baseRateCents int64, maxAdults, maxChildren, bedCount int, features []string, now time.Time) error {
	if name == "" {
		return ErrEmptyName
	}
	if maxAdults+maxChildren < 1 {
		return ErrInvalidOccupancy
	}
	if baseRateCents < 0 {
		return ErrNegativeRate
	}
	if bedCount < 1 {
		bedCount = 1
	}

	t.name = name
	t.baseRateCents = baseRateCents
	t.maxAdults = maxAdults
	t.maxChildren = maxChildren
	t.bedCount = bedCount
	t.features = NewFeatures(features)
	t.updatedAt = now
	return nil
}

// Room is a physical unit of inventory. Its status field is written only by
// the RoomStatusController.
type Room struct {
	id         uuid.UUID
	roomNumber string
	floor      int
	roomTypeID uuid.UUID
	status     Status
	capacity   int
	retired    bool
	createdAt  time.Time
	updatedAt  time.Time
}

func NewRoom(roomNumber string, floor int, roomTypeID uuid.UUID, capacity int, now time.Time) (*Room, error) {
	if roomNumber == "" {
		return nil, ErrEmptyRoomNumber
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Room{
		id:         uuid.New(),
		roomNumber: roomNumber,
		floor:      floor,
		roomTypeID: roomTypeID,
		status:     StatusVacant,
		capacity:   capacity,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructRoom(
	id uuid.UUID,
	roomNumber string,
	floor int,
	roomTypeID uuid.UUID,
	status Status,
	capacity int,
	retired bool,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:         id,
		roomNumber: roomNumber,
		floor:      floor,
		roomTypeID: roomTypeID,
		status:     status,
		capacity:   capacity,
		retired:    retired,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Room) ID() uuid.UUID         { return r.id }
func (r *Room) RoomNumber() string    { return r.roomNumber }
func (r *Room) Floor() int            { return r.floor }
func (r *Room) RoomTypeID() uuid.UUID { return r.roomTypeID }
func (r *Room) Status() Status        { return r.status }
func (r *Room) Capacity() int         { return r.capacity }
func (r *Room) IsRetired() bool       { return r.retired }
func (r *Room) CreatedAt() time.Time  { return r.createdAt }
func (r *Room) UpdatedAt() time.Time  { return r.updatedAt }

// Retire soft-removes the room from inventory; historical bookings keep
// referencing it.
func (r *Room) Retire(now time.Time) error {
	if r.retired {
		return ErrRoomRetired
	}
	r.retired = true
	r.updatedAt = now
	return nil
}
