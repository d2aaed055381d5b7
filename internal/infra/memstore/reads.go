package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/infra"
	"stayops/internal/pkg/clock"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
)

// memReads serves the query surface over the base maps merged with a
// transaction overlay. With a nil overlay it reads committed state only.
type memReads struct {
	store  *Store
	staged *overlay
}

func (r *memReads) RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	if r.staged != nil {
		if snap, ok := r.staged.roomTypes[id]; ok {
			snap = deepClone(snap)
			return &snap, nil
		}
	}
	r.store.mu.RLock()
	snap, ok := r.store.roomTypes[id]
	r.store.mu.RUnlock()
	if !ok {
		return nil, infra.WrapRepoErr("room type not found", nil, infra.KindNotFound)
	}
	snap = deepClone(snap)
	return &snap, nil
}

func (r *memReads) RoomByID(ctx context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	snap, ok := r.roomSnapshot(id)
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *memReads) RoomByNumber(ctx context.Context, roomNumber string) (*shared.RoomSnapshot, error) {
	for _, snap := range r.allRooms() {
		if snap.RoomNumber == roomNumber {
			return &snap, nil
		}
	}
	return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
}

func (r *memReads) Rooms(ctx context.Context, filter shared.RoomFilter) ([]shared.RoomSnapshot, error) {
	var out []shared.RoomSnapshot
	for _, snap := range r.allRooms() {
		if snap.Retired && !filter.IncludeRetired {
			continue
		}
		if filter.Floor != nil && snap.Floor != *filter.Floor {
			continue
		}
		if filter.RoomTypeID != nil && snap.RoomTypeID != *filter.RoomTypeID {
			continue
		}
		if filter.Status != nil && snap.Status != *filter.Status {
			continue
		}
		out = append(out, snap)
	}
	slices.SortFunc(out, func(a, b shared.RoomSnapshot) int {
		return cmp.Compare(a.RoomNumber, b.RoomNumber)
	})
	return out, nil
}

func (r *memReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	snap, ok := r.bookingSnapshot(id)
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *memReads) BlockingBookings(ctx context.Context, roomID uuid.UUID, period booking.StayPeriod) ([]shared.BookingSnapshot, error) {
	var out []shared.BookingSnapshot
	for _, snap := range r.allBookings() {
		if snap.RoomID != roomID || !snap.Status.BlocksAvailability() {
			continue
		}
		p, err := snap.Period()
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking has invalid period", err)
		}
		if p.Overlaps(period) {
			out = append(out, snap)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memReads) BookingsOverlappingRange(ctx context.Context, roomIDs []uuid.UUID, period booking.StayPeriod) ([]shared.BookingSnapshot, error) {
	wanted := make(map[uuid.UUID]bool, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = true
	}
	var out []shared.BookingSnapshot
	for _, snap := range r.allBookings() {
		if !wanted[snap.RoomID] {
			continue
		}
		if !snap.Status.BlocksAvailability() && snap.Status != booking.StatusCheckedOut {
			continue
		}
		p, err := snap.Period()
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking has invalid period", err)
		}
		if p.Overlaps(period) {
			out = append(out, snap)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memReads) HasBlockingBookingAfter(ctx context.Context, roomID uuid.UUID, t time.Time) (bool, error) {
	for _, snap := range r.allBookings() {
		if snap.RoomID == roomID && snap.Status.BlocksAvailability() && snap.CheckOut.After(t) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReads) ConfirmedArrivalsDue(ctx context.Context, today time.Time) ([]shared.BookingSnapshot, error) {
	day := clock.DateOf(today)
	var out []shared.BookingSnapshot
	for _, snap := range r.allBookings() {
		if snap.Status == booking.StatusConfirmed && snap.CheckIn.Equal(day) {
			out = append(out, snap)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memReads) ConfirmedNoShowsDue(ctx context.Context, today time.Time) ([]shared.BookingSnapshot, error) {
	day := clock.DateOf(today)
	var out []shared.BookingSnapshot
	for _, snap := range r.allBookings() {
		if snap.Status == booking.StatusConfirmed && snap.CheckIn.Before(day) {
			out = append(out, snap)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memReads) OpenTaskForRoom(ctx context.Context, roomID uuid.UUID) (*shared.TaskSnapshot, error) {
	for _, snap := range r.allTasks() {
		if snap.RoomID == roomID && snap.Status.IsOpen() {
			return &snap, nil
		}
	}
	return nil, infra.WrapRepoErr("no open task for room", nil, infra.KindNotFound)
}

func (r *memReads) TaskByID(ctx context.Context, id uuid.UUID) (*shared.TaskSnapshot, error) {
	snap, ok := r.taskSnapshot(id)
	if !ok {
		return nil, infra.WrapRepoErr("task not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *memReads) roomSnapshot(id uuid.UUID) (shared.RoomSnapshot, bool) {
	if r.staged != nil {
		if snap, ok := r.staged.rooms[id]; ok {
			return deepClone(snap), true
		}
	}
	r.store.mu.RLock()
	snap, ok := r.store.rooms[id]
	r.store.mu.RUnlock()
	if !ok {
		return shared.RoomSnapshot{}, false
	}
	return deepClone(snap), true
}

func (r *memReads) bookingSnapshot(id uuid.UUID) (shared.BookingSnapshot, bool) {
	if r.staged != nil {
		if snap, ok := r.staged.bookings[id]; ok {
			return deepClone(snap), true
		}
	}
	r.store.mu.RLock()
	snap, ok := r.store.bookings[id]
	r.store.mu.RUnlock()
	if !ok {
		return shared.BookingSnapshot{}, false
	}
	return deepClone(snap), true
}

func (r *memReads) taskSnapshot(id uuid.UUID) (shared.TaskSnapshot, bool) {
	if r.staged != nil {
		if snap, ok := r.staged.tasks[id]; ok {
			return deepClone(snap), true
		}
	}
	r.store.mu.RLock()
	snap, ok := r.store.tasks[id]
	r.store.mu.RUnlock()
	if !ok {
		return shared.TaskSnapshot{}, false
	}
	return deepClone(snap), true
}

func (r *memReads) allRoomTypes() []shared.RoomTypeSnapshot {
	r.store.mu.RLock()
	merged := make(map[uuid.UUID]shared.RoomTypeSnapshot, len(r.store.roomTypes))
	for id, snap := range r.store.roomTypes {
		merged[id] = snap
	}
	r.store.mu.RUnlock()
	if r.staged != nil {
		for id, snap := range r.staged.roomTypes {
			merged[id] = snap
		}
	}
	out := make([]shared.RoomTypeSnapshot, 0, len(merged))
	for _, snap := range merged {
		out = append(out, deepClone(snap))
	}
	return out
}

func (r *memReads) allRooms() []shared.RoomSnapshot {
	r.store.mu.RLock()
	merged := make(map[uuid.UUID]shared.RoomSnapshot, len(r.store.rooms))
	for id, snap := range r.store.rooms {
		merged[id] = snap
	}
	r.store.mu.RUnlock()
	if r.staged != nil {
		for id, snap := range r.staged.rooms {
			merged[id] = snap
		}
	}
	out := make([]shared.RoomSnapshot, 0, len(merged))
	for _, snap := range merged {
		out = append(out, deepClone(snap))
	}
	return out
}

func (r *memReads) allBookings() []shared.BookingSnapshot {
	r.store.mu.RLock()
	merged := make(map[uuid.UUID]shared.BookingSnapshot, len(r.store.bookings))
	for id, snap := range r.store.bookings {
		merged[id] = snap
	}
	r.store.mu.RUnlock()
	if r.staged != nil {
		for id, snap := range r.staged.bookings {
			merged[id] = snap
		}
	}
	out := make([]shared.BookingSnapshot, 0, len(merged))
	for _, snap := range merged {
		out = append(out, deepClone(snap))
	}
	return out
}

func (r *memReads) allTasks() []shared.TaskSnapshot {
	r.store.mu.RLock()
	merged := make(map[uuid.UUID]shared.TaskSnapshot, len(r.store.tasks))
	for id, snap := range r.store.tasks {
		merged[id] = snap
	}
	r.store.mu.RUnlock()
	if r.staged != nil {
		for id, snap := range r.staged.tasks {
			merged[id] = snap
		}
	}
	out := make([]shared.TaskSnapshot, 0, len(merged))
	for _, snap := range merged {
		out = append(out, deepClone(snap))
	}
	return out
}

func sortBookings(bs []shared.BookingSnapshot) {
	slices.SortFunc(bs, func(a, b shared.BookingSnapshot) int {
		if c := a.CheckIn.Compare(b.CheckIn); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
