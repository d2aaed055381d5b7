package memstore

import (
	"context"
	"slices"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	store  *Store
	staged *overlay
	held   map[uuid.UUID]bool
	order  []uuid.UUID // acquisition order, for release
}

func (t *memTx) RoomTypes() shared.RoomTypeRepository { return &roomTypeRepo{tx: t} }
func (t *memTx) Rooms() shared.RoomRepository         { return &roomRepo{tx: t} }
func (t *memTx) Bookings() shared.BookingRepository   { return &bookingRepo{tx: t} }
func (t *memTx) Tasks() shared.TaskRepository         { return &taskRepo{tx: t} }

func (t *memTx) Reads() shared.Reads {
	return &memReads{store: t.store, staged: t.staged}
}

// LockRooms acquires the rooms' mutexes in ascending id order, skipping any
// already held by this transaction, and keeps them until the transaction ends.
func (t *memTx) LockRooms(ctx context.Context, roomIDs ...uuid.UUID) error {
	for _, id := range sortIDs(roomIDs) {
		if t.held[id] {
			continue
		}
		t.store.roomLock(id).Lock()
		t.held[id] = true
		t.order = append(t.order, id)
	}
	return nil
}

func (t *memTx) releaseLocks() {
	for _, id := range slices.Backward(t.order) {
		t.store.roomLock(id).Unlock()
	}
	t.order = nil
	clear(t.held)
}

type roomTypeRepo struct{ tx *memTx }

func (r *roomTypeRepo) Create(ctx context.Context, roomType *room.RoomType) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	for _, existing := range reads.allRoomTypes() {
		if existing.Name == roomType.Name() {
			return infra.WrapRepoErr("room type name already exists", nil, infra.KindDuplicateKey)
		}
	}
	r.tx.staged.roomTypes[roomType.ID()] = snapshotRoomType(roomType)
	return nil
}

func (r *roomTypeRepo) Update(ctx context.Context, roomType *room.RoomType) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	for _, existing := range reads.allRoomTypes() {
		if existing.ID == roomType.ID() {
			continue
		}
		if existing.Name == roomType.Name() {
			return infra.WrapRepoErr("room type name already exists", nil, infra.KindDuplicateKey)
		}
	}
	if _, err := reads.RoomTypeByID(ctx, roomType.ID()); err != nil {
		return err
	}
	r.tx.staged.roomTypes[roomType.ID()] = snapshotRoomType(roomType)
	return nil
}

type roomRepo struct{ tx *memTx }

func (r *roomRepo) Create(ctx context.Context, rm *room.Room) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	for _, existing := range reads.allRooms() {
		if existing.RoomNumber == rm.RoomNumber() {
			return infra.WrapRepoErr("room number already exists", nil, infra.KindDuplicateKey)
		}
	}
	r.tx.staged.rooms[rm.ID()] = snapshotRoom(rm)
	return nil
}

func (r *roomRepo) UpdateStatus(ctx context.Context, roomID uuid.UUID, from, to room.Status) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	snap, ok := reads.roomSnapshot(roomID)
	if !ok {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	if snap.Status != from {
		return infra.WrapRepoErr("room status changed concurrently", nil, infra.KindStaleState)
	}
	snap.Status = to
	r.tx.staged.rooms[roomID] = snap
	return nil
}

func (r *roomRepo) MarkRetired(ctx context.Context, roomID uuid.UUID) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	snap, ok := reads.roomSnapshot(roomID)
	if !ok {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	snap.Retired = true
	r.tx.staged.rooms[roomID] = snap
	return nil
}

type bookingRepo struct{ tx *memTx }

// Create enforces the no-overlap invariant the way the Postgres exclusion
// constraint does, so a write that slipped past the usecase's validation read
// still fails with a conflict.
func (r *bookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	snap := snapshotBooking(b)
	if b.Status().BlocksAvailability() {
		reads := &memReads{store: r.tx.store, staged: r.tx.staged}
		blocking, err := reads.BlockingBookings(ctx, b.RoomID(), b.Period())
		if err != nil {
			return err
		}
		if len(blocking) > 0 {
			return infra.WrapRepoErr("booking interval overlaps an existing booking", nil, infra.KindConflict)
		}
	}
	r.tx.staged.bookings[b.ID()] = snap
	return nil
}

func (r *bookingRepo) Update(ctx context.Context, b *booking.Booking) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	if _, ok := reads.bookingSnapshot(b.ID()); !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap := snapshotBooking(b)
	if b.Status().BlocksAvailability() {
		blocking, err := reads.BlockingBookings(ctx, b.RoomID(), b.Period())
		if err != nil {
			return err
		}
		for _, other := range blocking {
			if other.ID != b.ID() {
				return infra.WrapRepoErr("booking interval overlaps an existing booking", nil, infra.KindConflict)
			}
		}
	}
	r.tx.staged.bookings[b.ID()] = snap
	return nil
}

type taskRepo struct{ tx *memTx }

func (r *taskRepo) Create(ctx context.Context, task *housekeeping.Task) error {
	r.tx.staged.tasks[task.ID()] = snapshotTask(task)
	return nil
}

func (r *taskRepo) Update(ctx context.Context, task *housekeeping.Task) error {
	reads := &memReads{store: r.tx.store, staged: r.tx.staged}
	if _, ok := reads.taskSnapshot(task.ID()); !ok {
		return infra.WrapRepoErr("task not found", nil, infra.KindNotFound)
	}
	r.tx.staged.tasks[task.ID()] = snapshotTask(task)
	return nil
}

func snapshotRoomType(t *room.RoomType) shared.RoomTypeSnapshot {
	return shared.RoomTypeSnapshot{
		ID:            t.ID(),
		Name:          t.Name(),
		BaseRateCents: t.BaseRateCents(),
		MaxAdults:     t.MaxAdults(),
		MaxChildren:   t.MaxChildren(),
		BedCount:      t.BedCount(),
		Features:      t.Features().Values(),
		IsActive:      t.IsActive(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

func snapshotRoom(r *room.Room) shared.RoomSnapshot {
	return shared.RoomSnapshot{
		ID:         r.ID(),
		RoomNumber: r.RoomNumber(),
		Floor:      r.Floor(),
		RoomTypeID: r.RoomTypeID(),
		Status:     r.Status(),
		Capacity:   r.Capacity(),
		Retired:    r.IsRetired(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

func snapshotBooking(b *booking.Booking) shared.BookingSnapshot {
	return shared.BookingSnapshot{
		ID:              b.ID(),
		GuestID:         b.GuestID(),
		RoomID:          b.RoomID(),
		CheckIn:         b.Period().CheckIn(),
		CheckOut:        b.Period().CheckOut(),
		Status:          b.Status(),
		TotalCents:      b.TotalAmount().Cents(),
		PaymentStatus:   b.PaymentStatus(),
		NumberOfGuests:  b.NumberOfGuests(),
		TransferredFrom: b.TransferredFrom(),
		TransferredTo:   b.TransferredTo(),
		CheckedInAt:     b.CheckedInAt(),
		CheckedOutAt:    b.CheckedOutAt(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func snapshotTask(t *housekeeping.Task) shared.TaskSnapshot {
	return shared.TaskSnapshot{
		ID:                t.ID(),
		RoomID:            t.RoomID(),
		Status:            t.Status(),
		CleaningType:      t.CleaningType(),
		AssignedToID:      t.AssignedToID(),
		ScheduledDate:     t.ScheduledDate(),
		CompletedAt:       t.CompletedAt(),
		VerifiedByID:      t.VerifiedByID(),
		VerificationNotes: t.VerificationNotes(),
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
}
