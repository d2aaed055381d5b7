// Package memstore is the in-memory datastore: the same transactional
// contract as the Postgres store, backed by maps and per-room mutexes. It is
// the fixture for scenario tests and the zero-dependency demo mode.
package memstore

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type Store struct {
	mu        sync.RWMutex
	roomTypes map[uuid.UUID]shared.RoomTypeSnapshot
	rooms     map[uuid.UUID]shared.RoomSnapshot
	bookings  map[uuid.UUID]shared.BookingSnapshot
	tasks     map[uuid.UUID]shared.TaskSnapshot

	lockMu    sync.Mutex
	roomLocks map[uuid.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		roomTypes: make(map[uuid.UUID]shared.RoomTypeSnapshot),
		rooms:     make(map[uuid.UUID]shared.RoomSnapshot),
		bookings:  make(map[uuid.UUID]shared.BookingSnapshot),
		tasks:     make(map[uuid.UUID]shared.TaskSnapshot),
		roomLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Within stages all writes in a transaction-local overlay and applies them to
// the base maps only when fn returns nil. Room locks taken via LockRooms are
// held until the overlay is committed or discarded, so a committed write is
// visible to the next holder before it re-reads.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{store: s, staged: newOverlay(), held: make(map[uuid.UUID]bool)}
	defer tx.releaseLocks()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.commit(tx.staged)
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, r shared.Reads) error) error {
	return fn(ctx, s.Reads())
}

func (s *Store) Reads() shared.Reads {
	return &memReads{store: s}
}

func (s *Store) commit(o *overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range o.roomTypes {
		s.roomTypes[id] = snap
	}
	for id, snap := range o.rooms {
		s.rooms[id] = snap
	}
	for id, snap := range o.bookings {
		s.bookings[id] = snap
	}
	for id, snap := range o.tasks {
		s.tasks[id] = snap
	}
}

func (s *Store) roomLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	m, ok := s.roomLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.roomLocks[id] = m
	}
	return m
}

// overlay holds a transaction's uncommitted writes keyed by entity id.
type overlay struct {
	roomTypes map[uuid.UUID]shared.RoomTypeSnapshot
	rooms     map[uuid.UUID]shared.RoomSnapshot
	bookings  map[uuid.UUID]shared.BookingSnapshot
	tasks     map[uuid.UUID]shared.TaskSnapshot
}

func newOverlay() *overlay {
	return &overlay{
		roomTypes: make(map[uuid.UUID]shared.RoomTypeSnapshot),
		rooms:     make(map[uuid.UUID]shared.RoomSnapshot),
		bookings:  make(map[uuid.UUID]shared.BookingSnapshot),
		tasks:     make(map[uuid.UUID]shared.TaskSnapshot),
	}
}

func sortIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(sorted)
}

// deepClone hands out an isolated copy so callers cannot alias the maps'
// slices and pointers.
func deepClone[T any](src T) T {
	var dst T
	if err := copier.CopyWithOption(&dst, &src, copier.Option{DeepCopy: true}); err != nil {
		return src
	}
	return dst
}
