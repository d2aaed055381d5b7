//go:build unit

package memstore_test

import (
	"context"
	"testing"
	"time"

	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/infra/memstore"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedRoom(t *testing.T, store *memstore.Store) *room.Room {
	t.Helper()
	now := date(2025, 6, 1)

	rt, err := room.NewRoomType("Standard Twin", 12000, 2, 0, 2, nil, now)
	require.NoError(t, err)
	rm, err := room.NewRoom("201", 2, rt.ID(), 2, now)
	require.NoError(t, err)

	require.NoError(t, store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		if err := tx.RoomTypes().Create(ctx, rt); err != nil {
			return err
		}
		return tx.Rooms().Create(ctx, rm)
	}))
	return rm
}

func TestWithinCommitsOnlyOnSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memstore.NewStore()
	rm := seedRoom(t, store)

	// A failed transaction discards its staged writes.
	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Rooms().UpdateStatus(ctx, rm.ID(), room.StatusVacant, room.StatusMaintenance); err != nil {
			return err
		}
		return errs.New("caller aborts")
	})
	require.Error(t, err)

	snap, err := store.Reads().RoomByID(ctx, rm.ID())
	require.NoError(t, err)
	assert.Equal(t, room.StatusVacant, snap.Status)

	// A successful one is visible to later readers.
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Rooms().UpdateStatus(ctx, rm.ID(), room.StatusVacant, room.StatusMaintenance)
	}))
	snap, err = store.Reads().RoomByID(ctx, rm.ID())
	require.NoError(t, err)
	assert.Equal(t, room.StatusMaintenance, snap.Status)
}

func TestUpdateStatusDetectsStaleState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memstore.NewStore()
	rm := seedRoom(t, store)

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Rooms().UpdateStatus(ctx, rm.ID(), room.StatusOccupied, room.StatusCheckout)
	})
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindStaleState))
}

func TestReadsMissReturnsNotFound(t *testing.T) {
	t.Parallel()
	store := memstore.NewStore()

	_, err := store.Reads().RoomByNumber(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
