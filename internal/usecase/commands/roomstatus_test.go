//go:build unit

package commands_test

import (
	"context"
	"testing"

	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set and clear", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")

		result, err := env.Status.SetMaintenance(ctx, rm.ID)
		require.NoError(t, err)
		assert.Equal(t, room.StatusMaintenance, result.Room.Status)
		require.Len(t, result.Events, 1)
		assert.Equal(t, "room.status_changed", result.Events[0].Name())

		result, err = env.Status.ClearMaintenance(ctx, rm.ID)
		require.NoError(t, err)
		assert.Equal(t, room.StatusVacant, result.Room.Status)
	})

	t.Run("clear blocked by an open task", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")

		opened, err := env.Housekeeping.OpenTask(ctx, rm.ID, housekeeping.CleaningDeep, testNow)
		require.NoError(t, err)
		_, err = env.Status.SetMaintenance(ctx, rm.ID)
		require.NoError(t, err)

		_, err = env.Status.ClearMaintenance(ctx, rm.ID)
		require.ErrorIs(t, err, errs.ErrTaskAlreadyOpen)
		assert.Equal(t, "maintenance", env.roomStatusOf(t, rm.ID))

		// Close out the work, then the room can return to service.
		staff := uuid.New()
		_, err = env.Housekeeping.Assign(ctx, opened.Task.ID, staff)
		require.NoError(t, err)
		_, err = env.Housekeeping.Start(ctx, opened.Task.ID)
		require.NoError(t, err)
		_, err = env.Housekeeping.Complete(ctx, opened.Task.ID, "")
		require.NoError(t, err)
		_, err = env.Housekeeping.Verify(ctx, opened.Task.ID, uuid.New(), "")
		require.NoError(t, err)

		_, err = env.Status.ClearMaintenance(ctx, rm.ID)
		require.NoError(t, err)
		assert.Equal(t, "vacant", env.roomStatusOf(t, rm.ID))
	})
}

func TestRequestTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects transitions the manual trigger does not cover", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")

		for _, to := range []room.Status{
			room.StatusReserved, // only a booking reaching its date reserves
			room.StatusOccupied, // guests arrive through check-in only
			room.StatusCleaning, // rooms enter cleaning through a task
			room.StatusCheckout,
		} {
			_, err := env.Status.RequestTransition(ctx, rm.ID, to)
			require.ErrorIs(t, err, errs.ErrIllegalRoomTransition, "vacant -> %s", to)
		}
		assert.Equal(t, "vacant", env.roomStatusOf(t, rm.ID))
	})

	t.Run("unknown room", func(t *testing.T) {
		env := newTestEnv(t, testNow)

		_, err := env.Status.RequestTransition(ctx, uuid.New(), room.StatusMaintenance)
		require.ErrorIs(t, err, errs.ErrRoomNotFound)
	})
}
