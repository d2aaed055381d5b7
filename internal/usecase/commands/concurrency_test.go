//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/shared"
	"stayops/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCancelRacingCheckIn commits a check-in while a cancel call is parked on
// the room lock. The cancel must observe the checked-in state once it holds
// the lock, not the snapshot it read before blocking.
func TestCancelRacingCheckIn(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testNow)
	_, rm := env.seedRoom(t, "301")

	// Same-day booking: the room is Reserved as soon as it is created.
	env.Clock.Set(builder.Date(2025, 6, 10).Add(14 * time.Hour))
	b := env.book(t, rm.ID, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
	require.Equal(t, "reserved", env.roomStatusOf(t, rm.ID))

	locked := make(chan struct{})
	proceed := make(chan struct{})
	holderDone := make(chan error, 1)

	// The holder takes the room lock, waits for the cancel call to read the
	// booking and park on the lock, then commits the guest's check-in.
	go func() {
		holderDone <- env.Store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			if err := tx.LockRooms(ctx, rm.ID); err != nil {
				return err
			}
			close(locked)
			<-proceed

			snap, err := tx.Reads().BookingByID(ctx, b.ID)
			if err != nil {
				return err
			}
			entity, err := snap.ToDomain()
			if err != nil {
				return err
			}
			if err := entity.CheckIn(env.Clock.Now()); err != nil {
				return err
			}
			if err := tx.Bookings().Update(ctx, entity); err != nil {
				return err
			}
			return tx.Rooms().UpdateStatus(ctx, rm.ID, room.StatusReserved, room.StatusOccupied)
		})
	}()

	<-locked
	cancelDone := make(chan error, 1)
	go func() {
		_, err := env.Ledger.Cancel(context.Background(), b.ID)
		cancelDone <- err
	}()

	// Let the cancel take its pre-lock read and block before the check-in
	// commits.
	time.Sleep(50 * time.Millisecond)
	close(proceed)

	require.NoError(t, <-holderDone)
	require.ErrorIs(t, <-cancelDone, errs.ErrInvalidTransition)

	// The stay survives and the room stays coherent with it.
	snap, err := env.Store.Reads().BookingByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckedIn, snap.Status)
	assert.Equal(t, "occupied", env.roomStatusOf(t, rm.ID))
}

// TestVerifyRacingVerify parks a second verification on the room lock while
// the first one commits. The loser must fail on the re-read state instead of
// overwriting the recorded verifier.
func TestVerifyRacingVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t, testNow)
	_, rm := env.seedRoom(t, "301")

	opened, err := env.Housekeeping.OpenTask(ctx, rm.ID, housekeeping.CleaningStandard, testNow)
	require.NoError(t, err)
	taskID := opened.Task.ID

	staff := uuid.New()
	_, err = env.Housekeeping.Assign(ctx, taskID, staff)
	require.NoError(t, err)
	_, err = env.Housekeeping.Start(ctx, taskID)
	require.NoError(t, err)
	_, err = env.Housekeeping.Complete(ctx, taskID, "done")
	require.NoError(t, err)

	supervisor, racer := uuid.New(), uuid.New()
	locked := make(chan struct{})
	proceed := make(chan struct{})
	holderDone := make(chan error, 1)

	go func() {
		holderDone <- env.Store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.LockRooms(ctx, rm.ID); err != nil {
				return err
			}
			close(locked)
			<-proceed

			snap, err := tx.Reads().TaskByID(ctx, taskID)
			if err != nil {
				return err
			}
			task := snap.ToDomain()
			if err := task.Verify(supervisor, "first pass", env.Clock.Now()); err != nil {
				return err
			}
			return tx.Tasks().Update(ctx, task)
		})
	}()

	<-locked
	racerDone := make(chan error, 1)
	go func() {
		_, err := env.Housekeeping.Verify(ctx, taskID, racer, "second pass")
		racerDone <- err
	}()

	time.Sleep(50 * time.Millisecond)
	close(proceed)

	require.NoError(t, <-holderDone)
	require.ErrorIs(t, <-racerDone, errs.ErrInvalidTransition)

	snap, err := env.Store.Reads().TaskByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, housekeeping.StatusVerified, snap.Status)
	require.NotNil(t, snap.VerifiedByID)
	assert.Equal(t, supervisor, *snap.VerifiedByID)
}
