//go:build unit

package housekeeping_test

import (
	"testing"
	"time"

	"stayops/internal/domain/housekeeping"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T) *housekeeping.Task {
	t.Helper()
	now := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
	task, err := housekeeping.NewTask(uuid.New(), housekeeping.CleaningCheckout, now, now)
	require.NoError(t, err)
	return task
}

func TestTaskLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

	t.Run("full lifecycle", func(t *testing.T) {
		task := newTask(t)
		staff := uuid.New()
		supervisor := uuid.New()

		require.NoError(t, task.Assign(staff, now))
		require.NoError(t, task.Start(now))
		require.NoError(t, task.Complete("minibar restocked", now))
		require.NoError(t, task.Verify(supervisor, "spotless", now))

		assert.Equal(t, housekeeping.StatusVerified, task.Status())
		assert.False(t, task.Status().IsOpen())
		assert.False(t, task.VerifierIsAssignee())
		assert.Equal(t, "spotless", task.VerificationNotes())
		require.NotNil(t, task.CompletedAt())
	})

	t.Run("start requires an assignee", func(t *testing.T) {
		task := newTask(t)
		assert.ErrorIs(t, task.Start(now), housekeeping.ErrTaskNotAssigned)
	})

	t.Run("lifecycle is strictly linear", func(t *testing.T) {
		task := newTask(t)
		staff := uuid.New()

		assert.ErrorIs(t, task.Complete("", now), housekeeping.ErrInvalidTaskChange)
		assert.ErrorIs(t, task.Verify(staff, "", now), housekeeping.ErrInvalidTaskChange)

		require.NoError(t, task.Assign(staff, now))
		require.NoError(t, task.Start(now))
		// Assign after start is rejected; the task is no longer pending.
		assert.ErrorIs(t, task.Assign(uuid.New(), now), housekeeping.ErrInvalidTaskChange)
		assert.ErrorIs(t, task.Verify(staff, "", now), housekeeping.ErrInvalidTaskChange)
	})

	t.Run("verifier equals assignee is flagged, not rejected", func(t *testing.T) {
		task := newTask(t)
		staff := uuid.New()

		require.NoError(t, task.Assign(staff, now))
		require.NoError(t, task.Start(now))
		require.NoError(t, task.Complete("", now))
		require.NoError(t, task.Verify(staff, "", now))
		assert.True(t, task.VerifierIsAssignee())
	})

	t.Run("invalid cleaning type", func(t *testing.T) {
		_, err := housekeeping.NewTask(uuid.New(), housekeeping.CleaningType("fumigation"), now, now)
		assert.ErrorIs(t, err, housekeeping.ErrInvalidCleaningType)
	})
}
