//go:build unit

package room_test

import (
	"testing"
	"time"

	"stayops/internal/domain/room"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomType(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		rt, err := room.NewRoomType("Deluxe King", 18000, 2, 1, 1, []string{"WiFi", " balcony ", "wifi"}, now)
		require.NoError(t, err)
		assert.Equal(t, 3, rt.MaxOccupancy())
		assert.True(t, rt.IsActive())
		// Features normalize: lower-cased, trimmed, deduplicated, sorted.
		assert.Equal(t, []string{"balcony", "wifi"}, rt.Features().Values())
		assert.True(t, rt.Features().Contains("WIFI"))
	})

	cases := []struct {
		name  string
		build func() (*room.RoomType, error)
		errIs error
	}{
		{
			name: "empty name",
			build: func() (*room.RoomType, error) {
				return room.NewRoomType("", 100, 2, 0, 1, nil, now)
			},
			errIs: room.ErrEmptyName,
		},
		{
			name: "zero occupancy",
			build: func() (*room.RoomType, error) {
				return room.NewRoomType("Closet", 100, 0, 0, 1, nil, now)
			},
			errIs: room.ErrInvalidOccupancy,
		},
		{
			name: "negative rate",
			build: func() (*room.RoomType, error) {
				return room.NewRoomType("Budget", -1, 2, 0, 1, nil, now)
			},
			errIs: room.ErrNegativeRate,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestNewRoom(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rm, err := room.NewRoom("301", 3, uuid.New(), 3, now)
	require.NoError(t, err)
	assert.Equal(t, room.StatusVacant, rm.Status())
	assert.False(t, rm.IsRetired())

	_, err = room.NewRoom("", 3, uuid.New(), 3, now)
	assert.ErrorIs(t, err, room.ErrEmptyRoomNumber)

	_, err = room.NewRoom("302", 3, uuid.New(), 0, now)
	assert.ErrorIs(t, err, room.ErrInvalidCapacity)
}

func TestRoomRetire(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rm, err := room.NewRoom("301", 3, uuid.New(), 3, now)
	require.NoError(t, err)

	require.NoError(t, rm.Retire(now))
	assert.True(t, rm.IsRetired())
	assert.ErrorIs(t, rm.Retire(now), room.ErrRoomRetired)
}
