//go:build unit

package commands_test

import (
	"context"
	"testing"

	"stayops/internal/domain/room"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"
	"stayops/internal/usecase/shared"
	"stayops/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomType(t *testing.T) {
	t.Parallel()

	t.Run("normalizes features and returns the stored view", func(t *testing.T) {
		env := newTestEnv(t, testNow)

		view, err := env.Catalog.CreateRoomType(context.Background(), builder.NewRoomTypeBuilder().
			With(func(b *builder.RoomTypeBuilder) {
				b.Features = []string{"WiFi", " balcony ", "wifi"}
			}).
			BuildParams())
		require.NoError(t, err)

		assert.Equal(t, "Deluxe King", view.Name)
		assert.Equal(t, int64(18000), view.BaseRateCents)
		assert.Equal(t, []string{"balcony", "wifi"}, view.Features)
		assert.True(t, view.IsActive)
	})

	t.Run("rejects invalid definitions", func(t *testing.T) {
		env := newTestEnv(t, testNow)

		_, err := env.Catalog.CreateRoomType(context.Background(), builder.NewRoomTypeBuilder().
			With(func(b *builder.RoomTypeBuilder) { b.BaseRateCents = -100 }).
			BuildParams())
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestUpdateRoomType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("patches the configuration", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		rt, err := env.Catalog.CreateRoomType(ctx, builder.NewRoomTypeBuilder().BuildParams())
		require.NoError(t, err)

		rate := int64(21000)
		features := []string{"WiFi", "sea view"}
		updated, err := env.Catalog.UpdateRoomType(ctx, rt.ID, commands.UpdateRoomTypeParams{
			BaseRateCents: &rate,
			Features:      &features,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(21000), updated.BaseRateCents)
		assert.Equal(t, []string{"sea view", "wifi"}, updated.Features)
		// Untouched fields survive.
		assert.Equal(t, "Deluxe King", updated.Name)
		assert.Equal(t, 2, updated.MaxAdults)
	})

	t.Run("refused while the type has active bookings", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")
		b := env.book(t, rm.ID, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))

		rate := int64(99000)
		_, err := env.Catalog.UpdateRoomType(ctx, rm.RoomTypeID, commands.UpdateRoomTypeParams{BaseRateCents: &rate})
		require.ErrorIs(t, err, errs.ErrRoomTypeInUse)

		// The quoted total on the existing booking would have been stale.
		_, err = env.Ledger.Cancel(ctx, b.ID)
		require.NoError(t, err)
		_, err = env.Catalog.UpdateRoomType(ctx, rm.RoomTypeID, commands.UpdateRoomTypeParams{BaseRateCents: &rate})
		require.NoError(t, err)
	})

	t.Run("validation still applies", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		rt, err := env.Catalog.CreateRoomType(ctx, builder.NewRoomTypeBuilder().BuildParams())
		require.NoError(t, err)

		rate := int64(-1)
		_, err = env.Catalog.UpdateRoomType(ctx, rt.ID, commands.UpdateRoomTypeParams{BaseRateCents: &rate})
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("unknown room type", func(t *testing.T) {
		env := newTestEnv(t, testNow)

		_, err := env.Catalog.UpdateRoomType(ctx, uuid.New(), commands.UpdateRoomTypeParams{})
		require.ErrorIs(t, err, errs.ErrRoomTypeNotFound)
	})
}

func TestCreateRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("capacity defaults to the room type occupancy", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		rt, err := env.Catalog.CreateRoomType(ctx, builder.NewRoomTypeBuilder().BuildParams())
		require.NoError(t, err)

		rm, err := env.Catalog.CreateRoom(ctx, commands.CreateRoomParams{
			RoomNumber: "412",
			Floor:      4,
			RoomTypeID: rt.ID,
		})
		require.NoError(t, err)

		// 2 adults + 1 child from the default type.
		assert.Equal(t, 3, rm.Capacity)
		assert.Equal(t, room.StatusVacant, rm.Status)
	})

	t.Run("rejects an unknown room type", func(t *testing.T) {
		env := newTestEnv(t, testNow)

		_, err := env.Catalog.CreateRoom(ctx, commands.CreateRoomParams{
			RoomNumber: "412",
			Floor:      4,
			RoomTypeID: uuid.New(),
		})
		require.ErrorIs(t, err, errs.ErrRoomTypeNotFound)
	})

	t.Run("rejects a duplicate room number", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")

		_, err := env.Catalog.CreateRoom(ctx, commands.CreateRoomParams{
			RoomNumber: "301",
			Floor:      3,
			RoomTypeID: rm.RoomTypeID,
		})
		require.ErrorIs(t, err, errs.ErrDuplicateRoomNumber)
	})

	t.Run("rejects an empty room number", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		rt, err := env.Catalog.CreateRoomType(ctx, builder.NewRoomTypeBuilder().BuildParams())
		require.NoError(t, err)

		_, err = env.Catalog.CreateRoom(ctx, commands.CreateRoomParams{
			RoomNumber: "  ",
			Floor:      1,
			RoomTypeID: rt.ID,
		})
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestRetireRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blocked while a future booking holds the room", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")
		b := env.book(t, rm.ID, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))

		err := env.Catalog.RetireRoom(ctx, rm.ID)
		require.ErrorIs(t, err, errs.ErrRoomHasActiveBooking)

		// Cancelling the stay clears the block.
		_, err = env.Ledger.Cancel(ctx, b.ID)
		require.NoError(t, err)
		require.NoError(t, env.Catalog.RetireRoom(ctx, rm.ID))
	})

	t.Run("retired rooms take no new bookings and retiring again is a no-op", func(t *testing.T) {
		env := newTestEnv(t, testNow)
		_, rm := env.seedRoom(t, "301")

		require.NoError(t, env.Catalog.RetireRoom(ctx, rm.ID))
		require.NoError(t, env.Catalog.RetireRoom(ctx, rm.ID))

		_, err := env.Ledger.CreateBooking(ctx, builder.NewBookingParamsBuilder(rm.ID).Build())
		require.ErrorIs(t, err, errs.ErrRoomNotAvailable)
	})

	t.Run("unknown room", func(t *testing.T) {
		env := newTestEnv(t, testNow)

		err := env.Catalog.RetireRoom(ctx, uuid.New())
		require.ErrorIs(t, err, errs.ErrRoomNotFound)
	})
}

func TestListRooms(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := newTestEnv(t, testNow)
	rt, err := env.Catalog.CreateRoomType(ctx, builder.NewRoomTypeBuilder().BuildParams())
	require.NoError(t, err)

	byNumber := make(map[string]*queries.RoomView)
	for _, def := range []struct {
		number string
		floor  int
	}{
		{"305", 3},
		{"101", 1},
		{"202", 2},
	} {
		rm, err := env.Catalog.CreateRoom(ctx, commands.CreateRoomParams{
			RoomNumber: def.number,
			Floor:      def.floor,
			RoomTypeID: rt.ID,
		})
		require.NoError(t, err)
		byNumber[def.number] = rm
	}

	numbersOf := func(filter shared.RoomFilter) []string {
		seq, err := env.Catalog.ListRooms(ctx, filter)
		require.NoError(t, err)
		var numbers []string
		for rm := range seq {
			numbers = append(numbers, rm.RoomNumber)
		}
		return numbers
	}

	t.Run("orders by room number", func(t *testing.T) {
		assert.Equal(t, []string{"101", "202", "305"}, numbersOf(shared.RoomFilter{}))
	})

	t.Run("filters by floor", func(t *testing.T) {
		floor := 3
		assert.Equal(t, []string{"305"}, numbersOf(shared.RoomFilter{Floor: &floor}))
	})

	t.Run("filters by status", func(t *testing.T) {
		_, err := env.Status.SetMaintenance(ctx, byNumber["202"].ID)
		require.NoError(t, err)

		status := room.StatusMaintenance
		assert.Equal(t, []string{"202"}, numbersOf(shared.RoomFilter{Status: &status}))

		_, err = env.Status.ClearMaintenance(ctx, byNumber["202"].ID)
		require.NoError(t, err)
	})

	t.Run("excludes retired rooms unless asked", func(t *testing.T) {
		require.NoError(t, env.Catalog.RetireRoom(ctx, byNumber["101"].ID))

		assert.Equal(t, []string{"202", "305"}, numbersOf(shared.RoomFilter{}))
		assert.Equal(t, []string{"101", "202", "305"}, numbersOf(shared.RoomFilter{IncludeRetired: true}))
	})

	t.Run("stops yielding when the consumer breaks", func(t *testing.T) {
		seq, err := env.Catalog.ListRooms(ctx, shared.RoomFilter{IncludeRetired: true})
		require.NoError(t, err)
		var first string
		for rm := range seq {
			first = rm.RoomNumber
			break
		}
		assert.Equal(t, "101", first)
	})
}
