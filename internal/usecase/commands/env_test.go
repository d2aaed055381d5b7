//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/infra/memstore"
	"stayops/internal/pkg/clock"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"
	"stayops/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full engine onto a fresh in-memory store with a mock
// clock, the way the application container does with Postgres.
type testEnv struct {
	Store        *memstore.Store
	Clock        *clock.MockClock
	Catalog      commands.RoomCatalog
	Status       commands.RoomStatusController
	Housekeeping commands.HousekeepingScheduler
	Ledger       commands.BookingLedger
	Availability queries.AvailabilityQueries
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.NewStore()
	mc := clock.NewMockClock(now)
	factory := booking.NewFactory(mc, booking.NewStandardRateCalculator(2500))

	status := commands.NewRoomStatusController(store, logger)
	housekeeping := commands.NewHousekeepingScheduler(store, status, mc, logger)
	return &testEnv{
		Store:        store,
		Clock:        mc,
		Catalog:      commands.NewRoomCatalog(store, mc, logger),
		Status:       status,
		Housekeeping: housekeeping,
		Ledger:       commands.NewBookingLedger(store, factory, status, housekeeping, mc, logger),
		Availability: queries.NewAvailabilityQueries(store, logger),
	}
}

// seedRoom creates one room type and one room and returns their views.
func (e *testEnv) seedRoom(t *testing.T, roomNumber string) (*queries.RoomTypeView, *queries.RoomView) {
	t.Helper()
	ctx := context.Background()

	rt, err := e.Catalog.CreateRoomType(ctx, builder.NewRoomTypeBuilder().
		With(func(b *builder.RoomTypeBuilder) { b.Name = "Deluxe King " + roomNumber }).
		BuildParams())
	require.NoError(t, err)

	rb := builder.NewRoomBuilder()
	rm, err := e.Catalog.CreateRoom(ctx, commands.CreateRoomParams{
		RoomNumber: roomNumber,
		Floor:      rb.Floor,
		RoomTypeID: rt.ID,
		Capacity:   rb.Capacity,
	})
	require.NoError(t, err)
	return rt, rm
}

// book creates a confirmed booking on the room for [checkIn, checkOut).
func (e *testEnv) book(t *testing.T, roomID uuid.UUID, checkIn, checkOut time.Time) *queries.BookingView {
	t.Helper()
	result, err := e.Ledger.CreateBooking(context.Background(), builder.NewBookingParamsBuilder(roomID).
		With(func(b *builder.BookingParamsBuilder) {
			b.CheckIn = checkIn
			b.CheckOut = checkOut
		}).
		Build())
	require.NoError(t, err)
	return result.Booking
}

// roomStatusOf reads the room's current status from committed state.
func (e *testEnv) roomStatusOf(t *testing.T, roomID uuid.UUID) string {
	t.Helper()
	snap, err := e.Store.Reads().RoomByID(context.Background(), roomID)
	require.NoError(t, err)
	return snap.Status.String()
}
