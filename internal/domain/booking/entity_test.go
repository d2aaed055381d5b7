//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"
	"stayops/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(now time.Time) (*booking.Factory, *clock.MockClock) {
	mc := clock.NewMockClock(now)
	return booking.NewFactory(mc, booking.NewStandardRateCalculator(2500)), mc
}

func newConfirmedBooking(t *testing.T, f *booking.Factory, checkIn, checkOut time.Time) *booking.Booking {
	t.Helper()
	period, err := booking.NewStayPeriod(checkIn, checkOut)
	require.NoError(t, err)
	b, err := f.NewBooking(
		booking.RateContext{RoomTypeID: uuid.New(), BaseRateCents: 18000, MaxOccupancy: 3},
		booking.NewBookingParams{
			GuestID:        uuid.New(),
			RoomID:         uuid.New(),
			Period:         period,
			NumberOfGuests: 2,
		},
	)
	require.NoError(t, err)
	return b
}

func TestFactoryNewBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("quotes base rate times nights", func(t *testing.T) {
		f, _ := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, int64(3*18000), b.TotalAmount().Cents())
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
	})

	t.Run("surcharges guests beyond occupancy cap", func(t *testing.T) {
		f, _ := newTestFactory(now)
		period, err := booking.NewStayPeriod(builder.Date(2025, 6, 10), builder.Date(2025, 6, 12))
		require.NoError(t, err)
		b, err := f.NewBooking(
			booking.RateContext{BaseRateCents: 10000, MaxOccupancy: 2},
			booking.NewBookingParams{
				GuestID:        uuid.New(),
				RoomID:         uuid.New(),
				Period:         period,
				NumberOfGuests: 4,
			},
		)
		require.NoError(t, err)
		// 2 nights * 10000 + 2 extra guests * 2500, flat per stay.
		assert.Equal(t, int64(25000), b.TotalAmount().Cents())
	})

	t.Run("deferred payment starts pending", func(t *testing.T) {
		f, _ := newTestFactory(now)
		period, err := booking.NewStayPeriod(builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
		require.NoError(t, err)
		b, err := f.NewBooking(
			booking.RateContext{BaseRateCents: 18000, MaxOccupancy: 2},
			booking.NewBookingParams{
				GuestID:        uuid.New(),
				RoomID:         uuid.New(),
				Period:         period,
				NumberOfGuests: 1,
				DeferPayment:   true,
			},
		)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("rejects past check-in unless backdating is allowed", func(t *testing.T) {
		f, _ := newTestFactory(now)
		period, err := booking.NewStayPeriod(builder.Date(2025, 5, 20), builder.Date(2025, 5, 22))
		require.NoError(t, err)
		params := booking.NewBookingParams{
			GuestID:        uuid.New(),
			RoomID:         uuid.New(),
			Period:         period,
			NumberOfGuests: 1,
		}
		_, err = f.NewBooking(booking.RateContext{BaseRateCents: 100, MaxOccupancy: 2}, params)
		assert.ErrorIs(t, err, booking.ErrPastCheckIn)

		params.AllowBackdated = true
		_, err = f.NewBooking(booking.RateContext{BaseRateCents: 100, MaxOccupancy: 2}, params)
		assert.NoError(t, err)
	})

	t.Run("rejects zero guests", func(t *testing.T) {
		f, _ := newTestFactory(now)
		period, err := booking.NewStayPeriod(builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
		require.NoError(t, err)
		_, err = f.NewBooking(booking.RateContext{BaseRateCents: 100, MaxOccupancy: 2}, booking.NewBookingParams{
			GuestID: uuid.New(),
			RoomID:  uuid.New(),
			Period:  period,
		})
		assert.ErrorIs(t, err, booking.ErrInvalidGuestCount)
	})
}

func TestBookingLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("check-in requires today inside the stay window", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))

		err := b.CheckIn(mc.Now())
		assert.ErrorIs(t, err, booking.ErrCheckInOutsideWindow)

		mc.Set(time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
		require.NoError(t, b.CheckIn(mc.Now()))
		assert.Equal(t, booking.StatusCheckedIn, b.Status())
		require.NotNil(t, b.CheckedInAt())
	})

	t.Run("early departure shrinks the period", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 15))
		mc.Set(time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
		require.NoError(t, b.CheckIn(mc.Now()))

		mc.Set(time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC))
		require.NoError(t, b.CheckOut(mc.Now()))
		assert.Equal(t, booking.StatusCheckedOut, b.Status())
		// Nights 12-15 are released back to availability.
		assert.Equal(t, builder.Date(2025, 6, 12), b.Period().CheckOut())
	})

	t.Run("same-day departure keeps one night", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 15))
		mc.Set(time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
		require.NoError(t, b.CheckIn(mc.Now()))

		mc.Set(time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC))
		require.NoError(t, b.CheckOut(mc.Now()))
		assert.Equal(t, builder.Date(2025, 6, 11), b.Period().CheckOut())
	})

	t.Run("cancel refunds a paid booking", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
		b.MarkPaid(mc.Now())

		require.NoError(t, b.Cancel(mc.Now()))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, booking.PaymentRefunded, b.PaymentStatus())
	})

	t.Run("no-show requires the check-in date to have passed", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))

		mc.Set(time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, b.MarkNoShow(mc.Now()), booking.ErrNoShowTooEarly)

		mc.Set(time.Date(2025, 6, 11, 1, 0, 0, 0, time.UTC))
		require.NoError(t, b.MarkNoShow(mc.Now()))
		assert.Equal(t, booking.StatusNoShow, b.Status())
	})

	t.Run("terminal states absorb", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
		require.NoError(t, b.Cancel(mc.Now()))

		assert.ErrorIs(t, b.Confirm(mc.Now()), booking.ErrInvalidStatusChange)
		assert.ErrorIs(t, b.CheckIn(mc.Now()), booking.ErrInvalidStatusChange)
		assert.ErrorIs(t, b.Cancel(mc.Now()), booking.ErrInvalidStatusChange)
	})

	t.Run("transfer successor carries quote and payment state", func(t *testing.T) {
		f, mc := newTestFactory(now)
		b := newConfirmedBooking(t, f, builder.Date(2025, 6, 10), builder.Date(2025, 6, 15))
		mc.Set(time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC))
		require.NoError(t, b.CheckIn(mc.Now()))
		b.MarkPaid(mc.Now())

		mc.Set(time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC))
		newRoomID := uuid.New()
		succ, err := f.NewTransferSuccessor(b, newRoomID)
		require.NoError(t, err)
		require.NoError(t, b.CloseForTransfer(succ.ID(), mc.Now()))

		assert.Equal(t, booking.StatusCheckedOut, b.Status())
		require.NotNil(t, b.TransferredTo())
		assert.Equal(t, succ.ID(), *b.TransferredTo())
		assert.Equal(t, builder.Date(2025, 6, 12), b.Period().CheckOut())

		assert.Equal(t, booking.StatusCheckedIn, succ.Status())
		assert.Equal(t, newRoomID, succ.RoomID())
		assert.Equal(t, builder.Date(2025, 6, 12), succ.Period().CheckIn())
		assert.Equal(t, builder.Date(2025, 6, 15), succ.Period().CheckOut())
		assert.Equal(t, b.TotalAmount().Cents(), succ.TotalAmount().Cents())
		assert.Equal(t, booking.PaymentPaid, succ.PaymentStatus())
		require.NotNil(t, succ.TransferredFrom())
		assert.Equal(t, b.ID(), *succ.TransferredFrom())
		assert.True(t, succ.IsTransfer())
	})
}
