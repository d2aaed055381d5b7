//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayops/internal/domain/booking"
	"stayops/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStayPeriod(t *testing.T) {
	t.Run("normalizes bounds to UTC midnight", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		p, err := booking.NewStayPeriod(
			time.Date(2025, 6, 10, 15, 30, 0, 0, jst),
			time.Date(2025, 6, 13, 11, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, builder.Date(2025, 6, 10), p.CheckIn())
		assert.Equal(t, builder.Date(2025, 6, 13), p.CheckOut())
		assert.Equal(t, 3, p.Nights())
	})

	t.Run("rejects empty and inverted ranges", func(t *testing.T) {
		_, err := booking.NewStayPeriod(builder.Date(2025, 6, 10), builder.Date(2025, 6, 10))
		assert.ErrorIs(t, err, booking.ErrInvalidStayPeriod)

		_, err = booking.NewStayPeriod(builder.Date(2025, 6, 13), builder.Date(2025, 6, 10))
		assert.ErrorIs(t, err, booking.ErrInvalidStayPeriod)
	})

	t.Run("overlap is half-open", func(t *testing.T) {
		cases := []struct {
			name     string
			aStart   time.Time
			aEnd     time.Time
			bStart   time.Time
			bEnd     time.Time
			overlaps bool
		}{
			{
				name:   "back-to-back: departure day equals arrival day",
				aStart: builder.Date(2025, 6, 10), aEnd: builder.Date(2025, 6, 13),
				bStart: builder.Date(2025, 6, 13), bEnd: builder.Date(2025, 6, 15),
				overlaps: false,
			},
			{
				name:   "one shared night",
				aStart: builder.Date(2025, 6, 10), aEnd: builder.Date(2025, 6, 13),
				bStart: builder.Date(2025, 6, 12), bEnd: builder.Date(2025, 6, 15),
				overlaps: true,
			},
			{
				name:   "contained interval",
				aStart: builder.Date(2025, 6, 10), aEnd: builder.Date(2025, 6, 20),
				bStart: builder.Date(2025, 6, 12), bEnd: builder.Date(2025, 6, 14),
				overlaps: true,
			},
			{
				name:   "identical interval",
				aStart: builder.Date(2025, 6, 10), aEnd: builder.Date(2025, 6, 13),
				bStart: builder.Date(2025, 6, 10), bEnd: builder.Date(2025, 6, 13),
				overlaps: true,
			},
			{
				name:   "disjoint with a gap",
				aStart: builder.Date(2025, 6, 10), aEnd: builder.Date(2025, 6, 12),
				bStart: builder.Date(2025, 6, 20), bEnd: builder.Date(2025, 6, 22),
				overlaps: false,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				a, err := booking.NewStayPeriod(tc.aStart, tc.aEnd)
				require.NoError(t, err)
				b, err := booking.NewStayPeriod(tc.bStart, tc.bEnd)
				require.NoError(t, err)
				assert.Equal(t, tc.overlaps, a.Overlaps(b))
				assert.Equal(t, tc.overlaps, b.Overlaps(a))
			})
		}
	})

	t.Run("contains excludes check-out day", func(t *testing.T) {
		p, err := booking.NewStayPeriod(builder.Date(2025, 6, 10), builder.Date(2025, 6, 13))
		require.NoError(t, err)
		assert.True(t, p.Contains(builder.Date(2025, 6, 10)))
		assert.True(t, p.Contains(builder.Date(2025, 6, 12)))
		assert.False(t, p.Contains(builder.Date(2025, 6, 13)))
		assert.False(t, p.Contains(builder.Date(2025, 6, 9)))
	})

	t.Run("remainder clamps to period start", func(t *testing.T) {
		p, err := booking.NewStayPeriod(builder.Date(2025, 6, 10), builder.Date(2025, 6, 15))
		require.NoError(t, err)

		rem, err := p.RemainderFrom(builder.Date(2025, 6, 12))
		require.NoError(t, err)
		assert.Equal(t, builder.Date(2025, 6, 12), rem.CheckIn())
		assert.Equal(t, builder.Date(2025, 6, 15), rem.CheckOut())

		rem, err = p.RemainderFrom(builder.Date(2025, 6, 1))
		require.NoError(t, err)
		assert.Equal(t, builder.Date(2025, 6, 10), rem.CheckIn())

		_, err = p.RemainderFrom(builder.Date(2025, 6, 15))
		assert.ErrorIs(t, err, booking.ErrInvalidStayPeriod)
	})
}

func TestMoney(t *testing.T) {
	_, err := booking.NewMoney(-1)
	assert.ErrorIs(t, err, booking.ErrNegativeAmount)

	a, err := booking.NewMoney(18000)
	require.NoError(t, err)
	b, err := booking.NewMoney(2500)
	require.NoError(t, err)
	assert.Equal(t, int64(20500), a.Add(b).Cents())
}
