package queries

import (
	"context"
	"log/slog"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
)

// AvailabilityQueries is the read-only side of the engine. Every predicate
// here uses the same half-open overlap rule as the booking ledger; the two
// must never disagree.
type AvailabilityQueries interface {
	FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, filter AvailabilityFilter) ([]RoomView, error)
	OccupancyCalendar(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) ([]RoomCalendar, error)
	OccupancyRate(ctx context.Context, from, to time.Time) (*OccupancyReport, error)
}

type availabilityQueriesImpl struct {
	uow    shared.UnitOfWork
	logger *slog.Logger
}

func NewAvailabilityQueries(uow shared.UnitOfWork, logger *slog.Logger) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:    uow,
		logger: logger,
	}
}

const (
	readMaxRetries  = 3
	readBackoffBase = 100 * time.Millisecond
)

// withReadRetry retries a read-only snapshot on transient store failures with
// bounded exponential backoff. Writes never go through here.
func (q *availabilityQueriesImpl) withReadRetry(ctx context.Context, fn func(ctx context.Context, r shared.Reads) error) error {
	var err error
	for attempt := 0; attempt <= readMaxRetries; attempt++ {
		err = q.uow.WithinReadOnly(ctx, fn)
		if err == nil {
			return nil
		}
		if !infra.IsKind(err, infra.KindTransient) || attempt == readMaxRetries {
			return err
		}

		waitTime := time.Duration(1<<attempt) * readBackoffBase
		q.logger.Warn("retrying read-only query after transient store error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
	return err
}

func (q *availabilityQueriesImpl) FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, filter AvailabilityFilter) ([]RoomView, error) {
	period, err := booking.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDateRange)
	}

	var result []RoomView
	err = q.withReadRetry(ctx, func(ctx context.Context, r shared.Reads) error {
		rooms, err := r.Rooms(ctx, shared.RoomFilter{
			Floor:      filter.Floor,
			RoomTypeID: filter.RoomTypeID,
		})
		if err != nil {
			return err
		}

		candidates := make([]shared.RoomSnapshot, 0, len(rooms))
		candidateIDs := make([]uuid.UUID, 0, len(rooms))
		for _, rm := range rooms {
			if rm.Status == room.StatusMaintenance {
				continue
			}
			if filter.MinCapacity != nil && rm.Capacity < *filter.MinCapacity {
				continue
			}
			candidates = append(candidates, rm)
			candidateIDs = append(candidateIDs, rm.ID)
		}
		if len(candidates) == 0 {
			result = []RoomView{}
			return nil
		}

		blocking, err := r.BookingsOverlappingRange(ctx, candidateIDs, period)
		if err != nil {
			return err
		}
		occupied := make(map[uuid.UUID]bool, len(blocking))
		for _, b := range blocking {
			if b.Status.BlocksAvailability() {
				occupied[b.RoomID] = true
			}
		}

		result = make([]RoomView, 0, len(candidates))
		for _, rm := range candidates {
			if occupied[rm.ID] {
				continue
			}
			result = append(result, toRoomView(rm))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (q *availabilityQueriesImpl) OccupancyCalendar(ctx context.Context, roomIDs []uuid.UUID, from, to time.Time) ([]RoomCalendar, error) {
	period, err := booking.NewStayPeriod(from, to)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDateRange)
	}

	var result []RoomCalendar
	err = q.withReadRetry(ctx, func(ctx context.Context, r shared.Reads) error {
		bookings, err := r.BookingsOverlappingRange(ctx, roomIDs, period)
		if err != nil {
			return err
		}
		byRoom := make(map[uuid.UUID][]shared.BookingSnapshot, len(roomIDs))
		for _, b := range bookings {
			byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
		}

		result = make([]RoomCalendar, 0, len(roomIDs))
		for _, roomID := range roomIDs {
			rm, err := r.RoomByID(ctx, roomID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.Mark(err, errs.ErrRoomNotFound)
				}
				return err
			}

			cal := RoomCalendar{
				RoomID:     rm.ID,
				RoomNumber: rm.RoomNumber,
				Days:       make([]CalendarDay, 0, period.Nights()),
			}
			for day := period.CheckIn(); day.Before(period.CheckOut()); day = day.AddDate(0, 0, 1) {
				cal.Days = append(cal.Days, q.renderDay(rm, byRoom[roomID], day))
			}
			result = append(result, cal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// renderDay resolves one grid cell. A day belongs to at most one booking:
// the ledger's no-overlap invariant guarantees blocking intervals are
// disjoint, so the first hit wins without duplication.
func (q *availabilityQueriesImpl) renderDay(rm *shared.RoomSnapshot, bookings []shared.BookingSnapshot, day time.Time) CalendarDay {
	cell := CalendarDay{Date: day}
	for _, b := range bookings {
		p, err := b.Period()
		if err != nil {
			continue
		}
		if p.Contains(day) {
			cell.Occupancy = &CalendarOccupancy{
				BookingID: b.ID,
				GuestID:   b.GuestID,
				Status:    b.Status,
			}
			return cell
		}
	}
	if rm.Status == room.StatusMaintenance || rm.Status == room.StatusCleaning {
		st := rm.Status
		cell.RoomStatus = &st
	}
	return cell
}

func (q *availabilityQueriesImpl) OccupancyRate(ctx context.Context, from, to time.Time) (*OccupancyReport, error) {
	period, err := booking.NewStayPeriod(from, to)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDateRange)
	}

	var report *OccupancyReport
	err = q.withReadRetry(ctx, func(ctx context.Context, r shared.Reads) error {
		rooms, err := r.Rooms(ctx, shared.RoomFilter{})
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			report = &OccupancyReport{From: period.CheckIn(), To: period.CheckOut(), Nights: period.Nights()}
			return nil
		}

		roomIDs := make([]uuid.UUID, len(rooms))
		for i, rm := range rooms {
			roomIDs[i] = rm.ID
		}
		bookings, err := r.BookingsOverlappingRange(ctx, roomIDs, period)
		if err != nil {
			return err
		}

		occupiedNights := 0
		for _, b := range bookings {
			p, err := b.Period()
			if err != nil {
				continue
			}
			occupiedNights += clampedNights(p, period)
		}

		totalNights := len(rooms) * period.Nights()
		report = &OccupancyReport{
			From:               period.CheckIn(),
			To:                 period.CheckOut(),
			Nights:             period.Nights(),
			ActiveRooms:        len(rooms),
			OccupiedRoomNights: occupiedNights,
			Rate:               float64(occupiedNights) / float64(totalNights),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// clampedNights counts the nights of p that fall inside bounds.
func clampedNights(p, bounds booking.StayPeriod) int {
	start := p.CheckIn()
	if start.Before(bounds.CheckIn()) {
		start = bounds.CheckIn()
	}
	end := p.CheckOut()
	if end.After(bounds.CheckOut()) {
		end = bounds.CheckOut()
	}
	if !end.After(start) {
		return 0
	}
	clamped, err := booking.NewStayPeriod(start, end)
	if err != nil {
		return 0
	}
	return clamped.Nights()
}

func toRoomView(s shared.RoomSnapshot) RoomView {
	return RoomView{
		ID:         s.ID,
		RoomNumber: s.RoomNumber,
		Floor:      s.Floor,
		RoomTypeID: s.RoomTypeID,
		Status:     s.Status,
		Capacity:   s.Capacity,
	}
}
