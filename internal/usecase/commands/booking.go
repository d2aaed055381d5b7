package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/event"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/queries"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	GuestID        uuid.UUID
	RoomID         uuid.UUID
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfGuests int
	// DeferPayment leaves the booking Pending (holding no inventory) until
	// payment capture confirms it.
	DeferPayment bool
	// AllowBackdated admits past check-in dates for migrations and fixtures.
	AllowBackdated bool
}

type BookingResult struct {
	Booking *queries.BookingView
	Events  []event.Event
}

type TransferResult struct {
	OldBooking *queries.BookingView
	NewBooking *queries.BookingView
	Events     []event.Event
}

// BookingLedger owns bookings and enforces the no-overlap invariant: for any
// room, Confirmed and CheckedIn bookings have pairwise-disjoint half-open
// intervals. Every mutation runs as a per-room serialized transaction.
type BookingLedger interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*BookingResult, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error)
	CheckIn(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error)
	CheckOut(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error)
	Cancel(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error)
	// TransferRoom moves a checked-in stay to another room: the source
	// booking closes with a transfer marker and a successor opens on the
	// destination for the remaining nights, all in one transaction.
	TransferRoom(ctx context.Context, bookingID, newRoomID uuid.UUID) (*TransferResult, error)

	// SweepArrivals marks rooms Reserved for confirmed bookings whose
	// check-in date arrived today. SweepNoShows absorbs confirmed bookings
	// whose check-in date passed without a check-in. Both are driven by the
	// background daemon and are safe to repeat.
	SweepArrivals(ctx context.Context) ([]event.Event, error)
	SweepNoShows(ctx context.Context) ([]event.Event, error)
}

type bookingLedgerImpl struct {
	uow          shared.UnitOfWork
	factory      *booking.Factory
	roomStatus   RoomStatusController
	housekeeping HousekeepingScheduler
	clock        clock.Clock
	logger       *slog.Logger
}

func NewBookingLedger(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	roomStatus RoomStatusController,
	housekeeping HousekeepingScheduler,
	c clock.Clock,
	logger *slog.Logger,
) BookingLedger {
	return &bookingLedgerImpl{
		uow:          uow,
		factory:      factory,
		roomStatus:   roomStatus,
		housekeeping: housekeeping,
		clock:        c,
		logger:       logger,
	}
}

func (l *bookingLedgerImpl) CreateBooking(ctx context.Context, params CreateBookingParams) (*BookingResult, error) {
	period, err := booking.NewStayPeriod(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDateRange)
	}

	var result *BookingResult
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockRooms(ctx, params.RoomID); err != nil {
			return err
		}

		rm, err := tx.Reads().RoomByID(ctx, params.RoomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomNotFound)
			}
			return err
		}
		if rm.Retired {
			return errs.Mark(errs.Newf("room %s is retired", rm.RoomNumber), errs.ErrRoomNotAvailable)
		}

		roomType, err := tx.Reads().RoomTypeByID(ctx, rm.RoomTypeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomTypeNotFound)
			}
			return err
		}

		conflicts, err := tx.Reads().BlockingBookings(ctx, params.RoomID, period)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return conflictErr(rm.RoomNumber, conflicts[0].ID, period)
		}

		entity, err := l.factory.NewBooking(
			booking.RateContext{
				RoomTypeID:    roomType.ID,
				BaseRateCents: roomType.BaseRateCents,
				MaxOccupancy:  roomType.MaxOccupancy(),
			},
			booking.NewBookingParams{
				GuestID:        params.GuestID,
				RoomID:         params.RoomID,
				Period:         period,
				NumberOfGuests: params.NumberOfGuests,
				DeferPayment:   params.DeferPayment,
				AllowBackdated: params.AllowBackdated,
			},
		)
		if err != nil {
			if errors.Is(err, booking.ErrPastCheckIn) || errors.Is(err, booking.ErrInvalidStayPeriod) {
				return errs.Mark(err, errs.ErrInvalidDateRange)
			}
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Bookings().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return conflictErr(rm.RoomNumber, uuid.Nil, period)
			}
			return err
		}

		events := []event.Event{event.BookingCreated{
			BookingID: entity.ID(),
			RoomID:    entity.RoomID(),
			GuestID:   entity.GuestID(),
			Period:    entity.Period(),
			Status:    entity.Status(),
		}}

		// A confirmed same-day arrival holds the room immediately.
		today := clock.Today(l.clock)
		if entity.Status().BlocksAvailability() && period.CheckIn().Equal(today) && rm.Status == room.StatusVacant {
			ev, err := l.roomStatus.TransitionTx(ctx, tx, params.RoomID, room.StatusReserved, room.TriggerBookingArrival)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		result = &BookingResult{Booking: toBookingView(entity), Events: events}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (l *bookingLedgerImpl) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error) {
	var result *BookingResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, rm, err := l.loadBookingLocked(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		// A Pending booking held no inventory, so the interval must be
		// re-validated before confirmation starts blocking it.
		conflicts, err := tx.Reads().BlockingBookings(ctx, entity.RoomID(), entity.Period())
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return conflictErr(rm.RoomNumber, conflicts[0].ID, entity.Period())
		}

		if err := entity.Confirm(l.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return conflictErr(rm.RoomNumber, uuid.Nil, entity.Period())
			}
			return err
		}

		events := []event.Event{event.BookingConfirmed{
			BookingID: entity.ID(),
			RoomID:    entity.RoomID(),
		}}

		today := clock.Today(l.clock)
		if entity.Period().CheckIn().Equal(today) && rm.Status == room.StatusVacant {
			ev, err := l.roomStatus.TransitionTx(ctx, tx, entity.RoomID(), room.StatusReserved, room.TriggerBookingArrival)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		result = &BookingResult{Booking: toBookingView(entity), Events: events}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (l *bookingLedgerImpl) CheckIn(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error) {
	var result *BookingResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, rm, err := l.loadBookingLocked(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if err := entity.CheckIn(l.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return err
		}

		events := []event.Event{event.GuestCheckedIn{
			BookingID: entity.ID(),
			RoomID:    entity.RoomID(),
			GuestID:   entity.GuestID(),
		}}

		// The arrival sweep may not have run yet today; catch the room up.
		if rm.Status == room.StatusVacant {
			ev, err := l.roomStatus.TransitionTx(ctx, tx, entity.RoomID(), room.StatusReserved, room.TriggerBookingArrival)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		ev, err := l.roomStatus.TransitionTx(ctx, tx, entity.RoomID(), room.StatusOccupied, room.TriggerCheckIn)
		if err != nil {
			return err
		}
		events = append(events, ev)

		result = &BookingResult{Booking: toBookingView(entity), Events: events}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (l *bookingLedgerImpl) CheckOut(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error) {
	var result *BookingResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, _, err := l.loadBookingLocked(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		now := l.clock.Now()
		if err := entity.CheckOut(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return err
		}

		events := []event.Event{event.GuestCheckedOut{
			BookingID:    entity.ID(),
			RoomID:       entity.RoomID(),
			GuestID:      entity.GuestID(),
			CheckedOutAt: now,
		}}

		ev, err := l.roomStatus.TransitionTx(ctx, tx, entity.RoomID(), room.StatusCheckout, room.TriggerCheckOut)
		if err != nil {
			return err
		}
		events = append(events, ev)

		taskEvents, err := l.openCheckoutClean(ctx, tx, entity.RoomID())
		if err != nil {
			return err
		}
		events = append(events, taskEvents...)

		result = &BookingResult{Booking: toBookingView(entity), Events: events}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (l *bookingLedgerImpl) Cancel(ctx context.Context, bookingID uuid.UUID) (*BookingResult, error) {
	var result *BookingResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, rm, err := l.loadBookingLocked(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		wasBlocking := entity.Status().BlocksAvailability()
		if err := entity.Cancel(l.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return err
		}

		events := []event.Event{event.BookingCancelled{
			BookingID: entity.ID(),
			RoomID:    entity.RoomID(),
		}}

		if wasBlocking && rm.Status == room.StatusReserved {
			ev, released, err := l.releaseReservedRoom(ctx, tx, entity.RoomID())
			if err != nil {
				return err
			}
			if released {
				events = append(events, ev)
			}
		}

		result = &BookingResult{Booking: toBookingView(entity), Events: events}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (l *bookingLedgerImpl) TransferRoom(ctx context.Context, bookingID, newRoomID uuid.UUID) (*TransferResult, error) {
	var result *TransferResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}
		if snap.RoomID == newRoomID {
			return errs.Mark(errs.New("transfer requires a different room"), errs.ErrDomainValidation)
		}

		// Both rooms lock up front; LockRooms orders by id so two transfers
		// swapping rooms cannot deadlock.
		if err := tx.LockRooms(ctx, snap.RoomID, newRoomID); err != nil {
			return err
		}
		// Re-read under the locks: the stay may have ended or moved while
		// this transaction waited. The room a booking points at never
		// changes, so the locks taken above still cover it.
		snap, err = tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}

		entity, err := snap.ToDomain()
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if entity.Status() != booking.StatusCheckedIn {
			return errs.Mark(
				errs.Newf("booking %s is %s, not checked in", entity.ID(), entity.Status()),
				errs.ErrInvalidTransition,
			)
		}

		newRoom, err := tx.Reads().RoomByID(ctx, newRoomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomNotFound)
			}
			return err
		}
		if newRoom.Retired || newRoom.Status != room.StatusVacant {
			return errs.Mark(
				errs.Newf("room %s is not ready for arrival (status %s)", newRoom.RoomNumber, newRoom.Status),
				errs.ErrRoomNotAvailable,
			)
		}

		now := l.clock.Now()
		remainder, err := entity.Period().RemainderFrom(now)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidDateRange)
		}
		conflicts, err := tx.Reads().BlockingBookings(ctx, newRoomID, remainder)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return conflictErr(newRoom.RoomNumber, conflicts[0].ID, remainder)
		}

		successor, err := l.factory.NewTransferSuccessor(entity, newRoomID)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := entity.CloseForTransfer(successor.ID(), now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		if err := tx.Bookings().Update(ctx, entity); err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, successor); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return conflictErr(newRoom.RoomNumber, uuid.Nil, remainder)
			}
			return err
		}

		events := []event.Event{event.RoomTransferred{
			OldBookingID: entity.ID(),
			NewBookingID: successor.ID(),
			OldRoomID:    entity.RoomID(),
			NewRoomID:    newRoomID,
			GuestID:      entity.GuestID(),
		}}

		ev, err := l.roomStatus.TransitionTx(ctx, tx, entity.RoomID(), room.StatusCheckout, room.TriggerCheckOut)
		if err != nil {
			return err
		}
		events = append(events, ev)

		taskEvents, err := l.openCheckoutClean(ctx, tx, entity.RoomID())
		if err != nil {
			return err
		}
		events = append(events, taskEvents...)

		ev, err = l.roomStatus.TransitionTx(ctx, tx, newRoomID, room.StatusReserved, room.TriggerBookingArrival)
		if err != nil {
			return err
		}
		events = append(events, ev)
		ev, err = l.roomStatus.TransitionTx(ctx, tx, newRoomID, room.StatusOccupied, room.TriggerCheckIn)
		if err != nil {
			return err
		}
		events = append(events, ev)

		result = &TransferResult{
			OldBooking: toBookingView(entity),
			NewBooking: toBookingView(successor),
			Events:     events,
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (l *bookingLedgerImpl) SweepArrivals(ctx context.Context) ([]event.Event, error) {
	today := clock.Today(l.clock)
	due, err := l.uow.Reads().ConfirmedArrivalsDue(ctx, today)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	var events []event.Event
	for _, snap := range due {
		err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.LockRooms(ctx, snap.RoomID); err != nil {
				return err
			}
			rm, err := tx.Reads().RoomByID(ctx, snap.RoomID)
			if err != nil {
				return err
			}
			if rm.Status != room.StatusVacant {
				return nil // occupied, held, or out of service; nothing to do
			}
			ev, err := l.roomStatus.TransitionTx(ctx, tx, snap.RoomID, room.StatusReserved, room.TriggerBookingArrival)
			if err != nil {
				return err
			}
			events = append(events, ev)
			return nil
		})
		if err != nil {
			l.logger.Error("arrival sweep failed for booking",
				"booking_id", snap.ID.String(),
				"room_id", snap.RoomID.String(),
				"error", err.Error())
		}
	}
	return events, nil
}

func (l *bookingLedgerImpl) SweepNoShows(ctx context.Context) ([]event.Event, error) {
	today := clock.Today(l.clock)
	due, err := l.uow.Reads().ConfirmedNoShowsDue(ctx, today)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	var events []event.Event
	for _, snap := range due {
		err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.LockRooms(ctx, snap.RoomID); err != nil {
				return err
			}
			// Re-read under the lock: the guest may have checked in since.
			fresh, err := tx.Reads().BookingByID(ctx, snap.ID)
			if err != nil {
				return err
			}
			entity, err := fresh.ToDomain()
			if err != nil {
				return err
			}
			if err := entity.MarkNoShow(l.clock.Now()); err != nil {
				if errors.Is(err, booking.ErrInvalidStatusChange) {
					return nil // already checked in or cancelled
				}
				return err
			}
			if err := tx.Bookings().Update(ctx, entity); err != nil {
				return err
			}
			events = append(events, event.BookingNoShow{
				BookingID: entity.ID(),
				RoomID:    entity.RoomID(),
			})

			rm, err := tx.Reads().RoomByID(ctx, entity.RoomID())
			if err != nil {
				return err
			}
			if rm.Status == room.StatusReserved {
				ev, released, err := l.releaseReservedRoom(ctx, tx, entity.RoomID())
				if err != nil {
					return err
				}
				if released {
					events = append(events, ev)
				}
			}
			return nil
		})
		if err != nil {
			l.logger.Error("no-show sweep failed for booking",
				"booking_id", snap.ID.String(),
				"room_id", snap.RoomID.String(),
				"error", err.Error())
		}
	}
	return events, nil
}

// loadBookingLocked fetches the booking, locks its room, and returns the
// reconstructed entity with the room snapshot. The first read only resolves
// the room to lock; the booking is read again under the lock, since a
// mutation may have committed while this transaction waited.
func (l *bookingLedgerImpl) loadBookingLocked(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, *shared.RoomSnapshot, error) {
	snap, err := tx.Reads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, nil, err
	}
	if err := tx.LockRooms(ctx, snap.RoomID); err != nil {
		return nil, nil, err
	}
	snap, err = tx.Reads().BookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	entity, err := snap.ToDomain()
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	rm, err := tx.Reads().RoomByID(ctx, snap.RoomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, nil, err
	}
	return entity, rm, nil
}

// openCheckoutClean opens the checkout-type housekeeping task for a
// just-vacated room. If a task is already open the checkout proceeds with the
// existing one and the room still moves into Cleaning.
func (l *bookingLedgerImpl) openCheckoutClean(ctx context.Context, tx shared.Tx, roomID uuid.UUID) ([]event.Event, error) {
	today := clock.Today(l.clock)
	_, events, err := l.housekeeping.OpenTaskTx(ctx, tx, roomID, housekeeping.CleaningCheckout, today)
	if err != nil {
		if errors.Is(err, errs.ErrTaskAlreadyOpen) {
			ev, trErr := l.roomStatus.TransitionTx(ctx, tx, roomID, room.StatusCleaning, room.TriggerTaskOpened)
			if trErr != nil {
				return nil, trErr
			}
			return []event.Event{ev}, nil
		}
		return nil, err
	}
	return events, nil
}

// releaseReservedRoom returns a Reserved room to Vacant when no remaining
// blocking booking still covers today.
func (l *bookingLedgerImpl) releaseReservedRoom(ctx context.Context, tx shared.Tx, roomID uuid.UUID) (event.RoomStatusChanged, bool, error) {
	today := clock.Today(l.clock)
	todayPeriod, err := booking.NewStayPeriod(today, today.AddDate(0, 0, 1))
	if err != nil {
		return event.RoomStatusChanged{}, false, err
	}
	remaining, err := tx.Reads().BlockingBookings(ctx, roomID, todayPeriod)
	if err != nil {
		return event.RoomStatusChanged{}, false, err
	}
	if len(remaining) > 0 {
		return event.RoomStatusChanged{}, false, nil
	}

	ev, err := l.roomStatus.TransitionTx(ctx, tx, roomID, room.StatusVacant, room.TriggerBookingReleased)
	if err != nil {
		return event.RoomStatusChanged{}, false, err
	}
	return ev, true, nil
}

func conflictErr(roomNumber string, conflictingBookingID uuid.UUID, period booking.StayPeriod) error {
	if conflictingBookingID == uuid.Nil {
		return errs.Mark(
			errs.Newf("room %s unavailable for %s", roomNumber, period),
			errs.ErrRoomNotAvailable,
		)
	}
	return errs.Mark(
		errs.Newf("room %s unavailable for %s: conflicts with booking %s", roomNumber, period, conflictingBookingID),
		errs.ErrRoomNotAvailable,
	)
}
