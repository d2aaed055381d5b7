package commands

import (
	"context"
	"log/slog"

	"stayops/internal/domain/event"
	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/queries"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomStatusResult struct {
	Room   *queries.RoomView
	Events []event.Event
}

// RoomStatusController is the single writer of Room.status. Sibling commands
// request transitions through TransitionTx inside their own transactions; the
// staff-facing operations run their own.
type RoomStatusController interface {
	// TransitionTx validates and applies one transition inside the caller's
	// transaction. An illegal transition is a caller bug or a race that
	// locking should have prevented; it is logged loudly, never swallowed.
	TransitionTx(ctx context.Context, tx shared.Tx, roomID uuid.UUID, to room.Status, trigger room.Trigger) (event.RoomStatusChanged, error)

	SetMaintenance(ctx context.Context, roomID uuid.UUID) (*RoomStatusResult, error)
	ClearMaintenance(ctx context.Context, roomID uuid.UUID) (*RoomStatusResult, error)
	// RequestTransition is the generic staff entry point; it drives the
	// manual trigger only, so booking- and housekeeping-owned transitions
	// (such as Cleaning→Vacant) cannot be forced through it.
	RequestTransition(ctx context.Context, roomID uuid.UUID, to room.Status) (*RoomStatusResult, error)
}

type roomStatusControllerImpl struct {
	uow    shared.UnitOfWork
	logger *slog.Logger
}

func NewRoomStatusController(uow shared.UnitOfWork, logger *slog.Logger) RoomStatusController {
	return &roomStatusControllerImpl{
		uow:    uow,
		logger: logger,
	}
}

func (c *roomStatusControllerImpl) TransitionTx(
	ctx context.Context,
	tx shared.Tx,
	roomID uuid.UUID,
	to room.Status,
	trigger room.Trigger,
) (event.RoomStatusChanged, error) {
	rm, err := tx.Reads().RoomByID(ctx, roomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return event.RoomStatusChanged{}, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return event.RoomStatusChanged{}, err
	}

	if !room.CanTransition(rm.Status, to, trigger) {
		c.logger.Error("illegal room status transition requested",
			"room_id", roomID.String(),
			"from", rm.Status.String(),
			"to", to.String(),
			"trigger", string(trigger))
		return event.RoomStatusChanged{}, errs.Mark(
			errs.Newf("room %s: %s -> %s (trigger %s)", rm.RoomNumber, rm.Status, to, trigger),
			errs.ErrIllegalRoomTransition,
		)
	}

	if err := tx.Rooms().UpdateStatus(ctx, roomID, rm.Status, to); err != nil {
		return event.RoomStatusChanged{}, err
	}

	return event.RoomStatusChanged{
		RoomID:  roomID,
		From:    rm.Status,
		To:      to,
		Trigger: trigger,
	}, nil
}

func (c *roomStatusControllerImpl) SetMaintenance(ctx context.Context, roomID uuid.UUID) (*RoomStatusResult, error) {
	return c.RequestTransition(ctx, roomID, room.StatusMaintenance)
}

func (c *roomStatusControllerImpl) ClearMaintenance(ctx context.Context, roomID uuid.UUID) (*RoomStatusResult, error) {
	var result *RoomStatusResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockRooms(ctx, roomID); err != nil {
			return err
		}

		// A room cannot leave maintenance while work on it is still tracked.
		open, err := tx.Reads().OpenTaskForRoom(ctx, roomID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		if open != nil {
			return errs.Mark(
				errs.Newf("room %s has open task %s", roomID, open.ID),
				errs.ErrTaskAlreadyOpen,
			)
		}

		ev, err := c.TransitionTx(ctx, tx, roomID, room.StatusVacant, room.TriggerManual)
		if err != nil {
			return err
		}

		rm, err := tx.Reads().RoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		result = &RoomStatusResult{
			Room:   roomViewFromSnapshot(rm, room.StatusVacant),
			Events: []event.Event{ev},
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (c *roomStatusControllerImpl) RequestTransition(ctx context.Context, roomID uuid.UUID, to room.Status) (*RoomStatusResult, error) {
	var result *RoomStatusResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockRooms(ctx, roomID); err != nil {
			return err
		}

		ev, err := c.TransitionTx(ctx, tx, roomID, to, room.TriggerManual)
		if err != nil {
			return err
		}

		rm, err := tx.Reads().RoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		result = &RoomStatusResult{
			Room:   roomViewFromSnapshot(rm, to),
			Events: []event.Event{ev},
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}
