package commands

import (
	"context"
	"log/slog"
	"time"

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

type TaskResult struct {
	Task   *queries.TaskView
	Events []event.Event
	// Warning carries soft policy violations, currently only the
	// verifier-equals-assignee case.
	Warning string
}

// HousekeepingScheduler owns cleaning tasks. At most one open task per room;
// a verified checkout clean is the only way a room leaves Cleaning.
type HousekeepingScheduler interface {
	OpenTask(ctx context.Context, roomID uuid.UUID, cleaningType housekeeping.CleaningType, scheduledDate time.Time) (*TaskResult, error)
	// OpenTaskTx is the same operation inside an enclosing transaction; the
	// booking ledger uses it to open the checkout clean atomically with the
	// checkout itself.
	OpenTaskTx(ctx context.Context, tx shared.Tx, roomID uuid.UUID, cleaningType housekeeping.CleaningType, scheduledDate time.Time) (*housekeeping.Task, []event.Event, error)
	Assign(ctx context.Context, taskID, staffID uuid.UUID) (*TaskResult, error)
	Start(ctx context.Context, taskID uuid.UUID) (*TaskResult, error)
	Complete(ctx context.Context, taskID uuid.UUID, notes string) (*TaskResult, error)
	Verify(ctx context.Context, taskID, verifierID uuid.UUID, notes string) (*TaskResult, error)
}

type housekeepingSchedulerImpl struct {
	uow        shared.UnitOfWork
	roomStatus RoomStatusController
	clock      clock.Clock
	logger     *slog.Logger
}

func NewHousekeepingScheduler(
	uow shared.UnitOfWork,
	roomStatus RoomStatusController,
	c clock.Clock,
	logger *slog.Logger,
) HousekeepingScheduler {
	return &housekeepingSchedulerImpl{
		uow:        uow,
		roomStatus: roomStatus,
		clock:      c,
		logger:     logger,
	}
}

func (h *housekeepingSchedulerImpl) OpenTask(ctx context.Context, roomID uuid.UUID, cleaningType housekeeping.CleaningType, scheduledDate time.Time) (*TaskResult, error) {
	var result *TaskResult
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockRooms(ctx, roomID); err != nil {
			return err
		}

		task, events, err := h.OpenTaskTx(ctx, tx, roomID, cleaningType, scheduledDate)
		if err != nil {
			return err
		}
		result = &TaskResult{Task: toTaskView(task), Events: events}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (h *housekeepingSchedulerImpl) OpenTaskTx(ctx context.Context, tx shared.Tx, roomID uuid.UUID, cleaningType housekeeping.CleaningType, scheduledDate time.Time) (*housekeeping.Task, []event.Event, error) {
	rm, err := tx.Reads().RoomByID(ctx, roomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, nil, err
	}

	open, err := tx.Reads().OpenTaskForRoom(ctx, roomID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, nil, err
	}
	if open != nil {
		// Callers should fetch and reuse the open task instead of retrying.
		return nil, nil, errs.Mark(
			errs.Newf("room %s already has open task %s", rm.RoomNumber, open.ID),
			errs.ErrTaskAlreadyOpen,
		)
	}

	task, err := housekeeping.NewTask(roomID, cleaningType, clock.DateOf(scheduledDate), h.clock.Now())
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if err := tx.Tasks().Create(ctx, task); err != nil {
		return nil, nil, err
	}

	events := []event.Event{event.TaskOpened{
		TaskID:       task.ID(),
		RoomID:       roomID,
		CleaningType: cleaningType,
	}}

	// A checkout clean immediately moves the just-vacated room into Cleaning.
	if cleaningType == housekeeping.CleaningCheckout && rm.Status == room.StatusCheckout {
		ev, err := h.roomStatus.TransitionTx(ctx, tx, roomID, room.StatusCleaning, room.TriggerTaskOpened)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}

	return task, events, nil
}

func (h *housekeepingSchedulerImpl) Assign(ctx context.Context, taskID, staffID uuid.UUID) (*TaskResult, error) {
	return h.updateTask(ctx, taskID, func(task *housekeeping.Task) error {
		return task.Assign(staffID, h.clock.Now())
	})
}

func (h *housekeepingSchedulerImpl) Start(ctx context.Context, taskID uuid.UUID) (*TaskResult, error) {
	return h.updateTask(ctx, taskID, func(task *housekeeping.Task) error {
		return task.Start(h.clock.Now())
	})
}

func (h *housekeepingSchedulerImpl) Complete(ctx context.Context, taskID uuid.UUID, notes string) (*TaskResult, error) {
	return h.updateTask(ctx, taskID, func(task *housekeeping.Task) error {
		return task.Complete(notes, h.clock.Now())
	})
}

// Verify closes the task and, when the room is mid checkout-clean, returns it
// to Vacant. Verification by the assignee themselves is permitted but
// surfaced as a warning.
func (h *housekeepingSchedulerImpl) Verify(ctx context.Context, taskID, verifierID uuid.UUID, notes string) (*TaskResult, error) {
	var result *TaskResult
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().TaskByID(ctx, taskID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrTaskNotFound)
			}
			return err
		}
		if err := tx.LockRooms(ctx, snap.RoomID); err != nil {
			return err
		}
		// Re-read under the lock: a racing mutation may have advanced the
		// task while this transaction waited.
		snap, err = tx.Reads().TaskByID(ctx, taskID)
		if err != nil {
			return err
		}

		task := snap.ToDomain()
		if err := task.Verify(verifierID, notes, h.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return err
		}

		events := []event.Event{event.TaskVerified{
			TaskID:       task.ID(),
			RoomID:       task.RoomID(),
			VerifiedByID: verifierID,
		}}

		rm, err := tx.Reads().RoomByID(ctx, task.RoomID())
		if err != nil {
			return err
		}
		if rm.Status == room.StatusCleaning {
			ev, err := h.roomStatus.TransitionTx(ctx, tx, task.RoomID(), room.StatusVacant, room.TriggerTaskVerified)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}

		result = &TaskResult{Task: toTaskView(task), Events: events}
		if task.VerifierIsAssignee() {
			result.Warning = "task verified by its own assignee"
			h.logger.Warn("housekeeping task verified by its own assignee",
				"task_id", task.ID().String(),
				"staff_id", verifierID.String())
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

func (h *housekeepingSchedulerImpl) updateTask(ctx context.Context, taskID uuid.UUID, mutate func(*housekeeping.Task) error) (*TaskResult, error) {
	var result *TaskResult
	err := h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().TaskByID(ctx, taskID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrTaskNotFound)
			}
			return err
		}
		if err := tx.LockRooms(ctx, snap.RoomID); err != nil {
			return err
		}
		snap, err = tx.Reads().TaskByID(ctx, taskID)
		if err != nil {
			return err
		}

		task := snap.ToDomain()
		if err := mutate(task); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return err
		}

		result = &TaskResult{Task: toTaskView(task)}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}
