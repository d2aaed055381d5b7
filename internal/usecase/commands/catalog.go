package commands

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/queries"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateRoomTypeParams struct {
	Name          string
	BaseRateCents int64
	MaxAdults     int
	MaxChildren   int
	BedCount      int
	Features      []string
}

// UpdateRoomTypeParams patches a room type; nil fields keep current values.
type UpdateRoomTypeParams struct {
	Name          *string
	BaseRateCents *int64
	MaxAdults     *int
	MaxChildren   *int
	BedCount      *int
	Features      *[]string
}

type CreateRoomParams struct {
	RoomNumber string
	Floor      int
	RoomTypeID uuid.UUID
	// Capacity defaults to the room type's max occupancy when zero.
	Capacity int
}

// RoomCatalog manages the room-type definitions and the physical inventory.
type RoomCatalog interface {
	CreateRoomType(ctx context.Context, params CreateRoomTypeParams) (*queries.RoomTypeView, error)
	// UpdateRoomType revises a type's configuration. It is refused while any
	// Confirmed or CheckedIn booking references a room of the type; quoted
	// totals on existing bookings are never recalculated.
	UpdateRoomType(ctx context.Context, roomTypeID uuid.UUID, params UpdateRoomTypeParams) (*queries.RoomTypeView, error)
	CreateRoom(ctx context.Context, params CreateRoomParams) (*queries.RoomView, error)
	RetireRoom(ctx context.Context, roomID uuid.UUID) error
	// ListRooms yields matching rooms ordered by roomNumber ascending.
	ListRooms(ctx context.Context, filter shared.RoomFilter) (iter.Seq[queries.RoomView], error)
}

type roomCatalogImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewRoomCatalog(uow shared.UnitOfWork, c clock.Clock, logger *slog.Logger) RoomCatalog {
	return &roomCatalogImpl{
		uow:    uow,
		clock:  c,
		logger: logger,
	}
}

func (c *roomCatalogImpl) CreateRoomType(ctx context.Context, params CreateRoomTypeParams) (*queries.RoomTypeView, error) {
	roomType, err := room.NewRoomType(
		params.Name,
		params.BaseRateCents,
		params.MaxAdults,
		params.MaxChildren,
		params.BedCount,
		params.Features,
		c.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.RoomTypes().Create(ctx, roomType)
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return toRoomTypeView(roomType), nil
}

func (c *roomCatalogImpl) UpdateRoomType(ctx context.Context, roomTypeID uuid.UUID, params UpdateRoomTypeParams) (*queries.RoomTypeView, error) {
	var view *queries.RoomTypeView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().RoomTypeByID(ctx, roomTypeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomTypeNotFound)
			}
			return err
		}

		rooms, err := tx.Reads().Rooms(ctx, shared.RoomFilter{RoomTypeID: &roomTypeID, IncludeRetired: true})
		if err != nil {
			return err
		}
		for _, rm := range rooms {
			active, err := tx.Reads().HasBlockingBookingAfter(ctx, rm.ID, time.Time{})
			if err != nil {
				return err
			}
			if active {
				return errs.Mark(
					errs.Newf("room type %q has active bookings via room %s", snap.Name, rm.RoomNumber),
					errs.ErrRoomTypeInUse,
				)
			}
		}

		name := snap.Name
		if params.Name != nil {
			name = *params.Name
		}
		rate := snap.BaseRateCents
		if params.BaseRateCents != nil {
			rate = *params.BaseRateCents
		}
		maxAdults := snap.MaxAdults
		if params.MaxAdults != nil {
			maxAdults = *params.MaxAdults
		}
		maxChildren := snap.MaxChildren
		if params.MaxChildren != nil {
			maxChildren = *params.MaxChildren
		}
		bedCount := snap.BedCount
		if params.BedCount != nil {
			bedCount = *params.BedCount
		}
		features := snap.Features
		if params.Features != nil {
			features = *params.Features
		}

		roomType := snap.ToDomain()
		if err := roomType.Update(name, rate, maxAdults, maxChildren, bedCount, features, c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.RoomTypes().Update(ctx, roomType); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			return err
		}

		view = toRoomTypeView(roomType)
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return view, nil
}

func (c *roomCatalogImpl) CreateRoom(ctx context.Context, params CreateRoomParams) (*queries.RoomView, error) {
	var view *queries.RoomView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		roomType, err := tx.Reads().RoomTypeByID(ctx, params.RoomTypeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomTypeNotFound)
			}
			return err
		}

		if existing, err := tx.Reads().RoomByNumber(ctx, params.RoomNumber); err == nil && existing != nil {
			return errs.Mark(
				errs.Newf("room number %q already exists", params.RoomNumber),
				errs.ErrDuplicateRoomNumber,
			)
		} else if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return err
		}

		capacity := params.Capacity
		if capacity == 0 {
			capacity = roomType.MaxOccupancy()
		}

		rm, err := room.NewRoom(params.RoomNumber, params.Floor, params.RoomTypeID, capacity, c.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Rooms().Create(ctx, rm); err != nil {
			// Unique index on roomNumber backs up the pre-check under races.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicateRoomNumber)
			}
			return err
		}

		view = toRoomView(rm)
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return view, nil
}

func (c *roomCatalogImpl) RetireRoom(ctx context.Context, roomID uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockRooms(ctx, roomID); err != nil {
			return err
		}

		rm, err := tx.Reads().RoomByID(ctx, roomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomNotFound)
			}
			return err
		}
		if rm.Retired {
			return nil // already retired; idempotent
		}

		active, err := tx.Reads().HasBlockingBookingAfter(ctx, roomID, c.clock.Now())
		if err != nil {
			return err
		}
		if active {
			return errs.Mark(
				errs.Newf("room %s has a confirmed or checked-in booking in the future", rm.RoomNumber),
				errs.ErrRoomHasActiveBooking,
			)
		}

		return tx.Rooms().MarkRetired(ctx, roomID)
	})
	return wrapStoreErr(err)
}

func (c *roomCatalogImpl) ListRooms(ctx context.Context, filter shared.RoomFilter) (iter.Seq[queries.RoomView], error) {
	rooms, err := c.uow.Reads().Rooms(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return func(yield func(queries.RoomView) bool) {
		for _, rm := range rooms {
			view := queries.RoomView{
				ID:         rm.ID,
				RoomNumber: rm.RoomNumber,
				Floor:      rm.Floor,
				RoomTypeID: rm.RoomTypeID,
				Status:     rm.Status,
				Capacity:   rm.Capacity,
			}
			if !yield(view) {
				return
			}
		}
	}, nil
}
