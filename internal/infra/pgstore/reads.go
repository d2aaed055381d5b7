package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/pgconv"
	"stayops/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same read
// queries serve transactional validation reads and standalone snapshot reads.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgReads struct {
	q querier
}

const roomTypeColumns = `id, name, base_rate_cents, max_adults, max_children, bed_count,
	features, is_active, created_at, updated_at`

const roomColumns = `id, room_number, floor, room_type_id, status, capacity, retired,
	created_at, updated_at`

const bookingColumns = `id, guest_id, room_id, check_in, check_out, status,
	total_cents, payment_status, number_of_guests,
	transferred_from, transferred_to, checked_in_at, checked_out_at,
	created_at, updated_at`

const taskColumns = `id, room_id, status, cleaning_type, assigned_to_id,
	scheduled_date, completed_at, verified_by_id, verification_notes,
	created_at, updated_at`

func (r *pgReads) RoomTypeByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+roomTypeColumns+` FROM room_types WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	snap, err := scanRoomType(row)
	if err != nil {
		return nil, classify("select room type", err)
	}
	return snap, nil
}

func (r *pgReads) RoomByID(ctx context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	snap, err := scanRoom(row)
	if err != nil {
		return nil, classify("select room", err)
	}
	return snap, nil
}

func (r *pgReads) RoomByNumber(ctx context.Context, roomNumber string) (*shared.RoomSnapshot, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE room_number = $1`,
		roomNumber,
	)
	snap, err := scanRoom(row)
	if err != nil {
		return nil, classify("select room by number", err)
	}
	return snap, nil
}

func (r *pgReads) Rooms(ctx context.Context, filter shared.RoomFilter) ([]shared.RoomSnapshot, error) {
	conds := []string{"1 = 1"}
	var args []any
	if !filter.IncludeRetired {
		conds = append(conds, "retired = false")
	}
	if filter.Floor != nil {
		args = append(args, *filter.Floor)
		conds = append(conds, fmt.Sprintf("floor = $%d", len(args)))
	}
	if filter.RoomTypeID != nil {
		args = append(args, pgconv.UUIDToPgtype(*filter.RoomTypeID))
		conds = append(conds, fmt.Sprintf("room_type_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE `+strings.Join(conds, " AND ")+` ORDER BY room_number`,
		args...,
	)
	if err != nil {
		return nil, classify("select rooms", err)
	}
	defer rows.Close()

	var out []shared.RoomSnapshot
	for rows.Next() {
		snap, err := scanRoom(rows)
		if err != nil {
			return nil, classify("scan room", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate rooms", err)
	}
	return out, nil
}

func (r *pgReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	snap, err := scanBooking(row)
	if err != nil {
		return nil, classify("select booking", err)
	}
	return snap, nil
}

func (r *pgReads) BlockingBookings(ctx context.Context, roomID uuid.UUID, period booking.StayPeriod) ([]shared.BookingSnapshot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = $1
		  AND status IN ('confirmed', 'checked_in')
		  AND check_in < $3 AND check_out > $2
		ORDER BY check_in, id`,
		pgconv.UUIDToPgtype(roomID),
		pgconv.DateToPgtype(period.CheckIn()),
		pgconv.DateToPgtype(period.CheckOut()),
	)
	if err != nil {
		return nil, classify("select blocking bookings", err)
	}
	return collectBookings(rows)
}

func (r *pgReads) BookingsOverlappingRange(ctx context.Context, roomIDs []uuid.UUID, period booking.StayPeriod) ([]shared.BookingSnapshot, error) {
	ids := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		ids[i] = id.String()
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = ANY($1::uuid[])
		  AND status IN ('confirmed', 'checked_in', 'checked_out')
		  AND check_in < $3 AND check_out > $2
		ORDER BY check_in, id`,
		ids,
		pgconv.DateToPgtype(period.CheckIn()),
		pgconv.DateToPgtype(period.CheckOut()),
	)
	if err != nil {
		return nil, classify("select bookings in range", err)
	}
	return collectBookings(rows)
}

func (r *pgReads) HasBlockingBookingAfter(ctx context.Context, roomID uuid.UUID, t time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status IN ('confirmed', 'checked_in')
			  AND check_out > $2
		)`,
		pgconv.UUIDToPgtype(roomID),
		pgconv.DateToPgtype(clock.DateOf(t)),
	).Scan(&exists)
	if err != nil {
		return false, classify("check future bookings", err)
	}
	return exists, nil
}

func (r *pgReads) ConfirmedArrivalsDue(ctx context.Context, today time.Time) ([]shared.BookingSnapshot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status = 'confirmed' AND check_in = $1
		ORDER BY check_in, id`,
		pgconv.DateToPgtype(clock.DateOf(today)),
	)
	if err != nil {
		return nil, classify("select due arrivals", err)
	}
	return collectBookings(rows)
}

func (r *pgReads) ConfirmedNoShowsDue(ctx context.Context, today time.Time) ([]shared.BookingSnapshot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status = 'confirmed' AND check_in < $1
		ORDER BY check_in, id`,
		pgconv.DateToPgtype(clock.DateOf(today)),
	)
	if err != nil {
		return nil, classify("select due no-shows", err)
	}
	return collectBookings(rows)
}

func (r *pgReads) OpenTaskForRoom(ctx context.Context, roomID uuid.UUID) (*shared.TaskSnapshot, error) {
	row := r.q.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM housekeeping_tasks
		WHERE room_id = $1 AND status IN ('pending', 'in_progress')
		LIMIT 1`,
		pgconv.UUIDToPgtype(roomID),
	)
	snap, err := scanTask(row)
	if err != nil {
		return nil, classify("select open task", err)
	}
	return snap, nil
}

func (r *pgReads) TaskByID(ctx context.Context, id uuid.UUID) (*shared.TaskSnapshot, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM housekeeping_tasks WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	snap, err := scanTask(row)
	if err != nil {
		return nil, classify("select task", err)
	}
	return snap, nil
}

func collectBookings(rows pgx.Rows) ([]shared.BookingSnapshot, error) {
	defer rows.Close()
	var out []shared.BookingSnapshot
	for rows.Next() {
		snap, err := scanBooking(rows)
		if err != nil {
			return nil, classify("scan booking", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate bookings", err)
	}
	return out, nil
}

func scanRoomType(row pgx.Row) (*shared.RoomTypeSnapshot, error) {
	var (
		id                   pgtype.UUID
		createdAt, updatedAt pgtype.Timestamptz
		snap                 shared.RoomTypeSnapshot
	)
	err := row.Scan(
		&id, &snap.Name, &snap.BaseRateCents,
		&snap.MaxAdults, &snap.MaxChildren, &snap.BedCount,
		&snap.Features, &snap.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.ID = uuid.UUID(id.Bytes)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &snap, nil
}

func scanRoom(row pgx.Row) (*shared.RoomSnapshot, error) {
	var (
		id, roomTypeID       pgtype.UUID
		status               string
		createdAt, updatedAt pgtype.Timestamptz
		snap                 shared.RoomSnapshot
	)
	err := row.Scan(
		&id, &snap.RoomNumber, &snap.Floor, &roomTypeID,
		&status, &snap.Capacity, &snap.Retired, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.ID = uuid.UUID(id.Bytes)
	snap.RoomTypeID = uuid.UUID(roomTypeID.Bytes)
	snap.Status = room.Status(status)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &snap, nil
}

func scanBooking(row pgx.Row) (*shared.BookingSnapshot, error) {
	var (
		id, guestID, roomID       pgtype.UUID
		checkIn, checkOut         pgtype.Date
		status, paymentStatus     string
		transferredFrom           pgtype.UUID
		transferredTo             pgtype.UUID
		checkedInAt, checkedOutAt pgtype.Timestamptz
		createdAt, updatedAt      pgtype.Timestamptz
		snap                      shared.BookingSnapshot
	)
	err := row.Scan(
		&id, &guestID, &roomID, &checkIn, &checkOut, &status,
		&snap.TotalCents, &paymentStatus, &snap.NumberOfGuests,
		&transferredFrom, &transferredTo, &checkedInAt, &checkedOutAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.ID = uuid.UUID(id.Bytes)
	snap.GuestID = uuid.UUID(guestID.Bytes)
	snap.RoomID = uuid.UUID(roomID.Bytes)
	snap.CheckIn = pgconv.DateFromPgtype(checkIn)
	snap.CheckOut = pgconv.DateFromPgtype(checkOut)
	snap.Status = booking.Status(status)
	snap.PaymentStatus = booking.PaymentStatus(paymentStatus)
	snap.TransferredFrom = pgconv.UUIDPtrFromPgtype(transferredFrom)
	snap.TransferredTo = pgconv.UUIDPtrFromPgtype(transferredTo)
	snap.CheckedInAt = pgconv.TimePtrFromPgtype(checkedInAt)
	snap.CheckedOutAt = pgconv.TimePtrFromPgtype(checkedOutAt)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &snap, nil
}

func scanTask(row pgx.Row) (*shared.TaskSnapshot, error) {
	var (
		id, roomID           pgtype.UUID
		status, cleaningType string
		assignedTo, verifier pgtype.UUID
		scheduledDate        pgtype.Date
		completedAt          pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
		snap                 shared.TaskSnapshot
	)
	err := row.Scan(
		&id, &roomID, &status, &cleaningType, &assignedTo,
		&scheduledDate, &completedAt, &verifier, &snap.VerificationNotes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.ID = uuid.UUID(id.Bytes)
	snap.RoomID = uuid.UUID(roomID.Bytes)
	snap.Status = housekeeping.Status(status)
	snap.CleaningType = housekeeping.CleaningType(cleaningType)
	snap.AssignedToID = pgconv.UUIDPtrFromPgtype(assignedTo)
	snap.ScheduledDate = pgconv.DateFromPgtype(scheduledDate)
	snap.CompletedAt = pgconv.TimePtrFromPgtype(completedAt)
	snap.VerifiedByID = pgconv.UUIDPtrFromPgtype(verifier)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &snap, nil
}
