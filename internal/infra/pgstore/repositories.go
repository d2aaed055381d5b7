package pgstore

import (
	"context"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type roomTypeRepo struct {
	tx pgx.Tx
}

func (r *roomTypeRepo) Create(ctx context.Context, t *room.RoomType) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO room_types (
			id, name, base_rate_cents, max_adults, max_children, bed_count,
			features, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pgconv.UUIDToPgtype(t.ID()),
		t.Name(),
		t.BaseRateCents(),
		t.MaxAdults(),
		t.MaxChildren(),
		t.BedCount(),
		t.Features().Values(),
		t.IsActive(),
		pgconv.TimeToPgtype(t.CreatedAt()),
		pgconv.TimeToPgtype(t.UpdatedAt()),
	)
	return classify("insert room type", err)
}

func (r *roomTypeRepo) Update(ctx context.Context, t *room.RoomType) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE room_types SET
			name = $1, base_rate_cents = $2, max_adults = $3, max_children = $4,
			bed_count = $5, features = $6, is_active = $7, updated_at = $8
		WHERE id = $9`,
		t.Name(),
		t.BaseRateCents(),
		t.MaxAdults(),
		t.MaxChildren(),
		t.BedCount(),
		t.Features().Values(),
		t.IsActive(),
		pgconv.TimeToPgtype(t.UpdatedAt()),
		pgconv.UUIDToPgtype(t.ID()),
	)
	if err != nil {
		return classify("update room type", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("room type not found", nil, infra.KindNotFound)
	}
	return nil
}

type roomRepo struct {
	tx pgx.Tx
}

func (r *roomRepo) Create(ctx context.Context, rm *room.Room) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO rooms (
			id, room_number, floor, room_type_id, status, capacity, retired,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pgconv.UUIDToPgtype(rm.ID()),
		rm.RoomNumber(),
		rm.Floor(),
		pgconv.UUIDToPgtype(rm.RoomTypeID()),
		string(rm.Status()),
		rm.Capacity(),
		rm.IsRetired(),
		pgconv.TimeToPgtype(rm.CreatedAt()),
		pgconv.TimeToPgtype(rm.UpdatedAt()),
	)
	return classify("insert room", err)
}

func (r *roomRepo) UpdateStatus(ctx context.Context, roomID uuid.UUID, from, to room.Status) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE rooms SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		string(to),
		pgconv.UUIDToPgtype(roomID),
		string(from),
	)
	if err != nil {
		return classify("update room status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("room status changed concurrently", nil, infra.KindStaleState)
	}
	return nil
}

func (r *roomRepo) MarkRetired(ctx context.Context, roomID uuid.UUID) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE rooms SET retired = true, updated_at = now()
		WHERE id = $1`,
		pgconv.UUIDToPgtype(roomID),
	)
	if err != nil {
		return classify("retire room", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return nil
}

type bookingRepo struct {
	tx pgx.Tx
}

func (r *bookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO bookings (
			id, guest_id, room_id, check_in, check_out, status,
			total_cents, payment_status, number_of_guests,
			transferred_from, transferred_to, checked_in_at, checked_out_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDToPgtype(b.GuestID()),
		pgconv.UUIDToPgtype(b.RoomID()),
		pgconv.DateToPgtype(b.Period().CheckIn()),
		pgconv.DateToPgtype(b.Period().CheckOut()),
		string(b.Status()),
		b.TotalAmount().Cents(),
		string(b.PaymentStatus()),
		b.NumberOfGuests(),
		pgconv.UUIDPtrToPgtype(b.TransferredFrom()),
		pgconv.UUIDPtrToPgtype(b.TransferredTo()),
		pgconv.TimePtrToPgtype(b.CheckedInAt()),
		pgconv.TimePtrToPgtype(b.CheckedOutAt()),
		pgconv.TimeToPgtype(b.CreatedAt()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	return classify("insert booking", err)
}

func (r *bookingRepo) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE bookings SET
			check_in = $1, check_out = $2, status = $3,
			total_cents = $4, payment_status = $5,
			transferred_from = $6, transferred_to = $7,
			checked_in_at = $8, checked_out_at = $9,
			updated_at = $10
		WHERE id = $11`,
		pgconv.DateToPgtype(b.Period().CheckIn()),
		pgconv.DateToPgtype(b.Period().CheckOut()),
		string(b.Status()),
		b.TotalAmount().Cents(),
		string(b.PaymentStatus()),
		pgconv.UUIDPtrToPgtype(b.TransferredFrom()),
		pgconv.UUIDPtrToPgtype(b.TransferredTo()),
		pgconv.TimePtrToPgtype(b.CheckedInAt()),
		pgconv.TimePtrToPgtype(b.CheckedOutAt()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
		pgconv.UUIDToPgtype(b.ID()),
	)
	if err != nil {
		return classify("update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

type taskRepo struct {
	tx pgx.Tx
}

func (r *taskRepo) Create(ctx context.Context, t *housekeeping.Task) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO housekeeping_tasks (
			id, room_id, status, cleaning_type, assigned_to_id,
			scheduled_date, completed_at, verified_by_id, verification_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		pgconv.UUIDToPgtype(t.ID()),
		pgconv.UUIDToPgtype(t.RoomID()),
		string(t.Status()),
		string(t.CleaningType()),
		pgconv.UUIDPtrToPgtype(t.AssignedToID()),
		pgconv.DateToPgtype(t.ScheduledDate()),
		pgconv.TimePtrToPgtype(t.CompletedAt()),
		pgconv.UUIDPtrToPgtype(t.VerifiedByID()),
		t.VerificationNotes(),
		pgconv.TimeToPgtype(t.CreatedAt()),
		pgconv.TimeToPgtype(t.UpdatedAt()),
	)
	return classify("insert housekeeping task", err)
}

func (r *taskRepo) Update(ctx context.Context, t *housekeeping.Task) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE housekeeping_tasks SET
			status = $1, assigned_to_id = $2, completed_at = $3,
			verified_by_id = $4, verification_notes = $5, updated_at = $6
		WHERE id = $7`,
		string(t.Status()),
		pgconv.UUIDPtrToPgtype(t.AssignedToID()),
		pgconv.TimePtrToPgtype(t.CompletedAt()),
		pgconv.UUIDPtrToPgtype(t.VerifiedByID()),
		t.VerificationNotes(),
		pgconv.TimeToPgtype(t.UpdatedAt()),
		pgconv.UUIDToPgtype(t.ID()),
	)
	if err != nil {
		return classify("update housekeeping task", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("housekeeping task not found", nil, infra.KindNotFound)
	}
	return nil
}
