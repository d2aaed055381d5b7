package commands

import (
	"errors"

	"stayops/internal/domain/booking"
	"stayops/internal/domain/housekeeping"
	"stayops/internal/domain/room"
	"stayops/internal/infra"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/queries"
	"stayops/internal/usecase/shared"
)

func toRoomTypeView(t *room.RoomType) *queries.RoomTypeView {
	return &queries.RoomTypeView{
		ID:            t.ID(),
		Name:          t.Name(),
		BaseRateCents: t.BaseRateCents(),
		MaxAdults:     t.MaxAdults(),
		MaxChildren:   t.MaxChildren(),
		BedCount:      t.BedCount(),
		Features:      t.Features().Values(),
		IsActive:      t.IsActive(),
	}
}

func toRoomView(r *room.Room) *queries.RoomView {
	return &queries.RoomView{
		ID:         r.ID(),
		RoomNumber: r.RoomNumber(),
		Floor:      r.Floor(),
		RoomTypeID: r.RoomTypeID(),
		Status:     r.Status(),
		Capacity:   r.Capacity(),
	}
}

func roomViewFromSnapshot(s *shared.RoomSnapshot, status room.Status) *queries.RoomView {
	return &queries.RoomView{
		ID:         s.ID,
		RoomNumber: s.RoomNumber,
		Floor:      s.Floor,
		RoomTypeID: s.RoomTypeID,
		Status:     status,
		Capacity:   s.Capacity,
	}
}

func toBookingView(b *booking.Booking) *queries.BookingView {
	return &queries.BookingView{
		ID:              b.ID(),
		GuestID:         b.GuestID(),
		RoomID:          b.RoomID(),
		CheckIn:         b.Period().CheckIn(),
		CheckOut:        b.Period().CheckOut(),
		Nights:          b.Period().Nights(),
		Status:          b.Status(),
		TotalCents:      b.TotalAmount().Cents(),
		PaymentStatus:   b.PaymentStatus(),
		NumberOfGuests:  b.NumberOfGuests(),
		TransferredFrom: b.TransferredFrom(),
		TransferredTo:   b.TransferredTo(),
		CheckedInAt:     b.CheckedInAt(),
		CheckedOutAt:    b.CheckedOutAt(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func toTaskView(t *housekeeping.Task) *queries.TaskView {
	return &queries.TaskView{
		ID:                t.ID(),
		RoomID:            t.RoomID(),
		Status:            t.Status(),
		CleaningType:      t.CleaningType(),
		AssignedToID:      t.AssignedToID(),
		ScheduledDate:     t.ScheduledDate(),
		CompletedAt:       t.CompletedAt(),
		VerifiedByID:      t.VerifiedByID(),
		VerificationNotes: t.VerificationNotes(),
	}
}

// wrapStoreErr maps raw datastore failures to ErrTransactionFailed while
// letting already-classified domain sentinels pass through untouched. Booking
// writes are never retried automatically, so the caller must see a clear
// signal that the transaction aborted.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errs.Classified(err) {
		return err
	}
	var repoErr infra.RepositoryError
	if errors.As(err, &repoErr) {
		return errs.Mark(err, errs.ErrTransactionFailed)
	}
	return err
}
