package errs

import "errors"

// Domain-specific sentinel errors surfaced by the usecase layers.
var (
	// RoomCatalog errors
	ErrDuplicateRoomNumber  = errors.New("duplicate room number")
	ErrRoomHasActiveBooking = errors.New("room has active booking")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomTypeNotFound     = errors.New("room type not found")
	ErrRoomTypeInUse        = errors.New("room type referenced by active bookings")

	// BookingLedger errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrRoomNotAvailable  = errors.New("room not available")
	ErrInvalidTransition = errors.New("invalid booking transition")

	// RoomStatusController errors
	ErrIllegalRoomTransition = errors.New("illegal room status transition")

	// HousekeepingScheduler errors
	ErrTaskNotFound    = errors.New("housekeeping task not found")
	ErrTaskAlreadyOpen = errors.New("housekeeping task already open for room")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Datastore errors
	ErrTransactionFailed = errors.New("transaction failed")
)

var sentinels = []error{
	ErrDuplicateRoomNumber,
	ErrRoomHasActiveBooking,
	ErrRoomNotFound,
	ErrRoomTypeNotFound,
	ErrRoomTypeInUse,
	ErrBookingNotFound,
	ErrInvalidDateRange,
	ErrRoomNotAvailable,
	ErrInvalidTransition,
	ErrIllegalRoomTransition,
	ErrTaskNotFound,
	ErrTaskAlreadyOpen,
	ErrDomainValidation,
}

// Classified reports whether err already carries one of the domain sentinels,
// meaning a usecase has translated it for the caller.
func Classified(err error) bool {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
