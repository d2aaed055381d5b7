package room

// Status is the operational state of a physical room.
type Status string

const (
	StatusVacant      Status = "vacant"
	StatusReserved    Status = "reserved"
	StatusOccupied    Status = "occupied"
	StatusCheckout    Status = "checkout"
	StatusCleaning    Status = "cleaning"
	StatusMaintenance Status = "maintenance"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusVacant, StatusReserved, StatusOccupied, StatusCheckout, StatusCleaning, StatusMaintenance:
		return true
	default:
		return false
	}
}

// Trigger identifies the event driving a status transition. The transition
// table is keyed on (from, to, trigger): a (from, to) pair is only legal when
// driven by one of its registered triggers, which is how the checkout gate
// rejects Cleaning→Vacant without a verified housekeeping task.
type Trigger string

const (
	TriggerBookingArrival  Trigger = "booking_arrival"  // confirmed booking reaches its check-in date
	TriggerBookingReleased Trigger = "booking_released" // booking cancelled or marked no-show
	TriggerCheckIn         Trigger = "check_in"
	TriggerCheckOut        Trigger = "check_out"
	TriggerTaskOpened      Trigger = "task_opened"   // checkout cleaning task created
	TriggerTaskVerified    Trigger = "task_verified" // housekeeping task verified by staff
	TriggerManual          Trigger = "manual"        // staff maintenance flag / clear
)

type transition struct {
	from Status
	to   Status
}

var allowedTriggers = map[transition][]Trigger{
	{StatusVacant, StatusReserved}:      {TriggerBookingArrival},
	{StatusReserved, StatusOccupied}:    {TriggerCheckIn},
	{StatusReserved, StatusVacant}:      {TriggerBookingReleased},
	{StatusOccupied, StatusCheckout}:    {TriggerCheckOut},
	{StatusCheckout, StatusCleaning}:    {TriggerTaskOpened},
	{StatusCleaning, StatusVacant}:      {TriggerTaskVerified},
	{StatusVacant, StatusMaintenance}:   {TriggerManual},
	{StatusReserved, StatusMaintenance}: {TriggerManual},
	{StatusOccupied, StatusMaintenance}: {TriggerManual},
	{StatusMaintenance, StatusVacant}:   {TriggerManual},
}

// CanTransition reports whether from→to is legal when driven by trigger.
func CanTransition(from, to Status, trigger Trigger) bool {
	for _, t := range allowedTriggers[transition{from, to}] {
		if t == trigger {
			return true
		}
	}
	return false
}
