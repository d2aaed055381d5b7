package housekeeping

// Status is the linear task lifecycle. Verified is terminal and is the only
// state that lets a room leave Cleaning.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusVerified   Status = "verified"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusVerified:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the task still blocks a new task on its room.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusInProgress
}

func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted
	case StatusCompleted:
		return next == StatusVerified
	default:
		return false
	}
}

// CleaningType distinguishes the service level of a task.
type CleaningType string

const (
	CleaningStandard CleaningType = "standard"
	CleaningDeep     CleaningType = "deep"
	CleaningTurndown CleaningType = "turndown"
	CleaningCheckout CleaningType = "checkout"
)

func (c CleaningType) IsValid() bool {
	switch c {
	case CleaningStandard, CleaningDeep, CleaningTurndown, CleaningCheckout:
		return true
	default:
		return false
	}
}
