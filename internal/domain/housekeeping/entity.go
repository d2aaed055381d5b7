package housekeeping

import (
	"time"

	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidCleaningType = errs.New("invalid cleaning type")
	ErrInvalidTaskChange   = errs.New("invalid task status change")
	ErrTaskNotAssigned     = errs.New("task has no assignee")
)

// Task is a single cleaning or maintenance visit to a room.
type Task struct {
	id                uuid.UUID
	roomID            uuid.UUID
	status            Status
	cleaningType      CleaningType
	assignedToID      *uuid.UUID
	scheduledDate     time.Time
	completedAt       *time.Time
	verifiedByID      *uuid.UUID
	verificationNotes string
	createdAt         time.Time
	updatedAt         time.Time
}

func NewTask(roomID uuid.UUID, cleaningType CleaningType, scheduledDate, now time.Time) (*Task, error) {
	if !cleaningType.IsValid() {
		return nil, ErrInvalidCleaningType
	}

	return &Task{
		id:            uuid.New(),
		roomID:        roomID,
		status:        StatusPending,
		cleaningType:  cleaningType,
		scheduledDate: scheduledDate,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructTask(
	id, roomID uuid.UUID,
	status Status,
	cleaningType CleaningType,
	assignedToID *uuid.UUID,
	scheduledDate time.Time,
	completedAt *time.Time,
	verifiedByID *uuid.UUID,
	verificationNotes string,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		id:                id,
		roomID:            roomID,
		status:            status,
		cleaningType:      cleaningType,
		assignedToID:      assignedToID,
		scheduledDate:     scheduledDate,
		completedAt:       completedAt,
		verifiedByID:      verifiedByID,
		verificationNotes: verificationNotes,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (t *Task) ID() uuid.UUID              { return t.id }
func (t *Task) RoomID() uuid.UUID          { return t.roomID }
func (t *Task) Status() Status             { return t.status }
func (t *Task) CleaningType() CleaningType { return t.cleaningType }
func (t *Task) AssignedToID() *uuid.UUID   { return t.assignedToID }
func (t *Task) ScheduledDate() time.Time   { return t.scheduledDate }
func (t *Task) CompletedAt() *time.Time    { return t.completedAt }
func (t *Task) VerifiedByID() *uuid.UUID   { return t.verifiedByID }
func (t *Task) VerificationNotes() string  { return t.verificationNotes }
func (t *Task) CreatedAt() time.Time       { return t.createdAt }
func (t *Task) UpdatedAt() time.Time       { return t.updatedAt }

func (t *Task) Assign(staffID uuid.UUID, now time.Time) error {
	if t.status != StatusPending {
		return ErrInvalidTaskChange
	}
	t.assignedToID = &staffID
	t.updatedAt = now
	return nil
}

func (t *Task) Start(now time.Time) error {
	if !t.status.CanTransitionTo(StatusInProgress) {
		return ErrInvalidTaskChange
	}
	if t.assignedToID == nil {
		return ErrTaskNotAssigned
	}
	t.status = StatusInProgress
	t.updatedAt = now
	return nil
}

func (t *Task) Complete(notes string, now time.Time) error {
	if !t.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTaskChange
	}
	t.status = StatusCompleted
	t.completedAt = &now
	if notes != "" {
		t.verificationNotes = notes
	}
	t.updatedAt = now
	return nil
}

// Verify closes the task. VerifierIsAssignee on the result lets callers
// surface the same-person policy warning; it is not a hard failure.
func (t *Task) Verify(verifierID uuid.UUID, notes string, now time.Time) error {
	if !t.status.CanTransitionTo(StatusVerified) {
		return ErrInvalidTaskChange
	}
	t.status = StatusVerified
	t.verifiedByID = &verifierID
	if notes != "" {
		t.verificationNotes = notes
	}
	t.updatedAt = now
	return nil
}

// VerifierIsAssignee reports whether the clean was verified by the same staff
// member who performed it.
func (t *Task) VerifierIsAssignee() bool {
	return t.assignedToID != nil && t.verifiedByID != nil && *t.assignedToID == *t.verifiedByID
}
