package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Event types for the job context
const (
	EventJobCreated       = "job.created"
	EventJobStatusChanged = "job.status_changed"
	EventJobDeltaRejected = "job.delta_rejected"
)

// JobCreatedEvent is raised when a new job enters the system
type JobCreatedEvent struct {
	shared.BaseDomainEvent
	Number   string    `json:"number"`
	Name     string    `json:"name"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewJobCreatedEvent creates a new job created event
func NewJobCreatedEvent(j *Job) *JobCreatedEvent {
	return &JobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventJobCreated, "Job", j.GetID()),
		Number:          j.Number,
		Name:            j.Name,
		ClientID:        j.ClientID,
	}
}

// JobStatusChangedEvent is raised on every status transition
type JobStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number string    `json:"number"`
	From   JobStatus `json:"from"`
	To     JobStatus `json:"to"`
}

// NewJobStatusChangedEvent creates a new status changed event
func NewJobStatusChangedEvent(j *Job, from, to JobStatus) *JobStatusChangedEvent {
	return &JobStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventJobStatusChanged, "Job", j.GetID()),
		Number:          j.Number,
		From:            from,
		To:              to,
	}
}

// JobDeltaRejectedEvent is raised when a stale edit is refused
type JobDeltaRejectedEvent struct {
	shared.BaseDomainEvent
	StaffID           uuid.UUID `json:"staff_id"`
	SubmittedChecksum string    `json:"submitted_checksum"`
	CurrentChecksum   string    `json:"current_checksum"`
	RejectedAt        time.Time `json:"rejected_at"`
}

// NewJobDeltaRejectedEvent creates a new delta rejected event
func NewJobDeltaRejectedEvent(jobID, staffID uuid.UUID, submitted, current string) *JobDeltaRejectedEvent {
	return &JobDeltaRejectedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventJobDeltaRejected, "Job", jobID),
		StaffID:           staffID,
		SubmittedChecksum: submitted,
		CurrentChecksum:   current,
		RejectedAt:        time.Now(),
	}
}
