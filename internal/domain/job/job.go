package job

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	StatusQuoting           JobStatus = "QUOTING"
	StatusAcceptedQuote     JobStatus = "ACCEPTED_QUOTE"
	StatusInProgress        JobStatus = "IN_PROGRESS"
	StatusRecentlyCompleted JobStatus = "RECENTLY_COMPLETED"
	StatusCompleted         JobStatus = "COMPLETED"
	StatusRejected          JobStatus = "REJECTED"
)

// PricingMethodology determines how a job is priced
type PricingMethodology string

const (
	PricingTimeMaterials PricingMethodology = "TIME_MATERIALS"
	PricingFixedPrice    PricingMethodology = "FIXED_PRICE"
)

// validTransitions maps each status to the statuses it may move to
var validTransitions = map[JobStatus][]JobStatus{
	StatusQuoting:           {StatusAcceptedQuote, StatusRejected},
	StatusAcceptedQuote:     {StatusInProgress, StatusRejected},
	StatusInProgress:        {StatusRecentlyCompleted},
	StatusRecentlyCompleted: {StatusCompleted},
	StatusCompleted:         {},
	StatusRejected:          {},
}

// Job is the central aggregate of the workshop: one piece of work for a
// client, from quoting through completion
type Job struct {
	shared.BaseAggregateRoot
	Number          string             `gorm:"uniqueIndex;not null;size:20" json:"number"`
	Name            string             `gorm:"not null;size:255" json:"name"`
	ClientID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientContact   string             `gorm:"size:255" json:"client_contact"`
	Description     string             `gorm:"type:text" json:"description"`
	OrderNumber     string             `gorm:"size:100" json:"order_number"`
	Notes           string             `gorm:"type:text" json:"notes"`
	Pricing         PricingMethodology `gorm:"not null;size:20;default:'TIME_MATERIALS'" json:"pricing"`
	Status          JobStatus          `gorm:"not null;size:20;index" json:"status"`
	DeliveryDate    *time.Time         `json:"delivery_date,omitempty"`
	QuoteAcceptedAt *time.Time         `json:"quote_accepted_at,omitempty"`
	Paused          bool               `gorm:"not null;default:false" json:"paused"`
	RejectedReason  string             `gorm:"size:500" json:"rejected_reason,omitempty"`
	Complexity      int                `gorm:"not null;default:0" json:"complexity"`
	People          []Assignment       `gorm:"foreignKey:JobID" json:"people,omitempty"`

	// Latest cost set revision per kind, maintained by the costing service
	LatestEstimateRev int `gorm:"not null;default:0" json:"latest_estimate_rev"`
	LatestQuoteRev    int `gorm:"not null;default:0" json:"latest_quote_rev"`
	LatestActualRev   int `gorm:"not null;default:0" json:"latest_actual_rev"`
}

// Assignment links a staff member to a job
type Assignment struct {
	shared.BaseEntity
	JobID   uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	StaffID uuid.UUID `gorm:"type:uuid;not null" json:"staff_id"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// TableName returns the table name for GORM
func (Assignment) TableName() string {
	return "job_assignments"
}

// NewJob creates a new job in QUOTING status
func NewJob(number, name string, clientID uuid.UUID, pricing PricingMethodology) (*Job, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_JOB_NUMBER", "Job number cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_JOB_NAME", "Job name cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Job must belong to a client")
	}
	if pricing == "" {
		pricing = PricingTimeMaterials
	}
	if pricing != PricingTimeMaterials && pricing != PricingFixedPrice {
		return nil, shared.NewDomainError("INVALID_PRICING", "Unknown pricing methodology")
	}

	j := &Job{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Name:              name,
		ClientID:          clientID,
		Pricing:           pricing,
		Status:            StatusQuoting,
	}
	j.AddDomainEvent(NewJobCreatedEvent(j))
	return j, nil
}

// CanTransitionTo checks whether the job may move to the target status
func (j *Job) CanTransitionTo(target JobStatus) bool {
	for _, s := range validTransitions[j.Status] {
		if s == target {
			return true
		}
	}
	return false
}

func (j *Job) transitionTo(target JobStatus) error {
	if !j.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition job from "+string(j.Status)+" to "+string(target))
	}
	from := j.Status
	j.Status = target
	j.Touch()
	j.AddDomainEvent(NewJobStatusChangedEvent(j, from, target))
	return nil
}

// AcceptQuote moves the job to ACCEPTED_QUOTE and records the acceptance time
func (j *Job) AcceptQuote(at time.Time) error {
	if err := j.transitionTo(StatusAcceptedQuote); err != nil {
		return err
	}
	j.QuoteAcceptedAt = &at
	return nil
}

// Start moves an accepted job into IN_PROGRESS
func (j *Job) Start() error {
	return j.transitionTo(StatusInProgress)
}

// Pause flags an in-progress job as paused. Paused is a flag, not a status.
func (j *Job) Pause() error {
	if j.Status != StatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only jobs in progress can be paused")
	}
	if j.Paused {
		return shared.NewDomainError("INVALID_STATE", "Job is already paused")
	}
	j.Paused = true
	j.Touch()
	return nil
}

// Resume clears the paused flag
func (j *Job) Resume() error {
	if !j.Paused {
		return shared.NewDomainError("INVALID_STATE", "Job is not paused")
	}
	j.Paused = false
	j.Touch()
	return nil
}

// Complete moves an in-progress job to RECENTLY_COMPLETED
func (j *Job) Complete() error {
	if j.Paused {
		return shared.NewDomainError("INVALID_STATE", "Cannot complete a paused job")
	}
	return j.transitionTo(StatusRecentlyCompleted)
}

// Archive moves a recently completed job to COMPLETED
func (j *Job) Archive() error {
	return j.transitionTo(StatusCompleted)
}

// Reject rejects a job that has not yet started
func (j *Job) Reject(reason string) error {
	if err := j.transitionTo(StatusRejected); err != nil {
		return err
	}
	j.RejectedReason = reason
	return nil
}

// IsRejected reports whether the job has been rejected
func (j *Job) IsRejected() bool {
	return j.Status == StatusRejected
}

// AssignPerson adds a staff member to the job's people list
func (j *Job) AssignPerson(staffID uuid.UUID) error {
	if staffID == uuid.Nil {
		return shared.NewDomainError("INVALID_STAFF", "Staff ID cannot be empty")
	}
	for _, a := range j.People {
		if a.StaffID == staffID {
			return shared.NewDomainError("ALREADY_ASSIGNED", "Staff member is already assigned to this job")
		}
	}
	j.People = append(j.People, Assignment{
		BaseEntity: shared.NewBaseEntity(),
		JobID:      j.GetID(),
		StaffID:    staffID,
	})
	j.Touch()
	return nil
}

// UnassignPerson removes a staff member from the job's people list
func (j *Job) UnassignPerson(staffID uuid.UUID) error {
	for i, a := range j.People {
		if a.StaffID == staffID {
			j.People = append(j.People[:i], j.People[i+1:]...)
			j.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_ASSIGNED", "Staff member is not assigned to this job")
}

// LatestRev returns the latest cost set revision for the given kind
func (j *Job) LatestRev(kind CostSetKind) int {
	switch kind {
	case CostSetEstimate:
		return j.LatestEstimateRev
	case CostSetQuote:
		return j.LatestQuoteRev
	case CostSetActual:
		return j.LatestActualRev
	}
	return 0
}

// SetLatestRev records a new latest cost set revision for the given kind
func (j *Job) SetLatestRev(kind CostSetKind, rev int) error {
	if rev <= j.LatestRev(kind) {
		return shared.NewDomainError("INVALID_REV", "Cost set revision must increase")
	}
	switch kind {
	case CostSetEstimate:
		j.LatestEstimateRev = rev
	case CostSetQuote:
		j.LatestQuoteRev = rev
	case CostSetActual:
		j.LatestActualRev = rev
	default:
		return shared.NewDomainError("INVALID_COST_SET_KIND", "Unknown cost set kind")
	}
	j.Touch()
	return nil
}
