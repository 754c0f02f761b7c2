package job

import (
	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// DeltaRejection records a job edit that was refused because the submitted
// checksum no longer matched the stored state. Kept for auditing and pruned
// after a retention window.
type DeltaRejection struct {
	shared.BaseEntity
	JobID             uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	StaffID           uuid.UUID `gorm:"type:uuid;not null" json:"staff_id"`
	SubmittedChecksum string    `gorm:"not null;size:64" json:"submitted_checksum"`
	CurrentChecksum   string    `gorm:"not null;size:64" json:"current_checksum"`
	Payload           string    `gorm:"type:text" json:"payload"`
	Reason            string    `gorm:"size:255" json:"reason"`
}

// TableName returns the table name for GORM
func (DeltaRejection) TableName() string {
	return "job_delta_rejections"
}

// NewDeltaRejection records a refused delta against a job
func NewDeltaRejection(jobID, staffID uuid.UUID, submitted, current, payload, reason string) *DeltaRejection {
	return &DeltaRejection{
		BaseEntity:        shared.NewBaseEntity(),
		JobID:             jobID,
		StaffID:           staffID,
		SubmittedChecksum: submitted,
		CurrentChecksum:   current,
		Payload:           payload,
		Reason:            reason,
	}
}
