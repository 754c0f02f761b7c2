package workforce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Event types for the workforce context
const (
	EventTimeLogged = "workforce.time.logged"
)

// TimeLoggedEvent is raised when hours are logged against a job. The job
// context turns billable entries into actual time cost lines.
type TimeLoggedEvent struct {
	shared.BaseDomainEvent
	StaffID       uuid.UUID       `json:"staff_id"`
	StaffName     string          `json:"staff_name"`
	JobID         uuid.UUID       `json:"job_id"`
	EntryDate     time.Time       `json:"entry_date"`
	Hours         decimal.Decimal `json:"hours"`
	Billable      bool            `json:"billable"`
	WageRate      decimal.Decimal `json:"wage_rate"`
	ChargeOutRate decimal.Decimal `json:"charge_out_rate"`
}

// NewTimeLoggedEvent creates a new time logged event
func NewTimeLoggedEvent(e *TimeEntry, staffName string) *TimeLoggedEvent {
	return &TimeLoggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTimeLogged, "TimeEntry", e.GetID()),
		StaffID:         e.StaffID,
		StaffName:       staffName,
		JobID:           e.JobID,
		EntryDate:       e.EntryDate,
		Hours:           e.Hours,
		Billable:        e.Billable,
		WageRate:        e.WageRate,
		ChargeOutRate:   e.ChargeOutRate,
	}
}
