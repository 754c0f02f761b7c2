package workforce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

var maxDailyHours = decimal.NewFromInt(24)

// TimeEntry records hours a staff member worked on a job. Wage and
// charge-out rates are frozen at logging time so later rate changes do not
// rewrite history.
type TimeEntry struct {
	shared.BaseAggregateRoot
	StaffID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_time_entries_staff_date" json:"staff_id"`
	JobID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	EntryDate     time.Time       `gorm:"type:date;not null;index:idx_time_entries_staff_date" json:"entry_date"`
	Hours         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours"`
	Billable      bool            `gorm:"not null;default:true" json:"billable"`
	Description   string          `gorm:"size:500" json:"description"`
	WageRate      decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"wage_rate"`
	ChargeOutRate decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"charge_out_rate"`
}

// TableName returns the table name for GORM
func (TimeEntry) TableName() string {
	return "time_entries"
}

// NewTimeEntry logs hours for a staff member against a job, freezing the
// staff member's current rates
func NewTimeEntry(staff *Staff, jobID uuid.UUID, entryDate time.Time, hours decimal.Decimal, billable bool, description string) (*TimeEntry, error) {
	if staff == nil || !staff.Active {
		return nil, shared.NewDomainError("INVALID_STAFF", "Time can only be logged for active staff")
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Time entry must belong to a job")
	}
	if !hours.IsPositive() || hours.GreaterThan(maxDailyHours) {
		return nil, shared.NewDomainError("INVALID_HOURS", "Hours must be greater than 0 and at most 24")
	}

	day := time.Date(entryDate.Year(), entryDate.Month(), entryDate.Day(), 0, 0, 0, 0, time.UTC)
	e := &TimeEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StaffID:           staff.GetID(),
		JobID:             jobID,
		EntryDate:         day,
		Hours:             hours,
		Billable:          billable,
		Description:       strings.TrimSpace(description),
		WageRate:          staff.WageRate,
		ChargeOutRate:     staff.ChargeOutRate,
	}
	e.AddDomainEvent(NewTimeLoggedEvent(e, staff.Name))
	return e, nil
}

// WageCost returns what the hours cost the business
func (e *TimeEntry) WageCost() decimal.Decimal {
	return e.Hours.Mul(e.WageRate).Round(2)
}

// ChargeValue returns what the hours earn if billed
func (e *TimeEntry) ChargeValue() decimal.Decimal {
	if !e.Billable {
		return decimal.Zero
	}
	return e.Hours.Mul(e.ChargeOutRate).Round(2)
}

// UpdateHours corrects the logged hours
func (e *TimeEntry) UpdateHours(hours decimal.Decimal) error {
	if !hours.IsPositive() || hours.GreaterThan(maxDailyHours) {
		return shared.NewDomainError("INVALID_HOURS", "Hours must be greater than 0 and at most 24")
	}
	e.Hours = hours
	e.Touch()
	return nil
}
